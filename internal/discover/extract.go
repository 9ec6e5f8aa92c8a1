package discover

import (
	"bytes"
	"fmt"
	"mime"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// extractCandidates parses body as HTML and returns the href value of every
// anchor rooted at "/", in document order.
//
// The body is decoded to UTF-8 first, using the charset from the
// Content-Type header, a byte order mark or a <meta> declaration.
func extractCandidates(body []byte, contentType string) ([]string, error) {
	if !isMarkup(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrNotMarkup, contentType)
	}

	enc, _, _ := charset.DetermineEncoding(body, contentType)
	reader := transform.NewReader(bytes.NewReader(body), enc.NewDecoder())

	doc, err := html.Parse(reader)
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := getAttr(n, "href"); ok && isRootRelative(href) {
				candidates = append(candidates, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return candidates, nil
}

// isRootRelative reports whether href is a path-absolute reference such as
// "/docs". Network-path references ("//host/x", and "/\host/x" which
// browsers read the same way) point at other hosts and are excluded.
func isRootRelative(href string) bool {
	if !strings.HasPrefix(href, "/") {
		return false
	}
	return !strings.HasPrefix(href, "//") && !strings.HasPrefix(href, `/\`)
}

// isMarkup reports whether a Content-Type header value can describe an HTML
// or XML document. Missing or unparsable headers are given the benefit of
// the doubt.
func isMarkup(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}

	switch {
	case strings.HasPrefix(mediaType, "text/"):
		return true
	case strings.Contains(mediaType, "html"), strings.Contains(mediaType, "xml"):
		return true
	default:
		return false
	}
}

// getAttr returns the value of the attribute named key.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
