package discover

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// defaultPorts maps schemes to the port that is implied when none is given.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// parseSeed validates that seed is an absolute http(s) URL with a host.
// The seed is requested and returned verbatim, so surrounding whitespace is
// rejected rather than trimmed.
func parseSeed(seed string) (*url.URL, error) {
	if seed != strings.TrimSpace(seed) {
		return nil, ErrInvalidSeed
	}

	u, err := url.Parse(seed)
	if err != nil {
		return nil, err
	}

	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return nil, ErrInvalidSeed
	}
	return u, nil
}

// resolve resolves a root-relative candidate against base.
func resolve(base *url.URL, candidate string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(candidate))
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(ref), nil
}

// normalizeKey returns the string used to compare URLs for equality.
//
// Scheme and host are case-folded, the host is converted to its ASCII
// (punycode) form, default ports are dropped, an empty path becomes "/" and
// the fragment is removed. Path and query are kept verbatim because they are
// case-sensitive.
func normalizeKey(u *url.URL) string {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Fragment = ""
	c.RawFragment = ""

	host := c.Hostname()
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	host = strings.ToLower(host)
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	if port := c.Port(); port != "" && port != defaultPorts[c.Scheme] {
		host += ":" + port
	}
	c.Host = host

	if c.Path == "" {
		c.Path = "/"
		c.RawPath = ""
	}

	return c.String()
}
