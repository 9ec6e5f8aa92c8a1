package query

import (
	"strconv"
	"strings"
)

// Param is one key/value pair.
type Param struct {
	Key   string
	Value Value
}

// Params is an ordered list of parameters.
type Params []Param

// Serialize encodes params as a query string without the leading "?".
// Null values are skipped. A list value is written once per element as
// key[i]=v, or key=v when skipIndex is true.
func Serialize(params Params, skipIndex bool) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		switch p.Value.kind {
		case KindNull:
			continue
		case KindList:
			for i, item := range p.Value.list {
				key := p.Key
				if !skipIndex {
					key += "[" + strconv.Itoa(i) + "]"
				}
				parts = append(parts, encode(key)+"="+encode(item.text()))
			}
		default:
			parts = append(parts, encode(p.Key)+"="+encode(p.Value.text()))
		}
	}
	return strings.Join(parts, "&")
}

// Append adds the serialized params to rawURL, joining with "?" or "&" as
// needed. rawURL is returned unchanged when nothing is serialized.
func Append(rawURL string, params Params, skipIndex bool) string {
	q := Serialize(params, skipIndex)
	if q == "" {
		return rawURL
	}

	base, fragment, hasFragment := strings.Cut(rawURL, "#")
	switch {
	case !strings.Contains(base, "?"):
		base += "?" + q
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		base += q
	default:
		base += "&" + q
	}
	if hasFragment {
		return base + "#" + fragment
	}
	return base
}

const upperhex = "0123456789ABCDEF"

// encode percent-encodes s like encodeURIComponent, then restores the
// characters that stay readable in query strings.
func encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case keep(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

// keep reports whether c is written without escaping.
func keep(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	case ':', '$', ',', '[', ']':
		return true
	}
	return false
}
