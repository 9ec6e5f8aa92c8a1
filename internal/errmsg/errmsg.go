// Package errmsg turns discovery errors into one-line messages for people.
package errmsg

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nao1215/linkscout/internal/discover"
)

// Unexpected is returned when an error carries no usable text.
const Unexpected = "Unexpected Error."

// Describe returns the error message followed by the detail a server put in
// its error response, each terminated by ". ".
//
// Response bodies are inspected in this order:
//
//	{"error": {...}}   the object, JSON-encoded
//	{"error": "text"}  the string
//	{"msg": ...}       the value
//	{"Message": ...}   the value
//	plain text         the body itself
func Describe(err error) string {
	if err == nil {
		return Unexpected
	}

	var b strings.Builder
	if msg := err.Error(); msg != "" {
		b.WriteString(msg)
		b.WriteString(". ")
	}

	var fetchErr *discover.FetchError
	if errors.As(err, &fetchErr) {
		if d := bodyDetail(fetchErr.Body); d != "" {
			b.WriteString(d)
			b.WriteString(". ")
		}
	}

	if b.Len() == 0 {
		return Unexpected
	}
	return b.String()
}

// bodyDetail extracts the human-readable part of an error response body.
func bodyDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var s string
		if json.Unmarshal(body, &s) == nil {
			return s
		}
		if json.Valid(body) {
			// A JSON number, array, bool or null says nothing useful.
			return ""
		}
		return string(body)
	}

	if raw, ok := fields["error"]; ok && truthy(raw) {
		switch raw[0] {
		case '{', '[':
			var compact bytes.Buffer
			if err := json.Compact(&compact, raw); err != nil {
				return ""
			}
			return compact.String()
		case '"':
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return ""
			}
			return s
		default:
			return ""
		}
	}

	for _, key := range []string{"msg", "Message"} {
		if raw, ok := fields[key]; ok && truthy(raw) {
			return scalar(raw)
		}
	}
	return ""
}

// truthy reports whether raw is anything but null, false, 0 or "".
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch string(raw) {
	case "null", "false", `""`:
		return false
	}
	if raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9') {
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f != 0
		}
	}
	return true
}

// scalar renders a JSON value as text. Strings are unquoted, anything else
// is kept in compact JSON form.
func scalar(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
