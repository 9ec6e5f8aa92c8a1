package placeholder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingVariable is returned (wrapped in *MissingVariableError) when a
// template refers to a variable that has no value.
var ErrMissingVariable = errors.New("missing variable")

// MissingVariableError reports the variable that could not be expanded.
type MissingVariableError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingVariable, e.Name)
}

// Unwrap returns ErrMissingVariable.
func (e *MissingVariableError) Unwrap() error {
	return ErrMissingVariable
}

// Variables returns the text enclosed by each matching pair of braces, in
// the order the pairs close. Nested pairs are reported innermost first:
//
//	Variables("{a}/{b{c}}.") == []string{"a", "c", "b{c"}
//
// The final character of s is never examined, so a template that ends with
// "}" does not report its last variable.
func Variables(s string) []string {
	return scan(s, len(s)-1)
}

// Expand replaces every {name} in s with vars[name]. Unlike Variables it
// examines the whole string. The first name without a value is reported as
// *MissingVariableError.
func Expand(s string, vars map[string]string) (string, error) {
	names := scan(s, len(s))
	if len(names) == 0 {
		return s, nil
	}

	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		value, ok := vars[name]
		if !ok {
			return "", &MissingVariableError{Name: name}
		}
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(s), nil
}

// scan walks s[:end] with a stack of open brace positions.
func scan(s string, end int) []string {
	var (
		open  []int
		names []string
	)
	for i := 0; i < end; i++ {
		switch s[i] {
		case '{':
			open = append(open, i+1)
		case '}':
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			names = append(names, s[start:i])
		}
	}
	return names
}
