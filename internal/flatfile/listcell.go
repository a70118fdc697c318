package flatfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ordersynth/internal/model"
)

// ErrMalformedList is returned when a list cell does not follow the grammar:
//
//	list    = "[" [ element *( "," *SP element ) ] "]"
//	element = quoted | bare
//	quoted  = "'" *( char | "\'" | "\\" ) "'"
//	bare    = 1*( char except "," "[" "]" "'" )
var ErrMalformedList = errors.New("malformed list cell")

// Element is one decoded list element.
type Element struct {
	Value string
	// Quoted is set for quoted elements, so '' is an empty string and not
	// a missing value.
	Quoted bool
}

// Missing reports whether e is an empty bare element, as in "[1, , 2]".
func (e Element) Missing() bool { return !e.Quoted && e.Value == "" }

// EncodeStrings renders s as a list of quoted elements.
func EncodeStrings(s []string) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = quote(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// EncodeFloats renders f as a list of bare numbers.
func EncodeFloats(f []float64) string {
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = model.FormatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// EncodeInts renders n as a list of bare integers.
func EncodeInts(n []int) string {
	parts := make([]string, len(n))
	for i, v := range n {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('\'')
	return b.String()
}

// SplitList decodes a list cell into its elements. Quoted elements are
// unescaped, bare elements are trimmed of spaces. A single layer of
// surrounding double quotes is stripped first.
func SplitList(cell string) ([]Element, error) {
	s := strings.TrimSpace(cell)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("%w: %q: missing brackets", ErrMalformedList, cell)
	}
	body := s[1 : len(s)-1]
	if strings.TrimSpace(body) == "" {
		return []Element{}, nil
	}

	var out []Element
	i := 0
	for {
		for i < len(body) && body[i] == ' ' {
			i++
		}
		var elem Element
		if i < len(body) && body[i] == '\'' {
			var b strings.Builder
			i++
			closed := false
			for i < len(body) {
				c := body[i]
				if c == '\\' {
					if i+1 >= len(body) || (body[i+1] != '\'' && body[i+1] != '\\') {
						return nil, fmt.Errorf("%w: %q: bad escape at %d", ErrMalformedList, cell, i)
					}
					b.WriteByte(body[i+1])
					i += 2
					continue
				}
				if c == '\'' {
					closed = true
					i++
					break
				}
				b.WriteByte(c)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("%w: %q: unterminated quote", ErrMalformedList, cell)
			}
			for i < len(body) && body[i] == ' ' {
				i++
			}
			elem = Element{Value: b.String(), Quoted: true}
		} else {
			start := i
			for i < len(body) && body[i] != ',' {
				switch body[i] {
				case '[', ']', '\'':
					return nil, fmt.Errorf("%w: %q: unexpected %q at %d", ErrMalformedList, cell, body[i], i)
				}
				i++
			}
			elem = Element{Value: strings.TrimSpace(body[start:i])}
		}
		out = append(out, elem)

		if i >= len(body) {
			return out, nil
		}
		if body[i] != ',' {
			return nil, fmt.Errorf("%w: %q: expected ',' at %d", ErrMalformedList, cell, i)
		}
		i++
	}
}
