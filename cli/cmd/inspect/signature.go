package inspect

import (
	"strings"
	"unicode/utf8"
)

// call is the function call enclosing the cursor.
type call struct {
	name string // dotted callee, e.g. "auth.greet"
	arg  int    // zero-based index of the argument under the cursor
}

// detectCall finds the innermost unclosed call before cursor.
func detectCall(input string, cursor int) (call, bool) {
	cursor = min(cursor, len(input))

	open, depth := -1, 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return call{}, false
	}

	start := open

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '.' && isWordBoundary(r) {
			break
		}

		start -= size
	}

	name := strings.TrimSpace(input[start:open])
	if name == "" {
		return call{}, false
	}

	c := call{name: name}
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				c.arg++
			}
		}
	}

	return c, true
}

// params returns the parameter names of a callable resource, reporting
// false when name is not one.
func (s *session) params(name string) ([]string, bool) {
	if t, ok := s.templates[name]; ok {
		names := make([]string, len(t.Params))
		for i, p := range t.Params {
			names[i] = p.Name + " " + p.Type.String()
		}

		return names, true
	}

	p, ok := envFuncs[name]

	return p, ok
}

// renderSignature renders name(params...) with the current argument
// highlighted.
func renderSignature(name string, params []string, arg int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == arg {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
