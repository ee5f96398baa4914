package resource

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Segment is one piece of a compiled template: literal text, or the
// placeholder for the parameter at index Param.
type Segment struct {
	Text  string
	Param int
}

// IsLiteral reports whether s is literal text.
func (s Segment) IsLiteral() bool { return s.Param < 0 }

// parseFormat splits a template format into literal and placeholder
// segments. "{{" and "}}" are literal braces.
func parseFormat(format string) ([]Segment, *Error) {
	var (
		segs []Segment
		lit  strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Text: lit.String(), Param: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(format); i++ {
		c := format[i]

		switch {
		case (c == '{' || c == '}') && i+1 < len(format) && format[i+1] == c:
			lit.WriteByte(c)
			i++

		case c == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 || !isIdentifier(format[i+1:i+end]) {
				return nil, ErrTemplate.Wrapf("malformed placeholder at offset " + strconv.Itoa(i)).
					With(slog.String("format", format))
			}

			flush()
			segs = append(segs, Segment{Text: format[i+1 : i+end], Param: placeholderMark})
			i += end

		default:
			lit.WriteByte(c)
		}
	}

	flush()

	return segs, nil
}

// placeholderMark tags a segment whose parameter index is not bound yet.
const placeholderMark = -2

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isSegByte(s[i]) {
			return false
		}
	}

	return true
}

// compileTemplate binds the placeholders of v to its parameters.
// Undeclared placeholders, duplicate parameters and unused parameters are
// all [ErrTemplate] diagnostics.
func compileTemplate(v Template) (Template, *Error) {
	index := make(map[string]int, len(v.Params))
	locals := make(map[string]string, len(v.Params))

	for i, p := range v.Params {
		if _, dup := index[p.Name]; dup {
			return v, ErrTemplate.Wrapf("parameter " + strconv.Quote(p.Name) + " declared more than once").
				With(slog.String("param", p.Name))
		}

		local := paramName(p.Name)
		if prev, dup := locals[local]; dup {
			return v, ErrTemplate.Wrapf("parameters " + strconv.Quote(prev) + " and " +
				strconv.Quote(p.Name) + " both become Go parameter " + local).
				With(slog.String("param", p.Name), slog.String("ident", local))
		}

		index[p.Name] = i
		locals[local] = p.Name
	}

	segs, err := parseFormat(v.Format)
	if err != nil {
		return v, err
	}

	used := make([]bool, len(v.Params))

	for i, s := range segs {
		if s.Param != placeholderMark {
			continue
		}

		n, ok := index[s.Text]
		if !ok {
			return v, ErrTemplate.Wrapf("undeclared placeholder {" + s.Text + "}").
				With(slog.String("placeholder", s.Text))
		}

		segs[i] = Segment{Text: s.Text, Param: n}
		used[n] = true
	}

	for i, u := range used {
		if !u {
			name := v.Params[i].Name

			return v, ErrTemplate.Wrapf("parameter " + strconv.Quote(name) + " is never used").
				With(slog.String("param", name))
		}
	}

	v.Segments = segs

	return v, nil
}

// CompileTemplates compiles every template declaration of t.
func CompileTemplates(ctx context.Context, t *Tree, opts ...Option) error {
	o := makeOptions(opts...)

	var (
		errs  ErrorList
		count int
	)

	for id, d := range t.Decls() {
		v, ok := d.Value.(Template)
		if !ok {
			continue
		}

		c, err := compileTemplate(v)
		if err != nil {
			errs = append(errs, err.In(t.Path(id)).At(d.Pos))

			continue
		}

		d.Value = c
		count++
	}

	o.logger.TraceContext(ctx, "templates compiled", slog.Int("count", count))

	return errs.Err()
}

// Render evaluates a compiled template with one argument per parameter, in
// declaration order.
func (v Template) Render(args ...any) (string, error) {
	if len(args) != len(v.Params) {
		return "", ErrTemplate.Wrapf(fmt.Sprintf("want %d arguments, got %d", len(v.Params), len(args)))
	}

	text := make([]string, len(args))

	for i, p := range v.Params {
		s, err := formatArg(p, args[i])
		if err != nil {
			return "", err
		}

		text[i] = s
	}

	var b strings.Builder

	for _, s := range v.Segments {
		if s.IsLiteral() {
			b.WriteString(s.Text)
		} else {
			b.WriteString(text[s.Param])
		}
	}

	return b.String(), nil
}

// Signature describes the parameter list, e.g. "(name string, count int)".
func (v Template) Signature() string {
	s := make([]string, len(v.Params))
	for i, p := range v.Params {
		s[i] = p.Name + " " + p.Type.String()
	}

	return "(" + strings.Join(s, ", ") + ")"
}

// formatArg formats one argument the way generated code does.
func formatArg(p Param, arg any) (string, error) {
	bad := func() (string, error) {
		return "", ErrTemplate.Wrapf(fmt.Sprintf("argument %s: cannot use %T as %s", p.Name, arg, p.Type)).
			With(slog.String("param", p.Name))
	}

	switch p.Type {
	case ParamString:
		if s, ok := arg.(string); ok {
			return s, nil
		}

	case ParamInt:
		if n, ok := toInt64(arg); ok {
			return strconv.FormatInt(n, 10), nil
		}

	case ParamFloat:
		switch f := arg.(type) {
		case float64:
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		case float32:
			return strconv.FormatFloat(float64(f), 'g', -1, 64), nil
		}

		if n, ok := toInt64(arg); ok {
			return strconv.FormatFloat(float64(n), 'g', -1, 64), nil
		}

	case ParamBool:
		if b, ok := arg.(bool); ok {
			return strconv.FormatBool(b), nil
		}
	}

	return bad()
}

func toInt64(arg any) (int64, bool) {
	switch n := arg.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) <= 1<<63-1 {
			return int64(n), true
		}
	case uint64:
		if n <= 1<<63-1 {
			return int64(n), true
		}
	}

	return 0, false
}
