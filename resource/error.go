package resource

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Diagnostic kinds. Every compile failure wraps exactly one of these.
var (
	ErrSyntax           = NewError("syntax error")
	ErrDuplicatePath    = NewError("duplicate qualified path")
	ErrUnknownReference = NewError("unknown reference")
	ErrCyclicReference  = NewError("cyclic reference")
	ErrTypeValidation   = NewError("type validation failed")
	ErrTemplate         = NewError("template error")
	ErrReadInput        = NewError("failed to read input")
)

// Position identifies a location in a declaration source.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsZero reports whether p carries no location.
func (p Position) IsZero() bool { return p.File == "" && p.Line == 0 }

func (p Position) String() string {
	if p.IsZero() {
		return ""
	}

	s := p.File
	if s == "" {
		s = "<input>"
	}

	if p.Line > 0 {
		s += ":" + strconv.Itoa(p.Line)
		if p.Column > 0 {
			s += ":" + strconv.Itoa(p.Column)
		}
	}

	return s
}

// Error is a compile diagnostic with optional structured logging attributes.
// It implements both error and [slog.LogValuer].
type Error struct {
	msg   string
	kind  *Error
	err   error
	pos   Position
	path  string
	attrs []slog.Attr
}

// NewError creates a new diagnostic kind with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Kind returns the sentinel this error was derived from.
func (e *Error) Kind() *Error {
	if e.kind == nil {
		return e
	}

	return e.kind
}

// Path returns the qualified path of the offending declaration, if known.
func (e *Error) Path() string { return e.path }

// Position returns the source location of the offending declaration.
func (e *Error) Position() Position { return e.pos }

// Error implements the error interface.
//
// The format is "<pos>: <msg> <path>: <err>" with absent parts omitted.
func (e *Error) Error() string {
	var b strings.Builder

	if s := e.pos.String(); s != "" {
		b.WriteString(s)
		b.WriteString(": ")
	}

	b.WriteString(e.msg)

	if e.path != "" {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(e.path))
	}

	if e.err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.err.Error())
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t == e.Kind()
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)
	attrs = append(attrs, slog.String("error", e.msg))

	if e.path != "" {
		attrs = append(attrs, slog.String("path", e.path))
	}

	if s := e.pos.String(); s != "" {
		attrs = append(attrs, slog.String("pos", s))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) clone() *Error {
	c := *e
	c.kind = e.Kind()
	c.attrs = append([]slog.Attr(nil), e.attrs...)

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// Wrapf wraps a plain message as the cause.
func (e *Error) Wrapf(msg string) *Error { return e.Wrap(errors.New(msg)) }

// At returns a copy of e located at pos.
func (e *Error) At(pos Position) *Error {
	c := e.clone()
	c.pos = pos

	return c
}

// In returns a copy of e naming the qualified path.
func (e *Error) In(path string) *Error {
	c := e.clone()
	c.path = path

	return c
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// ErrorList collects every diagnostic produced by one pipeline stage.
type ErrorList []*Error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}

	return strings.Join(msgs, "\n")
}

// Unwrap exposes the members to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}

	return errs
}

// LogValue implements slog.LogValuer.
func (l ErrorList) LogValue() slog.Value {
	attrs := make([]slog.Attr, len(l))
	for i, e := range l {
		attrs[i] = slog.Any(strconv.Itoa(i), e)
	}

	return slog.GroupValue(attrs...)
}

// Err returns l as an error, or nil when l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}

	return l
}

// add appends err, flattening nested lists and promoting plain errors.
func (l *ErrorList) add(err error) {
	if err == nil {
		return
	}

	var list ErrorList
	if errors.As(err, &list) {
		*l = append(*l, list...)

		return
	}

	var e *Error
	if errors.As(err, &e) {
		*l = append(*l, e)

		return
	}

	*l = append(*l, ErrSyntax.Wrap(err))
}
