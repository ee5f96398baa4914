package cmd

import (
	"log/slog"
	"strings"
)

// Error is a command failure. Besides a message and an optional cause it
// may carry a hint telling the user how to recover, and attributes that are
// logged with it.
type Error struct {
	msg   string
	hint  string
	err   error
	attrs []slog.Attr
}

// NewError returns an Error with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error formats as "<msg>: <cause> (<hint>)", omitting absent parts.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.msg)

	if e.err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.err.Error())
	}

	if e.hint != "" {
		b.WriteString(" (" + e.hint + ")")
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same message, so errors
// derived with [Error.With] or [Error.Wrap] match their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)
	attrs = append(attrs, slog.String("error", e.msg))

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	if e.hint != "" {
		attrs = append(attrs, slog.String("hint", e.hint))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) clone() *Error {
	c := *e
	c.attrs = append([]slog.Attr(nil), e.attrs...)

	return &c
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With returns a copy of e with additional log attributes.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// Hint returns a copy of e suggesting how to recover.
func (e *Error) Hint(hint string) *Error {
	c := e.clone()
	c.hint = hint

	return c
}

var (
	ErrYAMLMarshal = NewError("marshal YAML")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists").Hint("use --force to overwrite")
	ErrNoSources   = NewError("no declaration sources found").Hint("pass --root or set RESC_PATH")
	ErrCompile     = NewError("compile failed")
	ErrStale       = NewError("generated output is stale").Hint("run resc build")
	ErrDump        = NewError("dump resources")
)
