package resource

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// normalize replaces every character that cannot appear in a Go identifier
// with an underscore.
func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}

		return '_'
	}, name)
}

func letterPrefix(ident string) string {
	if ident == "" {
		return "R"
	}

	if !unicode.IsLetter(firstRune(ident)) {
		return "R" + ident
	}

	return ident
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)

	return r
}

// ConstName returns the exported identifier of a scalar or array resource,
// e.g. "invalid_credentials" gives "INVALID_CREDENTIALS".
func ConstName(name string) string {
	return letterPrefix(strcase.ToScreamingSnake(normalize(name)))
}

// FuncName returns the exported identifier of a template function,
// e.g. "welcome_message" gives "WelcomeMessage".
func FuncName(name string) string {
	return letterPrefix(strcase.ToCamel(normalize(name)))
}

// PackageName returns a valid Go package name for a namespace.
func PackageName(name string) string {
	s := strings.ToLower(normalize(name))
	s = strings.Trim(s, "_")

	switch {
	case s == "":
		s = "r"
	case !unicode.IsLetter(firstRune(s)):
		s = "r" + s
	}

	if token.IsKeyword(s) {
		s += "_"
	}

	return s
}

// paramName returns a safe local identifier for a template parameter.
func paramName(name string) string {
	if token.IsKeyword(name) || name == "strconv" {
		return name + "_"
	}

	return name
}

// aliasName returns the flat identifier of the resource at path.
func aliasName(path string, fn bool) string {
	if fn {
		return FuncName(path)
	}

	return ConstName(path)
}
