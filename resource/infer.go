package resource

import (
	"errors"
	"log/slog"
	"math"
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// maxFloatDigits is the number of significant decimal digits a float64 is
// trusted to carry. Fractional literals with more digits are kept exact.
const maxFloatDigits = 15

var (
	numberRE    = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
	colorRE     = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)
	dimensionRE = regexp.MustCompile(`^([+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+))(dp|sp|px|pt|rem|em|%|vh|vw|in|mm|cm)$`)
)

// DimensionUnits lists the accepted dimension suffixes.
var DimensionUnits = []string{
	"dp", "sp", "px", "pt", "em", "rem", "%", "vh", "vw", "in", "mm", "cm",
}

func invalid(what, lit string) *Error {
	return ErrTypeValidation.Wrapf("invalid " + what + " " + strconv.Quote(lit)).
		With(slog.String("literal", lit), slog.String("type", what))
}

// ClassifyNumber infers the representation of a literal with no explicit
// type. Integers that fit int64 are Int64, fractional or exponent literals
// are Float64, and anything that would lose range or precision is Decimal.
func ClassifyNumber(lit string) (Number, error) {
	s := strings.TrimSpace(lit)
	if !numberRE.MatchString(s) {
		return Number{}, invalid("number", lit)
	}

	if isIntegral(s) {
		n, err := ParseNumber(s, Int64)
		if err == nil {
			return n, nil
		}

		return ParseNumber(s, Decimal)
	}

	if significantDigits(s) > maxFloatDigits {
		return ParseNumber(s, Decimal)
	}

	n, err := ParseNumber(s, Float64)
	if err != nil {
		return ParseNumber(s, Decimal)
	}

	return n, nil
}

// ParseNumber validates lit against exactly the representation k.
// Out-of-range and malformed literals are rejected, never truncated.
func ParseNumber(lit string, k NumberKind) (Number, error) {
	s := strings.TrimSpace(lit)

	fail := func(cause string) (Number, error) {
		return Number{}, ErrTypeValidation.
			Wrapf(strconv.Quote(s) + " " + cause + " " + k.String()).
			With(slog.String("literal", s), slog.String("type", k.String()))
	}

	if !numberRE.MatchString(s) {
		return fail("is not a valid")
	}

	unsigned := strings.TrimPrefix(s, "+")

	switch {
	case k.IsInt():
		if !isIntegral(s) {
			return fail("is not an integer literal for")
		}

		v, err := strconv.ParseInt(unsigned, 10, k.BitSize())
		if err != nil {
			return fail("does not fit in")
		}

		return Number{Literal: s, Canon: strconv.FormatInt(v, 10), Repr: k}, nil

	case k.IsUint():
		if !isIntegral(s) {
			return fail("is not an integer literal for")
		}

		v, err := strconv.ParseUint(unsigned, 10, k.BitSize())
		if err != nil {
			return fail("does not fit in")
		}

		return Number{Literal: s, Canon: strconv.FormatUint(v, 10), Repr: k}, nil

	case k.IsFloat():
		v, err := strconv.ParseFloat(unsigned, k.BitSize())
		if err != nil || math.IsInf(v, 0) {
			if errors.Is(err, strconv.ErrRange) || math.IsInf(v, 0) {
				return fail("is out of range for")
			}

			return fail("is not a valid")
		}

		if v == 0 && !zeroMantissa(s) {
			return fail("is out of range for")
		}

		return Number{
			Literal: s,
			Canon:   strconv.FormatFloat(v, 'g', -1, k.BitSize()),
			Repr:    k,
		}, nil

	default:
		canon := trimLeadingZeros(unsigned)
		if _, ok := new(big.Rat).SetString(canon); !ok {
			return fail("is not a valid")
		}

		return Number{Literal: s, Canon: canon, Repr: Decimal}, nil
	}
}

// zeroMantissa reports whether the digits before any exponent are all zero.
func zeroMantissa(s string) bool {
	mant, _, _ := strings.Cut(strings.ToLower(s), "e")

	return !strings.ContainsAny(mant, "123456789")
}

func isIntegral(s string) bool { return !strings.ContainsAny(s, ".eE") }

func significantDigits(s string) int {
	mant, _, _ := strings.Cut(strings.ToLower(s), "e")
	mant = strings.TrimLeft(mant, "+-")
	digits := strings.ReplaceAll(mant, ".", "")
	digits = strings.TrimLeft(digits, "0")

	if strings.Contains(mant, ".") {
		return len(digits)
	}

	return len(strings.TrimRight(digits, "0"))
}

// trimLeadingZeros keeps a literal decimal so that no parser reads a
// leading zero as a base prefix.
func trimLeadingZeros(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	t := strings.TrimLeft(s, "0")
	if t == "" || t[0] == '.' || t[0] == 'e' || t[0] == 'E' {
		t = "0" + t
	}

	return sign + t
}

// ParseColor validates a "#RRGGBB" or "#AARRGGBB" literal.
func ParseColor(lit string) (Color, error) {
	s := strings.TrimSpace(lit)
	if !colorRE.MatchString(s) {
		return Color{}, invalid("color", lit)
	}

	return Color{Hex: s}, nil
}

// ParseURL checks that lit has both a scheme and a host.
func ParseURL(lit string) (URL, error) {
	s := strings.TrimSpace(lit)

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return URL{}, invalid("url", lit)
	}

	return URL{V: s}, nil
}

// ParseDimension splits a literal such as "16dp" into magnitude and unit.
func ParseDimension(lit string) (Dimension, error) {
	m := dimensionRE.FindStringSubmatch(strings.TrimSpace(lit))
	if m == nil {
		return Dimension{}, invalid("dimension", lit).
			With(slog.String("units", strings.Join(DimensionUnits, ",")))
	}

	return Dimension{Magnitude: m[1], Unit: m[2]}, nil
}

// ParseBool accepts exactly "true" or "false".
func ParseBool(lit string) (Bool, error) {
	switch strings.TrimSpace(lit) {
	case "true":
		return Bool{V: true}, nil
	case "false":
		return Bool{V: false}, nil
	}

	return Bool{}, invalid("bool", lit)
}

// inferLeaf maps the literal text of a scalar leaf to its value.
func inferLeaf(tag, override, text string) (Value, error) {
	switch tag {
	case "string":
		return String{V: text}, nil
	case "bool":
		return ParseBool(text)
	case "color":
		return ParseColor(text)
	case "url":
		return ParseURL(text)
	case "dimension":
		return ParseDimension(text)
	}

	if override != "" {
		k, ok := ParseNumberKind(override)
		if !ok {
			return nil, ErrTypeValidation.Wrapf("unknown number type " + strconv.Quote(override)).
				With(slog.String("type", override))
		}

		return ParseNumber(text, k)
	}

	switch tag {
	case "int":
		if !isIntegral(strings.TrimSpace(text)) {
			return ParseNumber(text, Int64)
		}

		n, err := ParseNumber(text, Int64)
		if err != nil {
			return ParseNumber(text, Decimal)
		}

		return n, nil

	case "float":
		return ParseNumber(text, Float64)
	}

	return ClassifyNumber(text)
}

// coerce converts a resolved value to the kind declared by a leaf's tag.
func coerce(tag, override string, v Value) (Value, error) {
	mismatch := func() (Value, error) {
		return nil, ErrTypeValidation.
			Wrapf("cannot use " + v.Kind().String() + " value as " + tag).
			With(slog.String("type", tag), slog.String("found", v.Kind().String()))
	}

	switch tag {
	case "string":
		switch v.(type) {
		case String, Bool, Color, URL, Dimension, Number:
			return String{V: v.Text()}, nil
		}

		return mismatch()

	case "color", "url", "dimension", "bool":
		if v.Kind().String() == tag {
			return v, nil
		}

		if s, ok := v.(String); ok {
			return inferLeaf(tag, override, s.V)
		}

		return mismatch()

	case "number", "int", "float":
		switch v := v.(type) {
		case Number:
			if override == "" && tag == "number" {
				return v, nil
			}

			return inferLeaf(tag, override, v.Literal)
		case String:
			return inferLeaf(tag, override, v.V)
		}

		return mismatch()
	}

	if v.Kind().String() == tag {
		return v, nil
	}

	return mismatch()
}
