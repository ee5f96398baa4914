package resource

//go:generate go tool stringer --linecomment --type Kind,NumberKind,ParamType --output value_string.go

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a [Value].
type Kind uint8

const (
	KindString        Kind = iota // string
	KindBool                      // bool
	KindColor                     // color
	KindURL                       // url
	KindDimension                 // dimension
	KindNumber                    // number
	KindStringArray               // string-array
	KindIntArray                  // int-array
	KindFloatArray                // float-array
	KindBoolArray                 // bool-array
	KindTemplate                  // template
	KindReference                 // reference
	KindInterpolation             // interpolation
)

// NumberKind is the representation of a numeric literal.
type NumberKind uint8

const (
	Int8    NumberKind = iota // i8
	Int16                     // i16
	Int32                     // i32
	Int64                     // i64
	Uint8                     // u8
	Uint16                    // u16
	Uint32                    // u32
	Uint64                    // u64
	Float32                   // f32
	Float64                   // f64
	Decimal                   // decimal
)

// IsInt reports whether k is a signed integer representation.
func (k NumberKind) IsInt() bool { return k <= Int64 }

// IsUint reports whether k is an unsigned integer representation.
func (k NumberKind) IsUint() bool { return k >= Uint8 && k <= Uint64 }

// IsFloat reports whether k is a binary floating-point representation.
func (k NumberKind) IsFloat() bool { return k == Float32 || k == Float64 }

// BitSize returns the width of fixed-size representations, or 0 for Decimal.
func (k NumberKind) BitSize() int {
	switch k {
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64:
		return 64
	default:
		return 0
	}
}

// GoType returns the Go type used to emit values of kind k.
func (k NumberKind) GoType() string {
	switch k {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "*big.Rat"
	}
}

var numberKinds = map[string]NumberKind{
	"i8": Int8, "i16": Int16, "i32": Int32, "i64": Int64,
	"u8": Uint8, "u16": Uint16, "u32": Uint32, "u64": Uint64,
	"f32": Float32, "f64": Float64,
	"decimal": Decimal, "bigdecimal": Decimal,
}

// ParseNumberKind parses an explicit type override such as "i8" or "f64".
func ParseNumberKind(s string) (NumberKind, bool) {
	k, ok := numberKinds[strings.ToLower(strings.TrimSpace(s))]

	return k, ok
}

// Value is a resource value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	// Text returns the canonical textual form used for interpolation.
	Text() string
	value()
}

type (
	// String is plain text.
	String struct{ V string }
	// Bool is a boolean literal.
	Bool struct{ V bool }
	// Color is a validated "#RRGGBB" or "#AARRGGBB" literal.
	Color struct{ Hex string }
	// URL is a validated absolute URL.
	URL struct{ V string }
	// Dimension is a magnitude with a unit suffix such as "16dp".
	Dimension struct{ Magnitude, Unit string }
	// Number is a classified numeric literal. Literal is the source text and
	// Canon the normalized form that parses back to the same value.
	Number struct {
		Literal string
		Canon   string
		Repr    NumberKind
	}
	// StringArray is an ordered list of strings.
	StringArray struct{ Items []string }
	// IntArray is an ordered list of integers, each validated against Elem.
	IntArray struct {
		Items []int64
		Elem  NumberKind
	}
	// FloatArray is an ordered list of floats, each validated against Elem.
	FloatArray struct {
		Items []float64
		Elem  NumberKind
	}
	// BoolArray is an ordered list of booleans.
	BoolArray struct{ Items []bool }
	// Template is a parameterized format string. Pending holds the format
	// split around references until they are resolved; Segments is filled
	// in by the template compiler.
	Template struct {
		Format   string
		Params   []Param
		Pending  []Part
		Segments []Segment
	}
	// Reference is an unresolved pointer to another declaration.
	Reference struct {
		Raw      string
		Segments []string
	}
	// Interpolation is text with embedded references.
	Interpolation struct{ Parts []Part }
)

// Part is either literal text or a reference inside an [Interpolation].
type Part struct {
	Ref  *Reference
	Text string
}

func (String) Kind() Kind        { return KindString }
func (Bool) Kind() Kind          { return KindBool }
func (Color) Kind() Kind         { return KindColor }
func (URL) Kind() Kind           { return KindURL }
func (Dimension) Kind() Kind     { return KindDimension }
func (Number) Kind() Kind        { return KindNumber }
func (StringArray) Kind() Kind   { return KindStringArray }
func (IntArray) Kind() Kind      { return KindIntArray }
func (FloatArray) Kind() Kind    { return KindFloatArray }
func (BoolArray) Kind() Kind     { return KindBoolArray }
func (Template) Kind() Kind      { return KindTemplate }
func (Reference) Kind() Kind     { return KindReference }
func (Interpolation) Kind() Kind { return KindInterpolation }

func (v String) Text() string    { return v.V }
func (v Bool) Text() string      { return strconv.FormatBool(v.V) }
func (v Color) Text() string     { return v.Hex }
func (v URL) Text() string       { return v.V }
func (v Dimension) Text() string { return v.Magnitude + v.Unit }
func (v Number) Text() string    { return v.Literal }
func (v Template) Text() string  { return v.Format }
func (v Reference) Text() string { return v.Raw }

func (v StringArray) Text() string { return "[" + strings.Join(v.Items, ", ") + "]" }

func (v IntArray) Text() string {
	s := make([]string, len(v.Items))
	for i, n := range v.Items {
		s[i] = strconv.FormatInt(n, 10)
	}

	return "[" + strings.Join(s, ", ") + "]"
}

func (v FloatArray) Text() string {
	s := make([]string, len(v.Items))
	for i, f := range v.Items {
		s[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}

	return "[" + strings.Join(s, ", ") + "]"
}

func (v BoolArray) Text() string {
	s := make([]string, len(v.Items))
	for i, b := range v.Items {
		s[i] = strconv.FormatBool(b)
	}

	return "[" + strings.Join(s, ", ") + "]"
}

func (v Interpolation) Text() string {
	var b strings.Builder
	for _, p := range v.Parts {
		if p.Ref != nil {
			b.WriteString(p.Ref.Raw)
		} else {
			b.WriteString(p.Text)
		}
	}

	return b.String()
}

func (String) value()        {}
func (Bool) value()          {}
func (Color) value()         {}
func (URL) value()           {}
func (Dimension) value()     {}
func (Number) value()        {}
func (StringArray) value()   {}
func (IntArray) value()      {}
func (FloatArray) value()    {}
func (BoolArray) value()     {}
func (Template) value()      {}
func (Reference) value()     {}
func (Interpolation) value() {}

// IsResolved reports whether v contains no unresolved parts.
func IsResolved(v Value) bool {
	switch v := v.(type) {
	case Reference, Interpolation:
		return false
	case Template:
		return v.Pending == nil
	}

	return true
}

// ParamType is the declared type of a template parameter.
type ParamType uint8

const (
	ParamString ParamType = iota // string
	ParamInt                     // int
	ParamFloat                   // float
	ParamBool                    // bool
)

// GoType returns the Go type of generated function arguments.
func (t ParamType) GoType() string {
	switch t {
	case ParamInt:
		return "int64"
	case ParamFloat:
		return "float64"
	case ParamBool:
		return "bool"
	default:
		return "string"
	}
}

// ParseParamType parses a parameter type name, accepting the tag names of
// the child-element parameter form.
func ParseParamType(s string) (ParamType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "string", "str":
		return ParamString, true
	case "int", "integer", "number", "i8", "i16", "i32", "i64":
		return ParamInt, true
	case "float", "f32", "f64":
		return ParamFloat, true
	case "bool", "boolean":
		return ParamBool, true
	}

	return 0, false
}

// Param is a template parameter. Position fixes the argument order.
type Param struct {
	Name     string
	Type     ParamType
	Position int
}
