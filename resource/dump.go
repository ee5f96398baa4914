package resource

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// DumpFormat selects the encoding of [Dump].
type DumpFormat string

const (
	DumpYAML DumpFormat = "yaml"
	DumpJSON DumpFormat = "json"
)

// Dump writes the resolved tree to w in declaration order. Namespace keys
// carry a trailing path separator so they never collide with a declaration
// of the same name.
func Dump(w io.Writer, t *Tree, format DumpFormat) error {
	doc := dumpNamespace(t, Root)

	var (
		out []byte
		err error
	)

	switch format {
	case DumpJSON:
		out, err = json.MarshalIndent(orderedJSON(doc), "", "  ")
		out = append(out, '\n')
	case DumpYAML, "":
		out, err = yaml.MarshalWithOptions(doc, yaml.Indent(2), yaml.UseLiteralStyleIfMultiline(true))
	default:
		return fmt.Errorf("unknown dump format %q", format)
	}

	if err != nil {
		return err
	}

	_, err = w.Write(out)

	return err
}

func dumpNamespace(t *Tree, id NamespaceID) yaml.MapSlice {
	n := t.Namespace(id)
	doc := make(yaml.MapSlice, 0, len(n.Decls)+len(n.Children))

	for _, d := range n.Decls {
		decl := t.Decl(d)
		doc = append(doc, yaml.MapItem{Key: decl.Name, Value: dumpDecl(decl)})
	}

	for _, c := range n.Children {
		doc = append(doc, yaml.MapItem{
			Key:   t.Namespace(c).Name + PathSep,
			Value: dumpNamespace(t, c),
		})
	}

	return doc
}

func dumpDecl(d *Decl) yaml.MapSlice {
	m := yaml.MapSlice{{Key: "kind", Value: d.Value.Kind().String()}}

	switch v := d.Value.(type) {
	case Number:
		m = append(m,
			yaml.MapItem{Key: "type", Value: v.Repr.String()},
			yaml.MapItem{Key: "value", Value: numberValue(v)})
	case IntArray:
		m = append(m,
			yaml.MapItem{Key: "type", Value: v.Elem.String()},
			yaml.MapItem{Key: "value", Value: v.Items})
	case FloatArray:
		m = append(m,
			yaml.MapItem{Key: "type", Value: v.Elem.String()},
			yaml.MapItem{Key: "value", Value: v.Items})
	case StringArray:
		m = append(m, yaml.MapItem{Key: "value", Value: v.Items})
	case BoolArray:
		m = append(m, yaml.MapItem{Key: "value", Value: v.Items})
	case Bool:
		m = append(m, yaml.MapItem{Key: "value", Value: v.V})
	case Template:
		params := make([]string, len(v.Params))
		for i, p := range v.Params {
			params[i] = p.Name + " " + p.Type.String()
		}

		m = append(m,
			yaml.MapItem{Key: "format", Value: v.Format},
			yaml.MapItem{Key: "params", Value: params})
	default:
		m = append(m, yaml.MapItem{Key: "value", Value: v.Text()})
	}

	if d.Doc != "" {
		m = append(m, yaml.MapItem{Key: "doc", Value: d.Doc})
	}

	return m
}

// numberValue returns the native form of n, or its canonical text when no
// native type holds it exactly.
func numberValue(n Number) any {
	switch {
	case n.Repr.IsInt():
		if v, err := strconv.ParseInt(n.Canon, 10, 64); err == nil {
			return v
		}
	case n.Repr.IsUint():
		if v, err := strconv.ParseUint(n.Canon, 10, 64); err == nil {
			return v
		}
	case n.Repr.IsFloat():
		if v, err := strconv.ParseFloat(n.Canon, 64); err == nil {
			return v
		}
	}

	return n.Canon
}

// orderedJSON encodes a MapSlice as a JSON object preserving key order.
type orderedJSON yaml.MapSlice

func (m orderedJSON) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer

	b.WriteByte('{')

	for i, item := range m {
		if i > 0 {
			b.WriteByte(',')
		}

		key, err := json.Marshal(fmt.Sprint(item.Key))
		if err != nil {
			return nil, err
		}

		val := item.Value
		if sub, ok := val.(yaml.MapSlice); ok {
			val = orderedJSON(sub)
		}

		enc, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}

		b.Write(key)
		b.WriteByte(':')
		b.Write(enc)
	}

	b.WriteByte('}')

	return b.Bytes(), nil
}
