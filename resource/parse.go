package resource

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/klauspost/readahead"
)

// Source is one declaration document.
type Source struct {
	// Name identifies the document in diagnostics, usually its path or URL.
	Name string
	Data []byte
}

// ReadSource reads a whole declaration document from r.
func ReadSource(name string, r io.Reader) (Source, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return Source{}, ErrReadInput.Wrap(err).
			With(slog.String("source", name))
	}

	return Source{Name: name, Data: data}, nil
}

// Leaf and container tag names.
const (
	tagResources = "resources"
	tagNamespace = "ns"
	tagTemplate  = "template"
	tagArray     = "array"
	tagItem      = "item"
	tagParam     = "param"
	tagDoc       = "doc"
)

var leafTags = map[string]bool{
	"string": true, "number": true, "int": true, "float": true,
	"bool": true, "color": true, "url": true, "dimension": true,
}

var arrayTags = map[string]string{
	"string-array": "string",
	"int-array":    "int",
	"float-array":  "float",
	"bool-array":   "bool",
}

// parser reads one document into a tree. The namespace stack is a field of
// the parser, so independent parses never share state.
type parser struct {
	tree  *Tree
	dec   *xml.Decoder
	cond  *conditions
	name  string
	stack []NamespaceID
	errs  ErrorList
	count int
}

// Parse reads src into t. Namespaces that already exist in t are re-opened
// and merged; declarations must not repeat an existing qualified path.
//
// Malformed markup stops the parse. Declaration-level problems are collected
// and returned together as an [ErrorList].
func Parse(ctx context.Context, t *Tree, src Source, opts ...Option) error {
	o := makeOptions(opts...)

	p := &parser{
		tree:  t,
		dec:   xml.NewDecoder(bytes.NewReader(src.Data)),
		cond:  newConditions(o),
		name:  src.Name,
		stack: []NamespaceID{Root},
	}

	err := p.document()
	if err != nil {
		p.errs.add(err)
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.String("source", src.Name),
		slog.Int("source_bytes", len(src.Data)),
		slog.Int("declarations", p.count),
		slog.Int("errors", len(p.errs)),
	)

	return p.errs.Err()
}

func (p *parser) position() Position {
	line, col := p.dec.InputPos()

	return Position{File: p.name, Line: line, Column: col}
}

// syntax converts a decoder failure into a positioned [ErrSyntax].
func (p *parser) syntax(err error) *Error {
	if errors.Is(err, io.EOF) {
		return ErrSyntax.At(p.position()).Wrapf("unexpected end of input")
	}

	pos := p.position()

	var se *xml.SyntaxError
	if errors.As(err, &se) {
		pos.Line, pos.Column = se.Line, 0

		return ErrSyntax.At(pos).Wrapf(se.Msg)
	}

	return ErrSyntax.At(pos).Wrap(err)
}

func (p *parser) token() (xml.Token, error) {
	tok, err := p.dec.Token()
	if err != nil {
		return nil, p.syntax(err)
	}

	return tok, nil
}

func (p *parser) document() error {
	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			return ErrSyntax.At(p.position()).Wrapf("missing <" + tagResources + "> root element")
		}

		if err != nil {
			return p.syntax(err)
		}

		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Local != tagResources {
				return ErrSyntax.At(p.position()).
					Wrapf("root element must be <" + tagResources + ">, found <" + se.Name.Local + ">")
			}

			return p.children()
		}
	}
}

// children consumes the content of a resources or namespace element up to
// and including its end tag.
func (p *parser) children() error {
	for {
		tok, err := p.token()
		if err != nil {
			return err
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			err := p.element(tok)
			if err != nil {
				return err
			}

		case xml.EndElement:
			return nil

		case xml.CharData:
			if s := strings.TrimSpace(string(tok)); s != "" {
				p.errs = append(p.errs, ErrSyntax.At(p.position()).
					Wrapf("unexpected text "+strconv.Quote(s)))
			}
		}
	}
}

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}

	return "", false
}

func attrValue(se xml.StartElement, name string) string {
	v, _ := attr(se, name)

	return v
}

// included evaluates the conditional attributes of se.
func (p *parser) included(se xml.StartElement) bool {
	ok, err := p.cond.include(attrValue(se, "profile"), attrValue(se, "if"))
	if err != nil {
		p.errs = append(p.errs, err.At(p.position()))

		return false
	}

	return ok
}

// element dispatches one child of a namespace. A returned error is fatal to
// the document; declaration errors are recorded and parsing continues.
func (p *parser) element(se xml.StartElement) error {
	if !p.included(se) {
		return p.skip()
	}

	tag := se.Name.Local

	switch {
	case tag == tagNamespace || tag == "namespace":
		name, pos := attrValue(se, "name"), p.position()
		if !validName(name) {
			p.errs = append(p.errs, ErrSyntax.At(pos).Wrapf("<"+tag+"> requires a valid name attribute"))

			return p.skip()
		}

		ns := p.tree.Open(p.current(), name, pos)
		p.stack = append(p.stack, ns)

		defer func() { p.stack = p.stack[:len(p.stack)-1] }()

		return p.children()

	case tag == tagTemplate:
		return p.template(se, "")

	case tag == "string" && hasAttr(se, tagTemplate):
		return p.template(se, attrValue(se, tagTemplate))

	case leafTags[tag]:
		return p.leaf(se)

	case tag == tagArray:
		elem := attrValue(se, "type")
		if elem == "" {
			elem = "string"
		}

		return p.array(se, elem, "")

	case arrayTags[tag] != "":
		return p.array(se, arrayTags[tag], attrValue(se, "type"))
	}

	p.errs = append(p.errs, ErrSyntax.At(p.position()).Wrapf("unknown tag <"+tag+">"))

	return p.skip()
}

func hasAttr(se xml.StartElement, name string) bool {
	_, ok := attr(se, name)

	return ok
}

func (p *parser) skip() error {
	err := p.dec.Skip()
	if err != nil {
		return p.syntax(err)
	}

	return nil
}

func (p *parser) current() NamespaceID { return p.stack[len(p.stack)-1] }

func validName(name string) bool {
	return strings.TrimSpace(name) == name && name != "" && !strings.ContainsAny(name, PathSep+"@")
}

// declare begins a declaration of se. It reports false after recording a
// diagnostic when the name is missing.
func (p *parser) declare(se xml.StartElement) (Decl, string, bool) {
	d := Decl{
		Name:      attrValue(se, "name"),
		Tag:       se.Name.Local,
		Override:  attrValue(se, "type"),
		Doc:       attrValue(se, tagDoc),
		Pos:       p.position(),
		Namespace: p.current(),
	}

	path := strings.Join(append(p.tree.Segments(d.Namespace), d.Name), PathSep)

	if !validName(d.Name) {
		p.errs = append(p.errs, ErrSyntax.At(d.Pos).In(path).
			Wrapf("<"+d.Tag+"> requires a valid name attribute"))

		return d, path, false
	}

	return d, path, true
}

func (p *parser) commit(d Decl) {
	_, err := p.tree.Declare(d)
	if err != nil {
		p.errs.add(err)

		return
	}

	p.count++
}

// fail records a declaration-level error located at the declaration.
func (p *parser) fail(err error, path string, pos Position) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrTypeValidation.Wrap(err)
	}

	p.errs = append(p.errs, e.In(path).At(pos))
}

// text collects the character data of an element up to its end tag.
// A nested <doc> element is returned separately; visit is called for any
// other nested element and must consume it.
func (p *parser) text(visit func(xml.StartElement) error) (string, string, error) {
	var body, doc strings.Builder

	for {
		tok, err := p.token()
		if err != nil {
			return "", "", err
		}

		switch tok := tok.(type) {
		case xml.CharData:
			body.Write(tok)

		case xml.StartElement:
			if tok.Name.Local == tagDoc {
				s, _, err := p.text(nil)
				if err != nil {
					return "", "", err
				}

				doc.WriteString(s)

				continue
			}

			if visit == nil {
				p.errs = append(p.errs, ErrSyntax.At(p.position()).
					Wrapf("unexpected element <"+tok.Name.Local+">"))

				if err := p.skip(); err != nil {
					return "", "", err
				}

				continue
			}

			if err := visit(tok); err != nil {
				return "", "", err
			}

		case xml.EndElement:
			return strings.TrimSpace(body.String()), cleanDoc(doc.String()), nil
		}
	}
}

func cleanDoc(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}

	return strings.Join(lines, "\n")
}

func (p *parser) leaf(se xml.StartElement) error {
	d, path, ok := p.declare(se)

	body, doc, err := p.text(nil)
	if err != nil || !ok {
		return err
	}

	if doc != "" {
		d.Doc = doc
	}

	d.Value, err = leafValue(d.Tag, d.Override, body)
	if err != nil {
		p.fail(err, path, d.Pos)

		return nil
	}

	p.commit(d)

	return nil
}

// template reads a template declaration. The format is taken from the
// template attribute when it holds text, otherwise from the element body.
func (p *parser) template(se xml.StartElement, format string) error {
	d, path, ok := p.declare(se)
	d.Tag, d.Override = tagTemplate, ""

	var params []Param

	visit := func(c xml.StartElement) error {
		defer func() {
			if err := p.skip(); err != nil {
				p.errs.add(err)
			}
		}()

		if !p.included(c) {
			return nil
		}

		name := attrValue(c, "name")
		kind := attrValue(c, "type")

		if c.Name.Local != tagParam {
			if !leafTags[c.Name.Local] {
				p.errs = append(p.errs, ErrSyntax.At(p.position()).In(path).
					Wrapf("unexpected element <"+c.Name.Local+"> in template"))

				return nil
			}

			if kind == "" || c.Name.Local != "number" {
				kind = c.Name.Local
			}
		}

		pt, ok := ParseParamType(kind)
		if !ok || !isIdentifier(name) {
			p.errs = append(p.errs, ErrTemplate.At(p.position()).In(path).
				Wrapf("invalid parameter "+strconv.Quote(name)+" of type "+strconv.Quote(kind)))

			return nil
		}

		params = append(params, Param{Name: name, Type: pt, Position: len(params)})

		return nil
	}

	body, doc, err := p.text(visit)
	if err != nil || !ok {
		return err
	}

	if doc != "" {
		d.Doc = doc
	}

	if format == "" {
		format = body
	}

	v := Template{Format: format, Params: params}

	if parts := scanRefs(format); hasRefs(parts) {
		v.Pending = parts
	} else {
		v.Format = joinParts(parts)
	}

	d.Value = v
	p.commit(d)

	return nil
}

// array reads an array declaration whose <item> children all have the
// element type elem. A numeric array may narrow its element width.
func (p *parser) array(se xml.StartElement, elem, width string) error {
	d, path, ok := p.declare(se)
	d.Override = width

	var items []string

	visit := func(c xml.StartElement) error {
		if c.Name.Local != tagItem {
			p.errs = append(p.errs, ErrSyntax.At(p.position()).In(path).
				Wrapf("unexpected element <"+c.Name.Local+"> in array"))

			return p.skip()
		}

		if !p.included(c) {
			return p.skip()
		}

		s, _, err := p.text(nil)
		items = append(items, s)

		return err
	}

	_, doc, err := p.text(visit)
	if err != nil || !ok {
		return err
	}

	if doc != "" {
		d.Doc = doc
	}

	d.Value, err = arrayValue(elem, d.Override, items)
	if err != nil {
		p.fail(err, path, d.Pos)

		return nil
	}

	p.commit(d)

	return nil
}

// arrayValue validates every item against the element type.
func arrayValue(elem, width string, items []string) (Value, error) {
	itemErr := func(i int, err error) error {
		var e *Error
		if !errors.As(err, &e) {
			e = ErrTypeValidation.Wrap(err)
		}

		return e.With(slog.Int("index", i))
	}

	kind := Int64

	if width != "" {
		k, ok := ParseNumberKind(width)
		if !ok || k == Decimal {
			return nil, ErrTypeValidation.Wrapf("unsupported array element type " + strconv.Quote(width))
		}

		kind = k
	}

	switch elem {
	case "string":
		return StringArray{Items: items}, nil

	case "color":
		for i, s := range items {
			if _, err := ParseColor(s); err != nil {
				return nil, itemErr(i, err)
			}
		}

		return StringArray{Items: items}, nil

	case "bool":
		out := make([]bool, len(items))

		for i, s := range items {
			b, err := ParseBool(s)
			if err != nil {
				return nil, itemErr(i, err)
			}

			out[i] = b.V
		}

		return BoolArray{Items: out}, nil

	case "number":
		if width == "" {
			for _, s := range items {
				if n, err := ClassifyNumber(s); err != nil || !n.Repr.IsInt() {
					return arrayValue("float", "", items)
				}
			}
		}

		if kind.IsFloat() {
			return arrayValue("float", width, items)
		}

		return arrayValue("int", width, items)

	case "int":
		if kind.IsFloat() {
			return nil, ErrTypeValidation.Wrapf("int array cannot hold " + kind.String())
		}

		out := make([]int64, len(items))

		for i, s := range items {
			n, err := ParseNumber(s, kind)
			if err == nil {
				out[i], err = strconv.ParseInt(n.Canon, 10, 64)
			}

			if err != nil {
				return nil, itemErr(i, err)
			}
		}

		return IntArray{Items: out, Elem: kind}, nil

	case "float":
		if !kind.IsFloat() {
			kind = Float64
		}

		out := make([]float64, len(items))

		for i, s := range items {
			n, err := ParseNumber(s, kind)
			if err == nil {
				out[i], err = strconv.ParseFloat(n.Canon, 64)
			}

			if err != nil {
				return nil, itemErr(i, err)
			}
		}

		return FloatArray{Items: out, Elem: kind}, nil
	}

	return nil, ErrSyntax.Wrapf("unknown array element type " + strconv.Quote(elem))
}
