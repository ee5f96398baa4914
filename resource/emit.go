package resource

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// FlatPackage is the name of the package that re-exports every resource
// under a single identifier derived from its qualified path.
const FlatPackage = "flat"

// Output maps slash-separated file paths, relative to the output root, to
// formatted Go source.
type Output map[string][]byte

// Paths returns the file paths of o in sorted order.
func (o Output) Paths() []string {
	return slices.Sorted(maps.Keys(o))
}

// Digest returns the xxh3 hash of the resolved contents of t. Trees with
// the same declarations in the same order have the same digest.
func Digest(t *Tree) uint64 {
	h := xxh3.New()

	for id, d := range t.Decls() {
		fmt.Fprintf(h, "%s\x00%s\x00%#v\n", t.Path(id), d.Doc, d.Value)
	}

	return h.Sum64()
}

// pkg is the emitted form of one namespace.
type pkg struct {
	idents map[string]DeclID
	names  map[DeclID]string
	name   string
	dir    string
	alias  string
	ns     NamespaceID
}

func (p *pkg) file() string {
	if p.dir == "" {
		return p.name + ".go"
	}

	return p.dir + "/" + p.name + ".go"
}

type emitter struct {
	tree   *Tree
	out    Output
	dirs   map[string]NamespaceID
	opts   options
	pkgs   []*pkg
	errs   ErrorList
	digest uint64
}

// Emit renders every namespace of a fully resolved tree as a Go package,
// plus the flat package. Nothing is written to disk.
func Emit(ctx context.Context, t *Tree, opts ...Option) (Output, error) {
	e := &emitter{
		tree:   t,
		out:    make(Output),
		dirs:   make(map[string]NamespaceID),
		opts:   makeOptions(opts...),
		digest: Digest(t),
	}

	e.layout()

	if len(e.errs) > 0 {
		return nil, e.errs.Err()
	}

	for _, p := range e.pkgs {
		e.write(p.file(), e.render(p))
	}

	if len(e.pkgs) > 0 {
		e.write(FlatPackage+"/"+FlatPackage+".go", e.flat())
	}

	e.opts.logger.TraceContext(ctx, "emit complete",
		slog.Int("files", len(e.out)),
		slog.String("digest", e.digestText()),
	)

	if len(e.errs) > 0 {
		return nil, e.errs.Err()
	}

	return e.out, nil
}

func (e *emitter) digestText() string {
	return fmt.Sprintf("xxh3:%016x", e.digest)
}

// layout assigns a package, directory and identifiers to every namespace
// that holds declarations, reporting collisions as [ErrDuplicatePath].
func (e *emitter) layout() {
	e.dirs[FlatPackage] = -1

	for ns := range e.tree.Namespaces() {
		n := e.tree.Namespace(ns)

		segs := e.tree.Segments(ns)
		for i, s := range segs {
			segs[i] = PackageName(s)
		}

		dir := strings.Join(segs, "/")

		if prev, ok := e.dirs[dir]; ok && ns != Root {
			err := ErrDuplicatePath.At(n.Pos).In(strings.Join(e.tree.Segments(ns), PathSep)).
				Wrapf("namespace maps to package directory " + strconv.Quote(dir))
			if prev >= 0 {
				err = err.With(slog.String("previous", strings.Join(e.tree.Segments(prev), PathSep)))
			}

			e.errs = append(e.errs, err)

			continue
		}

		e.dirs[dir] = ns

		if len(n.Decls) == 0 {
			continue
		}

		p := &pkg{
			idents: make(map[string]DeclID),
			names:  make(map[DeclID]string),
			name:   e.opts.pkgName,
			dir:    dir,
			alias:  e.opts.pkgName,
			ns:     ns,
		}

		if ns != Root {
			p.name = segs[len(segs)-1]
			p.alias = strings.ReplaceAll(dir, "/", "_")
		}

		for _, id := range n.Decls {
			d := e.tree.Decl(id)

			if !IsResolved(d.Value) {
				e.errs = append(e.errs, ErrUnknownReference.In(e.tree.Path(id)).At(d.Pos).
					Wrapf("declaration was not resolved"))

				continue
			}

			ident := ConstName(d.Name)
			if _, ok := d.Value.(Template); ok {
				ident = FuncName(d.Name)
			}

			if prev, ok := p.idents[ident]; ok {
				e.errs = append(e.errs, ErrDuplicatePath.In(e.tree.Path(id)).At(d.Pos).
					Wrapf("identifier "+ident+" already used by "+e.tree.Path(prev)).
					With(slog.String("identifier", ident)))

				continue
			}

			p.idents[ident] = id
			p.names[id] = ident
		}

		e.pkgs = append(e.pkgs, p)
	}
}

func (e *emitter) write(path string, src []byte) {
	out, err := format.Source(src)
	if err != nil {
		e.errs = append(e.errs, ErrSyntax.In(path).Wrap(err).
			With(slog.String("file", path)))

		return
	}

	e.out[path] = out
}

func (e *emitter) header(b *bytes.Buffer) {
	fmt.Fprintf(b, "// Code generated by %s. DO NOT EDIT.\n", generator)
	fmt.Fprintf(b, "// Source digest: %s\n\n", e.digestText())
}

// generator names the tool in generated file headers.
const generator = "resc"

type imports struct {
	paths map[string]string
}

func (i *imports) add(path, alias string) {
	if i.paths == nil {
		i.paths = make(map[string]string)
	}

	i.paths[path] = alias
}

func (i *imports) write(b *bytes.Buffer) {
	if len(i.paths) == 0 {
		return
	}

	b.WriteString("import (\n")

	for _, path := range slices.Sorted(maps.Keys(i.paths)) {
		if alias := i.paths[path]; alias != "" {
			b.WriteString(alias + " ")
		}

		b.WriteString(strconv.Quote(path) + "\n")
	}

	b.WriteString(")\n\n")
}

func (e *emitter) render(p *pkg) []byte {
	var (
		body bytes.Buffer
		imp  imports
	)

	for _, id := range e.tree.Namespace(p.ns).Decls {
		ident, ok := p.names[id]
		if !ok {
			continue
		}

		d := e.tree.Decl(id)
		comment(&body, ident, e.tree.Path(id), d.Doc)
		e.decl(&body, &imp, ident, d.Value)
		body.WriteString("\n")
	}

	var b bytes.Buffer

	e.header(&b)

	if p.ns == Root {
		fmt.Fprintf(&b, "// Package %s holds the resources of the root namespace.\n", p.name)
	} else {
		fmt.Fprintf(&b, "// Package %s holds the resources of namespace %s.\n",
			p.name, strings.Join(e.tree.Segments(p.ns), PathSep))
	}

	fmt.Fprintf(&b, "package %s\n\n", p.name)
	imp.write(&b)
	b.Write(body.Bytes())

	return b.Bytes()
}

func comment(b *bytes.Buffer, ident, path, doc string) {
	fmt.Fprintf(b, "// %s is %s.\n", ident, path)

	if doc == "" {
		return
	}

	b.WriteString("//\n")

	for _, line := range strings.Split(doc, "\n") {
		b.WriteString(strings.TrimRight("// "+line, " ") + "\n")
	}
}

// decl writes the Go declaration of one resolved value.
func (e *emitter) decl(b *bytes.Buffer, imp *imports, ident string, v Value) {
	switch v := v.(type) {
	case String, Color, URL, Dimension:
		fmt.Fprintf(b, "const %s = %s\n", ident, strconv.Quote(v.Text()))

	case Bool:
		fmt.Fprintf(b, "const %s = %t\n", ident, v.V)

	case Number:
		if v.Repr == Decimal {
			imp.add("math/big", "")
			imp.add("sync", "")
			fmt.Fprintf(b, "var %s = sync.OnceValue(func() *big.Rat {\n", ident)
			fmt.Fprintf(b, "v, ok := new(big.Rat).SetString(%q)\n", v.Canon)
			fmt.Fprintf(b, "if !ok {\npanic(%q)\n}\n", "invalid decimal "+ident)
			b.WriteString("return v\n})\n")

			return
		}

		fmt.Fprintf(b, "const %s %s = %s\n", ident, v.Repr.GoType(), v.Canon)

	case StringArray:
		items := make([]string, len(v.Items))
		for i, s := range v.Items {
			items[i] = strconv.Quote(s)
		}

		fmt.Fprintf(b, "var %s = []string{%s}\n", ident, strings.Join(items, ", "))

	case IntArray:
		items := make([]string, len(v.Items))
		for i, n := range v.Items {
			items[i] = strconv.FormatInt(n, 10)
		}

		fmt.Fprintf(b, "var %s = []%s{%s}\n", ident, v.Elem.GoType(), strings.Join(items, ", "))

	case FloatArray:
		items := make([]string, len(v.Items))
		for i, f := range v.Items {
			items[i] = strconv.FormatFloat(f, 'g', -1, v.Elem.BitSize())
		}

		fmt.Fprintf(b, "var %s = []%s{%s}\n", ident, v.Elem.GoType(), strings.Join(items, ", "))

	case BoolArray:
		items := make([]string, len(v.Items))
		for i, t := range v.Items {
			items[i] = strconv.FormatBool(t)
		}

		fmt.Fprintf(b, "var %s = []bool{%s}\n", ident, strings.Join(items, ", "))

	case Template:
		e.template(b, imp, ident, v)
	}
}

func (e *emitter) template(b *bytes.Buffer, imp *imports, ident string, v Template) {
	params := make([]string, len(v.Params))
	for i, p := range v.Params {
		params[i] = paramName(p.Name) + " " + p.Type.GoType()
	}

	terms := make([]string, 0, len(v.Segments))

	for _, s := range v.Segments {
		if s.IsLiteral() {
			terms = append(terms, strconv.Quote(s.Text))

			continue
		}

		p := v.Params[s.Param]
		name := paramName(p.Name)

		switch p.Type {
		case ParamString:
			terms = append(terms, name)
		case ParamInt:
			imp.add("strconv", "")
			terms = append(terms, "strconv.FormatInt("+name+", 10)")
		case ParamFloat:
			imp.add("strconv", "")
			terms = append(terms, "strconv.FormatFloat("+name+", 'g', -1, 64)")
		case ParamBool:
			imp.add("strconv", "")
			terms = append(terms, "strconv.FormatBool("+name+")")
		}
	}

	if len(terms) == 0 {
		terms = append(terms, `""`)
	}

	fmt.Fprintf(b, "func %s(%s) string {\nreturn %s\n}\n",
		ident, strings.Join(params, ", "), strings.Join(terms, " + "))
}

// flat renders the package that aliases every resource by its full path.
func (e *emitter) flat() []byte {
	var (
		body   bytes.Buffer
		imp    imports
		idents = make(map[string]string)
		used   = map[string]bool{FlatPackage: true}
	)

	base := e.opts.importPath
	if base == "" {
		base = e.opts.pkgName
	}

	for _, p := range e.pkgs {
		alias := p.alias
		for n := 2; used[alias]; n++ {
			alias = p.alias + strconv.Itoa(n)
		}

		used[alias] = true

		path := base
		if p.dir != "" {
			path += "/" + p.dir
		}

		imp.add(path, alias)

		for _, id := range e.tree.Namespace(p.ns).Decls {
			ident, ok := p.names[id]
			if !ok {
				continue
			}

			d := e.tree.Decl(id)
			path := e.tree.Path(id)

			_, fn := d.Value.(Template)
			name := aliasName(path, fn)

			if prev, ok := idents[name]; ok {
				e.errs = append(e.errs, ErrDuplicatePath.In(path).At(d.Pos).
					Wrapf("flat identifier "+name+" already used by "+prev).
					With(slog.String("identifier", name)))

				continue
			}

			idents[name] = path

			keyword := "var"
			switch v := d.Value.(type) {
			case String, Color, URL, Dimension, Bool:
				keyword = "const"
			case Number:
				if v.Repr != Decimal {
					keyword = "const"
				}
			}

			fmt.Fprintf(&body, "// %s is %s.\n%s %s = %s.%s\n\n", name, path, keyword, name, alias, ident)
		}
	}

	var b bytes.Buffer

	e.header(&b)
	fmt.Fprintf(&b, "// Package %s re-exports every resource under its qualified path.\n", FlatPackage)
	fmt.Fprintf(&b, "package %s\n\n", FlatPackage)
	imp.write(&b)
	b.Write(body.Bytes())

	return b.Bytes()
}
