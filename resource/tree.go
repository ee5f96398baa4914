package resource

import (
	"iter"
	"log/slog"
	"strings"
)

// PathSep separates segments of a qualified path.
const PathSep = "/"

// NamespaceID indexes a namespace in its [Tree].
type NamespaceID int32

// DeclID indexes a declaration in its [Tree].
type DeclID int32

// Root is the unnamed top-level namespace of every tree.
const Root NamespaceID = 0

const noParent NamespaceID = -1

// Namespace is a named grouping node.
// Children and declarations are kept in insertion order.
type Namespace struct {
	children map[string]NamespaceID
	decls    map[string]DeclID
	Name     string
	Pos      Position
	Children []NamespaceID
	Decls    []DeclID
	Parent   NamespaceID
}

// Decl is a single resource declaration.
type Decl struct {
	Value     Value
	Name      string
	Tag       string
	Override  string
	Doc       string
	Pos       Position
	Namespace NamespaceID
}

// Tree owns every namespace and declaration of one compilation.
// Nodes are stored in flat arenas and link to each other by index.
type Tree struct {
	paths      map[string]DeclID
	namespaces []Namespace
	decls      []Decl
}

// NewTree returns a tree holding only the root namespace.
func NewTree() *Tree {
	return &Tree{
		paths: make(map[string]DeclID),
		namespaces: []Namespace{{
			Parent:   noParent,
			children: make(map[string]NamespaceID),
			decls:    make(map[string]DeclID),
		}},
	}
}

// Namespace returns the namespace with the given id.
func (t *Tree) Namespace(id NamespaceID) *Namespace { return &t.namespaces[id] }

// Decl returns the declaration with the given id.
func (t *Tree) Decl(id DeclID) *Decl { return &t.decls[id] }

// Len returns the number of declarations.
func (t *Tree) Len() int { return len(t.decls) }

// Open returns the child namespace of parent called name, creating it if it
// does not exist yet. Re-opening merges into the existing node.
func (t *Tree) Open(parent NamespaceID, name string, pos Position) NamespaceID {
	if id, ok := t.namespaces[parent].children[name]; ok {
		return id
	}

	id := NamespaceID(len(t.namespaces))
	t.namespaces = append(t.namespaces, Namespace{
		Name:     name,
		Parent:   parent,
		Pos:      pos,
		children: make(map[string]NamespaceID),
		decls:    make(map[string]DeclID),
	})

	p := &t.namespaces[parent]
	p.children[name] = id
	p.Children = append(p.Children, id)

	return id
}

// Declare adds d to its namespace.
// A qualified path that already exists is an [ErrDuplicatePath].
func (t *Tree) Declare(d Decl) (DeclID, error) {
	path := t.join(d.Namespace, d.Name)

	if prev, ok := t.paths[path]; ok {
		return 0, ErrDuplicatePath.In(path).At(d.Pos).
			With(slog.String("previous", t.decls[prev].Pos.String()))
	}

	id := DeclID(len(t.decls))
	t.decls = append(t.decls, d)
	t.paths[path] = id

	ns := &t.namespaces[d.Namespace]
	ns.decls[d.Name] = id
	ns.Decls = append(ns.Decls, id)

	return id, nil
}

// Lookup returns the declaration at the given qualified path.
func (t *Tree) Lookup(path string) (DeclID, bool) {
	id, ok := t.paths[path]

	return id, ok
}

// Path returns the qualified path of a declaration.
func (t *Tree) Path(id DeclID) string {
	d := &t.decls[id]

	return t.join(d.Namespace, d.Name)
}

// Segments returns the names of the namespaces from the root down to id.
// The root itself contributes no segment.
func (t *Tree) Segments(id NamespaceID) []string {
	var segs []string

	for ; id != Root && id != noParent; id = t.namespaces[id].Parent {
		segs = append(segs, t.namespaces[id].Name)
	}

	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}

	return segs
}

func (t *Tree) join(ns NamespaceID, name string) string {
	return strings.Join(append(t.Segments(ns), name), PathSep)
}

// Namespaces yields every namespace in pre-order, children in insertion
// order, starting with the root.
func (t *Tree) Namespaces() iter.Seq[NamespaceID] {
	return func(yield func(NamespaceID) bool) {
		var walk func(NamespaceID) bool

		walk = func(id NamespaceID) bool {
			if !yield(id) {
				return false
			}

			for _, c := range t.namespaces[id].Children {
				if !walk(c) {
					return false
				}
			}

			return true
		}

		walk(Root)
	}
}

// Decls yields every declaration in tree order: a namespace's own
// declarations before those of its children.
func (t *Tree) Decls() iter.Seq2[DeclID, *Decl] {
	return func(yield func(DeclID, *Decl) bool) {
		for ns := range t.Namespaces() {
			for _, id := range t.namespaces[ns].Decls {
				if !yield(id, &t.decls[id]) {
					return
				}
			}
		}
	}
}
