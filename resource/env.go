package resource

import (
	"strings"
)

// Env returns an expression environment over the resolved tree t.
//
// Namespaces become nested maps keyed by name, so "auth.errors.title" reads
// a declaration, and templates become functions. When a declaration shares
// its name with a namespace, the declaration wins; lookup("ns/name") reaches
// either without ambiguity.
func Env(t *Tree) map[string]any {
	env := envNamespace(t, Root)

	env["lookup"] = func(path string) (any, error) {
		id, ok := t.Lookup(strings.TrimPrefix(path, PathSep))
		if !ok {
			return nil, ErrUnknownReference.Wrapf("no declaration at " + path)
		}

		return Native(t.Decl(id).Value), nil
	}

	env["paths"] = func() []string {
		paths := make([]string, 0, t.Len())
		for id := range t.Decls() {
			paths = append(paths, t.Path(id))
		}

		return paths
	}

	return env
}

func envNamespace(t *Tree, id NamespaceID) map[string]any {
	n := t.Namespace(id)
	env := make(map[string]any, len(n.Decls)+len(n.Children))

	for _, c := range n.Children {
		env[t.Namespace(c).Name] = envNamespace(t, c)
	}

	for _, d := range n.Decls {
		decl := t.Decl(d)
		env[decl.Name] = Native(decl.Value)
	}

	return env
}

// Native converts a resolved value to the plain Go value an expression or
// encoder works with. Templates become functions that render their
// arguments.
func Native(v Value) any {
	switch v := v.(type) {
	case Bool:
		return v.V
	case Number:
		return numberValue(v)
	case StringArray:
		return v.Items
	case IntArray:
		return v.Items
	case FloatArray:
		return v.Items
	case BoolArray:
		return v.Items
	case Template:
		return func(args ...any) (string, error) { return v.Render(args...) }
	}

	return v.Text()
}
