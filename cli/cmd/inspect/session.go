package inspect

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/resc/resource"
)

// session evaluates expressions over one resolved tree.
type session struct {
	tree *resource.Tree
	env  map[string]any
	// templates by dotted path, for signature hints.
	templates map[string]resource.Template
}

func newSession(t *resource.Tree) *session {
	s := &session{
		tree:      t,
		env:       resource.Env(t),
		templates: make(map[string]resource.Template),
	}

	for id, d := range t.Decls() {
		if v, ok := d.Value.(resource.Template); ok {
			s.templates[dotted(t.Path(id))] = v
		}
	}

	return s
}

func dotted(path string) string { return strings.ReplaceAll(path, resource.PathSep, ".") }

// splitPath splits a namespace path written with either separator.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '.' || r == '/'
	})
}

// eval compiles and runs one expression.
func (s *session) eval(input string) (any, error) {
	program, err := expr.Compile(input, expr.Env(s.env))
	if err != nil {
		return nil, err
	}

	return expr.Run(program, s.env)
}

// namespace resolves a namespace path. The empty path is the root.
func (s *session) namespace(path string) (resource.NamespaceID, bool) {
	id := resource.Root

	for _, seg := range splitPath(path) {
		next := slices.IndexFunc(s.tree.Namespace(id).Children, func(c resource.NamespaceID) bool {
			return s.tree.Namespace(c).Name == seg
		})
		if next < 0 {
			return 0, false
		}

		id = s.tree.Namespace(id).Children[next]
	}

	return id, true
}

// members returns the names reachable below a namespace path, child
// namespaces first.
func (s *session) members(path string) []string {
	id, ok := s.namespace(path)
	if !ok {
		return nil
	}

	n := s.tree.Namespace(id)
	names := make([]string, 0, len(n.Children)+len(n.Decls))

	for _, c := range n.Children {
		names = append(names, s.tree.Namespace(c).Name)
	}

	for _, d := range n.Decls {
		if name := s.tree.Decl(d).Name; !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names
}

// paths returns every qualified declaration path.
func (s *session) paths() []string {
	paths := make([]string, 0, s.tree.Len())
	for id := range s.tree.Decls() {
		paths = append(paths, s.tree.Path(id))
	}

	return paths
}

// list describes the members of a namespace, one per line.
func (s *session) list(path string) (string, error) {
	id, ok := s.namespace(path)
	if !ok {
		return "", ErrNoNamespace.Wrapf(strconv.Quote(path))
	}

	var b strings.Builder

	n := s.tree.Namespace(id)

	for _, c := range n.Children {
		child := s.tree.Namespace(c)
		fmt.Fprintf(&b, "  %s %s\n", child.Name+resource.PathSep,
			hintStyle.Render(fmt.Sprintf("{ %d items }", len(child.Children)+len(child.Decls))))
	}

	for _, d := range n.Decls {
		decl := s.tree.Decl(d)
		fmt.Fprintf(&b, "  %s %s\n", decl.Name, hintStyle.Render(preview(decl.Value)))
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

const previewWidth = 40

// preview renders a short description of a resolved value.
func preview(v resource.Value) string {
	kind := v.Kind().String()

	if t, ok := v.(resource.Template); ok {
		return kind + t.Signature()
	}

	text := v.Text()
	if len(text) > previewWidth {
		text = text[:previewWidth-3] + "..."
	}

	return kind + " " + strconv.Quote(text)
}

// formatResult renders an evaluation result.
func formatResult(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case map[string]any:
		return "{ " + strings.Join(slices.Sorted(maps.Keys(v)), ", ") + " }"
	case func(...any) (string, error):
		return "<template>"
	}

	return fmt.Sprint(v)
}
