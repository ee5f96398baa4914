package resource

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
)

// resolver substitutes references over a whole tree until a fixed point.
type resolver struct {
	tree   *Tree
	deps   map[DeclID][]DeclID
	failed map[DeclID]bool
	errs   ErrorList
}

// Resolve replaces every reference and interpolation in t with concrete
// values. Missing targets are reported as [ErrUnknownReference]; leaves
// left unresolved once a pass makes no progress are analysed for cycles and
// reported as [ErrCyclicReference].
func Resolve(ctx context.Context, t *Tree, opts ...Option) error {
	o := makeOptions(opts...)

	r := &resolver{
		tree:   t,
		deps:   make(map[DeclID][]DeclID),
		failed: make(map[DeclID]bool),
	}

	queue := r.collect()
	if len(r.errs) > 0 {
		return r.errs.Err()
	}

	passes := 0

	for len(queue) > 0 {
		passes++

		next := queue[:0:0]
		progress := false

		for _, id := range queue {
			changed, done := r.substitute(id)
			progress = progress || changed

			if !done {
				next = append(next, id)
			}
		}

		queue = next

		if !progress {
			break
		}
	}

	o.logger.TraceContext(ctx, "resolve complete",
		slog.Int("passes", passes),
		slog.Int("unresolved", len(queue)),
	)

	if len(queue) > 0 {
		r.cycles(queue)
	}

	return r.errs.Err()
}

// collect records the dependencies of every unresolved leaf and reports
// references whose target does not exist.
func (r *resolver) collect() []DeclID {
	var queue []DeclID

	for id, d := range r.tree.Decls() {
		refs := refsOf(d.Value)
		if len(refs) == 0 {
			continue
		}

		for _, ref := range refs {
			target, _, ok := r.tree.lookupRef(ref)
			if !ok {
				r.errs = append(r.errs, ErrUnknownReference.
					In(r.tree.Path(id)).At(d.Pos).
					Wrapf("no declaration at "+strings.Join(ref.Segments, PathSep)).
					With(slog.String("reference", ref.Raw)))

				continue
			}

			r.deps[id] = append(r.deps[id], target)
		}

		queue = append(queue, id)
	}

	return queue
}

// ready returns the resolved text of ref if its target is fully resolved.
func (r *resolver) ready(ref *Reference) (Value, string, bool) {
	target, rest, _ := r.tree.lookupRef(ref)

	v := r.tree.Decl(target).Value
	if r.failed[target] || !IsResolved(v) {
		return nil, "", false
	}

	return v, rest, true
}

// substitute replaces the references of one leaf whose targets are resolved.
// It reports whether anything changed and whether the leaf is now final.
func (r *resolver) substitute(id DeclID) (changed, done bool) {
	d := r.tree.Decl(id)

	switch v := d.Value.(type) {
	case Reference:
		target, rest, ok := r.ready(&v)
		if !ok {
			return false, false
		}

		if rest != "" {
			text, err := r.text(target)
			if err != nil {
				return r.fail(id, err)
			}

			target = String{V: text + rest}
		}

		return r.finish(id, target)

	case Interpolation:
		parts, changed, err := r.fill(v.Parts, false)
		if err != nil {
			return r.fail(id, err)
		}

		if hasRefs(parts) {
			d.Value = Interpolation{Parts: parts}

			return changed, false
		}

		return r.finish(id, String{V: joinParts(parts)})

	case Template:
		parts, changed, err := r.fill(v.Pending, true)
		if err != nil {
			return r.fail(id, err)
		}

		if hasRefs(parts) {
			v.Pending = parts
			d.Value = v

			return changed, false
		}

		v.Format = joinParts(parts)
		v.Pending = nil
		d.Value = v

		return true, true
	}

	return false, true
}

// fill replaces ready references in parts with their text. Text substituted
// into a template format has its braces escaped so it cannot introduce
// placeholders.
func (r *resolver) fill(parts []Part, escape bool) ([]Part, bool, error) {
	out := make([]Part, 0, len(parts))
	changed := false

	for _, p := range parts {
		if p.Ref == nil {
			out = append(out, p)

			continue
		}

		v, rest, ok := r.ready(p.Ref)
		if !ok {
			out = append(out, p)

			continue
		}

		text, err := r.text(v)
		if err != nil {
			return nil, false, err
		}

		text += rest
		if escape {
			text = strings.NewReplacer("{", "{{", "}", "}}").Replace(text)
		}

		out = append(out, Part{Text: text})
		changed = true
	}

	return out, changed, nil
}

// text returns the canonical text of a scalar value.
func (r *resolver) text(v Value) (string, error) {
	switch v.(type) {
	case String, Bool, Color, URL, Dimension, Number:
		return v.Text(), nil
	}

	return "", ErrTypeValidation.
		Wrapf("cannot interpolate " + v.Kind().String() + " value").
		With(slog.String("found", v.Kind().String()))
}

func (r *resolver) finish(id DeclID, v Value) (bool, bool) {
	d := r.tree.Decl(id)

	out, err := coerce(d.Tag, d.Override, v)
	if err != nil {
		return r.fail(id, err)
	}

	d.Value = out

	return true, true
}

func (r *resolver) fail(id DeclID, err error) (bool, bool) {
	d := r.tree.Decl(id)
	r.failed[id] = true

	var e *Error

	if !errors.As(err, &e) {
		e = ErrTypeValidation.Wrap(err)
	}

	r.errs = append(r.errs, e.In(r.tree.Path(id)).At(d.Pos))

	return true, true
}

// cycles reports each distinct cycle among the unresolved leaves once,
// naming its members in dependency order starting from the earliest
// declared member. Leaves that merely depend on a cycle or on a failed
// leaf are not reported again.
func (r *resolver) cycles(left []DeclID) {
	const (
		white = iota
		grey
		black
	)

	pending := make(map[DeclID]bool, len(left))
	for _, id := range left {
		pending[id] = true
	}

	color := make(map[DeclID]int, len(left))
	seen := make(map[string]bool)

	var (
		stack []DeclID
		visit func(DeclID)
	)

	visit = func(id DeclID) {
		color[id] = grey
		stack = append(stack, id)

		for _, dep := range r.deps[id] {
			if !pending[dep] {
				continue
			}

			switch color[dep] {
			case white:
				visit(dep)
			case grey:
				r.report(stack[slices.Index(stack, dep):], seen)
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range left {
		if color[id] == white {
			visit(id)
		}
	}
}

func (r *resolver) report(cycle []DeclID, seen map[string]bool) {
	first := slices.Index(cycle, slices.Min(cycle))
	cycle = slices.Concat(cycle[first:], cycle[:first])

	names := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		names = append(names, r.tree.Path(id))
	}

	names = append(names, names[0])
	chain := strings.Join(names, " -> ")

	if seen[chain] {
		return
	}

	seen[chain] = true

	d := r.tree.Decl(cycle[0])
	r.errs = append(r.errs, ErrCyclicReference.
		In(names[0]).At(d.Pos).
		Wrapf(chain).
		With(slog.Any("cycle", names[:len(names)-1])))
}
