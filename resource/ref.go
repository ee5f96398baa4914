package resource

import "strings"

// scanRefs splits text into literal and reference parts.
//
// A reference is "@tag/seg/.../name". Segments are runs of letters, digits
// and underscores, with single interior '.' or '-' separators. An '@' that
// does not start a well-formed reference is literal, and "\@" is always a
// literal '@'. Adjacent literal runs are merged.
func scanRefs(text string) []Part {
	var (
		parts []Part
		lit   strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, Part{Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); {
		switch {
		case text[i] == '\\' && i+1 < len(text) && text[i+1] == '@':
			lit.WriteByte('@')
			i += 2

			continue

		case text[i] == '@':
			if ref, n := scanRef(text[i:]); n > 0 {
				flush()
				parts = append(parts, Part{Ref: ref})
				i += n

				continue
			}
		}

		lit.WriteByte(text[i])
		i++
	}

	flush()

	return parts
}

// scanRef parses one reference at the start of s and returns its length,
// or 0 if s does not start with a reference.
func scanRef(s string) (*Reference, int) {
	i := 1

	if i >= len(s) || !isIdentStart(s[i]) {
		return nil, 0
	}

	for i < len(s) && (isSegByte(s[i]) || s[i] == '-') {
		i++
	}

	var segs []string

	for i+1 < len(s) && s[i] == '/' && isSegByte(s[i+1]) {
		n := scanSegment(s[i+1:])
		segs = append(segs, s[i+1:i+1+n])
		i += 1 + n
	}

	if len(segs) == 0 {
		return nil, 0
	}

	return &Reference{Raw: s[:i], Segments: segs}, i
}

func scanSegment(s string) int {
	i := 0

	for i < len(s) {
		switch {
		case isSegByte(s[i]):
			i++
		case (s[i] == '.' || s[i] == '-') && i+1 < len(s) && isSegByte(s[i+1]):
			i += 2
		default:
			return i
		}
	}

	return i
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSegByte(c byte) bool { return isIdentStart(c) || (c >= '0' && c <= '9') }

// hasRefs reports whether any part is a reference.
func hasRefs(parts []Part) bool {
	for _, p := range parts {
		if p.Ref != nil {
			return true
		}
	}

	return false
}

// joinParts concatenates literal parts. Reference parts contribute their
// raw text.
func joinParts(parts []Part) string {
	return Interpolation{Parts: parts}.Text()
}

// leafValue builds the initial value of a scalar leaf from its text.
// Text with references stays unresolved for the resolver; anything else is
// inferred immediately.
func leafValue(tag, override, text string) (Value, error) {
	parts := scanRefs(text)

	switch {
	case len(parts) == 1 && parts[0].Ref != nil:
		return *parts[0].Ref, nil
	case hasRefs(parts):
		return Interpolation{Parts: parts}, nil
	}

	return inferLeaf(tag, override, joinParts(parts))
}

// lookupRef finds the declaration addressed by r using the longest prefix
// of its segments that names a declaration. The remaining segments are
// returned as literal suffix text.
func (t *Tree) lookupRef(r *Reference) (DeclID, string, bool) {
	for n := len(r.Segments); n > 0; n-- {
		id, ok := t.Lookup(strings.Join(r.Segments[:n], PathSep))
		if !ok {
			continue
		}

		rest := ""
		if n < len(r.Segments) {
			rest = PathSep + strings.Join(r.Segments[n:], PathSep)
		}

		return id, rest, true
	}

	return 0, "", false
}

// refsOf returns every reference still held by v.
func refsOf(v Value) []*Reference {
	var parts []Part

	switch v := v.(type) {
	case Reference:
		return []*Reference{&v}
	case Interpolation:
		parts = v.Parts
	case Template:
		parts = v.Pending
	}

	var refs []*Reference

	for _, p := range parts {
		if p.Ref != nil {
			refs = append(refs, p.Ref)
		}
	}

	return refs
}
