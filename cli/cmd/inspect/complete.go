package inspect

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "paths", "reload", "clear", "quit"}

// envFuncs are the functions resource.Env adds at the top level.
var envFuncs = map[string][]string{
	"lookup": {"path"},
	"paths":  nil,
}

// isWordBoundary reports whether r delimits completion words. Hyphens are
// not boundaries because resource names may contain them.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']',
		'+', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte offsets in input.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word at
// wordStart: "server.http" for "x + server.http.ho".
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// candidates returns the completions valid below parent.
func (s *session) candidates(parent string) []string {
	names := s.members(parent)

	if parent == "" {
		names = append(names, slices.Sorted(maps.Keys(envFuncs))...)
		names = append(names, slices.Sorted(maps.Keys(builtin.Index))...)
	}

	return names
}

// isFunc reports whether name below parent is callable.
func (s *session) isFunc(parent, name string) bool {
	if parent == "" {
		if _, ok := envFuncs[name]; ok {
			return true
		}

		if _, ok := builtin.Index[name]; ok {
			return true
		}

		_, ok := s.templates[name]

		return ok
	}

	_, ok := s.templates[parent+"."+name]

	return ok
}

// computeMatches ranks the candidates for the word at the cursor. An empty
// word yields no matches at the top level and every member after a dot.
func (m model) computeMatches() (matches fuzzy.Matches, parent string, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	if m.mode == modeCtrl {
		if word == "" || strings.ContainsRune(input[:wordStart], ' ') {
			return nil, "", wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent = parentPath(input, wordStart)
		candidates = m.sess.candidates(parent)

		if word == "" {
			if parent == "" {
				return nil, parent, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, parent, wordStart, wordEnd
		}
	}

	return fuzzy.Find(word, candidates), parent, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// width.
func renderCandidateBar(matches fuzzy.Matches, selected int, width int, isFunc func(string) bool) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected, isFunc(match.Str))
		w := lipgloss.Width(rendered)

		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && used+w+reserve > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Functions get a "()" suffix.
func renderCandidate(match fuzzy.Match, selected, fn bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if fn {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
