package inspect

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/resc/log"
	"github.com/ardnew/resc/resource"
)

const fixture = `<resources>
  <string name="app">Resc</string>
  <int name="retries">3</int>
  <ns name="auth">
    <string name="title">Sign in to @string/app</string>
    <template name="greet"><param name="who"/><param name="n" type="int"/>Hello, {who} x{n}</template>
    <ns name="errors">
      <string name="denied">Access denied</string>
    </ns>
  </ns>
</resources>`

func buildTree(t *testing.T) *resource.Tree {
	t.Helper()

	tree, err := resource.Build(context.Background(), []resource.Source{
		{Name: "strings.xml", Data: []byte(fixture)},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	return tree
}

func TestSessionEval(t *testing.T) {
	s := newSession(buildTree(t))

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{`app`, `"Resc"`, false},
		{`retries + 1`, `4`, false},
		{`auth.title`, `"Sign in to Resc"`, false},
		{`auth.errors.denied`, `"Access denied"`, false},
		{`lookup("auth/errors/denied")`, `"Access denied"`, false},
		{`auth.greet("Ada", 2)`, `"Hello, Ada x2"`, false},
		{`auth.errors`, `{ denied }`, false},
		{`auth.greet("Ada")`, ``, true},
		{`lookup("nope")`, ``, true},
		{`app +`, ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := s.eval(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("eval(%q) = %v, want error", tt.input, got)
				}

				return
			}

			if err != nil {
				t.Fatalf("eval(%q) error = %v", tt.input, err)
			}

			if f := formatResult(got); f != tt.want {
				t.Errorf("eval(%q) = %s, want %s", tt.input, f, tt.want)
			}
		})
	}
}

func TestSessionMembers(t *testing.T) {
	s := newSession(buildTree(t))

	tests := []struct {
		path string
		want []string
	}{
		{"", []string{"auth", "app", "retries"}},
		{"auth", []string{"errors", "title", "greet"}},
		{"auth/errors", []string{"denied"}},
		{"auth.errors", []string{"denied"}},
		{"missing", nil},
	}

	for _, tt := range tests {
		got := s.members(tt.path)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("members(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if _, err := s.list("nope"); err == nil {
		t.Error("list(nope) succeeded")
	}

	out, err := s.list("auth")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"errors/", "title", "greet", "(who string, n int)"} {
		if !strings.Contains(out, want) {
			t.Errorf("list(auth) missing %q:\n%s", want, out)
		}
	}
}

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "greet(fo", 8, "fo", 6, 8},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"in_quotes", `lookup("au`, 10, "au", 8, 10},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"hyphenated", "sign-in", 7, "sign-in", 0, 7},
		{"empty_after_dot", "auth.", 5, "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "auth.errors.", 12, "auth.errors"},
		{"after_operator", "x + auth.errors.", 16, "auth.errors"},
		{"after_paren", "(auth.", 6, "auth"},
		{"no_chain", "a + ", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parentPath(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q", tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestDetectCall(t *testing.T) {
	tests := []struct {
		input  string
		want   call
		inCall bool
	}{
		{`auth.greet(`, call{name: "auth.greet"}, true},
		{`auth.greet("a", `, call{name: "auth.greet", arg: 1}, true},
		{`auth.greet(len([1, 2]), `, call{name: "auth.greet", arg: 1}, true},
		{`auth.greet("a")`, call{}, false},
		{`(1 + `, call{}, false},
	}

	for _, tt := range tests {
		got, ok := detectCall(tt.input, len(tt.input))
		if ok != tt.inCall || got != tt.want {
			t.Errorf("detectCall(%q) = %+v, %v; want %+v, %v", tt.input, got, ok, tt.want, tt.inCall)
		}
	}
}

func newTestModel(t *testing.T) model {
	t.Helper()

	tree := buildTree(t)
	load := func(context.Context) (*resource.Tree, error) { return tree, nil }
	hist := newHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(context.Background(), load, tree, hist, log.Logger{})
}

func typeText(m model, s string) model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}

	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})

	return next.(model), cmd
}

func TestModelCompletion(t *testing.T) {
	m := typeText(newTestModel(t), "auth.er")

	if len(m.matches) != 1 || m.matches[0].Str != "errors" {
		t.Fatalf("matches = %v, want [errors]", m.matches)
	}

	m, _ = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "auth.errors" {
		t.Errorf("input after tab = %q, want auth.errors", got)
	}

	m = typeText(m, ".")

	if len(m.matches) != 1 || m.matches[0].Str != "denied" {
		t.Errorf("member matches = %v, want [denied]", m.matches)
	}
}

func TestModelSignatureHint(t *testing.T) {
	m := typeText(newTestModel(t), `auth.greet("x", `)

	view := m.View()
	if !strings.Contains(view, "n int") || !strings.Contains(view, "who string") {
		t.Errorf("view missing signature hint:\n%s", view)
	}
}

func TestModelHistoryAndModes(t *testing.T) {
	m := typeText(newTestModel(t), "app")

	m, cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("enter produced no command")
	}

	if m.history.len() != 1 {
		t.Fatalf("history len = %d, want 1", m.history.len())
	}

	m, _ = press(m, tea.KeyEsc)
	if m.mode != modeCtrl {
		t.Fatal("esc did not switch to command mode")
	}

	m = typeText(m, "paths")
	m, _ = press(m, tea.KeyEnter)

	m, _ = press(m, tea.KeyUp)
	if m.mode != modeCtrl || m.input.Value() != "paths" {
		t.Errorf("up = (%v, %q), want command entry", m.mode, m.input.Value())
	}

	m, _ = press(m, tea.KeyUp)
	if m.mode != modeEval || m.input.Value() != "app" {
		t.Errorf("up = (%v, %q), want eval entry", m.mode, m.input.Value())
	}

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)

	if m.input.Value() != "" {
		t.Errorf("input past newest entry = %q, want empty", m.input.Value())
	}

	reloaded := newHistory(m.history.path)
	if err := reloaded.load(); err != nil {
		t.Fatal(err)
	}

	if reloaded.len() != 2 {
		t.Errorf("persisted history len = %d, want 2", reloaded.len())
	}
}

func TestHistoryMovesDuplicates(t *testing.T) {
	h := newHistory(filepath.Join(t.TempDir(), baseHistory))

	for _, e := range []entry{{"a", modeEval}, {"b", modeEval}, {"a", modeEval}, {"a", modeCtrl}} {
		if err := h.add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	reloaded := newHistory(h.path)
	if err := reloaded.load(); err != nil {
		t.Fatal(err)
	}

	want := []entry{{"b", modeEval}, {"a", modeEval}, {"a", modeCtrl}}
	if reloaded.len() != len(want) {
		t.Fatalf("len = %d, want %d", reloaded.len(), len(want))
	}

	for i, w := range want {
		if got, _ := reloaded.at(i); got != w {
			t.Errorf("entry %d = %+v, want %+v", i, got, w)
		}
	}

	if _, err := reloaded.at(3); err != ErrOutOfBounds {
		t.Errorf("at(3) error = %v, want %v", err, ErrOutOfBounds)
	}
}
