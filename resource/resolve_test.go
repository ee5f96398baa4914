package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func resolveString(t *testing.T, doc string) (*Tree, error) {
	t.Helper()

	tree, err := parseString(t, doc)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return tree, Resolve(context.Background(), tree)
}

func TestResolveReferences(t *testing.T) {
	doc := `<resources>
	<string name="full">@string/base_url/@string/version</string>
	<url name="base_url">https://x.test</url>
	<string name="version">v2</string>
	<string name="docs">@string/base_url/docs</string>
	<string name="alias">@string/full</string>
	<number name="limit">10</number>
	<number name="copy">@number/limit</number>
	<string name="sentence">Limit is @number/limit.</string>
	<int name="parsed">@string/digits</int>
	<string name="digits">64</string>
	<ns name="auth">
		<string name="title">Sign in to @string/app</string>
	</ns>
	<string name="app">Resc</string>
</resources>`

	tree, err := resolveString(t, doc)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	tests := []struct {
		path string
		want Value
	}{
		{"full", String{V: "https://x.test/v2"}},
		{"docs", String{V: "https://x.test/docs"}},
		{"alias", String{V: "https://x.test/v2"}},
		{"copy", Number{Literal: "10", Canon: "10", Repr: Int64}},
		{"sentence", String{V: "Limit is 10."}},
		{"parsed", Number{Literal: "64", Canon: "64", Repr: Int64}},
		{"auth/title", String{V: "Sign in to Resc"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := lookup(t, tree, tt.path).Value
			if got != tt.want {
				t.Errorf("value = %#v, want %#v", got, tt.want)
			}
		})
	}

	for id, d := range tree.Decls() {
		if !IsResolved(d.Value) {
			t.Errorf("%s left unresolved: %#v", tree.Path(id), d.Value)
		}
	}
}

func TestResolveTemplateFormat(t *testing.T) {
	doc := `<resources>
	<string name="brand">A{b}</string>
	<template name="hi">
		<param name="who"/>
		@string/brand says hi to {who}
	</template>
</resources>`

	tree, err := resolveString(t, doc)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	v, ok := lookup(t, tree, "hi").Value.(Template)
	if !ok || v.Pending != nil {
		t.Fatalf("hi = %#v", lookup(t, tree, "hi").Value)
	}

	if v.Format != "A{{b}} says hi to {who}" {
		t.Errorf("format = %q", v.Format)
	}
}

func TestResolveUnknownReference(t *testing.T) {
	doc := `<resources>
	<string name="a">@string/missing</string>
	<string name="b">ok</string>
	<string name="c">@string/b and @string/nope/deeper</string>
</resources>`

	_, err := resolveString(t, doc)
	if !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("expected ErrUnknownReference, got %v", err)
	}

	var list ErrorList
	if !errors.As(err, &list) || len(list) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", err)
	}

	if list[0].Path() != "a" || list[1].Path() != "c" {
		t.Errorf("diagnostic paths = %q, %q", list[0].Path(), list[1].Path())
	}

	if !strings.Contains(list[1].Error(), "nope/deeper") {
		t.Errorf("diagnostic should name the target: %v", list[1])
	}
}

func TestResolveCycles(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		chains []string
	}{
		{
			name:   "pair",
			doc:    `<resources><string name="a">@string/b</string><string name="b">@string/a</string></resources>`,
			chains: []string{"a -> b -> a"},
		},
		{
			name:   "self",
			doc:    `<resources><string name="a">x @string/a</string></resources>`,
			chains: []string{"a -> a"},
		},
		{
			name: "dependent not reported",
			doc: `<resources>
				<string name="c">@string/a</string>
				<string name="a">@string/b</string>
				<string name="b">@string/a</string>
			</resources>`,
			chains: []string{"a -> b -> a"},
		},
		{
			name: "two cycles",
			doc: `<resources>
				<ns name="x"><string name="p">@string/x/q</string><string name="q">@string/x/p</string></ns>
				<string name="r">@string/s</string>
				<string name="s">@string/t</string>
				<string name="t">@string/r</string>
			</resources>`,
			chains: []string{"r -> s -> t -> r", "x/p -> x/q -> x/p"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveString(t, tt.doc)
			if !errors.Is(err, ErrCyclicReference) {
				t.Fatalf("expected ErrCyclicReference, got %v", err)
			}

			var list ErrorList
			if !errors.As(err, &list) {
				t.Fatalf("expected ErrorList, got %T", err)
			}

			if len(list) != len(tt.chains) {
				t.Fatalf("got %d diagnostics, want %d: %v", len(list), len(tt.chains), err)
			}

			for _, chain := range tt.chains {
				if !strings.Contains(err.Error(), chain) {
					t.Errorf("missing cycle %q in %v", chain, err)
				}
			}
		})
	}
}

func TestResolveTypeMismatch(t *testing.T) {
	doc := `<resources>
	<string-array name="days"><item>Mon</item></string-array>
	<string name="s">list: @string/days</string>
	<color name="c">@string/word</color>
	<string name="word">red</string>
	<string name="after">@string/c!</string>
</resources>`

	_, err := resolveString(t, doc)
	if !errors.Is(err, ErrTypeValidation) {
		t.Fatalf("expected ErrTypeValidation, got %v", err)
	}

	var list ErrorList
	if !errors.As(err, &list) || len(list) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", err)
	}

	// A leaf depending on a failed leaf is not reported again.
	for _, e := range list {
		if e.Path() == "after" {
			t.Errorf("dependent leaf reported: %v", e)
		}
	}
}

func TestResolveDeepChain(t *testing.T) {
	const depth = 500

	var b strings.Builder

	b.WriteString("<resources>\n")

	for i := range depth {
		fmt.Fprintf(&b, "<string name=\"d%d\">@string/d%d</string>\n", i, i+1)
	}

	fmt.Fprintf(&b, "<string name=\"d%d\">end</string>\n</resources>", depth)

	tree, err := resolveString(t, b.String())
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	if got := lookup(t, tree, "d0").Value; got != (String{V: "end"}) {
		t.Errorf("d0 = %#v", got)
	}
}

func TestResolveCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, []Source{{Name: "a.xml", Data: []byte(`<resources/>`)}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestScanRefs(t *testing.T) {
	tests := []struct {
		text string
		want []string // references as "@..." and literals as-is
	}{
		{"plain", []string{"plain"}},
		{"@string/a", []string{"@a"}},
		{"@string/a/@string/b", []string{"@a", "/", "@b"}},
		{"x @string/auth/errors/title.", []string{"x ", "@auth/errors/title", "."}},
		{"v@string/ver-2.1", []string{"v", "@ver-2.1"}},
		{"a\\@string/b", []string{"a@string/b"}},
		{"user@example.com", []string{"user@example.com"}},
		{"@ alone", []string{"@ alone"}},
		{"@string", []string{"@string"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			parts := scanRefs(tt.text)

			got := make([]string, len(parts))
			for i, p := range parts {
				if p.Ref != nil {
					got[i] = "@" + strings.Join(p.Ref.Segments, PathSep)
				} else {
					got[i] = p.Text
				}
			}

			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("scanRefs(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
