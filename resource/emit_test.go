package resource

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

const emitDoc = `<resources>
	<string name="app">Resc</string>
	<int name="retries" doc="Attempts before giving up.">3</int>
	<ns name="auth">
		<string name="title">Sign in to @string/app</string>
		<template name="greet">
			<param name="who"/>
			<param name="n" type="int"/>
			Hello, {who} x{n}
		</template>
	</ns>
</resources>`

var emitGolden = map[string]string{
	"r.go": `// Code generated by resc. DO NOT EDIT.
// Source digest: xxh3:DIGEST

// Package r holds the resources of the root namespace.
package r

// APP is app.
const APP = "Resc"

// RETRIES is retries.
//
// Attempts before giving up.
const RETRIES int64 = 3
`,
	"auth/auth.go": `// Code generated by resc. DO NOT EDIT.
// Source digest: xxh3:DIGEST

// Package auth holds the resources of namespace auth.
package auth

import (
	"strconv"
)

// TITLE is auth/title.
const TITLE = "Sign in to Resc"

// Greet is auth/greet.
func Greet(who string, n int64) string {
	return "Hello, " + who + " x" + strconv.FormatInt(n, 10)
}
`,
	"flat/flat.go": `// Code generated by resc. DO NOT EDIT.
// Source digest: xxh3:DIGEST

// Package flat re-exports every resource under its qualified path.
package flat

import (
	r "example.com/app/r"
	auth "example.com/app/r/auth"
)

// APP is app.
const APP = r.APP

// RETRIES is retries.
const RETRIES = r.RETRIES

// AUTH_TITLE is auth/title.
const AUTH_TITLE = auth.TITLE

// AuthGreet is auth/greet.
var AuthGreet = auth.Greet
`,
}

var digestRE = regexp.MustCompile(`xxh3:[0-9a-f]{16}`)

func build(t *testing.T, docs ...string) (*Tree, error) {
	t.Helper()

	srcs := make([]Source, len(docs))
	for i, doc := range docs {
		srcs[i] = Source{Name: fmt.Sprintf("doc%d.xml", i), Data: []byte(doc)}
	}

	return Build(context.Background(), srcs)
}

func mustBuild(t *testing.T, docs ...string) *Tree {
	t.Helper()

	tree, err := build(t, docs...)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	return tree
}

func TestEmitGolden(t *testing.T) {
	tree := mustBuild(t, emitDoc)

	out, err := Emit(context.Background(), tree, WithImportPath("example.com/app/r"))
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}

	want := []string{"auth/auth.go", "flat/flat.go", "r.go"}
	if got := out.Paths(); !slices.Equal(got, want) {
		t.Fatalf("Paths() = %v, want %v", got, want)
	}

	stamp := fmt.Sprintf("xxh3:%016x", Digest(tree))

	for _, path := range want {
		got := string(out[path])

		if !strings.Contains(got, stamp) {
			t.Errorf("%s: header does not carry digest %s", path, stamp)
		}

		got = digestRE.ReplaceAllString(got, "xxh3:DIGEST")
		if got == emitGolden[path] {
			continue
		}

		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(emitGolden[path]),
			B:        difflib.SplitLines(got),
			FromFile: "want/" + path,
			ToFile:   "got/" + path,
			Context:  2,
		})
		t.Errorf("%s mismatch:\n%s", path, diff)
	}
}

func TestEmitPackageName(t *testing.T) {
	tree := mustBuild(t, `<resources><string name="a">x</string></resources>`)

	out, err := Emit(context.Background(), tree, WithPackage("strs"))
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}

	src, ok := out["strs.go"]
	if !ok {
		t.Fatalf("missing strs.go in %v", out.Paths())
	}

	if !strings.Contains(string(src), "package strs\n") {
		t.Errorf("strs.go:\n%s", src)
	}

	if !strings.Contains(string(out["flat/flat.go"]), `strs "strs"`) {
		t.Errorf("flat import should default to the package name:\n%s", out["flat/flat.go"])
	}
}

func TestEmitValues(t *testing.T) {
	doc := `<resources>
	<number name="huge">123456789012345678901234567890</number>
	<number name="small" type="u8">7</number>
	<number name="ratio" type="f32">0.5</number>
	<bool name="on">true</bool>
	<color name="accent">#FF8800</color>
	<dimension name="gutter">16dp</dimension>
	<string-array name="days"><item>Mon</item><item>Tue</item></string-array>
	<int-array name="ports" type="u16"><item>80</item></int-array>
	<float-array name="weights" type="f32"><item>0.25</item></float-array>
	<bool-array name="flags"><item>true</item></bool-array>
	<template name="empty"></template>
	<template name="flags_text">
		<param name="type" type="bool"/>
		<param name="strconv" type="float"/>
		{type}/{strconv}
	</template>
</resources>`

	out, err := Emit(context.Background(), mustBuild(t, doc))
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}

	src := string(out["r.go"])

	for _, want := range []string{
		`"math/big"`,
		`"sync"`,
		`var HUGE = sync.OnceValue(func() *big.Rat {`,
		`new(big.Rat).SetString("123456789012345678901234567890")`,
		`const SMALL uint8 = 7`,
		`const RATIO float32 = 0.5`,
		`const ON = true`,
		`const ACCENT = "#FF8800"`,
		`const GUTTER = "16dp"`,
		`var DAYS = []string{"Mon", "Tue"}`,
		`var PORTS = []uint16{80}`,
		`var WEIGHTS = []float32{0.25}`,
		`var FLAGS = []bool{true}`,
		`func Empty() string {`,
		`return ""`,
		`func FlagsText(type_ bool, strconv_ float64) string {`,
		`strconv.FormatBool(type_) + "/" + strconv.FormatFloat(strconv_, 'g', -1, 64)`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("r.go missing %s\n%s", want, src)
		}
	}

	flat := string(out["flat/flat.go"])

	for _, want := range []string{
		`var HUGE = r.HUGE`,
		`const SMALL = r.SMALL`,
		`var DAYS = r.DAYS`,
		`var FlagsText = r.FlagsText`,
	} {
		if !strings.Contains(flat, want) {
			t.Errorf("flat.go missing %s\n%s", want, flat)
		}
	}
}

func TestEmitLayout(t *testing.T) {
	doc := `<resources>
	<ns name="empty"/>
	<ns name="type"><string name="a">x</string></ns>
	<ns name="2fa"><string name="code">x</string></ns>
	<ns name="outer">
		<ns name="inner"><string name="b">y</string></ns>
	</ns>
</resources>`

	out, err := Emit(context.Background(), mustBuild(t, doc))
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}

	want := []string{"flat/flat.go", "outer/inner/inner.go", "r2fa/r2fa.go", "type_/type_.go"}
	if got := out.Paths(); !slices.Equal(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}

	if !strings.Contains(string(out["outer/inner/inner.go"]), "// Package inner holds the resources of namespace outer/inner.") {
		t.Errorf("inner.go:\n%s", out["outer/inner/inner.go"])
	}

	if !strings.Contains(string(out["flat/flat.go"]), `outer_inner "r/outer/inner"`) {
		t.Errorf("flat.go:\n%s", out["flat/flat.go"])
	}
}

func TestEmitEmptyTree(t *testing.T) {
	out, err := Emit(context.Background(), mustBuild(t, `<resources/>`))
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}

	if len(out) != 0 {
		t.Errorf("Paths() = %v, want none", out.Paths())
	}
}

func TestEmitCollisions(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{
			name: "identifier",
			doc:  `<resources><string name="a-b">x</string><string name="a_b">y</string></resources>`,
			path: "a_b",
		},
		{
			name: "package directory",
			doc:  `<resources><ns name="Auth"><string name="a">x</string></ns><ns name="auth"><string name="b">y</string></ns></resources>`,
			path: "auth",
		},
		{
			name: "flat package",
			doc:  `<resources><ns name="flat"><string name="a">x</string></ns></resources>`,
			path: "flat",
		},
		{
			name: "flat identifier",
			doc:  `<resources><string name="auth_title">x</string><ns name="auth"><string name="title">y</string></ns></resources>`,
			path: "auth/title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Emit(context.Background(), mustBuild(t, tt.doc))
			if !errors.Is(err, ErrDuplicatePath) {
				t.Fatalf("expected ErrDuplicatePath, got %v", err)
			}

			var e *Error
			if !errors.As(err, &e) || e.Path() != tt.path {
				t.Errorf("diagnostic = %v, want path %q", err, tt.path)
			}
		})
	}
}

func TestEmitUnresolved(t *testing.T) {
	tree := NewTree()
	if err := Parse(context.Background(), tree, Source{Name: "a.xml", Data: []byte(
		`<resources><string name="a">@string/b</string><string name="b">x</string></resources>`,
	)}); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if _, err := Emit(context.Background(), tree); !errors.Is(err, ErrUnknownReference) {
		t.Errorf("expected ErrUnknownReference, got %v", err)
	}
}

func TestDigest(t *testing.T) {
	a := Digest(mustBuild(t, emitDoc))
	b := Digest(mustBuild(t, emitDoc))

	if a != b {
		t.Errorf("digest differs between builds: %016x != %016x", a, b)
	}

	changed := Digest(mustBuild(t, strings.Replace(emitDoc, "Resc", "Resc2", 1)))
	if changed == a {
		t.Error("digest should change with a value")
	}

	redoc := Digest(mustBuild(t, strings.Replace(emitDoc, "Attempts before", "Tries before", 1)))
	if redoc == a {
		t.Error("digest should change with a doc comment")
	}
}
