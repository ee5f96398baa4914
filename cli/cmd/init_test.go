package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string) // setup function to prepare test
		wantErr error
	}{
		{
			name:  "create_new_config",
			force: false,
			setup: nil, // no pre-existing file
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name:  "fail_without_force",
			force: false,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "resc.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			var cli struct {
				Root  []string `name:"root"`
				Level string   `default:"info" name:"log-level"`
			}

			parser, err := kong.New(&cli, kong.Vars{
				ConfigIdentifier: confPath,
			})
			if err != nil {
				t.Fatal(err)
			}

			kctx, err := parser.Parse([]string{"--root=res", "--root=extra"})
			if err != nil {
				t.Fatal(err)
			}

			ctx := WithContext(context.Background(), kctx)

			err = (&Init{Force: tt.force}).Run(ctx)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, content)
			}

			if got["log-level"] != "info" {
				t.Errorf("log-level = %v, want info", got["log-level"])
			}

			roots, ok := got["root"].([]any)
			if !ok || len(roots) != 2 || roots[0] != "res" || roots[1] != "extra" {
				t.Errorf("root = %#v, want [res extra]", got["root"])
			}
		})
	}
}

// TestInitSkipsUnsetFlags checks that empty and ignored flags are omitted.
func TestInitSkipsUnsetFlags(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose   bool   `name:"verbose"`
		Output    string `name:"output"`
		Count     int    `name:"count"`
		PprofMode string `name:"pprof-mode"`
	}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse([]string{"--verbose", "--count=5", "--pprof-mode=cpu"})
	if err != nil {
		t.Fatal(err)
	}

	doc := (&Init{}).config(kctx)

	keys := make([]string, 0, len(doc))
	for _, item := range doc {
		keys = append(keys, item.Key.(string))
	}

	want := []string{"verbose", "count"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestFlagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		wantNil bool
	}{
		{"bool_false", false, false},
		{"string", "x", false},
		{"empty_string", "", true},
		{"empty_slice", []string{}, true},
		{"slice", []string{"a"}, false},
		{"nil", nil, true},
		{"int", 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagValue(tt.value); (got == nil) != tt.wantNil {
				t.Errorf("flagValue(%#v) = %#v, wantNil %v", tt.value, got, tt.wantNil)
			}
		})
	}
}
