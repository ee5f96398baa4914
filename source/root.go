package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
)

// EnvPath names the environment variable holding extra source roots,
// separated by [os.PathListSeparator].
const EnvPath = "RESC_PATH"

// Roots returns the source roots named on the command line followed by those
// listed in the EnvPath value env. Duplicates keep their first position.
func Roots(flags []string, env string) []string {
	delim := string(os.PathListSeparator)

	listed := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(delim),
		mung.WithFilter(func(s string) bool { return strings.TrimSpace(s) != "" }),
	).String()

	var (
		roots []string
		seen  = make(map[string]bool)
	)

	add := func(root string) {
		root = strings.TrimSpace(root)
		if root == "" || seen[Normalize(root)] {
			return
		}

		seen[Normalize(root)] = true
		roots = append(roots, root)
	}

	for _, r := range flags {
		add(r)
	}

	if listed != "" {
		for _, r := range strings.Split(listed, delim) {
			add(r)
		}
	}

	return roots
}

// Normalize returns root as an absolute URL. Values with a scheme are
// returned unchanged; local paths become file:// URLs.
func Normalize(root string) string {
	if strings.Contains(root, "://") {
		return strings.TrimRight(root, "/")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}

	return "file://" + filepath.ToSlash(abs)
}
