package resource

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// condEnv is the environment of if="..." expressions.
type condEnv struct {
	Env     func(string) string `expr:"env"`
	Profile string              `expr:"profile"`
	GOOS    string              `expr:"goos"`
	GOARCH  string              `expr:"goarch"`
	Tests   bool                `expr:"tests"`
}

// conditions decides whether elements carrying profile= or if= attributes
// are part of the current build. Compiled programs are cached by source.
type conditions struct {
	programs map[string]*vm.Program
	env      condEnv
}

func newConditions(o options) *conditions {
	return &conditions{
		programs: make(map[string]*vm.Program),
		env: condEnv{
			Env:     o.getenv,
			Profile: o.profile,
			GOOS:    o.goos,
			GOARCH:  o.goarch,
			Tests:   o.tests,
		},
	}
}

// include evaluates the profile and if attributes of an element.
// Both must hold for the element to be kept.
func (c *conditions) include(profile, cond string) (bool, *Error) {
	if profile != "" {
		names := strings.FieldsFunc(profile, func(r rune) bool {
			return r == ',' || r == ' ' || r == '|'
		})

		if !slices.Contains(names, c.env.Profile) {
			return false, nil
		}
	}

	if strings.TrimSpace(cond) == "" {
		return true, nil
	}

	return c.eval(cond)
}

func (c *conditions) eval(src string) (bool, *Error) {
	prog, ok := c.programs[src]
	if !ok {
		var err error

		prog, err = expr.Compile(src, expr.Env(condEnv{}), expr.AsBool())
		if err != nil {
			return false, ErrSyntax.Wrap(err).With(slog.String("condition", src))
		}

		c.programs[src] = prog
	}

	out, err := expr.Run(prog, c.env)
	if err != nil {
		return false, ErrSyntax.Wrap(err).With(slog.String("condition", src))
	}

	b, _ := out.(bool)

	return b, nil
}
