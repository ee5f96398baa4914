// Package pkg holds the identity of the resc module.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of resc embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the config and cache
	// directories and prefixes environment variables.
	Name = "resc"
	// Description is a one-line summary used in help output.
	Description = "Typed resource compiler for Go"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
