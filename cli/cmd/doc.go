// Package cmd implements the resc subcommands: build, check, dump and init.
// The interactive inspector lives in package inspect.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file written by [Init].
	ConfigIdentifier = "config"
)
