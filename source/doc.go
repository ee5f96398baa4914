// Package source finds declaration documents and publishes generated code.
//
// Both directions go through [github.com/viant/afs], so roots and output
// may be local paths, file:// URLs or any other registered storage scheme
// (tests use mem://). Local paths are made absolute before use.
package source
