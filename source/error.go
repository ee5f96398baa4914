package source

import "github.com/ardnew/resc/resource"

var (
	ErrRootNotFound = resource.NewError("source root not found")
	ErrList         = resource.NewError("failed to list source root")
	ErrPublish      = resource.NewError("failed to publish output")
	ErrStale        = resource.NewError("generated output is stale")
)
