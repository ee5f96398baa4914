package inspect

import (
	"errors"

	"github.com/ardnew/resc/resource"
)

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrNoLoader    = errors.New("no resource loader")
	ErrNoNamespace = resource.NewError("no such namespace")
)
