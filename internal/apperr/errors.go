package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Chain registration failures.
	ErrDuplicateNode      = errors.New("node already exists")
	ErrDuplicateEdge      = errors.New("lineage edge already exists")
	ErrCircularDependency = errors.New("circular dependency")
	ErrParentNotFound     = errors.New("parent node not found")
	ErrDepthLimitExceeded = errors.New("chain depth limit exceeded")
)
