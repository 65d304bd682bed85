package domain

import "errors"

var (
	ErrNotFound         = errors.New("project not found")
	ErrLastProject      = errors.New("cannot delete the last remaining project")
	ErrItemNotFound     = errors.New("item not found")
	ErrInvalidIndex     = errors.New("phase task index out of range")
	ErrNoActiveProject  = errors.New("no active project")
	ErrNotActiveProject = errors.New("project is not the active project")
)
