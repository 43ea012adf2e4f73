package catalog

import "errors"

// Domain errors for the catalog package.
var (
	// ErrNotFound is returned when no unit or type has the requested name.
	ErrNotFound = errors.New("catalog: not found")

	// ErrExists is returned when creating or renaming onto a name already taken.
	ErrExists = errors.New("catalog: already exists")

	// ErrInUse is returned when deleting a type that sensors still reference.
	ErrInUse = errors.New("catalog: in use")
)
