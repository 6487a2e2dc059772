package domain

import "errors"

var (
	// ErrUnknownEntityKind is returned when a caller supplies an entity kind
	// outside the closed family/family_type/element set
	ErrUnknownEntityKind = errors.New("unknown entity kind")

	// ErrProjectNotFound is returned when an export filter names a project
	// that does not exist
	ErrProjectNotFound = errors.New("project not found")
)
