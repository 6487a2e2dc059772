package domain

import (
	"fmt"
	"time"
)

// EntityKind identifies the level of the design hierarchy a bound row
// lives at. Only the three leaf-bearing levels carry external ids;
// projects and categories are addressed by name.
type EntityKind string

const (
	EntityKindFamily     EntityKind = "family"
	EntityKindFamilyType EntityKind = "family_type"
	EntityKindElement    EntityKind = "element"
)

// ParseEntityKind validates a wire-level kind tag. Unknown tags are a
// caller error, never a silent fallthrough.
func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(s) {
	case EntityKindFamily, EntityKindFamilyType, EntityKindElement:
		return EntityKind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityKind, s)
	}
}

// Valid checks whether the kind is one of the closed set
func (k EntityKind) Valid() bool {
	_, err := ParseEntityKind(string(k))
	return err == nil
}

// Label returns the human-facing entity name recorded in audit rows
func (k EntityKind) Label() string {
	switch k {
	case EntityKindFamily:
		return "Family"
	case EntityKindFamilyType:
		return "FamilyType"
	case EntityKindElement:
		return "Element"
	default:
		return string(k)
	}
}

// AuditAction is the kind of externally driven mutation an audit row records
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

// ChangeOp is the kind of change announced on the live-update channel
type ChangeOp string

const (
	ChangeOpPush   ChangeOp = "push"
	ChangeOpDelete ChangeOp = "delete"
)

// ChangeEvent is the normalized change notification published after a
// successful push or deletion. This is the format published to NATS.
type ChangeEvent struct {
	OpID       string      `json:"op_id"`                 // ULID of the originating operation
	Op         ChangeOp    `json:"op"`                    // push, delete
	Project    string      `json:"project"`               // project name the change belongs to
	EntityKind *EntityKind `json:"entity_kind,omitempty"` // set for deletions
	ExternalID *int64      `json:"external_id,omitempty"` // set for deletions
	Timestamp  time.Time   `json:"timestamp"`
}
