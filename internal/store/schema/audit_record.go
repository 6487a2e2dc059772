package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/archtools/modelsync/internal/domain"
)

// AuditRecord represents the audit_records table - the append-only log of
// externally attributable mutations. Rows are immutable once written and
// survive deletion of the entities they describe.
type AuditRecord struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Actor is the owner name the mutation is attributed to ("unknown" when
	// the caller did not identify themselves)
	Actor string `gorm:"column:actor;not null;type:text"`
	// Project is the name of the project the entity belonged to
	Project string `gorm:"column:project;not null;type:text"`
	// EntityKind is the human-facing entity label (Family, FamilyType, Element)
	EntityKind string `gorm:"column:entity_kind;not null;type:text"`
	// ExternalID is the authoring tool's identifier of the mutated row
	ExternalID *int64 `gorm:"column:external_id"`
	// Action is the mutation kind (CREATE, UPDATE, DELETE)
	Action domain.AuditAction `gorm:"column:action;not null;type:text"`
	// RecordedAt is the timestamp when the record was appended
	RecordedAt time.Time `gorm:"column:recorded_at;not null;default:now();type:timestamptz"`
	// Detail carries structured context about the mutation as JSON
	Detail datatypes.JSON `gorm:"column:detail;type:jsonb"`
}

// TableName specifies the table name for the AuditRecord model
func (AuditRecord) TableName() string {
	return "audit_records"
}
