package schema

import (
	"time"
)

// Element represents the elements table - the placed instances at the
// bottom of the hierarchy. The source does not enforce name uniqueness
// within a type, so duplicate names inside one push produce duplicate rows.
type Element struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the element name
	Name string `gorm:"column:name;not null;type:text"`
	// Classification is the classification code
	Classification *string `gorm:"column:classification;type:text"`
	// Parameters is the opaque parameter bag serialized by the source
	Parameters *string `gorm:"column:parameters;type:text"`
	// RecordedBy is the name of the owner whose push created the row
	RecordedBy *string `gorm:"column:recorded_by;type:text"`
	// ModifiedAt is the last time the source reported touching the element
	ModifiedAt time.Time `gorm:"column:modified_at;not null;default:now();type:timestamptz"`
	// FamilyTypeID references the owning family type
	FamilyTypeID int64 `gorm:"column:family_type_id;not null;index:idx_elements_family_type"`
	// ExternalID is the authoring tool's identifier, bound after persistence
	ExternalID *int64 `gorm:"column:external_id;index:idx_elements_external_id"`

	// Associations
	FamilyType FamilyType `gorm:"foreignKey:FamilyTypeID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Element model
func (Element) TableName() string {
	return "elements"
}
