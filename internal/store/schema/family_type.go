package schema

// FamilyType represents the family_types table - the sized/configured
// variants of a family.
type FamilyType struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the type name, unique within a family by contract
	Name string `gorm:"column:name;not null;type:text"`
	// Classification is the classification code
	Classification *string `gorm:"column:classification;type:text"`
	// Parameters is the opaque parameter bag serialized by the source
	Parameters *string `gorm:"column:parameters;type:text"`
	// FamilyID references the owning family
	FamilyID int64 `gorm:"column:family_id;not null;index:idx_family_types_family"`
	// ExternalID is the authoring tool's identifier, bound after persistence
	ExternalID *int64 `gorm:"column:external_id;index:idx_family_types_external_id"`

	// Associations
	Family   Family    `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE"`
	Elements []Element `gorm:"foreignKey:FamilyTypeID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the FamilyType model
func (FamilyType) TableName() string {
	return "family_types"
}
