package schema

// Family represents the families table. ExternalID starts null and is
// stamped by the binder once the authoring tool has created its
// counterpart object; a category replace destroys the binding.
type Family struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the family name, unique within a category by contract
	Name string `gorm:"column:name;not null;type:text"`
	// Classification is the classification code
	Classification *string `gorm:"column:classification;type:text"`
	// Parameters is the opaque parameter bag serialized by the source
	Parameters *string `gorm:"column:parameters;type:text"`
	// CategoryID references the owning category
	CategoryID int64 `gorm:"column:category_id;not null;index:idx_families_category"`
	// ExternalID is the authoring tool's identifier, bound after persistence
	ExternalID *int64 `gorm:"column:external_id;index:idx_families_external_id"`

	// Associations
	Category    Category     `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	FamilyTypes []FamilyType `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Family model
func (Family) TableName() string {
	return "families"
}
