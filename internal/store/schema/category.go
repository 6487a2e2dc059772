package schema

// Category represents the categories table - the first level beneath a
// project. Categories are wholesale replaced on every push: the incoming
// set displaces whatever was persisted before, cascading to families,
// family types and elements beneath.
type Category struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the category name, unique within a project by contract
	Name string `gorm:"column:name;not null;type:text"`
	// Classification is the classification code (e.g. an OmniClass number)
	Classification *string `gorm:"column:classification;type:text"`
	// RecordedBy is the name of the owner whose push created the row
	RecordedBy *string `gorm:"column:recorded_by;type:text"`
	// ProjectID references the owning project
	ProjectID int64 `gorm:"column:project_id;not null;index:idx_categories_project"`

	// Associations
	Project  Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Families []Family `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
