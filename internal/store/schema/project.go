package schema

import (
	"time"
)

// ProjectSource tags where a project row originated
type ProjectSource string

const (
	// ProjectSourcePush marks projects created by an inbound tree push
	ProjectSourcePush ProjectSource = "push"
	// ProjectSourceTandem marks projects discovered by the platform poller
	ProjectSourceTandem ProjectSource = "tandem"
)

// Project represents the projects table - the root of the design hierarchy.
// Name is the global natural key; Hours is the authoritative current value
// and is overwritten on every push (last write wins), unlike the cumulative
// per-owner hours tracked in participations.
type Project struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the globally unique project name
	Name string `gorm:"column:name;not null;type:text;uniqueIndex:idx_projects_name"`
	// Description is an optional free-form description
	Description *string `gorm:"column:description;type:text"`
	// OwnerID references the owner that first pushed the project; never
	// re-parented by later pushes
	OwnerID *int64 `gorm:"column:owner_id"`
	// Hours is the current total hours logged, overwritten on each push
	Hours float64 `gorm:"column:hours;not null;default:0"`
	// Source tags how the project entered the store (push, tandem)
	Source *ProjectSource `gorm:"column:source;type:text"`
	// PlatformID is the external platform's project identifier, if known
	PlatformID *string `gorm:"column:platform_id;type:text"`
	// UUID is a stable public identifier assigned at creation
	UUID string `gorm:"column:uuid;not null;type:text"`
	// CreatedAt is the timestamp when the project row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Owner      *Owner     `gorm:"foreignKey:OwnerID"`
	Categories []Category `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "projects"
}
