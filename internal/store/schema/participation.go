package schema

import (
	"time"
)

// Participation represents the participations table - per-owner, per-project
// accumulated hours. Unlike Project.Hours this field is additive: every push
// adds its hours to the running total and advances EndedAt.
type Participation struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ProjectID references the project worked on
	ProjectID int64 `gorm:"column:project_id;not null;uniqueIndex:idx_participations_project_owner,priority:1"`
	// OwnerID references the contributing owner
	OwnerID int64 `gorm:"column:owner_id;not null;uniqueIndex:idx_participations_project_owner,priority:2"`
	// Hours is the cumulative hours contributed by this owner
	Hours float64 `gorm:"column:hours;not null;default:0"`
	// StartedAt is the timestamp of the owner's first push for this project
	StartedAt time.Time `gorm:"column:started_at;not null;default:now();type:timestamptz"`
	// EndedAt is advanced to now on every subsequent push
	EndedAt *time.Time `gorm:"column:ended_at;type:timestamptz"`

	// Associations
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Owner   Owner   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Participation model
func (Participation) TableName() string {
	return "participations"
}
