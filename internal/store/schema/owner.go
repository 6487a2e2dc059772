package schema

import (
	"time"
)

// Owner represents the owners table - the people pushing design trees from
// the authoring tool. Email is the sole natural key used to recognize a
// returning owner across pushes; the name is set on first sight only.
type Owner struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the display name supplied with the first push
	Name string `gorm:"column:name;not null;type:text"`
	// Email is the globally unique contact address identifying the owner
	Email string `gorm:"column:email;not null;type:text;uniqueIndex:idx_owners_email"`
	// RegisteredAt is the timestamp of the owner's first push
	RegisteredAt time.Time `gorm:"column:registered_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Owner model
func (Owner) TableName() string {
	return "owners"
}
