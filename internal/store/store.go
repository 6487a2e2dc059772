package store

import (
	"context"
	"time"

	"github.com/archtools/modelsync/internal/domain"
	"github.com/archtools/modelsync/internal/store/schema"
)

// OwnerInput describes the owner attached to an inbound push
type OwnerInput struct {
	Name  string
	Email string
}

// ElementInput is one element of an inbound tree snapshot
type ElementInput struct {
	Name           string
	Classification *string
	Parameters     *string
}

// FamilyTypeInput is one family type of an inbound tree snapshot
type FamilyTypeInput struct {
	Name           string
	Classification *string
	Parameters     *string
	Elements       []ElementInput
}

// FamilyInput is one family of an inbound tree snapshot
type FamilyInput struct {
	Name           string
	Classification *string
	Parameters     *string
	FamilyTypes    []FamilyTypeInput
}

// CategoryInput is one category subtree of an inbound tree snapshot
type CategoryInput struct {
	Name           string
	Classification *string
	Families       []FamilyInput
}

// SyncProjectInput is a full tree snapshot for one project. Category order
// is preserved as insertion order; Now is the single timestamp stamped on
// every row the push touches.
type SyncProjectInput struct {
	OpID       string
	Project    string
	Hours      float64
	Owner      OwnerInput
	Categories []CategoryInput
	Now        time.Time
}

// SyncSummary is the outcome of a successful push
type SyncSummary struct {
	OpID       string    `json:"op_id"`
	Project    string    `json:"project"`
	Owner      string    `json:"owner"`
	Categories int       `json:"categories_synced"`
	SyncedAt   time.Time `json:"synced_at"`
}

// ExternalIDBinding stamps one external id onto a row addressed by its
// internal id
type ExternalIDBinding struct {
	Kind       domain.EntityKind
	InternalID int64
	ExternalID int64
}

// DeleteByExternalIDInput resolves a row by external id for removal
type DeleteByExternalIDInput struct {
	Kind       domain.EntityKind
	ExternalID int64
	Actor      string
	OpID       string
	Now        time.Time
}

// DeletionResult distinguishes "deleted now" from "already gone"
type DeletionResult struct {
	Deleted    bool
	EntityName string
	Project    string
}

// PlatformProjectInput records a project discovered on the external platform
type PlatformProjectInput struct {
	Name        string
	Description string
	PlatformID  string
	Now         time.Time
}

// Store defines the persistence operations of the reconciliation engine
type Store interface {
	// SyncProjectTree ingests a full tree snapshot for one project,
	// replacing its category subtree wholesale. The whole push is one
	// transaction; any failure rolls back to the prior consistent state.
	SyncProjectTree(ctx context.Context, input SyncProjectInput) (*SyncSummary, error)

	// BindExternalIDs stamps external ids onto rows addressed by internal
	// id. Rows that no longer exist are skipped silently; returns the
	// number of rows actually updated.
	BindExternalIDs(ctx context.Context, bindings []ExternalIDBinding) (int, error)

	// DeleteByExternalID resolves a row by external id, removes it with all
	// descendants and appends an audit record. A missing row is a soft
	// outcome, not an error.
	DeleteByExternalID(ctx context.Context, input DeleteByExternalIDInput) (*DeletionResult, error)

	// GetProjectTrees loads full project trees for export, depth-first
	// associations preloaded in insertion order. An empty name loads every
	// project; a name that resolves nothing returns domain.ErrProjectNotFound.
	GetProjectTrees(ctx context.Context, projectName string) ([]*schema.Project, error)

	// EnsurePlatformProject creates a project row for a platform-discovered
	// project if the name is not taken yet. Returns whether a row was created.
	EnsurePlatformProject(ctx context.Context, input PlatformProjectInput) (bool, error)

	// GetAuditRecords lists audit rows, newest first
	GetAuditRecords(ctx context.Context, limit int) ([]*schema.AuditRecord, error)
}
