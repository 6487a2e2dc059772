package dto

import (
	"encoding/json"
	"time"

	"github.com/archtools/modelsync/internal/store"
)

// PushResponse acknowledges a processed tree push
type PushResponse struct {
	Status  string             `json:"status"`
	Summary *store.SyncSummary `json:"summary"`
}

// BindResponse acknowledges a processed binding batch
type BindResponse struct {
	Status  string `json:"status"`
	Updated int    `json:"updated"`
}

// DeletionResponse distinguishes "deleted now" from "already gone"
type DeletionResponse struct {
	Status  string `json:"status"`
	Deleted bool   `json:"deleted"`
}

// AuditResponse lists recent audit records, newest first
type AuditResponse struct {
	Status  string            `json:"status"`
	Records []AuditRecordView `json:"records"`
}

// AuditRecordView mirrors one audit row
type AuditRecordView struct {
	ID         int64           `json:"id"`
	Actor      string          `json:"actor"`
	Project    string          `json:"project"`
	EntityKind string          `json:"entity_kind"`
	ExternalID *int64          `json:"external_id"`
	Action     string          `json:"action"`
	RecordedAt time.Time       `json:"recorded_at"`
	Detail     json.RawMessage `json:"detail,omitempty"`
}

// ExportResponse carries the full persisted tree back to the source
type ExportResponse struct {
	Status   string          `json:"status"`
	Projects []ProjectExport `json:"projects"`
}

// OwnerSummary is the owner slice of an export
type OwnerSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ElementExport mirrors one element row
type ElementExport struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Classification *string `json:"classification"`
	ExternalID     *int64  `json:"external_id"`
}

// FamilyTypeExport mirrors one family type row with its elements
type FamilyTypeExport struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Classification *string         `json:"classification"`
	ExternalID     *int64          `json:"external_id"`
	Elements       []ElementExport `json:"elements"`
}

// FamilyExport mirrors one family row with its types
type FamilyExport struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Classification *string            `json:"classification"`
	ExternalID     *int64             `json:"external_id"`
	FamilyTypes    []FamilyTypeExport `json:"family_types"`
}

// CategoryExport mirrors one category row with its families
type CategoryExport struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Classification *string        `json:"classification"`
	Families       []FamilyExport `json:"families"`
}

// ProjectExport mirrors one project tree, depth-first
type ProjectExport struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	UUID       string           `json:"uuid"`
	Hours      float64          `json:"hours"`
	CreatedAt  time.Time        `json:"created_at"`
	Owner      *OwnerSummary    `json:"owner"`
	Categories []CategoryExport `json:"categories"`
}
