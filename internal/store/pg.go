package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/archtools/modelsync/internal/domain"
	"github.com/archtools/modelsync/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. If any of the pool settings are 0, reasonable
// defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// SyncProjectTree ingests a full tree snapshot for one project in a single
// transaction:
//  1. resolve the owner by email, creating it on first sight
//  2. resolve the project by name, creating it on first sight; an existing
//     project only gets its hours overwritten (the owner is creation-only)
//  3. upsert the participation row, adding hours to the running total
//  4. replace the category subtree wholesale: delete every persisted
//     category under the project, then insert the incoming set depth-first
//     in input order
func (s *pgStore) SyncProjectTree(ctx context.Context, input SyncProjectInput) (*SyncSummary, error) {
	var summary *SyncSummary

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, err := resolveOwner(tx, input.Owner, input.Now)
		if err != nil {
			return err
		}

		project, err := resolveProject(tx, input.Project, owner.ID, input.Hours, input.Now)
		if err != nil {
			return err
		}

		if err := upsertParticipation(tx, project.ID, owner.ID, input.Hours, input.Now); err != nil {
			return err
		}

		// Wholesale replace: the incoming snapshot displaces whatever was
		// persisted before, bound external ids included.
		if err := tx.Where("project_id = ?", project.ID).Delete(&schema.Category{}).Error; err != nil {
			return fmt.Errorf("failed to clear categories: %w", err)
		}

		for i := range input.Categories {
			if err := insertCategorySubtree(tx, project.ID, owner.Name, &input.Categories[i], input.Now); err != nil {
				return err
			}
		}

		summary = &SyncSummary{
			OpID:       input.OpID,
			Project:    project.Name,
			Owner:      owner.Name,
			Categories: len(input.Categories),
			SyncedAt:   input.Now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// resolveOwner finds an owner by email or creates it. The name is a
// creation-only field: a returning owner pushing under a new display name
// keeps the original one.
func resolveOwner(tx *gorm.DB, input OwnerInput, now time.Time) (*schema.Owner, error) {
	var owner schema.Owner
	err := tx.Where("email = ?", input.Email).First(&owner).Error
	if err == nil {
		return &owner, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	owner = schema.Owner{
		Name:         input.Name,
		Email:        input.Email,
		RegisteredAt: now,
	}
	if err := tx.Create(&owner).Error; err != nil {
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}
	return &owner, nil
}

// resolveProject finds a project by name or creates it. An existing project
// only gets its hours overwritten; ownership is never re-parented.
func resolveProject(tx *gorm.DB, name string, ownerID int64, hours float64, now time.Time) (*schema.Project, error) {
	var project schema.Project
	err := tx.Where("name = ?", name).First(&project).Error
	if err == nil {
		if err := tx.Model(&project).Update("hours", hours).Error; err != nil {
			return nil, fmt.Errorf("failed to update project hours: %w", err)
		}
		project.Hours = hours
		return &project, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve project: %w", err)
	}

	source := schema.ProjectSourcePush
	project = schema.Project{
		Name:      name,
		OwnerID:   &ownerID,
		Hours:     hours,
		Source:    &source,
		UUID:      uuid.NewString(),
		CreatedAt: now,
	}
	if err := tx.Create(&project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

// upsertParticipation accumulates hours for the (project, owner) pair.
// Cumulative on purpose, unlike the project's last-write-wins hours.
func upsertParticipation(tx *gorm.DB, projectID, ownerID int64, hours float64, now time.Time) error {
	var participation schema.Participation
	err := tx.Where("project_id = ? AND owner_id = ?", projectID, ownerID).First(&participation).Error
	if err == nil {
		updates := map[string]interface{}{
			"hours":    participation.Hours + hours,
			"ended_at": now,
		}
		if err := tx.Model(&participation).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update participation: %w", err)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to resolve participation: %w", err)
	}

	participation = schema.Participation{
		ProjectID: projectID,
		OwnerID:   ownerID,
		Hours:     hours,
		StartedAt: now,
		EndedAt:   &now,
	}
	if err := tx.Create(&participation).Error; err != nil {
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

// insertCategorySubtree inserts one category and everything beneath it
// depth-first, preserving input order. Every node is a fresh insert: the
// preceding replace guarantees no survivors to merge with.
func insertCategorySubtree(tx *gorm.DB, projectID int64, ownerName string, input *CategoryInput, now time.Time) error {
	category := schema.Category{
		Name:           input.Name,
		Classification: input.Classification,
		RecordedBy:     &ownerName,
		ProjectID:      projectID,
	}
	if err := tx.Create(&category).Error; err != nil {
		return fmt.Errorf("failed to create category %q: %w", input.Name, err)
	}

	for i := range input.Families {
		famInput := &input.Families[i]
		family := schema.Family{
			Name:           famInput.Name,
			Classification: famInput.Classification,
			Parameters:     famInput.Parameters,
			CategoryID:     category.ID,
		}
		if err := tx.Create(&family).Error; err != nil {
			return fmt.Errorf("failed to create family %q: %w", famInput.Name, err)
		}

		for j := range famInput.FamilyTypes {
			typeInput := &famInput.FamilyTypes[j]
			familyType := schema.FamilyType{
				Name:           typeInput.Name,
				Classification: typeInput.Classification,
				Parameters:     typeInput.Parameters,
				FamilyID:       family.ID,
			}
			if err := tx.Create(&familyType).Error; err != nil {
				return fmt.Errorf("failed to create family type %q: %w", typeInput.Name, err)
			}

			for k := range typeInput.Elements {
				elemInput := &typeInput.Elements[k]
				element := schema.Element{
					Name:           elemInput.Name,
					Classification: elemInput.Classification,
					Parameters:     elemInput.Parameters,
					RecordedBy:     &ownerName,
					ModifiedAt:     now,
					FamilyTypeID:   familyType.ID,
				}
				if err := tx.Create(&element).Error; err != nil {
					return fmt.Errorf("failed to create element %q: %w", elemInput.Name, err)
				}
			}
		}
	}

	return nil
}

// BindExternalIDs stamps external ids onto rows addressed by internal id.
// A row that was replaced since the source last exported is skipped
// silently; rebinding the same value is a no-op at the row level.
func (s *pgStore) BindExternalIDs(ctx context.Context, bindings []ExternalIDBinding) (int, error) {
	if len(bindings) == 0 {
		return 0, nil
	}

	updated := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, binding := range bindings {
			model, err := modelForKind(binding.Kind)
			if err != nil {
				return err
			}

			result := tx.Model(model).
				Where("id = ?", binding.InternalID).
				Update("external_id", binding.ExternalID)
			if result.Error != nil {
				return fmt.Errorf("failed to bind external id for %s %d: %w",
					binding.Kind, binding.InternalID, result.Error)
			}
			updated += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}

// deletionTarget carries what the audit record needs before the row is gone
type deletionTarget struct {
	ID          int64  `gorm:"column:id"`
	Name        string `gorm:"column:name"`
	ProjectName string `gorm:"column:project_name"`
}

// DeleteByExternalID resolves a row by the authoring tool's identifier,
// removes it with all descendants and appends an audit record in the same
// transaction. A missing row is reported as Deleted=false, not an error.
func (s *pgStore) DeleteByExternalID(ctx context.Context, input DeleteByExternalIDInput) (*DeletionResult, error) {
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntityKind, input.Kind)
	}

	result := &DeletionResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := resolveDeletionTarget(tx, input.Kind, input.ExternalID)
		if err != nil {
			return err
		}
		if target == nil {
			return nil
		}

		model, err := modelForKind(input.Kind)
		if err != nil {
			return err
		}
		if err := tx.Where("id = ?", target.ID).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to delete %s %d: %w", input.Kind, target.ID, err)
		}

		detail, err := json.Marshal(map[string]interface{}{
			"name":  target.Name,
			"op_id": input.OpID,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal audit detail: %w", err)
		}

		record := schema.AuditRecord{
			Actor:      input.Actor,
			Project:    target.ProjectName,
			EntityKind: input.Kind.Label(),
			ExternalID: &input.ExternalID,
			Action:     domain.AuditActionDelete,
			RecordedAt: input.Now,
			Detail:     detail,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to append audit record: %w", err)
		}

		result.Deleted = true
		result.EntityName = target.Name
		result.Project = target.ProjectName
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// resolveDeletionTarget walks the hierarchy up to the owning project so the
// audit record can name it after the cascade
func resolveDeletionTarget(tx *gorm.DB, kind domain.EntityKind, externalID int64) (*deletionTarget, error) {
	var target deletionTarget
	var err error

	switch kind {
	case domain.EntityKindFamily:
		err = tx.Table("families").
			Select("families.id, families.name, projects.name AS project_name").
			Joins("JOIN categories ON categories.id = families.category_id").
			Joins("JOIN projects ON projects.id = categories.project_id").
			Where("families.external_id = ?", externalID).
			Take(&target).Error
	case domain.EntityKindFamilyType:
		err = tx.Table("family_types").
			Select("family_types.id, family_types.name, projects.name AS project_name").
			Joins("JOIN families ON families.id = family_types.family_id").
			Joins("JOIN categories ON categories.id = families.category_id").
			Joins("JOIN projects ON projects.id = categories.project_id").
			Where("family_types.external_id = ?", externalID).
			Take(&target).Error
	case domain.EntityKindElement:
		err = tx.Table("elements").
			Select("elements.id, elements.name, projects.name AS project_name").
			Joins("JOIN family_types ON family_types.id = elements.family_type_id").
			Joins("JOIN families ON families.id = family_types.family_id").
			Joins("JOIN categories ON categories.id = families.category_id").
			Joins("JOIN projects ON projects.id = categories.project_id").
			Where("elements.external_id = ?", externalID).
			Take(&target).Error
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntityKind, kind)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve %s by external id: %w", kind, err)
	}
	return &target, nil
}

// modelForKind maps an entity kind to its schema model. Exhaustive; unknown
// kinds were rejected at parse time but are guarded again here.
func modelForKind(kind domain.EntityKind) (interface{}, error) {
	switch kind {
	case domain.EntityKindFamily:
		return &schema.Family{}, nil
	case domain.EntityKindFamilyType:
		return &schema.FamilyType{}, nil
	case domain.EntityKindElement:
		return &schema.Element{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntityKind, kind)
	}
}

// GetProjectTrees loads project trees for export with all associations
// preloaded depth-first in insertion order. Read-only.
func (s *pgStore) GetProjectTrees(ctx context.Context, projectName string) ([]*schema.Project, error) {
	query := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Categories", orderByID).
		Preload("Categories.Families", orderByID).
		Preload("Categories.Families.FamilyTypes", orderByID).
		Preload("Categories.Families.FamilyTypes.Elements", orderByID).
		Order("projects.id")

	if projectName != "" {
		query = query.Where("name = ?", projectName)
	}

	var projects []*schema.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to load project trees: %w", err)
	}

	if projectName != "" && len(projects) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrProjectNotFound, projectName)
	}

	return projects, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// EnsurePlatformProject records a platform-discovered project unless the
// name is already taken. Existing projects are left untouched, whatever
// their source.
func (s *pgStore) EnsurePlatformProject(ctx context.Context, input PlatformProjectInput) (bool, error) {
	var existing schema.Project
	err := s.db.WithContext(ctx).Where("name = ?", input.Name).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to resolve project: %w", err)
	}

	source := schema.ProjectSourceTandem
	project := schema.Project{
		Name:       input.Name,
		Source:     &source,
		PlatformID: &input.PlatformID,
		UUID:       uuid.NewString(),
		CreatedAt:  input.Now,
	}
	if input.Description != "" {
		project.Description = &input.Description
	}
	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return false, fmt.Errorf("failed to create platform project: %w", err)
	}
	return true, nil
}

// GetAuditRecords lists audit rows, newest first
func (s *pgStore) GetAuditRecords(ctx context.Context, limit int) ([]*schema.AuditRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var records []*schema.AuditRecord
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}

	return records, nil
}
