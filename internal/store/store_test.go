package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/archtools/modelsync/internal/domain"
	"github.com/archtools/modelsync/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func strPtr(s string) *string {
	return &s
}

// buildTestTree creates a push input with one category, one family, one type
// and two elements
func buildTestTree(project, ownerName, ownerEmail string, hours float64) SyncProjectInput {
	return SyncProjectInput{
		OpID:    "01TESTOP00000000000000000",
		Project: project,
		Hours:   hours,
		Owner: OwnerInput{
			Name:  ownerName,
			Email: ownerEmail,
		},
		Categories: []CategoryInput{
			{
				Name:           "Walls",
				Classification: strPtr("21-01 10 10"),
				Families: []FamilyInput{
					{
						Name:           "Basic Wall",
						Classification: strPtr("21-01 10 10 10"),
						Parameters:     strPtr(`{"structural":true}`),
						FamilyTypes: []FamilyTypeInput{
							{
								Name: "Generic 200mm",
								Elements: []ElementInput{
									{Name: "Wall-001"},
									{Name: "Wall-002"},
								},
							},
						},
					},
				},
			},
		},
		Now: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// rawDB exposes the underlying gorm handle for row-level assertions
func rawDB(s Store) *gorm.DB {
	return s.(*pgStore).db
}

// =============================================================================
// Test: SyncProjectTree
// =============================================================================

func testSyncProjectTree(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("first push creates owner, project and full tree", func(t *testing.T) {
		input := buildTestTree("Tower A", "Ada", "ada@example.com", 5)

		summary, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Equal(t, "Tower A", summary.Project)
		assert.Equal(t, "Ada", summary.Owner)
		assert.Equal(t, 1, summary.Categories)
		assert.Equal(t, input.Now, summary.SyncedAt)

		projects, err := store.GetProjectTrees(ctx, "Tower A")
		require.NoError(t, err)
		require.Len(t, projects, 1)

		project := projects[0]
		assert.Equal(t, "Tower A", project.Name)
		assert.Equal(t, float64(5), project.Hours)
		assert.NotEmpty(t, project.UUID)
		require.NotNil(t, project.Source)
		assert.Equal(t, schema.ProjectSourcePush, *project.Source)
		require.NotNil(t, project.Owner)
		assert.Equal(t, "ada@example.com", project.Owner.Email)

		require.Len(t, project.Categories, 1)
		category := project.Categories[0]
		assert.Equal(t, "Walls", category.Name)
		require.NotNil(t, category.RecordedBy)
		assert.Equal(t, "Ada", *category.RecordedBy)

		require.Len(t, category.Families, 1)
		family := category.Families[0]
		assert.Equal(t, "Basic Wall", family.Name)
		assert.Nil(t, family.ExternalID)

		require.Len(t, family.FamilyTypes, 1)
		familyType := family.FamilyTypes[0]
		assert.Equal(t, "Generic 200mm", familyType.Name)

		require.Len(t, familyType.Elements, 2)
		assert.Equal(t, "Wall-001", familyType.Elements[0].Name)
		assert.Equal(t, "Wall-002", familyType.Elements[1].Name)
	})

	t.Run("category order is preserved as insertion order", func(t *testing.T) {
		input := buildTestTree("Ordered Project", "Ada", "ada@example.com", 1)
		input.Categories = []CategoryInput{
			{Name: "Zulu"},
			{Name: "Alpha"},
			{Name: "Mike"},
		}

		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err := store.GetProjectTrees(ctx, "Ordered Project")
		require.NoError(t, err)
		require.Len(t, projects, 1)
		require.Len(t, projects[0].Categories, 3)
		assert.Equal(t, "Zulu", projects[0].Categories[0].Name)
		assert.Equal(t, "Alpha", projects[0].Categories[1].Name)
		assert.Equal(t, "Mike", projects[0].Categories[2].Name)
	})

	t.Run("empty category set clears the whole tree", func(t *testing.T) {
		input := buildTestTree("Emptied Project", "Ada", "ada@example.com", 2)
		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		input.Categories = nil
		summary, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Categories)

		projects, err := store.GetProjectTrees(ctx, "Emptied Project")
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Empty(t, projects[0].Categories)
	})

	t.Run("duplicate element names within one push produce duplicate rows", func(t *testing.T) {
		input := buildTestTree("Dup Elements", "Ada", "ada@example.com", 1)
		input.Categories[0].Families[0].FamilyTypes[0].Elements = []ElementInput{
			{Name: "Column-001"},
			{Name: "Column-001"},
		}

		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err := store.GetProjectTrees(ctx, "Dup Elements")
		require.NoError(t, err)
		elements := projects[0].Categories[0].Families[0].FamilyTypes[0].Elements
		require.Len(t, elements, 2)
		assert.Equal(t, "Column-001", elements[0].Name)
		assert.Equal(t, "Column-001", elements[1].Name)
	})
}

// =============================================================================
// Test: repeated pushes
// =============================================================================

func testRepeatedPushReplacesCategories(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("second push wholesale replaces the category subtree", func(t *testing.T) {
		input := buildTestTree("Replace Me", "Ada", "ada@example.com", 5)
		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err := store.GetProjectTrees(ctx, "Replace Me")
		require.NoError(t, err)
		firstCategoryID := projects[0].Categories[0].ID

		// Same snapshot again: same shape, fresh rows
		_, err = store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err = store.GetProjectTrees(ctx, "Replace Me")
		require.NoError(t, err)
		require.Len(t, projects[0].Categories, 1)
		assert.NotEqual(t, firstCategoryID, projects[0].Categories[0].ID)

		// No orphans below the replaced category
		var familyCount int64
		db := rawDB(store)
		require.NoError(t, db.Model(&schema.Family{}).
			Joins("JOIN categories ON categories.id = families.category_id").
			Where("categories.project_id = ?", projects[0].ID).
			Count(&familyCount).Error)
		assert.Equal(t, int64(1), familyCount)
	})

	t.Run("project hours are overwritten, not accumulated", func(t *testing.T) {
		input := buildTestTree("Hours Project", "Ada", "ada@example.com", 5)
		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		input.Hours = 3
		_, err = store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err := store.GetProjectTrees(ctx, "Hours Project")
		require.NoError(t, err)
		assert.Equal(t, float64(3), projects[0].Hours)
	})

	t.Run("project owner is never re-parented", func(t *testing.T) {
		input := buildTestTree("Owned Project", "Ada", "ada@example.com", 1)
		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		second := buildTestTree("Owned Project", "Grace", "grace@example.com", 2)
		_, err = store.SyncProjectTree(ctx, second)
		require.NoError(t, err)

		projects, err := store.GetProjectTrees(ctx, "Owned Project")
		require.NoError(t, err)
		require.NotNil(t, projects[0].Owner)
		assert.Equal(t, "ada@example.com", projects[0].Owner.Email)
	})
}

// =============================================================================
// Test: participation accumulation
// =============================================================================

func testParticipationAccumulates(t *testing.T, store Store) {
	ctx := context.Background()
	db := rawDB(store)

	t.Run("hours accumulate across pushes for the same pair", func(t *testing.T) {
		input := buildTestTree("Participation A", "Ada", "ada@example.com", 5)
		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		input.Hours = 3
		_, err = store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		var participation schema.Participation
		require.NoError(t, db.
			Joins("JOIN projects ON projects.id = participations.project_id").
			Where("projects.name = ?", "Participation A").
			First(&participation).Error)
		assert.Equal(t, float64(8), participation.Hours)
		require.NotNil(t, participation.EndedAt)
		assert.Equal(t, input.Now, participation.EndedAt.UTC())
	})

	t.Run("each owner gets their own participation row", func(t *testing.T) {
		first := buildTestTree("Participation B", "Ada", "ada@example.com", 4)
		_, err := store.SyncProjectTree(ctx, first)
		require.NoError(t, err)

		second := buildTestTree("Participation B", "Grace", "grace@example.com", 6)
		_, err = store.SyncProjectTree(ctx, second)
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&schema.Participation{}).
			Joins("JOIN projects ON projects.id = participations.project_id").
			Where("projects.name = ?", "Participation B").
			Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})
}

// =============================================================================
// Test: owner resolution
// =============================================================================

func testOwnerResolution(t *testing.T, store Store) {
	ctx := context.Background()
	db := rawDB(store)

	t.Run("email is the natural key, name is creation-only", func(t *testing.T) {
		first := buildTestTree("Owner Test A", "Ada", "shared@example.com", 1)
		_, err := store.SyncProjectTree(ctx, first)
		require.NoError(t, err)

		// Same email, different display name
		second := buildTestTree("Owner Test B", "Ada Lovelace", "shared@example.com", 1)
		summary, err := store.SyncProjectTree(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, "Ada", summary.Owner)

		var owners []schema.Owner
		require.NoError(t, db.Where("email = ?", "shared@example.com").Find(&owners).Error)
		require.Len(t, owners, 1)
		assert.Equal(t, "Ada", owners[0].Name)
	})
}

// =============================================================================
// Test: BindExternalIDs
// =============================================================================

func testBindExternalIDs(t *testing.T, store Store) {
	ctx := context.Background()

	pushTree := func(project string) *schema.Project {
		input := buildTestTree(project, "Ada", "ada@example.com", 1)
		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err := store.GetProjectTrees(ctx, project)
		require.NoError(t, err)
		require.Len(t, projects, 1)
		return projects[0]
	}

	t.Run("bindings stamp external ids per kind", func(t *testing.T) {
		project := pushTree("Bind Basic")
		family := project.Categories[0].Families[0]
		familyType := family.FamilyTypes[0]
		element := familyType.Elements[0]

		updated, err := store.BindExternalIDs(ctx, []ExternalIDBinding{
			{Kind: domain.EntityKindFamily, InternalID: family.ID, ExternalID: 100},
			{Kind: domain.EntityKindFamilyType, InternalID: familyType.ID, ExternalID: 200},
			{Kind: domain.EntityKindElement, InternalID: element.ID, ExternalID: 300},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, updated)

		reloaded, err := store.GetProjectTrees(ctx, "Bind Basic")
		require.NoError(t, err)
		boundFamily := reloaded[0].Categories[0].Families[0]
		require.NotNil(t, boundFamily.ExternalID)
		assert.Equal(t, int64(100), *boundFamily.ExternalID)
		require.NotNil(t, boundFamily.FamilyTypes[0].ExternalID)
		assert.Equal(t, int64(200), *boundFamily.FamilyTypes[0].ExternalID)
		require.NotNil(t, boundFamily.FamilyTypes[0].Elements[0].ExternalID)
		assert.Equal(t, int64(300), *boundFamily.FamilyTypes[0].Elements[0].ExternalID)
	})

	t.Run("missing rows are skipped silently", func(t *testing.T) {
		project := pushTree("Bind Missing")
		family := project.Categories[0].Families[0]

		updated, err := store.BindExternalIDs(ctx, []ExternalIDBinding{
			{Kind: domain.EntityKindFamily, InternalID: family.ID, ExternalID: 400},
			{Kind: domain.EntityKindElement, InternalID: 999999999, ExternalID: 500},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, updated)
	})

	t.Run("rebinding the same value is idempotent", func(t *testing.T) {
		project := pushTree("Bind Twice")
		family := project.Categories[0].Families[0]
		bindings := []ExternalIDBinding{
			{Kind: domain.EntityKindFamily, InternalID: family.ID, ExternalID: 600},
		}

		updated, err := store.BindExternalIDs(ctx, bindings)
		require.NoError(t, err)
		assert.Equal(t, 1, updated)

		updated, err = store.BindExternalIDs(ctx, bindings)
		require.NoError(t, err)
		assert.Equal(t, 1, updated)

		reloaded, err := store.GetProjectTrees(ctx, "Bind Twice")
		require.NoError(t, err)
		bound := reloaded[0].Categories[0].Families[0]
		require.NotNil(t, bound.ExternalID)
		assert.Equal(t, int64(600), *bound.ExternalID)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		updated, err := store.BindExternalIDs(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, updated)
	})

	t.Run("unknown kind fails the whole batch", func(t *testing.T) {
		_, err := store.BindExternalIDs(ctx, []ExternalIDBinding{
			{Kind: domain.EntityKind("floorplan"), InternalID: 1, ExternalID: 1},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownEntityKind)
	})
}

// =============================================================================
// Test: DeleteByExternalID
// =============================================================================

func testDeleteByExternalID(t *testing.T, store Store) {
	ctx := context.Background()
	db := rawDB(store)

	bindElement := func(project string, externalID int64) {
		input := buildTestTree(project, "Ada", "ada@example.com", 1)
		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err := store.GetProjectTrees(ctx, project)
		require.NoError(t, err)
		element := projects[0].Categories[0].Families[0].FamilyTypes[0].Elements[0]

		_, err = store.BindExternalIDs(ctx, []ExternalIDBinding{
			{Kind: domain.EntityKindElement, InternalID: element.ID, ExternalID: externalID},
		})
		require.NoError(t, err)
	}

	t.Run("bound element is deleted and audited", func(t *testing.T) {
		bindElement("Delete Element", 555)
		now := time.Now().UTC().Truncate(time.Microsecond)

		result, err := store.DeleteByExternalID(ctx, DeleteByExternalIDInput{
			Kind:       domain.EntityKindElement,
			ExternalID: 555,
			Actor:      "Ada",
			OpID:       "01DELOP000000000000000000",
			Now:        now,
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Deleted)
		assert.Equal(t, "Wall-001", result.EntityName)
		assert.Equal(t, "Delete Element", result.Project)

		// Sibling element survives
		projects, err := store.GetProjectTrees(ctx, "Delete Element")
		require.NoError(t, err)
		elements := projects[0].Categories[0].Families[0].FamilyTypes[0].Elements
		require.Len(t, elements, 1)
		assert.Equal(t, "Wall-002", elements[0].Name)

		// Exactly one DELETE audit record
		var records []schema.AuditRecord
		require.NoError(t, db.Where("project = ?", "Delete Element").Find(&records).Error)
		require.Len(t, records, 1)
		assert.Equal(t, "Ada", records[0].Actor)
		assert.Equal(t, "Element", records[0].EntityKind)
		assert.Equal(t, domain.AuditActionDelete, records[0].Action)
		require.NotNil(t, records[0].ExternalID)
		assert.Equal(t, int64(555), *records[0].ExternalID)

		var detail map[string]interface{}
		require.NoError(t, json.Unmarshal(records[0].Detail, &detail))
		assert.Equal(t, "Wall-001", detail["name"])
		assert.Equal(t, "01DELOP000000000000000000", detail["op_id"])
	})

	t.Run("deleting an already gone entity is a soft outcome", func(t *testing.T) {
		bindElement("Delete Twice", 556)

		input := DeleteByExternalIDInput{
			Kind:       domain.EntityKindElement,
			ExternalID: 556,
			Actor:      "Ada",
			OpID:       "01DELOP000000000000000001",
			Now:        time.Now().UTC(),
		}

		result, err := store.DeleteByExternalID(ctx, input)
		require.NoError(t, err)
		assert.True(t, result.Deleted)

		result, err = store.DeleteByExternalID(ctx, input)
		require.NoError(t, err)
		assert.False(t, result.Deleted)

		// No audit record for the miss
		var count int64
		require.NoError(t, db.Model(&schema.AuditRecord{}).
			Where("project = ?", "Delete Twice").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("deleting a family cascades to types and elements", func(t *testing.T) {
		input := buildTestTree("Delete Family", "Ada", "ada@example.com", 1)
		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err := store.GetProjectTrees(ctx, "Delete Family")
		require.NoError(t, err)
		family := projects[0].Categories[0].Families[0]

		_, err = store.BindExternalIDs(ctx, []ExternalIDBinding{
			{Kind: domain.EntityKindFamily, InternalID: family.ID, ExternalID: 700},
		})
		require.NoError(t, err)

		result, err := store.DeleteByExternalID(ctx, DeleteByExternalIDInput{
			Kind:       domain.EntityKindFamily,
			ExternalID: 700,
			Actor:      "Ada",
			OpID:       "01DELOP000000000000000002",
			Now:        time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.True(t, result.Deleted)
		assert.Equal(t, "Basic Wall", result.EntityName)

		var typeCount, elementCount int64
		require.NoError(t, db.Model(&schema.FamilyType{}).
			Where("family_id = ?", family.ID).Count(&typeCount).Error)
		require.NoError(t, db.Model(&schema.Element{}).
			Where("family_type_id = ?", family.FamilyTypes[0].ID).Count(&elementCount).Error)
		assert.Equal(t, int64(0), typeCount)
		assert.Equal(t, int64(0), elementCount)
	})

	t.Run("unknown kind is a hard error", func(t *testing.T) {
		_, err := store.DeleteByExternalID(ctx, DeleteByExternalIDInput{
			Kind:       domain.EntityKind("floorplan"),
			ExternalID: 1,
			Actor:      "Ada",
			Now:        time.Now().UTC(),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownEntityKind)
	})
}

// =============================================================================
// Test: bindings across replaces
// =============================================================================

func testCategoryReplaceClearsBindings(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("a replace destroys earlier bindings", func(t *testing.T) {
		input := buildTestTree("Rebind Project", "Ada", "ada@example.com", 1)
		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err := store.GetProjectTrees(ctx, "Rebind Project")
		require.NoError(t, err)
		family := projects[0].Categories[0].Families[0]

		_, err = store.BindExternalIDs(ctx, []ExternalIDBinding{
			{Kind: domain.EntityKindFamily, InternalID: family.ID, ExternalID: 800},
		})
		require.NoError(t, err)

		// Next push replaces the subtree, fresh rows carry no bindings
		_, err = store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err = store.GetProjectTrees(ctx, "Rebind Project")
		require.NoError(t, err)
		assert.Nil(t, projects[0].Categories[0].Families[0].ExternalID)

		// The stale external id no longer resolves anything
		result, err := store.DeleteByExternalID(ctx, DeleteByExternalIDInput{
			Kind:       domain.EntityKindFamily,
			ExternalID: 800,
			Actor:      "Ada",
			Now:        time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.False(t, result.Deleted)
	})
}

// =============================================================================
// Test: GetProjectTrees
// =============================================================================

func testGetProjectTrees(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("empty name returns every project in creation order", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			input := buildTestTree(fmt.Sprintf("Export %d", i), "Ada", "ada@example.com", float64(i))
			_, err := store.SyncProjectTree(ctx, input)
			require.NoError(t, err)
		}

		projects, err := store.GetProjectTrees(ctx, "")
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(projects), 3)
		for i := 1; i < len(projects); i++ {
			assert.Greater(t, projects[i].ID, projects[i-1].ID)
		}
	})

	t.Run("a missing named project is an error", func(t *testing.T) {
		_, err := store.GetProjectTrees(ctx, "No Such Project")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

// =============================================================================
// Test: EnsurePlatformProject
// =============================================================================

func testEnsurePlatformProject(t *testing.T, store Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("unknown platform project is registered once", func(t *testing.T) {
		input := PlatformProjectInput{
			Name:        "Platform Tower",
			Description: "Discovered on the platform",
			PlatformID:  "b.project.123",
			Now:         now,
		}

		created, err := store.EnsurePlatformProject(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = store.EnsurePlatformProject(ctx, input)
		require.NoError(t, err)
		assert.False(t, created)

		projects, err := store.GetProjectTrees(ctx, "Platform Tower")
		require.NoError(t, err)
		require.Len(t, projects, 1)
		require.NotNil(t, projects[0].Source)
		assert.Equal(t, schema.ProjectSourceTandem, *projects[0].Source)
		require.NotNil(t, projects[0].PlatformID)
		assert.Equal(t, "b.project.123", *projects[0].PlatformID)
	})

	t.Run("a pushed project with the same name is left untouched", func(t *testing.T) {
		push := buildTestTree("Shared Name", "Ada", "ada@example.com", 2)
		_, err := store.SyncProjectTree(ctx, push)
		require.NoError(t, err)

		created, err := store.EnsurePlatformProject(ctx, PlatformProjectInput{
			Name:       "Shared Name",
			PlatformID: "b.project.456",
			Now:        now,
		})
		require.NoError(t, err)
		assert.False(t, created)

		projects, err := store.GetProjectTrees(ctx, "Shared Name")
		require.NoError(t, err)
		require.NotNil(t, projects[0].Source)
		assert.Equal(t, schema.ProjectSourcePush, *projects[0].Source)
		assert.Nil(t, projects[0].PlatformID)
	})
}

// =============================================================================
// Test: GetAuditRecords
// =============================================================================

func testGetAuditRecords(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("records come back newest first", func(t *testing.T) {
		input := buildTestTree("Audit Project", "Ada", "ada@example.com", 1)
		input.Categories[0].Families[0].FamilyTypes[0].Elements = []ElementInput{
			{Name: "Beam-001"},
			{Name: "Beam-002"},
			{Name: "Beam-003"},
		}
		_, err := store.SyncProjectTree(ctx, input)
		require.NoError(t, err)

		projects, err := store.GetProjectTrees(ctx, "Audit Project")
		require.NoError(t, err)
		elements := projects[0].Categories[0].Families[0].FamilyTypes[0].Elements
		require.Len(t, elements, 3)

		bindings := make([]ExternalIDBinding, 0, len(elements))
		for i, element := range elements {
			bindings = append(bindings, ExternalIDBinding{
				Kind:       domain.EntityKindElement,
				InternalID: element.ID,
				ExternalID: int64(900 + i),
			})
		}
		_, err = store.BindExternalIDs(ctx, bindings)
		require.NoError(t, err)

		for i := range elements {
			_, err := store.DeleteByExternalID(ctx, DeleteByExternalIDInput{
				Kind:       domain.EntityKindElement,
				ExternalID: int64(900 + i),
				Actor:      "Ada",
				OpID:       fmt.Sprintf("01AUDITOP%016d", i),
				Now:        time.Now().UTC(),
			})
			require.NoError(t, err)
		}

		records, err := store.GetAuditRecords(ctx, 2)
		require.NoError(t, err)
		require.Len(t, records, 2)
		require.NotNil(t, records[0].ExternalID)
		require.NotNil(t, records[1].ExternalID)
		assert.Equal(t, int64(902), *records[0].ExternalID)
		assert.Equal(t, int64(901), *records[1].ExternalID)
	})
}

// =============================================================================
// Suite driver
// =============================================================================

// RunStoreTests runs the shared store test suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"SyncProjectTree", testSyncProjectTree},
		{"RepeatedPushReplacesCategories", testRepeatedPushReplacesCategories},
		{"ParticipationAccumulates", testParticipationAccumulates},
		{"OwnerResolution", testOwnerResolution},
		{"BindExternalIDs", testBindExternalIDs},
		{"DeleteByExternalID", testDeleteByExternalID},
		{"CategoryReplaceClearsBindings", testCategoryReplaceClearsBindings},
		{"GetProjectTrees", testGetProjectTrees},
		{"EnsurePlatformProject", testEnsurePlatformProject},
		{"GetAuditRecords", testGetAuditRecords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
