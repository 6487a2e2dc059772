package dto

import (
	"encoding/json"

	"github.com/archtools/modelsync/internal/store/schema"
)

// MapProjectToExport converts a preloaded project row into its export
// shape, preserving the persisted child order at every level.
func MapProjectToExport(project *schema.Project) ProjectExport {
	export := ProjectExport{
		ID:         project.ID,
		Name:       project.Name,
		UUID:       project.UUID,
		Hours:      project.Hours,
		CreatedAt:  project.CreatedAt,
		Categories: make([]CategoryExport, 0, len(project.Categories)),
	}

	if project.Owner != nil {
		export.Owner = &OwnerSummary{
			ID:    project.Owner.ID,
			Name:  project.Owner.Name,
			Email: project.Owner.Email,
		}
	}

	for i := range project.Categories {
		export.Categories = append(export.Categories, mapCategoryToExport(&project.Categories[i]))
	}

	return export
}

// MapAuditRecordToView converts an audit row into its response shape
func MapAuditRecordToView(record *schema.AuditRecord) AuditRecordView {
	return AuditRecordView{
		ID:         record.ID,
		Actor:      record.Actor,
		Project:    record.Project,
		EntityKind: record.EntityKind,
		ExternalID: record.ExternalID,
		Action:     string(record.Action),
		RecordedAt: record.RecordedAt,
		Detail:     json.RawMessage(record.Detail),
	}
}

func mapCategoryToExport(category *schema.Category) CategoryExport {
	export := CategoryExport{
		ID:             category.ID,
		Name:           category.Name,
		Classification: category.Classification,
		Families:       make([]FamilyExport, 0, len(category.Families)),
	}

	for i := range category.Families {
		export.Families = append(export.Families, mapFamilyToExport(&category.Families[i]))
	}

	return export
}

func mapFamilyToExport(family *schema.Family) FamilyExport {
	export := FamilyExport{
		ID:             family.ID,
		Name:           family.Name,
		Classification: family.Classification,
		ExternalID:     family.ExternalID,
		FamilyTypes:    make([]FamilyTypeExport, 0, len(family.FamilyTypes)),
	}

	for i := range family.FamilyTypes {
		export.FamilyTypes = append(export.FamilyTypes, mapFamilyTypeToExport(&family.FamilyTypes[i]))
	}

	return export
}

func mapFamilyTypeToExport(familyType *schema.FamilyType) FamilyTypeExport {
	export := FamilyTypeExport{
		ID:             familyType.ID,
		Name:           familyType.Name,
		Classification: familyType.Classification,
		ExternalID:     familyType.ExternalID,
		Elements:       make([]ElementExport, 0, len(familyType.Elements)),
	}

	for _, element := range familyType.Elements {
		export.Elements = append(export.Elements, ElementExport{
			ID:             element.ID,
			Name:           element.Name,
			Classification: element.Classification,
			ExternalID:     element.ExternalID,
		})
	}

	return export
}
