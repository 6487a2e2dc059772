package dto

import (
	"fmt"

	"github.com/archtools/modelsync/internal/api/shared/constants"
	apierrors "github.com/archtools/modelsync/internal/api/shared/errors"
	"github.com/archtools/modelsync/internal/domain"
	"github.com/archtools/modelsync/internal/store"
)

// OwnerPayload identifies the pushing owner
type OwnerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ElementPayload is one element of an inbound tree snapshot
type ElementPayload struct {
	Name           string  `json:"name"`
	Classification *string `json:"classification,omitempty"`
	Parameters     *string `json:"parameters,omitempty"`
}

// FamilyTypePayload is one family type of an inbound tree snapshot
type FamilyTypePayload struct {
	Name           string           `json:"name"`
	Classification *string          `json:"classification,omitempty"`
	Parameters     *string          `json:"parameters,omitempty"`
	Elements       []ElementPayload `json:"elements"`
}

// FamilyPayload is one family of an inbound tree snapshot
type FamilyPayload struct {
	Name           string              `json:"name"`
	Classification *string             `json:"classification,omitempty"`
	Parameters     *string             `json:"parameters,omitempty"`
	FamilyTypes    []FamilyTypePayload `json:"family_types"`
}

// CategoryPayload is one category subtree of an inbound tree snapshot
type CategoryPayload struct {
	Name           string          `json:"name"`
	Classification *string         `json:"classification,omitempty"`
	Families       []FamilyPayload `json:"families"`
}

// PushRequest represents the request body for an inbound tree push
type PushRequest struct {
	Project    string            `json:"project"`
	Hours      float64           `json:"hours"`
	Owner      OwnerPayload      `json:"owner"`
	Categories []CategoryPayload `json:"categories"`
}

// Validate validates the request body before any store mutation
func (r *PushRequest) Validate() error {
	if r.Project == "" {
		return apierrors.NewValidationError("project is required")
	}
	if r.Hours < 0 {
		return apierrors.NewValidationError("hours must be non-negative")
	}
	if r.Owner.Name == "" {
		return apierrors.NewValidationError("owner.name is required")
	}
	if r.Owner.Email == "" {
		return apierrors.NewValidationError("owner.email is required")
	}
	if len(r.Categories) > constants.MAX_CATEGORIES_PER_PUSH {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d categories allowed per push", constants.MAX_CATEGORIES_PER_PUSH))
	}

	for _, category := range r.Categories {
		if category.Name == "" {
			return apierrors.NewValidationError("category name is required")
		}
		for _, family := range category.Families {
			if family.Name == "" {
				return apierrors.NewValidationError(fmt.Sprintf("family name is required in category %q", category.Name))
			}
			for _, familyType := range family.FamilyTypes {
				if familyType.Name == "" {
					return apierrors.NewValidationError(fmt.Sprintf("family type name is required in family %q", family.Name))
				}
				for _, element := range familyType.Elements {
					if element.Name == "" {
						return apierrors.NewValidationError(fmt.Sprintf("element name is required in family type %q", familyType.Name))
					}
				}
			}
		}
	}

	return nil
}

// ToStoreInput converts the validated request into the merge engine's input,
// preserving category order
func (r *PushRequest) ToStoreInput() store.SyncProjectInput {
	categories := make([]store.CategoryInput, len(r.Categories))
	for i, category := range r.Categories {
		families := make([]store.FamilyInput, len(category.Families))
		for j, family := range category.Families {
			familyTypes := make([]store.FamilyTypeInput, len(family.FamilyTypes))
			for k, familyType := range family.FamilyTypes {
				elements := make([]store.ElementInput, len(familyType.Elements))
				for l, element := range familyType.Elements {
					elements[l] = store.ElementInput{
						Name:           element.Name,
						Classification: element.Classification,
						Parameters:     element.Parameters,
					}
				}
				familyTypes[k] = store.FamilyTypeInput{
					Name:           familyType.Name,
					Classification: familyType.Classification,
					Parameters:     familyType.Parameters,
					Elements:       elements,
				}
			}
			families[j] = store.FamilyInput{
				Name:           family.Name,
				Classification: family.Classification,
				Parameters:     family.Parameters,
				FamilyTypes:    familyTypes,
			}
		}
		categories[i] = store.CategoryInput{
			Name:           category.Name,
			Classification: category.Classification,
			Families:       families,
		}
	}

	return store.SyncProjectInput{
		Project: r.Project,
		Hours:   r.Hours,
		Owner: store.OwnerInput{
			Name:  r.Owner.Name,
			Email: r.Owner.Email,
		},
		Categories: categories,
	}
}

// BindingItem stamps one external id onto a row addressed by internal id
type BindingItem struct {
	Kind       string `json:"kind"`
	InternalID int64  `json:"internal_id"`
	ExternalID int64  `json:"external_id"`
}

// BindExternalIDsRequest represents the request body for a binding batch
type BindExternalIDsRequest struct {
	Bindings []BindingItem `json:"bindings"`
}

// Validate validates the request body
func (r *BindExternalIDsRequest) Validate() error {
	if len(r.Bindings) == 0 {
		return apierrors.NewValidationError("bindings is required")
	}
	if len(r.Bindings) > constants.MAX_BINDINGS_PER_REQUEST {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d bindings allowed", constants.MAX_BINDINGS_PER_REQUEST))
	}

	for _, binding := range r.Bindings {
		if _, err := domain.ParseEntityKind(binding.Kind); err != nil {
			return apierrors.NewValidationError(fmt.Sprintf("invalid entity kind: %q", binding.Kind))
		}
		if binding.InternalID <= 0 {
			return apierrors.NewValidationError("internal_id must be positive")
		}
	}

	return nil
}

// ToStoreBindings converts the validated request into binder input
func (r *BindExternalIDsRequest) ToStoreBindings() []store.ExternalIDBinding {
	bindings := make([]store.ExternalIDBinding, len(r.Bindings))
	for i, binding := range r.Bindings {
		kind, _ := domain.ParseEntityKind(binding.Kind)
		bindings[i] = store.ExternalIDBinding{
			Kind:       kind,
			InternalID: binding.InternalID,
			ExternalID: binding.ExternalID,
		}
	}
	return bindings
}

// DeletionRequest represents the request body for a deletion by external id
type DeletionRequest struct {
	Kind       string `json:"kind"`
	ExternalID int64  `json:"external_id"`
	Actor      string `json:"actor,omitempty"`
}

// Validate validates the request body. An unknown kind is a hard caller
// error, unlike a missing target which is a soft outcome.
func (r *DeletionRequest) Validate() error {
	if _, err := domain.ParseEntityKind(r.Kind); err != nil {
		return apierrors.NewBadRequestError(fmt.Sprintf("invalid entity kind: %q", r.Kind))
	}
	if r.ExternalID == 0 {
		return apierrors.NewValidationError("external_id is required")
	}
	return nil
}

// ToStoreInput converts the request into a store deletion input
func (r *DeletionRequest) ToStoreInput() (store.DeleteByExternalIDInput, error) {
	if err := r.Validate(); err != nil {
		return store.DeleteByExternalIDInput{}, err
	}
	kind, err := domain.ParseEntityKind(r.Kind)
	if err != nil {
		return store.DeleteByExternalIDInput{}, apierrors.NewBadRequestError(fmt.Sprintf("invalid entity kind: %q", r.Kind))
	}
	return store.DeleteByExternalIDInput{
		Kind:       kind,
		ExternalID: r.ExternalID,
		Actor:      r.Actor,
	}, nil
}
