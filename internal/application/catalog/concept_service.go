package catalog

import (
	"context"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ConceptService serves the classification taxonomy to the movement form.
type ConceptService struct {
	conceptRepo movement.ConceptRepository
}

// NewConceptService creates a new ConceptService
func NewConceptService(conceptRepo movement.ConceptRepository) *ConceptService {
	return &ConceptService{conceptRepo: conceptRepo}
}

// ConceptResponse represents one taxonomy node with its children
type ConceptResponse struct {
	ID              uuid.UUID             `json:"id"`
	Name            string                `json:"name"`
	ViewMode        movement.ViewMode     `json:"view_mode"`
	VariantOverride *movement.FormVariant `json:"variant_override,omitempty"`
	Children        []ConceptResponse     `json:"children,omitempty"`
}

// Tree returns the organization's taxonomy as nested types, categories and
// subcategories.
func (s *ConceptService) Tree(ctx context.Context, organizationID uuid.UUID) ([]ConceptResponse, error) {
	tree, err := s.conceptRepo.FindTreeForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	out := make([]ConceptResponse, 0, len(tree.Roots()))
	for _, root := range tree.Roots() {
		out = append(out, s.toResponse(tree, root))
	}
	return out, nil
}

// Get returns one taxonomy node with its direct children.
func (s *ConceptService) Get(ctx context.Context, organizationID, id uuid.UUID) (*ConceptResponse, error) {
	tree, err := s.conceptRepo.FindTreeForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	node := tree.Get(id)
	if node == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Concept not found")
	}
	resp := s.toResponse(tree, node)
	return &resp, nil
}

func (s *ConceptService) toResponse(tree *movement.ConceptTree, c *movement.Concept) ConceptResponse {
	resp := ConceptResponse{
		ID:              c.ID,
		Name:            c.Name,
		ViewMode:        c.EffectiveViewMode(),
		VariantOverride: c.VariantOverride,
	}
	for _, child := range tree.Children(c.ID) {
		resp.Children = append(resp.Children, s.toResponse(tree, child))
	}
	return resp
}
