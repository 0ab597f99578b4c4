package movement

import (
	"context"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FormService answers classification previews for the movement form. The
// client calls it on every type/category/subcategory change to learn which
// variant to render; drafts themselves live on the client.
type FormService struct {
	conceptRepo movement.ConceptRepository
	resolver    *movement.Resolver
}

// NewFormService creates a new FormService
func NewFormService(conceptRepo movement.ConceptRepository, resolver *movement.Resolver) *FormService {
	return &FormService{conceptRepo: conceptRepo, resolver: resolver}
}

// ClassifyRequest is one classification selection to resolve
type ClassifyRequest struct {
	TypeID        uuid.UUID  `json:"type_id" binding:"required"`
	CategoryID    *uuid.UUID `json:"category_id"`
	SubcategoryID *uuid.UUID `json:"subcategory_id"`
}

// ClassifyResponse describes the resolved form variant
type ClassifyResponse struct {
	Variant           movement.FormVariant `json:"variant"`
	Fields            []movement.Field     `json:"fields"`
	Paired            bool                 `json:"paired"`
	HasRelationTarget bool                 `json:"has_relation_target"`
}

// Classify resolves a classification path to its form variant.
func (s *FormService) Classify(ctx context.Context, organizationID uuid.UUID, req ClassifyRequest) (*ClassifyResponse, error) {
	tree, err := s.conceptRepo.FindTreeForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	typeNode := tree.Get(req.TypeID)
	if typeNode == nil || !typeNode.IsRoot() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Selected concept is not a movement type")
	}

	variant := s.resolver.Resolve(typeNode, tree.GetRef(req.CategoryID), tree.GetRef(req.SubcategoryID))
	return &ClassifyResponse{
		Variant:           variant,
		Fields:            variant.Fields(),
		Paired:            variant.IsPaired(),
		HasRelationTarget: variant.HasRelationTarget(),
	}, nil
}
