package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/obralink/backend/internal/domain/shared"
	"github.com/obralink/backend/internal/infrastructure/persistence/models"
)

// GormConceptRepository implements movement.ConceptRepository using GORM
type GormConceptRepository struct {
	db *gorm.DB
}

// NewGormConceptRepository creates a new GormConceptRepository
func NewGormConceptRepository(db *gorm.DB) *GormConceptRepository {
	return &GormConceptRepository{db: db}
}

// FindTreeForOrganization loads the organization's full concept tree
func (r *GormConceptRepository) FindTreeForOrganization(ctx context.Context, organizationID uuid.UUID) (*movement.ConceptTree, error) {
	var conceptModels []models.ConceptModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("sort_order ASC, name ASC").
		Find(&conceptModels).Error; err != nil {
		return nil, err
	}
	concepts := make([]movement.Concept, len(conceptModels))
	for i := range conceptModels {
		concepts[i] = *conceptModels[i].ToDomain()
	}
	return movement.NewConceptTree(concepts), nil
}

// FindByID returns one concept scoped to an organization
func (r *GormConceptRepository) FindByID(ctx context.Context, id, organizationID uuid.UUID) (*movement.Concept, error) {
	var model models.ConceptModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormConceptRepository implements movement.ConceptRepository
var _ movement.ConceptRepository = (*GormConceptRepository)(nil)
