package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/obralink/backend/internal/infrastructure/persistence/models"
)

// GormMovementRelationRepository implements movement.RelationRepository using GORM
type GormMovementRelationRepository struct {
	db *gorm.DB
}

// NewGormMovementRelationRepository creates a new GormMovementRelationRepository
func NewGormMovementRelationRepository(db *gorm.DB) *GormMovementRelationRepository {
	return &GormMovementRelationRepository{db: db}
}

// ReplaceForMovement deletes every relation row of the movement and inserts
// the given ones. Delete and insert run in one transaction so a retarget can
// never leave both the old and the new link behind.
func (r *GormMovementRelationRepository) ReplaceForMovement(ctx context.Context, movementID uuid.UUID, relations []*movement.Relation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.RelationModel{}, "movement_id = ?", movementID).Error; err != nil {
			return err
		}
		for _, rel := range relations {
			if err := tx.Create(models.RelationModelFromDomain(rel)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByMovement returns the movement's relation rows
func (r *GormMovementRelationRepository) FindByMovement(ctx context.Context, movementID uuid.UUID) ([]*movement.Relation, error) {
	var relationModels []models.RelationModel
	if err := r.db.WithContext(ctx).
		Where("movement_id = ?", movementID).
		Order("created_at ASC").
		Find(&relationModels).Error; err != nil {
		return nil, err
	}
	relations := make([]*movement.Relation, len(relationModels))
	for i := range relationModels {
		relations[i] = relationModels[i].ToDomain()
	}
	return relations, nil
}

// DeleteForMovement removes the movement's relation rows
func (r *GormMovementRelationRepository) DeleteForMovement(ctx context.Context, movementID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.RelationModel{}, "movement_id = ?", movementID).Error
}

// Ensure GormMovementRelationRepository implements movement.RelationRepository
var _ movement.RelationRepository = (*GormMovementRelationRepository)(nil)
