package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/obralink/backend/internal/domain/shared"
	"github.com/obralink/backend/internal/infrastructure/persistence/models"
)

// GormMovementRepository implements movement.Repository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Save creates or overwrites one movement row
func (r *GormMovementRepository) Save(ctx context.Context, m *movement.Movement) error {
	model := models.MovementModelFromDomain(m)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveGroup persists both halves of a conversion or transfer pair in one
// transaction so a partial pair can never land.
func (r *GormMovementRepository) SaveGroup(ctx context.Context, egress, ingress *movement.Movement) error {
	egressModel := models.MovementModelFromDomain(egress)
	ingressModel := models.MovementModelFromDomain(ingress)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(egressModel).Error; err != nil {
			return err
		}
		return tx.Save(ingressModel).Error
	})
}

// FindByIDForOrganization finds a movement by ID for a specific organization
func (r *GormMovementRepository) FindByIDForOrganization(ctx context.Context, id, organizationID uuid.UUID) (*movement.Movement, error) {
	var model models.MovementModel
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

// FindGroup returns the rows of a conversion or transfer group ordered by
// amount descending, so the first row is the egress half.
func (r *GormMovementRepository) FindGroup(ctx context.Context, groupID, organizationID uuid.UUID) ([]*movement.Movement, error) {
	var groupModels []models.MovementModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND (conversion_group_id = ? OR transfer_group_id = ?)",
			organizationID, groupID, groupID).
		Order("amount DESC").
		Find(&groupModels).Error; err != nil {
		return nil, err
	}
	rows := make([]*movement.Movement, len(groupModels))
	for i := range groupModels {
		rows[i] = groupModels[i].ToDomain()
	}
	return rows, nil
}

// FindAllForOrganization lists movements for an organization with filtering
func (r *GormMovementRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter movement.ListFilter) ([]*movement.Movement, error) {
	var movementModels []models.MovementModel
	query := r.db.WithContext(ctx).Model(&models.MovementModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&movementModels).Error; err != nil {
		return nil, err
	}
	rows := make([]*movement.Movement, len(movementModels))
	for i := range movementModels {
		rows[i] = movementModels[i].ToDomain()
	}
	return rows, nil
}

// CountForOrganization counts movements for an organization with filtering
func (r *GormMovementRepository) CountForOrganization(ctx context.Context, organizationID uuid.UUID, filter movement.ListFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.MovementModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteForOrganization removes one movement row
func (r *GormMovementRepository) DeleteForOrganization(ctx context.Context, id, organizationID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.MovementModel{}, "organization_id = ? AND id = ?", organizationID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteGroupForOrganization removes both rows of a group in one transaction
func (r *GormMovementRepository) DeleteGroupForOrganization(ctx context.Context, groupID, organizationID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.MovementModel{},
			"organization_id = ? AND (conversion_group_id = ? OR transfer_group_id = ?)",
			organizationID, groupID, groupID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindOrphanGroupRows returns rows whose group ID is not shared by exactly
// one sibling. Both group columns are swept with the same HAVING subquery.
func (r *GormMovementRepository) FindOrphanGroupRows(ctx context.Context, organizationID uuid.UUID) ([]*movement.Movement, error) {
	var orphanModels []models.MovementModel

	conversionOrphans := r.db.Model(&models.MovementModel{}).
		Select("conversion_group_id").
		Where("organization_id = ? AND conversion_group_id IS NOT NULL", organizationID).
		Group("conversion_group_id").
		Having("COUNT(*) <> 2")
	transferOrphans := r.db.Model(&models.MovementModel{}).
		Select("transfer_group_id").
		Where("organization_id = ? AND transfer_group_id IS NOT NULL", organizationID).
		Group("transfer_group_id").
		Having("COUNT(*) <> 2")

	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Where("conversion_group_id IN (?) OR transfer_group_id IN (?)", conversionOrphans, transferOrphans).
		Order("created_at ASC").
		Find(&orphanModels).Error; err != nil {
		return nil, err
	}
	rows := make([]*movement.Movement, len(orphanModels))
	for i := range orphanModels {
		rows[i] = orphanModels[i].ToDomain()
	}
	return rows, nil
}

// DistinctGroupOrganizations lists the organizations that have at least one
// conversion or transfer row. The background sweep iterates over these.
func (r *GormMovementRepository) DistinctGroupOrganizations(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.MovementModel{}).
		Distinct("organization_id").
		Where("conversion_group_id IS NOT NULL OR transfer_group_id IS NOT NULL").
		Pluck("organization_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// SumByWallet aggregates amounts per wallet, currency and type
func (r *GormMovementRepository) SumByWallet(ctx context.Context, organizationID uuid.UUID, projectID *uuid.UUID) ([]movement.WalletTotal, error) {
	var totals []movement.WalletTotal
	query := r.db.WithContext(ctx).Model(&models.MovementModel{}).
		Select("wallet_id, currency_id, type_id, COALESCE(SUM(amount), 0) as total").
		Where("organization_id = ?", organizationID)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if err := query.
		Group("wallet_id, currency_id, type_id").
		Order("wallet_id, currency_id").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// SumByType aggregates amounts per movement type and currency within an
// optional date range
func (r *GormMovementRepository) SumByType(ctx context.Context, organizationID uuid.UUID, projectID *uuid.UUID, from, to *time.Time) ([]movement.TypeTotal, error) {
	var totals []movement.TypeTotal
	query := r.db.WithContext(ctx).Model(&models.MovementModel{}).
		Select("type_id, currency_id, COALESCE(SUM(amount), 0) as total").
		Where("organization_id = ?", organizationID)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if from != nil {
		query = query.Where("movement_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("movement_date <= ?", *to)
	}
	if err := query.
		Group("type_id, currency_id").
		Order("type_id, currency_id").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// applyFilter applies filter conditions to query
func (r *GormMovementRepository) applyFilter(query *gorm.DB, filter movement.ListFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, MovementSortFields, "movement_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	// Apply pagination
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormMovementRepository) applyFilterWithoutPagination(query *gorm.DB, filter movement.ListFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.WalletID != nil {
		query = query.Where("wallet_id = ?", *filter.WalletID)
	}
	if filter.TypeID != nil {
		query = query.Where("type_id = ?", *filter.TypeID)
	}
	if filter.CurrencyID != nil {
		query = query.Where("currency_id = ?", *filter.CurrencyID)
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.DateFrom != nil {
		query = query.Where("movement_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("movement_date <= ?", *filter.DateTo)
	}
	return query
}

// Ensure GormMovementRepository implements movement.Repository
var _ movement.Repository = (*GormMovementRepository)(nil)
