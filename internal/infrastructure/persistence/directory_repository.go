package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/obralink/backend/internal/domain/catalog"
	"github.com/obralink/backend/internal/domain/shared"
	"github.com/obralink/backend/internal/infrastructure/persistence/models"
)

// Relation target tables. Each holds at least id, name, organization_id and
// project_id; the rest of their columns belong to other surfaces.
var targetTables = map[catalog.TargetKind]string{
	catalog.TargetTask:        "project_tasks",
	catalog.TargetSubcontract: "subcontracts",
	catalog.TargetAssignment:  "personnel_assignments",
}

// GormDirectoryRepository implements catalog.DirectoryRepository using GORM
type GormDirectoryRepository struct {
	db *gorm.DB
}

// NewGormDirectoryRepository creates a new GormDirectoryRepository
func NewGormDirectoryRepository(db *gorm.DB) *GormDirectoryRepository {
	return &GormDirectoryRepository{db: db}
}

// FindCurrencies returns the organization's currencies
func (r *GormDirectoryRepository) FindCurrencies(ctx context.Context, organizationID uuid.UUID) ([]*catalog.Currency, error) {
	var currencyModels []models.CurrencyModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("code ASC").
		Find(&currencyModels).Error; err != nil {
		return nil, err
	}
	currencies := make([]*catalog.Currency, len(currencyModels))
	for i := range currencyModels {
		currencies[i] = currencyModels[i].ToDomain()
	}
	return currencies, nil
}

// FindWallets returns the organization's active wallets
func (r *GormDirectoryRepository) FindWallets(ctx context.Context, organizationID uuid.UUID) ([]*catalog.Wallet, error) {
	var walletModels []models.WalletModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND active = ?", organizationID, true).
		Order("name ASC").
		Find(&walletModels).Error; err != nil {
		return nil, err
	}
	wallets := make([]*catalog.Wallet, len(walletModels))
	for i := range walletModels {
		wallets[i] = walletModels[i].ToDomain()
	}
	return wallets, nil
}

// FindMembers returns the organization's active members
func (r *GormDirectoryRepository) FindMembers(ctx context.Context, organizationID uuid.UUID) ([]*catalog.Member, error) {
	var memberModels []models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND active = ?", organizationID, true).
		Order("display_name ASC").
		Find(&memberModels).Error; err != nil {
		return nil, err
	}
	members := make([]*catalog.Member, len(memberModels))
	for i := range memberModels {
		members[i] = memberModels[i].ToDomain()
	}
	return members, nil
}

// FindContacts returns the organization's contacts
func (r *GormDirectoryRepository) FindContacts(ctx context.Context, organizationID uuid.UUID) ([]*catalog.Contact, error) {
	var contactModels []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&contactModels).Error; err != nil {
		return nil, err
	}
	contacts := make([]*catalog.Contact, len(contactModels))
	for i := range contactModels {
		contacts[i] = contactModels[i].ToDomain()
	}
	return contacts, nil
}

// FindMemberByUser maps a user account to its organization member
func (r *GormDirectoryRepository) FindMemberByUser(ctx context.Context, userID, organizationID uuid.UUID) (*catalog.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindRelationTargets returns the selectable targets of the given kind,
// optionally scoped to a project
func (r *GormDirectoryRepository) FindRelationTargets(ctx context.Context, organizationID uuid.UUID, kind catalog.TargetKind, projectID *uuid.UUID) ([]catalog.Option, error) {
	table, ok := targetTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown relation target kind: %s", kind)
	}

	var options []catalog.Option
	query := r.db.WithContext(ctx).Table(table).
		Select("id, name as label").
		Where("organization_id = ?", organizationID)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if err := query.Order("name ASC").Scan(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// Ensure GormDirectoryRepository implements catalog.DirectoryRepository
var _ catalog.DirectoryRepository = (*GormDirectoryRepository)(nil)
