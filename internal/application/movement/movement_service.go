package movement

import (
	"context"
	"time"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MovementService provides application-level operations for single-entry
// movements. Conversion and transfer pairs go through PairedService.
type MovementService struct {
	repo         movement.Repository
	relationRepo movement.RelationRepository
	conceptRepo  movement.ConceptRepository
	resolver     *movement.Resolver
	rec          *movement.Reconstructor
	invalidator  Invalidator
	notifier     Notifier
	logger       *zap.Logger
}

// NewMovementService creates a new MovementService
func NewMovementService(
	repo movement.Repository,
	relationRepo movement.RelationRepository,
	conceptRepo movement.ConceptRepository,
	resolver *movement.Resolver,
	invalidator Invalidator,
	notifier Notifier,
	logger *zap.Logger,
) *MovementService {
	return &MovementService{
		repo:         repo,
		relationRepo: relationRepo,
		conceptRepo:  conceptRepo,
		resolver:     resolver,
		rec:          movement.NewReconstructor(resolver),
		invalidator:  invalidator,
		notifier:     notifier,
		logger:       logger,
	}
}

// MovementResponse represents a movement in API responses
type MovementResponse struct {
	ID                uuid.UUID            `json:"id"`
	OrganizationID    uuid.UUID            `json:"organization_id"`
	ProjectID         *uuid.UUID           `json:"project_id,omitempty"`
	MovementDate      time.Time            `json:"movement_date"`
	Description       string               `json:"description"`
	Amount            decimal.Decimal      `json:"amount"`
	CurrencyID        uuid.UUID            `json:"currency_id"`
	WalletID          uuid.UUID            `json:"wallet_id"`
	TypeID            uuid.UUID            `json:"type_id"`
	CategoryID        *uuid.UUID           `json:"category_id,omitempty"`
	SubcategoryID     *uuid.UUID           `json:"subcategory_id,omitempty"`
	ExchangeRate      *decimal.Decimal     `json:"exchange_rate,omitempty"`
	ConversionGroupID *uuid.UUID           `json:"conversion_group_id,omitempty"`
	TransferGroupID   *uuid.UUID           `json:"transfer_group_id,omitempty"`
	ContactID         *uuid.UUID           `json:"contact_id,omitempty"`
	MemberID          *uuid.UUID           `json:"member_id,omitempty"`
	Variant           movement.FormVariant `json:"variant"`
	CreatedBy         *uuid.UUID           `json:"created_by,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`

	// Warnings reports soft failures on a write that still landed, such as a
	// relation link that could not be stored.
	Warnings []string `json:"warnings,omitempty"`
}

// MovementInput represents a request to create or overwrite a movement
type MovementInput struct {
	ProjectID        *uuid.UUID       `json:"project_id"`
	MovementDate     time.Time        `json:"movement_date" binding:"required"`
	Description      string           `json:"description"`
	Amount           decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyID       uuid.UUID        `json:"currency_id" binding:"required"`
	WalletID         uuid.UUID        `json:"wallet_id" binding:"required"`
	TypeID           uuid.UUID        `json:"type_id" binding:"required"`
	CategoryID       *uuid.UUID       `json:"category_id"`
	SubcategoryID    *uuid.UUID       `json:"subcategory_id"`
	ContactID        *uuid.UUID       `json:"contact_id"`
	MemberID         *uuid.UUID       `json:"member_id"`
	RelationTargetID *uuid.UUID       `json:"relation_target_id"`
	RelationAmount   *decimal.Decimal `json:"relation_amount"`
	CreatedBy        uuid.UUID        `json:"-"` // Set from the authenticated member, not the body
}

// MovementListFilter defines filtering options for movement list queries
type MovementListFilter struct {
	Search     string     `form:"search"`
	ProjectID  *uuid.UUID `form:"project_id"`
	WalletID   *uuid.UUID `form:"wallet_id"`
	TypeID     *uuid.UUID `form:"type_id"`
	CurrencyID *uuid.UUID `form:"currency_id"`
	MemberID   *uuid.UUID `form:"member_id"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	SortBy     string     `form:"sort_by"`
	SortOrder  string     `form:"sort_order"`
}

func (s *MovementService) params(in MovementInput) movement.Params {
	return movement.Params{
		ProjectID:     in.ProjectID,
		MovementDate:  in.MovementDate,
		CreatedBy:     in.CreatedBy,
		Description:   in.Description,
		Amount:        in.Amount,
		CurrencyID:    in.CurrencyID,
		WalletID:      in.WalletID,
		TypeID:        in.TypeID,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		ContactID:     in.ContactID,
		MemberID:      in.MemberID,
	}
}

// resolveVariant resolves the input's classification and rejects paired
// variants, which must go through PairedService so both rows are written.
func (s *MovementService) resolveVariant(ctx context.Context, organizationID uuid.UUID, in MovementInput) (movement.FormVariant, *movement.ConceptTree, error) {
	tree, err := s.conceptRepo.FindTreeForOrganization(ctx, organizationID)
	if err != nil {
		return "", nil, err
	}
	typeNode := tree.Get(in.TypeID)
	if typeNode == nil || !typeNode.IsRoot() {
		return "", nil, shared.NewDomainError("INVALID_TYPE", "Selected concept is not a movement type")
	}
	variant := s.resolver.Resolve(typeNode, tree.GetRef(in.CategoryID), tree.GetRef(in.SubcategoryID))
	if variant.IsPaired() {
		return "", nil, shared.NewDomainError("PAIRED_VARIANT", "Conversions and transfers must be recorded as a pair")
	}
	return variant, tree, nil
}

// Create records a single-entry movement with its optional relation row.
func (s *MovementService) Create(ctx context.Context, organizationID uuid.UUID, in MovementInput) (*MovementResponse, error) {
	variant, tree, err := s.resolveVariant(ctx, organizationID, in)
	if err != nil {
		return nil, err
	}

	m, err := movement.NewMovement(organizationID, s.params(in))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}

	resp := s.toResponse(m, tree)
	if warning := s.writeRelation(ctx, m, variant, in); warning != "" {
		resp.Warnings = append(resp.Warnings, warning)
	}
	s.afterWrite(organizationID, "movement.recorded")

	return resp, nil
}

// Update overwrites a single-entry movement and recreates its relation row.
func (s *MovementService) Update(ctx context.Context, organizationID, id uuid.UUID, in MovementInput) (*MovementResponse, error) {
	m, err := s.repo.FindByIDForOrganization(ctx, id, organizationID)
	if err != nil {
		return nil, err
	}
	if m.IsPaired() {
		return nil, shared.NewDomainError("PAIRED_VARIANT", "Paired movements must be updated through their group")
	}

	variant, tree, err := s.resolveVariant(ctx, organizationID, in)
	if err != nil {
		return nil, err
	}

	if err := m.Apply(s.params(in)); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}

	resp := s.toResponse(m, tree)
	if warning := s.writeRelation(ctx, m, variant, in); warning != "" {
		resp.Warnings = append(resp.Warnings, warning)
	}
	s.afterWrite(organizationID, "movement.updated")

	return resp, nil
}

// writeRelation replaces the movement's relation rows. Relation persistence
// is a soft failure: the movement row already landed, so a broken link is
// logged and returned as a warning for the caller rather than rolling back
// money. An empty return means the relation rows are in place.
func (s *MovementService) writeRelation(ctx context.Context, m *movement.Movement, variant movement.FormVariant, in MovementInput) string {
	var relations []*movement.Relation
	if variant.HasRelationTarget() && in.RelationTargetID != nil {
		amount := m.Amount
		if in.RelationAmount != nil {
			amount = *in.RelationAmount
		}
		rel, err := movement.NewRelation(m.ID, *in.RelationTargetID, amount)
		if err != nil {
			s.logger.Warn("skipping invalid movement relation",
				zap.String("movement_id", m.ID.String()),
				zap.Error(err))
			return "movement saved, but the selected relation target could not be linked"
		}
		relations = append(relations, rel)
	}

	if err := s.relationRepo.ReplaceForMovement(ctx, m.ID, relations); err != nil {
		s.logger.Warn("failed to replace movement relations",
			zap.String("movement_id", m.ID.String()),
			zap.Error(err))
		return "movement saved, but its relation link was not updated"
	}
	return ""
}

// GetByID returns one movement.
func (s *MovementService) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*MovementResponse, error) {
	m, err := s.repo.FindByIDForOrganization(ctx, id, organizationID)
	if err != nil {
		return nil, err
	}
	tree, err := s.conceptRepo.FindTreeForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(m, tree), nil
}

// List returns a page of movements.
func (s *MovementService) List(ctx context.Context, organizationID uuid.UUID, filter MovementListFilter) (*shared.Paginated[MovementResponse], error) {
	f := movement.ListFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.SortBy,
			OrderDir: filter.SortOrder,
			Search:   filter.Search,
		},
		ProjectID:  filter.ProjectID,
		WalletID:   filter.WalletID,
		TypeID:     filter.TypeID,
		CurrencyID: filter.CurrencyID,
		MemberID:   filter.MemberID,
		DateFrom:   filter.DateFrom,
		DateTo:     filter.DateTo,
	}
	f.Normalize()

	movements, err := s.repo.FindAllForOrganization(ctx, organizationID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountForOrganization(ctx, organizationID, f)
	if err != nil {
		return nil, err
	}
	tree, err := s.conceptRepo.FindTreeForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	items := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, *s.toResponse(m, tree))
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Delete removes a movement. Deleting one half of a conversion or transfer
// removes the whole group so no orphan row survives.
func (s *MovementService) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	m, err := s.repo.FindByIDForOrganization(ctx, id, organizationID)
	if err != nil {
		return err
	}

	if m.IsPaired() {
		if err := s.repo.DeleteGroupForOrganization(ctx, *m.GroupID(), organizationID); err != nil {
			return err
		}
	} else {
		if err := s.relationRepo.DeleteForMovement(ctx, m.ID); err != nil {
			s.logger.Warn("failed to delete movement relations",
				zap.String("movement_id", m.ID.String()),
				zap.Error(err))
		}
		if err := s.repo.DeleteForOrganization(ctx, id, organizationID); err != nil {
			return err
		}
	}

	s.afterWrite(organizationID, "movement.deleted")
	return nil
}

func (s *MovementService) afterWrite(organizationID uuid.UUID, event string) {
	fireAfterWrite(s.invalidator, s.notifier, s.logger, organizationID, event)
}

func (s *MovementService) toResponse(m *movement.Movement, tree *movement.ConceptTree) *MovementResponse {
	return &MovementResponse{
		ID:                m.ID,
		OrganizationID:    m.OrganizationID,
		ProjectID:         m.ProjectID,
		MovementDate:      m.MovementDate,
		Description:       m.Description,
		Amount:            m.Amount,
		CurrencyID:        m.CurrencyID,
		WalletID:          m.WalletID,
		TypeID:            m.TypeID,
		CategoryID:        m.CategoryID,
		SubcategoryID:     m.SubcategoryID,
		ExchangeRate:      m.ExchangeRate,
		ConversionGroupID: m.ConversionGroupID,
		TransferGroupID:   m.TransferGroupID,
		ContactID:         m.ContactID,
		MemberID:          m.MemberID,
		Variant:           s.rec.DeriveVariant(m, tree),
		CreatedBy:         m.GetCreatedBy(),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
