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

// PairedService records conversions and transfers. Each one is persisted as
// two movement rows sharing a group ID, written in a single transaction.
type PairedService struct {
	repo        movement.Repository
	conceptRepo movement.ConceptRepository
	resolver    *movement.Resolver
	egressName  string
	ingressName string
	invalidator Invalidator
	notifier    Notifier
	logger      *zap.Logger
}

// NewPairedService creates a new PairedService. egressName and ingressName
// are the configured names of the generic movement types backing the two
// halves of a pair, typically "egresos" and "ingresos".
func NewPairedService(
	repo movement.Repository,
	conceptRepo movement.ConceptRepository,
	resolver *movement.Resolver,
	egressName, ingressName string,
	invalidator Invalidator,
	notifier Notifier,
	logger *zap.Logger,
) *PairedService {
	return &PairedService{
		repo:        repo,
		conceptRepo: conceptRepo,
		resolver:    resolver,
		egressName:  egressName,
		ingressName: ingressName,
		invalidator: invalidator,
		notifier:    notifier,
		logger:      logger,
	}
}

// PairedInput represents a request to record or overwrite a conversion or
// transfer pair
type PairedInput struct {
	ProjectID     *uuid.UUID       `json:"project_id"`
	MovementDate  time.Time        `json:"movement_date" binding:"required"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyID    uuid.UUID        `json:"currency_id" binding:"required"`
	WalletID      uuid.UUID        `json:"wallet_id" binding:"required"`
	TypeID        uuid.UUID        `json:"type_id" binding:"required"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	SubcategoryID *uuid.UUID       `json:"subcategory_id"`
	ToWalletID    *uuid.UUID       `json:"to_wallet_id"`
	ToCurrencyID  *uuid.UUID       `json:"to_currency_id"`
	ToAmount      *decimal.Decimal `json:"to_amount"`
	ExchangeRate  *decimal.Decimal `json:"exchange_rate"`
	CreatedBy     uuid.UUID        `json:"-"`
}

// GroupResponse represents a conversion or transfer pair in API responses
type GroupResponse struct {
	GroupID uuid.UUID            `json:"group_id"`
	Variant movement.FormVariant `json:"variant"`
	Egress  MovementResponse     `json:"egress"`
	Ingress MovementResponse     `json:"ingress"`
}

// state resolves the input's classification to a paired variant and builds
// the validated form draft. Used on create, where the user-selected type
// decides whether the pair is a conversion or a transfer.
func (s *PairedService) state(ctx context.Context, organizationID uuid.UUID, in PairedInput) (*movement.FormState, *movement.ConceptTree, error) {
	tree, err := s.conceptRepo.FindTreeForOrganization(ctx, organizationID)
	if err != nil {
		return nil, nil, err
	}
	typeNode := tree.Get(in.TypeID)
	if typeNode == nil || !typeNode.IsRoot() {
		return nil, nil, shared.NewDomainError("INVALID_TYPE", "Selected concept is not a movement type")
	}
	variant := s.resolver.Resolve(typeNode, tree.GetRef(in.CategoryID), tree.GetRef(in.SubcategoryID))
	if !variant.IsPaired() {
		return nil, nil, shared.NewDomainError("NOT_PAIRED", "Classification does not resolve to a conversion or transfer")
	}

	state := draftState(variant, in)
	if errs := state.Validate(); errs != nil {
		return nil, nil, errs
	}
	return state, tree, nil
}

// draftState maps the submitted fields onto a form draft for a known paired
// variant.
func draftState(variant movement.FormVariant, in PairedInput) *movement.FormState {
	return &movement.FormState{
		Variant: variant,
		Shared: movement.SharedFields{
			ProjectID:    in.ProjectID,
			MovementDate: in.MovementDate,
			Description:  in.Description,
			Amount:       in.Amount,
			CurrencyID:   in.CurrencyID,
			WalletID:     in.WalletID,
		},
		TypeID:        in.TypeID,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		ToWalletID:    in.ToWalletID,
		ToCurrencyID:  in.ToCurrencyID,
		ToAmount:      in.ToAmount,
		ExchangeRate:  in.ExchangeRate,
	}
}

// halfTypes looks up the generic egress/ingress movement types the pair rows
// are stored under. A missing generic type falls back to the user's selected
// type so the write still lands.
func (s *PairedService) halfTypes(tree *movement.ConceptTree, selected uuid.UUID) (uuid.UUID, uuid.UUID) {
	egressType := selected
	ingressType := selected
	if c := tree.FindRootByName(s.egressName); c != nil {
		egressType = c.ID
	} else {
		s.logger.Warn("generic egress type not found, falling back to selected type",
			zap.String("name", s.egressName))
	}
	if c := tree.FindRootByName(s.ingressName); c != nil {
		ingressType = c.ID
	} else {
		s.logger.Warn("generic ingress type not found, falling back to selected type",
			zap.String("name", s.ingressName))
	}
	return egressType, ingressType
}

// Create records a new conversion or transfer as two rows under a fresh
// group ID. Both rows land in one transaction or not at all.
func (s *PairedService) Create(ctx context.Context, organizationID uuid.UUID, in PairedInput) (*GroupResponse, error) {
	state, tree, err := s.state(ctx, organizationID, in)
	if err != nil {
		return nil, err
	}
	egressType, ingressType := s.halfTypes(tree, in.TypeID)

	egress, err := movement.NewMovement(organizationID, state.EgressParams(in.CreatedBy, egressType))
	if err != nil {
		return nil, err
	}
	ingress, err := movement.NewMovement(organizationID, state.IngressParams(in.CreatedBy, ingressType))
	if err != nil {
		return nil, err
	}

	groupID := uuid.New()
	if state.Variant == movement.VariantConversion {
		if err := egress.AssignConversionGroup(groupID); err != nil {
			return nil, err
		}
		if err := ingress.AssignConversionGroup(groupID); err != nil {
			return nil, err
		}
	} else {
		if err := egress.AssignTransferGroup(groupID); err != nil {
			return nil, err
		}
		if err := ingress.AssignTransferGroup(groupID); err != nil {
			return nil, err
		}
	}

	egress.AddDomainEvent(movement.NewGroupRecordedEvent(state.Variant, groupID, egress, ingress))

	if err := s.repo.SaveGroup(ctx, egress, ingress); err != nil {
		return nil, err
	}

	fireAfterWrite(s.invalidator, s.notifier, s.logger, organizationID, "movement.group.recorded")
	return s.toGroupResponse(groupID, state.Variant, egress, ingress), nil
}

// Update overwrites both halves of an existing pair. Row identities and the
// group ID are preserved, and the stored generic types are kept as they are.
// The variant comes from the group's own column: stored pair rows carry the
// generic egress/ingress types, which never resolve back to a paired variant,
// so the submitted classification is kept as mirror data only.
func (s *PairedService) Update(ctx context.Context, organizationID, groupID uuid.UUID, in PairedInput) (*GroupResponse, error) {
	rows, err := s.repo.FindGroup(ctx, groupID, organizationID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewDomainError("NOT_FOUND", "Movement group not found")
	}
	if len(rows) != 2 {
		return nil, shared.ErrOrphanedGroup
	}

	variant := movement.VariantTransfer
	if rows[0].ConversionGroupID != nil {
		variant = movement.VariantConversion
	}
	state := draftState(variant, in)
	if errs := state.Validate(); errs != nil {
		return nil, errs
	}

	// Rows come back ordered by amount descending: the first is the egress
	// half.
	egress, ingress := rows[0], rows[1]
	if err := egress.Apply(state.EgressParams(in.CreatedBy, egress.TypeID)); err != nil {
		return nil, err
	}
	if err := ingress.Apply(state.IngressParams(in.CreatedBy, ingress.TypeID)); err != nil {
		return nil, err
	}

	if err := s.repo.SaveGroup(ctx, egress, ingress); err != nil {
		return nil, err
	}

	fireAfterWrite(s.invalidator, s.notifier, s.logger, organizationID, "movement.group.updated")
	return s.toGroupResponse(groupID, state.Variant, egress, ingress), nil
}

// GetGroup returns both halves of a pair.
func (s *PairedService) GetGroup(ctx context.Context, organizationID, groupID uuid.UUID) (*GroupResponse, error) {
	rows, err := s.repo.FindGroup(ctx, groupID, organizationID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewDomainError("NOT_FOUND", "Movement group not found")
	}
	if len(rows) != 2 {
		return nil, shared.ErrOrphanedGroup
	}

	variant := movement.VariantTransfer
	if rows[0].ConversionGroupID != nil {
		variant = movement.VariantConversion
	}
	return s.toGroupResponse(groupID, variant, rows[0], rows[1]), nil
}

func (s *PairedService) toGroupResponse(groupID uuid.UUID, variant movement.FormVariant, egress, ingress *movement.Movement) *GroupResponse {
	return &GroupResponse{
		GroupID: groupID,
		Variant: variant,
		Egress:  *toMovementResponse(egress, variant),
		Ingress: *toMovementResponse(ingress, variant),
	}
}

// toMovementResponse maps a pair row whose variant is already known from its
// group membership.
func toMovementResponse(m *movement.Movement, variant movement.FormVariant) *MovementResponse {
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
		Variant:           variant,
		CreatedBy:         m.GetCreatedBy(),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
