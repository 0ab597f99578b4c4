package movement

import (
	"context"
	"time"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EditService rebuilds the form draft for a stored movement so the client
// opens edit mode on the right variant with the exact stored values.
type EditService struct {
	repo         movement.Repository
	relationRepo movement.RelationRepository
	conceptRepo  movement.ConceptRepository
	rec          *movement.Reconstructor
	logger       *zap.Logger
}

// NewEditService creates a new EditService
func NewEditService(
	repo movement.Repository,
	relationRepo movement.RelationRepository,
	conceptRepo movement.ConceptRepository,
	resolver *movement.Resolver,
	logger *zap.Logger,
) *EditService {
	return &EditService{
		repo:         repo,
		relationRepo: relationRepo,
		conceptRepo:  conceptRepo,
		rec:          movement.NewReconstructor(resolver),
		logger:       logger,
	}
}

// FormStateResponse is the reconstructed draft sent to the client.
type FormStateResponse struct {
	Variant        movement.FormVariant `json:"variant"`
	ProjectID      *uuid.UUID           `json:"project_id,omitempty"`
	MovementDate   time.Time            `json:"movement_date"`
	Description    string               `json:"description"`
	Amount         decimal.Decimal      `json:"amount"`
	CurrencyID     uuid.UUID            `json:"currency_id"`
	WalletID       uuid.UUID            `json:"wallet_id"`
	TypeID         uuid.UUID            `json:"type_id"`
	CategoryID     *uuid.UUID           `json:"category_id,omitempty"`
	SubcategoryID  *uuid.UUID           `json:"subcategory_id,omitempty"`
	ToWalletID     *uuid.UUID           `json:"to_wallet_id,omitempty"`
	ToCurrencyID   *uuid.UUID           `json:"to_currency_id,omitempty"`
	ToAmount       *decimal.Decimal     `json:"to_amount,omitempty"`
	ExchangeRate   *decimal.Decimal     `json:"exchange_rate,omitempty"`
	ContactID      *uuid.UUID           `json:"contact_id,omitempty"`
	MemberID       *uuid.UUID           `json:"member_id,omitempty"`
	TaskID         *uuid.UUID           `json:"task_id,omitempty"`
	SubcontractID  *uuid.UUID           `json:"subcontract_id,omitempty"`
	AssignmentID   *uuid.UUID           `json:"assignment_id,omitempty"`
	RelationAmount *decimal.Decimal     `json:"relation_amount,omitempty"`
}

// EditContextResponse carries everything edit mode needs for one movement.
type EditContextResponse struct {
	MovementID uuid.UUID         `json:"movement_id"`
	GroupID    *uuid.UUID        `json:"group_id,omitempty"`
	State      FormStateResponse `json:"state"`
}

// EditContext loads a movement and reconstructs its form draft. Paired rows
// are expanded to their full group first.
func (s *EditService) EditContext(ctx context.Context, organizationID, movementID uuid.UUID) (*EditContextResponse, error) {
	m, err := s.repo.FindByIDForOrganization(ctx, movementID, organizationID)
	if err != nil {
		return nil, err
	}

	tree, err := s.conceptRepo.FindTreeForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	var state *movement.FormState
	if m.IsPaired() {
		rows, err := s.repo.FindGroup(ctx, *m.GroupID(), organizationID)
		if err != nil {
			return nil, err
		}
		state, err = s.rec.StateFromGroup(movementID, rows)
		if err != nil {
			s.logger.Warn("failed to reconstruct movement group",
				zap.String("movement_id", movementID.String()),
				zap.String("group_id", m.GroupID().String()),
				zap.Error(err))
			return nil, err
		}
	} else {
		rel, err := s.loadRelation(ctx, movementID)
		if err != nil {
			return nil, err
		}
		state, err = s.rec.StateFromMovement(m, rel, tree)
		if err != nil {
			return nil, err
		}
	}

	return &EditContextResponse{
		MovementID: movementID,
		GroupID:    m.GroupID(),
		State:      toFormStateResponse(state),
	}, nil
}

// loadRelation returns the movement's single relation row, if any. More than
// one row is unexpected; the first one wins and the rest are logged.
func (s *EditService) loadRelation(ctx context.Context, movementID uuid.UUID) (*movement.Relation, error) {
	rels, err := s.relationRepo.FindByMovement(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, nil
	}
	if len(rels) > 1 {
		s.logger.Warn("movement has multiple relation rows",
			zap.String("movement_id", movementID.String()),
			zap.Int("count", len(rels)))
	}
	return rels[0], nil
}

func toFormStateResponse(st *movement.FormState) FormStateResponse {
	return FormStateResponse{
		Variant:        st.Variant,
		ProjectID:      st.Shared.ProjectID,
		MovementDate:   st.Shared.MovementDate,
		Description:    st.Shared.Description,
		Amount:         st.Shared.Amount,
		CurrencyID:     st.Shared.CurrencyID,
		WalletID:       st.Shared.WalletID,
		TypeID:         st.TypeID,
		CategoryID:     st.CategoryID,
		SubcategoryID:  st.SubcategoryID,
		ToWalletID:     st.ToWalletID,
		ToCurrencyID:   st.ToCurrencyID,
		ToAmount:       st.ToAmount,
		ExchangeRate:   st.ExchangeRate,
		ContactID:      st.ContactID,
		MemberID:       st.MemberID,
		TaskID:         st.TaskID,
		SubcontractID:  st.SubcontractID,
		AssignmentID:   st.AssignmentID,
		RelationAmount: st.RelationAmount,
	}
}
