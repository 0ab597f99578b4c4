package movement

import (
	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Relation is an auxiliary link tying a movement to a construction task
// instance, subcontract, or personnel assignment. A movement has at most one
// relation; on edit the relation rows are deleted and recreated rather than
// patched, so no stale link can survive a retarget.
type Relation struct {
	shared.BaseEntity
	MovementID uuid.UUID       `json:"movement_id"`
	TargetID   uuid.UUID       `json:"target_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewRelation creates a relation link between a movement and a target.
func NewRelation(movementID, targetID uuid.UUID, amount decimal.Decimal) (*Relation, error) {
	if movementID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MOVEMENT", "Movement ID cannot be empty")
	}
	if targetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TARGET", "Relation target cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Relation amount must be positive")
	}
	return &Relation{
		BaseEntity: shared.NewBaseEntity(),
		MovementID: movementID,
		TargetID:   targetID,
		Amount:     amount,
	}, nil
}
