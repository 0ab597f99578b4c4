package movement

import (
	"time"

	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementRecordedEvent is raised when a new movement row is created
type MovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID   uuid.UUID       `json:"movement_id"`
	TypeID       uuid.UUID       `json:"type_id"`
	WalletID     uuid.UUID       `json:"wallet_id"`
	CurrencyID   uuid.UUID       `json:"currency_id"`
	Amount       decimal.Decimal `json:"amount"`
	MovementDate time.Time       `json:"movement_date"`
}

// EventType returns the event type name
func (e *MovementRecordedEvent) EventType() string {
	return "MovementRecorded"
}

// NewMovementRecordedEvent creates a new MovementRecordedEvent
func NewMovementRecordedEvent(m *Movement) *MovementRecordedEvent {
	return &MovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MovementRecorded", "Movement", m.ID, m.OrganizationID),
		MovementID:      m.ID,
		TypeID:          m.TypeID,
		WalletID:        m.WalletID,
		CurrencyID:      m.CurrencyID,
		Amount:          m.Amount,
		MovementDate:    m.MovementDate,
	}
}

// MovementUpdatedEvent is raised when a movement row is overwritten by an edit
type MovementUpdatedEvent struct {
	shared.BaseDomainEvent
	MovementID uuid.UUID       `json:"movement_id"`
	TypeID     uuid.UUID       `json:"type_id"`
	WalletID   uuid.UUID       `json:"wallet_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *MovementUpdatedEvent) EventType() string {
	return "MovementUpdated"
}

// NewMovementUpdatedEvent creates a new MovementUpdatedEvent
func NewMovementUpdatedEvent(m *Movement) *MovementUpdatedEvent {
	return &MovementUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MovementUpdated", "Movement", m.ID, m.OrganizationID),
		MovementID:      m.ID,
		TypeID:          m.TypeID,
		WalletID:        m.WalletID,
		Amount:          m.Amount,
	}
}

// GroupRecordedEvent is raised when a conversion or transfer pair is written
type GroupRecordedEvent struct {
	shared.BaseDomainEvent
	GroupID   uuid.UUID   `json:"group_id"`
	Variant   FormVariant `json:"variant"`
	EgressID  uuid.UUID   `json:"egress_id"`
	IngressID uuid.UUID   `json:"ingress_id"`
}

// EventType returns the event type name
func (e *GroupRecordedEvent) EventType() string {
	return "MovementGroupRecorded"
}

// NewGroupRecordedEvent creates a new GroupRecordedEvent
func NewGroupRecordedEvent(variant FormVariant, groupID uuid.UUID, egress, ingress *Movement) *GroupRecordedEvent {
	return &GroupRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MovementGroupRecorded", "Movement", egress.ID, egress.OrganizationID),
		GroupID:         groupID,
		Variant:         variant,
		EgressID:        egress.ID,
		IngressID:       ingress.ID,
	}
}
