package movement

import (
	"time"

	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement represents one ledger row: money moving in, out, or between
// wallets/currencies. Conversions and transfers are stored as exactly two
// Movements sharing one group ID.
type Movement struct {
	shared.OrganizationAggregateRoot
	ProjectID         *uuid.UUID       `json:"project_id"`
	MovementDate      time.Time        `json:"movement_date"`
	Description       string           `json:"description"`
	Amount            decimal.Decimal  `json:"amount"`
	CurrencyID        uuid.UUID        `json:"currency_id"`
	WalletID          uuid.UUID        `json:"wallet_id"`
	TypeID            uuid.UUID        `json:"type_id"`
	CategoryID        *uuid.UUID       `json:"category_id"`
	SubcategoryID     *uuid.UUID       `json:"subcategory_id"`
	ExchangeRate      *decimal.Decimal `json:"exchange_rate"`
	ConversionGroupID *uuid.UUID       `json:"conversion_group_id"`
	TransferGroupID   *uuid.UUID       `json:"transfer_group_id"`
	ContactID         *uuid.UUID       `json:"contact_id"`
	MemberID          *uuid.UUID       `json:"member_id"`
}

// Params carries the writable fields of a Movement. Edits are full-row
// overwrites (last write wins), so create and update share this shape.
type Params struct {
	ProjectID     *uuid.UUID
	MovementDate  time.Time
	CreatedBy     uuid.UUID // organization-member ID, never a raw user ID
	Description   string
	Amount        decimal.Decimal
	CurrencyID    uuid.UUID
	WalletID      uuid.UUID
	TypeID        uuid.UUID
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	ExchangeRate  *decimal.Decimal
	ContactID     *uuid.UUID
	MemberID      *uuid.UUID
}

func (p Params) validate() error {
	if p.MovementDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Movement date is required")
	}
	if p.CreatedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_MEMBER", "Creator member ID cannot be empty")
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if p.CurrencyID == uuid.Nil {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency is required")
	}
	if p.WalletID == uuid.Nil {
		return shared.NewDomainError("INVALID_WALLET", "Wallet is required")
	}
	if p.TypeID == uuid.Nil {
		return shared.NewDomainError("INVALID_TYPE", "Movement type is required")
	}
	if len(p.Description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if p.ExchangeRate != nil && p.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_EXCHANGE_RATE", "Exchange rate must be positive")
	}
	return nil
}

// NewMovement creates a new movement row.
func NewMovement(organizationID uuid.UUID, p Params) (*Movement, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	m := &Movement{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		ProjectID:                 p.ProjectID,
		MovementDate:              p.MovementDate,
		Description:               p.Description,
		Amount:                    p.Amount,
		CurrencyID:                p.CurrencyID,
		WalletID:                  p.WalletID,
		TypeID:                    p.TypeID,
		CategoryID:                p.CategoryID,
		SubcategoryID:             p.SubcategoryID,
		ExchangeRate:              p.ExchangeRate,
		ContactID:                 p.ContactID,
		MemberID:                  p.MemberID,
	}
	m.SetCreatedBy(p.CreatedBy)

	m.AddDomainEvent(NewMovementRecordedEvent(m))

	return m, nil
}

// Apply overwrites the writable fields of the movement for an edit-submit.
// Group membership and row identity are preserved.
func (m *Movement) Apply(p Params) error {
	if err := p.validate(); err != nil {
		return err
	}

	m.ProjectID = p.ProjectID
	m.MovementDate = p.MovementDate
	m.Description = p.Description
	m.Amount = p.Amount
	m.CurrencyID = p.CurrencyID
	m.WalletID = p.WalletID
	m.TypeID = p.TypeID
	m.CategoryID = p.CategoryID
	m.SubcategoryID = p.SubcategoryID
	m.ExchangeRate = p.ExchangeRate
	m.ContactID = p.ContactID
	m.MemberID = p.MemberID
	m.SetCreatedBy(p.CreatedBy)
	m.Touch()

	m.AddDomainEvent(NewMovementUpdatedEvent(m))

	return nil
}

// AssignConversionGroup links the movement into a conversion pair.
func (m *Movement) AssignConversionGroup(groupID uuid.UUID) error {
	if groupID == uuid.Nil {
		return shared.NewDomainError("INVALID_GROUP", "Group ID cannot be empty")
	}
	if m.TransferGroupID != nil {
		return shared.NewDomainError("INVALID_STATE", "Movement already belongs to a transfer group")
	}
	m.ConversionGroupID = &groupID
	return nil
}

// AssignTransferGroup links the movement into a transfer pair.
func (m *Movement) AssignTransferGroup(groupID uuid.UUID) error {
	if groupID == uuid.Nil {
		return shared.NewDomainError("INVALID_GROUP", "Group ID cannot be empty")
	}
	if m.ConversionGroupID != nil {
		return shared.NewDomainError("INVALID_STATE", "Movement already belongs to a conversion group")
	}
	m.TransferGroupID = &groupID
	return nil
}

// GroupID returns the conversion or transfer group ID, whichever is set.
func (m *Movement) GroupID() *uuid.UUID {
	if m.ConversionGroupID != nil {
		return m.ConversionGroupID
	}
	return m.TransferGroupID
}

// IsPaired returns true if the movement is half of a conversion or transfer.
func (m *Movement) IsPaired() bool {
	return m.ConversionGroupID != nil || m.TransferGroupID != nil
}

// CreatedByMember returns the creator's organization-member ID.
func (m *Movement) CreatedByMember() uuid.UUID {
	if m.CreatedBy == nil {
		return uuid.Nil
	}
	return *m.CreatedBy
}
