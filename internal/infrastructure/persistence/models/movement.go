package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/obralink/backend/internal/domain/movement"
)

// MovementModel is the persistence model for ledger rows. Conversion and
// transfer pairs are two rows sharing a group column; the partial indexes on
// the group columns back the pair lookups and the orphan sweep.
type MovementModel struct {
	OrganizationAggregateModel
	ProjectID         *uuid.UUID       `gorm:"type:uuid;index"`
	MovementDate      time.Time        `gorm:"not null;index"`
	Description       string           `gorm:"type:varchar(500)"`
	Amount            decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	CurrencyID        uuid.UUID        `gorm:"type:uuid;not null"`
	WalletID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	TypeID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	CategoryID        *uuid.UUID       `gorm:"type:uuid"`
	SubcategoryID     *uuid.UUID       `gorm:"type:uuid"`
	ExchangeRate      *decimal.Decimal `gorm:"type:decimal(18,8)"`
	ConversionGroupID *uuid.UUID       `gorm:"type:uuid;index"`
	TransferGroupID   *uuid.UUID       `gorm:"type:uuid;index"`
	ContactID         *uuid.UUID       `gorm:"type:uuid"`
	MemberID          *uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for MovementModel
func (MovementModel) TableName() string {
	return "movements"
}

// ToDomain converts MovementModel to a domain Movement
func (m *MovementModel) ToDomain() *movement.Movement {
	mv := &movement.Movement{
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
	}
	m.PopulateOrganizationAggregateRoot(&mv.OrganizationAggregateRoot)
	return mv
}

// MovementModelFromDomain creates a MovementModel from a domain Movement
func MovementModelFromDomain(mv *movement.Movement) *MovementModel {
	m := &MovementModel{
		ProjectID:         mv.ProjectID,
		MovementDate:      mv.MovementDate,
		Description:       mv.Description,
		Amount:            mv.Amount,
		CurrencyID:        mv.CurrencyID,
		WalletID:          mv.WalletID,
		TypeID:            mv.TypeID,
		CategoryID:        mv.CategoryID,
		SubcategoryID:     mv.SubcategoryID,
		ExchangeRate:      mv.ExchangeRate,
		ConversionGroupID: mv.ConversionGroupID,
		TransferGroupID:   mv.TransferGroupID,
		ContactID:         mv.ContactID,
		MemberID:          mv.MemberID,
	}
	m.FromDomainOrganizationAggregateRoot(mv.OrganizationAggregateRoot)
	return m
}

// RelationModel is the persistence model for movement relation rows.
type RelationModel struct {
	BaseModel
	MovementID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TargetID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for RelationModel
func (RelationModel) TableName() string {
	return "movement_relations"
}

// ToDomain converts RelationModel to a domain Relation
func (m *RelationModel) ToDomain() *movement.Relation {
	return &movement.Relation{
		BaseEntity: m.BaseModel.ToDomain(),
		MovementID: m.MovementID,
		TargetID:   m.TargetID,
		Amount:     m.Amount,
	}
}

// RelationModelFromDomain creates a RelationModel from a domain Relation
func RelationModelFromDomain(r *movement.Relation) *RelationModel {
	m := &RelationModel{
		MovementID: r.MovementID,
		TargetID:   r.TargetID,
		Amount:     r.Amount,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
