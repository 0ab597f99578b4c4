package models

import (
	"github.com/google/uuid"

	"github.com/obralink/backend/internal/domain/catalog"
)

// CurrencyModel is the persistence model for currencies
type CurrencyModel struct {
	BaseModel
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code           string    `gorm:"type:varchar(10);not null"`
	Name           string    `gorm:"type:varchar(60);not null"`
	Symbol         string    `gorm:"type:varchar(10)"`
}

// TableName returns the table name for CurrencyModel
func (CurrencyModel) TableName() string {
	return "currencies"
}

// ToDomain converts CurrencyModel to a domain Currency
func (m *CurrencyModel) ToDomain() *catalog.Currency {
	return &catalog.Currency{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrganizationID: m.OrganizationID,
		Code:           m.Code,
		Name:           m.Name,
		Symbol:         m.Symbol,
	}
}

// WalletModel is the persistence model for wallets
type WalletModel struct {
	BaseModel
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name           string     `gorm:"type:varchar(120);not null"`
	CurrencyID     *uuid.UUID `gorm:"type:uuid"`
	Active         bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for WalletModel
func (WalletModel) TableName() string {
	return "wallets"
}

// ToDomain converts WalletModel to a domain Wallet
func (m *WalletModel) ToDomain() *catalog.Wallet {
	return &catalog.Wallet{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		CurrencyID:     m.CurrencyID,
		Active:         m.Active,
	}
}

// MemberModel is the persistence model for organization members
type MemberModel struct {
	BaseModel
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID         *uuid.UUID `gorm:"type:uuid;index"`
	DisplayName    string     `gorm:"type:varchar(120);not null"`
	Active         bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for MemberModel
func (MemberModel) TableName() string {
	return "organization_members"
}

// ToDomain converts MemberModel to a domain Member
func (m *MemberModel) ToDomain() *catalog.Member {
	return &catalog.Member{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		DisplayName:    m.DisplayName,
		Active:         m.Active,
	}
}

// ContactModel is the persistence model for external contacts
type ContactModel struct {
	BaseModel
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(160);not null"`
	Kind           string    `gorm:"type:varchar(30)"`
}

// TableName returns the table name for ContactModel
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts ContactModel to a domain Contact
func (m *ContactModel) ToDomain() *catalog.Contact {
	return &catalog.Contact{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Kind:           m.Kind,
	}
}
