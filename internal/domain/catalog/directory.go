package catalog

import (
	"context"

	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Currency is a money denomination configured by the organization.
type Currency struct {
	shared.BaseEntity
	OrganizationID uuid.UUID `json:"organization_id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Symbol         string    `json:"symbol"`
}

// Wallet is a cash location: a bank account, a cash box, a card.
type Wallet struct {
	shared.BaseEntity
	OrganizationID uuid.UUID  `json:"organization_id"`
	Name           string     `json:"name"`
	CurrencyID     *uuid.UUID `json:"currency_id"` // nil means multi-currency
	Active         bool       `json:"active"`
}

// Member is a person inside the organization. Movements reference members,
// never raw user accounts, so a user removed from the organization keeps
// their history attributed.
type Member struct {
	shared.BaseEntity
	OrganizationID uuid.UUID  `json:"organization_id"`
	UserID         *uuid.UUID `json:"user_id"` // nil for members without a login
	DisplayName    string     `json:"display_name"`
	Active         bool       `json:"active"`
}

// Contact is an external party: a client, supplier or investor.
type Contact struct {
	shared.BaseEntity
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Kind           string    `json:"kind"`
}

// Option is one selectable entry for a form dropdown.
type Option struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

// TargetKind names the entity class behind a relation target option.
type TargetKind string

const (
	TargetTask        TargetKind = "task"
	TargetSubcontract TargetKind = "subcontract"
	TargetAssignment  TargetKind = "assignment"
)

// IsValid checks if the kind is a known TargetKind
func (k TargetKind) IsValid() bool {
	switch k {
	case TargetTask, TargetSubcontract, TargetAssignment:
		return true
	}
	return false
}

// DirectoryRepository loads the reference data the movement forms select
// from. All of it is owned by other services; this one only reads.
type DirectoryRepository interface {
	// FindCurrencies returns the organization's currencies.
	FindCurrencies(ctx context.Context, organizationID uuid.UUID) ([]*Currency, error)

	// FindWallets returns the organization's active wallets.
	FindWallets(ctx context.Context, organizationID uuid.UUID) ([]*Wallet, error)

	// FindMembers returns the organization's active members.
	FindMembers(ctx context.Context, organizationID uuid.UUID) ([]*Member, error)

	// FindContacts returns the organization's contacts.
	FindContacts(ctx context.Context, organizationID uuid.UUID) ([]*Contact, error)

	// FindMemberByUser maps a user account to its organization member.
	FindMemberByUser(ctx context.Context, userID, organizationID uuid.UUID) (*Member, error)

	// FindRelationTargets returns the selectable targets of the given kind,
	// optionally scoped to a project.
	FindRelationTargets(ctx context.Context, organizationID uuid.UUID, kind TargetKind, projectID *uuid.UUID) ([]Option, error)
}
