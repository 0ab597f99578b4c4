package movement

import (
	"context"
	"time"

	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListFilter narrows movement listings. Zero values mean "no constraint".
type ListFilter struct {
	shared.Filter
	ProjectID  *uuid.UUID
	WalletID   *uuid.UUID
	TypeID     *uuid.UUID
	CurrencyID *uuid.UUID
	MemberID   *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// WalletTotal is one aggregation bucket for wallet balances.
type WalletTotal struct {
	WalletID   uuid.UUID
	CurrencyID uuid.UUID
	TypeID     uuid.UUID
	Total      decimal.Decimal
}

// TypeTotal is one aggregation bucket for the financial summary.
type TypeTotal struct {
	TypeID     uuid.UUID
	CurrencyID uuid.UUID
	Total      decimal.Decimal
}

// Repository defines the persistence contract for movements.
type Repository interface {
	// Save persists one movement row, inserting or overwriting in place.
	Save(ctx context.Context, m *Movement) error

	// SaveGroup persists both halves of a conversion or transfer pair in one
	// transaction. Either both rows land or neither does.
	SaveGroup(ctx context.Context, egress, ingress *Movement) error

	// FindByIDForOrganization returns a movement scoped to an organization,
	// or shared.ErrNotFound when no row matches.
	FindByIDForOrganization(ctx context.Context, id, organizationID uuid.UUID) (*Movement, error)

	// FindGroup returns the rows of a conversion or transfer group ordered by
	// amount descending, so the first row is the egress half.
	FindGroup(ctx context.Context, groupID, organizationID uuid.UUID) ([]*Movement, error)

	// FindAllForOrganization lists movements matching the filter.
	FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter ListFilter) ([]*Movement, error)

	// CountForOrganization counts movements matching the filter, ignoring
	// pagination.
	CountForOrganization(ctx context.Context, organizationID uuid.UUID, filter ListFilter) (int64, error)

	// DeleteForOrganization removes one movement row.
	DeleteForOrganization(ctx context.Context, id, organizationID uuid.UUID) error

	// DeleteGroupForOrganization removes both rows of a group in one
	// transaction.
	DeleteGroupForOrganization(ctx context.Context, groupID, organizationID uuid.UUID) error

	// FindOrphanGroupRows returns rows whose group ID is not shared by
	// exactly one sibling. Used by the reconciliation sweep.
	FindOrphanGroupRows(ctx context.Context, organizationID uuid.UUID) ([]*Movement, error)

	// SumByWallet aggregates amounts per wallet, currency and type.
	SumByWallet(ctx context.Context, organizationID uuid.UUID, projectID *uuid.UUID) ([]WalletTotal, error)

	// SumByType aggregates amounts per movement type and currency within an
	// optional date range.
	SumByType(ctx context.Context, organizationID uuid.UUID, projectID *uuid.UUID, from, to *time.Time) ([]TypeTotal, error)
}

// RelationRepository defines the persistence contract for movement relations.
type RelationRepository interface {
	// ReplaceForMovement deletes every relation row of the movement and
	// inserts the given ones. A nil slice just clears.
	ReplaceForMovement(ctx context.Context, movementID uuid.UUID, relations []*Relation) error

	// FindByMovement returns the movement's relation rows.
	FindByMovement(ctx context.Context, movementID uuid.UUID) ([]*Relation, error)

	// DeleteForMovement removes the movement's relation rows.
	DeleteForMovement(ctx context.Context, movementID uuid.UUID) error
}

// ConceptRepository loads the classification taxonomy. Concepts are managed
// elsewhere; this service only reads them.
type ConceptRepository interface {
	// FindTreeForOrganization loads the organization's full concept tree.
	FindTreeForOrganization(ctx context.Context, organizationID uuid.UUID) (*ConceptTree, error)

	// FindByID returns one concept scoped to an organization.
	FindByID(ctx context.Context, id, organizationID uuid.UUID) (*Concept, error)
}
