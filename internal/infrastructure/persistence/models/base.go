package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/obralink/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// OrganizationAggregateModel provides common persistence fields for
// organization-scoped aggregate roots. Edits are full-row overwrites, so
// there is no version column.
type OrganizationAggregateModel struct {
	BaseModel
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainOrganizationAggregateRoot populates the model from a domain aggregate root
func (m *OrganizationAggregateModel) FromDomainOrganizationAggregateRoot(a shared.OrganizationAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.OrganizationID = a.OrganizationID
	m.CreatedBy = a.CreatedBy
}

// PopulateOrganizationAggregateRoot populates a domain aggregate root from the model
func (m *OrganizationAggregateModel) PopulateOrganizationAggregateRoot(a *shared.OrganizationAggregateRoot) {
	a.BaseAggregateRoot.BaseEntity.ID = m.ID
	a.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	a.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	a.OrganizationID = m.OrganizationID
	a.CreatedBy = m.CreatedBy
}
