package models

import (
	"github.com/google/uuid"

	"github.com/obralink/backend/internal/domain/movement"
)

// ConceptModel is the persistence model for classification concepts. The
// taxonomy is managed by the catalog surface; this service mostly reads it.
type ConceptModel struct {
	BaseModel
	OrganizationID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentID        *uuid.UUID `gorm:"type:uuid;index"`
	Name            string     `gorm:"type:varchar(120);not null"`
	ViewMode        string     `gorm:"type:varchar(30);not null;default:'normal'"`
	VariantOverride *string    `gorm:"type:varchar(30)"`
	SortOrder       int        `gorm:"not null;default:0"`
}

// TableName returns the table name for ConceptModel
func (ConceptModel) TableName() string {
	return "movement_concepts"
}

// ToDomain converts ConceptModel to a domain Concept
func (m *ConceptModel) ToDomain() *movement.Concept {
	c := &movement.Concept{
		ID:             m.ID,
		ParentID:       m.ParentID,
		Name:           m.Name,
		ViewMode:       movement.ViewMode(m.ViewMode),
		OrganizationID: m.OrganizationID,
	}
	if m.VariantOverride != nil {
		v := movement.FormVariant(*m.VariantOverride)
		if v.IsValid() {
			c.VariantOverride = &v
		}
	}
	return c
}
