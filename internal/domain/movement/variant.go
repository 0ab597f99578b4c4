package movement

import (
	"github.com/google/uuid"
)

// FormVariant identifies which of the structurally different movement form
// shapes is active. It is always derived from the classification path and is
// never stored on its own.
type FormVariant string

const (
	VariantNormal         FormVariant = "normal"
	VariantConversion     FormVariant = "conversion"
	VariantTransfer       FormVariant = "transfer"
	VariantAportes        FormVariant = "aportes"
	VariantAportesPropios FormVariant = "aportes_propios"
	VariantRetirosPropios FormVariant = "retiros_propios"
	VariantMateriales     FormVariant = "materiales"
	VariantSubcontratos   FormVariant = "subcontratos"
	VariantPersonal       FormVariant = "personal"
)

// IsValid checks if the variant is a known FormVariant
func (v FormVariant) IsValid() bool {
	switch v {
	case VariantNormal, VariantConversion, VariantTransfer, VariantAportes,
		VariantAportesPropios, VariantRetirosPropios, VariantMateriales,
		VariantSubcontratos, VariantPersonal:
		return true
	}
	return false
}

// String returns the string representation of FormVariant
func (v FormVariant) String() string {
	return string(v)
}

// IsPaired returns true for variants persisted as two linked ledger rows.
func (v FormVariant) IsPaired() bool {
	return v == VariantConversion || v == VariantTransfer
}

// HasRelationTarget returns true for variants that may carry an auxiliary
// relation row (task, subcontract or personnel assignment link).
func (v FormVariant) HasRelationTarget() bool {
	return v == VariantMateriales || v == VariantSubcontratos || v == VariantPersonal
}

// Sentinels are the two reserved subcategory IDs that force a variant
// regardless of view mode. They exist for backward compatibility with data
// created before concepts carried a variant_override; new data should use
// the override instead.
type Sentinels struct {
	SubcontractSubcategoryID uuid.UUID
	PersonnelSubcategoryID   uuid.UUID
}

// Resolver derives the FormVariant for a classification path. It is pure:
// it never touches storage, so it is safe to run on every classification
// change.
type Resolver struct {
	sentinels Sentinels
}

// NewResolver creates a Resolver with the given sentinel subcategory IDs.
func NewResolver(sentinels Sentinels) *Resolver {
	return &Resolver{sentinels: sentinels}
}

// Resolve maps a selected classification path to its form variant.
//
// Precedence: subcategory override/sentinels, then the type's
// conversion/transfer view mode, then category rules (override, aportes
// split, withdrawal, materials), and finally normal. EditModeReconstructor
// derivation in reconstruct.go must stay aligned with this chain; both share
// resolveSubcategory and resolveConcepts.
func (r *Resolver) Resolve(typeNode, category, subcategory *Concept) FormVariant {
	if subcategory != nil {
		if v, ok := r.resolveSubcategory(subcategory.ID, subcategory); ok {
			return v
		}
	}
	return r.resolveConcepts(typeNode, category)
}

// resolveSubcategory applies the subcategory override and sentinel checks.
// The node may be nil when the subcategory was deleted from the taxonomy
// after the movement was stored; the raw ID still matches the sentinels.
func (r *Resolver) resolveSubcategory(id uuid.UUID, node *Concept) (FormVariant, bool) {
	if node != nil && node.VariantOverride != nil && node.VariantOverride.IsValid() {
		return *node.VariantOverride, true
	}
	if id == uuid.Nil {
		return VariantNormal, false
	}
	switch id {
	case r.sentinels.SubcontractSubcategoryID:
		return VariantSubcontratos, true
	case r.sentinels.PersonnelSubcategoryID:
		return VariantPersonal, true
	}
	return VariantNormal, false
}

// resolveConcepts applies the type and category rules shared by form-side
// resolution and edit-mode derivation.
func (r *Resolver) resolveConcepts(typeNode, category *Concept) FormVariant {
	switch typeNode.EffectiveViewMode() {
	case ViewModeConversion:
		return VariantConversion
	case ViewModeTransfer:
		return VariantTransfer
	}

	if category == nil {
		return VariantNormal
	}
	if category.VariantOverride != nil && category.VariantOverride.IsValid() {
		return *category.VariantOverride
	}
	switch category.EffectiveViewMode() {
	case ViewModeAportes:
		// The member/third-party split still keys off the category name.
		// Renames silently change resolution; set a variant_override on the
		// category to pin it.
		if category.HasNameMarker(memberMarker) {
			return VariantAportesPropios
		}
		return VariantAportes
	case ViewModeRetirosPropios:
		return VariantRetirosPropios
	}
	if category.HasNameMarker(withdrawalMarker) {
		return VariantRetirosPropios
	}
	if category.HasNameMarker(materialsMarker) {
		return VariantMateriales
	}
	return VariantNormal
}
