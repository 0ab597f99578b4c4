package movement

import (
	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Reconstructor rebuilds the form draft for a stored movement so edit mode
// opens on the same variant, with the same fields, as when the row was
// created. Derivation reuses the Resolver's classification rules, so a row
// resolved to variant V at create time derives back to V as long as its
// concepts are unchanged.
type Reconstructor struct {
	resolver *Resolver
}

// NewReconstructor creates a Reconstructor backed by the given resolver.
func NewReconstructor(resolver *Resolver) *Reconstructor {
	return &Reconstructor{resolver: resolver}
}

// DeriveVariant determines the form variant of a stored movement.
//
// Group membership wins over everything: a row in a conversion or transfer
// group is that variant no matter what its classification says. After that
// the row's classification goes through the same subcategory and concept
// rules the form-side resolver uses. Concepts deleted since the row was
// stored degrade gracefully: sentinel subcategory IDs still match on the raw
// ID, and a missing type or category falls through to normal.
func (r *Reconstructor) DeriveVariant(m *Movement, tree *ConceptTree) FormVariant {
	if m.ConversionGroupID != nil {
		return VariantConversion
	}
	if m.TransferGroupID != nil {
		return VariantTransfer
	}
	if m.SubcategoryID != nil {
		if v, ok := r.resolver.resolveSubcategory(*m.SubcategoryID, tree.Get(*m.SubcategoryID)); ok {
			return v
		}
	}
	return r.resolver.resolveConcepts(tree.Get(m.TypeID), tree.GetRef(m.CategoryID))
}

// StateFromMovement rebuilds the draft for a single-entry movement. The
// relation row, when present, restores the variant's target selection.
// Stored values are loaded exactly as written; nothing is defaulted.
func (r *Reconstructor) StateFromMovement(m *Movement, rel *Relation, tree *ConceptTree) (*FormState, error) {
	if m.IsPaired() {
		return nil, shared.NewDomainError("INVALID_STATE", "Paired movements must be reconstructed from their group")
	}

	variant := r.DeriveVariant(m, tree)
	state := &FormState{
		Variant: variant,
		Shared: SharedFields{
			ProjectID:    m.ProjectID,
			MovementDate: m.MovementDate,
			Description:  m.Description,
			Amount:       m.Amount,
			CurrencyID:   m.CurrencyID,
			WalletID:     m.WalletID,
		},
		TypeID:        m.TypeID,
		CategoryID:    m.CategoryID,
		SubcategoryID: m.SubcategoryID,
		ContactID:     m.ContactID,
		MemberID:      m.MemberID,
	}

	if rel != nil {
		target := rel.TargetID
		switch variant {
		case VariantMateriales:
			state.TaskID = &target
		case VariantSubcontratos:
			state.SubcontractID = &target
		case VariantPersonal:
			state.AssignmentID = &target
		default:
			return nil, shared.NewDomainError("INVALID_STATE", "Relation row found on a variant without a relation target")
		}
		amount := rel.Amount
		state.RelationAmount = &amount
	}

	return state, nil
}

// StateFromGroup rebuilds the draft for a conversion or transfer pair.
// Callers pass the rows ordered by amount descending, so the first row is
// the egress half. The edited row (the one the user opened) supplies the
// classification mirror; the pair supplies the money fields.
func (r *Reconstructor) StateFromGroup(edited uuid.UUID, rows []*Movement) (*FormState, error) {
	if len(rows) != 2 {
		return nil, shared.ErrOrphanedGroup
	}
	egress, ingress := rows[0], rows[1]
	if egress.GroupID() == nil || ingress.GroupID() == nil || *egress.GroupID() != *ingress.GroupID() {
		return nil, shared.NewDomainError("INVALID_STATE", "Rows do not share a movement group")
	}

	var variant FormVariant
	switch {
	case egress.ConversionGroupID != nil:
		variant = VariantConversion
	case egress.TransferGroupID != nil:
		variant = VariantTransfer
	default:
		return nil, shared.NewDomainError("INVALID_STATE", "Group rows carry no group ID")
	}

	mirror := egress
	if ingress.ID == edited {
		mirror = ingress
	}

	state := &FormState{
		Variant: variant,
		Shared: SharedFields{
			ProjectID:    egress.ProjectID,
			MovementDate: egress.MovementDate,
			Description:  egress.Description,
			Amount:       egress.Amount,
			CurrencyID:   egress.CurrencyID,
			WalletID:     egress.WalletID,
		},
		TypeID:        mirror.TypeID,
		CategoryID:    mirror.CategoryID,
		SubcategoryID: mirror.SubcategoryID,
	}

	if ingress.WalletID != egress.WalletID {
		toWallet := ingress.WalletID
		state.ToWalletID = &toWallet
	}
	if variant == VariantConversion {
		toCurrency := ingress.CurrencyID
		toAmount := ingress.Amount
		state.ToCurrencyID = &toCurrency
		state.ToAmount = &toAmount
		state.ExchangeRate = egress.ExchangeRate
		if state.ExchangeRate == nil {
			state.ExchangeRate = ingress.ExchangeRate
		}
	}

	return state, nil
}
