package movement

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field names the inputs a form variant can expose beyond the shared set.
type Field string

const (
	FieldToWallet     Field = "to_wallet_id"
	FieldToCurrency   Field = "to_currency_id"
	FieldToAmount     Field = "to_amount"
	FieldExchangeRate Field = "exchange_rate"
	FieldContact      Field = "contact_id"
	FieldMember       Field = "member_id"
	FieldTask         Field = "task_id"
	FieldSubcontract  Field = "subcontract_id"
	FieldAssignment   Field = "assignment_id"
)

// variantFields maps each variant to the extra fields its form exposes.
// Variants absent from the map expose only the shared fields.
var variantFields = map[FormVariant][]Field{
	VariantConversion:     {FieldToWallet, FieldToCurrency, FieldToAmount, FieldExchangeRate},
	VariantTransfer:       {FieldToWallet},
	VariantAportes:        {FieldContact},
	VariantAportesPropios: {FieldMember},
	VariantRetirosPropios: {FieldMember},
	VariantMateriales:     {FieldTask},
	VariantSubcontratos:   {FieldSubcontract},
	VariantPersonal:       {FieldAssignment, FieldMember},
}

// Fields returns the extra fields the variant's form exposes.
func (v FormVariant) Fields() []Field {
	fields := variantFields[v]
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Has reports whether the variant's form exposes the given field.
func (v FormVariant) Has(f Field) bool {
	for _, have := range variantFields[v] {
		if have == f {
			return true
		}
	}
	return false
}

// SharedFields are the inputs common to every form variant. They carry over
// when the user switches variants, but only into fields the target variant
// has not filled yet.
type SharedFields struct {
	ProjectID    *uuid.UUID
	MovementDate time.Time
	Description  string
	Amount       decimal.Decimal
	CurrencyID   uuid.UUID
	WalletID     uuid.UUID
}

// FormState is one variant's working draft. The Variant tag decides which of
// the optional fields are meaningful; everything else stays nil.
type FormState struct {
	Variant FormVariant
	Shared  SharedFields

	// Classification mirror. Kept on the state so edit mode can show the
	// exact stored path and so variant switches stay consistent with what
	// the user last picked.
	TypeID        uuid.UUID
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID

	// Paired-variant fields.
	ToWalletID   *uuid.UUID
	ToCurrencyID *uuid.UUID
	ToAmount     *decimal.Decimal
	ExchangeRate *decimal.Decimal

	// Counterparty fields.
	ContactID *uuid.UUID
	MemberID  *uuid.UUID

	// Relation targets. At most one is ever set, matching the variant.
	TaskID         *uuid.UUID
	SubcontractID  *uuid.UUID
	AssignmentID   *uuid.UUID
	RelationAmount *decimal.Decimal
}

// FormInput is one reducer action: every non-nil pointer overwrites the
// matching state field. Fields the active variant does not expose are
// rejected rather than silently dropped.
type FormInput struct {
	ProjectID    *uuid.UUID
	MovementDate *time.Time
	Description  *string
	Amount       *decimal.Decimal
	CurrencyID   *uuid.UUID
	WalletID     *uuid.UUID

	ToWalletID   *uuid.UUID
	ToCurrencyID *uuid.UUID
	ToAmount     *decimal.Decimal
	ExchangeRate *decimal.Decimal

	ContactID *uuid.UUID
	MemberID  *uuid.UUID

	TaskID         *uuid.UUID
	SubcontractID  *uuid.UUID
	AssignmentID   *uuid.UUID
	RelationAmount *decimal.Decimal
}

// FieldErrors collects per-field validation failures for one submit attempt.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid form fields: " + strings.Join(fields, ", ")
}

// clearRelationTargets drops the relation selection so a later return to this
// variant starts from an unselected target.
func (s *FormState) clearRelationTargets() {
	s.TaskID = nil
	s.SubcontractID = nil
	s.AssignmentID = nil
	s.RelationAmount = nil
}

// RelationTarget returns the selected relation target for the variant, if any.
func (s *FormState) RelationTarget() (uuid.UUID, bool) {
	var target *uuid.UUID
	switch s.Variant {
	case VariantMateriales:
		target = s.TaskID
	case VariantSubcontratos:
		target = s.SubcontractID
	case VariantPersonal:
		target = s.AssignmentID
	}
	if target == nil {
		return uuid.Nil, false
	}
	return *target, true
}

// Validate checks the state against its variant's requirements. A nil return
// means the state is submit-ready.
func (s *FormState) Validate() FieldErrors {
	errs := FieldErrors{}

	if s.Shared.MovementDate.IsZero() {
		errs["movement_date"] = "date is required"
	}
	if s.Shared.Amount.LessThanOrEqual(decimal.Zero) {
		errs["amount"] = "amount must be positive"
	}
	if s.Shared.CurrencyID == uuid.Nil {
		errs["currency_id"] = "currency is required"
	}
	if s.Shared.WalletID == uuid.Nil {
		errs["wallet_id"] = "wallet is required"
	}
	if s.TypeID == uuid.Nil {
		errs["type_id"] = "movement type is required"
	}

	switch s.Variant {
	case VariantConversion:
		if s.ToCurrencyID == nil {
			errs["to_currency_id"] = "destination currency is required"
		} else if *s.ToCurrencyID == s.Shared.CurrencyID {
			errs["to_currency_id"] = "destination currency must differ from source"
		}
		if s.ToAmount == nil || s.ToAmount.LessThanOrEqual(decimal.Zero) {
			errs["to_amount"] = "received amount must be positive"
		}
		if s.ExchangeRate != nil && s.ExchangeRate.LessThanOrEqual(decimal.Zero) {
			errs["exchange_rate"] = "exchange rate must be positive"
		}
	case VariantTransfer:
		if s.ToWalletID == nil {
			errs["to_wallet_id"] = "destination wallet is required"
		} else if *s.ToWalletID == s.Shared.WalletID {
			errs["to_wallet_id"] = "destination wallet must differ from source"
		}
	case VariantAportes:
		if s.ContactID == nil {
			errs["contact_id"] = "contributor is required"
		}
	case VariantAportesPropios, VariantRetirosPropios:
		if s.MemberID == nil {
			errs["member_id"] = "member is required"
		}
	}

	if s.RelationAmount != nil && s.RelationAmount.LessThanOrEqual(decimal.Zero) {
		errs["relation_amount"] = "relation amount must be positive"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// params maps the shared and counterparty fields onto Params for persistence.
func (s *FormState) params(createdBy uuid.UUID) Params {
	return Params{
		ProjectID:     s.Shared.ProjectID,
		MovementDate:  s.Shared.MovementDate,
		CreatedBy:     createdBy,
		Description:   s.Shared.Description,
		Amount:        s.Shared.Amount,
		CurrencyID:    s.Shared.CurrencyID,
		WalletID:      s.Shared.WalletID,
		TypeID:        s.TypeID,
		CategoryID:    s.CategoryID,
		SubcategoryID: s.SubcategoryID,
		ContactID:     s.ContactID,
		MemberID:      s.MemberID,
	}
}

// SingleParams builds the Params for a single-entry variant.
func (s *FormState) SingleParams(createdBy uuid.UUID) Params {
	return s.params(createdBy)
}

// EgressParams builds the outgoing half of a paired write. The egress row
// always records the source wallet, currency and entered amount; its type is
// the generic egress concept, not the user-facing conversion/transfer type.
func (s *FormState) EgressParams(createdBy, egressTypeID uuid.UUID) Params {
	p := s.params(createdBy)
	p.TypeID = egressTypeID
	p.CategoryID = nil
	p.SubcategoryID = nil
	if s.Variant == VariantConversion {
		p.ExchangeRate = s.ExchangeRate
	}
	return p
}

// IngressParams builds the incoming half of a paired write. Transfers keep
// the amount and currency; conversions switch to the destination currency
// and received amount. A missing destination wallet means same-wallet
// conversion.
func (s *FormState) IngressParams(createdBy, ingressTypeID uuid.UUID) Params {
	p := s.params(createdBy)
	p.TypeID = ingressTypeID
	p.CategoryID = nil
	p.SubcategoryID = nil
	if s.ToWalletID != nil {
		p.WalletID = *s.ToWalletID
	}
	if s.Variant == VariantConversion {
		if s.ToCurrencyID != nil {
			p.CurrencyID = *s.ToCurrencyID
		}
		if s.ToAmount != nil {
			p.Amount = *s.ToAmount
		}
		p.ExchangeRate = s.ExchangeRate
	}
	return p
}

// FormSession coordinates the per-variant drafts behind one movement form.
// Each variant keeps its own FormState; switching classification re-resolves
// the variant and carries the shared fields into the target draft without
// clobbering anything the user already typed there.
type FormSession struct {
	resolver *Resolver
	tree     *ConceptTree
	states   map[FormVariant]*FormState
	active   FormVariant
	editMode bool
}

// NewFormSession starts a create-mode session on the normal variant.
func NewFormSession(resolver *Resolver, tree *ConceptTree) *FormSession {
	s := &FormSession{
		resolver: resolver,
		tree:     tree,
		states:   make(map[FormVariant]*FormState),
		active:   VariantNormal,
	}
	s.states[VariantNormal] = &FormState{Variant: VariantNormal}
	return s
}

// NewEditSession starts an edit-mode session seeded with the reconstructed
// state of a stored movement. Nothing is defaulted: the draft shows exactly
// the stored values.
func NewEditSession(resolver *Resolver, tree *ConceptTree, state *FormState) (*FormSession, error) {
	if state == nil || !state.Variant.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATE", "Edit session requires a reconstructed form state")
	}
	s := &FormSession{
		resolver: resolver,
		tree:     tree,
		states:   map[FormVariant]*FormState{state.Variant: state},
		active:   state.Variant,
		editMode: true,
	}
	return s, nil
}

// Active returns the current draft.
func (s *FormSession) Active() *FormState {
	return s.states[s.active]
}

// Variant returns the active form variant.
func (s *FormSession) Variant() FormVariant {
	return s.active
}

// EditMode reports whether the session was opened on a stored movement.
func (s *FormSession) EditMode() bool {
	return s.editMode
}

// SetClassification records a type/category/subcategory selection,
// re-resolves the variant and switches drafts if it changed.
func (s *FormSession) SetClassification(typeID uuid.UUID, categoryID, subcategoryID *uuid.UUID) (FormVariant, error) {
	typeNode := s.tree.Get(typeID)
	if typeNode == nil || !typeNode.IsRoot() {
		return s.active, shared.NewDomainError("INVALID_TYPE", "Selected concept is not a movement type")
	}

	next := s.resolver.Resolve(typeNode, s.tree.GetRef(categoryID), s.tree.GetRef(subcategoryID))
	if next != s.active {
		s.switchTo(next)
	}

	active := s.Active()
	active.TypeID = typeID
	active.CategoryID = categoryID
	active.SubcategoryID = subcategoryID
	return next, nil
}

// switchTo activates the target variant's draft, carrying shared fields into
// its empty slots. The departed draft keeps its values so round-trips restore
// them, except the relation target selection, which is always dropped.
func (s *FormSession) switchTo(next FormVariant) {
	prev := s.Active()
	prev.clearRelationTargets()

	target, ok := s.states[next]
	if !ok {
		target = &FormState{Variant: next}
		s.states[next] = target
	}
	carryShared(&target.Shared, prev.Shared)
	s.active = next
}

// carryShared copies source shared fields into the destination, filling only
// fields the destination has left empty.
func carryShared(dst *SharedFields, src SharedFields) {
	if dst.ProjectID == nil {
		dst.ProjectID = src.ProjectID
	}
	if dst.MovementDate.IsZero() {
		dst.MovementDate = src.MovementDate
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.Amount.IsZero() {
		dst.Amount = src.Amount
	}
	if dst.CurrencyID == uuid.Nil {
		dst.CurrencyID = src.CurrencyID
	}
	if dst.WalletID == uuid.Nil {
		dst.WalletID = src.WalletID
	}
}

// ApplyInput applies one reducer action to the active draft. Variant-specific
// fields the active variant does not expose are rejected.
func (s *FormSession) ApplyInput(in FormInput) error {
	state := s.Active()

	type gated struct {
		field Field
		set   bool
	}
	for _, g := range []gated{
		{FieldToWallet, in.ToWalletID != nil},
		{FieldToCurrency, in.ToCurrencyID != nil},
		{FieldToAmount, in.ToAmount != nil},
		{FieldExchangeRate, in.ExchangeRate != nil},
		{FieldContact, in.ContactID != nil},
		{FieldMember, in.MemberID != nil},
		{FieldTask, in.TaskID != nil},
		{FieldSubcontract, in.SubcontractID != nil},
		{FieldAssignment, in.AssignmentID != nil},
	} {
		if g.set && !state.Variant.Has(g.field) {
			return shared.NewDomainError("INVALID_FIELD",
				fmt.Sprintf("Field %s is not part of the %s form", g.field, state.Variant))
		}
	}

	if in.ProjectID != nil {
		state.Shared.ProjectID = in.ProjectID
	}
	if in.MovementDate != nil {
		state.Shared.MovementDate = *in.MovementDate
	}
	if in.Description != nil {
		state.Shared.Description = *in.Description
	}
	if in.Amount != nil {
		state.Shared.Amount = *in.Amount
	}
	if in.CurrencyID != nil {
		state.Shared.CurrencyID = *in.CurrencyID
	}
	if in.WalletID != nil {
		state.Shared.WalletID = *in.WalletID
	}

	if in.ToWalletID != nil {
		state.ToWalletID = in.ToWalletID
	}
	if in.ToCurrencyID != nil {
		state.ToCurrencyID = in.ToCurrencyID
	}
	if in.ToAmount != nil {
		state.ToAmount = in.ToAmount
	}
	if in.ExchangeRate != nil {
		state.ExchangeRate = in.ExchangeRate
	}
	if in.ContactID != nil {
		state.ContactID = in.ContactID
	}
	if in.MemberID != nil {
		state.MemberID = in.MemberID
	}
	if in.TaskID != nil {
		state.TaskID = in.TaskID
	}
	if in.SubcontractID != nil {
		state.SubcontractID = in.SubcontractID
	}
	if in.AssignmentID != nil {
		state.AssignmentID = in.AssignmentID
	}
	if in.RelationAmount != nil {
		state.RelationAmount = in.RelationAmount
	}
	return nil
}

// Validate validates the active draft for submission.
func (s *FormSession) Validate() FieldErrors {
	return s.Active().Validate()
}
