package movement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formFixture struct {
	tree       *ConceptTree
	resolver   *Resolver
	egresosID  uuid.UUID
	transferID uuid.UUID
	convID     uuid.UUID
	materialID uuid.UUID
	aportesID  uuid.UUID
	ingresosID uuid.UUID
}

func newFormFixture() formFixture {
	org := uuid.New()
	egresos := Concept{ID: uuid.New(), Name: "Egresos", ViewMode: ViewModeNormal, OrganizationID: org}
	ingresos := Concept{ID: uuid.New(), Name: "Ingresos", ViewMode: ViewModeNormal, OrganizationID: org}
	transfer := Concept{ID: uuid.New(), Name: "Transferencia", ViewMode: ViewModeTransfer, OrganizationID: org}
	conv := Concept{ID: uuid.New(), Name: "Conversión", ViewMode: ViewModeConversion, OrganizationID: org}
	materiales := Concept{ID: uuid.New(), ParentID: &egresos.ID, Name: "Materiales", OrganizationID: org}
	aportes := Concept{ID: uuid.New(), ParentID: &ingresos.ID, Name: "Aportes de terceros", ViewMode: ViewModeAportes, OrganizationID: org}

	return formFixture{
		tree:       NewConceptTree([]Concept{egresos, ingresos, transfer, conv, materiales, aportes}),
		resolver:   NewResolver(testSentinels()),
		egresosID:  egresos.ID,
		transferID: transfer.ID,
		convID:     conv.ID,
		materialID: materiales.ID,
		aportesID:  aportes.ID,
		ingresosID: ingresos.ID,
	}
}

func uuidPtr(id uuid.UUID) *uuid.UUID           { return &id }
func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }
func strPtr(s string) *string                   { return &s }
func timePtr(t time.Time) *time.Time            { return &t }

func TestFormSessionClassification(t *testing.T) {
	f := newFormFixture()

	t.Run("starts on normal variant", func(t *testing.T) {
		s := NewFormSession(f.resolver, f.tree)
		assert.Equal(t, VariantNormal, s.Variant())
		assert.False(t, s.EditMode())
	})

	t.Run("rejects non root type selection", func(t *testing.T) {
		s := NewFormSession(f.resolver, f.tree)
		_, err := s.SetClassification(f.materialID, nil, nil)
		assert.Error(t, err)
		_, err = s.SetClassification(uuid.New(), nil, nil)
		assert.Error(t, err)
	})

	t.Run("classification switches variant and mirrors path", func(t *testing.T) {
		s := NewFormSession(f.resolver, f.tree)
		v, err := s.SetClassification(f.egresosID, uuidPtr(f.materialID), nil)
		require.NoError(t, err)
		assert.Equal(t, VariantMateriales, v)
		assert.Equal(t, f.egresosID, s.Active().TypeID)
		assert.Equal(t, f.materialID, *s.Active().CategoryID)
	})
}

func TestFormSessionCarryOver(t *testing.T) {
	f := newFormFixture()

	seed := func(t *testing.T) *FormSession {
		t.Helper()
		s := NewFormSession(f.resolver, f.tree)
		_, err := s.SetClassification(f.egresosID, nil, nil)
		require.NoError(t, err)
		require.NoError(t, s.ApplyInput(FormInput{
			Amount:       decPtr(decimal.NewFromInt(1500)),
			Description:  strPtr("compra cemento"),
			MovementDate: timePtr(time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)),
			CurrencyID:   uuidPtr(uuid.New()),
			WalletID:     uuidPtr(uuid.New()),
		}))
		return s
	}

	t.Run("shared fields carry into empty target fields", func(t *testing.T) {
		s := seed(t)
		_, err := s.SetClassification(f.transferID, nil, nil)
		require.NoError(t, err)

		got := s.Active()
		assert.Equal(t, VariantTransfer, got.Variant)
		assert.True(t, got.Shared.Amount.Equal(decimal.NewFromInt(1500)))
		assert.Equal(t, "compra cemento", got.Shared.Description)
	})

	t.Run("carry never clobbers a filled target field", func(t *testing.T) {
		s := seed(t)

		// Visit the transfer draft and type an amount there.
		_, err := s.SetClassification(f.transferID, nil, nil)
		require.NoError(t, err)
		require.NoError(t, s.ApplyInput(FormInput{Amount: decPtr(decimal.NewFromInt(900))}))

		// Go back, change the normal amount, return to transfer.
		_, err = s.SetClassification(f.egresosID, nil, nil)
		require.NoError(t, err)
		require.NoError(t, s.ApplyInput(FormInput{Amount: decPtr(decimal.NewFromInt(2000))}))
		_, err = s.SetClassification(f.transferID, nil, nil)
		require.NoError(t, err)

		assert.True(t, s.Active().Shared.Amount.Equal(decimal.NewFromInt(900)))
	})

	t.Run("round trip restores variant fields but not relation targets", func(t *testing.T) {
		s := seed(t)
		_, err := s.SetClassification(f.egresosID, uuidPtr(f.materialID), nil)
		require.NoError(t, err)
		require.NoError(t, s.ApplyInput(FormInput{TaskID: uuidPtr(uuid.New())}))

		// Switch away and back.
		_, err = s.SetClassification(f.transferID, nil, nil)
		require.NoError(t, err)
		require.NoError(t, s.ApplyInput(FormInput{ToWalletID: uuidPtr(uuid.New())}))
		_, err = s.SetClassification(f.egresosID, uuidPtr(f.materialID), nil)
		require.NoError(t, err)

		_, hasTarget := s.Active().RelationTarget()
		assert.False(t, hasTarget, "relation target must not be resurrected")

		// The transfer draft keeps its destination wallet though.
		_, err = s.SetClassification(f.transferID, nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, s.Active().ToWalletID)
	})
}

func TestFormSessionApplyInput(t *testing.T) {
	f := newFormFixture()

	t.Run("rejects fields foreign to the active variant", func(t *testing.T) {
		s := NewFormSession(f.resolver, f.tree)
		err := s.ApplyInput(FormInput{ToWalletID: uuidPtr(uuid.New())})
		assert.Error(t, err)

		_, err = s.SetClassification(f.transferID, nil, nil)
		require.NoError(t, err)
		assert.NoError(t, s.ApplyInput(FormInput{ToWalletID: uuidPtr(uuid.New())}))
		assert.Error(t, s.ApplyInput(FormInput{ContactID: uuidPtr(uuid.New())}))
	})

	t.Run("aportes exposes contact", func(t *testing.T) {
		s := NewFormSession(f.resolver, f.tree)
		_, err := s.SetClassification(f.ingresosID, uuidPtr(f.aportesID), nil)
		require.NoError(t, err)
		assert.Equal(t, VariantAportes, s.Variant())
		assert.NoError(t, s.ApplyInput(FormInput{ContactID: uuidPtr(uuid.New())}))
	})
}

func TestFormStateValidate(t *testing.T) {
	f := newFormFixture()

	fill := func(t *testing.T, s *FormSession) {
		t.Helper()
		require.NoError(t, s.ApplyInput(FormInput{
			Amount:       decPtr(decimal.NewFromInt(100)),
			MovementDate: timePtr(time.Now()),
			CurrencyID:   uuidPtr(uuid.New()),
			WalletID:     uuidPtr(uuid.New()),
		}))
	}

	t.Run("reports missing shared fields", func(t *testing.T) {
		s := NewFormSession(f.resolver, f.tree)
		errs := s.Validate()
		require.NotNil(t, errs)
		assert.Contains(t, errs, "amount")
		assert.Contains(t, errs, "wallet_id")
		assert.Contains(t, errs, "type_id")
	})

	t.Run("transfer rejects equal wallets", func(t *testing.T) {
		s := NewFormSession(f.resolver, f.tree)
		_, err := s.SetClassification(f.transferID, nil, nil)
		require.NoError(t, err)
		fill(t, s)
		require.NoError(t, s.ApplyInput(FormInput{ToWalletID: uuidPtr(s.Active().Shared.WalletID)}))

		errs := s.Validate()
		require.NotNil(t, errs)
		assert.Contains(t, errs, "to_wallet_id")
	})

	t.Run("conversion rejects equal currencies", func(t *testing.T) {
		s := NewFormSession(f.resolver, f.tree)
		_, err := s.SetClassification(f.convID, nil, nil)
		require.NoError(t, err)
		fill(t, s)
		require.NoError(t, s.ApplyInput(FormInput{
			ToCurrencyID: uuidPtr(s.Active().Shared.CurrencyID),
			ToAmount:     decPtr(decimal.NewFromInt(90)),
		}))

		errs := s.Validate()
		require.NotNil(t, errs)
		assert.Contains(t, errs, "to_currency_id")
	})

	t.Run("valid conversion passes", func(t *testing.T) {
		s := NewFormSession(f.resolver, f.tree)
		_, err := s.SetClassification(f.convID, nil, nil)
		require.NoError(t, err)
		fill(t, s)
		require.NoError(t, s.ApplyInput(FormInput{
			ToCurrencyID: uuidPtr(uuid.New()),
			ToAmount:     decPtr(decimal.NewFromInt(90)),
			ExchangeRate: decPtr(decimal.RequireFromString("0.9")),
		}))
		assert.Nil(t, s.Validate())
	})
}

func TestFormStatePairedParams(t *testing.T) {
	member := uuid.New()
	egressType := uuid.New()
	ingressType := uuid.New()
	srcWallet := uuid.New()
	dstWallet := uuid.New()
	srcCurrency := uuid.New()
	dstCurrency := uuid.New()

	base := FormState{
		Variant: VariantConversion,
		Shared: SharedFields{
			MovementDate: time.Now(),
			Amount:       decimal.NewFromInt(1000),
			CurrencyID:   srcCurrency,
			WalletID:     srcWallet,
		},
		TypeID:       uuid.New(),
		ToWalletID:   &dstWallet,
		ToCurrencyID: &dstCurrency,
		ToAmount:     decPtr(decimal.NewFromInt(910)),
		ExchangeRate: decPtr(decimal.RequireFromString("0.91")),
	}

	t.Run("conversion halves swap currency and amount", func(t *testing.T) {
		eg := base.EgressParams(member, egressType)
		in := base.IngressParams(member, ingressType)

		assert.Equal(t, egressType, eg.TypeID)
		assert.Equal(t, srcCurrency, eg.CurrencyID)
		assert.True(t, eg.Amount.Equal(decimal.NewFromInt(1000)))
		assert.Nil(t, eg.CategoryID)

		assert.Equal(t, ingressType, in.TypeID)
		assert.Equal(t, dstCurrency, in.CurrencyID)
		assert.Equal(t, dstWallet, in.WalletID)
		assert.True(t, in.Amount.Equal(decimal.NewFromInt(910)))
		require.NotNil(t, in.ExchangeRate)
	})

	t.Run("transfer keeps amount and currency", func(t *testing.T) {
		transfer := base
		transfer.Variant = VariantTransfer
		transfer.ToCurrencyID = nil
		transfer.ToAmount = nil
		transfer.ExchangeRate = nil

		in := transfer.IngressParams(member, ingressType)
		assert.Equal(t, srcCurrency, in.CurrencyID)
		assert.Equal(t, dstWallet, in.WalletID)
		assert.True(t, in.Amount.Equal(decimal.NewFromInt(1000)))
		assert.Nil(t, in.ExchangeRate)
	})

	t.Run("same wallet conversion keeps source wallet", func(t *testing.T) {
		same := base
		same.ToWalletID = nil
		in := same.IngressParams(member, ingressType)
		assert.Equal(t, srcWallet, in.WalletID)
	})
}

func TestNewEditSession(t *testing.T) {
	f := newFormFixture()

	t.Run("rejects nil state", func(t *testing.T) {
		_, err := NewEditSession(f.resolver, f.tree, nil)
		assert.Error(t, err)
	})

	t.Run("opens on the reconstructed variant without defaults", func(t *testing.T) {
		state := &FormState{
			Variant: VariantTransfer,
			Shared:  SharedFields{Amount: decimal.NewFromInt(50)},
		}
		s, err := NewEditSession(f.resolver, f.tree, state)
		require.NoError(t, err)
		assert.True(t, s.EditMode())
		assert.Equal(t, VariantTransfer, s.Variant())
		assert.True(t, s.Active().Shared.Amount.Equal(decimal.NewFromInt(50)))
	})
}
