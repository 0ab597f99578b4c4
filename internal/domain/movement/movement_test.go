package movement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() Params {
	return Params{
		MovementDate: time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC),
		CreatedBy:    uuid.New(),
		Description:  "pago de materiales",
		Amount:       decimal.NewFromInt(2500),
		CurrencyID:   uuid.New(),
		WalletID:     uuid.New(),
		TypeID:       uuid.New(),
	}
}

func TestNewMovement(t *testing.T) {
	org := uuid.New()

	t.Run("creates movement with valid params", func(t *testing.T) {
		p := validParams()
		m, err := NewMovement(org, p)
		require.NoError(t, err)
		assert.Equal(t, org, m.OrganizationID)
		assert.Equal(t, p.CreatedBy, m.CreatedByMember())
		assert.False(t, m.IsPaired())
		assert.Nil(t, m.GroupID())
		assert.Len(t, m.GetDomainEvents(), 1)
		assert.Equal(t, "MovementRecorded", m.GetDomainEvents()[0].EventType())
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*Params)
		}{
			{"zero amount", func(p *Params) { p.Amount = decimal.Zero }},
			{"negative amount", func(p *Params) { p.Amount = decimal.NewFromInt(-5) }},
			{"missing date", func(p *Params) { p.MovementDate = time.Time{} }},
			{"missing creator", func(p *Params) { p.CreatedBy = uuid.Nil }},
			{"missing currency", func(p *Params) { p.CurrencyID = uuid.Nil }},
			{"missing wallet", func(p *Params) { p.WalletID = uuid.Nil }},
			{"missing type", func(p *Params) { p.TypeID = uuid.Nil }},
			{"zero exchange rate", func(p *Params) { p.ExchangeRate = decPtr(decimal.Zero) }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				p := validParams()
				tc.mutate(&p)
				_, err := NewMovement(org, p)
				assert.Error(t, err)
			})
		}
	})
}

func TestMovementApply(t *testing.T) {
	org := uuid.New()
	m, err := NewMovement(org, validParams())
	require.NoError(t, err)
	m.ClearDomainEvents()

	t.Run("overwrites writable fields and keeps identity", func(t *testing.T) {
		id := m.ID
		createdAt := m.CreatedAt
		updatedAt := m.UpdatedAt
		p := validParams()
		p.Amount = decimal.NewFromInt(9000)
		p.Description = "corregido"

		require.NoError(t, m.Apply(p))
		assert.Equal(t, id, m.ID)
		assert.Equal(t, createdAt, m.CreatedAt)
		assert.False(t, m.UpdatedAt.Before(updatedAt))
		assert.True(t, m.Amount.Equal(decimal.NewFromInt(9000)))
		assert.Equal(t, "corregido", m.Description)
		assert.Len(t, m.GetDomainEvents(), 1)
		assert.Equal(t, "MovementUpdated", m.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects invalid params without touching state", func(t *testing.T) {
		before := m.Amount
		p := validParams()
		p.Amount = decimal.Zero
		assert.Error(t, m.Apply(p))
		assert.True(t, m.Amount.Equal(before))
	})
}

func TestMovementGroupAssignment(t *testing.T) {
	org := uuid.New()

	t.Run("conversion and transfer groups are exclusive", func(t *testing.T) {
		m, err := NewMovement(org, validParams())
		require.NoError(t, err)

		group := uuid.New()
		require.NoError(t, m.AssignConversionGroup(group))
		assert.True(t, m.IsPaired())
		assert.Equal(t, group, *m.GroupID())

		assert.Error(t, m.AssignTransferGroup(uuid.New()))
	})

	t.Run("transfer group blocks conversion group", func(t *testing.T) {
		m, err := NewMovement(org, validParams())
		require.NoError(t, err)

		require.NoError(t, m.AssignTransferGroup(uuid.New()))
		assert.Error(t, m.AssignConversionGroup(uuid.New()))
	})

	t.Run("rejects empty group ID", func(t *testing.T) {
		m, err := NewMovement(org, validParams())
		require.NoError(t, err)
		assert.Error(t, m.AssignConversionGroup(uuid.Nil))
		assert.Error(t, m.AssignTransferGroup(uuid.Nil))
	})
}

func TestNewRelation(t *testing.T) {
	t.Run("creates relation", func(t *testing.T) {
		rel, err := NewRelation(uuid.New(), uuid.New(), decimal.NewFromInt(300))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, rel.ID)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewRelation(uuid.Nil, uuid.New(), decimal.NewFromInt(1))
		assert.Error(t, err)
		_, err = NewRelation(uuid.New(), uuid.Nil, decimal.NewFromInt(1))
		assert.Error(t, err)
		_, err = NewRelation(uuid.New(), uuid.New(), decimal.Zero)
		assert.Error(t, err)
	})
}
