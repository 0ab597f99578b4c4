package movement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSentinels() Sentinels {
	return Sentinels{
		SubcontractSubcategoryID: uuid.MustParse("5ec47c10-1b9c-4a72-9f5e-000000000001"),
		PersonnelSubcategoryID:   uuid.MustParse("5ec47c10-1b9c-4a72-9f5e-000000000002"),
	}
}

func typeConcept(name string, mode ViewMode) *Concept {
	return &Concept{ID: uuid.New(), Name: name, ViewMode: mode, OrganizationID: uuid.New()}
}

func childConcept(parent *Concept, name string, mode ViewMode) *Concept {
	pid := parent.ID
	return &Concept{ID: uuid.New(), ParentID: &pid, Name: name, ViewMode: mode, OrganizationID: parent.OrganizationID}
}

func TestResolverResolve(t *testing.T) {
	resolver := NewResolver(testSentinels())
	egresos := typeConcept("Egresos", ViewModeNormal)

	t.Run("defaults to normal", func(t *testing.T) {
		assert.Equal(t, VariantNormal, resolver.Resolve(egresos, nil, nil))
	})

	t.Run("type view mode selects conversion", func(t *testing.T) {
		conv := typeConcept("Conversión", ViewModeConversion)
		assert.Equal(t, VariantConversion, resolver.Resolve(conv, nil, nil))
	})

	t.Run("type view mode selects transfer", func(t *testing.T) {
		trans := typeConcept("Transferencia", ViewModeTransfer)
		assert.Equal(t, VariantTransfer, resolver.Resolve(trans, nil, nil))
	})

	t.Run("aportes category splits on member marker", func(t *testing.T) {
		ingresos := typeConcept("Ingresos", ViewModeNormal)
		aportes := childConcept(ingresos, "Aportes de terceros", ViewModeAportes)
		propios := childConcept(ingresos, "Aportes Propios", ViewModeAportes)

		assert.Equal(t, VariantAportes, resolver.Resolve(ingresos, aportes, nil))
		assert.Equal(t, VariantAportesPropios, resolver.Resolve(ingresos, propios, nil))
	})

	t.Run("member marker matching is accent insensitive", func(t *testing.T) {
		ingresos := typeConcept("Ingresos", ViewModeNormal)
		propios := childConcept(ingresos, "APORTES PRÓPIOS", ViewModeAportes)
		assert.Equal(t, VariantAportesPropios, resolver.Resolve(ingresos, propios, nil))
	})

	t.Run("retiros view mode and name marker", func(t *testing.T) {
		byMode := childConcept(egresos, "Salidas socios", ViewModeRetirosPropios)
		byName := childConcept(egresos, "Retiros de socios", ViewModeNormal)

		assert.Equal(t, VariantRetirosPropios, resolver.Resolve(egresos, byMode, nil))
		assert.Equal(t, VariantRetirosPropios, resolver.Resolve(egresos, byName, nil))
	})

	t.Run("materials name marker", func(t *testing.T) {
		materiales := childConcept(egresos, "Materiales de obra", ViewModeNormal)
		assert.Equal(t, VariantMateriales, resolver.Resolve(egresos, materiales, nil))
	})

	t.Run("sentinel subcategories win over category rules", func(t *testing.T) {
		materiales := childConcept(egresos, "Materiales", ViewModeNormal)
		sub := &Concept{ID: testSentinels().SubcontractSubcategoryID, Name: "Subcontratos"}
		per := &Concept{ID: testSentinels().PersonnelSubcategoryID, Name: "Personal"}

		assert.Equal(t, VariantSubcontratos, resolver.Resolve(egresos, materiales, sub))
		assert.Equal(t, VariantPersonal, resolver.Resolve(egresos, materiales, per))
	})

	t.Run("subcategory variant override wins over sentinel ID", func(t *testing.T) {
		override := VariantNormal
		sub := &Concept{
			ID:              testSentinels().SubcontractSubcategoryID,
			Name:            "Subcontratos",
			VariantOverride: &override,
		}
		assert.Equal(t, VariantNormal, resolver.Resolve(egresos, nil, sub))
	})

	t.Run("category variant override pins resolution across renames", func(t *testing.T) {
		override := VariantAportesPropios
		renamed := childConcept(egresos, "Socios", ViewModeAportes)
		renamed.VariantOverride = &override
		assert.Equal(t, VariantAportesPropios, resolver.Resolve(egresos, renamed, nil))
	})

	t.Run("non sentinel subcategory falls through to category rules", func(t *testing.T) {
		materiales := childConcept(egresos, "Materiales", ViewModeNormal)
		sub := childConcept(materiales, "Cemento", ViewModeNormal)
		assert.Equal(t, VariantMateriales, resolver.Resolve(egresos, materiales, sub))
	})
}

func TestFormVariantPredicates(t *testing.T) {
	assert.True(t, VariantConversion.IsPaired())
	assert.True(t, VariantTransfer.IsPaired())
	assert.False(t, VariantAportes.IsPaired())

	assert.True(t, VariantMateriales.HasRelationTarget())
	assert.True(t, VariantSubcontratos.HasRelationTarget())
	assert.True(t, VariantPersonal.HasRelationTarget())
	assert.False(t, VariantNormal.HasRelationTarget())

	assert.False(t, FormVariant("bogus").IsValid())
	for _, v := range []FormVariant{
		VariantNormal, VariantConversion, VariantTransfer, VariantAportes,
		VariantAportesPropios, VariantRetirosPropios, VariantMateriales,
		VariantSubcontratos, VariantPersonal,
	} {
		assert.True(t, v.IsValid(), v.String())
	}
}

func TestConceptTree(t *testing.T) {
	org := uuid.New()
	egresos := Concept{ID: uuid.New(), Name: "Egresos", OrganizationID: org}
	ingresos := Concept{ID: uuid.New(), Name: "Ingresos generales", OrganizationID: org}
	materiales := Concept{ID: uuid.New(), ParentID: &egresos.ID, Name: "Materiales", OrganizationID: org}

	tree := NewConceptTree([]Concept{egresos, ingresos, materiales})

	require.Equal(t, 3, tree.Size())
	assert.Len(t, tree.Roots(), 2)
	assert.Len(t, tree.Children(egresos.ID), 1)
	assert.Nil(t, tree.Get(uuid.New()))
	assert.Nil(t, tree.GetRef(nil))

	t.Run("FindRootByName matches normalized substrings", func(t *testing.T) {
		found := tree.FindRootByName("ingresos")
		require.NotNil(t, found)
		assert.Equal(t, ingresos.ID, found.ID)
		assert.Nil(t, tree.FindRootByName("pagos"))
		assert.Nil(t, tree.FindRootByName(""))
	})
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "aportes propios", NormalizeName("  Aportes Própios "))
	assert.Equal(t, "conversion", NormalizeName("CONVERSIÓN"))
}
