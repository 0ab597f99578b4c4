package movement

import (
	"strings"

	"github.com/google/uuid"
)

// ViewMode is the form-shape hint carried by a classification concept.
type ViewMode string

const (
	ViewModeNormal         ViewMode = "normal"
	ViewModeConversion     ViewMode = "conversion"
	ViewModeTransfer       ViewMode = "transfer"
	ViewModeAportes        ViewMode = "aportes"
	ViewModeRetirosPropios ViewMode = "retiros_propios"
)

// IsValid checks if the view mode is a known ViewMode
func (v ViewMode) IsValid() bool {
	switch v {
	case ViewModeNormal, ViewModeConversion, ViewModeTransfer, ViewModeAportes, ViewModeRetirosPropios:
		return true
	}
	return false
}

// String returns the string representation of ViewMode
func (v ViewMode) String() string {
	return string(v)
}

// Concept is a classification node in the per-organization taxonomy.
// Root concepts are movement "types"; their children are "categories";
// categories may carry "subcategories". Concepts are owned by an external
// catalog and are read-only within this service.
type Concept struct {
	ID              uuid.UUID
	ParentID        *uuid.UUID
	Name            string
	ViewMode        ViewMode
	VariantOverride *FormVariant
	OrganizationID  uuid.UUID
}

// IsRoot returns true if the concept is a movement type (no parent)
func (c *Concept) IsRoot() bool {
	return c.ParentID == nil
}

// EffectiveViewMode returns the concept's view mode, defaulting to normal
// when the tag is absent or unknown.
func (c *Concept) EffectiveViewMode() ViewMode {
	if c == nil || !c.ViewMode.IsValid() {
		return ViewModeNormal
	}
	return c.ViewMode
}

// Name markers used by the legacy resolution rules. Category names are
// matched on their normalized form; renaming a category changes its
// resolution unless a variant_override is set on the concept.
const (
	memberMarker     = "propio"
	withdrawalMarker = "retiro"
	materialsMarker  = "material"
)

var nameNormalizer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// NormalizeName lowercases and accent-folds a concept name for marker matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(nameNormalizer.Replace(name)))
}

// HasNameMarker reports whether the concept's normalized name contains the marker.
func (c *Concept) HasNameMarker(marker string) bool {
	if c == nil {
		return false
	}
	return strings.Contains(NormalizeName(c.Name), marker)
}

// ConceptTree holds one organization's classification concepts with
// parent/child indexes for variant resolution and form hydration.
type ConceptTree struct {
	nodes    map[uuid.UUID]*Concept
	children map[uuid.UUID][]*Concept
	roots    []*Concept
}

// NewConceptTree builds a tree from a flat concept list.
func NewConceptTree(concepts []Concept) *ConceptTree {
	t := &ConceptTree{
		nodes:    make(map[uuid.UUID]*Concept, len(concepts)),
		children: make(map[uuid.UUID][]*Concept),
	}
	for i := range concepts {
		c := concepts[i]
		t.nodes[c.ID] = &c
	}
	for _, c := range t.nodes {
		if c.ParentID == nil {
			t.roots = append(t.roots, c)
			continue
		}
		t.children[*c.ParentID] = append(t.children[*c.ParentID], c)
	}
	return t
}

// Get returns the concept with the given ID, or nil if it is not in the tree.
func (t *ConceptTree) Get(id uuid.UUID) *Concept {
	if t == nil {
		return nil
	}
	return t.nodes[id]
}

// GetRef returns the concept for an optional ID reference.
func (t *ConceptTree) GetRef(id *uuid.UUID) *Concept {
	if id == nil {
		return nil
	}
	return t.Get(*id)
}

// Roots returns the movement types of the tree.
func (t *ConceptTree) Roots() []*Concept {
	return t.roots
}

// Children returns the direct children of a concept.
func (t *ConceptTree) Children(id uuid.UUID) []*Concept {
	return t.children[id]
}

// FindRootByName returns the first movement type whose normalized name
// contains the given normalized name. Used to locate the generic
// egress/ingress sub-concepts backing paired writes.
func (t *ConceptTree) FindRootByName(name string) *Concept {
	want := NormalizeName(name)
	if want == "" {
		return nil
	}
	for _, root := range t.roots {
		if strings.Contains(NormalizeName(root.Name), want) {
			return root
		}
	}
	return nil
}

// Size returns the number of concepts in the tree.
func (t *ConceptTree) Size() int {
	return len(t.nodes)
}
