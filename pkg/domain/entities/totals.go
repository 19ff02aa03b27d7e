package entities

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Totals accumulates building counts per kind and ingredient consumption per
// ingredient across a resolved dependency tree. One Totals may be threaded
// through several resolutions to merge multiple targets.
type Totals struct {
	Buildings   map[string]int64
	Ingredients map[ItemName]decimal.Decimal
	// PerCycle holds ingredients consumed by fixed-intake buildings; their
	// totals carry no time denominator.
	PerCycle map[ItemName]bool
}

// NewTotals creates an empty accumulator
func NewTotals() *Totals {
	return &Totals{
		Buildings:   make(map[string]int64),
		Ingredients: make(map[ItemName]decimal.Decimal),
		PerCycle:    make(map[ItemName]bool),
	}
}

// AddNode merges one node's result
func (t *Totals) AddNode(result NodeResult) {
	t.Buildings[result.Building] += result.BuildingsRequired
	for _, flow := range result.Consumption {
		t.AddIngredient(flow.Name, flow.Rate)
		if result.FixedIntake {
			t.PerCycle[flow.Name] = true
		}
	}
}

// AddIngredient adds rate to the running total of name
func (t *Totals) AddIngredient(name ItemName, rate decimal.Decimal) {
	current, ok := t.Ingredients[name]
	if !ok {
		current = decimal.Zero
	}
	t.Ingredients[name] = current.Add(rate)
}

// Merge adds every total of other into t
func (t *Totals) Merge(other *Totals) {
	if other == nil {
		return
	}
	for kind, count := range other.Buildings {
		t.Buildings[kind] += count
	}
	for name, rate := range other.Ingredients {
		t.AddIngredient(name, rate)
	}
	for name := range other.PerCycle {
		t.PerCycle[name] = true
	}
}

// Clone returns a deep copy
func (t *Totals) Clone() *Totals {
	clone := NewTotals()
	clone.Merge(t)
	return clone
}

// Equal compares totals numerically
func (t *Totals) Equal(other *Totals) bool {
	if other == nil {
		return false
	}
	if len(t.Buildings) != len(other.Buildings) || len(t.Ingredients) != len(other.Ingredients) {
		return false
	}
	for kind, count := range t.Buildings {
		if other.Buildings[kind] != count {
			return false
		}
	}
	for name, rate := range t.Ingredients {
		otherRate, ok := other.Ingredients[name]
		if !ok || !otherRate.Equal(rate) {
			return false
		}
	}
	return true
}

// BuildingKinds returns the building kinds in sorted order
func (t *Totals) BuildingKinds() []string {
	kinds := make([]string, 0, len(t.Buildings))
	for kind := range t.Buildings {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// IngredientNames returns the ingredient names in sorted order
func (t *Totals) IngredientNames() []ItemName {
	names := make([]ItemName, 0, len(t.Ingredients))
	for name := range t.Ingredients {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
