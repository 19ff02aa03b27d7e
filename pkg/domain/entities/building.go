package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Building is a building kind with its speed relative to a recipe's nominal craft time.
//
// FixedIntake marks kinds whose ingredient quantities are a fixed intake per building
// instance rather than a per-cycle throughput; their consumption is never divided by
// craft time.
type Building struct {
	Name            string
	SpeedMultiplier decimal.Decimal
	FixedIntake     bool
}

// NewBuilding creates a validated Building
func NewBuilding(name string, speedMultiplier decimal.Decimal, fixedIntake bool) (*Building, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("building name cannot be empty")
	}
	if !speedMultiplier.IsPositive() {
		return nil, fmt.Errorf("%w: speed multiplier must be positive for %s, got %s", ErrInvalidRecipe, name, speedMultiplier)
	}

	return &Building{
		Name:            name,
		SpeedMultiplier: speedMultiplier,
		FixedIntake:     fixedIntake,
	}, nil
}

// TierSelection maps a building family to the tier in use, e.g. assembler -> 3
type TierSelection map[string]int

// Apply substitutes the selected tier into a family name ("assembler" -> "assembler3").
// Kinds without a selection are returned unchanged.
func (t TierSelection) Apply(kind string) string {
	if tier, ok := t[kind]; ok {
		return fmt.Sprintf("%s%d", kind, tier)
	}
	return kind
}

// Clone returns an independent copy
func (t TierSelection) Clone() TierSelection {
	clone := make(TierSelection, len(t))
	for family, tier := range t {
		clone[family] = tier
	}
	return clone
}
