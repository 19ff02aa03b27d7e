package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Request asks for DesiredFlow units of Item per second (per full cycle for
// fixed-intake buildings) using the given tiers and boost level
type Request struct {
	Item        ItemName
	DesiredFlow decimal.Decimal
	Tiers       TierSelection
	Boost       BoostLevel
}

// NewRequest creates a validated Request
func NewRequest(item ItemName, desiredFlow decimal.Decimal, tiers TierSelection, boost BoostLevel) (*Request, error) {
	if strings.TrimSpace(string(item)) == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}
	if !desiredFlow.IsPositive() {
		return nil, fmt.Errorf("desired flow must be positive, got %s", desiredFlow)
	}
	if !boost.Valid() {
		return nil, fmt.Errorf("%w: %d (expected 0-3)", ErrUnknownBoostLevel, int(boost))
	}

	return &Request{
		Item:        item,
		DesiredFlow: desiredFlow,
		Tiers:       tiers.Clone(),
		Boost:       boost,
	}, nil
}

// NodeResult is the outcome of resolving one recipe for one desired flow
type NodeResult struct {
	Building          string
	BuildingsRequired int64
	FixedIntake       bool
	Consumption       []IngredientFlow
}
