package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Recipe converts ingredient quantities into OutputPerCraft units of Item every
// CraftTime seconds, executed by one building of kind Building at nominal speed.
// Building may name a tier family ("assembler") resolved through a TierSelection.
type Recipe struct {
	Item           ItemName
	Building       string
	Ingredients    []Ingredient
	CraftTime      decimal.Decimal
	OutputPerCraft decimal.Decimal
}

// NewRecipe creates a validated Recipe
func NewRecipe(
	item ItemName,
	building string,
	ingredients []Ingredient,
	craftTime decimal.Decimal,
	outputPerCraft decimal.Decimal,
) (*Recipe, error) {
	if strings.TrimSpace(string(item)) == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}
	if strings.TrimSpace(building) == "" {
		return nil, fmt.Errorf("building cannot be empty for %s", item)
	}
	if !craftTime.IsPositive() {
		return nil, fmt.Errorf("%w: craft time must be positive for %s, got %s", ErrInvalidRecipe, item, craftTime)
	}
	if !outputPerCraft.IsPositive() {
		return nil, fmt.Errorf("%w: output per craft must be positive for %s, got %s", ErrInvalidRecipe, item, outputPerCraft)
	}

	for _, ing := range ingredients {
		if ing.Name == item {
			return nil, fmt.Errorf("%w: %s cannot be an ingredient of itself", ErrCyclicRecipe, item)
		}
		if ing.Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: ingredient %s of %s has negative quantity %s", ErrInvalidRecipe, ing.Name, item, ing.Quantity)
		}
	}

	copied := make([]Ingredient, len(ingredients))
	copy(copied, ingredients)

	return &Recipe{
		Item:           item,
		Building:       building,
		Ingredients:    copied,
		CraftTime:      craftTime,
		OutputPerCraft: outputPerCraft,
	}, nil
}

// Quantities returns the per-craft ingredient quantities in recipe order
func (r *Recipe) Quantities() []decimal.Decimal {
	quantities := make([]decimal.Decimal, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		quantities[i] = ing.Quantity
	}
	return quantities
}
