package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ItemName identifies an item, craftable or raw
type ItemName string

// Ingredient is one (quantity, item) pair consumed by a single craft cycle
type Ingredient struct {
	Quantity decimal.Decimal
	Name     ItemName
}

// NewIngredient creates a validated Ingredient
func NewIngredient(quantity decimal.Decimal, name ItemName) (*Ingredient, error) {
	if strings.TrimSpace(string(name)) == "" {
		return nil, fmt.Errorf("ingredient name cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("ingredient quantity cannot be negative, got %s", quantity)
	}

	return &Ingredient{
		Quantity: quantity,
		Name:     name,
	}, nil
}

// ParseIngredient parses the catalog shorthand "<quantity> <name>", e.g. "2 iron_ingot"
func ParseIngredient(s string) (*Ingredient, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return nil, fmt.Errorf("ingredient %q must be \"<quantity> <name>\"", s)
	}

	quantity, err := decimal.NewFromString(fields[0])
	if err != nil {
		return nil, fmt.Errorf("ingredient %q has invalid quantity: %w", s, err)
	}

	return NewIngredient(quantity, ItemName(fields[1]))
}

// String renders the ingredient in the same shorthand ParseIngredient accepts
func (i Ingredient) String() string {
	return fmt.Sprintf("%s %s", i.Quantity.String(), i.Name)
}

// IngredientFlow is the consumption rate of one ingredient
type IngredientFlow struct {
	Name ItemName
	Rate decimal.Decimal
}
