package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BoostLevel selects the output multiplier of a production-boosting consumable.
// It scales output per cycle only; cycle duration and input consumption are unaffected.
type BoostLevel int

const (
	BoostNone BoostLevel = iota
	BoostMk1
	BoostMk2
	BoostMk3
)

var boostMultipliers = map[BoostLevel]decimal.Decimal{
	BoostNone: decimal.NewFromInt(1),
	BoostMk1:  decimal.RequireFromString("1.125"),
	BoostMk2:  decimal.RequireFromString("1.2"),
	BoostMk3:  decimal.RequireFromString("1.25"),
}

// Multiplier returns the output multiplier for the level
func (b BoostLevel) Multiplier() (decimal.Decimal, error) {
	m, ok := boostMultipliers[b]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %d (expected 0-3)", ErrUnknownBoostLevel, int(b))
	}
	return m, nil
}

// Valid reports whether the level is one of the fixed discrete levels
func (b BoostLevel) Valid() bool {
	_, ok := boostMultipliers[b]
	return ok
}

// String method for BoostLevel enum
func (b BoostLevel) String() string {
	switch b {
	case BoostNone:
		return "None"
	case BoostMk1:
		return "Mk1"
	case BoostMk2:
		return "Mk2"
	case BoostMk3:
		return "Mk3"
	default:
		return "Unknown"
	}
}
