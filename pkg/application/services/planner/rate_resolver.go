package planner

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

const (
	// ratePrecision is the number of decimal places kept by rate divisions
	ratePrecision = 16
	// ceilPrecision is applied to an inexact building quotient before rounding up.
	// It only absorbs the last digits of a ratePrecision division.
	ceilPrecision = 14
)

var maxBuildings = decimal.NewFromInt(math.MaxInt64)

// NodeInput holds everything needed to resolve one recipe for one desired flow
type NodeInput struct {
	DesiredFlow     decimal.Decimal
	RecipeOutput    decimal.Decimal
	Quantities      []decimal.Decimal
	CraftTime       decimal.Decimal
	SpeedMultiplier decimal.Decimal
	Boost           entities.BoostLevel
	FixedIntake     bool
}

// NodeRates is the outcome of ResolveNode. Consumption is aligned with the
// input quantities.
type NodeRates struct {
	BuildingsRequired     int64
	OutputRatePerBuilding decimal.Decimal
	Consumption           []decimal.Decimal
}

// ResolveNode converts one recipe and a desired flow into the number of buildings
// needed and the resulting ingredient consumption. The building count always rounds
// up and consumption is derived from the rounded count, so achieved output may
// exceed the desired flow.
//
// With effective craft time c = craftTime / speed:
//
//	output rate per building     = output * boost / c
//	buildings                    = ceil(desired / output rate per building)
//	consumption[i]               = buildings * quantity[i] / c
//	consumption[i] (fixed intake) = buildings * quantity[i]
//
// Each quantity is evaluated with a single division to keep decimal results exact
// wherever the true value is representable.
func ResolveNode(in NodeInput) (*NodeRates, error) {
	if !in.CraftTime.IsPositive() {
		return nil, fmt.Errorf("%w: craft time must be positive, got %s", entities.ErrInvalidRecipe, in.CraftTime)
	}
	if !in.SpeedMultiplier.IsPositive() {
		return nil, fmt.Errorf("%w: speed multiplier must be positive, got %s", entities.ErrInvalidRecipe, in.SpeedMultiplier)
	}
	if !in.RecipeOutput.IsPositive() {
		return nil, fmt.Errorf("%w: recipe output must be positive, got %s", entities.ErrInvalidRecipe, in.RecipeOutput)
	}
	if !in.DesiredFlow.IsPositive() {
		return nil, fmt.Errorf("%w: desired flow must be positive, got %s", entities.ErrInvalidRecipe, in.DesiredFlow)
	}
	for i, q := range in.Quantities {
		if q.IsNegative() {
			return nil, fmt.Errorf("%w: ingredient %d has negative quantity %s", entities.ErrInvalidRecipe, i, q)
		}
	}

	multiplier, err := in.Boost.Multiplier()
	if err != nil {
		return nil, err
	}

	boostedOutput := in.RecipeOutput.Mul(multiplier)
	outputPerCycleTime := boostedOutput.Mul(in.SpeedMultiplier)
	outputRate := outputPerCycleTime.DivRound(in.CraftTime, ratePrecision)

	ceiled := buildingCeiling(in.DesiredFlow.Mul(in.CraftTime), outputPerCycleTime)
	if ceiled.GreaterThan(maxBuildings) {
		return nil, fmt.Errorf("%w: desired flow %s needs more than %d buildings", entities.ErrInvalidRecipe, in.DesiredFlow, int64(math.MaxInt64))
	}
	buildings := ceiled.IntPart()
	if buildings < 1 {
		// flows below the ceiling precision still need one building
		buildings = 1
	}

	count := decimal.NewFromInt(buildings)
	consumption := make([]decimal.Decimal, len(in.Quantities))
	for i, q := range in.Quantities {
		if in.FixedIntake {
			consumption[i] = count.Mul(q)
			continue
		}
		consumption[i] = count.Mul(q).Mul(in.SpeedMultiplier).DivRound(in.CraftTime, ratePrecision)
	}

	return &NodeRates{
		BuildingsRequired:     buildings,
		OutputRatePerBuilding: outputRate,
		Consumption:           consumption,
	}, nil
}

// buildingCeiling returns ceil(numerator / denominator). A quotient that is exact
// at ratePrecision is ceiled as is; otherwise it is rounded to ceilPrecision first.
func buildingCeiling(numerator, denominator decimal.Decimal) decimal.Decimal {
	quotient := numerator.DivRound(denominator, ratePrecision)
	if quotient.Mul(denominator).Equal(numerator) {
		return quotient.Ceil()
	}
	return quotient.Round(ceilPrecision).Ceil()
}
