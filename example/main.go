package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/application/services/planner"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/catalog"
	"github.com/vsinha/factoryplan/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	cat, err := catalog.Builtin()
	if err != nil {
		fmt.Printf("❌ Failed to load catalog: %v\n", err)
		return
	}

	aggregator := planner.NewAggregator(cat.Recipes, cat.Buildings)
	tiers := entities.TierSelection{"assembler": 3, "smelter": 2}

	// Threading one accumulator through both resolutions merges the targets
	totals := entities.NewTotals()
	for _, item := range []entities.ItemName{"blue_cube", "red_cube"} {
		req, err := entities.NewRequest(item, decimal.NewFromInt(30), tiers, entities.BoostMk3)
		if err != nil {
			fmt.Printf("❌ Invalid request: %v\n", err)
			return
		}

		if _, err := aggregator.Resolve(ctx, *req, totals); err != nil {
			fmt.Printf("❌ Planning %s failed: %v\n", item, err)
			return
		}
	}

	fmt.Println("🏭 Blue and red science at 30/s each:")
	report := output.Rescale(totals)
	for _, line := range report.Buildings {
		fmt.Printf("  %4s  %s\n", line.Amount.String(), line.Name)
	}
	fmt.Println()
	for _, line := range report.Ingredients {
		fmt.Printf("  %10s  %s\n", line.Amount.StringFixed(3), line.Name)
	}
}
