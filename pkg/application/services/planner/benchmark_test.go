package planner

import (
	"context"
	"fmt"
	"testing"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/factoryplan/pkg/infrastructure/testing"
)

// setupDeepChain builds level_0 <- level_1 <- ... <- level_{depth-1} <- ore
func setupDeepChain(depth int) (*memory.RecipeRepository, *memory.BuildingRepository) {
	recipes := make([]*entities.Recipe, 0, depth)
	for i := 0; i < depth; i++ {
		input := fmt.Sprintf("2 level_%d", i+1)
		if i == depth-1 {
			input = "2 ore"
		}
		recipes = append(recipes, testhelpers.MustRecipe(entities.ItemName(fmt.Sprintf("level_%d", i)), "assembler", "1.5", "1", input))
	}
	return testhelpers.BuildCatalog(recipes...)
}

// setupWideChain builds one top item with width craftable inputs
func setupWideChain(width int) (*memory.RecipeRepository, *memory.BuildingRepository) {
	recipes := make([]*entities.Recipe, 0, width+1)
	inputs := make([]string, 0, width)
	for i := 0; i < width; i++ {
		part := fmt.Sprintf("part_%d", i)
		inputs = append(inputs, "1 "+part)
		recipes = append(recipes, testhelpers.MustRecipe(entities.ItemName(part), "smelter", "2", "1", "3 ore"))
	}
	recipes = append(recipes, testhelpers.MustRecipe("top", "assembler", "4", "1", inputs...))
	return testhelpers.BuildCatalog(recipes...)
}

func benchmarkResolve(b *testing.B, agg *Aggregator, item entities.ItemName) {
	ctx := context.Background()
	req := request(item, "30")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := agg.Resolve(ctx, req, nil); err != nil {
			b.Fatalf("Resolve failed: %v", err)
		}
	}
}

func BenchmarkAggregator_ChainCatalog(b *testing.B) {
	benchmarkResolve(b, newChainAggregator(), "electric_motor")
}

func BenchmarkAggregator_DeepChain(b *testing.B) {
	benchmarkResolve(b, NewAggregator(setupDeepChain(10)), "level_0")
}

func BenchmarkAggregator_WideChain(b *testing.B) {
	benchmarkResolve(b, NewAggregator(setupWideChain(50)), "top")
}

func BenchmarkService_CachedPlan(b *testing.B) {
	ctx := context.Background()
	svc, err := NewService(newChainAggregator(), ServiceConfig{MaxCacheEntries: 16}, nil, nil)
	if err != nil {
		b.Fatalf("NewService failed: %v", err)
	}
	req := request("electric_motor", "30")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Plan(ctx, req); err != nil {
			b.Fatalf("Plan failed: %v", err)
		}
	}
}

func TestDeepChain_Resolves(t *testing.T) {
	totals, err := NewAggregator(setupDeepChain(10)).Resolve(context.Background(), request("level_0", "1"), nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, ok := totals.Ingredients["ore"]; !ok {
		t.Errorf("expected ore at the bottom of the chain, got %v", totals.Ingredients)
	}
	if len(totals.Ingredients) != 10 {
		t.Errorf("expected 10 ingredients, got %d", len(totals.Ingredients))
	}
}
