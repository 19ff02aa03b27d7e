package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/domain/repositories"
)

// NodeContext describes one resolved node of the ingredient tree
type NodeContext struct {
	Item        entities.ItemName
	Recipe      *entities.Recipe
	DesiredFlow decimal.Decimal
	Level       int
	Rates       *NodeRates
	Result      entities.NodeResult
}

// NodeObserver is notified of every node in depth-first pre-order
type NodeObserver interface {
	VisitNode(ctx context.Context, node NodeContext) error
}

// NodeObserverFunc adapts a function to NodeObserver
type NodeObserverFunc func(ctx context.Context, node NodeContext) error

// VisitNode calls f
func (f NodeObserverFunc) VisitNode(ctx context.Context, node NodeContext) error {
	return f(ctx, node)
}

// Aggregator walks the ingredient graph of a target item and merges every node's
// building count and ingredient consumption into one Totals
type Aggregator struct {
	recipes   repositories.RecipeRepository
	buildings repositories.BuildingRepository
}

// NewAggregator creates an aggregator over the given catalogs
func NewAggregator(recipes repositories.RecipeRepository, buildings repositories.BuildingRepository) *Aggregator {
	return &Aggregator{
		recipes:   recipes,
		buildings: buildings,
	}
}

// Resolve resolves req and adds the result to acc. A nil acc starts a fresh
// accumulator. acc is only modified when the whole tree resolves; on error it is
// left exactly as it was.
func (a *Aggregator) Resolve(ctx context.Context, req entities.Request, acc *entities.Totals) (*entities.Totals, error) {
	return a.ResolveObserved(ctx, req, acc, nil)
}

// ResolveObserved is Resolve with a NodeObserver notified for each node
func (a *Aggregator) ResolveObserved(
	ctx context.Context,
	req entities.Request,
	acc *entities.Totals,
	observer NodeObserver,
) (*entities.Totals, error) {
	if !req.Boost.Valid() {
		return nil, fmt.Errorf("%w: %d (expected 0-3)", entities.ErrUnknownBoostLevel, int(req.Boost))
	}
	if !a.recipes.HasRecipe(req.Item) {
		return nil, fmt.Errorf("%w: no recipe for %s", entities.ErrUnknownItem, req.Item)
	}

	walk := &treeWalk{
		aggregator: a,
		req:        req,
		totals:     entities.NewTotals(),
		onPath:     make(map[entities.ItemName]bool),
		observer:   observer,
	}
	if err := walk.resolveItem(ctx, req.Item, req.DesiredFlow, 0); err != nil {
		return nil, err
	}

	if acc == nil {
		return walk.totals, nil
	}
	acc.Merge(walk.totals)
	return acc, nil
}

// treeWalk holds the state of one top-level resolution
type treeWalk struct {
	aggregator *Aggregator
	req        entities.Request
	totals     *entities.Totals
	path       []entities.ItemName
	onPath     map[entities.ItemName]bool
	observer   NodeObserver
}

func (w *treeWalk) resolveItem(ctx context.Context, item entities.ItemName, flow decimal.Decimal, level int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if w.onPath[item] {
		return fmt.Errorf("%w: %s", entities.ErrCyclicRecipe, w.describeCycle(item))
	}

	recipe, err := w.aggregator.recipes.GetRecipe(item)
	if err != nil {
		return err
	}

	kind := w.req.Tiers.Apply(recipe.Building)
	building, err := w.aggregator.buildings.GetBuilding(kind)
	if err != nil {
		return fmt.Errorf("%w (required by %s)", err, item)
	}

	rates, err := ResolveNode(NodeInput{
		DesiredFlow:     flow,
		RecipeOutput:    recipe.OutputPerCraft,
		Quantities:      recipe.Quantities(),
		CraftTime:       recipe.CraftTime,
		SpeedMultiplier: building.SpeedMultiplier,
		Boost:           w.req.Boost,
		FixedIntake:     building.FixedIntake,
	})
	if err != nil {
		return fmt.Errorf("%w (recipe %s)", err, item)
	}

	result := entities.NodeResult{
		Building:          building.Name,
		BuildingsRequired: rates.BuildingsRequired,
		FixedIntake:       building.FixedIntake,
		Consumption:       make([]entities.IngredientFlow, len(recipe.Ingredients)),
	}
	for i, ing := range recipe.Ingredients {
		result.Consumption[i] = entities.IngredientFlow{Name: ing.Name, Rate: rates.Consumption[i]}
	}
	w.totals.AddNode(result)

	if w.observer != nil {
		err := w.observer.VisitNode(ctx, NodeContext{
			Item:        item,
			Recipe:      recipe,
			DesiredFlow: flow,
			Level:       level,
			Rates:       rates,
			Result:      result,
		})
		if err != nil {
			return fmt.Errorf("observer failed at %s: %w", item, err)
		}
	}

	w.onPath[item] = true
	w.path = append(w.path, item)
	defer func() {
		w.path = w.path[:len(w.path)-1]
		delete(w.onPath, item)
	}()

	for _, consumed := range result.Consumption {
		if !w.aggregator.recipes.HasRecipe(consumed.Name) {
			continue // raw resource
		}
		if !consumed.Rate.IsPositive() {
			continue
		}
		if err := w.resolveItem(ctx, consumed.Name, consumed.Rate, level+1); err != nil {
			return err
		}
	}

	return nil
}

// describeCycle renders the current path from the first occurrence of item, closed
// with item itself, e.g. "a -> b -> a"
func (w *treeWalk) describeCycle(item entities.ItemName) string {
	start := 0
	for i, p := range w.path {
		if p == item {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(w.path)-start+1)
	for _, p := range w.path[start:] {
		parts = append(parts, string(p))
	}
	parts = append(parts, string(item))
	return strings.Join(parts, " -> ")
}
