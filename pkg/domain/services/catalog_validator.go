package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/domain/repositories"
)

// CatalogValidator checks a recipe catalog for problems that would otherwise
// only surface when a target happens to reach them
type CatalogValidator struct{}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator() *CatalogValidator {
	return &CatalogValidator{}
}

// MissingBuilding is a recipe whose building kind, after tier substitution,
// is absent from the building catalog
type MissingBuilding struct {
	Item entities.ItemName
	Kind string
}

// ValidationResult contains the results of catalog validation
type ValidationResult struct {
	HasCycles        bool
	CyclePaths       [][]entities.ItemName
	DuplicateItems   []entities.ItemName
	MissingBuildings []MissingBuilding
	Errors           []string
}

// Valid reports whether no problem was found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid catalog, otherwise one error per problem joined
// together. Cycles match entities.ErrCyclicRecipe and missing kinds match
// entities.ErrUnknownBuildingKind.
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}

	errs := make([]error, 0, len(r.Errors))
	for _, cycle := range r.CyclePaths {
		errs = append(errs, fmt.Errorf("%w: %s", entities.ErrCyclicRecipe, formatPath(cycle)))
	}
	for _, item := range r.DuplicateItems {
		errs = append(errs, fmt.Errorf("duplicate recipe for item %s", item))
	}
	for _, missing := range r.MissingBuildings {
		errs = append(errs, fmt.Errorf("%w: %s (required by %s)", entities.ErrUnknownBuildingKind, missing.Kind, missing.Item))
	}
	return errors.Join(errs...)
}

// ValidateCatalog validates recipes against each other and against the
// building catalog for every tier selection given
func (v *CatalogValidator) ValidateCatalog(
	recipes []*entities.Recipe,
	buildings repositories.BuildingRepository,
	tierSelections ...entities.TierSelection,
) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:       make([][]entities.ItemName, 0),
		DuplicateItems:   make([]entities.ItemName, 0),
		MissingBuildings: make([]MissingBuilding, 0),
		Errors:           make([]string, 0),
	}

	result.DuplicateItems = v.detectDuplicateItems(recipes)

	adjacencyMap := v.buildAdjacencyMap(recipes)
	result.CyclePaths = v.detectCycles(adjacencyMap)
	result.HasCycles = len(result.CyclePaths) > 0

	if buildings != nil {
		result.MissingBuildings = v.detectMissingBuildings(recipes, buildings, tierSelections)
	}

	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("recipe cycle detected: %s", formatPath(cycle)))
	}
	if len(result.DuplicateItems) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("duplicate recipes found: %v", result.DuplicateItems))
	}
	for _, missing := range result.MissingBuildings {
		result.Errors = append(result.Errors, fmt.Sprintf("unknown building kind %s required by %s", missing.Kind, missing.Item))
	}

	return result
}

// ReachableRecipes returns the recipes reachable from targets, in breadth-first
// order. Targets and ingredients without a recipe are skipped.
func (v *CatalogValidator) ReachableRecipes(recipes repositories.RecipeRepository, targets ...entities.ItemName) []*entities.Recipe {
	seen := make(map[entities.ItemName]bool)
	queue := append([]entities.ItemName(nil), targets...)
	reachable := make([]*entities.Recipe, 0)

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if seen[item] {
			continue
		}
		seen[item] = true

		recipe, err := recipes.GetRecipe(item)
		if err != nil {
			continue
		}
		reachable = append(reachable, recipe)
		for _, ing := range recipe.Ingredients {
			if !seen[ing.Name] {
				queue = append(queue, ing.Name)
			}
		}
	}

	return reachable
}

// buildAdjacencyMap maps each craftable item to its craftable ingredients.
// Raw materials are leaves and never take part in a cycle.
func (v *CatalogValidator) buildAdjacencyMap(recipes []*entities.Recipe) map[entities.ItemName][]entities.ItemName {
	craftable := make(map[entities.ItemName]bool, len(recipes))
	for _, recipe := range recipes {
		craftable[recipe.Item] = true
	}

	adjacencyMap := make(map[entities.ItemName][]entities.ItemName, len(recipes))
	for _, recipe := range recipes {
		if _, exists := adjacencyMap[recipe.Item]; exists {
			continue
		}
		children := make([]entities.ItemName, 0, len(recipe.Ingredients))
		for _, ing := range recipe.Ingredients {
			if craftable[ing.Name] {
				children = append(children, ing.Name)
			}
		}
		adjacencyMap[recipe.Item] = children
	}

	return adjacencyMap
}

// detectCycles runs a DFS from every item in name order so results are stable
func (v *CatalogValidator) detectCycles(adjacencyMap map[entities.ItemName][]entities.ItemName) [][]entities.ItemName {
	visited := make(map[entities.ItemName]bool)
	onStack := make(map[entities.ItemName]bool)
	cycles := make([][]entities.ItemName, 0)

	items := make([]entities.ItemName, 0, len(adjacencyMap))
	for item := range adjacencyMap {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	for _, item := range items {
		if !visited[item] {
			v.dfsDetectCycle(item, adjacencyMap, visited, onStack, nil, &cycles)
		}
	}

	return cycles
}

func (v *CatalogValidator) dfsDetectCycle(
	current entities.ItemName,
	adjacencyMap map[entities.ItemName][]entities.ItemName,
	visited map[entities.ItemName]bool,
	onStack map[entities.ItemName]bool,
	path []entities.ItemName,
	cycles *[][]entities.ItemName,
) {
	visited[current] = true
	onStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, onStack, path, cycles)
			continue
		}
		if !onStack[child] {
			continue
		}

		for i, item := range path {
			if item == child {
				cycle := make([]entities.ItemName, 0, len(path)-i+1)
				cycle = append(cycle, path[i:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
				break
			}
		}
	}

	onStack[current] = false
}

func (v *CatalogValidator) detectDuplicateItems(recipes []*entities.Recipe) []entities.ItemName {
	seen := make(map[entities.ItemName]int, len(recipes))
	duplicates := make([]entities.ItemName, 0)

	for _, recipe := range recipes {
		seen[recipe.Item]++
		if seen[recipe.Item] == 2 {
			duplicates = append(duplicates, recipe.Item)
		}
	}

	return duplicates
}

func (v *CatalogValidator) detectMissingBuildings(
	recipes []*entities.Recipe,
	buildings repositories.BuildingRepository,
	tierSelections []entities.TierSelection,
) []MissingBuilding {
	if len(tierSelections) == 0 {
		tierSelections = []entities.TierSelection{nil}
	}

	seen := make(map[MissingBuilding]bool)
	missing := make([]MissingBuilding, 0)

	for _, recipe := range recipes {
		for _, tiers := range tierSelections {
			kind := tiers.Apply(recipe.Building)
			if _, err := buildings.GetBuilding(kind); err == nil {
				continue
			}
			entry := MissingBuilding{Item: recipe.Item, Kind: kind}
			if !seen[entry] {
				seen[entry] = true
				missing = append(missing, entry)
			}
		}
	}

	return missing
}

func formatPath(path []entities.ItemName) string {
	parts := make([]string, len(path))
	for i, item := range path {
		parts[i] = string(item)
	}
	return strings.Join(parts, " -> ")
}
