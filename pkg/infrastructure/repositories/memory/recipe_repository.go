package memory

import (
	"fmt"
	"sort"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/domain/repositories"
)

// RecipeRepository provides in-memory recipe storage keyed by item name
type RecipeRepository struct {
	recipes    []entities.Recipe
	recipesMap map[entities.ItemName]int
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository(expectedRecipes int) *RecipeRepository {
	return &RecipeRepository{
		recipes:    make([]entities.Recipe, 0, expectedRecipes),
		recipesMap: make(map[entities.ItemName]int, expectedRecipes),
	}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipes loads recipes into the repository. Duplicate items are rejected
// before anything is stored.
func (r *RecipeRepository) LoadRecipes(recipes []*entities.Recipe) error {
	seen := make(map[entities.ItemName]bool, len(recipes))
	var duplicates []entities.ItemName
	for _, recipe := range recipes {
		if seen[recipe.Item] || r.HasRecipe(recipe.Item) {
			duplicates = append(duplicates, recipe.Item)
		}
		seen[recipe.Item] = true
	}
	if len(duplicates) > 0 {
		return fmt.Errorf("duplicate recipes found: %v", duplicates)
	}

	for _, recipe := range recipes {
		r.addRecipe(*recipe)
	}
	return nil
}

// SaveRecipe saves a single recipe
func (r *RecipeRepository) SaveRecipe(recipe *entities.Recipe) error {
	if r.HasRecipe(recipe.Item) {
		return fmt.Errorf("duplicate recipe for item %s", recipe.Item)
	}
	r.addRecipe(*recipe)
	return nil
}

func (r *RecipeRepository) addRecipe(recipe entities.Recipe) {
	r.recipesMap[recipe.Item] = len(r.recipes)
	r.recipes = append(r.recipes, recipe)
}

// GetRecipe returns the recipe producing item
func (r *RecipeRepository) GetRecipe(item entities.ItemName) (*entities.Recipe, error) {
	index, exists := r.recipesMap[item]
	if !exists {
		return nil, fmt.Errorf("%w: no recipe for %s", entities.ErrUnknownItem, item)
	}
	return &r.recipes[index], nil
}

// HasRecipe reports whether item is craftable
func (r *RecipeRepository) HasRecipe(item entities.ItemName) bool {
	_, exists := r.recipesMap[item]
	return exists
}

// GetAllRecipes returns all recipes in insertion order
func (r *RecipeRepository) GetAllRecipes() ([]*entities.Recipe, error) {
	recipes := make([]*entities.Recipe, 0, len(r.recipes))
	for i := range r.recipes {
		recipes = append(recipes, &r.recipes[i])
	}
	return recipes, nil
}

// ItemNames returns the craftable item names sorted alphabetically
func (r *RecipeRepository) ItemNames() []entities.ItemName {
	names := make([]entities.ItemName, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		names = append(names, recipe.Item)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
