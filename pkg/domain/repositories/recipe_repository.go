package repositories

import "github.com/vsinha/factoryplan/pkg/domain/entities"

// RecipeRepository provides access to the recipe catalog
type RecipeRepository interface {
	// GetRecipe returns the recipe producing item, or an error wrapping
	// entities.ErrUnknownItem when the item has no recipe.
	GetRecipe(item entities.ItemName) (*entities.Recipe, error)
	HasRecipe(item entities.ItemName) bool
	GetAllRecipes() ([]*entities.Recipe, error)
	LoadRecipes(recipes []*entities.Recipe) error
}
