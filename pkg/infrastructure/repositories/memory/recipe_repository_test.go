package memory

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

func newRecipe(t *testing.T, item entities.ItemName, building string, ingredients ...string) *entities.Recipe {
	t.Helper()
	var parsed []entities.Ingredient
	for _, s := range ingredients {
		ing, err := entities.ParseIngredient(s)
		require.NoError(t, err)
		parsed = append(parsed, *ing)
	}
	recipe, err := entities.NewRecipe(item, building, parsed, decimal.NewFromInt(1), decimal.NewFromInt(1))
	require.NoError(t, err)
	return recipe
}

func TestRecipeRepository_SaveAndGet(t *testing.T) {
	repo := NewRecipeRepository(4)

	err := repo.SaveRecipe(newRecipe(t, "gear", "assembler", "1 iron_ingot"))
	require.NoError(t, err)

	recipe, err := repo.GetRecipe("gear")
	require.NoError(t, err)
	assert.Equal(t, "assembler", recipe.Building)
	assert.Equal(t, entities.ItemName("iron_ingot"), recipe.Ingredients[0].Name)

	assert.True(t, repo.HasRecipe("gear"))
	assert.False(t, repo.HasRecipe("iron_ingot"))
}

func TestRecipeRepository_SaveRecipe_Duplicate(t *testing.T) {
	repo := NewRecipeRepository(4)
	require.NoError(t, repo.SaveRecipe(newRecipe(t, "gear", "assembler", "1 iron_ingot")))

	err := repo.SaveRecipe(newRecipe(t, "gear", "smelter", "2 iron_ore"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate recipe")

	// Original recipe is unchanged
	recipe, err := repo.GetRecipe("gear")
	require.NoError(t, err)
	assert.Equal(t, "assembler", recipe.Building)
}

func TestRecipeRepository_LoadRecipes_WithDuplicates(t *testing.T) {
	repo := NewRecipeRepository(4)

	err := repo.LoadRecipes([]*entities.Recipe{
		newRecipe(t, "gear", "assembler", "1 iron_ingot"),
		newRecipe(t, "magnet", "smelter", "1 iron_ore"),
		newRecipe(t, "gear", "assembler", "2 iron_ingot"),
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "duplicate recipes found"))
	assert.True(t, strings.Contains(err.Error(), "gear"))

	// Nothing is stored when the batch is rejected
	assert.False(t, repo.HasRecipe("magnet"))
}

func TestRecipeRepository_GetRecipe_NotFound(t *testing.T) {
	repo := NewRecipeRepository(0)

	_, err := repo.GetRecipe("iron_ore")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrUnknownItem))
	assert.Equal(t, "unknown item: no recipe for iron_ore", err.Error())
}

func TestRecipeRepository_ItemNamesSorted(t *testing.T) {
	repo := NewRecipeRepository(3)
	require.NoError(t, repo.LoadRecipes([]*entities.Recipe{
		newRecipe(t, "magnet", "smelter", "1 iron_ore"),
		newRecipe(t, "gear", "assembler", "1 iron_ingot"),
		newRecipe(t, "circuit_board", "assembler", "2 iron_ingot", "1 copper_ingot"),
	}))

	assert.Equal(t, []entities.ItemName{"circuit_board", "gear", "magnet"}, repo.ItemNames())

	all, err := repo.GetAllRecipes()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, entities.ItemName("magnet"), all[0].Item)
}
