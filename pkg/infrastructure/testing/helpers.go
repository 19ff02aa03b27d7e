package testing

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/repositories/memory"
)

// MustRecipe builds a recipe from catalog shorthand, panicking on invalid input
func MustRecipe(item entities.ItemName, building, craftTime, output string, ingredients ...string) *entities.Recipe {
	parsed := make([]entities.Ingredient, 0, len(ingredients))
	for _, s := range ingredients {
		ing, err := entities.ParseIngredient(s)
		if err != nil {
			panic(err)
		}
		parsed = append(parsed, *ing)
	}

	recipe, err := entities.NewRecipe(
		item,
		building,
		parsed,
		decimal.RequireFromString(craftTime),
		decimal.RequireFromString(output),
	)
	if err != nil {
		panic(err)
	}
	return recipe
}

// MustBuilding builds a building kind, panicking on invalid input
func MustBuilding(name, speed string, fixedIntake bool) *entities.Building {
	b, err := entities.NewBuilding(name, decimal.RequireFromString(speed), fixedIntake)
	if err != nil {
		panic(err)
	}
	return b
}

// StandardBuildings returns the building speed table used by the test catalogs
func StandardBuildings() []*entities.Building {
	return []*entities.Building{
		MustBuilding("assembler1", "0.75", false),
		MustBuilding("assembler2", "1", false),
		MustBuilding("assembler3", "1.5", false),
		MustBuilding("smelter1", "1", false),
		MustBuilding("smelter2", "2", false),
		MustBuilding("matrix lab", "1", false),
		MustBuilding("ray receiver", "1", true),
		MustBuilding("unit", "1", false),
	}
}

// DefaultTiers selects the tiers most tests use
func DefaultTiers() entities.TierSelection {
	return entities.TierSelection{"assembler": 3, "smelter": 2}
}

// BuildCatalog loads recipes and the standard buildings into fresh repositories
func BuildCatalog(recipes ...*entities.Recipe) (*memory.RecipeRepository, *memory.BuildingRepository) {
	recipeRepo := memory.NewRecipeRepository(len(recipes))
	if err := recipeRepo.LoadRecipes(recipes); err != nil {
		panic(err)
	}

	buildings := StandardBuildings()
	buildingRepo := memory.NewBuildingRepository(len(buildings))
	if err := buildingRepo.LoadBuildings(buildings); err != nil {
		panic(err)
	}

	return recipeRepo, buildingRepo
}

// BuildSimpleCatalog builds a single recipe: one "unit" building turns 2 Y into
// 1 X every second
func BuildSimpleCatalog() (*memory.RecipeRepository, *memory.BuildingRepository) {
	return BuildCatalog(
		MustRecipe("X", "unit", "1", "1", "2 Y"),
	)
}

// BuildChainCatalog builds a small multi-level chain in which iron_ingot is
// reached through several branches and critical_photon uses a fixed-intake
// building
func BuildChainCatalog() (*memory.RecipeRepository, *memory.BuildingRepository) {
	return BuildCatalog(
		MustRecipe("iron_ingot", "smelter", "1", "1", "1 iron_ore"),
		MustRecipe("copper_ingot", "smelter", "1", "1", "1 copper_ore"),
		MustRecipe("magnet", "smelter", "1.5", "1", "1 iron_ore"),
		MustRecipe("gear", "assembler", "1", "1", "1 iron_ingot"),
		MustRecipe("magnetic_coil", "assembler", "1", "2", "2 magnet", "1 copper_ingot"),
		MustRecipe("electric_motor", "assembler", "2", "1", "2 iron_ingot", "1 gear", "1 magnetic_coil"),
		MustRecipe("critical_photon", "ray receiver", "60", "12", "240 swarm_sphere_MW"),
		MustRecipe("antimatter", "unit", "2", "2", "2 critical_photon"),
	)
}

// BuildCyclicCatalog builds a catalog in which alpha and beta depend on each other
func BuildCyclicCatalog() (*memory.RecipeRepository, *memory.BuildingRepository) {
	return BuildCatalog(
		MustRecipe("alpha", "unit", "1", "1", "1 beta", "1 ore"),
		MustRecipe("beta", "unit", "1", "1", "1 alpha"),
		MustRecipe("gamma", "unit", "1", "1", "1 alpha"),
	)
}
