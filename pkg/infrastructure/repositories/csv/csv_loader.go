package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// ingredientSeparator separates ingredients inside the ingredients column
const ingredientSeparator = ";"

var (
	recipesHeader   = []string{"item", "building", "ingredients", "craft_time", "output"}
	buildingsHeader = []string{"name", "speed_multiplier", "fixed_intake"}
)

// Loader handles loading catalogs from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadRecipes loads recipes from a CSV file. The ingredients column holds
// "<quantity> <name>" entries separated by ';' and may be empty for recipes
// with no inputs.
func (l *Loader) LoadRecipes(filename string) ([]*entities.Recipe, error) {
	records, err := readRecords(filename, "recipes", recipesHeader)
	if err != nil {
		return nil, err
	}

	var recipes []*entities.Recipe
	for i, record := range records {
		recipe, err := parseRecipe(record)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, nil
}

// LoadBuildings loads building kinds from a CSV file
func (l *Loader) LoadBuildings(filename string) ([]*entities.Building, error) {
	records, err := readRecords(filename, "buildings", buildingsHeader)
	if err != nil {
		return nil, err
	}

	var buildings []*entities.Building
	for i, record := range records {
		building, err := parseBuilding(record)
		if err != nil {
			return nil, fmt.Errorf("buildings CSV row %d: %w", i+2, err)
		}
		buildings = append(buildings, building)
	}

	return buildings, nil
}

// readRecords returns the data rows of a CSV file after checking its header
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseRecipe(record []string) (*entities.Recipe, error) {
	item := entities.ItemName(strings.TrimSpace(record[0]))
	building := strings.TrimSpace(record[1])

	var ingredients []entities.Ingredient
	for _, part := range strings.Split(record[2], ingredientSeparator) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		ingredient, err := entities.ParseIngredient(part)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, *ingredient)
	}

	craftTime, err := decimal.NewFromString(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid craft_time: %s", record[3])
	}

	output, err := decimal.NewFromString(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid output: %s", record[4])
	}

	return entities.NewRecipe(item, building, ingredients, craftTime, output)
}

func parseBuilding(record []string) (*entities.Building, error) {
	name := strings.TrimSpace(record[0])

	speed, err := decimal.NewFromString(strings.TrimSpace(record[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid speed_multiplier: %s", record[1])
	}

	fixedIntake := false
	if raw := strings.TrimSpace(record[2]); raw != "" {
		fixedIntake, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid fixed_intake: %s (expected true or false)", raw)
		}
	}

	return entities.NewBuilding(name, speed, fixedIntake)
}
