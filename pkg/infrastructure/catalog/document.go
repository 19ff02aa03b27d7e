package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// Document is the serialized form of a catalog, shared by YAML and JSON
type Document struct {
	Buildings []BuildingSpec `yaml:"buildings" json:"buildings" validate:"min=1,unique=Name,dive"`
	Recipes   []RecipeSpec   `yaml:"recipes" json:"recipes" validate:"min=1,unique=Item,dive"`
}

// BuildingSpec describes one concrete building kind, e.g. assembler3
type BuildingSpec struct {
	Name        string          `yaml:"name" json:"name" validate:"required,max=100"`
	Speed       decimal.Decimal `yaml:"speed" json:"speed"`
	FixedIntake bool            `yaml:"fixed_intake,omitempty" json:"fixed_intake,omitempty"`
}

// RecipeSpec describes one recipe. Building may be a tier family such as
// "assembler" or a concrete kind.
type RecipeSpec struct {
	Item        string          `yaml:"item" json:"item" validate:"required,max=100"`
	Building    string          `yaml:"building" json:"building" validate:"required,max=100"`
	Ingredients []string        `yaml:"ingredients" json:"ingredients" validate:"dive,ingredient"`
	CraftTime   decimal.Decimal `yaml:"craft_time" json:"craft_time"`
	Output      decimal.Decimal `yaml:"output" json:"output"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their document names rather than Go names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("ingredient", validateIngredient)

	return v
}

func validateIngredient(fl validator.FieldLevel) bool {
	_, err := entities.ParseIngredient(fl.Field().String())
	return err == nil
}

// Validate checks the structure of the document: required fields, unique
// names and well-formed ingredient strings. Numeric ranges are checked when
// the entities are built.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError flattens validator errors into one readable error
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.TrimPrefix(e.Namespace(), "Document.")
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must have at least %s entries", field, e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		case "unique":
			messages = append(messages, fmt.Sprintf("%s must have unique %s values", field, strings.ToLower(e.Param())))
		case "ingredient":
			messages = append(messages, fmt.Sprintf("%s %q must be \"<quantity> <name>\"", field, e.Value()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", field, e.Tag()))
		}
	}

	return fmt.Errorf("invalid catalog: %s", strings.Join(messages, "; "))
}

// Entities converts a validated document into catalog entities
func (d *Document) Entities() ([]*entities.Recipe, []*entities.Building, error) {
	buildings := make([]*entities.Building, 0, len(d.Buildings))
	for _, spec := range d.Buildings {
		building, err := entities.NewBuilding(spec.Name, spec.Speed, spec.FixedIntake)
		if err != nil {
			return nil, nil, fmt.Errorf("building %s: %w", spec.Name, err)
		}
		buildings = append(buildings, building)
	}

	recipes := make([]*entities.Recipe, 0, len(d.Recipes))
	for _, spec := range d.Recipes {
		ingredients := make([]entities.Ingredient, 0, len(spec.Ingredients))
		for _, raw := range spec.Ingredients {
			ingredient, err := entities.ParseIngredient(raw)
			if err != nil {
				return nil, nil, fmt.Errorf("recipe %s: %w", spec.Item, err)
			}
			ingredients = append(ingredients, *ingredient)
		}

		recipe, err := entities.NewRecipe(entities.ItemName(spec.Item), spec.Building, ingredients, spec.CraftTime, spec.Output)
		if err != nil {
			return nil, nil, fmt.Errorf("recipe %s: %w", spec.Item, err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, buildings, nil
}

// NewDocument renders catalog entities back into a document
func NewDocument(recipes []*entities.Recipe, buildings []*entities.Building) *Document {
	doc := &Document{
		Buildings: make([]BuildingSpec, 0, len(buildings)),
		Recipes:   make([]RecipeSpec, 0, len(recipes)),
	}

	for _, b := range buildings {
		doc.Buildings = append(doc.Buildings, BuildingSpec{
			Name:        b.Name,
			Speed:       b.SpeedMultiplier,
			FixedIntake: b.FixedIntake,
		})
	}

	for _, r := range recipes {
		ingredients := make([]string, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			ingredients = append(ingredients, ing.String())
		}
		doc.Recipes = append(doc.Recipes, RecipeSpec{
			Item:        string(r.Item),
			Building:    r.Building,
			Ingredients: ingredients,
			CraftTime:   r.CraftTime,
			Output:      r.OutputPerCraft,
		})
	}

	return doc
}
