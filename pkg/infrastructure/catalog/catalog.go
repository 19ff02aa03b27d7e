// Package catalog loads recipe and building catalogs from YAML, JSON or CSV
// files and carries the builtin game catalog.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	csvrepo "github.com/vsinha/factoryplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/factoryplan/pkg/infrastructure/repositories/memory"
)

// Format is a catalog serialization format
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"

	// BuiltinSource names the embedded catalog
	BuiltinSource = "builtin"

	// File names expected inside a CSV catalog directory
	RecipesCSV   = "recipes.csv"
	BuildingsCSV = "buildings.csv"
)

//go:embed data/builtin.yaml
var builtinYAML []byte

// Catalog is a loaded recipe catalog and building speed catalog
type Catalog struct {
	Recipes   *memory.RecipeRepository
	Buildings *memory.BuildingRepository
	Source    string
}

// New loads recipes and buildings into fresh in-memory repositories
func New(recipes []*entities.Recipe, buildings []*entities.Building, source string) (*Catalog, error) {
	recipeRepo := memory.NewRecipeRepository(len(recipes))
	if err := recipeRepo.LoadRecipes(recipes); err != nil {
		return nil, fmt.Errorf("failed to load recipes from %s: %w", source, err)
	}

	buildingRepo := memory.NewBuildingRepository(len(buildings))
	if err := buildingRepo.LoadBuildings(buildings); err != nil {
		return nil, fmt.Errorf("failed to load buildings from %s: %w", source, err)
	}

	return &Catalog{
		Recipes:   recipeRepo,
		Buildings: buildingRepo,
		Source:    source,
	}, nil
}

// Builtin returns the embedded game catalog
func Builtin() (*Catalog, error) {
	return Parse(builtinYAML, FormatYAML, BuiltinSource)
}

// LoadFile loads a catalog from a .yaml, .yml or .json file, or from a
// directory holding recipes.csv and buildings.csv
func LoadFile(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	if info.IsDir() {
		return loadCSVDir(path)
	}

	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (expected .yaml, .yml, .json or a directory of CSV files)", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	return Parse(data, format, path)
}

// Parse decodes, validates and loads a catalog document. Unknown fields are
// rejected.
func Parse(data []byte, format Format, source string) (*Catalog, error) {
	doc, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", source, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	recipes, buildings, err := doc.Entities()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	return New(recipes, buildings, source)
}

// Decode reads a document without validating it
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(r)
		decoder.KnownFields(true)
		if err := decoder.Decode(&doc); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("empty document")
			}
			return nil, err
		}
	case FormatJSON:
		decoder := json.NewDecoder(r)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	return &doc, nil
}

// Encode writes a catalog as a document in the given format
func Encode(w io.Writer, c *Catalog, format Format) error {
	recipes, err := c.Recipes.GetAllRecipes()
	if err != nil {
		return err
	}
	buildings, err := c.Buildings.GetAllBuildings()
	if err != nil {
		return err
	}
	doc := NewDocument(recipes, buildings)

	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		return encoder.Close()
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported catalog format %q", format)
	}
}

func loadCSVDir(dir string) (*Catalog, error) {
	loader := csvrepo.NewLoader()

	recipes, err := loader.LoadRecipes(filepath.Join(dir, RecipesCSV))
	if err != nil {
		return nil, err
	}
	buildings, err := loader.LoadBuildings(filepath.Join(dir, BuildingsCSV))
	if err != nil {
		return nil, err
	}

	return New(recipes, buildings, dir)
}
