package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/application/services/planner"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/domain/services"
	"github.com/vsinha/factoryplan/pkg/infrastructure/catalog"
	"github.com/vsinha/factoryplan/pkg/infrastructure/events"
	"github.com/vsinha/factoryplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command
type Config struct {
	Items       []string
	Flow        string
	Tiers       entities.TierSelection
	Boost       entities.BoostLevel
	CatalogPath string
	CacheSize   int
	OutputDir   string
	Format      string
	Verbose     bool
	Breakdown   bool
	ShowItems   bool
	DumpCatalog string
	ShowEvents  bool
	Help        bool

	Stdout io.Writer
	Logger *slog.Logger
}

// PlanCommand resolves production targets against a catalog and prints the plan
type PlanCommand struct {
	config Config
	stdout io.Writer
	logger *slog.Logger
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	stdout := config.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanCommand{
		config: config,
		stdout: stdout,
		logger: logger,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}

	if c.config.ShowItems {
		c.showItems(cat)
		return nil
	}

	if c.config.DumpCatalog != "" {
		return catalog.Encode(c.stdout, cat, catalog.Format(c.config.DumpCatalog))
	}

	requests, err := c.buildRequests()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if err := c.validateCatalog(cat, requests); err != nil {
		return err
	}

	store := events.NewInMemoryEventStore(c.logger)
	svc, err := planner.NewService(
		planner.NewAggregator(cat.Recipes, cat.Buildings),
		planner.ServiceConfig{MaxCacheEntries: c.config.CacheSize},
		store,
		c.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create planner: %w", err)
	}
	defer svc.Close()

	startTime := time.Now()
	plan, err := svc.PlanAll(ctx, requests)
	planTime := time.Since(startTime)
	if err != nil {
		return err
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Breakdown: c.config.Breakdown,
		PlanTime:  planTime,
		Catalog:   cat.Source,
		Writer:    c.stdout,
	}
	if err := output.Generate(plan, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.ShowEvents {
		recorded, err := svc.Events(plan.ID)
		if err != nil {
			return fmt.Errorf("failed to read plan events: %w", err)
		}
		fmt.Fprintf(c.stdout, "\nEvents:\n")
		for _, e := range recorded {
			fmt.Fprintf(c.stdout, "  %3d  %-20s %s\n", e.Version(), e.Type(), e.Timestamp().Format(time.RFC3339Nano))
		}
	}

	return nil
}

func (c *PlanCommand) loadCatalog() (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if c.config.CatalogPath == "" {
		cat, err = catalog.Builtin()
	} else {
		cat, err = catalog.LoadFile(c.config.CatalogPath)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}

	recipes, _ := cat.Recipes.GetAllRecipes()
	buildings, _ := cat.Buildings.GetAllBuildings()
	c.logger.Debug("catalog loaded",
		slog.String("source", cat.Source),
		slog.Int("recipes", len(recipes)),
		slog.Int("buildings", len(buildings)))

	return cat, nil
}

// buildRequests turns the item list into one request per target, all sharing
// the same flow, tiers and boost level
func (c *PlanCommand) buildRequests() ([]entities.Request, error) {
	var items []string
	for _, item := range c.config.Items {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("must specify -item (use -show-items to list the items of the catalog)")
	}

	flow, err := decimal.NewFromString(strings.TrimSpace(c.config.Flow))
	if err != nil {
		return nil, fmt.Errorf("invalid flow %q: %w", c.config.Flow, err)
	}

	requests := make([]entities.Request, 0, len(items))
	for _, item := range items {
		req, err := entities.NewRequest(entities.ItemName(item), flow, c.config.Tiers, c.config.Boost)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}

	return requests, nil
}

// validateCatalog checks the part of the catalog the requested targets reach
func (c *PlanCommand) validateCatalog(cat *catalog.Catalog, requests []entities.Request) error {
	targets := make([]entities.ItemName, 0, len(requests))
	for _, req := range requests {
		targets = append(targets, req.Item)
	}

	validator := services.NewCatalogValidator()
	recipes := validator.ReachableRecipes(cat.Recipes, targets...)
	result := validator.ValidateCatalog(recipes, cat.Buildings, requests[0].Tiers)
	if err := result.Err(); err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}

	c.logger.Debug("catalog validation passed",
		slog.String("source", cat.Source),
		slog.Int("recipes", len(recipes)))
	return nil
}

func (c *PlanCommand) showItems(cat *catalog.Catalog) {
	fmt.Fprintln(c.stdout, "Implemented items:")
	for _, item := range cat.Recipes.ItemNames() {
		fmt.Fprintln(c.stdout, item)
	}
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Fprintf(c.stdout, `factoryplan - production chain planner

Breaks down the number of buildings and the resource flow needed to produce
one or more items at a given rate.

USAGE:
    factoryplan -item <name>[,<name>...] [options]
    factoryplan -show-items

OPTIONS:
    -item <names>       Target item(s), comma separated
    -flow <rate>        Items per second to produce for each target (default: 30)
    -assembler <tier>   Assembler tier, 1-3 (default: 3)
    -smelter <tier>     Smelter tier, 1-2 (default: 2)
    -boost <level>      Proliferator level, 0-3 (default: 3)
    -catalog <path>     Catalog file (.yaml, .yml, .json) or directory with
                        recipes.csv and buildings.csv (default: builtin)
    -format <fmt>       Output format: text, json, csv (default: text)
    -output <dir>       Output directory for results (required for csv)
    -breakdown          Print the per-node breakdown
    -verbose            Enable verbose output and debug logging
    -show-items         List the items of the catalog
    -dump-catalog <fmt> Print the catalog as yaml or json
    -events             Print the events recorded while planning
    -help               Show this help message

ENVIRONMENT:
    FACTORYPLAN_CATALOG, FACTORYPLAN_FLOW, FACTORYPLAN_ASSEMBLER_TIER,
    FACTORYPLAN_SMELTER_TIER, FACTORYPLAN_BOOST_LEVEL, FACTORYPLAN_CACHE_SIZE,
    FACTORYPLAN_LOG_LEVEL, FACTORYPLAN_LOG_FORMAT (also read from .env)

EXAMPLES:
    # Blue science at 60/s with the per-node breakdown
    factoryplan -item blue_cube -flow 60 -breakdown

    # Two targets without proliferator, early-game buildings
    factoryplan -item red_cube,blue_cube -flow 1 -boost 0 -assembler 1 -smelter 1

    # JSON results written to a directory
    factoryplan -item antimatter -format json -output results/
`)
}
