package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/vsinha/factoryplan/pkg/infrastructure/config"
	"github.com/vsinha/factoryplan/pkg/infrastructure/logging"
	"github.com/vsinha/factoryplan/pkg/interfaces/cli/commands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Command line flags override environment configuration
	var (
		items       = flag.String("item", "", "Target item(s), comma separated")
		flow        = flag.String("flow", cfg.Flow.String(), "Items per second to produce for each target")
		assembler   = flag.Int("assembler", cfg.AssemblerTier, "Assembler tier, one of 1, 2, 3")
		smelter     = flag.Int("smelter", cfg.SmelterTier, "Smelter tier, one of 1, 2")
		boost       = flag.Int("boost", cfg.BoostLevel, "Proliferator level, one of 0, 1, 2, 3")
		catalogPath = flag.String("catalog", cfg.CatalogPath, "Catalog file or CSV directory (default: builtin)")
		outputDir   = flag.String("output", "", "Output directory for results (optional)")
		format      = flag.String("format", "text", "Output format: text, json, csv")
		verbose     = flag.Bool("verbose", false, "Enable verbose output")
		breakdown   = flag.Bool("breakdown", false, "Print the per-node breakdown")
		showItems   = flag.Bool("show-items", false, "Show a list of item names")
		dumpCatalog = flag.String("dump-catalog", "", "Print the catalog as yaml or json")
		showEvents  = flag.Bool("events", false, "Print the events recorded while planning")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	cfg.AssemblerTier = *assembler
	cfg.SmelterTier = *smelter
	cfg.BoostLevel = *boost
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logConfig := cfg.Logging()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.Init(logConfig, os.Stderr)

	// Create command configuration
	commandConfig := commands.Config{
		Items:       strings.Split(*items, ","),
		Flow:        *flow,
		Tiers:       cfg.Tiers(),
		Boost:       cfg.Boost(),
		CatalogPath: *catalogPath,
		CacheSize:   cfg.CacheSize,
		OutputDir:   *outputDir,
		Format:      *format,
		Verbose:     *verbose,
		Breakdown:   *breakdown,
		ShowItems:   *showItems,
		DumpCatalog: *dumpCatalog,
		ShowEvents:  *showEvents,
		Help:        *help,
		Stdout:      os.Stdout,
		Logger:      logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := commands.NewPlanCommand(commandConfig)
	if err := cmd.Execute(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
