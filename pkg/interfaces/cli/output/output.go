package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/factoryplan/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Breakdown bool
	PlanTime  time.Duration
	Catalog   string
	Writer    io.Writer // defaults to os.Stdout
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate creates output in the specified format
func Generate(plan *dto.Plan, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(plan, config)
	case "json":
		return generateJSONOutput(plan, config)
	case "csv":
		return generateCSVOutput(plan, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(plan *dto.Plan, config Config) error {
	var buf bytes.Buffer
	if config.Verbose {
		fmt.Fprintf(&buf, "📊 Plan %s\n", plan.ID)
		fmt.Fprintf(&buf, "  Catalog: %s\n", config.Catalog)
		fmt.Fprintf(&buf, "  Plan Time: %v\n", config.PlanTime)
		fmt.Fprintf(&buf, "  Nodes: %d\n", len(plan.Nodes))
		if plan.Cached {
			fmt.Fprintf(&buf, "  (served from cache)\n")
		}
		fmt.Fprintln(&buf)
	}
	WriteText(&buf, plan, config.Breakdown)

	if _, err := config.writer().Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}

	if config.OutputDir != "" {
		filename, err := saveFile(config.OutputDir, "plan.txt", buf.Bytes())
		if err != nil {
			return err
		}
		if config.Verbose {
			fmt.Fprintf(config.writer(), "💾 Results saved to: %s\n", filename)
		}
	}

	return nil
}

// WriteText renders the plan: an optional per-node breakdown followed by the
// building and ingredient totals
func WriteText(w io.Writer, plan *dto.Plan, breakdown bool) {
	titles := make([]string, 0, len(plan.Requests))
	for _, req := range plan.Requests {
		titles = append(titles, DisplayName(req.Item))
	}
	fmt.Fprintf(w, "Production plan: %s\n", strings.Join(titles, ", "))

	if breakdown {
		for _, node := range plan.Nodes {
			indent := strings.Repeat("  ", node.Level)
			fmt.Fprintf(w, "\n%sTo produce %10s  %25s  per second:\n", indent, node.DesiredFlow.StringFixed(3), node.Item)
			fmt.Fprintf(w, "%s%d %s required\n", indent, node.BuildingsRequired, node.Building)
			fmt.Fprintf(w, "%sWill consume:\n", indent)
			for _, flow := range node.Consumption {
				fmt.Fprintf(w, "%s\t%s: %10s %s\n", indent, flow.Name, flow.Rate.StringFixed(3), timeUnit(!node.FixedIntake))
			}
		}
	}

	report := Rescale(plan.Totals)

	fmt.Fprintf(w, "\nTotals for buildings:\n")
	for _, line := range report.Buildings {
		fmt.Fprintf(w, "\t%10s  %-25s\n", line.Amount.String(), line.Name)
	}

	fmt.Fprintf(w, "\nTotals for ingredients:\n")
	for _, line := range report.Ingredients {
		fmt.Fprintf(w, "\t%10s  %-25s  %s\n", line.Amount.StringFixed(3), line.Name, timeUnit(line.PerSecond))
	}
}

type jsonRequest struct {
	Item  string         `json:"item"`
	Flow  string         `json:"flow"`
	Tiers map[string]int `json:"tiers"`
	Boost int            `json:"boost"`
}

type jsonFlow struct {
	Name      string `json:"name"`
	Rate      string `json:"rate"`
	PerSecond bool   `json:"per_second"`
}

type jsonNode struct {
	Item              string     `json:"item"`
	Level             int        `json:"level"`
	DesiredFlow       string     `json:"desired_flow"`
	Building          string     `json:"building"`
	BuildingsRequired int64      `json:"buildings_required"`
	Consumption       []jsonFlow `json:"consumption"`
}

type jsonPlan struct {
	PlanID     string        `json:"plan_id"`
	ComputedAt time.Time     `json:"computed_at"`
	Cached     bool          `json:"cached"`
	Requests   []jsonRequest `json:"requests"`
	Report     Report        `json:"totals"`
	Nodes      []jsonNode    `json:"nodes,omitempty"`
}

func toJSONPlan(plan *dto.Plan, breakdown bool) jsonPlan {
	out := jsonPlan{
		PlanID:     plan.ID.String(),
		ComputedAt: plan.ComputedAt,
		Cached:     plan.Cached,
		Requests:   make([]jsonRequest, 0, len(plan.Requests)),
		Report:     Rescale(plan.Totals),
	}

	for _, req := range plan.Requests {
		out.Requests = append(out.Requests, jsonRequest{
			Item:  string(req.Item),
			Flow:  req.DesiredFlow.String(),
			Tiers: req.Tiers,
			Boost: int(req.Boost),
		})
	}

	if breakdown {
		for _, node := range plan.Nodes {
			consumption := make([]jsonFlow, 0, len(node.Consumption))
			for _, flow := range node.Consumption {
				consumption = append(consumption, jsonFlow{
					Name:      string(flow.Name),
					Rate:      flow.Rate.String(),
					PerSecond: !node.FixedIntake,
				})
			}
			out.Nodes = append(out.Nodes, jsonNode{
				Item:              string(node.Item),
				Level:             node.Level,
				DesiredFlow:       node.DesiredFlow.String(),
				Building:          node.Building,
				BuildingsRequired: node.BuildingsRequired,
				Consumption:       consumption,
			})
		}
	}

	return out
}

// generateJSONOutput creates JSON output
func generateJSONOutput(plan *dto.Plan, config Config) error {
	jsonData, err := json.MarshalIndent(toJSONPlan(plan, config.Breakdown), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	filename, err := saveFile(config.OutputDir, "plan.json", jsonData)
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 JSON results saved to: %s\n", filename)
	}

	return nil
}

// generateCSVOutput creates one CSV file per table
func generateCSVOutput(plan *dto.Plan, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	report := Rescale(plan.Totals)

	buildingsFile := filepath.Join(config.OutputDir, "buildings.csv")
	if err := writeBuildingsCSV(report.Buildings, buildingsFile); err != nil {
		return fmt.Errorf("failed to write buildings CSV: %w", err)
	}

	ingredientsFile := filepath.Join(config.OutputDir, "ingredients.csv")
	if err := writeIngredientsCSV(report.Ingredients, ingredientsFile); err != nil {
		return fmt.Errorf("failed to write ingredients CSV: %w", err)
	}

	nodesFile := filepath.Join(config.OutputDir, "nodes.csv")
	if err := writeNodesCSV(plan.Nodes, nodesFile); err != nil {
		return fmt.Errorf("failed to write nodes CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 CSV results saved to:\n")
		fmt.Fprintf(config.writer(), "  Buildings: %s\n", buildingsFile)
		fmt.Fprintf(config.writer(), "  Ingredients: %s\n", ingredientsFile)
		fmt.Fprintf(config.writer(), "  Nodes: %s\n", nodesFile)
	}

	return nil
}

func writeBuildingsCSV(lines []Line, filename string) error {
	records := [][]string{{"building", "count"}}
	for _, line := range lines {
		records = append(records, []string{line.Name, line.Amount.String()})
	}
	return writeCSV(filename, records)
}

func writeIngredientsCSV(lines []Line, filename string) error {
	records := [][]string{{"ingredient", "amount", "unit"}}
	for _, line := range lines {
		unit := "per_second"
		if !line.PerSecond {
			unit = ""
		}
		records = append(records, []string{line.Name, line.Amount.String(), unit})
	}
	return writeCSV(filename, records)
}

func writeNodesCSV(nodes []dto.NodeReport, filename string) error {
	records := [][]string{{"level", "item", "desired_flow", "building", "buildings_required", "consumption"}}
	for _, node := range nodes {
		consumption := make([]string, 0, len(node.Consumption))
		for _, flow := range node.Consumption {
			consumption = append(consumption, fmt.Sprintf("%s %s", flow.Rate.String(), flow.Name))
		}
		records = append(records, []string{
			strconv.Itoa(node.Level),
			string(node.Item),
			node.DesiredFlow.String(),
			node.Building,
			strconv.FormatInt(node.BuildingsRequired, 10),
			strings.Join(consumption, ";"),
		})
	}
	return writeCSV(filename, records)
}

func writeCSV(filename string, records [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return file.Close()
}

func saveFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
