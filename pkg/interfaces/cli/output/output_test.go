package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factoryplan/pkg/application/dto"
	"github.com/vsinha/factoryplan/pkg/application/services/planner"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	testhelpers "github.com/vsinha/factoryplan/pkg/infrastructure/testing"
)

func antimatterPlan(t *testing.T) *dto.Plan {
	t.Helper()
	recipes, buildings := testhelpers.BuildChainCatalog()
	svc, err := planner.NewService(planner.NewAggregator(recipes, buildings), planner.ServiceConfig{}, nil, nil)
	require.NoError(t, err)

	plan, err := svc.Plan(context.Background(), entities.Request{
		Item:        "antimatter",
		DesiredFlow: decimal.NewFromInt(1),
		Tiers:       testhelpers.DefaultTiers(),
		Boost:       entities.BoostNone,
	})
	require.NoError(t, err)
	return plan
}

func TestRescale(t *testing.T) {
	totals := entities.NewTotals()
	totals.AddNode(entities.NodeResult{
		Building:          "ray receiver",
		BuildingsRequired: 5,
		FixedIntake:       true,
		Consumption:       []entities.IngredientFlow{{Name: SwarmPowerMW, Rate: decimal.NewFromInt(1200)}},
	})
	totals.AddNode(entities.NodeResult{
		Building:          "unit",
		BuildingsRequired: 1,
		Consumption:       []entities.IngredientFlow{{Name: "critical_photon", Rate: decimal.NewFromInt(1)}},
	})

	report := Rescale(totals)

	require.Len(t, report.Buildings, 2)
	assert.Equal(t, "ray receiver", report.Buildings[0].Name)
	assert.Equal(t, "unit", report.Buildings[1].Name)

	require.Len(t, report.Ingredients, 2)
	assert.Equal(t, "critical_photon", report.Ingredients[0].Name)
	assert.True(t, report.Ingredients[0].PerSecond)

	gw := report.Ingredients[1]
	assert.Equal(t, string(SwarmPowerGW), gw.Name)
	assert.True(t, gw.Amount.Equal(decimal.RequireFromString("1.2")))
	assert.False(t, gw.PerSecond)

	// the core totals keep the unscaled value
	assert.True(t, totals.Ingredients[SwarmPowerMW].Equal(decimal.NewFromInt(1200)))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Critical Photon", DisplayName("critical_photon"))
	assert.Equal(t, "Swarm Sphere MW", DisplayName(SwarmPowerMW))
	assert.Equal(t, "Gear", DisplayName("gear"))
}

func TestGenerate_Text(t *testing.T) {
	plan := antimatterPlan(t)
	var buf bytes.Buffer

	require.NoError(t, Generate(plan, Config{Format: "text", Breakdown: true, Writer: &buf}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Production plan: Antimatter\n"))
	assert.Contains(t, out, "To produce      1.000                 antimatter  per second:")
	assert.Contains(t, out, "\n1 unit required\n")
	assert.Contains(t, out, "\n  5 ray receiver required\n")
	assert.Contains(t, out, "swarm_sphere_MW:   1200.000")
	assert.NotContains(t, out, "1200.000 per second")

	assert.Contains(t, out, "Totals for buildings:\n\t         5  ray receiver")
	assert.Contains(t, out, "     1.000  critical_photon            per second")
	assert.Contains(t, out, "     1.200  swarm_sphere_GW")
	assert.NotContains(t, out, "swarm_sphere_GW            per second")
}

func TestGenerate_TextWithoutBreakdown(t *testing.T) {
	plan := antimatterPlan(t)
	var buf bytes.Buffer

	require.NoError(t, Generate(plan, Config{Format: "text", Writer: &buf}))

	assert.NotContains(t, buf.String(), "To produce")
	assert.Contains(t, buf.String(), "Totals for ingredients:")
}

func TestGenerate_TextSavedToFile(t *testing.T) {
	plan := antimatterPlan(t)
	dir := filepath.Join(t.TempDir(), "results")
	var buf bytes.Buffer

	require.NoError(t, Generate(plan, Config{Format: "text", OutputDir: dir, Verbose: true, Catalog: "test", Writer: &buf}))

	saved, err := os.ReadFile(filepath.Join(dir, "plan.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "Catalog: test")
	assert.Contains(t, buf.String(), "Results saved to:")
}

func TestGenerate_JSON(t *testing.T) {
	plan := antimatterPlan(t)
	var buf bytes.Buffer

	require.NoError(t, Generate(plan, Config{Format: "json", Breakdown: true, Writer: &buf}))

	var decoded struct {
		PlanID   string `json:"plan_id"`
		Requests []struct {
			Item string `json:"item"`
			Flow string `json:"flow"`
		} `json:"requests"`
		Totals struct {
			Ingredients []struct {
				Name      string `json:"name"`
				Amount    string `json:"amount"`
				PerSecond bool   `json:"per_second"`
			} `json:"ingredients"`
		} `json:"totals"`
		Nodes []struct {
			Item              string `json:"item"`
			BuildingsRequired int64  `json:"buildings_required"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, plan.ID.String(), decoded.PlanID)
	require.Len(t, decoded.Requests, 1)
	assert.Equal(t, "antimatter", decoded.Requests[0].Item)
	assert.Equal(t, "1", decoded.Requests[0].Flow)

	require.Len(t, decoded.Totals.Ingredients, 2)
	assert.Equal(t, "swarm_sphere_GW", decoded.Totals.Ingredients[1].Name)
	assert.Equal(t, "1.2", decoded.Totals.Ingredients[1].Amount)
	assert.False(t, decoded.Totals.Ingredients[1].PerSecond)

	require.Len(t, decoded.Nodes, 2)
	assert.Equal(t, "critical_photon", decoded.Nodes[1].Item)
	assert.Equal(t, int64(5), decoded.Nodes[1].BuildingsRequired)
}

func TestGenerate_CSV(t *testing.T) {
	plan := antimatterPlan(t)

	err := Generate(plan, Config{Format: "csv"})
	require.Error(t, err)
	assert.Equal(t, "output directory required for CSV format", err.Error())

	dir := t.TempDir()
	require.NoError(t, Generate(plan, Config{Format: "csv", OutputDir: dir}))

	readCSV := func(name string) [][]string {
		file, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		defer file.Close()
		records, err := csv.NewReader(file).ReadAll()
		require.NoError(t, err)
		return records
	}

	assert.Equal(t, [][]string{
		{"building", "count"},
		{"ray receiver", "5"},
		{"unit", "1"},
	}, readCSV("buildings.csv"))

	assert.Equal(t, [][]string{
		{"ingredient", "amount", "unit"},
		{"critical_photon", "1", "per_second"},
		{"swarm_sphere_GW", "1.2", ""},
	}, readCSV("ingredients.csv"))

	nodes := readCSV("nodes.csv")
	require.Len(t, nodes, 3)
	assert.Equal(t, []string{"1", "critical_photon", "1", "ray receiver", "5", "1200 swarm_sphere_MW"}, nodes[2])
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	err := Generate(antimatterPlan(t), Config{Format: "xml"})
	require.Error(t, err)
	assert.Equal(t, "unsupported output format: xml", err.Error())
}
