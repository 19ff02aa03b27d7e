package output

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

const (
	SwarmPowerMW entities.ItemName = "swarm_sphere_MW"
	SwarmPowerGW entities.ItemName = "swarm_sphere_GW"
)

var megaPerGiga = decimal.NewFromInt(1000)

// Line is one row of a totals report
type Line struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	// PerSecond is false for fixed intakes and rescaled power, which carry no time unit
	PerSecond bool `json:"per_second"`
}

// Report is the presentation form of a Totals: sorted rows with the swarm
// power rescaled from MW to GW
type Report struct {
	Buildings   []Line `json:"buildings"`
	Ingredients []Line `json:"ingredients"`
}

// Rescale builds a Report from totals. swarm_sphere_MW is divided by 1000 and
// reported as swarm_sphere_GW; totals itself is left untouched.
func Rescale(totals *entities.Totals) Report {
	report := Report{
		Buildings:   make([]Line, 0, len(totals.Buildings)),
		Ingredients: make([]Line, 0, len(totals.Ingredients)),
	}

	for _, kind := range totals.BuildingKinds() {
		report.Buildings = append(report.Buildings, Line{
			Name:   kind,
			Amount: decimal.NewFromInt(totals.Buildings[kind]),
		})
	}

	for name, rate := range totals.Ingredients {
		line := Line{
			Name:      string(name),
			Amount:    rate,
			PerSecond: !totals.PerCycle[name],
		}
		if name == SwarmPowerMW {
			line.Name = string(SwarmPowerGW)
			line.Amount = rate.Div(megaPerGiga)
			line.PerSecond = false
		}
		report.Ingredients = append(report.Ingredients, line)
	}
	sort.Slice(report.Ingredients, func(i, j int) bool {
		return report.Ingredients[i].Name < report.Ingredients[j].Name
	})

	return report
}

// DisplayName turns an item name into a title, e.g. critical_photon -> Critical Photon
func DisplayName(item entities.ItemName) string {
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(string(item), "_", " "))
}

func timeUnit(perSecond bool) string {
	if perSecond {
		return "per second"
	}
	return ""
}
