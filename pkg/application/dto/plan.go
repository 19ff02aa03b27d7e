package dto

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// Plan contains the complete output of one planning run over one or more targets
type Plan struct {
	ID         uuid.UUID
	Requests   []entities.Request
	Totals     *entities.Totals
	Nodes      []NodeReport
	ComputedAt time.Time
	Cached     bool
}

// NodeReport is the per-node breakdown of a plan, in depth-first pre-order
type NodeReport struct {
	Item              entities.ItemName
	Level             int
	DesiredFlow       decimal.Decimal
	Building          string
	BuildingsRequired int64
	FixedIntake       bool
	Consumption       []entities.IngredientFlow
}

// Clone returns a copy whose totals and node list can be modified freely
func (p *Plan) Clone() *Plan {
	clone := *p
	clone.Requests = make([]entities.Request, len(p.Requests))
	for i, req := range p.Requests {
		req.Tiers = req.Tiers.Clone()
		clone.Requests[i] = req
	}
	clone.Nodes = make([]NodeReport, len(p.Nodes))
	for i, node := range p.Nodes {
		node.Consumption = append([]entities.IngredientFlow(nil), node.Consumption...)
		clone.Nodes[i] = node
	}
	if p.Totals != nil {
		clone.Totals = p.Totals.Clone()
	}
	return &clone
}

// PlanCacheKey identifies a set of requests; equal keys resolve to equal totals
func PlanCacheKey(requests []entities.Request) string {
	parts := make([]string, 0, len(requests))
	for _, req := range requests {
		families := make([]string, 0, len(req.Tiers))
		for family := range req.Tiers {
			families = append(families, family)
		}
		sort.Strings(families)

		tiers := make([]string, 0, len(families))
		for _, family := range families {
			tiers = append(tiers, fmt.Sprintf("%s=%d", family, req.Tiers[family]))
		}

		parts = append(parts, fmt.Sprintf("%s@%s|%s|boost=%d",
			req.Item, req.DesiredFlow.String(), strings.Join(tiers, ","), int(req.Boost)))
	}
	return strings.Join(parts, ";")
}
