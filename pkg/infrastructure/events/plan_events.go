package events

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

const (
	PlanStartedEvent   = "plan.started"
	NodeResolvedEvent  = "plan.node.resolved"
	PlanCompletedEvent = "plan.completed"
	PlanFailedEvent    = "plan.failed"
	PlanCacheHitEvent  = "plan.cache.hit"
)

// PlanStreamID returns the stream holding the events of one plan
func PlanStreamID(planID string) string {
	return "plan-" + planID
}

type PlanStarted struct {
	Requests []entities.Request `json:"requests"`
}

type NodeResolved struct {
	Item        entities.ItemName   `json:"item"`
	Level       int                 `json:"level"`
	DesiredFlow decimal.Decimal     `json:"desired_flow"`
	Result      entities.NodeResult `json:"result"`
}

type PlanCompleted struct {
	BuildingKinds int `json:"building_kinds"`
	Ingredients   int `json:"ingredients"`
	Nodes         int `json:"nodes"`
}

type PlanFailed struct {
	Reason string `json:"reason"`
}

type PlanCacheHit struct {
	Key string `json:"key"`
}
