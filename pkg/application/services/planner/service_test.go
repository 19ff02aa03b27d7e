package planner

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/events"
	"github.com/vsinha/factoryplan/pkg/infrastructure/logging"
)

func newTestService(t *testing.T, cacheSize int) (*Service, *events.InMemoryEventStore) {
	t.Helper()
	store := events.NewInMemoryEventStore(nil)
	svc, err := NewService(newChainAggregator(), ServiceConfig{MaxCacheEntries: cacheSize}, store, nil)
	require.NoError(t, err)
	return svc, store
}

var planEventTypes = []string{
	events.PlanStartedEvent,
	events.NodeResolvedEvent,
	events.PlanCompletedEvent,
	events.PlanFailedEvent,
	events.PlanCacheHitEvent,
}

// recordTypes collects the type of every plan event appended to store
func recordTypes(t *testing.T, store events.EventStore) *[]string {
	t.Helper()
	var types []string
	unsubscribe := store.Subscribe(planEventTypes, func(e events.Event) error {
		types = append(types, e.Type())
		return nil
	})
	t.Cleanup(unsubscribe)
	return &types
}

func TestService_PlanRecordsBreakdownAndEvents(t *testing.T) {
	svc, _ := newTestService(t, 0)

	plan, err := svc.Plan(context.Background(), request("electric_motor", "1"))
	require.NoError(t, err)

	assert.False(t, plan.Cached)
	assert.False(t, plan.ComputedAt.IsZero())
	assert.Equal(t, map[string]int64{"assembler3": 4, "smelter2": 7}, plan.Totals.Buildings)

	var items []entities.ItemName
	var levels []int
	for _, node := range plan.Nodes {
		items = append(items, node.Item)
		levels = append(levels, node.Level)
	}
	assert.Equal(t, []entities.ItemName{
		"electric_motor", "iron_ingot", "gear", "iron_ingot", "magnetic_coil", "magnet", "copper_ingot",
	}, items)
	assert.Equal(t, []int{0, 1, 1, 2, 1, 2, 2}, levels)
	assert.Equal(t, "assembler3", plan.Nodes[0].Building)

	recorded, err := svc.Events(plan.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 9)
	assert.Equal(t, events.PlanStartedEvent, recorded[0].Type())
	assert.Equal(t, events.PlanCompletedEvent, recorded[8].Type())
	for _, e := range recorded[1:8] {
		assert.Equal(t, events.NodeResolvedEvent, e.Type())
	}

	completed, ok := recorded[8].Data().(events.PlanCompleted)
	require.True(t, ok)
	assert.Equal(t, events.PlanCompleted{BuildingKinds: 2, Ingredients: 7, Nodes: 7}, completed)
}

func TestService_PlanAllSharesTotals(t *testing.T) {
	svc, _ := newTestService(t, 0)

	plan, err := svc.PlanAll(context.Background(), []entities.Request{
		request("gear", "1"),
		request("gear", "1"),
	})
	require.NoError(t, err)

	// each request rounds its own buildings up
	assert.Equal(t, int64(2), plan.Totals.Buildings["assembler3"])
	assert.Equal(t, int64(2), plan.Totals.Buildings["smelter2"])
	assertRate(t, plan.Totals, "iron_ingot", "3")
	assertRate(t, plan.Totals, "iron_ore", "4")
	assert.Len(t, plan.Requests, 2)
}

func TestService_CacheHitReturnsIndependentCopy(t *testing.T) {
	svc, store := newTestService(t, 8)
	all := recordTypes(t, store)
	ctx := context.Background()

	first, err := svc.Plan(ctx, request("gear", "1"))
	require.NoError(t, err)
	assert.False(t, first.Cached)

	// callers mutating their copy must not poison the cache
	first.Totals.Buildings["assembler3"] = 99
	first.Nodes[0].Consumption[0].Rate = d("99")
	first.Requests[0].Tiers["assembler"] = 1

	second, err := svc.Plan(ctx, request("gear", "1"))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), second.Totals.Buildings["assembler3"])
	assert.True(t, second.Nodes[0].Consumption[0].Rate.Equal(d("1.5")))
	assert.Equal(t, 3, second.Requests[0].Tiers["assembler"])

	recorded, err := svc.Events(first.ID)
	require.NoError(t, err)
	assert.Equal(t, events.PlanCacheHitEvent, recorded[len(recorded)-1].Type())

	assert.Len(t, *all, len(recorded))
}

func TestService_CacheKeyIncludesTiersAndBoost(t *testing.T) {
	svc, _ := newTestService(t, 8)
	ctx := context.Background()

	_, err := svc.Plan(ctx, request("gear", "1"))
	require.NoError(t, err)

	boosted := request("gear", "1")
	boosted.Boost = entities.BoostMk3
	plan, err := svc.Plan(ctx, boosted)
	require.NoError(t, err)
	assert.False(t, plan.Cached)

	lowTier := request("gear", "1")
	lowTier.Tiers = entities.TierSelection{"assembler": 1, "smelter": 1}
	plan, err = svc.Plan(ctx, lowTier)
	require.NoError(t, err)
	assert.False(t, plan.Cached)
	assert.Equal(t, int64(2), plan.Totals.Buildings["assembler1"])
}

func TestService_FailureRecordsEvent(t *testing.T) {
	svc, store := newTestService(t, 8)
	all := recordTypes(t, store)

	_, err := svc.PlanAll(context.Background(), []entities.Request{
		request("gear", "1"),
		request("unobtainium", "1"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrUnknownItem))
	assert.Contains(t, err.Error(), "failed to plan unobtainium")

	types := *all
	assert.Equal(t, events.PlanStartedEvent, types[0])
	assert.Equal(t, events.PlanFailedEvent, types[len(types)-1])
	assert.NotContains(t, types, events.PlanCompletedEvent)

	// failed plans are never cached
	plan, err := svc.Plan(context.Background(), request("gear", "1"))
	require.NoError(t, err)
	assert.False(t, plan.Cached)
}

func TestService_RequiresRequests(t *testing.T) {
	svc, _ := newTestService(t, 0)

	_, err := svc.PlanAll(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "at least one request is required", err.Error())
}

func TestService_TracesNodesUntilClosed(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatText}, &logs)
	svc, err := NewService(newChainAggregator(), ServiceConfig{MaxCacheEntries: 8}, events.NewInMemoryEventStore(logger), logger)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := svc.Plan(ctx, request("gear", "1"))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "node resolved")
	assert.Contains(t, logs.String(), "item=gear")
	assert.Contains(t, logs.String(), "item=iron_ingot")

	svc.Close()
	logs.Reset()

	// the cache is dropped and nodes are no longer traced
	second, err := svc.Plan(ctx, request("gear", "1"))
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotContains(t, logs.String(), "node resolved")
	assert.Contains(t, logs.String(), "planning completed")
}
