package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vsinha/factoryplan/pkg/application/dto"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/events"
)

// ServiceConfig holds configuration for the planning service
type ServiceConfig struct {
	// MaxCacheEntries limits the plan cache size (0 disables caching)
	MaxCacheEntries int
}

// DefaultServiceConfig returns the configuration used by the CLI
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{MaxCacheEntries: 128}
}

// Service runs plans on top of an Aggregator. It assigns plan ids, keeps the
// per-node breakdown, records plan events and caches finished plans by request.
type Service struct {
	aggregator *Aggregator
	cache      *lru.Cache[string, *dto.Plan]
	store      events.EventStore
	logger     *slog.Logger
	now        func() time.Time
	stopTrace  func()
}

// NewService creates a planning service. A nil store gets an in-memory store and
// a nil logger falls back to slog.Default().
func NewService(
	aggregator *Aggregator,
	config ServiceConfig,
	store events.EventStore,
	logger *slog.Logger,
) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = events.NewInMemoryEventStore(logger)
	}

	s := &Service{
		aggregator: aggregator,
		store:      store,
		logger:     logger,
		now:        time.Now,
	}

	if config.MaxCacheEntries > 0 {
		cache, err := lru.New[string, *dto.Plan](config.MaxCacheEntries)
		if err != nil {
			return nil, fmt.Errorf("failed to create plan cache: %w", err)
		}
		s.cache = cache
	}

	s.stopTrace = store.Subscribe([]string{events.NodeResolvedEvent}, s.traceNode)
	return s, nil
}

// Plan resolves a single target
func (s *Service) Plan(ctx context.Context, req entities.Request) (*dto.Plan, error) {
	return s.PlanAll(ctx, []entities.Request{req})
}

// PlanAll resolves every request into one shared Totals. Any failure aborts the
// whole plan.
func (s *Service) PlanAll(ctx context.Context, requests []entities.Request) (*dto.Plan, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("at least one request is required")
	}

	key := dto.PlanCacheKey(requests)
	if cached, ok := s.lookup(key); ok {
		s.logger.Debug("plan cache hit", slog.String("plan_id", cached.ID.String()), slog.String("key", key))
		stream := events.PlanStreamID(cached.ID.String())
		if err := s.store.AppendEvent(stream, events.NewEvent(events.PlanCacheHitEvent, stream, events.PlanCacheHit{Key: key})); err != nil {
			return nil, fmt.Errorf("failed to record cache hit: %w", err)
		}
		cached.Cached = true
		return cached, nil
	}

	plan := &dto.Plan{
		ID:       uuid.New(),
		Requests: append([]entities.Request(nil), requests...),
		Totals:   entities.NewTotals(),
	}
	stream := events.PlanStreamID(plan.ID.String())
	logger := s.logger.With(slog.String("plan_id", plan.ID.String()))

	if err := s.store.AppendEvent(stream, events.NewEvent(events.PlanStartedEvent, stream, events.PlanStarted{Requests: plan.Requests})); err != nil {
		return nil, fmt.Errorf("failed to record plan start: %w", err)
	}
	logger.Debug("planning started", slog.Int("targets", len(requests)))

	observer := NodeObserverFunc(func(ctx context.Context, node NodeContext) error {
		plan.Nodes = append(plan.Nodes, dto.NodeReport{
			Item:              node.Item,
			Level:             node.Level,
			DesiredFlow:       node.DesiredFlow,
			Building:          node.Result.Building,
			BuildingsRequired: node.Result.BuildingsRequired,
			FixedIntake:       node.Result.FixedIntake,
			Consumption:       node.Result.Consumption,
		})
		return s.store.AppendEvent(stream, events.NewEvent(events.NodeResolvedEvent, stream, events.NodeResolved{
			Item:        node.Item,
			Level:       node.Level,
			DesiredFlow: node.DesiredFlow,
			Result:      node.Result,
		}))
	})

	for _, req := range requests {
		if _, err := s.aggregator.ResolveObserved(ctx, req, plan.Totals, observer); err != nil {
			logger.Warn("planning failed", slog.String("item", string(req.Item)), slog.Any("error", err))
			if appendErr := s.store.AppendEvent(stream, events.NewEvent(events.PlanFailedEvent, stream, events.PlanFailed{Reason: err.Error()})); appendErr != nil {
				logger.Error("failed to record plan failure", slog.Any("error", appendErr))
			}
			return nil, fmt.Errorf("failed to plan %s: %w", req.Item, err)
		}
	}

	plan.ComputedAt = s.now()
	completed := events.PlanCompleted{
		BuildingKinds: len(plan.Totals.Buildings),
		Ingredients:   len(plan.Totals.Ingredients),
		Nodes:         len(plan.Nodes),
	}
	if err := s.store.AppendEvent(stream, events.NewEvent(events.PlanCompletedEvent, stream, completed)); err != nil {
		return nil, fmt.Errorf("failed to record plan completion: %w", err)
	}
	logger.Info("planning completed",
		slog.Int("nodes", completed.Nodes),
		slog.Int("building_kinds", completed.BuildingKinds),
		slog.Int("ingredients", completed.Ingredients))

	if s.cache != nil {
		s.cache.Add(key, plan.Clone())
	}
	return plan, nil
}

// Events returns the recorded events of a plan
func (s *Service) Events(planID uuid.UUID) ([]events.Event, error) {
	return s.store.ReadEvents(events.PlanStreamID(planID.String()), 1)
}

// Close detaches the service from its event store and drops cached plans
func (s *Service) Close() {
	s.stopTrace()
	if s.cache != nil {
		s.cache.Purge()
	}
}

// traceNode logs every resolved node at debug level
func (s *Service) traceNode(event events.Event) error {
	node, ok := event.Data().(events.NodeResolved)
	if !ok {
		return fmt.Errorf("unexpected %s payload %T", event.Type(), event.Data())
	}
	s.logger.Debug("node resolved",
		slog.String("stream", event.StreamID()),
		slog.String("item", string(node.Item)),
		slog.Int("level", node.Level),
		slog.String("desired_flow", node.DesiredFlow.String()),
		slog.String("building", node.Result.Building),
		slog.Int64("buildings", node.Result.BuildingsRequired))
	return nil
}

func (s *Service) lookup(key string) (*dto.Plan, bool) {
	if s.cache == nil {
		return nil, false
	}
	plan, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	return plan.Clone(), true
}
