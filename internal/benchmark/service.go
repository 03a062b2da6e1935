// Package benchmark runs lane searches: quota check, mileage lookup through
// the route cache, board quotes and rate aggregation.
package benchmark

import (
	"context"
	"errors"
	"time"

	"github.com/tournevent/freightbench/internal/quota"
	"github.com/tournevent/freightbench/internal/rates"
	"github.com/tournevent/freightbench/internal/routecache"
	"github.com/tournevent/freightbench/internal/telemetry"
	"github.com/tournevent/freightbench/pkg/board"
	"github.com/tournevent/freightbench/pkg/distance"
	"github.com/tournevent/freightbench/pkg/lane"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RouteResult is the outcome of a successful search.
type RouteResult struct {
	Route         lane.Route
	Mileage       int
	International bool
	FromCache     bool
	Summary       rates.Summary
	BoardErrors   []error
	Quota         quota.Decision
	SearchedAt    time.Time
}

// Quotes returns the board quotes in board registration order.
func (r *RouteResult) Quotes() []board.Quote {
	return r.Summary.Quotes()
}

// TopCarrier returns the highest quote, or nil when no board answered.
func (r *RouteResult) TopCarrier() *board.Quote {
	return r.Summary.TopCarrier
}

// Deps are the collaborators of a Service.
type Deps struct {
	Provider  distance.Provider
	Cache     *routecache.Cache
	Gate      *quota.Gate
	Registry  *board.Registry
	Publisher *rates.Publisher
	Logger    *otelzap.Logger
	Metrics   *telemetry.Metrics
	Tracer    trace.Tracer

	// Equipment is the trailer type quotes are requested for. Defaults to van.
	Equipment board.Equipment
}

// Service runs lane searches.
type Service struct {
	provider  distance.Provider
	cache     *routecache.Cache
	gate      *quota.Gate
	registry  *board.Registry
	publisher *rates.Publisher
	logger    *otelzap.Logger
	metrics   *telemetry.Metrics
	tracer    trace.Tracer
	equipment board.Equipment
	now       func() time.Time
}

// NewService creates a search service.
func NewService(d Deps) *Service {
	tracer := d.Tracer
	if tracer == nil {
		tracer = otel.Tracer("github.com/tournevent/freightbench/internal/benchmark")
	}
	publisher := d.Publisher
	if publisher == nil {
		publisher = rates.NewPublisher()
	}
	equipment := d.Equipment
	if equipment == "" {
		equipment = board.EquipmentVan
	}

	s := &Service{
		provider:  d.Provider,
		cache:     d.Cache,
		gate:      d.Gate,
		registry:  d.Registry,
		publisher: publisher,
		logger:    d.Logger,
		metrics:   d.Metrics,
		tracer:    tracer,
		equipment: equipment,
		now:       time.Now,
	}
	if s.metrics != nil {
		publisher.Subscribe(func(sum rates.Summary) {
			s.metrics.SetMarketAverage(sum.AverageRate)
		})
	}
	return s
}

// Publisher returns the publisher summaries are delivered through.
func (s *Service) Publisher() *rates.Publisher {
	return s.publisher
}

// Quota returns the current quota state without consuming.
func (s *Service) Quota(ctx context.Context) (quota.Decision, error) {
	return s.gate.Status(ctx)
}

// QuotaLimit returns the number of free searches.
func (s *Service) QuotaLimit() int {
	return s.gate.Limit()
}

// Search runs one lane search. The quota is consumed before any lookup, so
// a search that later fails still counts against it. Cached mileage skips
// the distance provider. Search does not publish: the caller decides with
// Publish once it knows the result is still wanted.
func (s *Service) Search(ctx context.Context, route lane.Route) (*RouteResult, error) {
	ctx, span := s.tracer.Start(ctx, "benchmark.Search",
		trace.WithAttributes(
			attribute.String("origin", string(route.Origin)),
			attribute.String("destination", string(route.Destination)),
		),
	)
	defer span.End()

	if err := validate(route); err != nil {
		s.record(telemetry.SourceNetwork, "invalid")
		return nil, s.fail(ctx, span, "Invalid search", err)
	}

	decision, err := s.gate.TryConsume(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "Quota check failed", err)
	}
	if !decision.Allowed {
		if s.metrics != nil {
			s.metrics.RecordQuotaDenied()
		}
		s.record(telemetry.SourceNetwork, "quota_exhausted")
		return nil, s.fail(ctx, span, "Search refused", ErrQuotaExhausted)
	}

	mileage, fromCache, err := s.mileage(ctx, route)
	source := telemetry.SourceNetwork
	if fromCache {
		source = telemetry.SourceCache
	}
	if err != nil {
		s.record(source, "lookup_failed")
		return nil, s.fail(ctx, span, "Mileage lookup failed", err)
	}

	international := route.IsInternational()
	scope := board.ScopeDomestic
	if international {
		scope = board.ScopeInternational
	}

	quotes, boardErrs := s.registry.GetQuotes(ctx, &board.RateRequest{
		Origin:      string(route.Origin),
		Destination: string(route.Destination),
		Mileage:     mileage,
		Equipment:   s.equipment,
	}, scope)
	if err := ctx.Err(); err != nil {
		s.record(source, "cancelled")
		return nil, s.fail(ctx, span, "Search cancelled", err)
	}
	s.recordBoardErrors(ctx, boardErrs)

	summary := rates.Aggregate(quotes, mileage)

	span.SetAttributes(
		attribute.Int("mileage", mileage),
		attribute.Bool("cache_hit", fromCache),
		attribute.Bool("international", international),
		attribute.Int("quotes", len(quotes)),
	)
	s.record(source, "success")
	s.logger.Ctx(ctx).Info("Search completed",
		zap.String("route", route.String()),
		zap.Int("mileage", mileage),
		zap.Bool("cache_hit", fromCache),
		zap.Bool("international", international),
		zap.Int("quotes", len(quotes)),
		zap.Int("board_errors", len(boardErrs)),
	)

	return &RouteResult{
		Route:         route,
		Mileage:       mileage,
		International: international,
		FromCache:     fromCache,
		Summary:       summary,
		BoardErrors:   boardErrs,
		Quota:         decision,
		SearchedAt:    s.now(),
	}, nil
}

// Publish delivers the summary of res to every subscriber.
func (s *Service) Publish(res *RouteResult) {
	s.publisher.Publish(res.Summary)
}

// Estimate returns the mileage of a route through the cache without
// touching the quota or the boards.
func (s *Service) Estimate(ctx context.Context, route lane.Route) (int, bool, error) {
	if err := validate(route); err != nil {
		return 0, false, err
	}
	return s.mileage(ctx, route)
}

func (s *Service) mileage(ctx context.Context, route lane.Route) (int, bool, error) {
	miles, ok, err := s.cache.Get(ctx, route)
	if err != nil {
		s.logger.Ctx(ctx).Warn("Route cache read failed", zap.Error(err))
	}
	if ok {
		return miles, true, nil
	}

	start := time.Now()
	miles, err = s.provider.Distance(ctx, string(route.Origin), string(route.Destination))
	if s.metrics != nil {
		s.metrics.ObserveLookup(s.provider.Name(), time.Since(start).Seconds())
	}
	if err != nil {
		return 0, false, err
	}

	if err := s.cache.Put(ctx, route, miles); err != nil {
		s.logger.Ctx(ctx).Warn("Route cache write failed", zap.Error(err))
	}
	return miles, false, nil
}

func (s *Service) recordBoardErrors(ctx context.Context, errs []error) {
	for _, err := range errs {
		var be *board.BoardError
		name, code := "unknown", "UNKNOWN"
		if errors.As(err, &be) {
			name, code = be.Board, be.Code
		}
		if s.metrics != nil {
			s.metrics.RecordBoardError(name, code)
		}
		s.logger.Ctx(ctx).Warn("Board quote failed", zap.Error(err))
	}
}

func (s *Service) record(source, status string) {
	if s.metrics != nil {
		s.metrics.RecordSearch(source, status)
	}
}

func (s *Service) fail(ctx context.Context, span trace.Span, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.Ctx(ctx).Info(msg, zap.Error(err))
	return err
}

func validate(route lane.Route) error {
	if route.Origin.Empty() {
		return &ValidationError{Field: "origin"}
	}
	if route.Destination.Empty() {
		return &ValidationError{Field: "destination"}
	}
	return nil
}
