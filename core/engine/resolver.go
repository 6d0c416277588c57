// Package engine orchestrates one bike resolution:
// 1. Normalize the specification (once, before dispatch)
// 2. Load the catalog (once)
// 3. Frame, handlebars, wheels and groupset run concurrently
// 4. Inside the groupset: shifters in order, then the drivetrain concurrently
// 5. Aggregate prices
//
// A resolution never fails as a whole. Every rule mismatch, catalog miss and
// unit failure is recorded on the result and the other units carry on.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bike-config/core/catalog"
	"bike-config/core/pricing"
	"bike-config/core/rules"
	"bike-config/core/types"
	"bike-config/internal/logging"
	"bike-config/internal/metrics"
)

// Resolver resolves bicycle specifications into priced parts lists.
// A Resolver holds no per-resolution state and may be shared.
type Resolver struct {
	store      catalog.Store
	logger     *zap.Logger
	metrics    *metrics.Recorder
	now        func() time.Time
	currency   pricing.Currency
	maxWorkers int

	topLevel func() []rules.Rule
	plan     func(types.BicycleSpecification) (lead, drivetrain []rules.Rule)
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records every resolution on m
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithCurrency sets the display currency of totals
func WithCurrency(c pricing.Currency) Option {
	return func(r *Resolver) {
		if c != "" {
			r.currency = c
		}
	}
}

// WithMaxWorkers bounds the units running at once per barrier. Zero or
// less means unbounded.
func WithMaxWorkers(n int) Option {
	return func(r *Resolver) { r.maxWorkers = n }
}

// NewResolver creates a resolver reading parts from store
func NewResolver(store catalog.Store, opts ...Option) *Resolver {
	r := &Resolver{
		store:    store,
		logger:   logging.Named("engine"),
		now:      time.Now,
		currency: pricing.CurrencyGBP,
		topLevel: rules.TopLevel,
		plan:     rules.GroupsetPlan,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces a fresh result for spec. ctx only bounds the catalog
// load; once dispatched, every unit runs to completion.
func (r *Resolver) Resolve(ctx context.Context, spec types.BicycleSpecification) *types.BikeConfigurationResult {
	started := r.now()
	id := uuid.NewString()
	logger := r.logger.With(zap.String("resolution", id), zap.String("bike", spec.Name))

	normalized, warnings := rules.Normalize(spec)
	for _, w := range warnings {
		logger.Info("specification adjusted", zap.String("warning", w))
	}

	lookup := catalog.Load(ctx, r.store)
	run := &resolution{
		spec:   normalized,
		lookup: lookup,
		logger: logger,
		limit:  r.maxWorkers,
	}
	if err := lookup.Unavailable(); err != nil {
		logger.Error("catalog unavailable", zap.String("store", lookup.Store()), zap.Error(err))
		run.record(types.ResolutionError{
			Kind:     catalogUnavailable,
			Category: catalogCategory,
			Rule:     "load",
			Message:  err.Error(),
		})
	} else {
		logger.Debug("catalog loaded", zap.String("store", lookup.Store()), zap.Int("entries", lookup.Len()))
	}

	g := run.group()
	for _, rule := range r.topLevel() {
		rule := rule
		g.Go(func() error {
			run.unit(rule)
			return nil
		})
	}
	g.Go(func() error {
		run.groupset(r.plan)
		return nil
	})
	_ = g.Wait()

	parts, errs := run.snapshot()
	summary := pricing.Aggregate(parts, r.currency)
	errs = append(errs, summary.Invalid...)

	result := &types.BikeConfigurationResult{
		ID:                id,
		Specification:     normalized,
		Parts:             parts,
		Errors:            errs,
		Warnings:          warnings,
		TotalPrice:        summary.Total,
		TotalPriceDisplay: summary.Display,
		ResolvedAt:        started,
	}
	result.SortParts()

	elapsed := r.now().Sub(started)
	r.metrics.ObserveResolution(elapsed, len(parts))
	for _, e := range errs {
		r.metrics.ObserveError(string(e.Kind), e.Category)
	}
	logger.Info("resolution complete",
		zap.Int("parts", len(parts)),
		zap.Int("errors", len(errs)),
		zap.String("total", summary.Display),
		zap.Duration("elapsed", elapsed),
	)
	return result
}

// newGroup returns an errgroup bounded to limit units, if positive
func newGroup(limit int) *errgroup.Group {
	g := new(errgroup.Group)
	if limit > 0 {
		g.SetLimit(limit)
	}
	return g
}
