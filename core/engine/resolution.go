package engine

import (
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bike-config/core/catalog"
	"bike-config/core/rules"
	"bike-config/core/types"
	"bike-config/internal/errors"
)

const (
	catalogCategory    = "Catalog"
	catalogUnavailable = errors.TypeCatalogUnavailable
)

// resolution is the state of one Resolve call. Units only share the
// append-only parts and errors, guarded by mu.
type resolution struct {
	spec   types.BicycleSpecification
	lookup *catalog.Lookup
	logger *zap.Logger
	limit  int

	mu    sync.Mutex
	parts []types.ResolvedPart
	errs  []types.ResolutionError
}

func (run *resolution) group() *errgroup.Group {
	return newGroup(run.limit)
}

func (run *resolution) add(p types.ResolvedPart) {
	run.mu.Lock()
	run.parts = append(run.parts, p)
	run.mu.Unlock()
}

func (run *resolution) record(e types.ResolutionError) {
	run.mu.Lock()
	run.errs = append(run.errs, e)
	run.mu.Unlock()
}

// snapshot copies the collected parts and errors. Only called after the
// last barrier.
func (run *resolution) snapshot() ([]types.ResolvedPart, []types.ResolutionError) {
	run.mu.Lock()
	defer run.mu.Unlock()
	parts := append([]types.ResolvedPart(nil), run.parts...)
	errs := append([]types.ResolutionError(nil), run.errs...)
	return parts, errs
}

// guard converts a panic in a unit into a UNIT_FAILURE error
func (run *resolution) guard(category, rule string) {
	if v := recover(); v != nil {
		run.logger.Error("resolution unit failed",
			zap.String("category", category),
			zap.String("rule", rule),
			zap.Any("panic", v),
			zap.ByteString("stack", debug.Stack()),
		)
		run.record(types.ResolutionError{
			Kind:     errors.TypeUnitFailure,
			Category: category,
			Rule:     rule,
			Message:  fmt.Sprintf("unit failed: %v", v),
		})
	}
}

// unit applies one rule and looks up every key it yields
func (run *resolution) unit(rule rules.Rule) {
	defer run.guard(rule.Category, rule.Name)

	decision, mismatch := rule.Apply(run.spec)
	if mismatch != nil {
		run.logger.Warn("no rule matched",
			zap.String("category", mismatch.Category),
			zap.String("rule", mismatch.Rule),
			zap.String("reason", mismatch.Reason),
		)
		run.record(types.ResolutionError{
			Kind:     errors.TypeRuleMismatch,
			Category: mismatch.Category,
			Rule:     mismatch.Rule,
			Key:      mismatch.Key,
			Message:  mismatch.Reason,
		})
		return
	}
	if decision.Skip != "" {
		run.logger.Debug("rule skipped", zap.String("rule", rule.Name), zap.String("reason", decision.Skip))
		return
	}

	for _, key := range decision.Keys {
		part, ok := run.lookup.Find(key)
		if !ok {
			msg := "no catalog entry"
			if run.lookup.Unavailable() != nil {
				msg = "catalog unavailable"
			}
			run.logger.Warn("catalog miss", zap.String("rule", rule.Name), zap.String("key", string(key)))
			run.record(types.ResolutionError{
				Kind:     errors.TypeCatalogMiss,
				Category: rule.Category,
				Rule:     rule.Name,
				Key:      key,
				Message:  msg,
			})
			continue
		}
		run.logger.Debug("part resolved", zap.String("rule", rule.Name), zap.String("key", string(key)))
		run.add(types.ResolvedPart{Category: rule.Category, Rule: rule.Name, Part: part})
	}
}

// groupset resolves the lead rules in order, then fans out the drivetrain
// and waits for all of it
func (run *resolution) groupset(plan func(types.BicycleSpecification) (lead, drivetrain []rules.Rule)) {
	defer run.guard(rules.CategoryGroupset, "groupset")

	lead, drivetrain := plan(run.spec)
	for _, rule := range lead {
		run.unit(rule)
	}

	g := run.group()
	for _, rule := range drivetrain {
		rule := rule
		g.Go(func() error {
			run.unit(rule)
			return nil
		})
	}
	_ = g.Wait()
}
