// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tables extracts tabular datasets from PDFs through an ordered
// chain of strategies. The chain tries each available strategy in turn and
// stops at the first one that finds at least one table.
package tables

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/pkg/types"
)

// ErrNoTables is returned when every strategy that ran found zero tables.
var ErrNoTables = errors.New("no tables found")

// Strategy is one table extraction algorithm. Its availability is resolved
// through the capability Registry, never by calling Available directly
// during a conversion.
type Strategy interface {
	capability.Probe

	// Name is the strategy label recorded in ExtractionResult.Attempted.
	Name() string

	// Extract returns every table in the PDF at path as datasets named by
	// the strategy's sheet convention. Zero datasets with a nil error means
	// the strategy ran and found nothing.
	Extract(ctx context.Context, path string) ([]types.Dataset, error)
}

// Chain is an ordered fallback list of strategies.
type Chain struct {
	registry   *capability.Registry
	strategies []Strategy
	logger     *slog.Logger
}

// NewChain builds a chain that consults registry for availability. Order
// of strategies is the order they are tried.
func NewChain(registry *capability.Registry, logger *slog.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{registry: registry, strategies: strategies, logger: logger}
}

// Extract runs the chain against the PDF at path. A later strategy is only
// started after the previous one has returned.
//
// Failure modes:
//   - no strategy available: error matching capability.ErrMissing
//   - every strategy that ran returned an error: the joined errors
//   - otherwise: ErrNoTables
func (c *Chain) Extract(ctx context.Context, path string) (types.ExtractionResult, error) {
	var res types.ExtractionResult
	var errs []error
	var names []string

	for _, s := range c.strategies {
		names = append(names, s.Name())
		if !c.registry.Available(s.Capability()) {
			c.logger.Debug("tables.strategy_unavailable", "strategy", s.Name(), "capability", s.Capability())
			continue
		}

		res.Attempted = append(res.Attempted, s.Name())
		datasets, err := s.Extract(ctx, path)
		if err != nil {
			c.logger.Warn("tables.strategy_failed", "strategy", s.Name(), "path", path, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if len(datasets) == 0 {
			c.logger.Info("tables.strategy_empty", "strategy", s.Name(), "path", path)
			continue
		}

		if len(res.Attempted) > 1 {
			c.logger.Info("tables.fallback_used", "strategy", s.Name(), "attempted", res.Attempted, "path", path)
		}
		res.Strategy = s.Name()
		res.Datasets = datasets
		return res, nil
	}

	switch {
	case len(res.Attempted) == 0:
		return res, fmt.Errorf("no table extractor available (%s): %w",
			strings.Join(names, ", "), capability.ErrMissing)
	case len(errs) == len(res.Attempted):
		return res, fmt.Errorf("extracting tables: %w", errors.Join(errs...))
	default:
		return res, fmt.Errorf("%w with %s", ErrNoTables, strings.Join(res.Attempted, ", "))
	}
}

// nonEmpty reports whether any cell of the raw table holds text.
func nonEmpty(raw [][]string) bool {
	for _, row := range raw {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return true
			}
		}
	}
	return false
}
