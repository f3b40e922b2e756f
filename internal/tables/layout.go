// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tables

import (
	"context"
	"fmt"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/internal/pdflayout"
	"github.com/pdiddy/docconv/pkg/types"
)

// LayoutStrategy detects tables page by page from text positions and names
// them P{page}_T{index}, index starting at 1 on every page.
type LayoutStrategy struct {
	cfg  types.LayoutConfig
	read func(path string) ([]pdflayout.Page, error)
}

// NewLayoutStrategy returns the built-in layout strategy.
func NewLayoutStrategy(cfg types.LayoutConfig) *LayoutStrategy {
	return &LayoutStrategy{cfg: cfg, read: pdflayout.ReadFile}
}

func (s *LayoutStrategy) Name() string                { return "layout" }
func (s *LayoutStrategy) Capability() capability.Name { return capability.PDFLayout }
func (s *LayoutStrategy) Available() bool             { return s.cfg.Enabled }

func (s *LayoutStrategy) Describe() string {
	return "built-in (rsc.io/pdf text layer)"
}

func (s *LayoutStrategy) Extract(ctx context.Context, path string) ([]types.Dataset, error) {
	pages, err := s.read(path)
	if err != nil {
		return nil, err
	}
	opts := pdflayout.Options{LineTolerance: s.cfg.LineTolerance, ColumnTolerance: s.cfg.ColumnTolerance}

	var datasets []types.Dataset
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i, t := range p.Tables(opts) {
			name := fmt.Sprintf("P%d_T%d", p.Number, i+1)
			datasets = append(datasets, types.DatasetFromRows(name, t.Rows))
		}
	}
	return datasets, nil
}
