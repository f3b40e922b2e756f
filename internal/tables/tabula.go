// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tables

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/internal/container"
	"github.com/pdiddy/docconv/pkg/types"
)

const defaultJava = "java"

// TabulaStrategy runs tabula-java over every page of the PDF and names the
// tables Tabela_1..N in document order.
type TabulaStrategy struct {
	cfg    types.TabulaConfig
	exec   container.Executor
	logger *slog.Logger
}

// NewTabulaStrategy returns a strategy backed by cfg.Jar. A nil exec uses
// container.OSExecutor.
func NewTabulaStrategy(cfg types.TabulaConfig, exec container.Executor, logger *slog.Logger) *TabulaStrategy {
	if cfg.Java == "" {
		cfg.Java = defaultJava
	}
	if exec == nil {
		exec = container.OSExecutor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TabulaStrategy{cfg: cfg, exec: exec, logger: logger}
}

func (s *TabulaStrategy) Name() string                { return "tabula" }
func (s *TabulaStrategy) Capability() capability.Name { return capability.Tabula }

// Available reports whether the strategy is enabled, the jar exists, and
// the java launcher resolves.
func (s *TabulaStrategy) Available() bool {
	if !s.cfg.Enabled || s.cfg.Jar == "" {
		return false
	}
	if _, err := os.Stat(s.cfg.Jar); err != nil {
		s.logger.Debug("tabula.jar_missing", "jar", s.cfg.Jar, "error", err)
		return false
	}
	if _, err := s.exec.LookPath(s.cfg.Java); err != nil {
		s.logger.Debug("tabula.java_missing", "java", s.cfg.Java, "error", err)
		return false
	}
	return true
}

func (s *TabulaStrategy) Describe() string {
	return fmt.Sprintf("%s -jar %s", s.cfg.Java, s.cfg.Jar)
}

// tabulaTable is one element of tabula-java's JSON output.
type tabulaTable struct {
	ExtractionMethod string `json:"extraction_method"`
	Data             [][]struct {
		Text string `json:"text"`
	} `json:"data"`
}

func (s *TabulaStrategy) Extract(ctx context.Context, path string) ([]types.Dataset, error) {
	args := []string{"-jar", s.cfg.Jar, "--pages", "all", "--format", "JSON", "--silent", path}
	var out bytes.Buffer
	if err := s.exec.RunPiped(ctx, s.cfg.Java, args, nil, &out); err != nil {
		return nil, fmt.Errorf("running tabula on %s: %w", path, err)
	}
	return parseTabulaJSON(out.Bytes())
}

// parseTabulaJSON turns tabula's JSON output into datasets. Tables without
// any text are skipped and do not consume a sheet number.
func parseTabulaJSON(data []byte) ([]types.Dataset, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	var parsed []tabulaTable
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing tabula output: %w", err)
	}

	var datasets []types.Dataset
	for _, t := range parsed {
		raw := make([][]string, 0, len(t.Data))
		for _, row := range t.Data {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = c.Text
			}
			raw = append(raw, cells)
		}
		if !nonEmpty(raw) {
			continue
		}
		name := fmt.Sprintf("Tabela_%d", len(datasets)+1)
		datasets = append(datasets, types.DatasetFromRows(name, raw))
	}
	return datasets, nil
}
