// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes every run, with its files, to path as YAML.
func (j *Journal) ExportYAML(ctx context.Context, path string) error {
	runs, err := j.exportRuns(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(runs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every run, with its files, to path as indented JSON.
func (j *Journal) ExportJSON(ctx context.Context, path string) error {
	runs, err := j.exportRuns(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (j *Journal) exportRuns(ctx context.Context) ([]Run, error) {
	runs, err := j.Runs(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	for i := range runs {
		files, err := j.Files(ctx, runs[i].ID)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		runs[i].Files = files
	}
	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}
