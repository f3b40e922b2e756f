// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docconv/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past conversion runs",
	Long: `History reads the SQLite journal of past runs and lists the most recent
ones with their counts. Use --run to list the files of one run.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetString("run")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()
	ctx := context.Background()

	if runID != "" {
		files, err := j.Files(ctx, runID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(files)
		}
		if len(files) == 0 {
			fmt.Println("No files recorded for this run.")
			return nil
		}
		for _, f := range files {
			line := fmt.Sprintf("%-9s  %s", f.Status, f.Job.Source)
			if f.Output != "" {
				line += " -> " + f.Output
			}
			if f.Message != "" {
				line += fmt.Sprintf(" (%s: %s)", f.ErrKind, f.Message)
			}
			fmt.Println(line)
		}
		return nil
	}

	runs, err := j.Runs(ctx, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-19s  %-11s  %-9s  %-6s  %s\n",
		"Run", "Started", "From", "To", "Done", "Path")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range runs {
		done := fmt.Sprintf("%d/%d", r.Converted, r.Converted+r.Failed)
		if r.FinishedAt == nil {
			done = "-"
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-19s  %-11s  %-9s  %-6s  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.From, r.To, done, r.Path)
	}
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the conversion history to YAML or JSON",
	Long: `Export writes every recorded run, with the outcome of each of its files,
to --out as YAML or JSON.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	switch format {
	case "yaml", "":
		if out == "" {
			out = "history.yaml"
		}
		err = j.ExportYAML(context.Background(), out)
	case "json":
		if out == "" {
			out = "history.json"
		}
		err = j.ExportJSON(context.Background(), out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", out)
	return nil
}

// --- shared helpers ---

func openJournal() (*journal.Journal, error) {
	cfg := loadConfig().Journal
	if !cfg.Enabled {
		return nil, fmt.Errorf("the journal is disabled (journal.enabled = false)")
	}
	return journal.Open(cfg)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	historyCmd.Flags().String("run", "", "list the files of one run ID")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "output file (default history.yaml or history.json)")

	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
