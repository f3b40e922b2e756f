package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docconv/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert PATH",
	Short: "Convert a file, or every matching file in a directory",
	Long: `Convert writes PATH converted from --from to --to next to the source as
<name>_convertido.<ext>. The source is never modified.

PATH may be a directory when --batch is given: every file directly inside it
with the --from extension is converted in name order. A failed file is
reported and the batch moves on. The command exits non-zero when any file
failed.

Formats: pdf, word (docx), excel (xlsx).`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")
	batch, _ := cmd.Flags().GetBool("batch")

	from, err := types.ParseFormat(fromFlag)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := types.ParseFormat(toFlag)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	conv, closeFn := newConverter(probeCtx, loadConfig())
	defer closeFn()

	req := types.RunRequest{Path: args[0], From: from, To: to, Batch: batch}
	summary := <-conv.Start(context.Background(), req, os.Stdout)

	if summary.HasFailures() {
		return fmt.Errorf("%d of %d file(s) failed", summary.Failed, summary.Total())
	}
	return nil
}

func init() {
	convertCmd.Flags().String("from", "", "source format: pdf, word, or excel")
	convertCmd.Flags().String("to", "", "target format: pdf, word, or excel")
	convertCmd.Flags().Bool("batch", false, "convert every matching file in the PATH directory")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(convertCmd)
}
