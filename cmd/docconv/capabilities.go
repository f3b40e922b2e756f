package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Show which optional conversion tools are available",
	Long: `Capabilities probes every optional facility (tabula-java, the layout
analyser, the Word and Excel engines, LibreOffice) the same way convert does
and prints what was found.`,
	RunE: runCapabilities,
}

func runCapabilities(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	c := probe(ctx, loadConfig())
	statuses := c.registry.Statuses()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(statuses)
	}

	fmt.Fprintf(os.Stdout, "%-18s  %-9s  %s\n", "Capability", "Available", "Detail")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
	for _, s := range statuses {
		avail := "no"
		if s.Available {
			avail = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-18s  %-9s  %s\n", s.Name, avail, s.Detail)
	}
	return nil
}

func init() {
	capabilitiesCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(capabilitiesCmd)
}
