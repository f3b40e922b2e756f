package main

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// commit and date are set by the mage Build target via ldflags. When they
// are empty the VCS stamp the go tool embeds is used instead.
var (
	commit = ""
	date   = ""
)

// conversionLibs are the modules whose versions decide conversion output.
var conversionLibs = []string{
	"github.com/xuri/excelize/v2",
	"github.com/pdfcpu/pdfcpu",
	"rsc.io/pdf",
	"github.com/mattn/go-sqlite3",
}

type library struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

type buildDetails struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	Date      string    `json:"date,omitempty"`
	GoVersion string    `json:"go_version,omitempty"`
	Libraries []library `json:"libraries,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the docconv build and the versions of its conversion libraries",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, _ := debug.ReadBuildInfo()
		b := readBuild(info)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(b)
		}
		writeVersion(cmd.OutOrStdout(), b)
		return nil
	},
}

func readBuild(info *debug.BuildInfo) buildDetails {
	b := buildDetails{Version: version, Commit: commit, Date: date}
	if info == nil {
		return b
	}
	b.GoVersion = info.GoVersion
	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && b.Commit == "":
			b.Commit = s.Value
		case s.Key == "vcs.time" && b.Date == "":
			b.Date = s.Value
		}
	}

	deps := make(map[string]string, len(info.Deps))
	for _, d := range info.Deps {
		v := d.Version
		if d.Replace != nil {
			v = d.Replace.Version
		}
		deps[d.Path] = v
	}
	for _, p := range conversionLibs {
		if v, ok := deps[p]; ok {
			b.Libraries = append(b.Libraries, library{Path: p, Version: v})
		}
	}
	return b
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func writeVersion(w io.Writer, b buildDetails) {
	fmt.Fprintf(w, "docconv %s\n", b.Version)
	fmt.Fprintf(w, "  commit: %s\n", orUnknown(b.Commit))
	fmt.Fprintf(w, "  built:  %s\n", orUnknown(b.Date))
	fmt.Fprintf(w, "  go:     %s\n", orUnknown(b.GoVersion))
	if len(b.Libraries) == 0 {
		return
	}
	fmt.Fprintln(w, "  libraries:")
	for _, l := range b.Libraries {
		fmt.Fprintf(w, "    %-30s %s\n", l.Path, l.Version)
	}
}

func init() {
	versionCmd.Flags().Bool("json", false, "print the build details as JSON")
	rootCmd.AddCommand(versionCmd)
}
