// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docconv CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/internal/container"
	"github.com/pdiddy/docconv/internal/convert"
	"github.com/pdiddy/docconv/internal/docx"
	"github.com/pdiddy/docconv/internal/journal"
	"github.com/pdiddy/docconv/internal/office"
	"github.com/pdiddy/docconv/internal/tables"
	"github.com/pdiddy/docconv/internal/workbook"
	"github.com/pdiddy/docconv/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is the diagnostics logger, configured from log_level before any
// subcommand runs.
var logger = slog.Default()

// rootCmd is the base command for the docconv CLI.
var rootCmd = &cobra.Command{
	Use:   "docconv",
	Short: "Convert documents between PDF, Word and Excel",
	Long: `docconv converts documents between PDF, Word (.docx) and Excel (.xlsx).

Tables are pulled out of PDFs with tabula-java when it is installed and with
the built-in layout analyser otherwise. Word and Excel files are exported to
PDF through LibreOffice, run locally or in a container. A directory is
converted file by file when --batch is given.

Use "docconv capabilities" to see which optional tools were found.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(viper.GetString("log_level"))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docconv.yaml or ~/.config/docconv/docconv.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "diagnostics level: debug, info, warn, or error")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docconv"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("DOCCONV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("tabula.enabled", true)
	viper.SetDefault("tabula.java", "java")
	viper.SetDefault("tabula.jar", "")
	viper.SetDefault("layout.enabled", true)
	viper.SetDefault("layout.line_tolerance", 2.0)
	viper.SetDefault("layout.column_tolerance", 8.0)
	viper.SetDefault("document.enabled", true)
	viper.SetDefault("spreadsheet.enabled", true)
	viper.SetDefault("office.enabled", true)
	viper.SetDefault("office.binary", "")
	viper.SetDefault("office.image", "")
	viper.SetDefault("office.timeout", office.DefaultTimeout)
	viper.SetDefault("office.temp_dir", "")
	viper.SetDefault("journal.enabled", true)
	viper.SetDefault("journal.path", journal.DefaultPath())
}

// loadConfig reads every component setting from viper.
func loadConfig() types.Config {
	return types.Config{
		Tabula: types.TabulaConfig{
			Enabled: viper.GetBool("tabula.enabled"),
			Java:    viper.GetString("tabula.java"),
			Jar:     viper.GetString("tabula.jar"),
		},
		Layout: types.LayoutConfig{
			Enabled:         viper.GetBool("layout.enabled"),
			LineTolerance:   viper.GetFloat64("layout.line_tolerance"),
			ColumnTolerance: viper.GetFloat64("layout.column_tolerance"),
		},
		Document:    types.DocumentConfig{Enabled: viper.GetBool("document.enabled")},
		Spreadsheet: types.SpreadsheetConfig{Enabled: viper.GetBool("spreadsheet.enabled")},
		Office: types.OfficeConfig{
			Enabled: viper.GetBool("office.enabled"),
			Binary:  viper.GetString("office.binary"),
			Image:   viper.GetString("office.image"),
			Timeout: viper.GetDuration("office.timeout"),
			TempDir: viper.GetString("office.temp_dir"),
		},
		Journal: types.JournalConfig{
			Enabled: viper.GetBool("journal.enabled"),
			Path:    viper.GetString("journal.path"),
		},
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// components holds everything built from the configuration.
type components struct {
	registry *capability.Registry
	chain    *tables.Chain
	docs     *docx.Binding
	sheets   *workbook.Binding
	office   *office.Driver
}

// probe builds every binding and resolves the capability registry once.
func probe(ctx context.Context, cfg types.Config) components {
	exec := container.OSExecutor{}

	tabula := tables.NewTabulaStrategy(cfg.Tabula, exec, logger)
	layout := tables.NewLayoutStrategy(cfg.Layout)
	docs := docx.NewBinding(cfg.Document, cfg.Layout)
	sheets := workbook.NewBinding(cfg.Spreadsheet, logger)
	driver := office.NewDriver(ctx, cfg.Office, exec, logger)

	registry := capability.NewRegistry(logger, tabula, layout, docs, sheets, driver)
	return components{
		registry: registry,
		chain:    tables.NewChain(registry, logger, tabula, layout),
		docs:     docs,
		sheets:   sheets,
		office:   driver,
	}
}

// newConverter wires a Converter and, when enabled, the history journal.
// A journal that cannot be opened is logged and left out; conversions run
// without history. The returned close function releases the journal.
func newConverter(ctx context.Context, cfg types.Config) (*convert.Converter, func()) {
	c := probe(ctx, cfg)
	opts := []convert.Option{convert.WithLogger(logger)}

	closeFn := func() {}
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			logger.Warn("journal.open_failed", "path", cfg.Journal.Path, "error", err)
		} else {
			opts = append(opts, convert.WithRecorder(j))
			closeFn = func() { j.Close() }
		}
	}

	conv := convert.New(c.registry, convert.Bindings{
		Tables:    c.chain,
		Documents: c.docs,
		Sheets:    c.sheets,
		Office:    c.office,
	}, opts...)
	return conv, closeFn
}

// probeTimeout bounds container runtime detection at startup.
const probeTimeout = 30 * time.Second

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
