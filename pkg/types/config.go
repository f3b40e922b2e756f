package types

import "time"

// TabulaConfig holds settings for the tabula-java table extractor.
type TabulaConfig struct {
	// Enabled turns the extractor off even when java and the jar exist.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Java is the java launcher to run (default "java", resolved on PATH).
	Java string `json:"java" yaml:"java"`

	// Jar is the path to the tabula-java standalone jar.
	Jar string `json:"jar" yaml:"jar"`
}

// LayoutConfig holds settings for the built-in layout table extractor.
type LayoutConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// LineTolerance is the vertical distance in PDF points under which two
	// text fragments belong to the same line (default 2).
	LineTolerance float64 `json:"line_tolerance" yaml:"line_tolerance"`

	// ColumnTolerance is the horizontal distance in PDF points under which
	// two fragment origins belong to the same column (default 8).
	ColumnTolerance float64 `json:"column_tolerance" yaml:"column_tolerance"`
}

// DocumentConfig holds settings for the Word document-model capability.
type DocumentConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// SpreadsheetConfig holds settings for the workbook capability.
type SpreadsheetConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// OfficeConfig holds settings for the office-automation driver.
type OfficeConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Binary is the office suite executable (default: first of soffice,
	// libreoffice found on PATH).
	Binary string `json:"binary" yaml:"binary"`

	// Image is a container image with LibreOffice, used when no local
	// binary is found and docker or podman is available.
	Image string `json:"image,omitempty" yaml:"image,omitempty"`

	// Timeout bounds a single export (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// TempDir is where per-session profile and output directories are
	// created (default os.TempDir()).
	TempDir string `json:"temp_dir,omitempty" yaml:"temp_dir,omitempty"`
}

// JournalConfig holds settings for the conversion history database.
type JournalConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default
	// ~/.config/docconv/history.db).
	Path string `json:"path" yaml:"path"`
}

// Config groups the settings of every component.
type Config struct {
	Tabula      TabulaConfig      `json:"tabula" yaml:"tabula"`
	Layout      LayoutConfig      `json:"layout" yaml:"layout"`
	Document    DocumentConfig    `json:"document" yaml:"document"`
	Spreadsheet SpreadsheetConfig `json:"spreadsheet" yaml:"spreadsheet"`
	Office      OfficeConfig      `json:"office" yaml:"office"`
	Journal     JournalConfig     `json:"journal" yaml:"journal"`
}
