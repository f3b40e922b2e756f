// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/docconv/pkg/types"
)

func newBinding() *Binding {
	return NewBinding(types.SpreadsheetConfig{Enabled: true}, nil)
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	in := []types.Dataset{
		{Name: "Tabela_1", Header: []string{"Item", "Qty"}, Rows: [][]string{{"Apple", "3"}, {"Pear", "5"}}},
		{Name: "Tabela_2", Header: []string{"Code"}, Rows: [][]string{{"007"}}},
	}
	b := newBinding()
	require.NoError(t, b.Write(path, in))

	got, err := b.Read(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, in[0], got[0])
	assert.Equal(t, "Tabela_2", got[1].Name)
	assert.Equal(t, [][]string{{"007"}}, got[1].Rows, "cell text is kept verbatim")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Tabela_1", "Tabela_2"}, f.GetSheetList())
	assert.Equal(t, 0, f.GetActiveSheetIndex())
}

func TestWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	b := newBinding()
	require.NoError(t, b.Write(path, []types.Dataset{{Name: "P1_T1", Header: []string{"a"}}}))
	got, err := b.Read(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "P1_T1", got[0].Name)
	assert.Equal(t, []string{"a"}, got[0].Header)
	assert.Empty(t, got[0].Rows)
}

func TestWriteNoDatasets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	assert.ErrorIs(t, newBinding().Write(path, nil), ErrNoDatasets)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestReadPadsRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "City"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Ana"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", "Porto"))
	_, err := f.NewSheet("Empty")
	require.NoError(t, err)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := newBinding().Read(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Name", "City"}, got[0].Header)
	assert.Equal(t, [][]string{{"Ana", ""}, {"", "Porto"}}, got[0].Rows)
	assert.Equal(t, "Empty", got[1].Name)
	assert.Empty(t, got[1].Header)
	assert.Empty(t, got[1].Rows)
}

func TestReadErrors(t *testing.T) {
	_, err := newBinding().Read(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening workbook")
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "Tabela_1", SheetName("Tabela_1", 1, used))
	assert.Equal(t, "tabela_1_2", SheetName("tabela_1", 2, used))
	assert.Equal(t, "a_b_c_d", SheetName("a/b:c?d", 3, used))
	assert.Equal(t, "Sheet4", SheetName("  ", 4, used))

	long := SheetName("a very long sheet name that exceeds the limit", 5, used)
	assert.Len(t, long, 31)
	again := SheetName("a very long sheet name that exceeds the limit", 6, used)
	assert.Len(t, again, 31)
	assert.NotEqual(t, long, again)
}

func TestAvailability(t *testing.T) {
	assert.True(t, newBinding().Available())
	assert.False(t, NewBinding(types.SpreadsheetConfig{}, nil).Available())
}
