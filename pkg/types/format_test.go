// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "pdf", want: FormatPDF},
		{in: "PDF", want: FormatPDF},
		{in: ".pdf", want: FormatPDF},
		{in: "word", want: FormatWord},
		{in: "Docx", want: FormatWord},
		{in: "excel", want: FormatSpreadsheet},
		{in: " xlsx ", want: FormatSpreadsheet},
		{in: "spreadsheet", want: FormatSpreadsheet},
		{in: "odt", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatExtension(t *testing.T) {
	assert.Equal(t, ".pdf", FormatPDF.Extension())
	assert.Equal(t, ".docx", FormatWord.Extension())
	assert.Equal(t, ".xlsx", FormatSpreadsheet.Extension())
	assert.Equal(t, "", Format("odt").Extension())
	assert.False(t, Format("odt").Valid())
	for _, f := range Formats() {
		assert.True(t, f.Valid(), f)
	}
}

func TestDatasetFromRows(t *testing.T) {
	d := DatasetFromRows("Tabela_1", [][]string{
		{"Name", "Qty"},
		{"apple", "3"},
		{"pear", "1", "extra"},
	})
	assert.Equal(t, "Tabela_1", d.Name)
	assert.Equal(t, []string{"Name", "Qty"}, d.Header)
	assert.Len(t, d.Rows, 2)
	assert.Equal(t, 3, d.Width())

	empty := DatasetFromRows("x", nil)
	assert.Nil(t, empty.Header)
	assert.Empty(t, empty.Rows)
}
