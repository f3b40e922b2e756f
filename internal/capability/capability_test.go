// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProbe records how many times Available is called.
type countingProbe struct {
	name    Name
	present bool
	calls   int
}

func (p *countingProbe) Capability() Name { return p.name }
func (p *countingProbe) Available() bool {
	p.calls++
	return p.present
}

// static is a probe with a fixed answer.
type static struct {
	Name    Name
	Present bool
	Detail  string
}

func (s static) Capability() Name { return s.Name }
func (s static) Available() bool  { return s.Present }
func (s static) Describe() string { return s.Detail }

func TestRegistryResolvesOnce(t *testing.T) {
	p := &countingProbe{name: Tabula, present: true}
	r := NewRegistry(nil, p)

	for i := 0; i < 3; i++ {
		assert.True(t, r.Available(Tabula))
	}
	assert.Equal(t, 1, p.calls)

	// Later changes in the environment are not observed.
	p.present = false
	assert.True(t, r.Available(Tabula))
}

func TestRegistryRequire(t *testing.T) {
	r := NewRegistry(nil,
		static{Name: Spreadsheet, Present: true},
		static{Name: OfficeAutomation, Present: false},
	)

	require.NoError(t, r.Require(Spreadsheet))

	err := r.Require(OfficeAutomation)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissing))
	assert.Contains(t, err.Error(), "office-automation")

	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, OfficeAutomation, missing.Name)

	err = r.Require(Name("never-registered"))
	assert.True(t, errors.Is(err, ErrMissing))
}

func TestRegistryStatuses(t *testing.T) {
	r := NewRegistry(nil,
		static{Name: Tabula, Present: false, Detail: "java not found"},
		static{Name: DocumentModel, Present: true},
		nil,
	)
	got := r.Statuses()
	require.Len(t, got, 2)
	assert.Equal(t, DocumentModel, got[0].Name)
	assert.Equal(t, Tabula, got[1].Name)
	assert.Equal(t, "java not found", got[1].Detail)
}

func TestRegistryDuplicateNamesPreferAvailable(t *testing.T) {
	r := NewRegistry(nil,
		static{Name: PDFLayout, Present: true},
		static{Name: PDFLayout, Present: false},
	)
	assert.True(t, r.Available(PDFLayout))
}
