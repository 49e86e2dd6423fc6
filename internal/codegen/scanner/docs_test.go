package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiDocs = "Units module\n" +
	"------------\n\n" +
	"* ``dfhack.units.getPosition(unit)``\n\n" +
	"  Returns the true *x,y,z* of the unit, or *nil* if invalid.\n\n" +
	"* ``dfhack.units.isCitizen(unit)``\n" +
	"* ``dfhack.units.isResident(unit)``\n\n" +
	"  Check the unit's citizenship.\n"

func TestParseDocs(t *testing.T) {
	docs, err := ParseDocs(apiDocs)
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	text, ok := docs.Lookup("units", "getposition")
	require.True(t, ok)
	assert.Contains(t, text, "Returns the true")
	assert.NotContains(t, text, "citizenship")

	for _, fn := range []string{"isCitizen", "isResident"} {
		text, ok := docs.Lookup("Units", fn)
		require.True(t, ok, fn)
		assert.Contains(t, text, "Check the unit's citizenship.")
	}

	_, ok = docs.Lookup("units", "missing")
	assert.False(t, ok)
}

func TestParseDocsEmpty(t *testing.T) {
	docs, err := ParseDocs("no bullets here\n")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in       string
		owner    string
		fn       string
		withSelf bool
	}{
		{"dfhack.units.getPosition(unit)", "units", "getPosition", false},
		{"dfhack.gui.getCurViewscreen()", "gui", "getCurViewscreen", false},
		{"Painter:fill(x1,y1)", "Painter", "fill", true},
		{"function helper()", "", "helper", false},
		{"dfhack.print(args...)", "", "print", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			owner, fn, withSelf := SplitName(tt.in)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.fn, fn)
			assert.Equal(t, tt.withSelf, withSelf)
		})
	}
}
