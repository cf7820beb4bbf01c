package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_ChangesWithValues(t *testing.T) {
	d := loadTestInput(t, TurbSim, "wind", "TurbSim.inp")
	other := loadTestInput(t, TurbSim, "wind", "TurbSim.inp")
	assert.Equal(t, d.Hash(), other.Hash())
	assert.Len(t, d.Hash(), 64)

	require.NoError(t, d.Set("URef", 14))
	require.NoError(t, other.Set("URef", 15))
	assert.NotEqual(t, d.Hash(), other.Hash())

	require.NoError(t, other.Set("URef", 14))
	assert.Equal(t, d.Hash(), other.Hash())
}

func TestHash_IgnoresCommentsAndLayout(t *testing.T) {
	dir := t.TempDir()
	a, err := New(parseLines(
		"--- header one ---",
		"12   URef   - mean speed",
		"",
		`"IECKAI"   TurbModel`,
	), dir, TurbSim)
	require.NoError(t, err)

	b, err := New(parseLines(
		"--- a different header ---",
		"   12         URef",
		`"IECKAI"   TurbModel   - model`,
		"======",
	), dir, TurbSim)
	require.NoError(t, err)

	assert.Equal(t, a.Hash(), b.Hash())
}
