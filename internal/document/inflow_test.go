package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindType(t *testing.T) {
	d := loadTestInput(t, InflowWind, "v8", "InflowWind.dat")

	name, err := WindType(d)
	require.NoError(t, err)
	assert.Equal(t, "steady", name)

	require.NoError(t, SetWindType(d, "turbsim"))
	raw, err := d.Get("WindType")
	require.NoError(t, err)
	assert.Equal(t, "3", raw)

	err = SetWindType(d, "sinusoidal")
	assert.ErrorIs(t, err, ErrInvalidReference)

	assert.Equal(t, []string{"steady", "uniform", "turbsim", "bladed", "hawc", "dll"}, WindTypeNames())
}

func TestSetWindFile_PerType(t *testing.T) {
	testCases := []struct {
		windType   string
		file       string
		key        string
		occurrence int
		expected   string
	}{
		{windType: "uniform", file: "/winds/gust.hh", key: "Filename", occurrence: 1, expected: "/winds/gust.hh"},
		{windType: "turbsim", file: "/winds/box.bts", key: "Filename", occurrence: 2, expected: "/winds/box.bts"},
		{windType: "bladed", file: "/winds/box.wnd", key: "FilenameRoot", occurrence: 1, expected: "/winds/box"},
	}

	for _, tc := range testCases {
		t.Run(tc.windType, func(t *testing.T) {
			d := loadTestInput(t, InflowWind, "v8", "InflowWind.dat")
			require.NoError(t, SetWindType(d, tc.windType))
			require.NoError(t, SetWindFile(d, tc.file))

			got, err := d.GetNth(tc.key, tc.occurrence)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)

			viaHelper, err := WindFile(d)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, viaHelper)

			out, err := d.ToFile(filepath.Join(t.TempDir(), "InflowWind.dat"))
			require.NoError(t, err)
			written, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Contains(t, string(written), `"`+tc.expected+`"`)
		})
	}
}

func TestSetWindFile_NumberedKeys(t *testing.T) {
	d, err := New(parseLines(
		"          3   WindType",
		`"old.hh"   FilenameT2`,
		`"old.bts"   FilenameT3`,
	), t.TempDir(), Generic)
	require.NoError(t, err)

	require.NoError(t, SetWindFile(d, "new.bts"))
	v, err := d.Get("FilenameT3")
	require.NoError(t, err)
	assert.Equal(t, "new.bts", v)

	v, err = d.Get("FilenameT2")
	require.NoError(t, err)
	assert.Equal(t, "old.hh", v)
}

func TestSetWindFile_UnsupportedType(t *testing.T) {
	d := loadTestInput(t, InflowWind, "v8", "InflowWind.dat")
	before := d.String()

	err := SetWindFile(d, "/winds/box.bts")
	require.ErrorIs(t, err, ErrInvalidReference)
	assert.Equal(t, before, d.String())

	_, err = WindFile(d)
	assert.ErrorIs(t, err, ErrInvalidReference)
}
