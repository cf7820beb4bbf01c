package document

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pitch float64

func TestFormatScalar(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "string", value: "abc", expected: "abc"},
		{name: "int", value: 12, expected: "12"},
		{name: "negative int", value: int64(-3), expected: "-3"},
		{name: "uint", value: uint8(7), expected: "7"},
		{name: "integral float", value: 11.0, expected: "11.0"},
		{name: "float", value: 0.001, expected: "0.001"},
		{name: "float32", value: float32(2.5), expected: "2.5"},
		{name: "tiny float", value: 1e-5, expected: "1e-05"},
		{name: "huge float", value: 1e16, expected: "1e+16"},
		{name: "zero float", value: 0.0, expected: "0.0"},
		{name: "nan", value: math.NaN(), expected: "nan"},
		{name: "inf", value: math.Inf(-1), expected: "-inf"},
		{name: "true", value: true, expected: "True"},
		{name: "false", value: false, expected: "False"},
		{name: "stringer", value: 90 * time.Second, expected: "1m30s"},
		{name: "named float", value: pitch(4), expected: "4.0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := formatScalar(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFormatScalar_Rejects(t *testing.T) {
	for _, v := range []any{nil, []string{"a"}, map[int]int{}, &struct{}{}} {
		_, err := formatScalar(v)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	}
}
