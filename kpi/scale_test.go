package kpi

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{"0", 0},
		{"380000", 380000000},
		{"1234.567", 1234567},
		{"1234.5674", 1234567},
		{"1234.5675", 1234568}, // half rounds away from zero
		{"-1234.5675", -1234568},
		{"-0.0004", 0},
		{"0.001", 1},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			dec, _, err := apd.NewFromString(tt.value)
			require.NoError(t, err)

			got, err := Scale(dec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScaleNil(t *testing.T) {
	got, err := Scale(nil)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestScaleOverflow(t *testing.T) {
	huge, _, err := apd.NewFromString("1e30")
	require.NoError(t, err)

	_, err = Scale(huge)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "int64")
}
