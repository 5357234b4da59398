package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthBounds(t *testing.T) {
	start, end, err := MonthBounds("2025-04")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", start)
	assert.Equal(t, "2025-05-01", end)

	start, end, err = MonthBounds("2024-12")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-01", start)
	assert.Equal(t, "2025-01-01", end)

	_, _, err = MonthBounds("April 2025")
	assert.Error(t, err)
}
