package clock12

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for _, period := range []string{AM, PM} {
		for hour := 1; hour <= 12; hour++ {
			for minute := 0; minute <= 59; minute++ {
				s := Format(hour, minute, period)
				total, ok := ToMinutes(s)
				require.True(t, ok, "failed to parse %q", s)
				h, m, p := FromMinutes(total)
				require.Equal(t, hour, h, "hour mismatch for %q", s)
				require.Equal(t, minute, m, "minute mismatch for %q", s)
				require.Equal(t, period, p, "period mismatch for %q", s)
			}
		}
	}
}

func TestToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12:00 AM", 0, true},
		{"12:00 PM", 720, true},
		{"01:00 AM", 60, true},
		{"11:59 PM", 1439, true},
		{"9:05 AM", 545, true},
		{"11:30PM", 1410, true},
		{"13:00 PM", 0, false},
		{"00:10 AM", 0, false},
		{"10:75 AM", 0, false},
		{"10:30", 0, false},
		{"half past nine", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ToMinutes(tt.in)
		assert.Equal(t, tt.ok, ok, "ok for %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "minutes for %q", tt.in)
		}
	}
}

func TestFrom24h(t *testing.T) {
	assert.Equal(t, "01:05 PM", From24h("13:05"))
	assert.Equal(t, "12:00 AM", From24h("00:00"))
	assert.Equal(t, "12:30 PM", From24h("12:30"))
	assert.Equal(t, "11:59 PM", From24h("23:59"))
	// already migrated values pass through
	assert.Equal(t, "09:15 AM", From24h("09:15 AM"))
	// garbage passes through untouched
	assert.Equal(t, "25:00", From24h("25:00"))
	assert.Equal(t, "soon", From24h("soon"))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "2h 30m", Duration("10:00 AM", "12:30 PM"))
	assert.Equal(t, "0h 45m", Duration("11:30 PM", "12:15 AM"))
	// equal times wrap a full day
	assert.Equal(t, "24h 0m", Duration("08:00 AM", "08:00 AM"))
	assert.Equal(t, "", Duration("nope", "12:15 AM"))
	assert.Equal(t, "", Duration("11:30 PM", ""))
}
