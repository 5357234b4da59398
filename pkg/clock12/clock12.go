// Package clock12 converts between the console's display form of time
// ("HH:MM AM/PM") and minutes since midnight, and computes trip durations.
// Storage keeps the formatted string, not a timestamp, so every consumer
// parses through here.
package clock12

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	AM = "AM"
	PM = "PM"
)

var twelveRE = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
var twentyFourRE = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Format renders hour (1-12), minute and period as the canonical zero-padded
// display string, e.g. Format(9, 5, "AM") == "09:05 AM".
func Format(hour, minute int, period string) string {
	return fmt.Sprintf("%02d:%02d %s", hour, minute, period)
}

// ToMinutes parses a 12-hour display string into minutes since midnight
// (0-1439). Returns ok=false on anything malformed; it never panics.
func ToMinutes(s string) (int, bool) {
	m := twelveRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, false
	}
	if hour == 12 {
		hour = 0
	}
	total := hour*60 + minute
	if m[3] == PM {
		total += 720
	}
	return total, true
}

// FromMinutes is the inverse of ToMinutes for minutes in [0,1439].
func FromMinutes(total int) (hour, minute int, period string) {
	period = AM
	if total >= 720 {
		period = PM
		total -= 720
	}
	hour = total / 60
	minute = total % 60
	if hour == 0 {
		hour = 12
	}
	return hour, minute, period
}

// From24h converts a legacy 24-hour "HH:MM" string to the 12-hour display
// form. Strings already in 12-hour form pass through unchanged. Used at read
// time only; stored values are never rewritten.
func From24h(s string) string {
	s = strings.TrimSpace(s)
	if twelveRE.MatchString(s) {
		return s
	}
	m := twentyFourRE.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return s
	}
	h, min, period := FromMinutes(hour*60 + minute)
	return Format(h, min, period)
}

// Duration returns the elapsed time between two 12-hour display strings as
// "Xh Ym". When the arrival is at or before the departure the trip is taken
// to end on the next calendar day (overnight travel), so
// Duration("11:30 PM", "12:15 AM") == "0h 45m". Returns "" when either input
// fails to parse.
func Duration(departure, arrival string) string {
	dep, ok := ToMinutes(departure)
	if !ok {
		return ""
	}
	arr, ok := ToMinutes(arrival)
	if !ok {
		return ""
	}
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	start := day.Add(time.Duration(dep) * time.Minute)
	end := day.Add(time.Duration(arr) * time.Minute)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	d := end.Sub(start)
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
