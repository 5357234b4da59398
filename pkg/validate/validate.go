// Package validate holds the field-level form rules shared by the console's
// CRUD screens. Every validator takes the raw submitted value and returns ""
// when it is acceptable or a human-readable reason when it is not; validators
// never panic. Format rules are conditional: an empty value passes unless the
// caller also applies Required.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"edak/pkg/clock12"
)

var (
	plateRE  = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z]{1,2}\d{4}$`)
	mobileRE = regexp.MustCompile(`^\d{10}$`)
	emailRE  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsRE = regexp.MustCompile(`^\d+$`)
	// at least one letter, Latin or Devanagari
	letterRE = regexp.MustCompile(`[A-Za-z\x{0900}-\x{097F}]`)
	oneDPRE  = regexp.MustCompile(`^\d+(\.\d)?$`)
	twoDPRE  = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	dateRE   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	wsRE     = regexp.MustCompile(`\s+`)
)

// Required rejects empty (or all-whitespace) values.
func Required(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return label + " is required"
	}
	return ""
}

// decimal enforces non-negativity, an upper bound and a decimal-place limit.
func decimal(label, value string, max float64, places *regexp.Regexp, placeHint string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "-") {
		return label + " cannot be negative"
	}
	if !places.MatchString(value) {
		return fmt.Sprintf("%s must be a number with at most %s", label, placeHint)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return label + " must be a number"
	}
	if f > max {
		return fmt.Sprintf("%s cannot exceed %v", label, max)
	}
	return ""
}

// Fuel validates a fuel quantity in litres (max 500, 2 decimal places).
func Fuel(value string) string {
	return decimal("fuel", value, 500, twoDPRE, "2 decimal places")
}

// Oil validates an oil quantity in litres (max 50, 2 decimal places).
func Oil(value string) string {
	return decimal("oil", value, 50, twoDPRE, "2 decimal places")
}

// Distance validates a trip distance in km (max 2000). Diary distances must
// additionally be strictly positive; see PositiveDistance.
func Distance(value string) string {
	return decimal("distance", value, 2000, twoDPRE, "2 decimal places")
}

// PositiveDistance is Distance plus a non-zero requirement.
func PositiveDistance(value string) string {
	if reason := Distance(value); reason != "" {
		return reason
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && f <= 0 {
		return "distance must be greater than zero"
	}
	return ""
}

// Odometer validates an odometer reading (max 9,999,999, 1 decimal place).
func Odometer(value string) string {
	return decimal("odometer reading", value, 9999999, oneDPRE, "1 decimal place")
}

// OdometerPair checks that the after reading strictly exceeds the before
// reading. Callers clear the derived distance instead of persisting one when
// this fails.
func OdometerPair(before, after string) string {
	b, err1 := strconv.ParseFloat(strings.TrimSpace(before), 64)
	a, err2 := strconv.ParseFloat(strings.TrimSpace(after), 64)
	if err1 != nil || err2 != nil {
		return "odometer readings must be numbers"
	}
	if a <= b {
		return "after reading must be greater than before reading"
	}
	return ""
}

// Text validates free-text fields such as locations, purpose and driver name:
// length bounds, not all digits, and at least one Latin or Devanagari letter.
func Text(label, value string, min, max int) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len([]rune(value)) < min {
		return fmt.Sprintf("%s must be at least %d characters", label, min)
	}
	if len([]rune(value)) > max {
		return fmt.Sprintf("%s must be at most %d characters", label, max)
	}
	if digitsRE.MatchString(wsRE.ReplaceAllString(value, "")) {
		return label + " cannot be only digits"
	}
	if !letterRE.MatchString(value) {
		return label + " must contain at least one letter"
	}
	return ""
}

// NormalizeVehicleNumber strips all whitespace and uppercases, the form the
// plate is stored in. Applied at input capture, not only at submit.
func NormalizeVehicleNumber(value string) string {
	return strings.ToUpper(wsRE.ReplaceAllString(value, ""))
}

// VehicleNumber validates a registration plate such as "MH 10 GF 3456".
func VehicleNumber(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if !plateRE.MatchString(NormalizeVehicleNumber(value)) {
		return "vehicle number must look like MH12AB1234"
	}
	return ""
}

// ArrivalAfterDeparture enforces the logbook rule: both times parse and the
// arrival is strictly later within the same day, compared as minutes since
// midnight. Overnight pairs are rejected here even though the diary duration
// display wraps them; the two screens disagree on purpose.
func ArrivalAfterDeparture(departure, arrival string) string {
	dep, depOK := clock12.ToMinutes(departure)
	arr, arrOK := clock12.ToMinutes(arrival)
	if !depOK || !arrOK {
		return "times must be in HH:MM AM/PM form"
	}
	if arr <= dep {
		return "arrival time must be later than departure time"
	}
	return ""
}

// TwelveHour validates a displayed time such as "09:30 AM".
func TwelveHour(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if _, ok := clock12.ToMinutes(value); !ok {
		return label + " must be in HH:MM AM/PM form"
	}
	return ""
}

// Mobile validates a 10-digit mobile number.
func Mobile(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if !mobileRE.MatchString(strings.TrimSpace(value)) {
		return "mobile must be exactly 10 digits"
	}
	return ""
}

// Email validates a plain single-@ address.
func Email(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if !emailRE.MatchString(strings.TrimSpace(value)) {
		return "email is not a valid address"
	}
	return ""
}

// Date validates a YYYY-MM-DD calendar date.
func Date(label, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if !dateRE.MatchString(value) {
		return label + " must be in YYYY-MM-DD form"
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return label + " is not a real calendar date"
	}
	return ""
}

// OneOf checks membership in a fixed set of accepted values.
func OneOf(label, value string, accepted []string) string {
	for _, a := range accepted {
		if value == a {
			return ""
		}
	}
	return label + " must be one of " + strings.Join(accepted, ", ")
}
