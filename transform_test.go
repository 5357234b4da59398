package main

import (
	"testing"

	"edak/models"

	"github.com/stretchr/testify/assert"
)

func TestSameFieldSet(t *testing.T) {
	a := map[string]string{"subject": "x", "sender": "y"}
	b := map[string]string{"subject": "x", "sender": "y"}
	assert.True(t, sameFieldSet(a, b))

	b["sender"] = "z"
	assert.False(t, sameFieldSet(a, b))
	assert.False(t, sameFieldSet(a, map[string]string{"subject": "x"}))
}

func TestFieldErrorsFirstReasonWins(t *testing.T) {
	fe := fieldErrors{}
	fe.add("subject", "")
	assert.True(t, fe.ok())
	fe.add("subject", "subject is required")
	fe.add("subject", "subject too short")
	assert.Equal(t, "subject is required", fe["subject"])
	assert.False(t, fe.ok())
}

func TestParseFloat(t *testing.T) {
	assert.Equal(t, 0.0, parseFloat(""))
	assert.Equal(t, 12.5, parseFloat(" 12.5 "))
}

func TestRecordFormApplyNormalizes(t *testing.T) {
	f := recordForm{
		Department:   "general",
		Subject:      "  Water supply complaint ",
		Status:       "Pending",
		InwardNumber: " IN-001 ",
	}
	var r models.Record
	f.apply(&r)
	assert.Equal(t, "Water supply complaint", r.Subject)
	assert.Equal(t, "IN-001", r.InwardNumber)
	// absent optional fields default to "", never missing
	assert.Equal(t, "", r.Sender)
	assert.Equal(t, "", r.Description)
}

func TestRecordEditNoOpDetection(t *testing.T) {
	existing := models.Record{
		Department:   models.DeptGeneral,
		Subject:      "Water supply complaint",
		Status:       models.StatusPending,
		InwardNumber: "IN-001",
	}
	form := recordForm{
		Department:   "general",
		Subject:      " Water supply complaint ",
		Status:       "Pending",
		InwardNumber: "IN-001",
	}
	updated := existing
	form.apply(&updated)
	assert.True(t, sameFieldSet(updated.FieldSet(), existing.FieldSet()),
		"whitespace-only edits are no-ops")

	form.Status = "Completed"
	updated = existing
	form.apply(&updated)
	assert.False(t, sameFieldSet(updated.FieldSet(), existing.FieldSet()))
}

func TestDiaryFormApplyNormalizesVehicle(t *testing.T) {
	f := diaryForm{Date: "2025-04-01", Distance: "12.5", VehicleNumber: " mh 10 gf 3456 "}
	var e models.DiaryEntry
	f.apply(&e)
	assert.Equal(t, "MH10GF3456", e.VehicleNumber)
	assert.Equal(t, 12.5, e.DistanceKM)
}

func TestLogBookFormDerivesDistance(t *testing.T) {
	f := logBookForm{Date: "2025-04-01", OdoBefore: "1000", OdoAfter: "1050.5"}
	var e models.LogBookEntry
	f.apply(&e)
	assert.Equal(t, 50.5, e.DistanceKM)

	// non-increasing pair clears the derived distance
	f.OdoAfter = "1000"
	f.apply(&e)
	assert.Equal(t, 0.0, e.DistanceKM)
}

func TestValidateLogBookFormRejectsOvernight(t *testing.T) {
	f := logBookForm{
		Date:      "2025-04-01",
		Departure: "11:30 PM",
		Arrival:   "12:15 AM",
		OdoBefore: "1000",
		OdoAfter:  "1010",
	}
	fe := validateLogBookForm(f)
	assert.Contains(t, fe["arrival"], "later than departure")
}

func TestValidateLogBookFormBoundaries(t *testing.T) {
	f := logBookForm{Date: "2025-04-01", OdoBefore: "1000", OdoAfter: "1000.1"}
	assert.True(t, validateLogBookForm(f).ok())

	f.OdoAfter = "1000"
	assert.False(t, validateLogBookForm(f).ok())

	f.OdoAfter = "1000.1"
	f.Fuel = "500"
	assert.True(t, validateLogBookForm(f).ok())
	f.Fuel = "500.01"
	assert.False(t, validateLogBookForm(f).ok())
}

func TestValidateDiaryFormAllowsOvernightPair(t *testing.T) {
	f := diaryForm{
		Date:          "2025-04-01",
		Departure:     "11:30 PM",
		Arrival:       "12:15 AM",
		Distance:      "45",
		VehicleNumber: "MH10GF3456",
	}
	assert.True(t, validateDiaryForm(f).ok(), "the diary does not reject overnight trips")

	f.Distance = "2000.1"
	assert.False(t, validateDiaryForm(f).ok())
	f.Distance = "2000"
	assert.True(t, validateDiaryForm(f).ok())
}

func TestValidateRecordForm(t *testing.T) {
	f := recordForm{
		Department:   "general",
		Subject:      "Road repair request",
		Status:       "Pending",
		InwardNumber: "IN-001",
		InwardDate:   "2025-04-01",
	}
	assert.True(t, validateRecordForm(f).ok())

	f.Status = "Done"
	assert.False(t, validateRecordForm(f).ok())
	f.Status = "Pending"
	f.InwardNumber = ""
	assert.False(t, validateRecordForm(f).ok())
}

func TestValidateUserForm(t *testing.T) {
	f := userForm{Name: "Clerk One", Email: "clerk@office.gov.in", Mobile: "9876543210", Role: "subadmin"}
	assert.True(t, validateUserForm(f, true).ok())

	f.Mobile = "98765"
	assert.False(t, validateUserForm(f, true).ok())
	f.Mobile = "9876543210"
	f.Role = "root"
	assert.False(t, validateUserForm(f, true).ok())
}
