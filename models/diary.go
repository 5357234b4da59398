package models

import "time"

// DiaryEntry is one travel leg in the vehicle travel diary. Departure and
// arrival are stored as formatted 12-hour strings ("HH:MM AM/PM"), matching
// how the console displays them; legacy rows may still hold 24-hour "HH:MM"
// and are converted at read time.
type DiaryEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Date          string    `gorm:"size:16;not null;index" json:"date"`
	FromPlace     string    `gorm:"size:255" json:"from_place"`
	ToPlace       string    `gorm:"size:255" json:"to_place"`
	Departure     string    `gorm:"size:16" json:"departure"`
	Arrival       string    `gorm:"size:16" json:"arrival"`
	DistanceKM    float64   `gorm:"not null" json:"distance_km"`
	VehicleNumber string    `gorm:"size:16;not null" json:"vehicle_number"`
}

func (d *DiaryEntry) FieldSet() map[string]string {
	return map[string]string{
		"date":           d.Date,
		"from_place":     d.FromPlace,
		"to_place":       d.ToPlace,
		"departure":      d.Departure,
		"arrival":        d.Arrival,
		"distance_km":    trimFloat(d.DistanceKM),
		"vehicle_number": d.VehicleNumber,
	}
}
