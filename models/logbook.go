package models

import (
	"strconv"
	"time"
)

// LogBookEntry is one vehicle-use record. Entries written by an admin land in
// the shared partition (OwnerID nil); entries by a subadmin are keyed to that
// user and invisible outside it.
type LogBookEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	OwnerID    *uint     `gorm:"index" json:"owner_id,omitempty"`
	Date       string    `gorm:"size:16;not null;index" json:"date"`
	FuelLitres float64   `json:"fuel_litres"`
	OilLitres  float64   `json:"oil_litres"`
	Departure  string    `gorm:"size:16" json:"departure"`
	Arrival    string    `gorm:"size:16" json:"arrival"`
	FromPlace  string    `gorm:"size:255" json:"from_place"`
	ToPlace    string    `gorm:"size:255" json:"to_place"`
	OdoBefore  float64   `json:"odo_before"`
	OdoAfter   float64   `json:"odo_after"`
	DistanceKM float64   `json:"distance_km"`
	Purpose    string    `gorm:"size:512" json:"purpose"`
	DriverName string    `gorm:"size:255" json:"driver_name"`
}

func (l *LogBookEntry) FieldSet() map[string]string {
	return map[string]string{
		"date":        l.Date,
		"fuel_litres": trimFloat(l.FuelLitres),
		"oil_litres":  trimFloat(l.OilLitres),
		"departure":   l.Departure,
		"arrival":     l.Arrival,
		"from_place":  l.FromPlace,
		"to_place":    l.ToPlace,
		"odo_before":  trimFloat(l.OdoBefore),
		"odo_after":   trimFloat(l.OdoAfter),
		"distance_km": trimFloat(l.DistanceKM),
		"purpose":     l.Purpose,
		"driver_name": l.DriverName,
	}
}

// trimFloat renders a float without trailing zeros so field sets compare
// stably regardless of how the value was parsed.
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
