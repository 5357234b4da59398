package models

import "time"

// Role names used throughout the console. Exactly these two exist.
const (
	RoleAdmin    = "admin"
	RoleSubAdmin = "subadmin"
)

// Role represents user roles with numeric primary key
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
}
