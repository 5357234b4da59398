package models

import (
	"time"
)

// User is a console account. Email is the login identity and immutable after
// creation; update handlers never rewrite it.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Mobile         string    `gorm:"size:16" json:"mobile"`
	HashedPassword []byte    `gorm:"not null" json:"-"`
	RoleID         *uint     `gorm:"index" json:"role_id,omitempty"`
	Role           Role      `gorm:"foreignKey:RoleID;references:ID" json:"role"`
}
