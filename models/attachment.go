package models

import "time"

// Attachment is the single supplementary file allowed per record. Re-uploading
// replaces the row in place; deleting it leaves the parent record untouched.
type Attachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	RecordID     uint      `gorm:"uniqueIndex;not null" json:"record_id"`
	Record       Record    `gorm:"foreignKey:RecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UploaderID   uint      `gorm:"index;not null" json:"uploader_id"`
	UploaderName string    `gorm:"size:255" json:"uploader_name"`
	FileRef      `gorm:"embedded"`
}
