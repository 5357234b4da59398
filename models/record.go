package models

import "time"

type Department string
type RecordStatus string

const (
	DeptGeneral       Department = "general"
	DeptRevenue       Department = "revenue"
	DeptAccounts      Department = "accounts"
	DeptEstablishment Department = "establishment"
	DeptLegal         Department = "legal"
	DeptOther         Department = "other"
)

const (
	StatusPending     RecordStatus = "Pending"
	StatusInProgress  RecordStatus = "InProgress"
	StatusUnderReview RecordStatus = "UnderReview"
	StatusCompleted   RecordStatus = "Completed"
	StatusOnHold      RecordStatus = "OnHold"
	StatusRejected    RecordStatus = "Rejected"
	StatusArchived    RecordStatus = "Archived"
)

// Departments lists the accepted department values for validation.
var Departments = []Department{DeptGeneral, DeptRevenue, DeptAccounts, DeptEstablishment, DeptLegal, DeptOther}

// RecordStatuses lists the accepted status values for validation.
var RecordStatuses = []RecordStatus{StatusPending, StatusInProgress, StatusUnderReview, StatusCompleted, StatusOnHold, StatusRejected, StatusArchived}

// FileRef holds metadata for a stored blob. Embedded flat into the owning row
// so readers never see a missing sub-object.
type FileRef struct {
	FileName    string `gorm:"size:255" json:"file_name"`
	FileURL     string `gorm:"size:512" json:"file_url"`
	FileSize    int64  `json:"file_size"`
	ContentType string `gorm:"size:128" json:"content_type"`
	Category    string `gorm:"size:64" json:"category"`
	StorePath   string `gorm:"column:store_path;size:512" json:"store_path"`
}

// Record is one tracked incoming correspondence file.
type Record struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Department    Department   `gorm:"size:32;not null;index" json:"department"`
	SubType       string       `gorm:"size:128" json:"sub_type"`
	Subject       string       `gorm:"size:512;not null" json:"subject"`
	Sender        string       `gorm:"size:255" json:"sender"`
	Assignee      string       `gorm:"size:255" json:"assignee"`
	Status        RecordStatus `gorm:"size:32;not null;index" json:"status"`
	InwardNumber  string       `gorm:"size:64;not null;uniqueIndex" json:"inward_number"`
	InwardDate    string       `gorm:"size:16" json:"inward_date"`
	ReceivingDate string       `gorm:"size:16" json:"receiving_date"`
	Description   string       `gorm:"type:text" json:"description"`
	FileRef       `gorm:"embedded"`
}

// FieldSet returns the normalized persisted shape excluding timestamps and the
// generated id. Used for change detection on edit.
func (r *Record) FieldSet() map[string]string {
	return map[string]string{
		"department":     string(r.Department),
		"sub_type":       r.SubType,
		"subject":        r.Subject,
		"sender":         r.Sender,
		"assignee":       r.Assignee,
		"status":         string(r.Status),
		"inward_number":  r.InwardNumber,
		"inward_date":    r.InwardDate,
		"receiving_date": r.ReceivingDate,
		"description":    r.Description,
		"store_path":     r.StorePath,
	}
}
