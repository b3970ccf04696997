package models

import "time"

// SubmissionStatusHistory tracks historical status changes for submissions.
type SubmissionStatusHistory struct {
	HistoryID    string    `gorm:"primaryKey;column:history_id;size:36" json:"history_id"`
	SubmissionID string    `gorm:"column:submission_id;size:36;index" json:"submission_id"`
	OldStatus    Status    `gorm:"column:old_status;size:16" json:"old_status"`
	NewStatus    Status    `gorm:"column:new_status;size:16" json:"new_status"`
	ChangedBy    string    `gorm:"column:changed_by;size:36" json:"changed_by"`
	Notes        *string   `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for SubmissionStatusHistory.
func (SubmissionStatusHistory) TableName() string {
	return "submission_status_history"
}
