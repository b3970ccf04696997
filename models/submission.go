package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the review state of a submission.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewing Status = "reviewing"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusReviewing, StatusApproved, StatusRejected}

// ParseStatus accepts only the canonical status names.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusReviewing, StatusApproved, StatusRejected:
		return s, nil
	default:
		return "", fmt.Errorf("unknown status %q", raw)
	}
}

// IsTerminal reports whether the owner can no longer change the submission.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected:
		return true
	case StatusPending, StatusReviewing:
		return false
	default:
		return true
	}
}

// SubmissionType distinguishes working drafts from final manuscripts.
type SubmissionType string

const (
	SubmissionTypeDraft SubmissionType = "draft"
	SubmissionTypeFinal SubmissionType = "final"
)

func ParseSubmissionType(raw string) (SubmissionType, error) {
	switch t := SubmissionType(strings.ToLower(strings.TrimSpace(raw))); t {
	case SubmissionTypeDraft, SubmissionTypeFinal:
		return t, nil
	default:
		return "", fmt.Errorf("unknown submission type %q", raw)
	}
}

// KeywordList is stored as a JSON array in a text column.
type KeywordList []string

func (k KeywordList) Value() (driver.Value, error) {
	if k == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(k))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (k *KeywordList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*k = KeywordList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into KeywordList", src)
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		*k = KeywordList{}
		return nil
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("decode keywords: %w", err)
	}
	*k = KeywordList(values)
	return nil
}

// FileRef points at the stored document attached to a submission.
type FileRef struct {
	Name        string `json:"name"`
	StoragePath string `json:"-"`
	MimeType    string `json:"mime_type"`
}

// Submission represents the submissions table.
type Submission struct {
	SubmissionID   string         `gorm:"primaryKey;column:submission_id;size:36" json:"id"`
	OwnerID        string         `gorm:"column:owner_id;size:36;index" json:"owner_id"`
	Title          string         `gorm:"column:title" json:"title"`
	Author         string         `gorm:"column:author" json:"author"`
	Adviser        *string        `gorm:"column:adviser" json:"adviser,omitempty"`
	Abstract       string         `gorm:"column:abstract;type:text" json:"abstract"`
	Status         Status         `gorm:"column:status;size:16" json:"status"`
	SubmissionType SubmissionType `gorm:"column:submission_type;size:16" json:"submission_type"`
	Keywords       KeywordList    `gorm:"column:keywords;type:text" json:"keywords"`
	FileName       *string        `gorm:"column:file_name" json:"-"`
	FileStorePath  *string        `gorm:"column:file_storage_path" json:"-"`
	FileMimeType   *string        `gorm:"column:file_mime_type" json:"-"`
	FacultyComment *string        `gorm:"column:faculty_comment;type:text" json:"faculty_comment,omitempty"`
	RevisionCount  int            `gorm:"column:revision_count" json:"revision_count"`
	CreatedAt      time.Time      `gorm:"column:created_at;precision:6" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;precision:6" json:"updated_at"`

	File *FileRef `gorm:"-" json:"file,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// FileRefValue returns the attached file reference, or nil if none is stored.
func (s *Submission) FileRefValue() *FileRef {
	if s.FileStorePath == nil || *s.FileStorePath == "" {
		return nil
	}
	ref := &FileRef{StoragePath: *s.FileStorePath}
	if s.FileName != nil {
		ref.Name = *s.FileName
	}
	if s.FileMimeType != nil {
		ref.MimeType = *s.FileMimeType
	}
	return ref
}

// SetFileRef replaces the file columns with ref. A nil ref clears them.
func (s *Submission) SetFileRef(ref *FileRef) {
	if ref == nil {
		s.FileName, s.FileStorePath, s.FileMimeType = nil, nil, nil
		s.File = nil
		return
	}
	name, path, mime := ref.Name, ref.StoragePath, ref.MimeType
	s.FileName, s.FileStorePath, s.FileMimeType = &name, &path, &mime
	s.File = &FileRef{Name: name, StoragePath: path, MimeType: mime}
}

// Hydrate fills derived fields after loading from storage.
func (s *Submission) Hydrate() {
	s.File = s.FileRefValue()
	if s.Keywords == nil {
		s.Keywords = KeywordList{}
	}
}

// IsOwnedBy reports whether userID owns the submission.
func (s *Submission) IsOwnedBy(userID string) bool {
	return userID != "" && s.OwnerID == userID
}
