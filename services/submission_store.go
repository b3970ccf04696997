package services

import (
	"context"
	"fmt"

	"research-repository-api/config"
	"research-repository-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mutation is what an Update callback wants written back.
type Mutation struct {
	Updated *models.Submission
	History *models.SubmissionStatusHistory
}

// SubmissionStore persists submission records. Update and Delete hold a row
// lock while the callback runs so checks and writes see the same row.
type SubmissionStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Submission, error)
	ListByStatus(ctx context.Context, statuses []models.Status) ([]models.Submission, error)
	Get(ctx context.Context, id string) (*models.Submission, error)
	Create(ctx context.Context, sub *models.Submission) error
	Update(ctx context.Context, id string, apply func(current *models.Submission) (Mutation, error)) (*models.Submission, error)
	Delete(ctx context.Context, id string, check func(current *models.Submission) error) (*models.Submission, error)
}

type GormSubmissionStore struct {
	db *gorm.DB
}

var _ SubmissionStore = (*GormSubmissionStore)(nil)

func NewGormSubmissionStore(db *gorm.DB) *GormSubmissionStore {
	if db == nil {
		db = config.DB
	}
	return &GormSubmissionStore{db: db}
}

func (s *GormSubmissionStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Submission, error) {
	var rows []models.Submission
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return hydrateAll(rows), nil
}

func (s *GormSubmissionStore) ListByStatus(ctx context.Context, statuses []models.Status) ([]models.Submission, error) {
	var rows []models.Submission
	q := s.db.WithContext(ctx).Model(&models.Submission{})
	if len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, status := range statuses {
			names = append(names, string(status))
		}
		q = q.Where("status IN ?", names)
	}
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list submissions by status: %w", err)
	}
	return hydrateAll(rows), nil
}

func (s *GormSubmissionStore) Get(ctx context.Context, id string) (*models.Submission, error) {
	return findSubmission(s.db.WithContext(ctx), id)
}

func (s *GormSubmissionStore) Create(ctx context.Context, sub *models.Submission) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *GormSubmissionStore) Update(ctx context.Context, id string, apply func(current *models.Submission) (Mutation, error)) (*models.Submission, error) {
	var updated *models.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findSubmission(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}

		mutation, err := apply(current)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Submission{}).
			Where("submission_id = ?", id).
			Updates(submissionColumns(mutation.Updated)).Error; err != nil {
			return fmt.Errorf("update submission: %w", err)
		}

		if mutation.History != nil {
			if err := tx.Create(mutation.History).Error; err != nil {
				return fmt.Errorf("record status history: %w", err)
			}
		}

		updated = mutation.Updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	updated.Hydrate()
	return updated, nil
}

func (s *GormSubmissionStore) Delete(ctx context.Context, id string, check func(current *models.Submission) error) (*models.Submission, error) {
	var removed *models.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findSubmission(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}

		if err := check(current); err != nil {
			return err
		}

		if err := tx.Where("submission_id = ?", id).Delete(&models.SubmissionStatusHistory{}).Error; err != nil {
			return fmt.Errorf("delete status history: %w", err)
		}
		if err := tx.Where("submission_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return fmt.Errorf("delete submission: %w", err)
		}

		removed = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func findSubmission(db *gorm.DB, id string) (*models.Submission, error) {
	var rows []models.Submission
	if err := db.Where("submission_id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	sub := rows[0]
	sub.Hydrate()
	return &sub, nil
}

func hydrateAll(rows []models.Submission) []models.Submission {
	for i := range rows {
		rows[i].Hydrate()
	}
	if rows == nil {
		rows = []models.Submission{}
	}
	return rows
}

func submissionColumns(sub *models.Submission) map[string]interface{} {
	return map[string]interface{}{
		"title":             sub.Title,
		"adviser":           sub.Adviser,
		"abstract":          sub.Abstract,
		"status":            string(sub.Status),
		"submission_type":   string(sub.SubmissionType),
		"keywords":          sub.Keywords,
		"file_name":         sub.FileName,
		"file_storage_path": sub.FileStorePath,
		"file_mime_type":    sub.FileMimeType,
		"faculty_comment":   sub.FacultyComment,
		"revision_count":    sub.RevisionCount,
		"updated_at":        sub.UpdatedAt,
	}
}
