package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"research-repository-api/models"
	"research-repository-api/storage"
	"research-repository-api/utils"
)

// FileStore keeps the documents attached to submissions.
type FileStore interface {
	Save(ownerID string, upload storage.Upload) (models.FileRef, error)
	Remove(storagePath string) error
}

// LinkIssuer signs and verifies file capabilities.
type LinkIssuer interface {
	LinkSigner
	Verify(token string) (*FileLinkClaims, error)
	MatchesFile(claims *FileLinkClaims, storagePath string) bool
}

// UserDirectory looks up account details for submission owners.
type UserDirectory interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
}

// Notifier tells owners about review decisions.
type Notifier interface {
	NotifyDecision(ctx context.Context, owner *models.User, sub *models.Submission) error
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	RoleID int
}

func (a Actor) Privileged() bool {
	return models.IsPrivilegedRole(a.RoleID)
}

// CreateInput carries the fields of a new submission.
type CreateInput struct {
	Title          string
	Abstract       string
	Adviser        *string
	SubmissionType *models.SubmissionType
	Keywords       []string
	File           *storage.Upload
}

// SubmissionView is a record together with the owner's advisory permissions.
type SubmissionView struct {
	models.Submission
	Permissions Permissions `json:"permissions"`
}

type SubmissionServiceConfig struct {
	Store      SubmissionStore
	Files      FileStore
	Links      LinkIssuer
	Users      UserDirectory
	Notifier   Notifier
	Policy     Policy
	Clock      Clock
	StreamBase string
	Logger     *zap.Logger
}

type SubmissionService struct {
	store      SubmissionStore
	files      FileStore
	links      LinkIssuer
	users      UserDirectory
	notifier   Notifier
	policy     Policy
	guard      WindowGuard
	clock      Clock
	streamBase string
	logger     *zap.Logger
}

func NewSubmissionService(cfg SubmissionServiceConfig) *SubmissionService {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Policy == (Policy{}) {
		cfg.Policy = DefaultPolicy()
	}
	return &SubmissionService{
		store:      cfg.Store,
		files:      cfg.Files,
		links:      cfg.Links,
		users:      cfg.Users,
		notifier:   cfg.Notifier,
		policy:     cfg.Policy,
		guard:      NewWindowGuard(cfg.Policy),
		clock:      cfg.Clock,
		streamBase: cfg.StreamBase,
		logger:     cfg.Logger.With(zap.String("service", "submission_service")),
	}
}

// ListMySubmissions returns the owner's submissions, newest first.
func (s *SubmissionService) ListMySubmissions(ctx context.Context, ownerID string) ([]SubmissionView, error) {
	rows, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.views(rows), nil
}

// ListForReview returns the reviewer queue for the given statuses, pending
// and reviewing when none are given.
func (s *SubmissionService) ListForReview(ctx context.Context, actor Actor, statuses []models.Status) ([]models.Submission, error) {
	if !actor.Privileged() {
		return nil, ErrForbidden
	}
	if len(statuses) == 0 {
		statuses = []models.Status{models.StatusPending, models.StatusReviewing}
	}
	rows, err := s.store.ListByStatus(ctx, statuses)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].SubmissionType = ResolveSubmissionType(&rows[i].SubmissionType, rows[i].Status)
	}
	return rows, nil
}

// GetSubmission returns a record visible to actor. Approved records are
// visible to every authenticated user.
func (s *SubmissionService) GetSubmission(ctx context.Context, actor Actor, id string) (*SubmissionView, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.IsOwnedBy(actor.UserID) && !actor.Privileged() && sub.Status != models.StatusApproved {
		return nil, ErrForbidden
	}
	view := s.view(*sub)
	return &view, nil
}

// CreateSubmission stores the file and inserts a pending record.
func (s *SubmissionService) CreateSubmission(ctx context.Context, ownerID string, in CreateInput) (*models.Submission, error) {
	title := utils.SanitizeInput(in.Title)
	abstract := utils.SanitizeInput(in.Abstract)
	switch {
	case ownerID == "":
		return nil, fmt.Errorf("%w: owner is required", ErrValidationFailed)
	case title == "":
		return nil, fmt.Errorf("%w: title is required", ErrValidationFailed)
	case abstract == "":
		return nil, fmt.Errorf("%w: abstract is required", ErrValidationFailed)
	case in.File == nil:
		return nil, fmt.Errorf("%w: file is required", ErrValidationFailed)
	}

	ref, err := s.files.Save(ownerID, *in.File)
	if err != nil {
		return nil, uploadError(err)
	}

	now := s.clock.Now()
	sub := models.Submission{
		SubmissionID:   uuid.NewString(),
		OwnerID:        ownerID,
		Title:          title,
		Author:         s.authorName(ctx, ownerID),
		Abstract:       abstract,
		Status:         models.StatusPending,
		SubmissionType: ResolveSubmissionType(in.SubmissionType, models.StatusPending),
		Keywords:       models.KeywordList(utils.NormalizeKeywords(in.Keywords...)),
		RevisionCount:  0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Adviser != nil {
		if adviser := utils.SanitizeInput(*in.Adviser); adviser != "" {
			sub.Adviser = &adviser
		}
	}
	sub.SetFileRef(&ref)

	if err := s.store.Create(persistentContext(ctx), &sub); err != nil {
		s.discardFile(ref.StoragePath, "create failed")
		return nil, err
	}

	s.logger.Info("submission created",
		zap.String("submission_id", sub.SubmissionID),
		zap.String("owner_id", ownerID),
		zap.String("submission_type", string(sub.SubmissionType)))
	return &sub, nil
}

// ReviseSubmission applies patch, and optionally a replacement file, to the
// owner's submission. Ownership, status and the revise window are checked
// against the locked row at the moment the write is applied.
func (s *SubmissionService) ReviseSubmission(ctx context.Context, ownerID, id string, patch SubmissionPatch, upload *storage.Upload) (*models.Submission, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevise(current, ownerID); err != nil {
		return nil, err
	}

	var newRef *models.FileRef
	if upload != nil {
		ref, err := s.files.Save(ownerID, *upload)
		if err != nil {
			return nil, uploadError(err)
		}
		newRef = &ref
		patch.File = newRef
	}

	var replaced *models.FileRef
	updated, err := s.store.Update(persistentContext(ctx), id, func(locked *models.Submission) (Mutation, error) {
		if err := s.checkRevise(locked, ownerID); err != nil {
			return Mutation{}, err
		}
		merged, old := MergeRevision(*locked, patch)
		if merged.SubmissionType == "" {
			merged.SubmissionType = DefaultSubmissionType(merged.Status)
		}
		merged.UpdatedAt = s.clock.Now()
		replaced = old
		return Mutation{Updated: &merged}, nil
	})
	if err != nil {
		if newRef != nil {
			s.discardFile(newRef.StoragePath, "revision rejected")
		}
		return nil, err
	}

	if replaced != nil && (newRef == nil || replaced.StoragePath != newRef.StoragePath) {
		s.discardFile(replaced.StoragePath, "replaced by revision")
	}

	s.logger.Info("submission revised",
		zap.String("submission_id", id),
		zap.Int("revision_count", updated.RevisionCount),
		zap.Bool("empty_patch", patch.IsEmpty()),
		zap.Bool("file_replaced", newRef != nil))
	return updated, nil
}

// DeleteSubmission hard-deletes the owner's submission and its file.
func (s *SubmissionService) DeleteSubmission(ctx context.Context, ownerID, id string) error {
	removed, err := s.store.Delete(persistentContext(ctx), id, func(locked *models.Submission) error {
		return s.checkOwnerMutation(locked, ownerID, s.policy.DeleteWindow, ErrDeleteWindowExpired)
	})
	if err != nil {
		return err
	}

	if ref := removed.FileRefValue(); ref != nil {
		s.discardFile(ref.StoragePath, "submission deleted")
	}

	s.logger.Info("submission deleted", zap.String("submission_id", id), zap.String("owner_id", ownerID))
	return nil
}

// ResolveFileAccess returns how actor may retrieve the submission's file.
func (s *SubmissionService) ResolveFileAccess(ctx context.Context, actor Actor, id string) (AccessPlan, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return AccessPlan{}, err
	}
	return ResolveFileAccess(sub, s.requester(actor, sub), s.links, s.streamBase, s.clock.Now(), s.policy.SignedURLTTL)
}

// StreamableFile returns the file reference actor may stream with its
// session credential.
func (s *SubmissionService) StreamableFile(ctx context.Context, actor Actor, id string) (models.FileRef, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return models.FileRef{}, err
	}
	ref := sub.FileRefValue()
	if ref == nil {
		return models.FileRef{}, ErrNoFileAttached
	}
	requester := s.requester(actor, sub)
	if sub.Status != models.StatusApproved && !requester.IsOwner && !requester.Privileged {
		return models.FileRef{}, ErrForbidden
	}
	return *ref, nil
}

// SignedFile verifies a signed link and returns the file it grants.
func (s *SubmissionService) SignedFile(ctx context.Context, token string) (models.FileRef, error) {
	claims, err := s.links.Verify(token)
	if err != nil {
		return models.FileRef{}, err
	}

	sub, err := s.store.Get(ctx, claims.SubmissionID)
	if err != nil {
		return models.FileRef{}, err
	}
	ref := sub.FileRefValue()
	if ref == nil {
		return models.FileRef{}, ErrNoFileAttached
	}
	if sub.Status != models.StatusApproved || !s.links.MatchesFile(claims, ref.StoragePath) {
		return models.FileRef{}, ErrForbidden
	}
	return *ref, nil
}

// ReviewSubmission moves a submission to a new status on behalf of a
// reviewer and records the change.
func (s *SubmissionService) ReviewSubmission(ctx context.Context, reviewer Actor, id string, to models.Status, comment string) (*models.Submission, error) {
	if !reviewer.Privileged() {
		return nil, ErrForbidden
	}

	comment = utils.SanitizeInput(comment)
	updated, err := s.store.Update(persistentContext(ctx), id, func(locked *models.Submission) (Mutation, error) {
		if err := EnsureTransition(locked.Status, to); err != nil {
			return Mutation{}, err
		}

		now := s.clock.Now()
		next := *locked
		next.Status = to
		next.UpdatedAt = now
		if comment != "" {
			next.FacultyComment = &comment
		}

		history := &models.SubmissionStatusHistory{
			HistoryID:    uuid.NewString(),
			SubmissionID: locked.SubmissionID,
			OldStatus:    locked.Status,
			NewStatus:    to,
			ChangedBy:    reviewer.UserID,
			CreatedAt:    now,
		}
		if comment != "" {
			history.Notes = &comment
		}
		return Mutation{Updated: &next, History: history}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("submission reviewed",
		zap.String("submission_id", id),
		zap.String("reviewer_id", reviewer.UserID),
		zap.String("status", string(to)))

	if to.IsTerminal() {
		s.notifyOwner(ctx, updated)
	}
	return updated, nil
}

// Permissions exposes the advisory view of the guard for one record.
func (s *SubmissionService) Permissions(sub *models.Submission) Permissions {
	return s.guard.Permissions(sub, s.clock.Now())
}

func (s *SubmissionService) checkRevise(sub *models.Submission, ownerID string) error {
	return s.checkOwnerMutation(sub, ownerID, s.policy.ReviseWindow, ErrEditWindowExpired)
}

// checkOwnerMutation applies ownership, then status, then the time window.
func (s *SubmissionService) checkOwnerMutation(sub *models.Submission, ownerID string, window time.Duration, expired error) error {
	if !sub.IsOwnedBy(ownerID) {
		return ErrForbidden
	}
	if err := EnsureOwnerMutable(sub.Status); err != nil {
		return err
	}
	if !IsWithinWindow(sub.CreatedAt, s.clock.Now(), window) {
		return expired
	}
	return nil
}

func (s *SubmissionService) requester(actor Actor, sub *models.Submission) Requester {
	return Requester{
		UserID:     actor.UserID,
		IsOwner:    sub.IsOwnedBy(actor.UserID),
		Privileged: actor.Privileged(),
	}
}

func (s *SubmissionService) views(rows []models.Submission) []SubmissionView {
	views := make([]SubmissionView, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.view(row))
	}
	return views
}

func (s *SubmissionService) view(sub models.Submission) SubmissionView {
	sub.Keywords = models.KeywordList(utils.NormalizeKeywords(sub.Keywords...))
	sub.SubmissionType = ResolveSubmissionType(&sub.SubmissionType, sub.Status)
	return SubmissionView{Submission: sub, Permissions: s.Permissions(&sub)}
}

func (s *SubmissionService) authorName(ctx context.Context, ownerID string) string {
	if s.users == nil {
		return ""
	}
	user, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		s.logger.Warn("author lookup failed", zap.String("owner_id", ownerID), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(user.FullName)
}

func (s *SubmissionService) notifyOwner(ctx context.Context, sub *models.Submission) {
	if s.notifier == nil || s.users == nil {
		return
	}
	owner, err := s.users.FindByID(ctx, sub.OwnerID)
	if err != nil {
		s.logger.Warn("decision notice skipped", zap.String("submission_id", sub.SubmissionID), zap.Error(err))
		return
	}
	if err := s.notifier.NotifyDecision(ctx, owner, sub); err != nil {
		s.logger.Warn("decision notice failed", zap.String("submission_id", sub.SubmissionID), zap.Error(err))
	}
}

func (s *SubmissionService) discardFile(storagePath, reason string) {
	if err := s.files.Remove(storagePath); err != nil {
		s.logger.Warn("stored file cleanup failed",
			zap.String("storage_path", storagePath),
			zap.String("reason", reason),
			zap.Error(err))
	}
}

func uploadError(err error) error {
	if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrFileTypeDenied) {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return fmt.Errorf("store file: %w", err)
}
