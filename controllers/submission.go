// controllers/submission.go
package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"research-repository-api/middleware"
	"research-repository-api/models"
	"research-repository-api/services"
	"research-repository-api/storage"
	"research-repository-api/utils"
)

// FileLocator maps a storage path to a file on disk.
type FileLocator interface {
	Resolve(storagePath string) (string, error)
}

type SubmissionController struct {
	service *services.SubmissionService
	files   FileLocator
}

func NewSubmissionController(service *services.SubmissionService, files FileLocator) *SubmissionController {
	return &SubmissionController{service: service, files: files}
}

// ReviseSubmissionRequest is the JSON form of a revision. Omitted fields are
// left unchanged.
type ReviseSubmissionRequest struct {
	Title          *string             `json:"title"`
	Adviser        *string             `json:"adviser"`
	Abstract       *string             `json:"abstract"`
	Keywords       *utils.KeywordInput `json:"keywords"`
	SubmissionType *string             `json:"submission_type"`
}

// ===================== SUBMISSION MANAGEMENT =====================

// GetSubmissions returns the caller's submissions
func (h *SubmissionController) GetSubmissions(c *gin.Context) {
	submissions, err := h.service.ListMySubmissions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns a specific submission
func (h *SubmissionController) GetSubmission(c *gin.Context) {
	submission, err := h.service.GetSubmission(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// CreateSubmission creates a new submission from a multipart upload
func (h *SubmissionController) CreateSubmission(c *gin.Context) {
	input := services.CreateInput{
		Title:    c.PostForm("title"),
		Abstract: c.PostForm("abstract"),
		Keywords: c.PostFormArray("keywords"),
	}
	if adviser, ok := c.GetPostForm("adviser"); ok {
		input.Adviser = &adviser
	}
	if raw, ok := c.GetPostForm("submission_type"); ok && strings.TrimSpace(raw) != "" {
		submissionType, err := models.ParseSubmissionType(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		input.SubmissionType = &submissionType
	}

	upload, closeFile, err := formUpload(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer closeFile()
	input.File = upload

	submission, err := h.service.CreateSubmission(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Submission created successfully",
		"submission": submission,
	})
}

// UpdateSubmission revises a submission. Accepts JSON or multipart with an
// optional replacement file.
func (h *SubmissionController) UpdateSubmission(c *gin.Context) {
	var (
		patch  services.SubmissionPatch
		upload *storage.Upload
		err    error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		patch, err = patchFromForm(c)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		var closeFile func()
		upload, closeFile, err = formUpload(c)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		defer closeFile()
	} else {
		var req ReviseSubmissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		patch, err = req.toPatch()
		if err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	submission, err := h.service.ReviseSubmission(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), patch, upload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Submission updated successfully",
		"submission": submission,
	})
}

// DeleteSubmission permanently removes a submission
func (h *SubmissionController) DeleteSubmission(c *gin.Context) {
	if err := h.service.DeleteSubmission(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission deleted successfully",
	})
}

// ===================== FILE ACCESS =====================

// GetFileAccess returns the access plan for the submission file
func (h *SubmissionController) GetFileAccess(c *gin.Context) {
	plan, err := h.service.ResolveFileAccess(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"access":  plan,
	})
}

// StreamFile serves the file to an authenticated requester
func (h *SubmissionController) StreamFile(c *gin.Context) {
	ref, err := h.service.StreamableFile(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.serveFile(c, ref, "private, no-store")
}

// DownloadSignedFile serves a file through a signed link. No session needed.
func (h *SubmissionController) DownloadSignedFile(c *gin.Context) {
	ref, err := h.service.SignedFile(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.serveFile(c, ref, "no-store")
}

func (h *SubmissionController) serveFile(c *gin.Context, ref models.FileRef, cacheControl string) {
	fullPath, err := h.files.Resolve(ref.StoragePath)
	if err != nil {
		respondError(c, fmt.Errorf("%w: stored file unavailable", services.ErrNotFound))
		return
	}

	c.Header("Cache-Control", cacheControl)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", ref.Name))
	if ref.MimeType != "" {
		c.Header("Content-Type", ref.MimeType)
	}
	c.File(fullPath)
}

// --- helpers ----------------------------------------------------------------

func actorFrom(c *gin.Context) services.Actor {
	roleID, _ := middleware.CurrentRoleID(c)
	return services.Actor{UserID: middleware.CurrentUserID(c), RoleID: roleID}
}

// formUpload opens the "file" part if one was sent. The returned close
// function is always safe to call.
func formUpload(c *gin.Context) (*storage.Upload, func(), error) {
	noop := func() {}

	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("invalid upload: %v", err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("cannot read upload: %v", err)
	}

	return uploadFromHeader(header, file), func() { _ = file.Close() }, nil
}

func uploadFromHeader(header *multipart.FileHeader, file multipart.File) *storage.Upload {
	return &storage.Upload{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Content:  file,
	}
}

func patchFromForm(c *gin.Context) (services.SubmissionPatch, error) {
	var patch services.SubmissionPatch

	if value, ok := c.GetPostForm("title"); ok {
		patch.Title = &value
	}
	if value, ok := c.GetPostForm("adviser"); ok {
		patch.Adviser = &value
	}
	if value, ok := c.GetPostForm("abstract"); ok {
		patch.Abstract = &value
	}
	if values, ok := c.GetPostFormArray("keywords"); ok {
		patch.Keywords = append([]string{}, values...)
	}
	if raw, ok := c.GetPostForm("submission_type"); ok && strings.TrimSpace(raw) != "" {
		submissionType, err := models.ParseSubmissionType(raw)
		if err != nil {
			return patch, err
		}
		patch.SubmissionType = &submissionType
	}

	return patch, nil
}

func (r ReviseSubmissionRequest) toPatch() (services.SubmissionPatch, error) {
	patch := services.SubmissionPatch{
		Title:    r.Title,
		Adviser:  r.Adviser,
		Abstract: r.Abstract,
	}
	if r.Keywords != nil {
		patch.Keywords = r.Keywords.Normalized()
	}
	if r.SubmissionType != nil && strings.TrimSpace(*r.SubmissionType) != "" {
		submissionType, err := models.ParseSubmissionType(*r.SubmissionType)
		if err != nil {
			return patch, err
		}
		patch.SubmissionType = &submissionType
	}
	return patch, nil
}
