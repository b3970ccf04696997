package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"research-repository-api/utils"
)

type ReviewDecisionRequest struct {
	Status         string `json:"status" binding:"required"`
	FacultyComment string `json:"faculty_comment"`
}

// GetReviewQueue lists submissions awaiting a reviewer
func (h *SubmissionController) GetReviewQueue(c *gin.Context) {
	statuses, err := utils.CanonicalStatuses(c.Query("status"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	submissions, err := h.service.ListForReview(c.Request.Context(), actorFrom(c), statuses)
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

// ReviewSubmission records a reviewer decision
func (h *SubmissionController) ReviewSubmission(c *gin.Context) {
	var req ReviewDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	status, err := utils.CanonicalStatus(req.Status)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	submission, err := h.service.ReviewSubmission(c.Request.Context(), actorFrom(c), c.Param("id"), status, req.FacultyComment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Review decision recorded",
		"submission": submission,
	})
}
