package services

import (
	"research-repository-api/models"
	"research-repository-api/utils"
)

// SubmissionPatch is a partial update supplied by the owner. Nil fields are
// left untouched.
type SubmissionPatch struct {
	Title          *string
	Adviser        *string
	Abstract       *string
	Keywords       []string
	SubmissionType *models.SubmissionType
	File           *models.FileRef
}

// MergeRevision applies patch to existing and returns the revised record
// together with the file reference it replaced, if any. It performs no
// permission checks.
func MergeRevision(existing models.Submission, patch SubmissionPatch) (models.Submission, *models.FileRef) {
	merged := existing

	if value, ok := nonBlank(patch.Title); ok {
		merged.Title = value
	}
	if value, ok := nonBlank(patch.Adviser); ok {
		merged.Adviser = &value
	}
	if value, ok := nonBlank(patch.Abstract); ok {
		merged.Abstract = value
	}

	if patch.Keywords != nil {
		merged.Keywords = models.KeywordList(utils.NormalizeKeywords(patch.Keywords...))
	}

	if patch.SubmissionType != nil {
		merged.SubmissionType = *patch.SubmissionType
	}

	var replaced *models.FileRef
	if patch.File != nil {
		replaced = existing.FileRefValue()
		merged.SetFileRef(patch.File)
	}

	merged.RevisionCount = existing.RevisionCount + 1
	return merged, replaced
}

// IsEmpty reports whether the patch changes nothing but the revision count.
func (p SubmissionPatch) IsEmpty() bool {
	_, title := nonBlank(p.Title)
	_, adviser := nonBlank(p.Adviser)
	_, abstract := nonBlank(p.Abstract)
	return !title && !adviser && !abstract && p.Keywords == nil && p.SubmissionType == nil && p.File == nil
}

func nonBlank(value *string) (string, bool) {
	if value == nil {
		return "", false
	}
	cleaned := utils.SanitizeInput(*value)
	return cleaned, cleaned != ""
}
