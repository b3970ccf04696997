package utils

import (
	"fmt"
	"strings"

	"research-repository-api/models"
)

var (
	statusSynonyms = map[models.Status][]string{
		models.StatusPending: {
			"pending",
			"submitted",
			"waiting",
		},
		models.StatusReviewing: {
			"reviewing",
			"in_review",
			"under_review",
			"review",
		},
		models.StatusApproved: {
			"approved",
			"accepted",
			"published",
		},
		models.StatusRejected: {
			"rejected",
			"declined",
			"denied",
		},
	}
	statusAliasToCanonical = buildStatusAliasMap()
)

func buildStatusAliasMap() map[string]models.Status {
	aliasMap := make(map[string]models.Status)
	for canonical, synonyms := range statusSynonyms {
		aliasMap[normalizeStatusCode(string(canonical))] = canonical
		for _, alias := range synonyms {
			if normalized := normalizeStatusCode(alias); normalized != "" {
				aliasMap[normalized] = canonical
			}
		}
	}
	return aliasMap
}

func normalizeStatusCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, "-", "_")
	return strings.ReplaceAll(code, " ", "_")
}

// CanonicalStatus resolves a status name or one of its aliases.
func CanonicalStatus(raw string) (models.Status, error) {
	if status, ok := statusAliasToCanonical[normalizeStatusCode(raw)]; ok {
		return status, nil
	}
	return "", fmt.Errorf("status %q not recognised", strings.TrimSpace(raw))
}

// CanonicalStatuses resolves a comma separated status filter.
func CanonicalStatuses(raw string) ([]models.Status, error) {
	statuses := make([]models.Status, 0)
	seen := make(map[models.Status]struct{})
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		status, err := CanonicalStatus(part)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[status]; ok {
			continue
		}
		seen[status] = struct{}{}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
