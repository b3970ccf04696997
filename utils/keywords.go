package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NormalizeKeywords splits every value on commas, trims each piece, drops
// empty pieces and keeps the first occurrence of each keyword. Comparison is
// case-sensitive. The result is never nil.
func NormalizeKeywords(values ...string) []string {
	seen := make(map[string]bool)
	normalized := make([]string, 0, len(values))

	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" || seen[trimmed] {
				continue
			}
			seen[trimmed] = true
			normalized = append(normalized, trimmed)
		}
	}

	return normalized
}

// KeywordInput accepts either a JSON string ("a, b") or a JSON array of
// strings (["a", "b, c"]).
type KeywordInput []string

func (k *KeywordInput) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*k = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*k = KeywordInput{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("keywords must be a string or an array of strings")
	}
	*k = KeywordInput(list)
	return nil
}

// Normalized returns the canonical keyword list for the input.
func (k KeywordInput) Normalized() []string {
	return NormalizeKeywords(k...)
}
