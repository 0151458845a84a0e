package dataprocessing

import (
	"regexp"
	"strings"

	"cargocli/pkg/contracts/domain"
)

// inProgressPattern accepts both spaced and unspaced operator spellings:
// "in progress", "in-progress", "inprogress", "in_progress".
var inProgressPattern = regexp.MustCompile(`(?i)in[\s_-]*progress`)

// notStartedTokens are whole-string markers operators use for untouched rows.
var notStartedTokens = map[string]bool{
	"n/a":         true,
	"na":          true,
	"not started": true,
}

// Classify maps free-text REMARKS to the status taxonomy. Rules run in
// order and the first match wins; the order is the contract, so a remark
// like "in-progress but done later" classifies as Completed because the
// "done" rule runs first.
func Classify(remarks string) domain.StatusCategory {
	if strings.Contains(strings.ToLower(remarks), "done") {
		return domain.StatusCompleted
	}
	if inProgressPattern.MatchString(remarks) {
		return domain.StatusInProgress
	}
	trimmed := strings.TrimSpace(remarks)
	if trimmed == "" || notStartedTokens[strings.ToLower(trimmed)] {
		return domain.StatusNotStarted
	}
	return domain.StatusNotStarted
}

// IsCompleted is the completion-counting predicate: the "done" substring
// rule alone. It is intentionally independent of Classify and the two are
// not guaranteed consistent for every input; unifying them would silently
// change completion counts.
func IsCompleted(remarks string) bool {
	return strings.Contains(strings.ToLower(remarks), "done")
}
