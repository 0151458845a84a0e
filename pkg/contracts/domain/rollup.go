package domain

// StatusCategory is the closed inspection-status taxonomy derived from a
// row's REMARKS text. It is computed on demand and never stored.
type StatusCategory string

const (
	StatusCompleted  StatusCategory = "Completed"
	StatusInProgress StatusCategory = "InProgress"
	StatusNotStarted StatusCategory = "NotStarted"
)

// Valid reports whether s is one of the known categories.
func (s StatusCategory) Valid() bool {
	switch s {
	case StatusCompleted, StatusInProgress, StatusNotStarted:
		return true
	}
	return false
}

// RollupRecord is one group's completion statistics. Records are recomputed
// fresh from a dataset snapshot on every query and never outlive the call
// that produced them.
type RollupRecord struct {
	GroupKey          string `json:"group_key" csv:"Group"`
	Total             int    `json:"total" csv:"Total"`
	FinishedCount     int    `json:"finished_count" csv:"Finished"`
	RemainingCount    int    `json:"remaining_count" csv:"Remaining"`
	CompletionPercent int    `json:"completion_percent" csv:"CompletionPct"`
}

// RollupGroupAll is the synthetic trailing record summing every group.
const RollupGroupAll = "ALL"
