package dataset

import (
	"strings"

	"cargocli/internal/dataprocessing"
	"cargocli/pkg/contracts/domain"
)

// Filter is the conjunction of the supported row predicates. Zero values
// mean "no constraint".
type Filter struct {
	Container string                `json:"container,omitempty"`
	Factory   string                `json:"factory,omitempty"`
	Status    domain.StatusCategory `json:"status,omitempty"`
	Search    string                `json:"search,omitempty"`
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.Container == "" && f.Factory == "" && f.Status == "" && f.Search == ""
}

// Match applies every set predicate; all must hold.
func (f Filter) Match(row *domain.NormalizedRow) bool {
	if f.Container != "" && row.Container != f.Container {
		return false
	}
	if f.Factory != "" && row.Factory != f.Factory {
		return false
	}
	if f.Status != "" && dataprocessing.Classify(row.Remarks) != f.Status {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		found := false
		for _, v := range row.Values() {
			if strings.Contains(strings.ToLower(v), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Apply returns the rows satisfying the filter, preserving dataset order.
// The result shares row values with the dataset but is a fresh slice.
func (f Filter) Apply(rows []domain.NormalizedRow) []domain.NormalizedRow {
	if f.IsZero() {
		return append([]domain.NormalizedRow(nil), rows...)
	}
	out := make([]domain.NormalizedRow, 0, len(rows))
	for i := range rows {
		if f.Match(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}
