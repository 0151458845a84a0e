package dataset

import (
	"strings"

	"cargocli/pkg/contracts/domain"
)

// keySep joins composite key components. The unit separator cannot appear
// in cell text coming out of the ingestion collaborators.
const keySep = "\x1f"

// NotFound is returned by FindMatch when no row carries the edited row's
// identity; the caller treats the edit as a no-op.
const NotFound = -1

func primaryKey(r *domain.NormalizedRow) string {
	return strings.Join([]string{r.NO, r.BoxNum, r.ContainerNum}, keySep)
}

func fallbackKey(r *domain.NormalizedRow) string {
	return strings.Join([]string{r.BoxNum, r.ContainerNum}, keySep)
}

// FindMatch locates the row an edited snapshot refers to. The source data
// has no stable primary key, so identity is a best-effort composite:
// (NO, BoxNum, ContainerNum) first, then (BoxNum, ContainerNum) when the
// primary lookup fails. Missing components compare as empty strings and
// the first match in dataset order wins — duplicate tuples therefore
// direct an edit at the first matching row only, a documented property of
// the surrogate key rather than a defect.
func FindMatch(edited *domain.NormalizedRow, rows []domain.NormalizedRow) int {
	want := primaryKey(edited)
	for i := range rows {
		if primaryKey(&rows[i]) == want {
			return i
		}
	}

	want = fallbackKey(edited)
	for i := range rows {
		if fallbackKey(&rows[i]) == want {
			return i
		}
	}
	return NotFound
}
