package dataprocessing

import (
	"log/slog"
	"math"
	"sort"

	"cargocli/pkg/contracts/domain"
)

// Sentinel group keys for rows whose grouping field is blank. Container
// rollups and factory rollups historically used different sentinels; both
// are preserved.
const (
	BlankContainerKey = "NA"
	BlankFactoryKey   = "UNKNOWN"
)

// GroupFunc selects the grouping field value for a row.
type GroupFunc func(*domain.NormalizedRow) string

// Aggregator computes completion rollups over normalized rows. Rollups are
// derived fresh from the rows passed in; the aggregator itself holds no
// dataset state.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator using the given logger.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate performs a single pass over rows, accumulating totals and
// finished counts per group key, then emits one record per distinct key in
// lexicographic order followed by the synthetic ALL record. Rows with a
// blank group value are keyed by blankKey.
func (a *Aggregator) Aggregate(rows []domain.NormalizedRow, groupBy GroupFunc, blankKey string) []domain.RollupRecord {
	totals := make(map[string]int)
	finished := make(map[string]int)

	for i := range rows {
		key := groupBy(&rows[i])
		if key == "" {
			key = blankKey
		}
		totals[key]++
		if IsCompleted(rows[i].Remarks) {
			finished[key]++
		}
	}

	keys := make([]string, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]domain.RollupRecord, 0, len(keys)+1)
	allTotal, allFinished := 0, 0
	for _, key := range keys {
		records = append(records, newRollupRecord(key, totals[key], finished[key]))
		allTotal += totals[key]
		allFinished += finished[key]
	}
	records = append(records, newRollupRecord(domain.RollupGroupAll, allTotal, allFinished))

	a.logger.Debug("rollup computed",
		slog.Int("groups", len(keys)),
		slog.Int("rows", allTotal),
		slog.Int("finished", allFinished))

	return records
}

// ByContainer groups rows by the Container field; blank containers key to
// "NA".
func (a *Aggregator) ByContainer(rows []domain.NormalizedRow) []domain.RollupRecord {
	return a.Aggregate(rows, func(r *domain.NormalizedRow) string { return r.Container }, BlankContainerKey)
}

// ByFactory groups rows by the Factory field; blank factories key to
// "UNKNOWN".
func (a *Aggregator) ByFactory(rows []domain.NormalizedRow) []domain.RollupRecord {
	return a.Aggregate(rows, func(r *domain.NormalizedRow) string { return r.Factory }, BlankFactoryKey)
}

// FactorySummary emits the fixed-order summary view: only factories named
// in the priority list participate, in list order, followed by an ALL
// record summing the included groups. Factories outside the list are
// silently excluded here but still present in ByFactory.
func (a *Aggregator) FactorySummary(rows []domain.NormalizedRow, priority []string) []domain.RollupRecord {
	totals := make(map[string]int)
	finished := make(map[string]int)
	for i := range rows {
		key := rows[i].Factory
		if key == "" {
			key = BlankFactoryKey
		}
		totals[key]++
		if IsCompleted(rows[i].Remarks) {
			finished[key]++
		}
	}

	records := make([]domain.RollupRecord, 0, len(priority)+1)
	allTotal, allFinished := 0, 0
	for _, key := range priority {
		total, ok := totals[key]
		if !ok {
			continue
		}
		records = append(records, newRollupRecord(key, total, finished[key]))
		allTotal += total
		allFinished += finished[key]
	}
	records = append(records, newRollupRecord(domain.RollupGroupAll, allTotal, allFinished))
	return records
}

// newRollupRecord fills in the derived fields. Percent math is defined for
// zero totals: 0%, never an error.
func newRollupRecord(key string, total, finishedCount int) domain.RollupRecord {
	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(finishedCount) / float64(total)))
	}
	return domain.RollupRecord{
		GroupKey:          key,
		Total:             total,
		FinishedCount:     finishedCount,
		RemainingCount:    total - finishedCount,
		CompletionPercent: pct,
	}
}
