package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargocli/pkg/contracts/domain"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(domain.CanonicalColumns(), DefaultAliases())
	require.NoError(t, err)
	return r
}

func rawRow(pairs ...string) domain.RawRow {
	row := domain.RawRow{Cells: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		row.Headers = append(row.Headers, pairs[i])
		row.Cells[pairs[i]] = pairs[i+1]
	}
	return row
}

func TestNewResolverEmptySchema(t *testing.T) {
	_, err := NewResolver(nil, DefaultAliases())
	assert.Error(t, err)
}

func TestStrategyOrderContract(t *testing.T) {
	assert.Equal(t,
		[]MatchKind{ExactMatch, AliasMatch, HeaderScanMatch, SubstringMatch, ReverseAliasMatch},
		Strategies())
}

func TestResolveExactMatch(t *testing.T) {
	r := newTestResolver(t)

	row := r.Resolve(rawRow("REMARKS", "Done", "Factory", "Acme"))
	assert.Equal(t, "Done", row.Remarks)
	assert.Equal(t, "Acme", row.Factory)

	m, ok := r.ResolveColumn(rawRow("remarks", "x"), domain.ColRemarks)
	require.True(t, ok)
	assert.Equal(t, ExactMatch, m.Kind)
}

func TestResolveAliasMatch(t *testing.T) {
	r := newTestResolver(t)

	raw := rawRow("Box No", "7")
	row := r.Resolve(raw)
	assert.Equal(t, "7", row.BoxNum)

	m, ok := r.ResolveColumn(raw, domain.ColBoxNum)
	require.True(t, ok)
	assert.Equal(t, AliasMatch, m.Kind)
	assert.Equal(t, "Box No", m.Header)
}

func TestResolveSubstringMatch(t *testing.T) {
	r := newTestResolver(t)

	// "Total Kits Packed" normalizes to totalkitspacked which contains "kits".
	raw := rawRow("Total Kits Packed", "12")
	m, ok := r.ResolveColumn(raw, domain.ColKits)
	require.True(t, ok)
	assert.Equal(t, SubstringMatch, m.Kind)
	assert.Equal(t, "12", m.Value)
}

func TestResolveInterchangeableHeaders(t *testing.T) {
	r := newTestResolver(t)

	// Equal normalized keys must resolve identically.
	a := r.Resolve(rawRow("Box No", "3"))
	b := r.Resolve(rawRow("box-no", "3"))
	assert.Equal(t, a.BoxNum, b.BoxNum)
}

func TestResolveUnresolvedDefaultsEmpty(t *testing.T) {
	r := newTestResolver(t)

	row := r.Resolve(rawRow("REMARKS", "Done"))
	assert.Equal(t, "", row.NO)
	assert.Equal(t, "", row.Factory)
	assert.Equal(t, "", row.ItemCount)
}

func TestResolveExtrasPreserved(t *testing.T) {
	r := newTestResolver(t)

	raw := rawRow(
		"REMARKS", "Done",
		"Inspector Name", "J. Doe",
		"Shift", "night",
	)
	row := r.Resolve(raw)

	require.Len(t, row.Extras, 2)
	assert.Equal(t, domain.ExtraField{Header: "Inspector Name", Value: "J. Doe"}, row.Extras[0])
	assert.Equal(t, domain.ExtraField{Header: "Shift", Value: "night"}, row.Extras[1])
}

func TestResolveIdempotent(t *testing.T) {
	r := newTestResolver(t)

	raw := rawRow("Box No", "7", "REMARKS", "in progress", "Shift", "day")
	first := r.Resolve(raw)
	second := r.Resolve(raw)
	assert.Equal(t, first, second)
}

func TestResolveRoundTrip(t *testing.T) {
	r := newTestResolver(t)

	// Every canonical column re-normalizes to a key that maps back to itself.
	for _, col := range r.Columns() {
		raw := rawRow(col, "v")
		m, ok := r.ResolveColumn(raw, col)
		require.True(t, ok, "column %s", col)
		assert.Equal(t, ExactMatch, m.Kind, "column %s", col)
		assert.Equal(t, "v", m.Value, "column %s", col)
	}
}

func TestResolveEmptyHeaderNeverMatches(t *testing.T) {
	r := newTestResolver(t)

	raw := rawRow("###", "junk")
	row := r.Resolve(raw)
	for _, col := range r.Columns() {
		assert.Equal(t, "", row.Get(col), "column %s", col)
	}
	// the unmatched header survives as an extra
	require.Len(t, row.Extras, 1)
	assert.Equal(t, "###", row.Extras[0].Header)
}

func TestCanonicalCandidatePluralRule(t *testing.T) {
	aliases := DefaultAliases()
	cols := domain.CanonicalColumns()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"REMARKS", domain.ColRemarks, true},   // exact
		{"Box No", domain.ColBoxNum, true},     // alias
		{"comments", domain.ColRemarks, true},  // plural of registered alias
		{"vendors", domain.ColFactory, true},   // plural of registered alias
		{"warehouse", "", false},               // no mapping
		{"", "", false},                        // empty never matches
	}
	for _, tt := range tests {
		got, ok := aliases.CanonicalCandidate(tt.header, cols)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.want, got, "header %q", tt.header)
	}
}
