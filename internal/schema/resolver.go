package schema

import (
	"fmt"

	"cargocli/pkg/contracts/domain"
)

// MatchKind tags the strategy that resolved a canonical column. The
// declaration order below is the resolution order; it matches legacy
// behavior and must not be reordered.
type MatchKind string

const (
	// ExactMatch: a raw header normalizes to the column's own key.
	ExactMatch MatchKind = "exact"
	// AliasMatch: a raw header normalizes to a registered alias of the column.
	AliasMatch MatchKind = "alias"
	// HeaderScanMatch: exact semantics re-checked over raw header strings
	// directly, a safety net against colliding normalized keys.
	HeaderScanMatch MatchKind = "header_scan"
	// SubstringMatch: a raw header's key contains the column's key or vice
	// versa. Last-resort fuzzy match; false positives on pathological header
	// sets are an accepted trade-off.
	SubstringMatch MatchKind = "substring"
	// ReverseAliasMatch: a second alias pass scanning raw headers, catching
	// aliases the indexed pass missed due to key collisions.
	ReverseAliasMatch MatchKind = "reverse_alias"
)

// Strategies returns the resolution order as a testable contract.
func Strategies() []MatchKind {
	return []MatchKind{ExactMatch, AliasMatch, HeaderScanMatch, SubstringMatch, ReverseAliasMatch}
}

// Match records how a canonical column was resolved from a raw row.
type Match struct {
	Kind   MatchKind
	Header string
	Value  string
}

// Resolver reconciles raw rows against the canonical schema. Configured
// once at load time; resolution is a pure function of the row.
type Resolver struct {
	columns   []string
	colKeys   []NormKey
	aliases   AliasTable
	aliasKeys map[string][]NormKey // canonical column -> ordered alias keys
}

// NewResolver builds a resolver for the given canonical columns and alias
// table. An empty schema is a programmer error and fails fast.
func NewResolver(columns []string, aliases AliasTable) (*Resolver, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema: canonical column set must not be empty")
	}
	if aliases == nil {
		aliases = AliasTable{}
	}

	r := &Resolver{
		columns:   append([]string(nil), columns...),
		colKeys:   make([]NormKey, len(columns)),
		aliases:   aliases,
		aliasKeys: make(map[string][]NormKey, len(columns)),
	}
	for i, col := range columns {
		r.colKeys[i] = Normalize(col)
		r.aliasKeys[col] = aliases.keysFor(col)
	}
	return r, nil
}

// Columns returns the canonical schema in output order.
func (r *Resolver) Columns() []string {
	return append([]string(nil), r.columns...)
}

// rowIndex is the per-row view the strategies run against.
type rowIndex struct {
	raw domain.RawRow
	// first raw header per normalized key, in raw header order
	byKey map[NormKey]string
}

func (r *Resolver) index(raw domain.RawRow) rowIndex {
	idx := rowIndex{raw: raw, byKey: make(map[NormKey]string, len(raw.Headers))}
	for _, h := range raw.Headers {
		key := Normalize(h)
		if key.IsEmpty() {
			continue
		}
		if _, seen := idx.byKey[key]; !seen {
			idx.byKey[key] = h
		}
	}
	return idx
}

// Resolve maps a raw row onto the canonical schema. Unresolved columns come
// back as empty strings; raw headers whose keys matched no column are
// preserved verbatim as extras in original order. Pure: resolving the same
// row twice yields identical results.
func (r *Resolver) Resolve(raw domain.RawRow) domain.NormalizedRow {
	idx := r.index(raw)

	var row domain.NormalizedRow
	consumed := make(map[NormKey]bool, len(r.columns))
	for i, col := range r.columns {
		m, ok := r.resolveColumn(idx, i)
		if !ok {
			row.Set(col, "")
			continue
		}
		row.Set(col, m.Value)
		consumed[Normalize(m.Header)] = true
	}

	for _, h := range raw.Headers {
		if consumed[Normalize(h)] {
			continue
		}
		row.Extras = append(row.Extras, domain.ExtraField{Header: h, Value: raw.Get(h)})
	}
	return row
}

// ResolveColumn reports how the named canonical column resolves against the
// row, exposing the winning strategy for diagnostics and tests.
func (r *Resolver) ResolveColumn(raw domain.RawRow, column string) (Match, bool) {
	for i, col := range r.columns {
		if col == column {
			return r.resolveColumn(r.index(raw), i)
		}
	}
	return Match{}, false
}

// resolveColumn runs the strategies in contract order; first hit wins.
func (r *Resolver) resolveColumn(idx rowIndex, i int) (Match, bool) {
	col := r.columns[i]
	key := r.colKeys[i]
	if key.IsEmpty() {
		return Match{}, false
	}

	// 1. exact match on the normalized index
	if h, ok := idx.byKey[key]; ok {
		return Match{Kind: ExactMatch, Header: h, Value: idx.raw.Get(h)}, true
	}

	// 2. alias match via the precomputed alias keys
	for _, ak := range r.aliasKeys[col] {
		if h, ok := idx.byKey[ak]; ok {
			return Match{Kind: AliasMatch, Header: h, Value: idx.raw.Get(h)}, true
		}
	}

	// 3. exact semantics re-scanned over raw header strings
	for _, h := range idx.raw.Headers {
		if Normalize(h) == key {
			return Match{Kind: HeaderScanMatch, Header: h, Value: idx.raw.Get(h)}, true
		}
	}

	// 4. substring heuristic, either direction, first header in row order
	for _, h := range idx.raw.Headers {
		hk := Normalize(h)
		if hk.IsEmpty() {
			continue
		}
		if hk.Contains(key) || key.Contains(hk) {
			return Match{Kind: SubstringMatch, Header: h, Value: idx.raw.Get(h)}, true
		}
	}

	// 5. reverse alias scan over raw headers
	for _, h := range idx.raw.Headers {
		if target, ok := r.aliases[Normalize(h)]; ok && target == col {
			return Match{Kind: ReverseAliasMatch, Header: h, Value: idx.raw.Get(h)}, true
		}
	}

	return Match{}, false
}
