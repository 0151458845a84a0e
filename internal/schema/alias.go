package schema

import (
	"sort"

	"cargocli/pkg/contracts/domain"
)

// AliasTable maps a normalized alternate header key to the canonical column
// it stands for. Static configuration; never derived from data.
type AliasTable map[NormKey]string

// DefaultAliases returns the alias table covering the header spellings seen
// across operator-produced inspection sheets.
func DefaultAliases() AliasTable {
	return AliasTable{
		"serialno": domain.ColNO,
		"sn":       domain.ColNO,
		"index":    domain.ColNO,

		"containerno":     domain.ColContainerNum,
		"containernumber": domain.ColContainerNum,
		"contno":          domain.ColContainerNum,

		"boxno":     domain.ColBoxNum,
		"boxnumber": domain.ColBoxNum,
		"cartonno":  domain.ColBoxNum,
		"cartonnum": domain.ColBoxNum,

		"containername": domain.ColContainer,

		"boxdesc":        domain.ColBoxName,
		"boxdescription": domain.ColBoxName,
		"cartonname":     domain.ColBoxName,

		"itemqty":  domain.ColItemCount,
		"qty":      domain.ColItemCount,
		"quantity": domain.ColItemCount,
		"pcs":      domain.ColItemCount,

		"kit":      domain.ColKits,
		"kitcount": domain.ColKits,
		"kitqty":   domain.ColKits,

		"supplier":     domain.ColFactory,
		"vendor":       domain.ColFactory,
		"plant":        domain.ColFactory,
		"manufacturer": domain.ColFactory,

		"remark":  domain.ColRemarks,
		"note":    domain.ColRemarks,
		"comment": domain.ColRemarks,
		"status":  domain.ColRemarks,
	}
}

// keysFor returns the alias keys targeting the given canonical column in a
// deterministic (lexicographic) order.
func (t AliasTable) keysFor(column string) []NormKey {
	var keys []NormKey
	for k, target := range t {
		if target == column {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// CanonicalCandidate infers which canonical column an unmapped header most
// likely belongs to: exact key, registered alias, then the plural rule —
// a key with a trailing pluralizing character whose singular is a registered
// alias takes that alias's target. Used for candidate inference only, never
// during row resolution.
func (t AliasTable) CanonicalCandidate(header string, columns []string) (string, bool) {
	key := Normalize(header)
	if key.IsEmpty() {
		return "", false
	}
	for _, col := range columns {
		if Normalize(col) == key {
			return col, true
		}
	}
	if target, ok := t[key]; ok {
		return target, true
	}
	if n := len(key); n > 1 && key[n-1] == 's' {
		if target, ok := t[key[:n-1]]; ok {
			return target, true
		}
	}
	return "", false
}
