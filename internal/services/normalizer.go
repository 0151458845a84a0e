package services

import (
	"fmt"

	"cargocli/internal/dataprocessing"
	"cargocli/internal/schema"
	"cargocli/pkg/contracts/domain"
)

// Normalizer turns raw ingested rows into normalized rows using the
// canonical schema and the default alias table. Built once per service;
// resolution itself is pure and safe for concurrent use.
type Normalizer struct {
	resolver *schema.Resolver
}

// NewNormalizer builds a normalizer over the canonical column set.
func NewNormalizer() (*Normalizer, error) {
	resolver, err := schema.NewResolver(domain.CanonicalColumns(), schema.DefaultAliases())
	if err != nil {
		return nil, fmt.Errorf("failed to build schema resolver: %w", err)
	}
	return &Normalizer{resolver: resolver}, nil
}

// NormalizeFile parses an inspection workbook and normalizes every row.
func (n *Normalizer) NormalizeFile(path string) ([]domain.NormalizedRow, error) {
	raw, err := dataprocessing.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return n.normalize(raw), nil
}

// NormalizeGrid normalizes an already-decoded cell grid (header row first),
// the shape remote sources hand over.
func (n *Normalizer) NormalizeGrid(grid [][]string) []domain.NormalizedRow {
	return n.normalize(dataprocessing.ParseSheet(grid))
}

func (n *Normalizer) normalize(raw []domain.RawRow) []domain.NormalizedRow {
	rows := make([]domain.NormalizedRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, n.resolver.Resolve(r))
	}
	return rows
}
