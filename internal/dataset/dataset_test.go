package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargocli/pkg/contracts/domain"
)

func TestStoreAddAndGet(t *testing.T) {
	s := NewStore()

	d := s.Add("shipment.xlsx", []domain.NormalizedRow{{NO: "1"}, {NO: "2"}})
	require.NotEmpty(t, d.ID)
	assert.Equal(t, "shipment.xlsx", d.Name)
	assert.False(t, d.LoadedAt.IsZero())

	got, err := s.Get(d.ID)
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = s.Get("no-such-id")
	require.Error(t, err)
}

func TestStoreListOrder(t *testing.T) {
	s := NewStore()
	a := s.Add("a.xlsx", nil)
	b := s.Add("b.xlsx", nil)
	c := s.Add("c.xlsx", nil)

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

	require.True(t, s.Remove(b.ID))
	list = s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a.xlsx", list[0].Name)
	assert.Equal(t, "c.xlsx", list[1].Name)
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	d := s.Add("shipment.xlsx", nil)

	assert.True(t, s.Remove(d.ID))
	assert.False(t, s.Remove(d.ID), "second remove reports missing")

	_, err := s.Get(d.ID)
	require.Error(t, err)
}

func TestStoreIDsAreUnique(t *testing.T) {
	s := NewStore()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		d := s.Add("x.xlsx", nil)
		require.False(t, seen[d.ID])
		seen[d.ID] = true
	}
}
