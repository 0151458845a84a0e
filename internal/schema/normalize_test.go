package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   NormKey
	}{
		{name: "plain lower", header: "container", want: "container"},
		{name: "mixed case", header: "BoxNum", want: "boxnum"},
		{name: "surrounding whitespace", header: "  Factory \t", want: "factory"},
		{name: "punctuation stripped", header: "Box No.", want: "boxno"},
		{name: "spaces stripped", header: "Item Count", want: "itemcount"},
		{name: "non-breaking space stripped", header: "Box No", want: "boxno"},
		{name: "underscore kept", header: "box_num", want: "box_num"},
		{name: "digits kept", header: "Col 1", want: "col1"},
		{name: "empty", header: "", want: ""},
		{name: "only punctuation", header: "###", want: ""},
		{name: "whitespace only", header: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.header))
		})
	}
}

func TestNormalizeInterchangeable(t *testing.T) {
	tests := []struct {
		a, b  string
		equal bool
	}{
		{"Box No", "box-no", true},
		{"REMARKS", "remarks", true},
		{"Item Count", "ItemCount", true},
		// underscore is significant
		{"Item Count", "ITEM_COUNT", false},
	}
	for _, tt := range tests {
		if tt.equal {
			assert.Equal(t, Normalize(tt.a), Normalize(tt.b), "%q vs %q", tt.a, tt.b)
		} else {
			assert.NotEqual(t, Normalize(tt.a), Normalize(tt.b), "%q vs %q", tt.a, tt.b)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, h := range []string{"Box No.", "CONTAINER", "kits "} {
		key := Normalize(h)
		assert.Equal(t, key, Normalize(string(key)))
	}
}
