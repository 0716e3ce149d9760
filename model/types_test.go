package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeArea(t *testing.T) {
	assert.InDelta(t, 0.06, Size{Width: 0.2, Height: 0.3}.Area(), 1e-12)
}

func TestSizeValid(t *testing.T) {
	tests := []struct {
		name string
		size Size
		want bool
	}{
		{"positive", Size{0.1, 0.2}, true},
		{"full image", Size{1, 1}, true},
		{"zero width", Size{0, 0.2}, false},
		{"negative height", Size{0.1, -0.2}, false},
		{"nan", Size{math.NaN(), 0.2}, false},
		{"inf", Size{0.1, math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.size.Valid())
		})
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "Size(0.5000 x 0.2500)", Size{0.5, 0.25}.String())
	assert.Equal(t, "Anchor(672x378)", Anchor{672, 378}.String())
}
