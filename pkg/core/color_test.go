package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"#ffffff", RGB{1, 1, 1}},
		{"#000000", RGB{0, 0, 0}},
		{"#FF0000", RGB{1, 0, 0}},
		{"#0f0", RGB{0, 1, 0}},
		{"white", RGB{1, 1, 1}},
		{"Blue", RGB{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.R, got.R, 1e-9)
			assert.InDelta(t, tt.want.G, got.G, 1e-9)
			assert.InDelta(t, tt.want.B, got.B, 1e-9)
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#gggggg", "notacolor"} {
		_, err := ParseColor(in)
		assert.ErrorIs(t, err, ErrInvalidColor, "ParseColor(%q)", in)
	}
}

func TestRGB_Hex(t *testing.T) {
	assert.Equal(t, "#555555", MustParseColor("#555555").Hex())
	assert.Equal(t, "#ff5733", MustParseColor("#FF5733").Hex())
}
