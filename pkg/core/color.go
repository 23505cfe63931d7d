package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned for colour strings that are neither hex codes
// nor known colour names
var ErrInvalidColor = errors.New("invalid color")

// RGB is a colour with components in [0, 1]
type RGB struct {
	R, G, B float64
}

// ParseColor parses "#rgb", "#rrggbb" or an SVG colour name such as
// "steelblue".
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGB{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return RGB{c.R, c.G, c.B}, nil
	}
	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c, _ := colorful.MakeColor(named)
	return RGB{c.R, c.G, c.B}, nil
}

// MustParseColor is ParseColor for literals known to be valid
func MustParseColor(s string) RGB {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the colour as "#rrggbb"
func (c RGB) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Vec returns the colour as a vector
func (c RGB) Vec() Vec3 {
	return Vec3{c.R, c.G, c.B}
}
