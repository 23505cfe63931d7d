package core

import (
	"fmt"
	"strings"
)

// Layer selects the object group an object joins. Freestyle line rendering
// is driven by the render group; the transparent group is excluded.
type Layer string

const (
	LayerRender Layer = "render"
	LayerTrans  Layer = "trans"
	LayerNone   Layer = "none"
)

// GroupVar returns the script variable of the group collection, or "" for
// LayerNone
func (l Layer) GroupVar() string {
	switch l {
	case LayerTrans:
		return "tg"
	case LayerNone:
		return ""
	default:
		return "fg"
	}
}

// ParseLayer accepts "render", "trans", "none" and the empty string (render)
func ParseLayer(s string) (Layer, error) {
	switch Layer(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayerRender:
		return LayerRender, nil
	case LayerTrans:
		return LayerTrans, nil
	case LayerNone:
		return LayerNone, nil
	}
	return LayerRender, fmt.Errorf("unknown layer %q", s)
}
