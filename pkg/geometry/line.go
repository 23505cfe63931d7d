package geometry

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// Line is a polyline through Points, converted to a curve with a round
// bevel of depth Bevel
type Line struct {
	LineName string
	Points   []core.Vec3
	Bevel    float64
}

// NewLine creates a line with unit bevel
func NewLine(name string, points []core.Vec3) *Line {
	return &Line{LineName: name, Points: points, Bevel: 1.0}
}

func (l *Line) Name() string { return l.LineName }

func (l *Line) Validate() error {
	if err := checkName("line", l.LineName); err != nil {
		return err
	}
	if len(l.Points) < 2 {
		return invalid("line", l.LineName, "need at least 2 points, got %d", len(l.Points))
	}
	return checkPositive("line", l.LineName, "bevel", l.Bevel)
}

func (l *Line) Placement() Placement {
	return Placement{Scale: core.Splat(1)}
}

// Edges joins consecutive points
func (l *Line) Edges() [][]int {
	if len(l.Points) < 2 {
		return nil
	}
	edges := make([][]int, len(l.Points)-1)
	for i := range edges {
		edges[i] = []int{i, i + 1}
	}
	return edges
}

func (l *Line) Emit(b *script.Buffer, d api.Dialect) {
	v := meshObject(b, d, l.LineName, l.Points, l.Edges(), nil)
	b.AddLine(`bpy.ops.object.convert(target="CURVE")`)
	b.A("%s = bpy.context.object", v)
	b.A(`%s.data.fill_mode = "FULL"`, v)
	b.A("%s.data.bevel_depth = %s", v, script.Float(l.Bevel))
}
