package geometry

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

var pyramidFaces = [][]int{
	{0, 1, 2, 3}, {4, 5, 1, 0}, {5, 6, 2, 1},
	{6, 7, 3, 2}, {7, 4, 0, 3}, {4, 5, 6, 7},
}

// Pyramid is a square frustum centred at C with top width TopWidth, bottom
// width BottomWidth and height H along Axis. A zero top width gives a
// pointed pyramid.
type Pyramid struct {
	PyramidName string
	C           core.Vec3
	TopWidth    float64
	BottomWidth float64
	H           float64
	Axis        core.Axis
}

// NewPyramid creates a pyramid along z
func NewPyramid(name string, c core.Vec3, tw, bw, h float64) *Pyramid {
	return &Pyramid{PyramidName: name, C: c, TopWidth: tw, BottomWidth: bw, H: h, Axis: core.AxisZ}
}

func (p *Pyramid) Name() string { return p.PyramidName }

func (p *Pyramid) Validate() error {
	if err := checkName("pyramid", p.PyramidName); err != nil {
		return err
	}
	if !p.Axis.Valid() {
		return invalid("pyramid", p.PyramidName, "axis %d: %v", int(p.Axis), core.ErrInvalidAxis)
	}
	if p.TopWidth < 0 || p.BottomWidth < 0 || (p.TopWidth == 0 && p.BottomWidth == 0) {
		return invalid("pyramid", p.PyramidName, "widths %g and %g", p.TopWidth, p.BottomWidth)
	}
	return checkPositive("pyramid", p.PyramidName, "height", p.H)
}

func (p *Pyramid) Placement() Placement {
	return Placement{Location: p.C, Rotation: core.AxisRotation(p.Axis), Scale: core.Splat(1)}
}

// Vertices returns the frustum corners about the origin, top ring first
func (p *Pyramid) Vertices() []core.Vec3 {
	t, w, h := p.TopWidth/2, p.BottomWidth/2, p.H/2
	return []core.Vec3{
		{X: -t, Y: -t, Z: h}, {X: t, Y: -t, Z: h}, {X: t, Y: t, Z: h}, {X: -t, Y: t, Z: h},
		{X: -w, Y: -w, Z: -h}, {X: w, Y: -w, Z: -h}, {X: w, Y: w, Z: -h}, {X: -w, Y: w, Z: -h},
	}
}

func (p *Pyramid) Emit(b *script.Buffer, d api.Dialect) {
	pl := p.Placement()
	v := meshObject(b, d, p.PyramidName, p.Vertices(), nil, pyramidFaces)
	b.A("%s.rotation_euler = %s", v, script.Vec(pl.Rotation))
	applyTransform(b, "rotation")
	b.A("%s.location = %s", v, script.Vec(pl.Location))
	applyTransform(b, "location")
}
