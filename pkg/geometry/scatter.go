package geometry

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// Scatter places a small sphere at every point. The first point gets a
// template sphere named after the scatter; the rest are copies sharing its
// mesh. Copies join Layer's group themselves because the scene only links
// the template.
type Scatter struct {
	ScatterName string
	Points      []core.Vec3
	R           float64
	Layer       core.Layer
}

// NewScatter creates a scatter of radius 0.01 spheres on the render layer
func NewScatter(name string, points []core.Vec3) *Scatter {
	return &Scatter{ScatterName: name, Points: points, R: 0.01, Layer: core.LayerRender}
}

func (s *Scatter) Name() string { return s.ScatterName }

func (s *Scatter) Validate() error {
	if err := checkName("scatter", s.ScatterName); err != nil {
		return err
	}
	if len(s.Points) == 0 {
		return invalid("scatter", s.ScatterName, "no points")
	}
	return checkPositive("scatter", s.ScatterName, "radius", s.R)
}

func (s *Scatter) Placement() Placement {
	var first core.Vec3
	if len(s.Points) > 0 {
		first = s.Points[0]
	}
	return Placement{Location: first, Scale: core.Splat(s.R)}
}

func (s *Scatter) template() *Sphere {
	p := s.Placement()
	return &Sphere{SphereName: s.ScatterName, C: p.Location, R: s.R, Subdivisions: 2}
}

func (s *Scatter) Emit(b *script.Buffer, d api.Dialect) {
	tmpl := s.template()
	tmpl.Emit(b, d)
	if len(s.Points) < 2 {
		return
	}
	v := script.ObjectVar(s.ScatterName)
	points := script.DataVar(s.ScatterName, "points")
	first := s.Points[0]
	b.A("%s = %s", points, script.VecList(s.Points[1:]))
	b.A("for row in %s:", points)
	b.A("    ob = %s.copy()", v)
	b.A("    %s", d.Link("ob"))
	b.A("    ob.location = (row[0] - %s, row[1] - %s, row[2] - %s)",
		script.Float(first.X), script.Float(first.Y), script.Float(first.Z))
	if g := s.Layer.GroupVar(); g != "" {
		b.A("    %s.objects.link(ob)", g)
	}
}
