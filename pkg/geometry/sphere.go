package geometry

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// DefaultSubdivisions is the ico sphere refinement used when none is given
const DefaultSubdivisions = 4

// Sphere is an ico sphere of radius R centred at C
type Sphere struct {
	SphereName   string
	C            core.Vec3
	R            float64
	Subdivisions int
}

// NewSphere creates a sphere with the default subdivision level
func NewSphere(name string, c core.Vec3, r float64) *Sphere {
	return &Sphere{SphereName: name, C: c, R: r, Subdivisions: DefaultSubdivisions}
}

func (s *Sphere) Name() string { return s.SphereName }

func (s *Sphere) Validate() error {
	if err := checkName("sphere", s.SphereName); err != nil {
		return err
	}
	if s.Subdivisions < 1 {
		return invalid("sphere", s.SphereName, "subdivisions must be at least 1, got %d", s.Subdivisions)
	}
	return checkPositive("sphere", s.SphereName, "radius", s.R)
}

func (s *Sphere) Placement() Placement {
	return Placement{Location: s.C, Scale: core.Splat(s.R)}
}

func (s *Sphere) Emit(b *script.Buffer, d api.Dialect) {
	p := s.Placement()
	b.A("bpy.ops.mesh.primitive_ico_sphere_add(subdivisions=%d)", s.Subdivisions)
	b.A("bpy.context.object.name = %s", script.Quote(s.SphereName))
	b.A("bpy.context.object.location = %s", script.Vec(p.Location))
	b.A("bpy.context.object.scale = %s", script.Vec(p.Scale))
	applyTransform(b, "location", "scale")
	b.A("%s = bpy.context.object", script.ObjectVar(s.SphereName))
}
