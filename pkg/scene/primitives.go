package scene

import (
	"fmt"
	"strings"

	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/geometry"
	"github.com/df07/go-bpwf/pkg/lights"
	"github.com/df07/go-bpwf/pkg/material"
)

// SEMColor as a Style colour selects the SEM-like edge glow material
const SEMColor = "sem"

// Style is the appearance of a new object. Color is a hex string or colour
// name. An Alpha of zero is read as opaque. Emittance zero keeps the
// emissive default. Material names an existing material and is assigned
// after any colour or image material.
type Style struct {
	Color     string
	Alpha     float64
	Emissive  bool
	Emittance float64
	Material  string
	Image     string
	Layer     core.Layer
}

func (st Style) alpha() float64 {
	if st.Alpha == 0 {
		return 1
	}
	return st.Alpha
}

// material builds the material the style implies for an object, or nil
func (st Style) material(object string) (material.Material, error) {
	switch {
	case strings.EqualFold(st.Color, SEMColor):
		return material.NewSEM(object + "_sem"), nil
	case st.Color != "":
		c, err := core.ParseColor(st.Color)
		if err != nil {
			return nil, err
		}
		if st.Emissive {
			e := material.NewEmissive(object+"_color", c)
			e.Alpha = st.alpha()
			if st.Emittance > 0 {
				e.Emittance = st.Emittance
			}
			return e, nil
		}
		f := material.NewFlat(object+"_color", c)
		f.Alpha = st.alpha()
		return f, nil
	case st.Image != "":
		img := material.NewImage(object+"_color", st.Image)
		img.Alpha = st.alpha()
		return img, nil
	}
	return nil, nil
}

// Add validates p and st, then writes the object, its group link and its
// material. Nothing is written when validation fails.
func (s *Scene) Add(p geometry.Primitive, st Style) error {
	if err := p.Validate(); err != nil {
		return err
	}
	name := p.Name()
	if err := s.claimName(name); err != nil {
		return err
	}
	m, err := s.prepareStyle(name, st)
	if err != nil {
		return err
	}

	p.Emit(s.b, s.dialect)
	v := geometry.Var(p)
	if g := st.Layer.GroupVar(); g != "" {
		s.b.A("%s.objects.link(%s)", g, v)
	}
	s.objects.add(name, kindOf(p))
	s.log.Debug().Str("object", name).Type("primitive", p).Msg("added primitive")
	return s.finishStyle(name, m, st)
}

func kindOf(p geometry.Primitive) Kind {
	switch p.(type) {
	case *geometry.Line:
		return KindCurve
	case *geometry.Volume:
		return KindVolume
	}
	return KindMesh
}

func (s *Scene) prepareStyle(object string, st Style) (material.Material, error) {
	if st.Material != "" && !s.materials.has(st.Material) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, st.Material)
	}
	m, err := st.material(object)
	if err != nil || m == nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.claimMaterial(m.Name()); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Scene) finishStyle(object string, m material.Material, st Style) error {
	if m != nil {
		s.emitMaterial(m)
		if err := s.SetMaterial(object, m.Name()); err != nil {
			return err
		}
	}
	if st.Material != "" {
		return s.SetMaterial(object, st.Material)
	}
	return nil
}

// Sphere adds an ico sphere
func (s *Scene) Sphere(name string, c core.Vec3, r float64, st Style) error {
	return s.Add(geometry.NewSphere(name, c, r), st)
}

// Box adds an axis-aligned box from centre and extent
func (s *Scene) Box(name string, c, l core.Vec3, st Style) error {
	return s.Add(geometry.NewBox(name, c, l), st)
}

// BoxCorners adds an axis-aligned box spanning two corners
func (s *Scene) BoxCorners(name string, lo, hi core.Vec3, st Style) error {
	return s.Add(geometry.NewBoxCorners(name, lo, hi), st)
}

// Cylinder adds a cylinder with base centre c extending h along axis
func (s *Scene) Cylinder(name string, c core.Vec3, r, h float64, axis core.Axis, st Style) error {
	cyl := geometry.NewCylinder(name, c, r, h)
	cyl.Axis = axis
	return s.Add(cyl, st)
}

// Cone adds a truncated cone along axis
func (s *Scene) Cone(name string, c core.Vec3, r1, r2, h float64, axis core.Axis, st Style) error {
	cone := geometry.NewCone(name, c, r1, r2, h)
	cone.Axis = axis
	return s.Add(cone, st)
}

// Plane adds an axis-aligned rectangle; one component of l must be zero
func (s *Scene) Plane(name string, c, l core.Vec3, st Style) error {
	return s.Add(geometry.NewPlane(name, c, l), st)
}

// Pyramid adds a square frustum along axis
func (s *Scene) Pyramid(name string, c core.Vec3, tw, bw, h float64, axis core.Axis, st Style) error {
	p := geometry.NewPyramid(name, c, tw, bw, h)
	p.Axis = axis
	return s.Add(p, st)
}

// Line adds a bevelled polyline
func (s *Scene) Line(name string, points []core.Vec3, bevel float64, st Style) error {
	l := geometry.NewLine(name, points)
	if bevel > 0 {
		l.Bevel = bevel
	}
	return s.Add(l, st)
}

// Scatter adds a sphere of radius r at every point
func (s *Scene) Scatter(name string, points []core.Vec3, r float64, st Style) error {
	sc := geometry.NewScatter(name, points)
	if r > 0 {
		sc.R = r
	}
	sc.Layer = st.Layer
	if sc.Layer == "" {
		sc.Layer = core.LayerRender
	}
	return s.Add(sc, st)
}

// Volume imports an OpenVDB file. Without a colour or material the volume
// is shaded from its own "color" and "density" grids.
func (s *Scene) Volume(name string, c core.Vec3, path string, st Style) error {
	v := geometry.NewVolume(name, c, path)
	if st.Color != "" || st.Material != "" || st.Image != "" {
		return s.Add(v, st)
	}
	pv := &material.PrincipledVolume{
		MatName:           name + "_color",
		ColorAttribute:    "color",
		DensityAttribute:  "density",
		DensityMultiplier: 1,
	}
	if err := s.claimMaterial(pv.MatName); err != nil {
		return err
	}
	if err := s.Add(v, st); err != nil {
		return err
	}
	s.emitMaterial(pv)
	return s.SetMaterial(name, pv.MatName)
}

// AddLight writes a lamp. Lamps are known objects and can be deleted or
// unlinked like any other.
func (s *Scene) AddLight(l lights.Light) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if err := s.claimName(l.Name()); err != nil {
		return err
	}
	l.Emit(s.b, s.dialect)
	s.objects.add(l.Name(), KindLight)
	s.log.Debug().Str("light", l.Name()).Str("type", string(l.Type())).Msg("added light")
	return nil
}

// Sun adds a sun lamp named "Sun"
func (s *Scene) Sun(strength float64) error {
	return s.AddLight(lights.NewSun(strength))
}

// Point adds a point lamp. Only the style's colour and layer are used.
func (s *Scene) Point(name string, location core.Vec3, strength float64, st Style) error {
	p := lights.NewPoint(name, location, strength)
	if st.Color != "" {
		c, err := core.ParseColor(st.Color)
		if err != nil {
			return err
		}
		p.Color = c
	}
	if st.Layer != "" {
		p.Layer = st.Layer
	}
	return s.AddLight(p)
}
