package loaders

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/geometry"
	"github.com/df07/go-bpwf/pkg/material"
	"github.com/df07/go-bpwf/pkg/scene"
)

type stepFunc func(s *scene.Scene, st Step) error

var stepOps = map[string]stepFunc{
	"sun":          applySun,
	"point":        applyPoint,
	"sphere":       applySphere,
	"box":          applyBox,
	"cylinder":     applyCylinder,
	"cone":         applyCone,
	"plane":        applyPlane,
	"pyramid":      applyPyramid,
	"line":         applyLine,
	"scatter":      applyScatter,
	"volume":       applyVolume,
	"material":     applyMaterial,
	"set_material": applySetMaterial,
	"subtract":     booleanStep(scene.OpDifference),
	"union":        booleanStep(scene.OpUnion),
	"intersect":    booleanStep(scene.OpIntersect),
	"unlink":       func(s *scene.Scene, st Step) error { return s.Unlink(st.Name) },
	"delete":       func(s *scene.Scene, st Step) error { return s.Delete(st.Name) },
	"explode":      applyExplode,
	"cutaway":      applyCutaway,
	"look_at":      func(s *scene.Scene, st Step) error { return s.LookAt(st.Target) },
}

// Ops lists the step ops Build understands, sorted
func Ops() []string {
	ops := make([]string, 0, len(stepOps))
	for op := range stepOps {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

func applyStep(s *scene.Scene, st Step) error {
	fn, ok := stepOps[strings.ToLower(strings.TrimSpace(st.Op))]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
	}
	return fn(s, st)
}

func (st Step) style() (scene.Style, error) {
	layer, err := core.ParseLayer(st.Layer)
	if err != nil {
		return scene.Style{}, err
	}
	image := st.Image
	if image != "" {
		if image, err = homedir.Expand(image); err != nil {
			return scene.Style{}, err
		}
	}
	return scene.Style{
		Color:     st.Color,
		Alpha:     st.Alpha,
		Emissive:  st.Emissive,
		Emittance: st.Emittance,
		Material:  st.Material,
		Image:     image,
		Layer:     layer,
	}, nil
}

func (st Step) axis() (core.Axis, error) {
	return core.ParseAxis(st.Axis)
}

// corners returns the x1..z2 corner form. Either all six are set or none.
func (st Step) corners() (lo, hi core.Vec3, ok bool, err error) {
	fields := []*float64{st.X1, st.Y1, st.Z1, st.X2, st.Y2, st.Z2}
	set := 0
	for _, f := range fields {
		if f != nil {
			set++
		}
	}
	switch set {
	case 0:
		return lo, hi, false, nil
	case len(fields):
		return core.NewVec3(*st.X1, *st.Y1, *st.Z1), core.NewVec3(*st.X2, *st.Y2, *st.Z2), true, nil
	}
	return lo, hi, false, fmt.Errorf("corner form needs all of x1, y1, z1, x2, y2, z2")
}

func vecs(vs []Vec) []core.Vec3 {
	out := make([]core.Vec3, len(vs))
	for i := range vs {
		out[i] = vs[i].vec3()
	}
	return out
}

func applySun(s *scene.Scene, st Step) error {
	return s.Sun(st.Strength)
}

func applyPoint(s *scene.Scene, st Step) error {
	style, err := st.style()
	if err != nil {
		return err
	}
	loc := st.Location
	if loc == nil {
		loc = st.C
	}
	return s.Point(st.Name, loc.vec3(), st.Strength, style)
}

func applySphere(s *scene.Scene, st Step) error {
	style, err := st.style()
	if err != nil {
		return err
	}
	sph := geometry.NewSphere(st.Name, st.C.vec3(), st.R)
	if st.Subdivisions != 0 {
		sph.Subdivisions = st.Subdivisions
	}
	return s.Add(sph, style)
}

func applyBox(s *scene.Scene, st Step) error {
	style, err := st.style()
	if err != nil {
		return err
	}
	lo, hi, hasCorners, err := st.corners()
	if err != nil {
		return err
	}
	var box *geometry.Box
	switch {
	case len(st.Verts) > 0:
		box = geometry.NewBoxVerts(st.Name, vecs(st.Verts))
	case hasCorners:
		box = geometry.NewBoxCorners(st.Name, lo, hi)
	default:
		box = geometry.NewBox(st.Name, st.C.vec3(), st.L.vec3())
	}
	if st.Rotation != nil {
		r := st.Rotation.vec3()
		box.Rotation = &r
	}
	return s.Add(box, style)
}

func applyCylinder(s *scene.Scene, st Step) error {
	style, err := st.style()
	if err != nil {
		return err
	}
	axis, err := st.axis()
	if err != nil {
		return err
	}
	return s.Cylinder(st.Name, st.C.vec3(), st.R, st.H, axis, style)
}

func applyCone(s *scene.Scene, st Step) error {
	style, err := st.style()
	if err != nil {
		return err
	}
	axis, err := st.axis()
	if err != nil {
		return err
	}
	cone := geometry.NewCone(st.Name, st.C.vec3(), st.R1, st.R2, st.H)
	cone.Axis = axis
	if st.Rotation != nil {
		r := st.Rotation.vec3()
		cone.Rotation = &r
	}
	return s.Add(cone, style)
}

func applyPlane(s *scene.Scene, st Step) error {
	style, err := st.style()
	if err != nil {
		return err
	}
	lo, hi, hasCorners, err := st.corners()
	if err != nil {
		return err
	}
	if hasCorners {
		return s.Add(geometry.NewPlaneCorners(st.Name, lo, hi), style)
	}
	return s.Plane(st.Name, st.C.vec3(), st.L.vec3(), style)
}

func applyPyramid(s *scene.Scene, st Step) error {
	style, err := st.style()
	if err != nil {
		return err
	}
	axis, err := st.axis()
	if err != nil {
		return err
	}
	return s.Pyramid(st.Name, st.C.vec3(), st.TopWidth, st.BottomWidth, st.H, axis, style)
}

func applyLine(s *scene.Scene, st Step) error {
	style, err := st.style()
	if err != nil {
		return err
	}
	return s.Line(st.Name, vecs(st.Points), st.Bevel, style)
}

func applyScatter(s *scene.Scene, st Step) error {
	style, err := st.style()
	if err != nil {
		return err
	}
	return s.Scatter(st.Name, vecs(st.Points), st.R, style)
}

func applyVolume(s *scene.Scene, st Step) error {
	style, err := st.style()
	if err != nil {
		return err
	}
	path, err := homedir.Expand(st.Path)
	if err != nil {
		return err
	}
	return s.Volume(st.Name, st.C.vec3(), path, style)
}

func applyMaterial(s *scene.Scene, st Step) error {
	m, err := st.material()
	if err != nil {
		return err
	}
	return s.AddMaterial(m)
}

// material builds a standalone material from a step of op "material"
func (st Step) material() (material.Material, error) {
	color := core.RGB{R: 1, G: 1, B: 1}
	if st.Color != "" {
		c, err := core.ParseColor(st.Color)
		if err != nil {
			return nil, err
		}
		color = c
	}
	alpha := st.Alpha
	if alpha == 0 {
		alpha = 1
	}

	switch strings.ToLower(st.Kind) {
	case "", "flat":
		f := material.NewFlat(st.Name, color)
		f.Alpha = alpha
		return f, nil
	case "emissive":
		e := material.NewEmissive(st.Name, color)
		e.Alpha = alpha
		e.Volume = st.Volume
		if st.Emittance > 0 {
			e.Emittance = st.Emittance
		}
		return e, nil
	case "transparent":
		return &material.Transparent{MatName: st.Name, Color: color}, nil
	case "sem":
		return material.NewSEM(st.Name), nil
	case "principled":
		p := material.NewPrincipledBSDF(st.Name)
		p.Color = color
		if st.Specular != 0 {
			p.Specular = st.Specular
		}
		if st.Roughness != 0 {
			p.Roughness = st.Roughness
		}
		return p, nil
	case "volume":
		density := st.Density
		if density == 0 {
			density = 1
		}
		return &material.PrincipledVolume{
			MatName:           st.Name,
			Color:             color,
			ColorAttribute:    st.ColorAttribute,
			DensityAttribute:  st.DensityAttribute,
			DensityMultiplier: density,
		}, nil
	case "image":
		path, err := homedir.Expand(st.Path)
		if err != nil {
			return nil, err
		}
		im := material.NewImage(st.Name, path)
		im.Alpha = alpha
		im.Volume = st.Volume
		return im, nil
	}
	return nil, fmt.Errorf("unknown material kind %q", st.Kind)
}

func applySetMaterial(s *scene.Scene, st Step) error {
	return s.SetMaterial(st.Name, st.Material)
}

func booleanStep(op scene.BooleanOp) stepFunc {
	return func(s *scene.Scene, st Step) error {
		return s.Boolean(st.Left, st.Right, op, st.Unlink)
	}
}

func applyExplode(s *scene.Scene, st Step) error {
	factor := core.Splat(1)
	if st.Factor != nil {
		factor = st.Factor.vec3()
	}
	return s.Explode(st.Name, st.C.vec3(), factor)
}

func applyCutaway(s *scene.Scene, st Step) error {
	lo, hi, hasCorners, err := st.corners()
	if err != nil {
		return err
	}
	c, l := st.C.vec3(), st.L.vec3()
	if hasCorners {
		c, l = core.CentreExtent(lo, hi)
	}
	_, err = s.Cutaway(c, l, st.Exclude)
	return err
}
