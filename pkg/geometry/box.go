package geometry

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// boxFaces joins eight corner vertices, ordered by x then y then z bit,
// into the six quads of a hexahedron
var boxFaces = [][]int{
	{0, 1, 3, 2}, {4, 5, 7, 6}, {0, 1, 5, 4},
	{2, 3, 7, 6}, {1, 3, 7, 5}, {0, 2, 6, 4},
}

// Box is a rectangular parallelepiped given by centre and extent, or an
// arbitrary hexahedron given by eight vertices
type Box struct {
	BoxName  string
	C        core.Vec3
	L        core.Vec3
	Verts    []core.Vec3
	Rotation *core.Vec3
}

// NewBox creates an axis-aligned box from its centre and full extent
func NewBox(name string, c, l core.Vec3) *Box {
	return &Box{BoxName: name, C: c, L: l}
}

// NewBoxCorners creates an axis-aligned box spanning two opposite corners
func NewBoxCorners(name string, lo, hi core.Vec3) *Box {
	c, l := core.CentreExtent(lo, hi)
	return NewBox(name, c, l)
}

// NewBoxVerts creates a hexahedron from eight corner vertices
func NewBoxVerts(name string, verts []core.Vec3) *Box {
	return &Box{BoxName: name, Verts: verts}
}

func (x *Box) Name() string { return x.BoxName }

func (x *Box) Validate() error {
	if err := checkName("box", x.BoxName); err != nil {
		return err
	}
	if x.Verts != nil {
		if len(x.Verts) != 8 {
			return invalid("box", x.BoxName, "need 8 vertices, got %d", len(x.Verts))
		}
		return nil
	}
	for _, a := range []core.Axis{core.AxisX, core.AxisY, core.AxisZ} {
		if x.L.Index(a) <= 0 {
			return invalid("box", x.BoxName, "extent along %s must be positive, got %g", a, x.L.Index(a))
		}
	}
	return nil
}

func (x *Box) Placement() Placement {
	if x.Verts != nil {
		return Placement{Scale: core.Splat(1)}
	}
	p := Placement{Location: x.C, Scale: x.L.Multiply(0.5)}
	if x.Rotation != nil {
		p.Rotation = *x.Rotation
	}
	return p
}

func (x *Box) Emit(b *script.Buffer, d api.Dialect) {
	if x.Verts != nil {
		meshObject(b, d, x.BoxName, x.Verts, nil, boxFaces)
		return
	}
	p := x.Placement()
	b.AddLine("bpy.ops.mesh.primitive_cube_add()")
	b.A("bpy.context.object.name = %s", script.Quote(x.BoxName))
	b.A("bpy.context.object.location = %s", script.Vec(p.Location))
	b.A("bpy.context.object.scale = %s", script.Vec(p.Scale))
	applyTransform(b, "location", "scale")
	if x.Rotation != nil {
		b.A("bpy.context.object.rotation_euler = %s", script.Vec(p.Rotation))
		applyTransform(b, "rotation")
	}
	b.A("%s = bpy.context.object", script.ObjectVar(x.BoxName))
}
