package geometry

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// Plane is an axis-aligned rectangle. Exactly one component of L is zero;
// that axis is the plane normal.
type Plane struct {
	PlaneName string
	C         core.Vec3
	L         core.Vec3
}

// NewPlane creates a plane from its centre and extent
func NewPlane(name string, c, l core.Vec3) *Plane {
	return &Plane{PlaneName: name, C: c, L: l}
}

// NewPlaneCorners creates a plane spanning two corners that share one
// coordinate
func NewPlaneCorners(name string, lo, hi core.Vec3) *Plane {
	c, l := core.CentreExtent(lo, hi)
	return NewPlane(name, c, l)
}

func (p *Plane) Name() string { return p.PlaneName }

func (p *Plane) Validate() error {
	if err := checkName("plane", p.PlaneName); err != nil {
		return err
	}
	normal, ok := core.ZeroExtentAxis(p.L)
	if !ok {
		return invalid("plane", p.PlaneName, "extent %v has no zero component", p.L.Slice())
	}
	for _, a := range []core.Axis{core.AxisX, core.AxisY, core.AxisZ} {
		if a != normal && p.L.Index(a) == 0 {
			return invalid("plane", p.PlaneName, "extent %v is degenerate", p.L.Slice())
		}
	}
	return nil
}

// Placement turns the host's unit plane (normal z) onto the zero-extent
// axis, then scales the in-plane axes to half the extents. The normal axis
// keeps unit scale so the rotated mesh does not collapse.
func (p *Plane) Placement() Placement {
	normal, ok := core.ZeroExtentAxis(p.L)
	if !ok {
		normal = core.AxisZ
	}
	scale := p.L.Multiply(0.5).WithIndex(normal, 1)
	return Placement{Location: p.C, Rotation: core.AxisRotation(normal), Scale: scale}
}

func (p *Plane) Emit(b *script.Buffer, d api.Dialect) {
	pl := p.Placement()
	b.AddLine("bpy.ops.mesh.primitive_plane_add()")
	b.A("bpy.context.object.name = %s", script.Quote(p.PlaneName))
	b.A("bpy.context.object.rotation_euler = %s", script.Vec(pl.Rotation))
	applyTransform(b, "rotation")
	b.A("bpy.context.object.location = %s", script.Vec(pl.Location))
	b.A("bpy.context.object.scale = %s", script.Vec(pl.Scale))
	applyTransform(b, "location", "scale")
	b.A("%s = bpy.context.object", script.ObjectVar(p.PlaneName))
}
