package geometry

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

const cylinderVertices = 128

// Cylinder is a right circular cylinder whose base centre is C and which
// extends H along Axis
type Cylinder struct {
	CylinderName string
	C            core.Vec3
	R            float64
	H            float64
	Axis         core.Axis
}

// NewCylinder creates a cylinder along z
func NewCylinder(name string, c core.Vec3, r, h float64) *Cylinder {
	return &Cylinder{CylinderName: name, C: c, R: r, H: h, Axis: core.AxisZ}
}

func (c *Cylinder) Name() string { return c.CylinderName }

func (c *Cylinder) Validate() error {
	if err := checkName("cylinder", c.CylinderName); err != nil {
		return err
	}
	if !c.Axis.Valid() {
		return invalid("cylinder", c.CylinderName, "axis %d: %v", int(c.Axis), core.ErrInvalidAxis)
	}
	if err := checkPositive("cylinder", c.CylinderName, "radius", c.R); err != nil {
		return err
	}
	return checkPositive("cylinder", c.CylinderName, "height", c.H)
}

// Placement shifts the centre half the height along the axis and scales the
// unit cylinder (depth 2) to radius R and height H
func (c *Cylinder) Placement() Placement {
	loc := c.C.WithIndex(c.Axis, c.C.Index(c.Axis)+c.H/2)
	scale := core.Splat(c.R).WithIndex(c.Axis, c.H/2)
	return Placement{Location: loc, Rotation: core.AxisRotation(c.Axis), Scale: scale}
}

func (c *Cylinder) Emit(b *script.Buffer, d api.Dialect) {
	p := c.Placement()
	b.A("bpy.ops.mesh.primitive_cylinder_add(vertices=%d)", cylinderVertices)
	b.A("bpy.context.object.name = %s", script.Quote(c.CylinderName))
	b.A("bpy.context.object.rotation_euler = %s", script.Vec(p.Rotation))
	applyTransform(b, "rotation")
	b.A("bpy.context.object.location = %s", script.Vec(p.Location))
	b.A("bpy.context.object.scale = %s", script.Vec(p.Scale))
	applyTransform(b, "location", "scale")
	b.A("%s = bpy.context.object", script.ObjectVar(c.CylinderName))
}
