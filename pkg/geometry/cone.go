package geometry

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// Cone is a truncated cone with base radius R1 and top radius R2. Swapping
// the radii reverses its direction along the axis.
type Cone struct {
	ConeName string
	C        core.Vec3
	R1       float64
	R2       float64
	H        float64
	Axis     core.Axis
	Rotation *core.Vec3
}

// NewCone creates a cone along z
func NewCone(name string, c core.Vec3, r1, r2, h float64) *Cone {
	return &Cone{ConeName: name, C: c, R1: r1, R2: r2, H: h, Axis: core.AxisZ}
}

func (c *Cone) Name() string { return c.ConeName }

func (c *Cone) Validate() error {
	if err := checkName("cone", c.ConeName); err != nil {
		return err
	}
	if !c.Axis.Valid() {
		return invalid("cone", c.ConeName, "axis %d: %v", int(c.Axis), core.ErrInvalidAxis)
	}
	if c.R1 < 0 || c.R2 < 0 || (c.R1 == 0 && c.R2 == 0) {
		return invalid("cone", c.ConeName, "radii %g and %g", c.R1, c.R2)
	}
	return checkPositive("cone", c.ConeName, "height", c.H)
}

// Placement uses the explicit rotation when set, otherwise the axis
// convention. The centre is always shifted along the axis.
func (c *Cone) Placement() Placement {
	rot := core.AxisRotation(c.Axis)
	if c.Rotation != nil {
		rot = *c.Rotation
	}
	loc := c.C.WithIndex(c.Axis, c.C.Index(c.Axis)+c.H/2)
	return Placement{Location: loc, Rotation: rot, Scale: core.Splat(1)}
}

func (c *Cone) Emit(b *script.Buffer, d api.Dialect) {
	p := c.Placement()
	b.A("bpy.ops.mesh.primitive_cone_add(radius1=%s, radius2=%s, depth=%s)",
		script.Float(c.R1), script.Float(c.R2), script.Float(c.H))
	b.A("bpy.context.object.name = %s", script.Quote(c.ConeName))
	b.A("bpy.context.object.rotation_euler = %s", script.Vec(p.Rotation))
	b.A("bpy.context.object.location = %s", script.Vec(p.Location))
	applyTransform(b, "rotation", "location")
	b.A("%s = bpy.context.object", script.ObjectVar(c.ConeName))
}
