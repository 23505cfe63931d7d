package material

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// Flat is a plain diffuse material. Below full opacity it is rebuilt as a
// diffuse/transparent mix.
type Flat struct {
	MatName string
	Color   core.RGB
	Alpha   float64
}

// NewFlat creates an opaque flat material
func NewFlat(name string, color core.RGB) *Flat {
	return &Flat{MatName: name, Color: color, Alpha: 1.0}
}

func (f *Flat) Name() string { return f.MatName }

func (f *Flat) Validate() error {
	return checkAlpha(f.MatName, f.Alpha)
}

func (f *Flat) Emit(b *script.Buffer, d api.Dialect) {
	v := Var(f)
	b.A("%s = bpy.data.materials.new(%s)", v, script.Quote(f.MatName))
	if d.Legacy() {
		b.A("%s.diffuse_color = %s", v, script.Color3(f.Color))
	} else {
		b.A("%s.diffuse_color = %s", v, script.Color4(f.Color, f.Alpha))
	}
	if f.Alpha >= 1.0 {
		return
	}
	b.A("%s.use_nodes = True", v)
	b.A("nodes = %s.node_tree.nodes", v)
	b.AddLine("nodes.clear()")
	b.A("links = %s.node_tree.links", v)
	bsdf := script.NodeVar(f.Name(), "bsdf")
	b.A(`%s = nodes.new("ShaderNodeBsdfDiffuse")`, bsdf)
	b.A("%s.inputs[0].default_value = %s", bsdf, script.Color4(f.Color, f.Alpha))
	mix := transparentMix(b, f.Name(), bsdf, f.Alpha)
	output(b, f.Name(), mix, false)
}
