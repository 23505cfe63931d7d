package material

import (
	"fmt"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// PrincipledBSDF is a single Principled BSDF wired to the surface output
type PrincipledBSDF struct {
	MatName   string
	Color     core.RGB
	Specular  float64
	Roughness float64
}

// NewPrincipledBSDF returns a white, mostly rough principled material
func NewPrincipledBSDF(name string) *PrincipledBSDF {
	return &PrincipledBSDF{
		MatName:   name,
		Color:     core.RGB{R: 1, G: 1, B: 1},
		Specular:  0.01,
		Roughness: 0.5,
	}
}

func (p *PrincipledBSDF) Name() string { return p.MatName }

func (p *PrincipledBSDF) Validate() error {
	if err := checkAlpha(p.MatName, 1); err != nil {
		return err
	}
	if p.Roughness < 0 || p.Roughness > 1 {
		return fmt.Errorf("%w: %s: roughness %g outside [0, 1]", ErrInvalidMaterial, p.MatName, p.Roughness)
	}
	if p.Specular < 0 {
		return fmt.Errorf("%w: %s: negative specular", ErrInvalidMaterial, p.MatName)
	}
	return nil
}

func (p *PrincipledBSDF) Emit(b *script.Buffer, d api.Dialect) {
	v := Var(p)
	nodeTree(b, v, p.MatName)
	bsdf := script.NodeVar(p.Name(), "bsdf")
	b.A(`%s = nodes.new(type="ShaderNodeBsdfPrincipled")`, bsdf)
	b.A("%s.inputs[0].default_value = %s", bsdf, script.Color4(p.Color, 1))
	b.A("%s.inputs[%s].default_value = %s", bsdf, script.Quote(d.SpecularInput), script.Short(p.Specular))
	b.A("%s.inputs[%s].default_value = %s", bsdf, script.Quote(d.RoughnessInput), script.Short(p.Roughness))
	output(b, p.Name(), bsdf, false)
}
