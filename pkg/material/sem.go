package material

import (
	"fmt"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// SEM imitates a scanning electron micrograph: edges glow, faces facing
// the camera stay dark
type SEM struct {
	MatName     string
	EmitColor   core.RGB
	BSDFColor   core.RGB
	LayerWeight float64 // Blend value of the layer weight node
}

// NewSEM returns a SEM material with the usual defaults
func NewSEM(name string) *SEM {
	return &SEM{
		MatName:     name,
		EmitColor:   core.MustParseColor("#EEEEEE"),
		BSDFColor:   core.MustParseColor("#000000"),
		LayerWeight: 0.3,
	}
}

func (s *SEM) Name() string { return s.MatName }

func (s *SEM) Validate() error {
	if err := checkAlpha(s.MatName, 1); err != nil {
		return err
	}
	if s.LayerWeight < 0 || s.LayerWeight > 1 {
		return fmt.Errorf("%w: %s: layer weight %g outside [0, 1]", ErrInvalidMaterial, s.MatName, s.LayerWeight)
	}
	return nil
}

func (s *SEM) Emit(b *script.Buffer, d api.Dialect) {
	v := Var(s)
	nodeTree(b, v, s.MatName)
	lw := script.NodeVar(s.Name(), "lw")
	bsdf := script.NodeVar(s.Name(), "bsdf")
	em := script.NodeVar(s.Name(), "e")
	mix := script.NodeVar(s.Name(), "mix")
	b.A(`%s = nodes.new(type="ShaderNodeLayerWeight")`, lw)
	b.A("%s.inputs[0].default_value = %s", lw, script.Short(s.LayerWeight))
	b.A(`%s = nodes.new(type="ShaderNodeBsdfPrincipled")`, bsdf)
	b.A("%s.inputs[0].default_value = %s", bsdf, script.Color4(s.BSDFColor, 1))
	b.A("%s.inputs[%s].default_value = 1.0", bsdf, script.Quote(d.RoughnessInput))
	b.A(`%s = nodes.new(type="ShaderNodeEmission")`, em)
	b.A("%s.inputs[0].default_value = %s", em, script.Color4(s.EmitColor, 1))
	b.A("%s.inputs[1].default_value = 100.0", em)
	b.A(`%s = nodes.new("ShaderNodeMixShader")`, mix)
	b.A("links.new(%s.outputs[0], %s.inputs[0])", lw, mix)
	b.A("links.new(%s.outputs[0], %s.inputs[1])", bsdf, mix)
	b.A("links.new(%s.outputs[0], %s.inputs[2])", em, mix)
	output(b, s.Name(), mix, false)
}
