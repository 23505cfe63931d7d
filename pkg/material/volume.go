package material

import (
	"fmt"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// PrincipledVolume shades imported volume grids. When ColorAttribute is set
// the grid of that name colours the volume and Color is ignored.
type PrincipledVolume struct {
	MatName           string
	Color             core.RGB
	ColorAttribute    string
	DensityAttribute  string
	DensityMultiplier float64
}

func (p *PrincipledVolume) Name() string { return p.MatName }

func (p *PrincipledVolume) UsesVolume() bool { return true }

func (p *PrincipledVolume) Validate() error {
	if err := checkAlpha(p.MatName, 1); err != nil {
		return err
	}
	if p.DensityMultiplier < 0 {
		return fmt.Errorf("%w: %s: negative density", ErrInvalidMaterial, p.MatName)
	}
	return nil
}

func (p *PrincipledVolume) Emit(b *script.Buffer, d api.Dialect) {
	v := Var(p)
	nodeTree(b, v, p.MatName)
	volp := script.NodeVar(p.Name(), "volp")
	b.A(`%s = nodes.new("ShaderNodeVolumePrincipled")`, volp)
	if p.ColorAttribute != "" {
		b.A(`%s.inputs["Color Attribute"].default_value = %s`, volp, script.Quote(p.ColorAttribute))
	} else {
		b.A(`%s.inputs["Color"].default_value = %s`, volp, script.Color4(p.Color, 1))
	}
	if p.DensityAttribute != "" {
		b.A(`%s.inputs["Density Attribute"].default_value = %s`, volp, script.Quote(p.DensityAttribute))
	}
	if p.DensityMultiplier > 0 {
		b.A(`%s.inputs["Density"].default_value = %s`, volp, script.Short(p.DensityMultiplier))
	}
	output(b, p.Name(), volp, true)
}
