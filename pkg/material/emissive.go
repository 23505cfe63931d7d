package material

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// Emissive represents a light-emitting material
type Emissive struct {
	MatName   string
	Color     core.RGB
	Alpha     float64
	Emittance float64 // Emission strength
	Volume    bool    // Drive the volume socket instead of the surface
}

// NewEmissive creates a new emissive material with unit strength
func NewEmissive(name string, color core.RGB) *Emissive {
	return &Emissive{MatName: name, Color: color, Alpha: 1.0, Emittance: 1.0}
}

func (e *Emissive) Name() string { return e.MatName }

func (e *Emissive) UsesVolume() bool { return e.Volume }

func (e *Emissive) Validate() error {
	return checkAlpha(e.MatName, e.Alpha)
}

func (e *Emissive) Emit(b *script.Buffer, d api.Dialect) {
	v := Var(e)
	nodeTree(b, v, e.MatName)
	em := script.NodeVar(e.Name(), "e")
	b.A(`%s = nodes.new(type="ShaderNodeEmission")`, em)
	b.A("%s.inputs[0].default_value = %s", em, script.Color4(e.Color, e.Alpha))
	b.A("%s.inputs[1].default_value = %s", em, script.Short(e.Emittance))
	mix := transparentMix(b, e.Name(), em, e.Alpha)
	output(b, e.Name(), mix, e.Volume)
}
