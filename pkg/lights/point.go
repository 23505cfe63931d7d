package lights

import (
	"fmt"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// Point is an omnidirectional lamp at a location
type Point struct {
	LightName string
	Location  core.Vec3
	Strength  float64
	Color     core.RGB
	Layer     core.Layer
}

// NewPoint creates a grey point lamp on the render layer
func NewPoint(name string, location core.Vec3, strength float64) *Point {
	return &Point{
		LightName: name,
		Location:  location,
		Strength:  strength,
		Color:     core.MustParseColor("#555555"),
		Layer:     core.LayerRender,
	}
}

func (p *Point) Type() LightType { return LightTypePoint }

func (p *Point) Name() string { return p.LightName }

func (p *Point) Validate() error {
	if p.LightName == "" {
		return fmt.Errorf("point light: empty name")
	}
	if p.Strength < 0 {
		return fmt.Errorf("point light %q: negative strength %g", p.LightName, p.Strength)
	}
	return nil
}

func (p *Point) Emit(b *script.Buffer, d api.Dialect) {
	obj := emitLamp(b, d, LightTypePoint, p.LightName, p.Strength)
	b.A("%s.location = %s", obj, script.Vec(p.Location))
	b.A("%s.color = %s", script.DataVar(p.LightName, "data"), script.Color3(p.Color))
	if g := p.Layer.GroupVar(); g != "" {
		b.A("%s.objects.link(%s)", g, obj)
	}
}
