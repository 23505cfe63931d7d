package material

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// Transparent only sets the viewport colour; objects using it are expected
// on the transparent layer
type Transparent struct {
	MatName string
	Color   core.RGB
}

func (t *Transparent) Name() string { return t.MatName }

func (t *Transparent) Validate() error {
	return checkAlpha(t.MatName, 1)
}

func (t *Transparent) Emit(b *script.Buffer, d api.Dialect) {
	v := Var(t)
	b.A("%s = bpy.data.materials.new(%s)", v, script.Quote(t.MatName))
	if d.Legacy() {
		b.A("%s.diffuse_color = %s", v, script.Color3(t.Color))
	} else {
		b.A("%s.diffuse_color = %s", v, script.Color4(t.Color, 1))
	}
}
