// Package lights defines host lamps.
package lights

import (
	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/script"
)

type LightType string

const (
	LightTypeSun   LightType = "SUN"
	LightTypePoint LightType = "POINT"
)

// Light is a lamp that writes its own creation statements
type Light interface {
	Type() LightType
	Name() string
	Validate() error
	Emit(b *script.Buffer, d api.Dialect)
}

// emitLamp writes the light datablock and object shared by every lamp type
// and returns the object variable
func emitLamp(b *script.Buffer, d api.Dialect, typ LightType, name string, strength float64) string {
	obj := script.ObjectVar(name)
	data := script.DataVar(name, "data")
	b.A("%s = bpy.data.%s.new(name=%s, type=%s)", data, d.LightData, script.Quote(name), script.Quote(string(typ)))
	b.A("%s.use_nodes = True", data)
	b.A(`%s.node_tree.nodes["Emission"].inputs[1].default_value = %s`, data, script.Float(strength))
	if !d.Legacy() {
		b.A("%s.energy = %s", data, script.Float(strength))
	}
	b.A("%s = bpy.data.objects.new(name=%s, object_data=%s)", obj, script.Quote(name), data)
	b.AddLine(d.Link(obj))
	b.AddLine(d.Select(obj))
	b.AddLine(d.SetActive(obj))
	return obj
}
