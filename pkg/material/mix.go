package material

import (
	"github.com/df07/go-bpwf/pkg/script"
)

// nodeTree starts a node-based material bound to variable v and clears the
// host's default nodes
func nodeTree(b *script.Buffer, v, name string) {
	b.A("%s = bpy.data.materials.new(%s)", v, script.Quote(name))
	b.A("%s.use_nodes = True", v)
	b.A("nodes = %s.node_tree.nodes", v)
	b.AddLine("nodes.clear()")
	b.A("links = %s.node_tree.links", v)
}

// transparentMix mixes the shader node src with a transparent BSDF, weighted
// by 1-alpha, and returns the mix node variable
func transparentMix(b *script.Buffer, name, src string, alpha float64) string {
	glass := script.NodeVar(name, "glass")
	mix := script.NodeVar(name, "mix")
	b.A(`%s = nodes.new("ShaderNodeBsdfTransparent")`, glass)
	b.A(`%s = nodes.new("ShaderNodeMixShader")`, mix)
	b.A("links.new(%s.outputs[0], %s.inputs[1])", src, mix)
	b.A("links.new(%s.outputs[0], %s.inputs[2])", glass, mix)
	b.A("%s.inputs[0].default_value = %s", mix, script.Short(1.0-alpha))
	return mix
}

// output links node src to a new material output. Volume shaders use the
// second socket.
func output(b *script.Buffer, name, src string, volume bool) {
	out := script.NodeVar(name, "out")
	socket := 0
	if volume {
		socket = 1
	}
	b.A(`%s = nodes.new("ShaderNodeOutputMaterial")`, out)
	b.A("links.new(%s.outputs[0], %s.inputs[%d])", src, out, socket)
}
