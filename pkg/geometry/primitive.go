// Package geometry describes host primitives and writes the statements that
// create them.
package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// ErrInvalidParameters is returned by Validate for unusable dimensions
var ErrInvalidParameters = errors.New("invalid primitive parameters")

// Placement is the object transform a primitive is created with, before
// transforms are applied to the mesh
type Placement struct {
	Location core.Vec3
	Rotation core.Vec3
	Scale    core.Vec3
}

// Primitive is a mesh, curve or volume object the scene can create.
// Emit leaves the object bound to the variable Var(p).
type Primitive interface {
	Name() string
	Validate() error
	Placement() Placement
	Emit(b *script.Buffer, d api.Dialect)
}

// Var returns the script variable bound to a primitive's object
func Var(p Primitive) string {
	return script.ObjectVar(p.Name())
}

func invalid(kind, name, format string, args ...any) error {
	return fmt.Errorf("%s %q: %s: %w", kind, name, fmt.Sprintf(format, args...), ErrInvalidParameters)
}

func checkName(kind, name string) error {
	if name == "" {
		return invalid(kind, name, "empty name")
	}
	return nil
}

func checkPositive(kind, name, field string, v float64) error {
	if v <= 0 {
		return invalid(kind, name, "%s must be positive, got %g", field, v)
	}
	return nil
}

// bindActive names the object an operator just created and binds it
func bindActive(b *script.Buffer, name string) string {
	v := script.ObjectVar(name)
	b.A("bpy.context.object.name = %s", script.Quote(name))
	b.A("%s = bpy.context.object", v)
	return v
}

// meshObject builds an object from raw vertex and face lists and makes it
// the active object
func meshObject(b *script.Buffer, d api.Dialect, name string, verts []core.Vec3, edges, faces [][]int) string {
	v := script.ObjectVar(name)
	mesh := script.DataVar(name, "mesh")
	b.A("%s = bpy.data.meshes.new(%s)", mesh, script.Quote(name+"_mesh"))
	b.A("%s.from_pydata(%s, %s, %s)", mesh, script.VecList(verts), script.Faces(edges), script.Faces(faces))
	b.A("%s.update(calc_edges=True)", mesh)
	b.A("%s = bpy.data.objects.new(%s, %s)", v, script.Quote(name), mesh)
	b.AddLine(d.Link(v))
	b.AddLine(d.Select(v))
	b.AddLine(d.SetActive(v))
	return v
}

func applyTransform(b *script.Buffer, parts ...string) {
	args := ""
	for i, p := range parts {
		if i > 0 {
			args += ", "
		}
		args += p + "=True"
	}
	b.A("bpy.ops.object.transform_apply(%s)", args)
}
