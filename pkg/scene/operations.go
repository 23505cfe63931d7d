package scene

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// BooleanOp is a host boolean modifier operation
type BooleanOp string

const (
	OpDifference BooleanOp = "DIFFERENCE"
	OpUnion      BooleanOp = "UNION"
	OpIntersect  BooleanOp = "INTERSECT"
)

// cutawayID numbers cutaway cubes across every scene in the process
var cutawayID atomic.Int64

// Subtract removes right from left
func (s *Scene) Subtract(left, right string, unlink bool) error {
	return s.Boolean(left, right, OpDifference, unlink)
}

// Union merges right into left
func (s *Scene) Union(left, right string, unlink bool) error {
	return s.Boolean(left, right, OpUnion, unlink)
}

// Intersect keeps the overlap of left and right in left
func (s *Scene) Intersect(left, right string, unlink bool) error {
	return s.Boolean(left, right, OpIntersect, unlink)
}

// Boolean applies a boolean modifier named <left>_<op>_<right> to left.
// With unlink the right operand leaves the scene and the known set.
func (s *Scene) Boolean(left, right string, op BooleanOp, unlink bool) error {
	switch op {
	case OpDifference, OpUnion, OpIntersect:
	default:
		return fmt.Errorf("boolean: unknown operation %q", op)
	}
	if err := s.requireMesh("boolean", left); err != nil {
		return err
	}
	if err := s.requireMesh("boolean", right); err != nil {
		return err
	}
	if left == right {
		return fmt.Errorf("boolean: %q cannot operate on itself", left)
	}

	d := s.dialect
	lv, rv := script.ObjectVar(left), script.ObjectVar(right)
	name := left + "_" + strings.ToLower(string(op)) + "_" + right
	s.b.AddLine(d.SetActive(lv))
	s.b.A(`mod = %s.modifiers.new(type="BOOLEAN", name=%s)`, lv, script.Quote(name))
	s.b.A("mod.operation = %s", script.Quote(string(op)))
	s.b.A("mod.object = %s", rv)
	s.b.A("mod.solver = %s", script.Quote(d.BooleanSolver))
	s.b.AddLine(d.ModifierApply(script.Quote(name)))
	if unlink {
		s.b.AddLine(d.Unlink(rv))
		s.objects.remove(right)
	}
	s.log.Debug().Str("left", left).Str("right", right).Str("op", string(op)).Msg("applied boolean")
	return nil
}

// Unlink removes an object from the scene collection. Its data survives.
func (s *Scene) Unlink(name string) error {
	if _, err := s.requireObject(name); err != nil {
		return err
	}
	s.b.AddLine(s.dialect.Unlink(script.ObjectVar(name)))
	s.objects.remove(name)
	return nil
}

// Delete removes an object and its data from the file
func (s *Scene) Delete(name string) error {
	if _, err := s.requireObject(name); err != nil {
		return err
	}
	s.b.A("bpy.data.objects.remove(%s, do_unlink=True)", script.ObjectVar(name))
	s.objects.remove(name)
	return nil
}

// Explode moves a mesh away from c by factor times the offset of its
// bounding box centre from c, per axis
func (s *Scene) Explode(name string, c, factor core.Vec3) error {
	if err := s.requireMesh("explode", name); err != nil {
		return err
	}
	d := s.dialect
	v := script.ObjectVar(name)
	s.b.AddLine(d.SetActive(v))
	s.b.A("o = %s", v)
	s.b.A("vcos = [o.matrix_world %s vert.co for vert in o.data.vertices]", d.MatMul)
	s.b.AddLine("find_center = lambda l: (max(l) + min(l)) / 2")
	s.b.AddLine("x, y, z = [[vc[i] for vc in vcos] for i in range(3)]")
	s.b.AddLine("center = [find_center(axis) for axis in [x, y, z]]")
	s.b.A("ds = (center[0] - %s, center[1] - %s, center[2] - %s)",
		script.Float(c.X), script.Float(c.Y), script.Float(c.Z))
	s.b.A("o.location = (%s * ds[0], %s * ds[1], %s * ds[2])",
		script.Float(factor.X), script.Float(factor.Y), script.Float(factor.Z))
	s.b.AddLine("bpy.ops.object.transform_apply(location=True)")
	return nil
}

// Cutaway subtracts a box of centre c and extent l from every mesh in the
// scene whose name does not contain exclude, then unlinks the box. An empty
// exclude excludes nothing. It returns the name of the cutting box.
func (s *Scene) Cutaway(c, l core.Vec3, exclude string) (string, error) {
	for _, a := range []core.Axis{core.AxisX, core.AxisY, core.AxisZ} {
		if l.Index(a) <= 0 {
			return "", fmt.Errorf("cutaway: extent along %s must be positive, got %g", a, l.Index(a))
		}
	}
	d := s.dialect
	name := fmt.Sprintf("cutaway%d", cutawayID.Add(1))
	q := script.Quote(name)

	s.b.AddLine("bpy.ops.mesh.primitive_cube_add()")
	s.b.A("bpy.context.object.name = %s", q)
	s.b.A("bpy.context.object.location = %s", script.Vec(c))
	s.b.A("bpy.context.object.scale = %s", script.Vec(l.Multiply(0.5)))
	s.b.AddLine("bpy.ops.object.transform_apply(location=True, scale=True)")
	s.b.AddLine("cutter = bpy.context.object")
	s.b.A("exclude = %s", script.Quote(exclude))
	s.b.AddLine("for ob in list(scene.objects):")
	s.b.A("    if ob.type != \"MESH\" or ob.name == %s:", q)
	s.b.AddLine("        continue")
	s.b.AddLine("    if exclude and exclude in ob.name:")
	s.b.AddLine("        continue")
	s.b.A("    %s", d.SetActive("ob"))
	s.b.AddLine("    try:")
	s.b.AddLine(`        _cutaway = ob.modifiers.new(type="BOOLEAN", name=ob.name + "cut")`)
	s.b.AddLine(`        _cutaway.operation = "DIFFERENCE"`)
	s.b.AddLine("        _cutaway.object = cutter")
	s.b.A("        _cutaway.solver = %s", script.Quote(d.BooleanSolver))
	s.b.A("        %s", d.ModifierApply(`ob.name + "cut"`))
	s.b.AddLine("    except (AttributeError, RuntimeError):")
	s.b.AddLine("        pass")
	s.b.AddLine(d.Unlink("cutter"))
	s.log.Debug().Str("cutaway", name).Str("exclude", exclude).Msg("applied cutaway")
	return name, nil
}
