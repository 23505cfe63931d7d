package scene

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/material"
)

func newTestScene(t *testing.T, opts ...Option) *Scene {
	t.Helper()
	return New(append([]Option{WithPath(t.TempDir())}, opts...)...)
}

func legacyDialect(t *testing.T) api.Dialect {
	t.Helper()
	d, err := api.Parse("2.79")
	require.NoError(t, err)
	return d
}

func TestNew_Preamble(t *testing.T) {
	s := newTestScene(t)
	out := s.Script()

	assert.True(t, strings.HasPrefix(out, "import bpy\n"))
	assert.Contains(t, out, "def bpwf_dump_matrices(")
	assert.Contains(t, out, "scene = bpy.context.scene")
	assert.Contains(t, out, `bpy.data.objects.remove(bpy.data.objects["Cube"], do_unlink=True)`)
	assert.Contains(t, out, `bpy.data.objects.remove(bpy.data.objects["Light"], do_unlink=True)`)
	assert.Contains(t, out, `fg = bpy.data.collections.get("freestyle_group") or bpy.data.collections.new("freestyle_group")`)
	assert.Contains(t, out, `tg = bpy.data.collections.get("transparent_group")`)
	assert.Empty(t, s.Objects())
	assert.Equal(t, DefaultFilename, s.Filename())
}

func TestNew_Options(t *testing.T) {
	dir := t.TempDir()
	s := New(WithPath(dir), WithFilename("out"), WithDefaultLight(true), WithSceneName("Study"))
	out := s.Script()

	assert.NotContains(t, out, `bpy.data.objects["Light"]`)
	assert.Contains(t, out, `scene = bpy.data.scenes.new("Study")`)
	assert.Equal(t, "scene.collection", s.Dialect().Collection)
	assert.Equal(t, filepath.Join(dir, "out.py"), s.ScriptPath())
	assert.Equal(t, filepath.Join(dir, "out.png"), s.ImagePath())
	assert.Equal(t, filepath.Join(dir, "out.blend"), s.BlendPath())
	assert.Equal(t, filepath.Join(dir, "out_camera.json"), s.MatrixPath())
}

func TestNew_SceneName(t *testing.T) {
	s := newTestScene(t, WithSceneName("Study"))
	out := s.Script()
	assert.Contains(t, out, "if bpy.context.window is None:\n    scene = bpy.context.scene\n    scene.name = \"Study\"\nelse:\n")
	assert.Contains(t, out, "    bpy.context.window.scene = scene\n")
	assert.NotContains(t, out, "\nscene = bpy.context.scene\n")

	legacy := newTestScene(t, WithSceneName("Study"), WithDialect(legacyDialect(t)))
	assert.Contains(t, legacy.Script(), "    bpy.context.screen.scene = scene\n")

	opts := DefaultRenderOptions()
	opts.SkipRender = true
	r, err := s.Render(opts)
	require.NoError(t, err)
	assert.Contains(t, r, "if camera.name not in scene.objects:\n    scene.collection.objects.link(camera)\n")
}

func TestNew_Legacy(t *testing.T) {
	s := newTestScene(t, WithDialect(legacyDialect(t)))
	out := s.Script()

	assert.Contains(t, out, `bpy.data.objects["Lamp"]`)
	assert.Contains(t, out, `fg = bpy.data.groups.get("freestyle_group")`)
	assert.Contains(t, out, "bpy.context.scene.update()")
}

func TestAdd_StyleMaterials(t *testing.T) {
	testCases := []struct {
		name     string
		style    Style
		contains []string
		absent   []string
	}{
		{
			name:     "flat",
			style:    Style{Color: "#FF0000"},
			contains: []string{`m_ball_color = bpy.data.materials.new("ball_color")`, "o_ball.active_material = m_ball_color"},
			absent:   []string{"ShaderNodeMixShader"},
		},
		{
			name:     "translucent",
			style:    Style{Color: "#FF0000", Alpha: 0.5},
			contains: []string{"ShaderNodeBsdfTransparent", "o_ball.active_material = m_ball_color"},
		},
		{
			name:     "emissive",
			style:    Style{Color: "red", Emissive: true, Emittance: 3},
			contains: []string{"ShaderNodeEmission", "o_ball.active_material = m_ball_color"},
		},
		{
			name:     "sem",
			style:    Style{Color: "SEM"},
			contains: []string{`m_ball_sem = bpy.data.materials.new("ball_sem")`, "o_ball.active_material = m_ball_sem"},
		},
		{
			name:   "none",
			style:  Style{},
			absent: []string{"active_material"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestScene(t)
			require.NoError(t, s.Sphere("ball", core.Vec3{}, 1, tc.style))
			out := s.Script()
			for _, c := range tc.contains {
				assert.Contains(t, out, c)
			}
			for _, a := range tc.absent {
				assert.NotContains(t, out, a)
			}
			assert.Equal(t, []string{"ball"}, s.Objects())
		})
	}
}

func TestAdd_Layers(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("a", core.Vec3{}, 1, Style{}))
	require.NoError(t, s.Sphere("b", core.Vec3{}, 1, Style{Layer: core.LayerTrans}))
	require.NoError(t, s.Sphere("c", core.Vec3{}, 1, Style{Layer: core.LayerNone}))

	out := s.Script()
	assert.Contains(t, out, "fg.objects.link(o_a)")
	assert.Contains(t, out, "tg.objects.link(o_b)")
	assert.NotContains(t, out, "fg.objects.link(o_c)")
	assert.NotContains(t, out, "tg.objects.link(o_c)")
}

func TestAdd_ValidationWritesNothing(t *testing.T) {
	s := newTestScene(t)
	before := s.Script()

	assert.Error(t, s.Sphere("bad", core.Vec3{}, -1, Style{}))
	assert.Error(t, s.Sphere("ball", core.Vec3{}, 1, Style{Color: "not-a-colour"}))
	assert.Error(t, s.Sphere("ball", core.Vec3{}, 1, Style{Color: "#FF0000", Alpha: 2}))
	assert.ErrorIs(t, s.Sphere("ball", core.Vec3{}, 1, Style{Material: "missing"}), ErrUnknownMaterial)

	assert.Equal(t, before, s.Script())
	assert.Empty(t, s.Objects())
}

func TestAdd_DuplicateName(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("ball", core.Vec3{}, 1, Style{}))
	assert.ErrorIs(t, s.Box("ball", core.Vec3{}, core.Splat(1), Style{}), ErrDuplicateName)
	assert.ErrorIs(t, s.Point("ball", core.Vec3{}, 10, Style{}), ErrDuplicateName)
}

func TestAddMaterial(t *testing.T) {
	s := newTestScene(t)
	glass := material.NewPrincipledBSDF("glass")
	require.NoError(t, s.AddMaterial(glass))
	assert.ErrorIs(t, s.AddMaterial(glass), ErrDuplicateName)
	assert.Equal(t, []string{"glass"}, s.Materials())

	require.NoError(t, s.Sphere("shiny", core.Vec3{}, 1, Style{Color: "#FFFFFF", Material: "glass"}))
	out := s.Script()
	flat := strings.Index(out, "o_shiny.active_material = m_shiny_color")
	override := strings.Index(out, "o_shiny.active_material = m_glass")
	require.NotEqual(t, -1, flat)
	require.NotEqual(t, -1, override)
	assert.Less(t, flat, override)
}

func TestSetMaterial_Unknown(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.AddMaterial(material.NewFlat("red", core.RGB{R: 1})))
	require.NoError(t, s.Sphere("ball", core.Vec3{}, 1, Style{}))

	assert.ErrorIs(t, s.SetMaterial("nothing", "red"), ErrUnknownObject)
	assert.ErrorIs(t, s.SetMaterial("ball", "blue"), ErrUnknownMaterial)
	assert.NoError(t, s.SetMaterial("ball", "red"))
}

func TestVolume_DefaultMaterial(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Volume("smoke", core.Vec3{}, "/data/smoke.vdb", Style{}))

	out := s.Script()
	assert.Contains(t, out, "bpy.ops.object.volume_import(")
	assert.Contains(t, out, "o_smoke.active_material = m_smoke_color")
	assert.Equal(t, []string{"smoke_color"}, s.Materials())

	assert.Error(t, s.Volume("other", core.Vec3{}, "/data/smoke.obj", Style{}))
}

func TestLights(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sun(2))
	require.NoError(t, s.Point("lamp", core.NewVec3(1, 2, 3), 100, Style{Color: "#FFFFFF", Layer: core.LayerTrans}))
	assert.Error(t, s.Point("dim", core.Vec3{}, -5, Style{}))

	out := s.Script()
	assert.Contains(t, out, `d_Sun_data = bpy.data.lights.new(name="Sun", type="SUN")`)
	assert.Contains(t, out, "d_lamp_data.color = (1.0000, 1.0000, 1.0000)")
	assert.Contains(t, out, "tg.objects.link(o_lamp)")
	assert.Equal(t, []string{"Sun", "lamp"}, s.Objects())
}

func TestBoolean(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Box("slab", core.Vec3{}, core.Splat(2), Style{}))
	require.NoError(t, s.Sphere("hole", core.Vec3{}, 1, Style{}))

	require.NoError(t, s.Subtract("slab", "hole", true))
	out := s.Script()
	assert.Contains(t, out, `mod = o_slab.modifiers.new(type="BOOLEAN", name="slab_difference_hole")`)
	assert.Contains(t, out, `mod.operation = "DIFFERENCE"`)
	assert.Contains(t, out, "mod.object = o_hole")
	assert.Contains(t, out, `mod.solver = "EXACT"`)
	assert.Contains(t, out, `bpy.ops.object.modifier_apply(modifier="slab_difference_hole")`)
	assert.Contains(t, out, "bpy.context.collection.objects.unlink(o_hole)")
	assert.False(t, s.HasObject("hole"))

	assert.ErrorIs(t, s.Union("slab", "hole", false), ErrUnknownObject)
	assert.Error(t, s.Intersect("slab", "slab", false))
	assert.Error(t, s.Boolean("slab", "slab", BooleanOp("XOR"), false))
}

func TestScriptVariables_GlobalNames(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("scene", core.Vec3{}, 1, Style{}))
	require.NoError(t, s.Sphere("camera", core.NewVec3(3, 0, 0), 1, Style{}))
	require.NoError(t, s.Box("x", core.Vec3{}, core.Splat(1), Style{}))
	require.NoError(t, s.LookAt("camera"))

	opts := DefaultRenderOptions()
	opts.SkipRender = true
	out, err := s.Render(opts)
	require.NoError(t, err)
	assert.Contains(t, out, "o_scene = bpy.context.object")
	assert.Contains(t, out, "o_camera = bpy.context.object")
	assert.Contains(t, out, "o_x = bpy.context.object")
	assert.NotContains(t, out, "\nscene = bpy.context.object")
	assert.NotContains(t, out, "\ncamera = bpy.context.object")
	assert.NotContains(t, out, "\nx = bpy.context.object")
	assert.Contains(t, out, "camera_track.target = o_camera")
	assert.Contains(t, out, `scene.render.engine = "CYCLES"`)
}

func TestScriptVariables_Clash(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("a-b", core.Vec3{}, 1, Style{}))
	err := s.Sphere("a_b", core.Vec3{}, 1, Style{})
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.ErrorContains(t, err, `"a-b"`)
	assert.Equal(t, []string{"a-b"}, s.Objects())

	require.NoError(t, s.AddMaterial(material.NewFlat("red paint", core.RGB{R: 1})))
	assert.ErrorIs(t, s.AddMaterial(material.NewFlat("red.paint", core.RGB{R: 1})), ErrDuplicateName)

	// a removed name frees its variable
	require.NoError(t, s.Delete("a-b"))
	require.NoError(t, s.Sphere("a_b", core.Vec3{}, 1, Style{}))
}

func TestBoolean_RejectsNonMesh(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Box("slab", core.Vec3{}, core.Splat(2), Style{}))
	require.NoError(t, s.Line("wire", []core.Vec3{{}, core.NewVec3(1, 0, 0)}, 0, Style{}))
	require.NoError(t, s.Sun(1))

	assert.Error(t, s.Union("slab", "wire", false))
	assert.Error(t, s.Union("Sun", "slab", false))
}

func TestBoolean_Legacy(t *testing.T) {
	s := newTestScene(t, WithDialect(legacyDialect(t)))
	require.NoError(t, s.Box("a", core.Vec3{}, core.Splat(2), Style{}))
	require.NoError(t, s.Box("b", core.Vec3{}, core.Splat(1), Style{}))
	require.NoError(t, s.Union("a", "b", false))

	out := s.Script()
	assert.Contains(t, out, `mod.solver = "CARVE"`)
	assert.Contains(t, out, `bpy.ops.object.modifier_apply(apply_as="DATA", modifier="a_union_b")`)
	assert.Contains(t, out, "bpy.context.scene.objects.active = o_a")
	assert.True(t, s.HasObject("b"))
}

func TestUnlinkDelete(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("a", core.Vec3{}, 1, Style{}))
	require.NoError(t, s.Sphere("b", core.Vec3{}, 1, Style{}))

	require.NoError(t, s.Unlink("a"))
	require.NoError(t, s.Delete("b"))
	assert.Contains(t, s.Script(), "bpy.context.collection.objects.unlink(o_a)")
	assert.Contains(t, s.Script(), "bpy.data.objects.remove(o_b, do_unlink=True)")
	assert.Empty(t, s.Objects())

	assert.ErrorIs(t, s.Unlink("a"), ErrUnknownObject)
	assert.ErrorIs(t, s.Delete("b"), ErrUnknownObject)
}

func TestExplode(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("part", core.NewVec3(1, 0, 0), 1, Style{}))
	require.NoError(t, s.Explode("part", core.Vec3{}, core.NewVec3(2, 2, 2)))

	out := s.Script()
	assert.Contains(t, out, "vcos = [o.matrix_world @ vert.co for vert in o.data.vertices]")
	assert.Contains(t, out, "o.location = (2.0000000000e+00 * ds[0], 2.0000000000e+00 * ds[1], 2.0000000000e+00 * ds[2])")
	assert.ErrorIs(t, s.Explode("missing", core.Vec3{}, core.Splat(1)), ErrUnknownObject)

	legacy := newTestScene(t, WithDialect(legacyDialect(t)))
	require.NoError(t, legacy.Sphere("part", core.Vec3{}, 1, Style{}))
	require.NoError(t, legacy.Explode("part", core.Vec3{}, core.Splat(1)))
	assert.Contains(t, legacy.Script(), "o.matrix_world * vert.co")
}

func TestCutaway(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Box("keep_me", core.Vec3{}, core.Splat(2), Style{}))

	first, err := s.Cutaway(core.Vec3{}, core.Splat(1), "keep")
	require.NoError(t, err)
	second, err := s.Cutaway(core.Vec3{}, core.Splat(1), "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "cutaway"))
	assert.NotEqual(t, first, second)

	var n1, n2 int
	_, err = fmt.Sscanf(first, "cutaway%d", &n1)
	require.NoError(t, err)
	_, err = fmt.Sscanf(second, "cutaway%d", &n2)
	require.NoError(t, err)
	assert.Greater(t, n2, n1)

	out := s.Script()
	assert.Contains(t, out, `exclude = "keep"`)
	assert.Contains(t, out, `exclude = ""`)
	assert.Contains(t, out, "for ob in list(scene.objects):")
	assert.Contains(t, out, `bpy.context.object.name = "`+first+`"`)
	assert.Contains(t, out, "        _cutaway.object = cutter")
	assert.Contains(t, out, "bpy.context.collection.objects.unlink(cutter)")
	assert.False(t, s.HasObject(first))

	_, err = s.Cutaway(core.Vec3{}, core.NewVec3(1, 0, 1), "")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("ball", core.Vec3{}, 1, Style{Color: "#FF0000"}))
	before := s.Script()

	opts := DefaultRenderOptions()
	opts.Orthographic = true
	out, err := s.Render(opts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, before))
	assert.Equal(t, before, s.Script())
	assert.Contains(t, out, `scene.render.engine = "CYCLES"`)
	assert.Contains(t, out, "scene.render.resolution_x = 1920")
	assert.Contains(t, out, "scene.render.resolution_y = 1080")
	assert.Contains(t, out, "scene.cycles.samples = 20")
	assert.Contains(t, out, `camera.data.type = "ORTHO"`)
	assert.Contains(t, out, "camera.data.clip_start = 1.0000000000e-06")
	assert.NotContains(t, out, "clip_start = 0.0")
	assert.Contains(t, out, "camera_track.target = empty")
	assert.Contains(t, out, "linesets[0].collection = fg")
	assert.Contains(t, out, "scene.render.film_transparent = True")
	assert.Contains(t, out, "scene.render.filepath = "+fmt.Sprintf("%q", s.ImagePath()))
	assert.Contains(t, out, "bpy.ops.wm.save_as_mainfile(filepath="+fmt.Sprintf("%q", s.BlendPath())+")")
	assert.Contains(t, out, "bpy.ops.render.render(write_still=True)")
	assert.True(t, strings.HasSuffix(out, "bpwf_dump_matrices(camera, "+fmt.Sprintf("%q", s.MatrixPath())+")\n"))
}

func TestExpectedCalibration(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("ball", core.Vec3{}, 1, Style{}))
	opts := DefaultRenderOptions()

	cal, err := s.ExpectedCalibration(opts)
	require.NoError(t, err)
	u, v, ok := cal.Project(opts.C)
	require.True(t, ok)
	assert.InDelta(t, 960, u, 1e-6)
	assert.InDelta(t, 540, v, 1e-6)

	s.Draft(true)
	cal, err = s.ExpectedCalibration(opts)
	require.NoError(t, err)
	u, v, _ = cal.Project(opts.C)
	assert.InDelta(t, 320, u, 1e-6)
	assert.InDelta(t, 240, v, 1e-6)

	ortho := opts
	ortho.Orthographic = true
	_, err = s.ExpectedCalibration(ortho)
	assert.ErrorContains(t, err, "orthographic")

	require.NoError(t, s.LookAt("ball"))
	_, err = s.ExpectedCalibration(opts)
	assert.ErrorContains(t, err, `"ball"`)
}

func TestRender_Options(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("ball", core.Vec3{}, 1, Style{}))
	require.NoError(t, s.LookAt("ball"))
	assert.ErrorIs(t, s.LookAt("missing"), ErrUnknownObject)

	opts := DefaultRenderOptions()
	opts.SkipRender = true
	opts.Freestyle = false
	out, err := s.Render(opts)
	require.NoError(t, err)
	assert.Contains(t, out, "camera_track.target = o_ball")
	assert.Contains(t, out, "scene.render.use_freestyle = False")
	assert.NotContains(t, out, "linesets")
	assert.NotContains(t, out, "render.render(")

	bad := DefaultRenderOptions()
	bad.Samples = 0
	_, err = s.Render(bad)
	assert.Error(t, err)

	bad = DefaultRenderOptions()
	bad.CameraLocation = bad.C
	_, err = s.Render(bad)
	assert.Error(t, err)
}

func TestRender_Draft(t *testing.T) {
	s := newTestScene(t).Draft(true)
	assert.True(t, s.IsDraft())

	out, err := s.Render(DefaultRenderOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "scene.render.resolution_x = 640")
	assert.Contains(t, out, "scene.render.resolution_y = 480")
	assert.Contains(t, out, "scene.cycles.samples = 10")
}

func TestRender_Legacy(t *testing.T) {
	s := newTestScene(t, WithDialect(legacyDialect(t)))
	out, err := s.Render(DefaultRenderOptions())
	require.NoError(t, err)

	assert.Contains(t, out, "linesets = scene.render.layers[0].freestyle_settings.linesets")
	assert.Contains(t, out, "linesets[0].group = fg")
	assert.Contains(t, out, "scene.cycles.film_transparent = True")
	assert.Contains(t, out, "scene.cycles.min_bounces = 3")
	assert.NotContains(t, out, "use_pass_normal")
}

func TestPeek(t *testing.T) {
	s := newTestScene(t)
	out, err := s.Peek(DefaultRenderOptions())
	require.NoError(t, err)

	assert.Contains(t, out, "scene.render.resolution_x = 640")
	assert.Contains(t, out, `area.spaces[0].region_3d.view_perspective = "CAMERA"`)
	assert.Contains(t, out, "bpy.ops.render.opengl(write_still=True)")
	assert.NotContains(t, out, "bpy.ops.render.render(")
	assert.True(t, strings.HasSuffix(out, "bpy.ops.wm.quit_blender()\n"))
	assert.False(t, s.IsDraft())
}

func TestSplit(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("shared", core.Vec3{}, 1, Style{}))

	c := s.Split("variant")
	require.NoError(t, c.Sphere("extra", core.Vec3{}, 1, Style{}))
	require.NoError(t, s.Delete("shared"))

	assert.Equal(t, "variant", c.Filename())
	assert.Equal(t, []string{"shared", "extra"}, c.Objects())
	assert.Empty(t, s.Objects())
	assert.NotContains(t, s.Script(), "extra")
	assert.NotContains(t, c.Script(), "bpy.data.objects.remove(o_shared")
	assert.Equal(t, filepath.Join(s.Path(), "variant.png"), c.ImagePath())
}

func TestOpen(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.Sphere("ball", core.Vec3{}, 1, Style{Color: "#00FF00"}))
	require.NoError(t, s.LookAt("ball"))

	s.Open("/tmp/base")
	out := s.Script()
	assert.Contains(t, out, `bpy.ops.wm.open_mainfile(filepath="/tmp/base.blend")`)
	assert.Empty(t, s.Objects())
	assert.Empty(t, s.Materials())
	assert.ErrorIs(t, s.SetMaterial("ball", "ball_color"), ErrUnknownObject)

	r, err := s.Render(DefaultRenderOptions())
	require.NoError(t, err)
	assert.Contains(t, r, "camera_track.target = empty")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()

	id, s, err := r.Create("", WithPath(dir))
	require.NoError(t, err)
	assert.Equal(t, "scene_1", id)
	require.NoError(t, s.Sphere("ball", core.Vec3{}, 1, Style{}))

	_, _, err = r.Create("named", WithPath(dir), WithFilename("named"))
	require.NoError(t, err)
	_, _, err = r.Create("named", WithPath(dir))
	assert.ErrorIs(t, err, ErrSceneExists)

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, s, got)

	info, err := r.Info(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"ball"}, info.Objects)
	assert.Equal(t, s.Lines(), info.Lines)

	built := New(WithPath(dir), WithFilename("built"))
	added, err := r.Add("", built)
	require.NoError(t, err)
	assert.Equal(t, "scene_2", added)
	_, err = r.Add("named", built)
	assert.ErrorIs(t, err, ErrSceneExists)

	assert.Equal(t, []string{"named", "scene_1", "scene_2"}, r.List())
	require.NoError(t, r.Delete("named"))
	assert.ErrorIs(t, r.Delete("named"), ErrSceneNotFound)
	_, err = r.Get("named")
	assert.ErrorIs(t, err, ErrSceneNotFound)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := r.Create("", WithPath(dir))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, r.List(), 16)
}

func TestBuiltinScenes(t *testing.T) {
	for _, info := range BuiltinScenes() {
		t.Run(info.ID, func(t *testing.T) {
			build, ok := Builtin(info.ID)
			require.True(t, ok)

			s, opts, err := build(WithPath(t.TempDir()), WithFilename(info.ID))
			require.NoError(t, err)
			assert.NotEmpty(t, s.Objects())

			out, err := s.Render(opts)
			require.NoError(t, err)
			assert.Contains(t, out, "bpwf_dump_matrices(camera")
		})
	}

	_, ok := Builtin("missing")
	assert.False(t, ok)
}
