package scene

import (
	"fmt"

	"github.com/df07/go-bpwf/pkg/camera"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

const (
	draftWidth   = 640
	draftHeight  = 480
	draftSamples = 10
)

// RenderOptions places the camera and configures the engine. The camera
// tracks an empty at C scaled to L/2.
type RenderOptions struct {
	CameraLocation  core.Vec3
	C               core.Vec3
	L               core.Vec3
	Samples         int
	ResolutionX     int
	ResolutionY     int
	Draft           bool
	Freestyle       bool
	Orthographic    bool
	OrthoScale      float64
	BackgroundLum   float64
	BackgroundColor core.RGB
	Transparent     bool
	// SkipRender saves the scene file and matrices without rendering
	SkipRender bool
}

// DefaultRenderOptions frames a 500 unit scene from (500, 500, 300)
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		CameraLocation:  core.NewVec3(500, 500, 300),
		L:               core.Splat(250),
		Samples:         20,
		ResolutionX:     1920,
		ResolutionY:     1080,
		Freestyle:       true,
		OrthoScale:      350,
		BackgroundLum:   1.0,
		BackgroundColor: core.RGB{R: 1, G: 1, B: 1},
		Transparent:     true,
	}
}

// Resolved applies draft mode and returns the effective options
func (o RenderOptions) Resolved(sceneDraft bool) RenderOptions {
	if o.Draft || sceneDraft {
		o.ResolutionX, o.ResolutionY = draftWidth, draftHeight
		o.Samples = draftSamples
	}
	return o
}

// Validate rejects options the host would fail on
func (o RenderOptions) Validate() error {
	if o.Samples <= 0 {
		return fmt.Errorf("render: samples must be positive, got %d", o.Samples)
	}
	if o.ResolutionX <= 0 || o.ResolutionY <= 0 {
		return fmt.Errorf("render: invalid resolution %dx%d", o.ResolutionX, o.ResolutionY)
	}
	if o.Orthographic && o.OrthoScale <= 0 {
		return fmt.Errorf("render: ortho scale must be positive, got %g", o.OrthoScale)
	}
	if o.CameraLocation.Equals(o.C) {
		return fmt.Errorf("render: camera sits on its target %v", o.C.Slice())
	}
	return nil
}

// LookAt makes the camera track a known object instead of the framing empty
func (s *Scene) LookAt(target string) error {
	if _, err := s.requireObject(target); err != nil {
		return err
	}
	s.lookAt = target
	return nil
}

// ExpectedCalibration returns the camera matrices a render with opts should
// dump. It covers the perspective camera tracking the framing empty.
func (s *Scene) ExpectedCalibration(opts RenderOptions) (camera.Calibration, error) {
	opts = opts.Resolved(s.draft)
	if err := opts.Validate(); err != nil {
		return camera.Calibration{}, err
	}
	if opts.Orthographic {
		return camera.Calibration{}, fmt.Errorf("expected calibration: orthographic cameras have no pinhole model")
	}
	if s.lookAt != "" {
		return camera.Calibration{}, fmt.Errorf("expected calibration: camera tracks object %q, whose position the script decides", s.lookAt)
	}
	return camera.Predict(camera.DefaultParams(), camera.NewRender(opts.ResolutionX, opts.ResolutionY), opts.CameraLocation, opts.C)
}

// Render returns the full script: everything built so far followed by the
// render block. The scene itself is not modified.
func (s *Scene) Render(opts RenderOptions) (string, error) {
	opts = opts.Resolved(s.draft)
	if err := opts.Validate(); err != nil {
		return "", err
	}
	b := s.b.Copy()
	s.setup(b, opts)
	b.A("bpy.ops.wm.save_as_mainfile(filepath=%s)", script.Quote(s.BlendPath()))
	if !opts.SkipRender {
		b.AddLine("bpy.ops.render.render(write_still=True)")
	}
	b.A("bpwf_dump_matrices(camera, %s)", script.Quote(s.MatrixPath()))
	s.log.Info().
		Int("samples", opts.Samples).
		Int("width", opts.ResolutionX).
		Int("height", opts.ResolutionY).
		Bool("skip_render", opts.SkipRender).
		Msg("render script built")
	return b.String(), nil
}

// Peek returns a script for a quick viewport render. It needs an
// interactive host, so runners start it without --background.
func (s *Scene) Peek(opts RenderOptions) (string, error) {
	opts.Draft = true
	opts = opts.Resolved(s.draft)
	if err := opts.Validate(); err != nil {
		return "", err
	}
	b := s.b.Copy()
	s.setup(b, opts)
	b.A("bpy.ops.wm.save_as_mainfile(filepath=%s)", script.Quote(s.BlendPath()))
	b.AddLine("for area in bpy.context.screen.areas:")
	b.AddLine(`    if area.type == "VIEW_3D":`)
	b.AddLine(`        area.spaces[0].region_3d.view_perspective = "CAMERA"`)
	b.AddLine("bpy.ops.render.opengl(write_still=True)")
	b.A("bpwf_dump_matrices(camera, %s)", script.Quote(s.MatrixPath()))
	b.AddLine("bpy.ops.wm.quit_blender()")
	return b.String(), nil
}

func (s *Scene) setup(b *script.Buffer, o RenderOptions) {
	d := s.dialect
	legacy := d.Legacy()

	b.AddLine("# Render setup")
	b.AddLine(`bpy.ops.object.select_all(action="DESELECT")`)
	b.AddLine(`scene.render.engine = "CYCLES"`)
	b.A("scene.render.resolution_x = %d", o.ResolutionX)
	b.A("scene.render.resolution_y = %d", o.ResolutionY)
	b.AddLine("scene.render.resolution_percentage = 100")
	b.AddLine("render = scene.render")
	b.AddLine("world = scene.world")
	b.AddLine("if world is None:")
	b.AddLine(`    world = bpy.data.worlds.new("World")`)
	b.AddLine("    scene.world = world")
	b.AddLine("world.use_nodes = True")

	b.AddLine(`empty = bpy.data.objects.new("Empty", None)`)
	b.AddLine(d.Link("empty"))
	b.A("empty.location = %s", script.Vec(o.C))
	b.A("empty.scale = %s", script.Vec(o.L.Multiply(0.5)))

	b.AddLine(`camera = bpy.data.objects.get("Camera")`)
	b.AddLine("if camera is None:")
	b.AddLine(`    camera = bpy.data.objects.new("Camera", bpy.data.cameras.new("Camera"))`)
	b.AddLine("if camera.name not in scene.objects:")
	b.A("    %s", d.Link("camera"))
	b.AddLine("scene.camera = camera")
	b.A("camera.location = %s", script.Vec(o.CameraLocation))
	b.AddLine("camera.data.clip_end = 10000.0")
	b.A("camera.data.clip_start = %s", script.Float(camera.MinClipStart))
	if o.Orthographic {
		b.AddLine(`camera.data.type = "ORTHO"`)
		b.A("camera.data.ortho_scale = %s", script.Float(o.OrthoScale))
	}
	b.AddLine(`camera_track = camera.constraints.new("TRACK_TO")`)
	b.AddLine(`camera_track.track_axis = "TRACK_NEGATIVE_Z"`)
	b.AddLine(`camera_track.up_axis = "UP_Y"`)
	if s.lookAt != "" {
		b.A("camera_track.target = %s", script.ObjectVar(s.lookAt))
	} else {
		b.AddLine("camera_track.target = empty")
	}

	b.AddLine(`bg = world.node_tree.nodes["Background"]`)
	b.A("bg.inputs[0].default_value[:3] = %s", script.Color3(o.BackgroundColor))
	b.A("bg.inputs[1].default_value = %s", script.Float(o.BackgroundLum))
	b.A("scene.render.filepath = %s", script.Quote(s.ImagePath()))

	b.A("scene.render.use_freestyle = %s", script.Bool(o.Freestyle))
	if o.Freestyle {
		layer := "scene.view_layers[0]"
		if legacy {
			layer = "scene.render.layers[0]"
		}
		b.A("linesets = %s.freestyle_settings.linesets", layer)
		b.AddLine("if len(linesets) > 0:")
		if legacy {
			b.AddLine("    linesets[0].select_by_group = True")
			b.AddLine("    linesets[0].group = fg")
		} else {
			b.AddLine("    linesets[0].select_by_collection = True")
			b.AddLine("    linesets[0].collection = fg")
		}
	}
	if !legacy {
		b.AddLine("scene.view_layers[0].use_pass_normal = True")
	}

	b.A("scene.cycles.samples = %d", o.Samples)
	b.AddLine("scene.cycles.max_bounces = 32")
	b.AddLine("scene.cycles.glossy_bounces = 16")
	b.AddLine("scene.cycles.transmission_bounces = 32")
	b.AddLine("scene.cycles.volume_bounces = 4")
	b.AddLine("scene.cycles.transparent_max_bounces = 32")
	if legacy {
		b.AddLine("scene.cycles.min_bounces = 3")
		b.AddLine("scene.cycles.transparent_min_bounces = 8")
		b.A("scene.cycles.film_transparent = %s", script.Bool(o.Transparent))
		b.AddLine("scene.cycles.filter_glossy = 0.05")
	} else {
		b.AddLine("scene.cycles.min_light_bounces = 3")
		b.AddLine("scene.cycles.min_transparent_bounces = 8")
		b.A("scene.render.film_transparent = %s", script.Bool(o.Transparent))
		b.AddLine("scene.cycles.blur_glossy = 0.05")
	}
}
