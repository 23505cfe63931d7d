package scene

import (
	"errors"
	"math"

	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/material"
)

// Builder constructs a ready-to-render scene with the render options that
// frame it
type Builder func(opts ...Option) (*Scene, RenderOptions, error)

type builtin struct {
	info  SceneInfo
	build Builder
}

const builtinGroup = "Built-in Scenes"

var builtins = []builtin{
	{
		info: SceneInfo{
			ID:          "primitives",
			Name:        "Primitives",
			Description: "One of each primitive on a ground plane",
		},
		build: NewPrimitivesScene,
	},
	{
		info: SceneInfo{
			ID:          "cutaway",
			Name:        "Cutaway",
			Description: "Box, cylinders and sphere with a slab cut away",
		},
		build: NewCutawayScene,
	},
	{
		info: SceneInfo{
			ID:          "materials",
			Name:        "Materials",
			Description: "A row of spheres, one per material kind",
		},
		build: NewMaterialsScene,
	},
}

// Builtin looks up a built-in scene by id
func Builtin(id string) (Builder, bool) {
	for _, b := range builtins {
		if b.info.ID == id {
			return b.build, true
		}
	}
	return nil, false
}

// BuiltinScenes describes every built-in scene
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtins))
	for i, b := range builtins {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = "builtin"
		infos[i] = info
	}
	return infos
}

// NewPrimitivesScene creates a sphere, box, cylinder, cone and ground plane
// lit by a sun and a point lamp
func NewPrimitivesScene(opts ...Option) (*Scene, RenderOptions, error) {
	s := New(opts...)
	err := errors.Join(
		s.Sphere("sphere", core.NewVec3(0, 0, 0), 1.0, Style{Color: "#FF5733"}),
		s.Box("box", core.NewVec3(3, 0, 0), core.Splat(1.5), Style{Color: "#3498DB"}),
		s.Cylinder("cylinder", core.NewVec3(-3, 0, 0), 0.75, 2.0, core.AxisZ, Style{Color: "#E74C3C"}),
		s.Cone("cone", core.NewVec3(0, 3, 0), 1.0, 0.2, 2.0, core.AxisZ, Style{Color: "#2ECC71"}),
		s.Plane("ground", core.NewVec3(0, 0, -2), core.NewVec3(10, 10, 0), Style{Color: "#95A5A6"}),
		s.Sun(2.0),
		s.Point("point_light", core.NewVec3(5, -5, 5), 500.0, Style{Color: "#FFFFFF"}),
	)
	if err != nil {
		return nil, RenderOptions{}, err
	}

	ro := DefaultRenderOptions()
	ro.CameraLocation = core.NewVec3(8, -8, 6)
	ro.L = core.Splat(5)
	ro.Samples = 64
	return s, ro, nil
}

// NewCutawayScene creates a box, two cylinders and a sphere, then removes a
// slab above z=1 from all of them
func NewCutawayScene(opts ...Option) (*Scene, RenderOptions, error) {
	s := New(opts...)
	err := errors.Join(
		s.Box("rpp", core.NewVec3(5, 0, 0), core.NewVec3(2, 5, 20), Style{Color: "#FF0000"}),
		s.Cylinder("cyl1", core.NewVec3(0, -10, 0), 2.5, 10, core.AxisY, Style{Color: "#FF99FF"}),
		s.Cylinder("cyl2", core.NewVec3(0, 10, 0), 2, 10, core.AxisZ, Style{Color: "#9999FF"}),
		s.Sphere("sph", core.Vec3{}, 5, Style{Color: "#99FF99"}),
	)
	if err != nil {
		return nil, RenderOptions{}, err
	}
	if _, err := s.Cutaway(core.NewVec3(0, 0, 2), core.NewVec3(20, 20, 2), ""); err != nil {
		return nil, RenderOptions{}, err
	}

	ro := DefaultRenderOptions()
	ro.CameraLocation = core.NewVec3(20, 20, 20)
	ro.L = core.Splat(10)
	ro.Samples = 10
	ro.ResolutionX, ro.ResolutionY = 680, 420
	return s, ro, nil
}

// NewMaterialsScene lines up one sphere per material kind along x
func NewMaterialsScene(opts ...Option) (*Scene, RenderOptions, error) {
	s := New(opts...)

	glass := material.NewPrincipledBSDF("glass")
	glass.Roughness = 0.05
	trans := &material.Transparent{MatName: "clear", Color: core.MustParseColor("#DDEEFF")}

	err := errors.Join(
		s.AddMaterial(glass),
		s.AddMaterial(trans),
		s.Sphere("flat", core.NewVec3(-6, 0, 0), 1, Style{Color: "steelblue"}),
		s.Sphere("faded", core.NewVec3(-3, 0, 0), 1, Style{Color: "#FF8800", Alpha: 0.4, Layer: core.LayerTrans}),
		s.Sphere("glow", core.NewVec3(0, 0, 0), 1, Style{Color: "gold", Emissive: true, Emittance: 5}),
		s.Sphere("edge", core.NewVec3(3, 0, 0), 1, Style{Color: SEMColor}),
		s.Sphere("shiny", core.NewVec3(6, 0, 0), 1, Style{Material: "glass"}),
		s.Sphere("ghost", core.NewVec3(9, 0, 0), 1, Style{Material: "clear", Layer: core.LayerNone}),
		s.Plane("floor", core.NewVec3(1.5, 0, -1), core.NewVec3(24, 6, 0), Style{Color: "#FFFFFF"}),
		s.Sun(1.0),
	)
	if err != nil {
		return nil, RenderOptions{}, err
	}

	ro := DefaultRenderOptions()
	ro.C = core.NewVec3(1.5, 0, 0)
	ro.CameraLocation = core.NewVec3(1.5, -20*math.Cos(math.Pi/8), 20*math.Sin(math.Pi/8))
	ro.L = core.NewVec3(16, 4, 4)
	return s, ro, nil
}
