// Package loaders reads scene documents and checks the files they reference.
package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/scene"
)

// ErrUnknownOp is returned by Build for a step whose op is not recognised
var ErrUnknownOp = errors.New("unknown op")

// Vec is a document vector: a three element list, or a scalar applied to
// every component
type Vec core.Vec3

// UnmarshalYAML implements yaml.Unmarshaler
func (v *Vec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s float64
		if err := node.Decode(&s); err != nil {
			return err
		}
		*v = Vec(core.Splat(s))
		return nil
	case yaml.SequenceNode:
		var xs []float64
		if err := node.Decode(&xs); err != nil {
			return err
		}
		vec, ok := core.Vec3FromSlice(xs)
		if !ok {
			return fmt.Errorf("line %d: vector needs 3 components, got %d", node.Line, len(xs))
		}
		*v = Vec(vec)
		return nil
	}
	return fmt.Errorf("line %d: vector must be a list or a number", node.Line)
}

func (v *Vec) vec3() core.Vec3 {
	if v == nil {
		return core.Vec3{}
	}
	return core.Vec3(*v)
}

// SceneFile is a parsed scene document
type SceneFile struct {
	Filename     string `yaml:"filename"`
	Draft        bool   `yaml:"draft"`
	DefaultLight bool   `yaml:"default_light"`
	Dialect      string `yaml:"dialect"`
	SceneName    string `yaml:"scene_name"`
	Open         string `yaml:"open"`
	Steps        []Step `yaml:"steps"`
	Render       Render `yaml:"render"`
}

// Step is one builder call. Which fields apply depends on Op.
type Step struct {
	Op   string `yaml:"op"`
	Name string `yaml:"name"`

	// Placement
	C        *Vec     `yaml:"c"`
	L        *Vec     `yaml:"l"`
	X1       *float64 `yaml:"x1"`
	Y1       *float64 `yaml:"y1"`
	Z1       *float64 `yaml:"z1"`
	X2       *float64 `yaml:"x2"`
	Y2       *float64 `yaml:"y2"`
	Z2       *float64 `yaml:"z2"`
	Verts    []Vec    `yaml:"verts"`
	Points   []Vec    `yaml:"points"`
	Rotation *Vec     `yaml:"rotation"`
	Axis     string   `yaml:"axis"`

	// Dimensions
	R            float64 `yaml:"r"`
	R1           float64 `yaml:"r1"`
	R2           float64 `yaml:"r2"`
	H            float64 `yaml:"h"`
	TopWidth     float64 `yaml:"top_width"`
	BottomWidth  float64 `yaml:"bottom_width"`
	Subdivisions int     `yaml:"subdivisions"`
	Bevel        float64 `yaml:"bevel"`
	Path         string  `yaml:"path"`

	// Style
	Color     string  `yaml:"color"`
	Alpha     float64 `yaml:"alpha"`
	Emissive  bool    `yaml:"emissive"`
	Emittance float64 `yaml:"emittance"`
	Material  string  `yaml:"material"`
	Image     string  `yaml:"image"`
	Layer     string  `yaml:"layer"`

	// Lights
	Strength float64 `yaml:"strength"`
	Location *Vec    `yaml:"location"`

	// Operations
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
	Unlink  bool   `yaml:"unlink"`
	Factor  *Vec   `yaml:"factor"`
	Exclude string `yaml:"exclude"`
	Target  string `yaml:"target"`

	// Materials
	Kind             string  `yaml:"kind"`
	Specular         float64 `yaml:"specular"`
	Roughness        float64 `yaml:"roughness"`
	ColorAttribute   string  `yaml:"color_attribute"`
	DensityAttribute string  `yaml:"density_attribute"`
	Density          float64 `yaml:"density"`
	Volume           bool    `yaml:"volume"`
}

// Render overrides the default render options. Unset fields keep the
// defaults.
type Render struct {
	Camera          *Vec     `yaml:"camera"`
	C               *Vec     `yaml:"c"`
	L               *Vec     `yaml:"l"`
	Samples         int      `yaml:"samples"`
	Resolution      []int    `yaml:"resolution"`
	Draft           bool     `yaml:"draft"`
	Freestyle       *bool    `yaml:"freestyle"`
	Orthographic    bool     `yaml:"orthographic"`
	OrthoScale      float64  `yaml:"ortho_scale"`
	BackgroundLum   *float64 `yaml:"background_lum"`
	BackgroundColor string   `yaml:"background_color"`
	Transparent     *bool    `yaml:"transparent"`
	SkipRender      bool     `yaml:"skip_render"`
	LookAt          string   `yaml:"look_at"`
}

// ParseSceneFile parses a scene document from an io.Reader
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	var sf SceneFile
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		if errors.Is(err, io.EOF) {
			return &sf, nil
		}
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}
	return &sf, nil
}

// LoadSceneFile loads and parses a scene document. A leading ~ is expanded.
func LoadSceneFile(filename string) (*SceneFile, error) {
	path, err := homedir.Expand(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path: %w", err)
	}
	if err := validateFilePath(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sf, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sf.Filename == "" {
		base := filepath.Base(path)
		sf.Filename = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return sf, nil
}

// validateFilePath rejects paths that cannot name a scene document
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
	default:
		return fmt.Errorf("invalid file type: only .yaml and .yml files are allowed")
	}
	if len(filename) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}
	return nil
}

// Options returns the scene options the document header implies. opts are
// applied afterwards and win.
func (sf *SceneFile) Options(opts ...scene.Option) ([]scene.Option, error) {
	var out []scene.Option
	if sf.Dialect != "" {
		d, err := api.Parse(sf.Dialect)
		if err != nil {
			return nil, err
		}
		out = append(out, scene.WithDialect(d))
	}
	if sf.Filename != "" {
		out = append(out, scene.WithFilename(sf.Filename))
	}
	if sf.SceneName != "" {
		out = append(out, scene.WithSceneName(sf.SceneName))
	}
	out = append(out, scene.WithDefaultLight(sf.DefaultLight))
	return append(out, opts...), nil
}

// Build replays the steps into a new scene and resolves the render options
// against the defaults
func (sf *SceneFile) Build(opts ...scene.Option) (*scene.Scene, scene.RenderOptions, error) {
	return sf.BuildFrom(scene.DefaultRenderOptions(), opts...)
}

// BuildFrom is Build with base render options under the document's own
func (sf *SceneFile) BuildFrom(base scene.RenderOptions, opts ...scene.Option) (*scene.Scene, scene.RenderOptions, error) {
	all, err := sf.Options(opts...)
	if err != nil {
		return nil, scene.RenderOptions{}, err
	}
	s := scene.New(all...)
	s.Draft(sf.Draft)
	if sf.Open != "" {
		blend, err := homedir.Expand(sf.Open)
		if err != nil {
			return nil, scene.RenderOptions{}, fmt.Errorf("open: %w", err)
		}
		s.Open(blend)
	}

	for i, step := range sf.Steps {
		if err := applyStep(s, step); err != nil {
			return nil, scene.RenderOptions{}, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	ro, err := sf.Render.options(base)
	if err != nil {
		return nil, scene.RenderOptions{}, fmt.Errorf("render: %w", err)
	}
	if sf.Render.LookAt != "" {
		if err := s.LookAt(sf.Render.LookAt); err != nil {
			return nil, scene.RenderOptions{}, fmt.Errorf("render: %w", err)
		}
	}
	return s, ro, nil
}

func (r Render) options(ro scene.RenderOptions) (scene.RenderOptions, error) {
	if r.Camera != nil {
		ro.CameraLocation = r.Camera.vec3()
	}
	if r.C != nil {
		ro.C = r.C.vec3()
	}
	if r.L != nil {
		ro.L = r.L.vec3()
	}
	if r.Samples != 0 {
		ro.Samples = r.Samples
	}
	switch len(r.Resolution) {
	case 0:
	case 2:
		ro.ResolutionX, ro.ResolutionY = r.Resolution[0], r.Resolution[1]
	default:
		return ro, fmt.Errorf("resolution needs 2 values, got %d", len(r.Resolution))
	}
	ro.Draft = ro.Draft || r.Draft
	if r.Freestyle != nil {
		ro.Freestyle = *r.Freestyle
	}
	ro.Orthographic = ro.Orthographic || r.Orthographic
	if r.OrthoScale != 0 {
		ro.OrthoScale = r.OrthoScale
	}
	if r.BackgroundLum != nil {
		ro.BackgroundLum = *r.BackgroundLum
	}
	if r.BackgroundColor != "" {
		c, err := core.ParseColor(r.BackgroundColor)
		if err != nil {
			return ro, err
		}
		ro.BackgroundColor = c
	}
	if r.Transparent != nil {
		ro.Transparent = *r.Transparent
	}
	ro.SkipRender = ro.SkipRender || r.SkipRender
	return ro, ro.Validate()
}
