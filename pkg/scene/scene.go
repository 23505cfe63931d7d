// Package scene builds host scripts: a preamble, then one statement group
// per light, primitive, material or operation, then a render block.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/logger"
	"github.com/df07/go-bpwf/pkg/script"
)

// DefaultFilename is the base name of the script, blend file and image
const DefaultFilename = "brender_01"

var (
	ErrUnknownObject   = errors.New("unknown object")
	ErrUnknownMaterial = errors.New("unknown material")
	ErrDuplicateName   = errors.New("duplicate name")
)

// Kind classifies known objects so operations can reject unsuitable targets
type Kind int

const (
	KindMesh Kind = iota
	KindCurve
	KindVolume
	KindLight
)

// Scene accumulates the statements of one host script. A Scene is not safe
// for concurrent use.
type Scene struct {
	dialect   api.Dialect
	filename  string
	path      string
	hostScene string
	keepLight bool
	draft     bool
	lookAt    string

	b         *script.Buffer
	objects   *nameSet[Kind]
	materials *nameSet[struct{}]
	log       zerolog.Logger
}

// Option configures a new scene
type Option func(*Scene)

// WithDialect selects the host API spelling
func WithDialect(d api.Dialect) Option {
	return func(s *Scene) { s.dialect = d }
}

// WithFilename sets the base name of every output file
func WithFilename(name string) Option {
	return func(s *Scene) { s.filename = name }
}

// WithPath sets the directory output files are written to
func WithPath(dir string) Option {
	return func(s *Scene) { s.path = dir }
}

// WithDefaultLight keeps the host's startup lamp when keep is true. By
// default it is deleted along with the startup cube.
func WithDefaultLight(keep bool) Option {
	return func(s *Scene) { s.keepLight = keep }
}

// WithSceneName builds into a host scene of that name. With a window the
// script creates the scene and switches to it; in background mode it
// renames the startup scene.
func WithSceneName(name string) Option {
	return func(s *Scene) { s.hostScene = name }
}

// New creates a scene and writes its preamble
func New(opts ...Option) *Scene {
	s := &Scene{
		dialect:   api.Default(),
		filename:  DefaultFilename,
		b:         script.NewBuffer(),
		objects:   newNameSet[Kind](),
		materials: newNameSet[struct{}](),
	}
	if wd, err := os.Getwd(); err == nil {
		s.path = wd
	}
	for _, opt := range opts {
		opt(s)
	}
	if abs, err := filepath.Abs(s.path); err == nil {
		s.path = abs
	}
	if s.hostScene != "" && !s.dialect.Legacy() {
		s.dialect.Collection = "scene.collection"
	}
	s.log = logger.With("scene").With().Str("filename", s.filename).Logger()
	s.preamble()
	return s
}

func (s *Scene) preamble() {
	d := s.dialect
	s.b.AddLine("import bpy")
	s.b.Raw(script.Helpers(d.MatMul))
	if s.hostScene != "" {
		// Operators act on the context scene, which only a window can
		// switch. Without one the context scene takes the name.
		q := script.Quote(s.hostScene)
		s.b.AddLine("if bpy.context.window is None:")
		s.b.AddLine("    scene = bpy.context.scene")
		s.b.A("    scene.name = %s", q)
		s.b.AddLine("else:")
		s.b.A("    scene = bpy.data.scenes.new(%s)", q)
		if d.Legacy() {
			s.b.AddLine("    bpy.context.screen.scene = scene")
		} else {
			s.b.AddLine("    bpy.context.window.scene = scene")
		}
	} else {
		s.b.AddLine("scene = bpy.context.scene")
	}
	s.b.AddLine("# First, delete the default cube")
	s.removeStartupObject("Cube")
	if !s.keepLight {
		if d.Legacy() {
			s.removeStartupObject("Lamp")
		} else {
			s.removeStartupObject("Light")
		}
	}
	s.groups()
}

func (s *Scene) removeStartupObject(name string) {
	q := script.Quote(name)
	s.b.A("if %s in bpy.data.objects:", q)
	s.b.A("    bpy.data.objects.remove(bpy.data.objects[%s], do_unlink=True)", q)
}

// groups binds fg and tg to the freestyle and transparent object groups
func (s *Scene) groups() {
	kind := "collections"
	if s.dialect.Legacy() {
		kind = "groups"
	}
	s.b.A(`fg = bpy.data.%s.get("freestyle_group") or bpy.data.%s.new("freestyle_group")`, kind, kind)
	s.b.A(`tg = bpy.data.%s.get("transparent_group") or bpy.data.%s.new("transparent_group")`, kind, kind)
}

// Script returns the statements written so far, without a render block
func (s *Scene) Script() string { return s.b.String() }

// Lines returns the number of script lines written so far
func (s *Scene) Lines() int { return s.b.Len() }

// Objects returns known object names in creation order
func (s *Scene) Objects() []string { return s.objects.names() }

// Materials returns known material names in creation order
func (s *Scene) Materials() []string { return s.materials.names() }

// HasObject reports whether name is a known object
func (s *Scene) HasObject(name string) bool { return s.objects.has(name) }

func (s *Scene) Dialect() api.Dialect { return s.dialect }

func (s *Scene) Filename() string { return s.filename }

// Path is the absolute output directory
func (s *Scene) Path() string { return s.path }

// ScriptPath returns where the runner writes the script
func (s *Scene) ScriptPath() string { return s.output(".py") }

// ImagePath returns where the host writes the rendered image
func (s *Scene) ImagePath() string { return s.output(".png") }

// BlendPath returns where the host saves the scene file
func (s *Scene) BlendPath() string { return s.output(".blend") }

// MatrixPath returns where the host dumps the camera matrices
func (s *Scene) MatrixPath() string { return s.output("_camera.json") }

func (s *Scene) output(suffix string) string {
	return filepath.Join(s.path, s.filename+suffix)
}

// Draft switches renders to a small, low sample preview
func (s *Scene) Draft(on bool) *Scene {
	s.draft = on
	return s
}

// IsDraft reports whether draft mode is on
func (s *Scene) IsDraft() bool { return s.draft }

// Split returns an independent copy of the scene writing to filename
func (s *Scene) Split(filename string) *Scene {
	c := *s
	c.filename = filename
	c.b = s.b.Copy()
	c.objects = s.objects.clone()
	c.materials = s.materials.clone()
	c.log = logger.With("scene").With().Str("filename", filename).Logger()
	return &c
}

// Open loads a saved scene file. Objects created before the call are
// forgotten because the host discards them.
func (s *Scene) Open(blend string) {
	if !strings.HasSuffix(blend, ".blend") {
		blend += ".blend"
	}
	s.b.A("bpy.ops.wm.open_mainfile(filepath=%s)", script.Quote(blend))
	s.b.AddLine("scene = bpy.context.scene")
	s.groups()
	s.objects = newNameSet[Kind]()
	s.materials = newNameSet[struct{}]()
	s.lookAt = ""
	s.log.Debug().Str("blend", blend).Msg("opened scene file")
}

func (s *Scene) requireObject(name string) (Kind, error) {
	k, ok := s.objects.get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownObject, name)
	}
	return k, nil
}

func (s *Scene) requireMesh(op, name string) error {
	k, err := s.requireObject(name)
	if err != nil {
		return err
	}
	if k != KindMesh {
		return fmt.Errorf("%s: %q is not a mesh", op, name)
	}
	return nil
}

func (s *Scene) claimName(name string) error {
	if s.objects.has(name) {
		return fmt.Errorf("%w: object %q", ErrDuplicateName, name)
	}
	if other, ok := s.objects.clash(name); ok {
		return fmt.Errorf("%w: object %q shares a script variable with %q", ErrDuplicateName, name, other)
	}
	return nil
}

func (s *Scene) claimMaterial(name string) error {
	if s.materials.has(name) {
		return fmt.Errorf("%w: material %q", ErrDuplicateName, name)
	}
	if other, ok := s.materials.clash(name); ok {
		return fmt.Errorf("%w: material %q shares a script variable with %q", ErrDuplicateName, name, other)
	}
	return nil
}
