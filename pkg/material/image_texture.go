package material

import (
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
	"github.com/h2non/filetype"
)

// ErrNotImage is returned when a texture file is not a recognised image
var ErrNotImage = errors.New("not an image file")

// Image maps an image file onto the surface, mixed with transparency
type Image struct {
	MatName string
	Path    string
	Alpha   float64
	Volume  bool
	Tint    core.RGB // Emission tint of the texture
}

// NewImage creates an opaque image material
func NewImage(name, path string) *Image {
	return &Image{MatName: name, Path: path, Alpha: 1.0, Tint: core.RGB{R: 1, G: 1, B: 1}}
}

func (im *Image) Name() string { return im.MatName }

func (im *Image) UsesVolume() bool { return im.Volume }

func (im *Image) Validate() error {
	if err := checkAlpha(im.MatName, im.Alpha); err != nil {
		return err
	}
	if err := CheckImage(im.Path); err != nil {
		return fmt.Errorf("%s: %w", im.MatName, err)
	}
	return nil
}

func (im *Image) Emit(b *script.Buffer, d api.Dialect) {
	v := Var(im)
	nodeTree(b, v, im.MatName)
	img := script.NodeVar(im.Name(), "image")
	tex := script.NodeVar(im.Name(), "tex")
	em := script.NodeVar(im.Name(), "e")
	b.A("%s = bpy.data.images.load(%s)", img, script.Quote(im.Path))
	b.A(`%s = nodes.new(type="ShaderNodeTexImage")`, tex)
	b.A("%s.image = %s", tex, img)
	b.A(`%s = nodes.new(type="ShaderNodeEmission")`, em)
	b.A("%s.inputs[0].default_value = %s", em, script.Color4(im.Tint, 1))
	b.A("%s.inputs[1].default_value = 5.0", em)
	b.A("links.new(%s.outputs[0], %s.inputs[0])", tex, em)
	mix := transparentMix(b, im.Name(), em, im.Alpha)
	output(b, im.Name(), mix, im.Volume)
}

// CheckImage verifies that path names a readable file of a known image type
func CheckImage(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidMaterial)
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// The matchers need at most the first 262 bytes
	head := make([]byte, 262)
	n, err := file.Read(head)
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}
	if !filetype.IsImage(head[:n]) {
		return fmt.Errorf("%w: %s", ErrNotImage, path)
	}
	return nil
}
