package geometry

import (
	"path/filepath"
	"strings"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/script"
)

// Volume imports an OpenVDB grid file. The grids are expected to be named
// "density" and "color".
type Volume struct {
	VolumeName string
	C          core.Vec3
	Path       string
}

// NewVolume creates a volume import
func NewVolume(name string, c core.Vec3, path string) *Volume {
	return &Volume{VolumeName: name, C: c, Path: path}
}

func (v *Volume) Name() string { return v.VolumeName }

func (v *Volume) Validate() error {
	if err := checkName("volume", v.VolumeName); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(v.Path), ".vdb") {
		return invalid("volume", v.VolumeName, "path %q is not a .vdb file", v.Path)
	}
	return nil
}

func (v *Volume) Placement() Placement {
	return Placement{Location: v.C, Scale: core.Splat(1)}
}

func (v *Volume) Emit(b *script.Buffer, d api.Dialect) {
	b.A("bpy.ops.object.volume_import(filepath=%s, location=%s)", script.Quote(v.Path), script.Vec(v.C))
	bindActive(b, v.VolumeName)
}
