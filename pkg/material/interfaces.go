package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/script"
)

// ErrInvalidMaterial is returned by Validate for unusable parameters
var ErrInvalidMaterial = errors.New("invalid material")

// Material is a host material definition that can write itself as script
type Material interface {
	// Name is the host datablock name, also used to derive the script variable
	Name() string

	// Validate checks parameters before anything is emitted
	Validate() error

	// Emit appends the statements creating the material
	Emit(b *script.Buffer, d api.Dialect)
}

// VolumeOutput is implemented by materials that can drive the volume socket
type VolumeOutput interface {
	UsesVolume() bool
}

// Var returns the script variable bound to the material
func Var(m Material) string {
	return script.MaterialVar(m.Name())
}

func checkAlpha(name string, alpha float64) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidMaterial)
	}
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("%w: %s: alpha %g outside [0, 1]", ErrInvalidMaterial, name, alpha)
	}
	return nil
}
