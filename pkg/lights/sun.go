package lights

import (
	"fmt"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/script"
)

// Sun is a directional lamp. The host places it infinitely far away, so
// only its strength matters; keep it far below point lamp strengths.
type Sun struct {
	LightName string
	Strength  float64
}

// NewSun creates a sun lamp named "Sun"
func NewSun(strength float64) *Sun {
	return &Sun{LightName: "Sun", Strength: strength}
}

func (s *Sun) Type() LightType { return LightTypeSun }

func (s *Sun) Name() string { return s.LightName }

func (s *Sun) Validate() error {
	if s.LightName == "" {
		return fmt.Errorf("sun: empty name")
	}
	if s.Strength < 0 {
		return fmt.Errorf("sun %q: negative strength %g", s.LightName, s.Strength)
	}
	return nil
}

func (s *Sun) Emit(b *script.Buffer, d api.Dialect) {
	b.AddLine("# Now add a sun")
	emitLamp(b, d, LightTypeSun, s.LightName, s.Strength)
}
