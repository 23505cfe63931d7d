package camera

// SensorFit selects which sensor dimension maps onto the image
type SensorFit string

const (
	SensorFitAuto       SensorFit = "AUTO"
	SensorFitHorizontal SensorFit = "HORIZONTAL"
	SensorFitVertical   SensorFit = "VERTICAL"
)

// Type is the camera projection kind
type Type string

const (
	TypePerspective  Type = "PERSP"
	TypeOrthographic Type = "ORTHO"
)

// MinClipStart is the host's lower bound on the near clip distance; smaller
// values are clamped on assignment
const MinClipStart = 1e-6

// Params mirrors the host camera datablock fields the projection uses.
// Lens, sensor sizes and ortho scale are in millimetres and scene units.
type Params struct {
	Lens         float64   `json:"lens"`
	SensorWidth  float64   `json:"sensor_width"`
	SensorHeight float64   `json:"sensor_height"`
	SensorFit    SensorFit `json:"sensor_fit"`
	ClipStart    float64   `json:"clip_start"`
	ClipEnd      float64   `json:"clip_end"`
	ShiftX       float64   `json:"shift_x"`
	ShiftY       float64   `json:"shift_y"`
	Type         Type      `json:"type"`
	OrthoScale   float64   `json:"ortho_scale"`
}

// DefaultParams returns the host's new-camera defaults
func DefaultParams() Params {
	return Params{
		Lens:         50,
		SensorWidth:  36,
		SensorHeight: 24,
		SensorFit:    SensorFitAuto,
		ClipStart:    0.1,
		ClipEnd:      100,
		Type:         TypePerspective,
		OrthoScale:   6,
	}
}

func (p Params) clipStart() float64 {
	if p.ClipStart < MinClipStart {
		return MinClipStart
	}
	return p.ClipStart
}

// Render mirrors the output settings of the host scene
type Render struct {
	ResolutionX  int     `json:"resolution_x"`
	ResolutionY  int     `json:"resolution_y"`
	Percentage   int     `json:"resolution_percentage"`
	PixelAspectX float64 `json:"pixel_aspect_x"`
	PixelAspectY float64 `json:"pixel_aspect_y"`
}

// NewRender returns full-size output with square pixels
func NewRender(x, y int) Render {
	return Render{ResolutionX: x, ResolutionY: y, Percentage: 100, PixelAspectX: 1, PixelAspectY: 1}
}

func (r Render) scale() float64 {
	return float64(r.Percentage) / 100
}

func (r Render) pixelAspect() float64 {
	if r.PixelAspectY == 0 {
		return 1
	}
	return r.PixelAspectX / r.PixelAspectY
}

// Size returns the output size in pixels after the percentage is applied
func (r Render) Size() (w, h int) {
	return int(float64(r.ResolutionX) * r.scale()), int(float64(r.ResolutionY) * r.scale())
}
