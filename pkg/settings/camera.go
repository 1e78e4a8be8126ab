package settings

// CameraSettings is a camera model descriptor.
type CameraSettings interface {
	Descriptor
	// ImageSize returns the image width and height in pixels.
	ImageSize() (width, height int)
	cameraSettings()
}

// PinholeSettings holds the intrinsics of a pinhole camera with
// Brown-Conrady distortion.
type PinholeSettings struct {
	params

	Fps    float64 `json:"fps" yaml:"fps"`
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	Fx     float64 `json:"fx" yaml:"fx"`
	Fy     float64 `json:"fy" yaml:"fy"`
	Cx     float64 `json:"cx" yaml:"cx"`
	Cy     float64 `json:"cy" yaml:"cy"`
	K1     float64 `json:"k1" yaml:"k1"`
	K2     float64 `json:"k2" yaml:"k2"`
	P1     float64 `json:"p1" yaml:"p1"`
	P2     float64 `json:"p2" yaml:"p2"`
	K3     float64 `json:"k3" yaml:"k3"`
}

// NewPinhole parses pinhole camera settings from a settings document.
func NewPinhole(doc map[string]any) (*PinholeSettings, error) {
	return construct[PinholeSettings](variants[KindPinhole], doc)
}

// ImageSize returns the image width and height in pixels.
func (s *PinholeSettings) ImageSize() (width, height int) {
	return s.Width, s.Height
}

// Distortion returns the coefficients in OpenCV order (k1, k2, p1, p2, k3).
func (s *PinholeSettings) Distortion() [5]float64 {
	return [5]float64{s.K1, s.K2, s.P1, s.P2, s.K3}
}

func (*PinholeSettings) cameraSettings() {}

var _ CameraSettings = (*PinholeSettings)(nil)
