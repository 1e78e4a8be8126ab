package factory

import (
	"github.com/realmcfg/runtime/internal/config"
	"github.com/realmcfg/runtime/internal/registry"
	"github.com/realmcfg/runtime/pkg/settings"
)

// CameraSettingsLoader loads camera model settings.
// Any kind in the camera table is accepted; there is no expected kind.
type CameraSettingsLoader struct {
	loader *Loader[settings.CameraSettings]
}

// NewCameraSettingsLoader creates a camera settings loader. A nil reader
// reads from the local filesystem.
func NewCameraSettingsLoader(reader config.Reader) *CameraSettingsLoader {
	return &CameraSettingsLoader{loader: NewLoader(registry.Camera, reader)}
}

// Load loads the camera settings file at path.
func (c *CameraSettingsLoader) Load(path string) (settings.CameraSettings, error) {
	return c.loader.Load(path)
}

// Kinds returns the supported camera models.
func (c *CameraSettingsLoader) Kinds() []string {
	return c.loader.Kinds()
}

// StageSettingsLoader loads pipeline stage settings for a known stage.
type StageSettingsLoader struct {
	loader *Loader[settings.StageSettings]
}

// NewStageSettingsLoader creates a stage settings loader. A nil reader
// reads from the local filesystem.
func NewStageSettingsLoader(reader config.Reader) *StageSettingsLoader {
	return &StageSettingsLoader{loader: NewLoader(registry.Stage, reader)}
}

// Load loads the stage settings file at path. The file must declare
// expectedKind; an empty expectedKind never matches.
func (s *StageSettingsLoader) Load(expectedKind, path string) (settings.StageSettings, error) {
	return s.loader.LoadKind(expectedKind, path)
}

// Kinds returns the supported stage kinds.
func (s *StageSettingsLoader) Kinds() []string {
	return s.loader.Kinds()
}

var (
	defaultCamera = NewCameraSettingsLoader(nil)
	defaultStage  = NewStageSettingsLoader(nil)
)

// LoadCamera loads a camera settings file from the local filesystem.
func LoadCamera(path string) (settings.CameraSettings, error) {
	return defaultCamera.Load(path)
}

// LoadStage loads a stage settings file from the local filesystem.
func LoadStage(expectedKind, path string) (settings.StageSettings, error) {
	return defaultStage.Load(expectedKind, path)
}
