package registry

import (
	"github.com/realmcfg/runtime/internal/config"
	"github.com/realmcfg/runtime/pkg/settings"
)

// Camera is the closed table of camera models. Only the pinhole model is
// implemented; every other camera type is unsupported.
var Camera = MustNew("camera",
	Entry[settings.CameraSettings]{Kind: settings.KindPinhole, New: newPinhole},
)

// Stage is the closed table of pipeline stage settings.
var Stage = MustNew("stage",
	Entry[settings.StageSettings]{Kind: settings.KindPoseEstimation, New: newPoseEstimation},
	Entry[settings.StageSettings]{Kind: settings.KindDensification, New: newDensification},
	Entry[settings.StageSettings]{Kind: settings.KindSurfaceGeneration, New: newSurfaceGeneration},
	Entry[settings.StageSettings]{Kind: settings.KindOrthoRectification, New: newOrthoRectification},
	Entry[settings.StageSettings]{Kind: settings.KindMosaicing, New: newMosaicing},
)

// The wrappers below return an untyped nil on failure so callers never see
// a non-nil interface holding a nil pointer.

func newPinhole(doc config.Document) (settings.CameraSettings, error) {
	s, err := settings.NewPinhole(doc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newPoseEstimation(doc config.Document) (settings.StageSettings, error) {
	s, err := settings.NewPoseEstimation(doc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newDensification(doc config.Document) (settings.StageSettings, error) {
	s, err := settings.NewDensification(doc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newSurfaceGeneration(doc config.Document) (settings.StageSettings, error) {
	s, err := settings.NewSurfaceGeneration(doc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newOrthoRectification(doc config.Document) (settings.StageSettings, error) {
	s, err := settings.NewOrthoRectification(doc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newMosaicing(doc config.Document) (settings.StageSettings, error) {
	s, err := settings.NewMosaicing(doc)
	if err != nil {
		return nil, err
	}
	return s, nil
}
