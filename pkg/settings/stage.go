package settings

// StageSettings is a pipeline stage descriptor.
type StageSettings interface {
	Descriptor
	// Common returns the parameters shared by every stage.
	Common() StageCommon
	stageSettings()
}

// StageCommon holds the parameters every stage declares.
type StageCommon struct {
	QueueSize int  `json:"queue_size" yaml:"queue_size"`
	LogToFile bool `json:"log_to_file" yaml:"log_to_file"`
}

// Common returns the parameters shared by every stage.
func (c StageCommon) Common() StageCommon {
	return c
}

func (StageCommon) stageSettings() {}

// PoseEstimationSettings configures the pose estimation stage.
type PoseEstimationSettings struct {
	params
	StageCommon

	UseVslam                  bool    `json:"use_vslam" yaml:"use_vslam"`
	UseFallback               bool    `json:"use_fallback" yaml:"use_fallback"`
	UseInitialGuess           bool    `json:"use_initial_guess" yaml:"use_initial_guess"`
	DoUpdateGeoref            bool    `json:"do_update_georef" yaml:"do_update_georef"`
	DoDelayKeyframes          bool    `json:"do_delay_keyframes" yaml:"do_delay_keyframes"`
	DoSuppressOutdatedPosePub bool    `json:"do_suppress_outdated_pose_pub" yaml:"do_suppress_outdated_pose_pub"`
	ThErrorGeoref             float64 `json:"th_error_georef" yaml:"th_error_georef"`
	OverlapMax                float64 `json:"overlap_max" yaml:"overlap_max"`
	OverlapMaxFallback        float64 `json:"overlap_max_fallback" yaml:"overlap_max_fallback"`
	MinNofFramesGeoref        int     `json:"min_nof_frames_georef" yaml:"min_nof_frames_georef"`
	SaveTrajectoryGnss        bool    `json:"save_trajectory_gnss" yaml:"save_trajectory_gnss"`
	SaveTrajectoryVisual      bool    `json:"save_trajectory_visual" yaml:"save_trajectory_visual"`
	SaveFrames                bool    `json:"save_frames" yaml:"save_frames"`
	SaveKeyframes             bool    `json:"save_keyframes" yaml:"save_keyframes"`
	SaveKeyframesFull         bool    `json:"save_keyframes_full" yaml:"save_keyframes_full"`
}

// NewPoseEstimation parses pose estimation settings from a settings document.
func NewPoseEstimation(doc map[string]any) (*PoseEstimationSettings, error) {
	return construct[PoseEstimationSettings](variants[KindPoseEstimation], doc)
}

// DensificationSettings configures the densification stage.
type DensificationSettings struct {
	params
	StageCommon

	UseFilterBilat  bool    `json:"use_filter_bilat" yaml:"use_filter_bilat"`
	UseFilterGuided bool    `json:"use_filter_guided" yaml:"use_filter_guided"`
	ComputeNormals  bool    `json:"compute_normals" yaml:"compute_normals"`
	DepthMinCurrent float64 `json:"depth_min_current" yaml:"depth_min_current"`
	DepthMaxCurrent float64 `json:"depth_max_current" yaml:"depth_max_current"`
	SaveBilat       bool    `json:"save_bilat" yaml:"save_bilat"`
	SaveDense       bool    `json:"save_dense" yaml:"save_dense"`
	SaveGuided      bool    `json:"save_guided" yaml:"save_guided"`
	SaveImgs        bool    `json:"save_imgs" yaml:"save_imgs"`
	SaveSparse      bool    `json:"save_sparse" yaml:"save_sparse"`
	SaveThumb       bool    `json:"save_thumb" yaml:"save_thumb"`
	SaveNormals     bool    `json:"save_normals" yaml:"save_normals"`
}

// NewDensification parses densification settings from a settings document.
func NewDensification(doc map[string]any) (*DensificationSettings, error) {
	return construct[DensificationSettings](variants[KindDensification], doc)
}

// SurfaceGenerationSettings configures the surface generation stage.
type SurfaceGenerationSettings struct {
	params
	StageCommon

	TryUseElevation                 bool    `json:"try_use_elevation" yaml:"try_use_elevation"`
	ComputeAllFrames                bool    `json:"compute_all_frames" yaml:"compute_all_frames"`
	KnnMaxIter                      int     `json:"knn_max_iter" yaml:"knn_max_iter"`
	IsProjectionPlaneOffsetComputed bool    `json:"is_projection_plane_offset_computed" yaml:"is_projection_plane_offset_computed"`
	ProjectionPlaneOffset           float64 `json:"projection_plane_offset" yaml:"projection_plane_offset"`
	ModeSurfaceNormals              int     `json:"mode_surface_normals" yaml:"mode_surface_normals"`
	SaveElevation                   bool    `json:"save_elevation" yaml:"save_elevation"`
	SaveNormals                     bool    `json:"save_normals" yaml:"save_normals"`
}

// NewSurfaceGeneration parses surface generation settings from a settings document.
func NewSurfaceGeneration(doc map[string]any) (*SurfaceGenerationSettings, error) {
	return construct[SurfaceGenerationSettings](variants[KindSurfaceGeneration], doc)
}

// OrthoRectificationSettings configures the ortho rectification stage.
type OrthoRectificationSettings struct {
	params
	StageCommon

	GSD                float64 `json:"GSD" yaml:"GSD"`
	SaveOrthoRgb       bool    `json:"save_ortho_rgb" yaml:"save_ortho_rgb"`
	SaveOrthoGtiff     bool    `json:"save_ortho_gtiff" yaml:"save_ortho_gtiff"`
	SaveElevation      bool    `json:"save_elevation" yaml:"save_elevation"`
	SaveElevationAngle bool    `json:"save_elevation_angle" yaml:"save_elevation_angle"`
}

// NewOrthoRectification parses ortho rectification settings from a settings document.
func NewOrthoRectification(doc map[string]any) (*OrthoRectificationSettings, error) {
	return construct[OrthoRectificationSettings](variants[KindOrthoRectification], doc)
}

// MosaicingSettings configures the mosaicing stage.
type MosaicingSettings struct {
	params
	StageCommon

	ThElevationMinNobs       int     `json:"th_elevation_min_nobs" yaml:"th_elevation_min_nobs"`
	ThElevationVar           float64 `json:"th_elevation_var" yaml:"th_elevation_var"`
	SplitGtiffChannels       bool    `json:"split_gtiff_channels" yaml:"split_gtiff_channels"`
	UseSurfaceNormals        bool    `json:"use_surface_normals" yaml:"use_surface_normals"`
	SaveOrthoRgbOne          bool    `json:"save_ortho_rgb_one" yaml:"save_ortho_rgb_one"`
	SaveOrthoRgbAll          bool    `json:"save_ortho_rgb_all" yaml:"save_ortho_rgb_all"`
	SaveOrthoGtiffOne        bool    `json:"save_ortho_gtiff_one" yaml:"save_ortho_gtiff_one"`
	SaveOrthoGtiffAll        bool    `json:"save_ortho_gtiff_all" yaml:"save_ortho_gtiff_all"`
	SaveElevationOne         bool    `json:"save_elevation_one" yaml:"save_elevation_one"`
	SaveElevationAll         bool    `json:"save_elevation_all" yaml:"save_elevation_all"`
	SaveElevationVarOne      bool    `json:"save_elevation_var_one" yaml:"save_elevation_var_one"`
	SaveElevationObsAngleOne bool    `json:"save_elevation_obs_angle_one" yaml:"save_elevation_obs_angle_one"`
	SaveElevationMeshOne     bool    `json:"save_elevation_mesh_one" yaml:"save_elevation_mesh_one"`
	SaveNumObsOne            bool    `json:"save_num_obs_one" yaml:"save_num_obs_one"`
	SaveDensePly             bool    `json:"save_dense_ply" yaml:"save_dense_ply"`
	PublishMeshNthIter       int     `json:"publish_mesh_nth_iter" yaml:"publish_mesh_nth_iter"`
	PublishMeshEveryNthKf    int     `json:"publish_mesh_every_nth_kf" yaml:"publish_mesh_every_nth_kf"`
	PublishMeshAtFinish      bool    `json:"publish_mesh_at_finish" yaml:"publish_mesh_at_finish"`
	DownsamplePublishMesh    float64 `json:"downsample_publish_mesh" yaml:"downsample_publish_mesh"`
}

// NewMosaicing parses mosaicing settings from a settings document.
func NewMosaicing(doc map[string]any) (*MosaicingSettings, error) {
	return construct[MosaicingSettings](variants[KindMosaicing], doc)
}

var (
	_ StageSettings = (*PoseEstimationSettings)(nil)
	_ StageSettings = (*DensificationSettings)(nil)
	_ StageSettings = (*SurfaceGenerationSettings)(nil)
	_ StageSettings = (*OrthoRectificationSettings)(nil)
	_ StageSettings = (*MosaicingSettings)(nil)
)
