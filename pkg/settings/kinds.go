package settings

// Camera settings kinds.
const (
	KindPinhole = "pinhole"
)

// Stage settings kinds.
const (
	KindPoseEstimation     = "pose_estimation"
	KindDensification      = "densification"
	KindSurfaceGeneration  = "surface_generation"
	KindOrthoRectification = "ortho_rectification"
	KindMosaicing          = "mosaicing"
)

// baseStage is the schema holding the parameters shared by every stage.
const baseStage = "stage"

var variants = map[string]*variantDef{
	KindPinhole: {
		kind: KindPinhole,
		rules: newRuleSet(
			Rule{Expr: "cx <= width", Param: "cx", Message: "principal point must lie inside the image width"},
			Rule{Expr: "cy <= height", Param: "cy", Message: "principal point must lie inside the image height"},
		),
	},
	KindPoseEstimation: {
		kind:  KindPoseEstimation,
		bases: []string{baseStage},
		rules: newRuleSet(
			Rule{Expr: "use_vslam || !use_fallback", Param: "use_fallback", Message: "fallback requires use_vslam"},
			Rule{Expr: "use_vslam || !use_initial_guess", Param: "use_initial_guess", Message: "initial guess requires use_vslam"},
		),
	},
	KindDensification: {
		kind:  KindDensification,
		bases: []string{baseStage},
		rules: newRuleSet(
			Rule{
				Expr:    "depth_max_current == 0 || depth_min_current < depth_max_current",
				Param:   "depth_min_current",
				Message: "depth_min_current must be smaller than depth_max_current",
			},
		),
	},
	KindSurfaceGeneration: {
		kind:  KindSurfaceGeneration,
		bases: []string{baseStage},
	},
	KindOrthoRectification: {
		kind:  KindOrthoRectification,
		bases: []string{baseStage},
	},
	KindMosaicing: {
		kind:  KindMosaicing,
		bases: []string{baseStage},
		rules: newRuleSet(
			Rule{
				Expr:    "publish_mesh_nth_iter == 0 || publish_mesh_every_nth_kf == 0",
				Param:   "publish_mesh_nth_iter",
				Message: "publish_mesh_nth_iter and publish_mesh_every_nth_kf are mutually exclusive",
			},
		),
	},
}
