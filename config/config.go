package config

import "image/color"

// CameraConfig contains orbit camera configuration values
type CameraConfig struct {
	// Gesture sensitivity
	DragDegreesPerPixel float64 `yaml:"drag_degrees_per_pixel"` // Yaw/pitch degrees per pixel dragged
	PanUnitsPerPixel    float64 `yaml:"pan_units_per_pixel"`    // World units per pixel panned
	WheelZoomStep       float64 `yaml:"wheel_zoom_step"`        // Scale factor per wheel notch (desktop)

	// Clamps
	MinPitch    float64 `yaml:"min_pitch"`
	MaxPitch    float64 `yaml:"max_pitch"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`

	// Initial state, also the target of a reset
	DefaultYaw      float64 `yaml:"default_yaw"`
	DefaultPitch    float64 `yaml:"default_pitch"`
	DefaultDistance float64 `yaml:"default_distance"`

	// Projection
	FieldOfView float64 `yaml:"field_of_view"` // Vertical, degrees
	Near        float64 `yaml:"near"`
	Far         float64 `yaml:"far"`

	// Reset animation
	ResetDuration     float32 `yaml:"reset_duration"`      // Seconds
	DoubleTapInterval int     `yaml:"double_tap_interval"` // Milliseconds
	DoubleTapSlop     float64 `yaml:"double_tap_slop"`     // Pixels
}

// RenderConfig contains renderer configuration values
type RenderConfig struct {
	ClearColor    color.RGBA `yaml:"clear_color"`
	SkyTopColor   color.RGBA `yaml:"sky_top_color"`
	SkyHorizon    color.RGBA `yaml:"sky_horizon_color"`
	SkyGround     color.RGBA `yaml:"sky_ground_color"`
	DefaultColor  color.RGBA `yaml:"default_color"` // Used when a primitive has no material
	CullBackFaces bool       `yaml:"cull_back_faces"`
}

// LightConfig describes the single directional light
type LightConfig struct {
	Direction [3]float64 `yaml:"direction"` // Direction the light travels, world space
	Intensity float64    `yaml:"intensity"`
	Ambient   float64    `yaml:"ambient"`
}

// AssetConfig contains model loading configuration values
type AssetConfig struct {
	// Floor for the largest bounding box side when normalizing, so point models
	// do not divide by zero.
	SizeEpsilon float64 `yaml:"size_epsilon"`
	// Side length of the cube the normalized model fits into.
	NormalizedSize float64 `yaml:"normalized_size"`
	// Index of the animation track played by the frame scheduler.
	AnimationIndex int `yaml:"animation_index"`
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	Overlay bool `yaml:"overlay"` // Draw FPS and camera state
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Config holds general window configuration
type Config struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Global configuration instances
var C *Config
var Camera CameraConfig
var Render RenderConfig
var Light LightConfig
var Asset AssetConfig
var Debug DebugConfig
var Log LogConfig

// Shared RGBA color constants
var (
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	LightGray = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	Overlay   = color.RGBA{R: 0, G: 0, B: 0, A: 150}
)

func init() {
	Reset()
}

// Reset restores every configuration instance to its built-in defaults.
func Reset() {
	C = &Config{
		Width:  720,
		Height: 1280,
		Title:  "Avatar Viewer",
	}

	Camera = CameraConfig{
		DragDegreesPerPixel: 0.5,
		PanUnitsPerPixel:    0.01,
		WheelZoomStep:       1.1,

		MinPitch:    -90,
		MaxPitch:    90,
		MinDistance: 1,
		MaxDistance: 20,

		DefaultYaw:      0,
		DefaultPitch:    0,
		DefaultDistance: 4,

		FieldOfView: 45,
		Near:        0.1,
		Far:         100,

		ResetDuration:     0.4,
		DoubleTapInterval: 300,
		DoubleTapSlop:     24,
	}

	Render = RenderConfig{
		ClearColor:    color.RGBA{R: 26, G: 26, B: 38, A: 255},
		SkyTopColor:   color.RGBA{R: 58, G: 96, B: 160, A: 255},
		SkyHorizon:    color.RGBA{R: 190, G: 205, B: 225, A: 255},
		SkyGround:     color.RGBA{R: 60, G: 58, B: 64, A: 255},
		DefaultColor:  color.RGBA{R: 204, G: 204, B: 204, A: 255},
		CullBackFaces: true,
	}

	Light = LightConfig{
		Direction: [3]float64{-0.4, -1, -0.6},
		Intensity: 0.85,
		Ambient:   0.3,
	}

	Asset = AssetConfig{
		SizeEpsilon:    1e-6,
		NormalizedSize: 2,
		AnimationIndex: 0,
	}

	Debug = DebugConfig{}

	Log = LogConfig{
		Level:       "info",
		Development: true,
	}
}
