package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// file mirrors the YAML layout. Sections left out of a file keep their current values.
type file struct {
	Window *Config       `yaml:"window"`
	Camera *CameraConfig `yaml:"camera"`
	Render *RenderConfig `yaml:"render"`
	Light  *LightConfig  `yaml:"light"`
	Asset  *AssetConfig  `yaml:"asset"`
	Debug  *DebugConfig  `yaml:"debug"`
	Log    *LogConfig    `yaml:"log"`
}

// Apply overlays YAML data onto the global configuration instances.
func Apply(data []byte) error {
	f := file{
		Window: C,
		Camera: &Camera,
		Render: &Render,
		Light:  &Light,
		Asset:  &Asset,
		Debug:  &Debug,
		Log:    &Log,
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return Validate()
}

// ApplyFile reads a YAML file and overlays it, see Apply.
func ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return Apply(data)
}

// Validate rejects configurations the camera and loader cannot work with.
func Validate() error {
	if Camera.MinDistance <= 0 || Camera.MaxDistance < Camera.MinDistance {
		return fmt.Errorf("camera distance range [%g, %g] is invalid", Camera.MinDistance, Camera.MaxDistance)
	}
	if Camera.MinPitch > Camera.MaxPitch {
		return fmt.Errorf("camera pitch range [%g, %g] is invalid", Camera.MinPitch, Camera.MaxPitch)
	}
	if Camera.FieldOfView <= 0 || Camera.FieldOfView >= 180 {
		return fmt.Errorf("camera field of view %g is out of (0, 180)", Camera.FieldOfView)
	}
	if Camera.Near <= 0 || Camera.Far <= Camera.Near {
		return fmt.Errorf("camera clip planes near=%g far=%g are invalid", Camera.Near, Camera.Far)
	}
	if Asset.SizeEpsilon <= 0 {
		return fmt.Errorf("asset size epsilon must be positive, got %g", Asset.SizeEpsilon)
	}
	if Asset.NormalizedSize <= 0 {
		return fmt.Errorf("asset normalized size must be positive, got %g", Asset.NormalizedSize)
	}
	return nil
}
