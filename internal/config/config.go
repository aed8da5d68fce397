// Package config handles loading of runtime settings.
package config

// Config holds all settings.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Simulation SimulationConfig `yaml:"simulation"`
	IK         IKConfig         `yaml:"ik"`
	Export     ExportConfig     `yaml:"export"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// SimulationConfig controls the frame loop.
type SimulationConfig struct {
	FPS         float32 `yaml:"fps"`
	Frames      int     `yaml:"frames"`
	MaxSubSteps int     `yaml:"max_sub_steps"`
}

// IKConfig controls the IK solver.
type IKConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ExportConfig holds glTF export settings.
type ExportConfig struct {
	GLTFScale float32 `yaml:"gltf_scale"`
}

// StepSeconds returns the duration of one frame.
func (s *SimulationConfig) StepSeconds() float32 {
	if s.FPS <= 0 {
		return 1.0 / 60.0
	}
	return 1 / s.FPS
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Simulation: SimulationConfig{
			FPS:         60,
			Frames:      1,
			MaxSubSteps: 1,
		},
		IK: IKConfig{
			Enabled: true,
		},
		Export: ExportConfig{
			GLTFScale: 0.08,
		},
	}
}
