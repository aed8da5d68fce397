package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Write logs to this file")
	flagFPS     = flag.Float64("fps", 0, "Simulation frames per second")
	flagFrames  = flag.Int("frames", 0, "Number of frames to update")
	flagNoIK    = flag.Bool("no-ik", false, "Disable the IK solver")
	flagScale   = flag.Float64("scale", 0, "glTF export scale")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagFPS > 0 {
		cfg.Simulation.FPS = float32(*flagFPS)
	}
	if *flagFrames > 0 {
		cfg.Simulation.Frames = *flagFrames
	}
	if *flagNoIK {
		cfg.IK.Enabled = false
	}
	if *flagScale > 0 {
		cfg.Export.GLTFScale = float32(*flagScale)
	}
}
