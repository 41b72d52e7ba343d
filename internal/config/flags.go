package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagFloorplan  = flag.String("floorplan", "", "Path to floorplan YAML")
	flagCatalog    = flag.String("catalog", "", "Path to item catalog YAML")
	flagDatabase   = flag.String("db", "", "Path to the home store database")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
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
		cfg.Editor.ShowFPS = true
	}
	if *flagFloorplan != "" {
		cfg.Data.Floorplan = *flagFloorplan
	}
	if *flagCatalog != "" {
		cfg.Data.Catalog = *flagCatalog
	}
	if *flagDatabase != "" {
		cfg.Data.Database = *flagDatabase
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
