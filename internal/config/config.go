// Package config handles planner configuration loading and management.
package config

// Config holds all planner settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Editor   EditorConfig   `yaml:"editor"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// EditorConfig holds interaction tuning.
type EditorConfig struct {
	// GridSnap snaps committed positions to a grid of this pitch in feet.
	// Zero disables snapping.
	GridSnap float32 `yaml:"grid_snap"`
	ShowFPS  bool    `yaml:"show_fps"`
	// ActiveRoom is the room edited on startup; empty picks the first room
	// in the floorplan.
	ActiveRoom string `yaml:"active_room"`
}

// DataConfig holds data file paths.
type DataConfig struct {
	Catalog   string `yaml:"catalog"`   // item catalog YAML
	Floorplan string `yaml:"floorplan"` // floorplan YAML
	Models    string `yaml:"models"`    // mesh file directory
	Database  string `yaml:"database"`  // SQLite home store
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Editor: EditorConfig{
			GridSnap: 0,
			ShowFPS:  false,
		},
		Data: DataConfig{
			Catalog:   "data/items.yaml",
			Floorplan: "data/floorplan.yaml",
			Models:    "data/models",
			Database:  "data/home.db",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
