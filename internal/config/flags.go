package config

import "flag"

// Flags are the command-line overrides shared by the marchmesh commands.
type Flags struct {
	Config   *string
	Debug    *bool
	Workers  *int
	CellSize *float64
	Optimize *string
	NoWalls  *bool
	Bottom   *bool
	Segments *int
	Output   *string
}

// RegisterFlags defines the override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Config:   fs.String("config", "", "Path to config file"),
		Debug:    fs.Bool("debug", false, "Enable debug logging"),
		Workers:  fs.Int("workers", -1, "Worker goroutines (0 = one per CPU)"),
		CellSize: fs.Float64("cell-size", 0, "World size of one cell"),
		Optimize: fs.String("optimize", "", "Rectangle merging: none, greedy or next-largest"),
		NoWalls:  fs.Bool("no-walls", false, "Skip side walls"),
		Bottom:   fs.Bool("bottom", false, "Add a bottom cap"),
		Segments: fs.Int("segments", 0, "Vertical wall segments"),
		Output:   fs.String("o", "", "Output file (default stdout)"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.Config
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.Debug {
		cfg.Logging.Level = "debug"
	}
	if *f.Workers >= 0 {
		cfg.Workers = *f.Workers
	}
	if *f.CellSize > 0 {
		cfg.Mesh.CellSize = float32(*f.CellSize)
	}
	if *f.Optimize != "" {
		cfg.Mesh.Optimization = *f.Optimize
		cfg.Bottom.Optimization = *f.Optimize
	}
	if *f.NoWalls {
		cfg.Walls.Enabled = false
	}
	if *f.Bottom {
		cfg.Bottom.Enabled = true
	}
	if *f.Segments > 0 {
		cfg.Walls.Segments = *f.Segments
	}
	if *f.Output != "" {
		cfg.Output.Path = *f.Output
	}
}
