// Package config handles marchmesh configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-mesh/pkg/marching"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all mesh generation settings.
type Config struct {
	Mesh    MeshConfig    `yaml:"mesh"`
	Walls   WallConfig    `yaml:"walls"`
	Bottom  BottomConfig  `yaml:"bottom"`
	Output  OutputConfig  `yaml:"output"`
	Workers int           `yaml:"workers"` // 0 = one per CPU
	Logging LoggingConfig `yaml:"logging"`
}

// MeshConfig holds the top surface and shared generation settings.
type MeshConfig struct {
	CellSize     float32 `yaml:"cell_size"`
	Exactness    float32 `yaml:"exactness"`
	UVs          bool    `yaml:"uvs"`
	Normals      bool    `yaml:"normals"`
	UVMode       string  `yaml:"uv_mode"` // grid or world
	UVScale      float32 `yaml:"uv_scale"`
	Height       float32 `yaml:"height"`
	UseHeights   bool    `yaml:"use_heights"`
	HeightScale  float32 `yaml:"height_scale"`
	EdgeOffset   float32 `yaml:"edge_offset"`
	Optimization string  `yaml:"optimization"` // none, greedy or next-largest
}

// WallConfig holds side wall settings. Walls run from the top height down
// to Bottom.
type WallConfig struct {
	Enabled      bool      `yaml:"enabled"`
	Bottom       float32   `yaml:"bottom"`
	Segments     int       `yaml:"segments"`
	Profile      []float32 `yaml:"profile"`
	TopOffset    float32   `yaml:"top_offset"`
	BottomOffset float32   `yaml:"bottom_offset"`
	UVScale      float32   `yaml:"uv_scale"`
}

// BottomConfig holds the downward-facing cap settings.
type BottomConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Height       float32 `yaml:"height"`
	EdgeOffset   float32 `yaml:"edge_offset"`
	Optimization string  `yaml:"optimization"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	Path         string `yaml:"path"`          // empty = stdout
	PreviewScale int    `yaml:"preview_scale"` // pixels per cell in BMP previews
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			CellSize:     1,
			Exactness:    1,
			UVs:          true,
			Normals:      true,
			UVMode:       "grid",
			UVScale:      1,
			Height:       1,
			HeightScale:  1,
			Optimization: "greedy",
		},
		Walls: WallConfig{
			Enabled:  true,
			Bottom:   0,
			Segments: 1,
			UVScale:  1,
		},
		Bottom: BottomConfig{
			Enabled:      false,
			Height:       0,
			Optimization: "greedy",
		},
		Output: OutputConfig{
			PreviewScale: 8,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Validate checks the values no mesher would accept.
func (c *Config) Validate() error {
	switch {
	case !(c.Mesh.CellSize > 0):
		return fmt.Errorf("%w: mesh.cell_size must be positive, got %v", ErrInvalidConfig, c.Mesh.CellSize)
	case c.Mesh.Exactness < 0 || c.Mesh.Exactness > 1:
		return fmt.Errorf("%w: mesh.exactness must be within [0, 1], got %v", ErrInvalidConfig, c.Mesh.Exactness)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	case c.Walls.Enabled && (c.Walls.Segments < 1 || c.Walls.Segments > marching.MaxSegments):
		return fmt.Errorf("%w: walls.segments must be within [1, %d], got %d",
			ErrInvalidConfig, marching.MaxSegments, c.Walls.Segments)
	case c.Walls.Enabled && c.Walls.Profile != nil && len(c.Walls.Profile) != c.Walls.Segments+1:
		return fmt.Errorf("%w: walls.profile needs %d values for %d segments, got %d",
			ErrInvalidConfig, c.Walls.Segments+1, c.Walls.Segments, len(c.Walls.Profile))
	case c.Output.PreviewScale < 1:
		return fmt.Errorf("%w: output.preview_scale must be at least 1, got %d", ErrInvalidConfig, c.Output.PreviewScale)
	}
	return nil
}
