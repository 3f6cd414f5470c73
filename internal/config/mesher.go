package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mesh/internal/logger"
	"github.com/Faultbox/midgard-mesh/pkg/marching"
)

// Params returns the generation parameters.
func (c *Config) Params() marching.Params {
	return marching.Params{
		CellSize:  c.Mesh.CellSize,
		Exactness: c.Mesh.Exactness,
		UVs:       c.Mesh.UVs,
		Normals:   c.Mesh.Normals,
	}
}

// LoggerFile returns the rotating file settings, or a zero config when no
// log file is set.
func (c *Config) LoggerFile() logger.FileConfig {
	if c.Logging.LogFile == "" {
		return logger.FileConfig{}
	}
	return logger.FileConfig{
		Path:       c.Logging.LogFile,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   true,
	}
}

// GeneratorOptions returns the options for marching.NewGenerator.
func (c *Config) GeneratorOptions() []marching.Option {
	return []marching.Option{
		marching.WithWorkers(c.Workers),
		marching.WithLogger(logger.Named("marching")),
	}
}

// optimization parses a mode name. Unknown names fall back to greedy
// merging with a warning.
func optimization(name string) marching.OptimizationMode {
	mode, err := marching.ParseOptimizationMode(name)
	if err != nil {
		logger.Warn("unknown optimization mode, using greedy rectangles", zap.String("mode", name))
		return marching.OptimizeGreedyRect
	}
	return mode
}

// Mesher builds the top, wall and bottom meshers described by the config.
func (c *Config) Mesher() (*marching.FullCellMesher, error) {
	uv, err := marching.ParseUVMode(c.Mesh.UVMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	top := marching.NewTopMesher(c.Mesh.Height)
	top.UseHeights = c.Mesh.UseHeights
	top.HeightScale = c.Mesh.HeightScale
	top.EdgeOffset = c.Mesh.EdgeOffset
	top.UV = uv
	top.UVScale = c.Mesh.UVScale
	top.Optimization = optimization(c.Mesh.Optimization)

	var side marching.CellMesher = marching.NullMesher{}
	if c.Walls.Enabled {
		w := c.Walls
		var s *marching.SideMesher
		switch {
		case w.Segments > 1:
			s = marching.NewSegmentedSideMesher(c.Mesh.Height, w.Bottom, w.Segments, w.Profile)
			s.TopOffset, s.BottomOffset = w.TopOffset, w.BottomOffset
		case w.TopOffset != 0 || w.BottomOffset != 0:
			s = marching.NewScaledSideMesher(c.Mesh.Height, w.Bottom, w.TopOffset, w.BottomOffset)
		default:
			s = marching.NewSideMesher(c.Mesh.Height, w.Bottom)
		}
		s.Profile = w.Profile
		s.UseHeights = c.Mesh.UseHeights
		s.HeightScale = c.Mesh.HeightScale
		s.UVScale = w.UVScale
		side = s
	}

	var bottom marching.CellMesher = marching.NullMesher{}
	if c.Bottom.Enabled {
		b := marching.NewBottomMesher(c.Bottom.Height)
		b.EdgeOffset = c.Bottom.EdgeOffset
		b.UV = uv
		b.UVScale = c.Mesh.UVScale
		b.Optimization = optimization(c.Bottom.Optimization)
		bottom = b
	}

	return marching.NewFullCellMesher(top, side, bottom), nil
}
