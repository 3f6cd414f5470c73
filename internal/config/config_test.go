package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Faultbox/midgard-mesh/pkg/field"
	"github.com/Faultbox/midgard-mesh/pkg/marching"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Mesh.CellSize != 1 {
		t.Errorf("expected cell size 1, got %v", cfg.Mesh.CellSize)
	}
	if cfg.Mesh.Exactness != 1 {
		t.Errorf("expected exactness 1, got %v", cfg.Mesh.Exactness)
	}
	if !cfg.Mesh.UVs || !cfg.Mesh.Normals {
		t.Error("expected uvs and normals enabled by default")
	}
	if cfg.Mesh.Optimization != "greedy" {
		t.Errorf("expected greedy optimization, got %s", cfg.Mesh.Optimization)
	}
	if !cfg.Walls.Enabled || cfg.Walls.Segments != 1 {
		t.Errorf("expected single-segment walls, got %+v", cfg.Walls)
	}
	if cfg.Bottom.Enabled {
		t.Error("expected bottom cap disabled by default")
	}
	if cfg.Workers != 0 {
		t.Errorf("expected 0 workers (one per CPU), got %d", cfg.Workers)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)

	yamlContent := `
mesh:
  cell_size: 0.5
  exactness: 0.75
  uv_mode: world
  use_heights: true
  height_scale: 2
  optimization: next-largest

walls:
  segments: 4
  profile: [0, 0.1, 0.2, 0.1, 0]

bottom:
  enabled: true
  height: -1

workers: 3

logging:
  level: "debug"
  log_file: "mesh.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Mesh.CellSize != 0.5 {
		t.Errorf("expected cell size 0.5, got %v", cfg.Mesh.CellSize)
	}
	if cfg.Mesh.Exactness != 0.75 {
		t.Errorf("expected exactness 0.75, got %v", cfg.Mesh.Exactness)
	}
	if cfg.Mesh.UVMode != "world" {
		t.Errorf("expected world uvs, got %s", cfg.Mesh.UVMode)
	}
	if !cfg.Mesh.UseHeights || cfg.Mesh.HeightScale != 2 {
		t.Errorf("expected heights scaled by 2, got %+v", cfg.Mesh)
	}
	if cfg.Walls.Segments != 4 || len(cfg.Walls.Profile) != 5 {
		t.Errorf("unexpected walls %+v", cfg.Walls)
	}
	if !cfg.Walls.Enabled {
		t.Error("walls should keep their default when not set")
	}
	if !cfg.Bottom.Enabled || cfg.Bottom.Height != -1 {
		t.Errorf("unexpected bottom %+v", cfg.Bottom)
	}
	if cfg.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Workers)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "mesh.log" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := map[string]string{
		"bad value":   "mesh:\n  cell_size: wide\n",
		"bad syntax":  "mesh:\n  cell_size: 1\n invalid syntax here\n",
		"unknown key": "mesh:\n  cellsize: 2\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load, got %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Error("empty file changed the defaults")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/marchmesh.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "no flags",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if !reflect.DeepEqual(cfg, Default()) {
					t.Errorf("config changed without flags: %+v", cfg)
				}
			},
		},
		{
			name: "debug",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "workers zero",
			args: []string{"-workers", "0"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Workers != 0 {
					t.Errorf("expected 0 workers, got %d", cfg.Workers)
				}
			},
		},
		{
			name: "geometry",
			args: []string{"-cell-size", "0.25", "-optimize", "next-largest", "-segments", "3"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Mesh.CellSize != 0.25 {
					t.Errorf("expected cell size 0.25, got %v", cfg.Mesh.CellSize)
				}
				if cfg.Mesh.Optimization != "next-largest" || cfg.Bottom.Optimization != "next-largest" {
					t.Errorf("expected next-largest everywhere, got %s and %s", cfg.Mesh.Optimization, cfg.Bottom.Optimization)
				}
				if cfg.Walls.Segments != 3 {
					t.Errorf("expected 3 segments, got %d", cfg.Walls.Segments)
				}
			},
		},
		{
			name: "parts",
			args: []string{"-no-walls", "-bottom", "-o", "out.obj"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Walls.Enabled || !cfg.Bottom.Enabled {
					t.Errorf("expected walls off and bottom on, got %v and %v", cfg.Walls.Enabled, cfg.Bottom.Enabled)
				}
				if cfg.Output.Path != "out.obj" {
					t.Errorf("expected output out.obj, got %s", cfg.Output.Path)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			flags := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}

			cfg := Default()
			flags.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	yamlContent := `
mesh:
  cell_size: 2
  height: 3
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-cell-size", "4"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Mesh.CellSize != 4 {
		t.Errorf("expected cell size 4 from flag, got %v", cfg.Mesh.CellSize)
	}
	if cfg.Mesh.Height != 3 {
		t.Errorf("expected height 3 from file, got %v", cfg.Mesh.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("mesh:\n  exactness: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	if _, err := Load(flags); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"cell size", func(c *Config) { c.Mesh.CellSize = 0 }},
		{"exactness", func(c *Config) { c.Mesh.Exactness = -0.1 }},
		{"workers", func(c *Config) { c.Workers = -2 }},
		{"segments", func(c *Config) { c.Walls.Segments = 0 }},
		{"too many segments", func(c *Config) { c.Walls.Segments = marching.MaxSegments + 1 }},
		{"profile length", func(c *Config) { c.Walls.Profile = []float32{0, 0.1, 0.2} }},
		{"preview scale", func(c *Config) { c.Output.PreviewScale = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Walls.Profile = []float32{0, 0.5, 0}
	cfg.Walls.Segments = 2
	cfg.Mesh.Optimization = "next-largest"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Errorf("reloaded config differs:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestMesher(t *testing.T) {
	cfg := Default()
	cfg.Walls.Segments = 3
	cfg.Bottom.Enabled = true
	cfg.Bottom.Optimization = "spiral"

	m, err := cfg.Mesher()
	if err != nil {
		t.Fatalf("Mesher failed: %v", err)
	}

	top, ok := m.Top.(*marching.SurfaceMesher)
	if !ok {
		t.Fatalf("expected surface top, got %T", m.Top)
	}
	if top.Optimization != marching.OptimizeGreedyRect || top.Height != 1 {
		t.Errorf("unexpected top %+v", top)
	}

	side, ok := m.Side.(*marching.SideMesher)
	if !ok {
		t.Fatalf("expected side walls, got %T", m.Side)
	}
	if side.Segments != 3 || side.Top != 1 || side.Bottom != 0 {
		t.Errorf("unexpected side %+v", side)
	}

	bottom, ok := m.Bottom.(*marching.SurfaceMesher)
	if !ok {
		t.Fatalf("expected surface bottom, got %T", m.Bottom)
	}
	if bottom.Winding != marching.WindingReversed {
		t.Error("bottom should face down")
	}
	if bottom.Optimization != marching.OptimizeGreedyRect {
		t.Errorf("unknown mode should fall back to greedy, got %v", bottom.Optimization)
	}
}

func TestMesherSingleQuadProfile(t *testing.T) {
	f := field.New(3, 3)
	f.Fill(1)
	f.Set(1, 1, -1)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"plain", func(c *Config) {}},
		{"scaled", func(c *Config) { c.Walls.TopOffset = 0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Walls.Profile = []float32{0, 0.2}
			tt.mutate(cfg)
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate failed: %v", err)
			}

			m, err := cfg.Mesher()
			if err != nil {
				t.Fatalf("Mesher failed: %v", err)
			}
			side := m.Side.(*marching.SideMesher)
			if side.Segments != 1 || len(side.Profile) != 2 {
				t.Errorf("unexpected side %+v", side)
			}
			if _, err := marching.Generate(f, m, cfg.Params()); err != nil {
				t.Errorf("Generate failed: %v", err)
			}
		})
	}
}

func TestMesherWithoutWalls(t *testing.T) {
	cfg := Default()
	cfg.Walls.Enabled = false
	m, err := cfg.Mesher()
	if err != nil {
		t.Fatalf("Mesher failed: %v", err)
	}
	if _, ok := m.Side.(marching.NullMesher); !ok {
		t.Errorf("expected null walls, got %T", m.Side)
	}

	cfg.Mesh.UVMode = "cylinder"
	if _, err := cfg.Mesher(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for bad uv mode, got %v", err)
	}
}

func TestParams(t *testing.T) {
	cfg := Default()
	cfg.Mesh.CellSize = 0.5
	cfg.Mesh.Normals = false

	want := marching.Params{CellSize: 0.5, Exactness: 1, UVs: true, Normals: false}
	if got := cfg.Params(); got != want {
		t.Errorf("Params() = %+v, want %+v", got, want)
	}
}
