package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mesh/internal/config"
	"github.com/Faultbox/midgard-mesh/internal/logger"
	"github.com/Faultbox/midgard-mesh/internal/shapes"
	"github.com/Faultbox/midgard-mesh/pkg/field"
	"github.com/Faultbox/midgard-mesh/pkg/formats"
	"github.com/Faultbox/midgard-mesh/pkg/marching"
)

var errUsage = errors.New("missing arguments")

// setup loads the config for a command and starts logging.
func setup(flags *config.Flags) (*config.Config, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.LoggerFile(), true); err != nil {
		return nil, err
	}
	return cfg, nil
}

// generate meshes f with the configured meshers.
func generate(cfg *config.Config, f *field.Field) (*marching.Mesh, error) {
	m, err := cfg.Mesher()
	if err != nil {
		return nil, err
	}

	g := marching.NewGenerator(cfg.GeneratorOptions()...)
	defer g.Close()

	began := time.Now()
	mesh, err := g.Generate(f, m, cfg.Params())
	if err != nil {
		return nil, err
	}
	logger.Info("mesh generated",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("workers", g.Workers()),
		zap.Duration("took", time.Since(began)))
	return mesh, nil
}

func cmdBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	check := fs.Bool("check", false, "Validate the mesh before writing")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: marchmesh build [options] <field.msqf>")
		return errUsage
	}

	cfg, err := setup(flags)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := formats.ParseFieldFile(fs.Arg(0))
	if err != nil {
		return err
	}

	mesh, err := generate(cfg, f)
	if err != nil {
		return err
	}
	if *check {
		if err := mesh.Validate(); err != nil {
			return err
		}
	}

	name := strings.TrimSuffix(filepath.Base(fs.Arg(0)), filepath.Ext(fs.Arg(0)))
	if cfg.Output.Path == "" {
		return formats.WriteOBJ(os.Stdout, mesh, name)
	}
	if err := formats.WriteOBJFile(cfg.Output.Path, mesh, name); err != nil {
		return err
	}
	logger.Info("mesh written", zap.String("path", cfg.Output.Path))
	return nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: marchmesh info [options] <field.msqf>")
		return errUsage
	}

	cfg, err := setup(flags)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := formats.ParseFieldFile(fs.Arg(0))
	if err != nil {
		return err
	}
	s := formats.Summarize(f)

	fmt.Printf("Field:   %s\n", fs.Arg(0))
	fmt.Printf("Samples: %dx%d (%d cells)\n", s.Cols, s.Rows, f.CellCols()*f.CellRows())
	fmt.Printf("Inside:  %d of %d samples\n", s.Inside, f.Len())
	if f.HasHeights() {
		fmt.Printf("Heights: %.3f .. %.3f\n", s.MinHeight, s.MaxHeight)
	}
	if f.HasCulling() {
		fmt.Printf("Culled:  %d cells\n", s.CulledCells)
	}

	mesh, err := generate(cfg, f)
	if err != nil {
		return err
	}
	ms := mesh.Stats()
	fmt.Println()
	fmt.Printf("Mesh (optimization %s):\n", cfg.Mesh.Optimization)
	fmt.Printf("  Vertices:  %d\n", ms.Vertices)
	fmt.Printf("  Triangles: %d\n", ms.Triangles)
	fmt.Printf("  Bounds:    (%.2f, %.2f, %.2f) .. (%.2f, %.2f, %.2f)\n",
		ms.Bounds.Min.X, ms.Bounds.Min.Y, ms.Bounds.Min.Z,
		ms.Bounds.Max.X, ms.Bounds.Max.Y, ms.Bounds.Max.Z)
	return nil
}

func cmdDemo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	shape := fs.String("shape", "blob", "Shape: "+strings.Join(shapes.Names(), ", "))
	cols := fs.Int("cols", 64, "Sample columns")
	rows := fs.Int("rows", 64, "Sample rows")
	ramp := fs.Float64("ramp", 0, "Add heights rising to this value along X")
	steps := fs.Int("steps", 4, "Height levels of the ramp")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: marchmesh demo [options] <out.msqf>")
		return errUsage
	}
	if *cols < 4 || *rows < 4 {
		return fmt.Errorf("demo fields need at least 4x4 samples, got %dx%d", *cols, *rows)
	}

	s, err := shapes.Preset(*shape)
	if err != nil {
		return err
	}
	f := shapes.Fit(s, *cols, *rows)
	if *ramp != 0 {
		shapes.Ramp(f, float32(*ramp), *steps)
	}

	if err := formats.WriteFieldFile(fs.Arg(0), f); err != nil {
		return err
	}
	fmt.Printf("Wrote %s: %dx%d samples, %d inside\n", fs.Arg(0), f.Cols, f.Rows, f.InsideCount())
	return nil
}

func cmdPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	scale := fs.Int("scale", 0, "Pixels per cell (default from config)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: marchmesh preview [options] <field.msqf> <out.bmp>")
		return errUsage
	}

	cfg, err := setup(flags)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if *scale > 0 {
		cfg.Output.PreviewScale = *scale
	}

	f, err := formats.ParseFieldFile(fs.Arg(0))
	if err != nil {
		return err
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		return err
	}
	if err := formats.WritePreviewBMP(out, f, cfg.Output.PreviewScale); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	logger.Info("preview written", zap.String("path", fs.Arg(1)), zap.Int("scale", cfg.Output.PreviewScale))
	return nil
}
