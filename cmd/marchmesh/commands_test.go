package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/midgard-mesh/pkg/formats"
)

func TestDemoBuildPreview(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	fieldPath := filepath.Join(dir, "ring.msqf")
	objPath := filepath.Join(dir, "ring.obj")
	bmpPath := filepath.Join(dir, "ring.bmp")

	if err := cmdDemo([]string{"-shape", "ring", "-cols", "24", "-rows", "20", "-ramp", "2", fieldPath}); err != nil {
		t.Fatalf("demo failed: %v", err)
	}
	f, err := formats.ParseFieldFile(fieldPath)
	if err != nil {
		t.Fatalf("demo wrote an unreadable field: %v", err)
	}
	if f.Cols != 24 || f.Rows != 20 || !f.HasHeights() {
		t.Errorf("unexpected demo field %dx%d heights=%v", f.Cols, f.Rows, f.HasHeights())
	}

	if err := cmdBuild([]string{"-check", "-bottom", "-optimize", "next-largest", "-workers", "2", "-o", objPath, fieldPath}); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	obj, err := os.ReadFile(objPath)
	if err != nil {
		t.Fatalf("build wrote no obj: %v", err)
	}
	if !strings.Contains(string(obj), "o ring\n") || !strings.Contains(string(obj), "\nf ") {
		t.Errorf("obj output lacks object or faces:\n%.200s", obj)
	}

	if err := cmdPreview([]string{"-scale", "2", fieldPath, bmpPath}); err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if st, err := os.Stat(bmpPath); err != nil || st.Size() == 0 {
		t.Errorf("preview not written: %v", err)
	}
}

func TestCommandsRequireArguments(t *testing.T) {
	for name, cmd := range map[string]func([]string) error{
		"build":   cmdBuild,
		"info":    cmdInfo,
		"demo":    cmdDemo,
		"preview": cmdPreview,
	} {
		if err := cmd(nil); err != errUsage {
			t.Errorf("%s without arguments returned %v", name, err)
		}
	}
}
