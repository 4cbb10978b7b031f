package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chazu/bspcsg/pkg/csg"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "csgeval.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Backend != "bsp" {
		t.Errorf("Backend = %q, want bsp", cfg.Backend)
	}
	if cfg.Kernel != csg.DefaultConfig() {
		t.Errorf("Kernel = %+v, want defaults", cfg.Kernel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
backend = "sdfx"
segments = 24
timeout = "250ms"
mesh_cells = 80

[kernel]
epsilon = 1e-6
strategy = "solid-bounds"
workers = 3
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Backend != "sdfx" || cfg.Segments != 24 || cfg.MeshCells != 80 {
		t.Errorf("unexpected top-level settings %+v", cfg)
	}
	if cfg.Timeout.Duration != 250*time.Millisecond {
		t.Errorf("Timeout = %s, want 250ms", cfg.Timeout.Duration)
	}
	if cfg.Kernel.Epsilon != 1e-6 || cfg.Kernel.Strategy != csg.StrategySolidBounds || cfg.Kernel.Workers != 3 {
		t.Errorf("Kernel = %+v", cfg.Kernel)
	}
	// Keys not in the file keep their defaults.
	if cfg.Kernel.ParallelThreshold != csg.DefaultConfig().ParallelThreshold {
		t.Errorf("ParallelThreshold = %d, want default", cfg.Kernel.ParallelThreshold)
	}

	k, err := cfg.NewKernel()
	if err != nil {
		t.Fatalf("NewKernel() error = %v", err)
	}
	if k.Name() != "sdfx" {
		t.Errorf("kernel = %s, want sdfx", k.Name())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", `colour = "red"`, "unknown key"},
		{"bad strategy", "[kernel]\nstrategy = \"fastest\"", "unknown strategy"},
		{"bad timeout", `timeout = "soon"`, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := (Config{Backend: "manifold"}).NewKernel(); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestEvaluateScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.csg")
	script := `(defpart "plate" (difference (box 4 4 1) (translate (cube 2) 1 1 -0.5)))`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "out.json")
	cmd := &Eval{Input: path, Output: out}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte(`"partName":"plate"`)) {
		t.Errorf("output missing part name: %.200s", b)
	}

	var stats bytes.Buffer
	printStats(&stats, EvalResult{Kernel: "bsp", Meshes: []MeshData{{PartName: "empty"}}})
	if !strings.Contains(stats.String(), "kernel: bsp") || !strings.Contains(stats.String(), "empty") {
		t.Errorf("unexpected stats %q", stats.String())
	}
}
