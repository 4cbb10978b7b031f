package main

import (
	"context"
	"log/slog"

	"github.com/chazu/bspcsg/pkg/engine"
	"github.com/chazu/bspcsg/pkg/kernel"
	"github.com/chazu/bspcsg/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the script pipeline: source, design graph, meshes.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	opts   tessellate.Options
}

// MeshData is the JSON mesh format written by the CLI.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
	Volume   float64   `json:"volume"`
}

// EvalErrorData is a JSON eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full JSON result of one evaluation.
type EvalResult struct {
	Kernel   string          `json:"kernel"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App from the configuration.
func NewApp(cfg Config) (*App, error) {
	k, err := cfg.NewKernel()
	if err != nil {
		return nil, err
	}
	eng := engine.NewEngine()
	eng.Timeout = cfg.Timeout.Duration
	return &App{
		engine: eng,
		kernel: k,
		opts:   tessellate.Options{Segments: cfg.Segments, Workers: cfg.Kernel.Workers},
	}, nil
}

// Evaluate takes Lisp source and returns mesh data plus errors. When
// mesh is false the script is only evaluated and validated.
func (a *App) Evaluate(ctx context.Context, source string, mesh bool) EvalResult {
	result := EvalResult{
		Kernel:   a.kernel.Name(),
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	res, err := a.engine.EvaluateResult(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		slog.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}
	if !mesh {
		for i, p := range res.Graph.Parts() {
			result.Meshes = append(result.Meshes, MeshData{
				PartName: p.Name,
				Color:    colorPalette[i%len(colorPalette)],
			})
		}
		return result
	}

	meshes, err := tessellate.TessellateContext(ctx, res.Graph, a.kernel, a.opts)
	if err != nil {
		slog.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
			Volume:   m.Volume(),
		})
	}
	return result
}
