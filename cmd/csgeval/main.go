// Command csgeval evaluates a modeling script and meshes its parts.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tdewolff/argp"

	"github.com/chazu/bspcsg/pkg/csg"
)

type Eval struct {
	Config   string `short:"c" desc:"TOML configuration file"`
	Kernel   string `short:"k" desc:"Geometry kernel: bsp or sdfx"`
	Strategy string `short:"s" desc:"Boolean strategy: none, solid-bounds or polygon-bounds"`
	Segments int    `desc:"Default segments for spheres and cylinders"`
	Output   string `short:"o" desc:"Write meshes as JSON to this file, - for stdout"`
	Verbose  bool   `short:"v" desc:"Debug logging"`
	Input    string `index:"0" desc:"Script file, - for stdin"`
}

type Check struct {
	Verbose bool   `short:"v" desc:"Debug logging"`
	Input   string `index:"0" desc:"Script file, - for stdin"`
}

func main() {
	root := argp.NewCmd(&Eval{}, "Evaluate CSG scripts with an exact BSP kernel")
	root.AddCmd(&Check{}, "check", "Evaluate and validate a script without meshing")
	root.Parse()
	root.PrintHelp()
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	csg.SetLogger(l)
}

func readInput(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// report prints warnings and errors to stderr and fails when there are
// errors.
func report(input string, res EvalResult) error {
	for _, w := range res.Warnings {
		slog.Warn(w.Message)
	}
	for _, e := range res.Errors {
		if e.Line > 0 {
			fmt.Fprintf(os.Stderr, "ERROR: %s:%d: %s\n", input, e.Line, e.Message)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", input, e.Message)
		}
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%s: %d errors", input, len(res.Errors))
	}
	return nil
}

func (cmd *Check) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	setupLogging(cmd.Verbose)
	source, err := readInput(cmd.Input)
	if err != nil {
		return err
	}
	app, err := NewApp(DefaultConfig())
	if err != nil {
		return err
	}
	res := app.Evaluate(context.Background(), source, false)
	if err := report(cmd.Input, res); err != nil {
		return err
	}
	for _, m := range res.Meshes {
		fmt.Println(m.PartName)
	}
	fmt.Printf("%d parts\n", len(res.Meshes))
	return nil
}

func (cmd *Eval) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	setupLogging(cmd.Verbose)

	cfg, err := LoadConfig(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Kernel != "" {
		cfg.Backend = cmd.Kernel
	}
	if cmd.Strategy != "" {
		if err := cfg.Kernel.Strategy.UnmarshalText([]byte(cmd.Strategy)); err != nil {
			return err
		}
	}
	if cmd.Segments != 0 {
		cfg.Segments = cmd.Segments
	}
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}

	source, err := readInput(cmd.Input)
	if err != nil {
		return err
	}
	res := app.Evaluate(context.Background(), source, true)
	if err := report(cmd.Input, res); err != nil {
		return err
	}

	if cmd.Output == "" {
		printStats(os.Stdout, res)
		return nil
	}
	return writeResult(cmd.Output, res)
}

func printStats(w io.Writer, res EvalResult) {
	fmt.Fprintf(w, "kernel: %s\n", res.Kernel)
	for _, m := range res.Meshes {
		fmt.Fprintf(w, "%s\ttriangles=%d\tvolume=%.6g\n", m.PartName, len(m.Indices)/3, m.Volume)
	}
}

func writeResult(path string, res EvalResult) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := json.NewEncoder(w).Encode(res); err != nil {
		return fmt.Errorf("write meshes: %w", err)
	}
	return nil
}
