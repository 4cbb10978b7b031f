package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chazu/bspcsg/pkg/csg"
	"github.com/chazu/bspcsg/pkg/kernel"
	"github.com/chazu/bspcsg/pkg/kernel/bsp"
	"github.com/chazu/bspcsg/pkg/kernel/sdfx"
)

// Config is the TOML configuration file:
//
//	backend = "bsp"
//	segments = 32
//	timeout = "10s"
//	mesh_cells = 200
//
//	[kernel]
//	epsilon = 1e-8
//	strategy = "solid-bounds"
//	parallel_threshold = 512
//	workers = 4
type Config struct {
	Backend   string     `toml:"backend"`
	Segments  int        `toml:"segments"`
	Timeout   duration   `toml:"timeout"`
	MeshCells int        `toml:"mesh_cells"`
	Kernel    csg.Config `toml:"kernel"`
}

// duration decodes TOML strings such as "5s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the settings used without a configuration file.
func DefaultConfig() Config {
	return Config{
		Backend: "bsp",
		Kernel:  csg.DefaultConfig(),
	}
}

// LoadConfig reads path over the defaults. Unknown keys are an error so
// that typos do not pass silently.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// NewKernel builds the configured backend.
func (c Config) NewKernel() (kernel.Kernel, error) {
	switch c.Backend {
	case "", "bsp":
		return bsp.New(csg.WithConfig(c.Kernel)), nil
	case "sdfx":
		return sdfx.New(c.MeshCells), nil
	}
	return nil, fmt.Errorf("unknown kernel %q, expected bsp or sdfx", c.Backend)
}
