package csg

import (
	"fmt"
	"runtime"
)

// DefaultEpsilon is the classification tolerance used when a Config leaves
// Epsilon unset.
const DefaultEpsilon = 1e-8

// DefaultParallelThreshold is the polygon count above which per-polygon work
// is fanned out to workers.
const DefaultParallelThreshold = 200

// Strategy selects how boolean operations avoid running the full BSP
// algorithm on geometry that cannot interact.
type Strategy int

const (
	StrategyPolygonBounds Strategy = iota // clip only polygons overlapping the other solid's box
	StrategySolidBounds                   // shortcut whole solids with disjoint boxes
	StrategyNone                          // always run the full algorithm
)

func (s Strategy) String() string {
	switch s {
	case StrategyPolygonBounds:
		return "polygon-bounds"
	case StrategySolidBounds:
		return "solid-bounds"
	case StrategyNone:
		return "none"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so strategies can be
// written by name in configuration files.
func (s *Strategy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "polygon-bounds", "":
		*s = StrategyPolygonBounds
	case "solid-bounds":
		*s = StrategySolidBounds
	case "none":
		*s = StrategyNone
	default:
		return fmt.Errorf("csg: unknown strategy %q, expected none, solid-bounds or polygon-bounds", text)
	}
	return nil
}

// Config carries every tunable of the kernel. It is a value: each Solid holds
// its own copy, so nothing here is shared mutable state.
type Config struct {
	Epsilon           float64  `toml:"epsilon"`            // classification tolerance
	Strategy          Strategy `toml:"strategy"`           // boolean optimization
	ParallelThreshold int      `toml:"parallel_threshold"` // polygons before fan-out, <0 disables
	Workers           int      `toml:"workers"`            // 0 = GOMAXPROCS
}

// DefaultConfig returns the configuration used by New when none is given.
func DefaultConfig() Config {
	return Config{
		Epsilon:           DefaultEpsilon,
		Strategy:          StrategyPolygonBounds,
		ParallelThreshold: DefaultParallelThreshold,
	}
}

// normalized fills unset fields with defaults.
func (c Config) normalized() Config {
	if c.Epsilon <= 0 {
		c.Epsilon = DefaultEpsilon
	}
	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = DefaultParallelThreshold
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// parallel reports whether n items are worth fanning out.
func (c Config) parallel(n int) bool {
	return c.ParallelThreshold > 0 && n >= c.ParallelThreshold && c.Workers > 1
}
