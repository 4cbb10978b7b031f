package csg

import (
	"fmt"
	"math"
	"sync/atomic"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is a named set of polygons forming a closed, outward-facing mesh.
// Closedness is the caller's responsibility. Solids are treated as values:
// every operation returns a new Solid and leaves its inputs untouched.
type Solid struct {
	polygons []*Polygon
	name     string
	cfg      Config
	huller   Huller
	bounds   atomic.Pointer[Bounds]
}

// Option configures a Solid created by New.
type Option func(*Solid)

// WithConfig sets the kernel configuration.
func WithConfig(cfg Config) Option {
	return func(s *Solid) { s.cfg = cfg.normalized() }
}

// WithStrategy sets the boolean optimization strategy.
func WithStrategy(st Strategy) Option {
	return func(s *Solid) { s.cfg.Strategy = st }
}

// WithHuller sets the convex hull collaborator. A nil Huller disables Hull;
// solid-bounds differences then run the full algorithm.
func WithHuller(h Huller) Option {
	return func(s *Solid) { s.huller = h }
}

// New returns a solid made of polys.
func New(polys []*Polygon, opts ...Option) *Solid {
	s := &Solid{
		polygons: append([]*Polygon(nil), polys...),
		cfg:      DefaultConfig().normalized(),
		huller:   DefaultHuller,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// derive returns a new solid with s's name, config and huller.
func (s *Solid) derive(polys []*Polygon) *Solid {
	return &Solid{polygons: polys, name: s.name, cfg: s.cfg, huller: s.huller}
}

// Name returns the solid's name.
func (s *Solid) Name() string { return s.name }

// WithName returns a copy of the solid with the given name.
func (s *Solid) WithName(name string) *Solid {
	c := s.derive(s.polygons)
	c.name = name
	return c
}

// Config returns the solid's configuration.
func (s *Solid) Config() Config { return s.cfg }

// Polygons returns a copy of the polygon list. The polygons themselves are
// immutable.
func (s *Solid) Polygons() []*Polygon {
	return append([]*Polygon(nil), s.polygons...)
}

// Len returns the number of polygons.
func (s *Solid) Len() int { return len(s.polygons) }

// SetPolygons replaces the polygon list and resets the cached bounds. It is
// the one mutating operation on a Solid.
func (s *Solid) SetPolygons(polys []*Polygon) {
	s.polygons = append([]*Polygon(nil), polys...)
	s.bounds.Store(nil)
}

// IsEmpty reports whether the solid has no polygons.
func (s *Solid) IsEmpty() bool { return len(s.polygons) == 0 }

// Bounds returns the solid's bounding box, computing it on first use.
func (s *Solid) Bounds() Bounds {
	if b := s.bounds.Load(); b != nil {
		return *b
	}
	var b Bounds
	for _, p := range s.polygons {
		b = b.Union(p.bounds)
	}
	s.bounds.Store(&b)
	return b
}

// Center returns the center of the bounding box.
func (s *Solid) Center() v3.Vec { return s.Bounds().Center() }

// Extents returns the size of the bounding box.
func (s *Solid) Extents() v3.Vec { return s.Bounds().Extents() }

// Volume returns the enclosed volume: the sum of the signed tetrahedra from
// the origin to every face, as an absolute value.
func (s *Solid) Volume() float64 {
	return math.Abs(sumPolygons(s.cfg, s.polygons, (*Polygon).SignedVolume))
}

// Triangles returns the surface fanned into triangles.
func (s *Solid) Triangles() [][3]Vertex {
	var tris [][3]Vertex
	for _, p := range s.polygons {
		tris = append(tris, p.Triangles()...)
	}
	return tris
}

// Clone returns a deep copy of the solid.
func (s *Solid) Clone() *Solid {
	return s.derive(mapPolygons(s.cfg, s.polygons, func(p *Polygon) (*Polygon, bool) {
		return p.Clone(), true
	}))
}

// Inverse returns the complement of the solid: every polygon flipped.
func (s *Solid) Inverse() *Solid {
	return s.derive(mapPolygons(s.cfg, s.polygons, func(p *Polygon) (*Polygon, bool) {
		return p.Flip(), true
	}))
}

// Transform maps every vertex through t. Polygons collapsed by t are
// dropped.
func (s *Solid) Transform(t Transform) *Solid {
	return s.derive(mapPolygons(s.cfg, s.polygons, func(p *Polygon) (*Polygon, bool) {
		return p.Transform(t)
	}))
}

// Translate moves the solid by (x, y, z).
func (s *Solid) Translate(x, y, z float64) *Solid {
	d := v3.Vec{X: x, Y: y, Z: z}
	return s.derive(mapPolygons(s.cfg, s.polygons, func(p *Polygon) (*Polygon, bool) {
		return p.Translate(d), true
	}))
}

// Rotate rotates the solid by Euler angles in degrees, X first.
func (s *Solid) Rotate(x, y, z float64) *Solid {
	return s.Transform(Rotation(x, y, z))
}

// Scale scales the solid along each axis. Negative factors mirror it.
func (s *Solid) Scale(x, y, z float64) *Solid {
	return s.Transform(Scaling(x, y, z))
}

// Mirror reflects the solid across p.
func (s *Solid) Mirror(p Plane) *Solid {
	return s.Transform(Mirroring(p))
}

// Hull returns the convex hull of the vertices of s and others.
func (s *Solid) Hull(others ...*Solid) (*Solid, error) {
	return s.hullOf(append([]*Solid{s}, others...))
}

func (s *Solid) hullOf(solids []*Solid) (*Solid, error) {
	if s.huller == nil {
		return nil, fmt.Errorf("csg: hull: %w", ErrNoHuller)
	}
	var pts []v3.Vec
	for _, o := range solids {
		for _, p := range o.polygons {
			for _, v := range p.verts {
				pts = append(pts, v.Pos)
			}
		}
	}
	polys, err := s.huller.Hull(pts, s.cfg.Epsilon)
	if err != nil {
		return nil, fmt.Errorf("csg: hull of %d points: %w", len(pts), err)
	}
	return s.derive(polys), nil
}

// Union returns the solid covering s and every other solid.
func (s *Solid) Union(others ...*Solid) *Solid {
	r := s
	for _, o := range others {
		r = r.union(o)
	}
	return r
}

// Difference returns s with every other solid cut away. It never fails: a
// cut that cannot be computed degrades to s unchanged.
func (s *Solid) Difference(others ...*Solid) *Solid {
	r := s
	for _, o := range others {
		r = r.difference(o)
	}
	return r
}

// Intersect returns the region common to s and every other solid.
func (s *Solid) Intersect(others ...*Solid) *Solid {
	r := s
	for _, o := range others {
		r = r.intersect(o)
	}
	return r
}

func (s *Solid) overlaps(o *Solid) bool {
	return s.Bounds().Intersects(o.Bounds(), s.cfg.Epsilon)
}

// partition splits s's polygons by whether their boxes touch b.
func (s *Solid) partition(b Bounds) (inner, outer []*Polygon) {
	for _, p := range s.polygons {
		if p.bounds.Intersects(b, s.cfg.Epsilon) {
			inner = append(inner, p)
		} else {
			outer = append(outer, p)
		}
	}
	return inner, outer
}

func (s *Solid) union(o *Solid) *Solid {
	switch {
	case o.IsEmpty():
		return s.derive(s.polygons)
	case s.IsEmpty():
		return s.derive(o.polygons)
	}

	switch s.cfg.Strategy {
	case StrategySolidBounds:
		if !s.overlaps(o) {
			return s.derive(concat(s.polygons, o.polygons))
		}
	case StrategyPolygonBounds:
		inner, outer := s.partition(o.Bounds())
		if len(inner) == 0 {
			return s.derive(concat(s.polygons, o.polygons))
		}
		return s.derive(concat(outer, unionPolygons(s.cfg, inner, o.polygons)))
	}
	return s.derive(unionPolygons(s.cfg, s.polygons, o.polygons))
}

func (s *Solid) intersect(o *Solid) *Solid {
	if s.IsEmpty() || o.IsEmpty() {
		return s.derive(nil)
	}
	if s.cfg.Strategy != StrategyNone && !s.overlaps(o) {
		return s.derive(nil)
	}
	return s.derive(intersectPolygons(s.cfg, s.polygons, o.polygons))
}

// difference subtracts o from s. When the optimized cut fails, typically
// because o is too degenerate to hull, it retries against the intersection
// of s and o, and failing that returns s unchanged.
func (s *Solid) difference(o *Solid) *Solid {
	r, err := s.tryDifference(o)
	if err == nil {
		return r
	}
	log := Logger()
	log.Warn("csg: difference failed, retrying with intersection", "solid", s.name, "err", err)

	common := s.intersect(o)
	if common.IsEmpty() {
		return s.derive(s.polygons)
	}
	r, err = s.tryDifference(common)
	if err != nil {
		log.Warn("csg: difference retry failed, keeping minuend", "solid", s.name, "err", err)
		return s.derive(s.polygons)
	}
	return r
}

func (s *Solid) tryDifference(o *Solid) (*Solid, error) {
	if s.IsEmpty() || o.IsEmpty() {
		return s.derive(s.polygons), nil
	}
	if s.cfg.Strategy != StrategyNone && !s.overlaps(o) {
		return s.derive(s.polygons), nil
	}

	switch s.cfg.Strategy {
	case StrategySolidBounds:
		if s.huller != nil {
			return s.solidBoundsDifference(o)
		}
	case StrategyPolygonBounds:
		inner, outer := s.partition(o.Bounds())
		if len(inner) == 0 {
			return s.derive(s.polygons), nil
		}
		return s.derive(concat(outer, differencePolygons(s.cfg, inner, o.polygons))), nil
	}
	return s.derive(differencePolygons(s.cfg, s.polygons, o.polygons)), nil
}

// solidBoundsDifference confines the cut to the convex hull of o: the part
// of s inside the hull is cut by o, the part outside is kept whole, and the
// two are joined.
func (s *Solid) solidBoundsDifference(o *Solid) (*Solid, error) {
	h, err := s.hullOf([]*Solid{o})
	if err != nil {
		return nil, err
	}
	inside := intersectPolygons(s.cfg, s.polygons, h.polygons)
	if len(inside) == 0 {
		return s.derive(s.polygons), nil
	}
	outside := differencePolygons(s.cfg, s.polygons, h.polygons)
	cut := differencePolygons(s.cfg, inside, o.polygons)
	if len(cut) == 0 {
		return s.derive(outside), nil
	}
	return s.derive(unionPolygons(s.cfg, cut, outside)), nil
}

func concat(a, b []*Polygon) []*Polygon {
	out := make([]*Polygon, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func (s *Solid) String() string {
	return fmt.Sprintf("solid(%q, %d polygons, %v)", s.name, len(s.polygons), s.Bounds())
}
