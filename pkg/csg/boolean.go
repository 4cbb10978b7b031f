package csg

// The three BSP boolean forms. The order of the invert and clip steps is
// what keeps shared coplanar faces from being kept twice or lost. An empty
// tree clips nothing, so empty operands are settled before any tree is built.

func unionPolygons(cfg Config, ap, bp []*Polygon) []*Polygon {
	if len(ap) == 0 || len(bp) == 0 {
		return concat(ap, bp)
	}
	a := NewTree(ap, cfg)
	b := NewTree(bp, cfg)
	a.ClipTo(b)
	b.ClipTo(a)
	b.Invert()
	b.ClipTo(a)
	b.Invert()
	a.Build(b.AllPolygons())
	return collect("union", a, b)
}

func differencePolygons(cfg Config, ap, bp []*Polygon) []*Polygon {
	if len(ap) == 0 {
		return nil
	}
	if len(bp) == 0 {
		return concat(ap, nil)
	}
	a := NewTree(ap, cfg)
	b := NewTree(bp, cfg)
	a.Invert()
	a.ClipTo(b)
	b.ClipTo(a)
	b.Invert()
	b.ClipTo(a)
	b.Invert()
	a.Build(b.AllPolygons())
	a.Invert()
	return collect("difference", a, b)
}

func intersectPolygons(cfg Config, ap, bp []*Polygon) []*Polygon {
	if len(ap) == 0 || len(bp) == 0 {
		return nil
	}
	a := NewTree(ap, cfg)
	b := NewTree(bp, cfg)
	a.Invert()
	b.ClipTo(a)
	b.Invert()
	a.ClipTo(b)
	b.ClipTo(a)
	a.Build(b.AllPolygons())
	a.Invert()
	return collect("intersect", a, b)
}

func collect(op string, a, b *Tree) []*Polygon {
	out := a.AllPolygons()
	Logger().Debug("csg: boolean done", "op", op, "nodes", a.Len()+b.Len(), "polygons", len(out))
	return out
}
