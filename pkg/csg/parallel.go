package csg

import (
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// chunkSize splits n items into roughly four chunks per worker so uneven
// polygons still balance.
func (c Config) chunkSize(n int) int {
	size := n / (c.Workers * 4)
	if size < 16 {
		size = 16
	}
	return size
}

// mapPolygons applies fn to every polygon, fanning out to workers when the
// list is large. Output order matches input order. Polygons for which fn
// returns false are dropped.
func mapPolygons(c Config, polys []*Polygon, fn func(*Polygon) (*Polygon, bool)) []*Polygon {
	if !c.parallel(len(polys)) {
		out := make([]*Polygon, 0, len(polys))
		for _, p := range polys {
			if q, ok := fn(p); ok {
				out = append(out, q)
			}
		}
		return out
	}

	chunks := lo.Chunk(polys, c.chunkSize(len(polys)))
	results := make([][]*Polygon, len(chunks))
	var g errgroup.Group
	g.SetLimit(c.Workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			out := make([]*Polygon, 0, len(chunk))
			for _, p := range chunk {
				if q, ok := fn(p); ok {
					out = append(out, q)
				}
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait() // workers never fail
	return lo.Flatten(results)
}

// sumPolygons adds up fn over every polygon, in parallel for large lists.
func sumPolygons(c Config, polys []*Polygon, fn func(*Polygon) float64) float64 {
	if !c.parallel(len(polys)) {
		var sum float64
		for _, p := range polys {
			sum += fn(p)
		}
		return sum
	}

	chunks := lo.Chunk(polys, c.chunkSize(len(polys)))
	partial := make([]float64, len(chunks))
	var g errgroup.Group
	g.SetLimit(c.Workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			for _, p := range chunk {
				partial[i] += fn(p)
			}
			return nil
		})
	}
	_ = g.Wait()
	return lo.Sum(partial)
}

// splitPolygons splits every polygon against plane. Large lists are split in
// chunks, each filling its own buckets; the buckets are merged in chunk
// order once every chunk is done, so no two workers ever append to the same
// slice.
func splitPolygons(c Config, plane Plane, polys []*Polygon) splitBuckets {
	var out splitBuckets
	if !c.parallel(len(polys)) {
		for _, p := range polys {
			plane.splitInto(p, c.Epsilon, &out)
		}
		return out
	}

	chunks := lo.Chunk(polys, c.chunkSize(len(polys)))
	local := make([]splitBuckets, len(chunks))
	var g errgroup.Group
	g.SetLimit(c.Workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			for _, p := range chunk {
				plane.splitInto(p, c.Epsilon, &local[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	for _, b := range local {
		out.merge(b)
	}
	return out
}
