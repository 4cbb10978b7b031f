package kernel

import "math"

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which design graph part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// AddTriangle appends an unshared triangle with a flat normal.
func (m *Mesh) AddTriangle(a, b, c, n [3]float64) {
	base := uint32(m.VertexCount())
	for _, p := range [3][3]float64{a, b, c} {
		m.Vertices = append(m.Vertices, float32(p[0]), float32(p[1]), float32(p[2]))
		m.Normals = append(m.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
	}
	m.Indices = append(m.Indices, base, base+1, base+2)
}

// Append merges o into m, offsetting its indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

func (m *Mesh) vertex(i uint32) [3]float64 {
	return [3]float64{
		float64(m.Vertices[3*i]),
		float64(m.Vertices[3*i+1]),
		float64(m.Vertices[3*i+2]),
	}
}

// Volume returns the enclosed volume of a closed, outward-wound mesh.
func (m *Mesh) Volume() float64 {
	var sum float64
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.vertex(m.Indices[t]), m.vertex(m.Indices[t+1]), m.vertex(m.Indices[t+2])
		sum += a[0]*(b[1]*c[2]-b[2]*c[1]) -
			a[1]*(b[0]*c[2]-b[2]*c[0]) +
			a[2]*(b[0]*c[1]-b[1]*c[0])
	}
	return math.Abs(sum / 6)
}

// Bounds returns the axis-aligned bounds of the mesh vertices. An empty
// mesh returns zero vectors.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if m.IsEmpty() {
		return min, max
	}
	for k := range 3 {
		min[k] = math.Inf(1)
		max[k] = math.Inf(-1)
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for k := range 3 {
			v := float64(m.Vertices[i+k])
			min[k] = math.Min(min[k], v)
			max[k] = math.Max(max[k], v)
		}
	}
	return min, max
}
