// Package geom defines the geometric value types flowing through shapefit
// pipelines: 3D points, point clouds and triangle meshes.
//
// These types are plain data. The transform steps consume and produce them but
// never mutate a caller-owned value in place; operations that need a modified
// copy allocate one.
package geom

import "math"

// Point is a position in 3D space.
type Point [3]float64

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p[0] - q[0], p[1] - q[1], p[2] - q[2]}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p[0] + q[0], p[1] + q[1], p[2] + q[2]}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{p[0] * s, p[1] * s, p[2] * s}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := p[0] - q[0]
	dy := p[1] - q[1]
	dz := p[2] - q[2]

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PointCloud is an ordered sequence of 3D points. After registration, clouds
// in one collection are mutually correspondent: point i of every cloud refers
// to the same anatomical/structural location.
type PointCloud []Point

// Clone returns a deep copy of the cloud.
func (c PointCloud) Clone() PointCloud {
	out := make(PointCloud, len(c))
	copy(out, c)

	return out
}

// Centroid returns the mean position of the cloud. It returns the zero point
// for an empty cloud.
func (c PointCloud) Centroid() Point {
	if len(c) == 0 {
		return Point{}
	}

	var sum Point
	for _, p := range c {
		sum = sum.Add(p)
	}

	return sum.Scale(1.0 / float64(len(c)))
}

// Triangle indexes three vertices of a mesh.
type Triangle [3]int

// Mesh is a triangle mesh: ordered vertex positions plus connectivity.
// Connectivity is consumed and re-attached by the transform steps, never
// modified.
type Mesh struct {
	Vertices PointCloud
	Faces    []Triangle
}

// Clone returns a deep copy of the mesh.
func (m Mesh) Clone() Mesh {
	faces := make([]Triangle, len(m.Faces))
	copy(faces, m.Faces)

	return Mesh{Vertices: m.Vertices.Clone(), Faces: faces}
}

// NumVertices returns the number of vertices in the mesh.
func (m Mesh) NumVertices() int {
	return len(m.Vertices)
}
