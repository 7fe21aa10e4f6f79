package transform

import (
	"math"

	"github.com/shapefit/shapefit/geom"
)

// gridCloud builds a deterministic, irregular cloud of n points.
func gridCloud(n int, offset float64) geom.PointCloud {
	cloud := make(geom.PointCloud, n)
	for i := range cloud {
		t := float64(i)
		cloud[i] = geom.Point{
			math.Cos(t*0.7) + offset,
			math.Sin(t*1.3) + 0.5*offset,
			0.1*t + offset,
		}
	}

	return cloud
}

// stripMesh builds a triangle-strip mesh over a gridCloud.
func stripMesh(n int, offset float64) geom.Mesh {
	faces := make([]geom.Triangle, 0, n-2)
	for i := 0; i+2 < n; i++ {
		faces = append(faces, geom.Triangle{i, i + 1, i + 2})
	}

	return geom.Mesh{Vertices: gridCloud(n, offset), Faces: faces}
}
