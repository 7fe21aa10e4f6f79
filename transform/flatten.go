package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/geom"
	"github.com/shapefit/shapefit/pipeline"
)

// Flatten stacks a collection of per-object point clouds into one matrix and
// flattens everything but the leading per-object axis: a collection of N
// clouds with k points each becomes an N x 3k matrix, row i holding the
// x,y,z coordinates of cloud i in point order. The inverse reverses both
// steps exactly using the point count stored at fit time.
type Flatten struct{}

var _ pipeline.Step = (*Flatten)(nil)

// NewFlatten creates the stack-and-flatten step.
func NewFlatten() *Flatten {
	return &Flatten{}
}

// Fit records the common per-object point count, failing on collections whose
// members disagree.
func (s *Flatten) Fit(data any) (pipeline.FittedStep, error) {
	clouds, ok := data.([]geom.PointCloud)
	if !ok {
		return nil, fmt.Errorf("%w: want []geom.PointCloud, got %T", errs.ErrShapeMismatch, data)
	}
	if len(clouds) == 0 || len(clouds[0]) == 0 {
		return nil, fmt.Errorf("%w: nothing to stack", errs.ErrEmptyInput)
	}

	k := len(clouds[0])
	for i, c := range clouds {
		if len(c) != k {
			return nil, fmt.Errorf("%w: cloud %d has %d points, cloud 0 has %d", errs.ErrShapeMismatch, i, len(c), k)
		}
	}

	return &FittedFlatten{PointCount: k}, nil
}

// FittedFlatten stores the per-object shape needed for the exact inverse.
type FittedFlatten struct {
	PointCount int
}

var (
	_ pipeline.FittedStep = (*FittedFlatten)(nil)
	_ pipeline.Inverter   = (*FittedFlatten)(nil)
)

// Transform stacks and flattens the collection into an N x 3k matrix.
func (f *FittedFlatten) Transform(data any) (any, error) {
	clouds, ok := data.([]geom.PointCloud)
	if !ok {
		return nil, fmt.Errorf("%w: want []geom.PointCloud, got %T", errs.ErrShapeMismatch, data)
	}
	if len(clouds) == 0 {
		return nil, fmt.Errorf("%w: nothing to stack", errs.ErrEmptyInput)
	}

	out := mat.NewDense(len(clouds), 3*f.PointCount, nil)
	for i, c := range clouds {
		if len(c) != f.PointCount {
			return nil, fmt.Errorf("%w: cloud %d has %d points, fitted shape is %d", errs.ErrShapeMismatch, i, len(c), f.PointCount)
		}
		for j, p := range c {
			out.Set(i, 3*j, p[0])
			out.Set(i, 3*j+1, p[1])
			out.Set(i, 3*j+2, p[2])
		}
	}

	return out, nil
}

// Inverse splits each matrix row back into a point cloud of the fitted shape.
// The round trip through Transform is exact.
func (f *FittedFlatten) Inverse(data any) (any, error) {
	m, err := asDense(data)
	if err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	if cols != 3*f.PointCount {
		return nil, fmt.Errorf("%w: %d columns cannot unflatten into %d points", errs.ErrShapeMismatch, cols, f.PointCount)
	}

	clouds := make([]geom.PointCloud, rows)
	for i := range clouds {
		c := make(geom.PointCloud, f.PointCount)
		for j := range c {
			c[j] = geom.Point{m.At(i, 3*j), m.At(i, 3*j+1), m.At(i, 3*j+2)}
		}
		clouds[i] = c
	}

	return clouds, nil
}
