package model

import (
	"fmt"

	"github.com/shapefit/shapefit/errs"
)

// Volume is a dense 3D scalar volume indexed [i][j][k].
type Volume [][][]float64

// Dims returns the extents of the volume along its three axes.
func (v Volume) Dims() [3]int {
	if len(v) == 0 || len(v[0]) == 0 {
		return [3]int{len(v), 0, 0}
	}

	return [3]int{len(v), len(v[0]), len(v[0][0])}
}

// SliceAt extracts the 2D slice with the given axis fixed at index.
func (v Volume) SliceAt(axis, index int) ([][]float64, error) {
	dims := v.Dims()
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("%w: axis %d outside [0, 3)", errs.ErrShapeMismatch, axis)
	}
	if index < 0 || index >= dims[axis] {
		return nil, fmt.Errorf("%w: index %d outside axis %d extent %d", errs.ErrShapeMismatch, index, axis, dims[axis])
	}

	var out [][]float64
	switch axis {
	case 0:
		out = make([][]float64, dims[1])
		for j := range out {
			row := make([]float64, dims[2])
			copy(row, v[index][j])
			out[j] = row
		}
	case 1:
		out = make([][]float64, dims[0])
		for i := range out {
			row := make([]float64, dims[2])
			copy(row, v[i][index])
			out[i] = row
		}
	case 2:
		out = make([][]float64, dims[0])
		for i := range out {
			row := make([]float64, dims[1])
			for j := range row {
				row[j] = v[i][j][index]
			}
			out[i] = row
		}
	}

	return out, nil
}

// MRISliceLookup is a Model over a list of volumes: Predict([index, i0, i1,
// i2]) returns one orthogonal slice per configured axis, taken from volume
// index-Base, all zero-padded to a common width and height so downstream
// stacking sees uniform shapes.
type MRISliceLookup struct {
	Data     []Volume
	Base     int
	Ordering [3]int
}

var _ Model = (*MRISliceLookup)(nil)

// NewMRISliceLookup creates a slice lookup with the default axis ordering
// {0, 1, 2} and index base 1.
func NewMRISliceLookup(data []Volume) *MRISliceLookup {
	return &MRISliceLookup{Data: data, Base: 1, Ordering: [3]int{0, 1, 2}}
}

// Predict extracts and pads the orthogonal slices for one volume.
func (l *MRISliceLookup) Predict(x any) (any, error) {
	idxs, ok := x.([]int)
	if !ok || len(idxs) < 2 {
		return nil, fmt.Errorf("%w: want [volume index, slice indices...], got %T", errs.ErrShapeMismatch, x)
	}

	vi := idxs[0] - l.Base
	if vi < 0 || vi >= len(l.Data) {
		return nil, fmt.Errorf("%w: volume index %d outside [%d, %d)", errs.ErrShapeMismatch, idxs[0], l.Base, l.Base+len(l.Data))
	}
	volume := l.Data[vi]

	sliceIdxs := idxs[1:]
	if len(sliceIdxs) > 3 {
		sliceIdxs = sliceIdxs[:3]
	}

	slices := make([][][]float64, len(sliceIdxs))
	for n, si := range sliceIdxs {
		s, err := volume.SliceAt(l.Ordering[n], si)
		if err != nil {
			return nil, err
		}
		slices[n] = s
	}

	padToCommonShape(slices)

	return slices, nil
}

// padToCommonShape zero-pads each slice, centered, up to the maximum width
// and height across the set.
func padToCommonShape(slices [][][]float64) {
	width, height := 0, 0
	for _, s := range slices {
		if len(s) > width {
			width = len(s)
		}
		if len(s) > 0 && len(s[0]) > height {
			height = len(s[0])
		}
	}

	for n, s := range slices {
		if len(s) < width {
			diff := width - len(s)
			top := diff / 2
			padded := make([][]float64, width)
			for i := range padded {
				if i >= top && i-top < len(s) {
					padded[i] = s[i-top]
				} else {
					padded[i] = make([]float64, len(s[0]))
				}
			}
			s = padded
		}
		if len(s) > 0 && len(s[0]) < height {
			diff := height - len(s[0])
			left := diff / 2
			for i, row := range s {
				padded := make([]float64, height)
				copy(padded[left:], row)
				s[i] = padded
			}
		}
		slices[n] = s
	}
}
