package transform

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/geom"
	"github.com/shapefit/shapefit/internal/options"
	"github.com/shapefit/shapefit/pipeline"
)

// DefaultNeighborCount is the default k for neighbourhood averaging.
const DefaultNeighborCount = 10

// DefaultSmoothingFactor is the default weight moved from a point onto the
// mean of its neighbours. Any factor below 0.5 keeps the averaging operator
// strictly diagonally dominant, so the linear system solved by Inverse is
// invertible for every neighbourhood configuration, including evenly spaced
// clouds whose boundary points share identical neighbour sets.
const DefaultSmoothingFactor = 0.4

// Smoother is the registered point-cloud smoothing step. Fitting establishes,
// once, the registration reference (the first training cloud) and the
// per-point neighbourhoods used for averaging; both are reused verbatim on
// every later call. Recomputing correspondences per call would silently
// change results between calls, so it never happens after fit.
//
// The forward pass registers an incoming cloud against the reference when its
// point count differs (nearest-neighbour correspondence, producing a cloud in
// reference ordering) and then moves every point toward the mean of its fixed
// neighbourhood by the smoothing factor. The inverse pass solves the linear
// smoothing system to undo the averaging.
type Smoother struct {
	neighbors int
	factor    float64
}

var _ pipeline.Step = (*Smoother)(nil)

// SmootherOption is a functional option for Smoother.
type SmootherOption = options.Option[*Smoother]

// WithNeighbors sets the neighbour count used for averaging. The count is
// clamped to the reference size at fit time.
func WithNeighbors(k int) SmootherOption {
	return options.New(func(s *Smoother) error {
		if k <= 0 {
			return fmt.Errorf("%w: neighbor count must be positive, got %d", errs.ErrInvalidConfig, k)
		}
		s.neighbors = k

		return nil
	})
}

// WithSmoothingFactor sets the weight moved onto the neighbourhood mean. The
// factor must stay in (0, 0.5); at 0.5 and above the averaging operator can
// become singular and the inverse pass would no longer recover the input.
func WithSmoothingFactor(f float64) SmootherOption {
	return options.New(func(s *Smoother) error {
		if f <= 0 || f >= 0.5 {
			return fmt.Errorf("%w: smoothing factor must be in (0, 0.5), got %g", errs.ErrInvalidConfig, f)
		}
		s.factor = f

		return nil
	})
}

// NewSmoother creates a smoothing step with DefaultNeighborCount neighbours
// and DefaultSmoothingFactor unless overridden.
func NewSmoother(opts ...SmootherOption) (*Smoother, error) {
	s := &Smoother{neighbors: DefaultNeighborCount, factor: DefaultSmoothingFactor}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Fit builds the registration reference and the fixed neighbourhood sets from
// the training collection.
func (s *Smoother) Fit(data any) (pipeline.FittedStep, error) {
	clouds, ok := data.([]geom.PointCloud)
	if !ok {
		return nil, fmt.Errorf("%w: want []geom.PointCloud, got %T", errs.ErrShapeMismatch, data)
	}
	if len(clouds) == 0 || len(clouds[0]) == 0 {
		return nil, fmt.Errorf("%w: no points to fit smoothing on", errs.ErrEmptyInput)
	}

	ref := clouds[0].Clone()
	n := len(ref)

	k := s.neighbors
	if k > n-1 {
		k = n - 1
	}

	neighbors := make([][]int, n)
	for i := range ref {
		neighbors[i] = nearestIndices(ref, i, k)
	}

	return &FittedSmoother{Reference: ref, Neighbors: neighbors, Factor: s.factor}, nil
}

// nearestIndices returns point i followed by the indices of its k nearest
// points in the cloud, by Euclidean distance.
func nearestIndices(cloud geom.PointCloud, i, k int) []int {
	type cand struct {
		idx  int
		dist float64
	}

	cands := make([]cand, 0, len(cloud)-1)
	for j := range cloud {
		if j == i {
			continue
		}
		cands = append(cands, cand{idx: j, dist: cloud[i].Dist(cloud[j])})
	}

	sort.Slice(cands, func(a, b int) bool {
		if cands[a].dist == cands[b].dist {
			return cands[a].idx < cands[b].idx
		}

		return cands[a].dist < cands[b].dist
	})

	out := make([]int, 0, k+1)
	out = append(out, i)
	for j := 0; j < k && j < len(cands); j++ {
		out = append(out, cands[j].idx)
	}

	return out
}

// FittedSmoother holds the registration reference and the neighbourhood sets
// established at fit time. Neighbors[i] starts with i itself, followed by its
// nearest points; the smoothed point keeps weight 1-Factor and spreads Factor
// equally over the rest of the set.
type FittedSmoother struct {
	Reference geom.PointCloud
	Neighbors [][]int
	Factor    float64
}

var (
	_ pipeline.FittedStep = (*FittedSmoother)(nil)
	_ pipeline.Inverter   = (*FittedSmoother)(nil)
)

// Transform registers each cloud against the reference if needed and applies
// the fixed neighbourhood averaging.
func (f *FittedSmoother) Transform(data any) (any, error) {
	clouds, ok := data.([]geom.PointCloud)
	if !ok {
		return nil, fmt.Errorf("%w: want []geom.PointCloud, got %T", errs.ErrShapeMismatch, data)
	}
	if len(f.Reference) == 0 {
		return nil, fmt.Errorf("%w: smoothing reference was never fitted", errs.ErrNoReference)
	}

	out := make([]geom.PointCloud, len(clouds))
	for ci, cloud := range clouds {
		if len(cloud) == 0 {
			return nil, fmt.Errorf("%w: cloud %d is empty", errs.ErrEmptyInput, ci)
		}

		reg := cloud
		if len(cloud) != len(f.Reference) {
			reg = f.register(cloud)
		}

		out[ci] = f.smooth(reg)
	}

	return out, nil
}

// register maps a cloud of arbitrary point count onto the reference ordering:
// point i of the result is the cloud point nearest to reference point i.
func (f *FittedSmoother) register(cloud geom.PointCloud) geom.PointCloud {
	reg := make(geom.PointCloud, len(f.Reference))
	for i, rp := range f.Reference {
		best := 0
		bestDist := rp.Dist(cloud[0])
		for j := 1; j < len(cloud); j++ {
			if d := rp.Dist(cloud[j]); d < bestDist {
				best, bestDist = j, d
			}
		}
		reg[i] = cloud[best]
	}

	return reg
}

// smooth moves every point toward the mean of its fixed neighbourhood by the
// smoothing factor. A point without neighbours stays in place.
func (f *FittedSmoother) smooth(cloud geom.PointCloud) geom.PointCloud {
	out := make(geom.PointCloud, len(cloud))
	for i, set := range f.Neighbors {
		if len(set) < 2 {
			out[i] = cloud[set[0]]
			continue
		}

		var sum geom.Point
		for _, j := range set[1:] {
			sum = sum.Add(cloud[j])
		}
		mean := sum.Scale(1.0 / float64(len(set)-1))

		out[i] = cloud[set[0]].Scale(1 - f.Factor).Add(mean.Scale(f.Factor))
	}

	return out
}

// Inverse undoes the smoothing by solving the linear averaging system
// W·x = y per coordinate. The solve goes through a rank-truncated SVD
// pseudo-inverse, so a rank-deficient operator yields the minimum-norm
// solution instead of a solver failure; with a factor below 0.5 the fitted
// operator is strictly diagonally dominant and the solve is exact. Clouds
// must already be in reference ordering.
func (f *FittedSmoother) Inverse(data any) (any, error) {
	clouds, ok := data.([]geom.PointCloud)
	if !ok {
		return nil, fmt.Errorf("%w: want []geom.PointCloud, got %T", errs.ErrShapeMismatch, data)
	}
	if len(f.Reference) == 0 {
		return nil, fmt.Errorf("%w: smoothing reference was never fitted", errs.ErrNoReference)
	}

	n := len(f.Reference)

	var svd mat.SVD
	if ok := svd.Factorize(f.weightMatrix(), mat.SVDThin); !ok {
		return nil, fmt.Errorf("unsmoothing: SVD factorization failed")
	}

	pinv, err := pseudoInverse(&svd, n)
	if err != nil {
		return nil, fmt.Errorf("unsmoothing: %w", err)
	}

	out := make([]geom.PointCloud, len(clouds))
	for ci, cloud := range clouds {
		if len(cloud) != n {
			return nil, fmt.Errorf("%w: cloud %d has %d points, reference has %d", errs.ErrShapeMismatch, ci, len(cloud), n)
		}

		b := mat.NewDense(n, 3, nil)
		for i, p := range cloud {
			b.SetRow(i, p[:])
		}

		var x mat.Dense
		x.Mul(pinv, b)

		rec := make(geom.PointCloud, n)
		for i := range rec {
			rec[i] = geom.Point{x.At(i, 0), x.At(i, 1), x.At(i, 2)}
		}
		out[ci] = rec
	}

	return out, nil
}

// weightMatrix materializes the averaging operator from the neighbourhood
// sets: row i carries 1-Factor on the diagonal and Factor spread equally over
// the neighbours in Neighbors[i][1:].
func (f *FittedSmoother) weightMatrix() *mat.Dense {
	n := len(f.Neighbors)
	w := mat.NewDense(n, n, nil)
	for i, set := range f.Neighbors {
		if len(set) < 2 {
			w.Set(i, set[0], 1)
			continue
		}

		w.Set(i, set[0], 1-f.Factor)
		wij := f.Factor / float64(len(set)-1)
		for _, j := range set[1:] {
			w.Set(i, j, wij)
		}
	}

	return w
}

// pseudoInverse builds the Moore-Penrose pseudo-inverse V·S⁺·Uᵀ of a
// factorized n x n matrix, truncating singular values below the numerical
// rank threshold.
func pseudoInverse(svd *mat.SVD, n int) (*mat.Dense, error) {
	sv := svd.Values(nil)
	if len(sv) == 0 || sv[0] == 0 {
		return nil, fmt.Errorf("%w: averaging operator is zero", errs.ErrShapeMismatch)
	}

	const eps = 2.220446049250313e-16
	tol := float64(n) * eps * sv[0]

	rank := 0
	for _, v := range sv {
		if v > tol {
			rank++
		}
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	scaled := mat.DenseCopyOf(v.Slice(0, n, 0, rank))
	for j := 0; j < rank; j++ {
		inv := 1 / sv[j]
		for i := 0; i < n; i++ {
			scaled.Set(i, j, scaled.At(i, j)*inv)
		}
	}

	var pinv mat.Dense
	pinv.Mul(scaled, u.Slice(0, n, 0, rank).T())

	return &pinv, nil
}
