package regress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/geom"
	"github.com/shapefit/shapefit/pipeline"
	"github.com/shapefit/shapefit/transform"
)

// helixMesh builds a triangle-strip mesh of n vertices on a helix, shifted
// linearly with t so regression targets depend linearly on the input.
func helixMesh(n int, t float64) geom.Mesh {
	vertices := make(geom.PointCloud, n)
	for i := range vertices {
		a := float64(i) * 0.4
		base := geom.Point{math.Cos(a), math.Sin(a), a * 0.25}
		vertices[i] = base.Add(geom.Point{0.3, -0.2, 0.5}.Scale(t))
	}

	faces := make([]geom.Triangle, 0, n-2)
	for i := 0; i+2 < n; i++ {
		faces = append(faces, geom.Triangle{i, i + 1, i + 2})
	}

	return geom.Mesh{Vertices: vertices, Faces: faces}
}

func trainingMeshes(count, verts int) ([]geom.Mesh, []float64) {
	meshes := make([]geom.Mesh, count)
	ages := make([]float64, count)
	for i := range meshes {
		ages[i] = float64(i + 1)
		meshes[i] = helixMesh(verts, ages[i])
	}

	return meshes, ages
}

func TestVertexMeshRegressor_RecoversTrainingMesh(t *testing.T) {
	meshes, ages := trainingMeshes(5, 30)

	reg, err := NewVertexMeshRegressor(WithNeighborCount(4))
	require.NoError(t, err)

	fitted, err := reg.Fit(ages, meshes)
	require.NoError(t, err)

	out, err := fitted.Predict([]float64{3})
	require.NoError(t, err)

	preds := out.([]geom.Mesh)
	require.Len(t, preds, 1)

	pred := preds[0]
	require.Len(t, pred.Vertices, 30)
	require.Equal(t, meshes[0].Faces, pred.Faces)

	// Smoothing is linear and the targets are linear in age, so the least
	// squares fit reproduces the training mesh at a training age.
	want := meshes[2]
	for i := range pred.Vertices {
		require.InDelta(t, want.Vertices[i][0], pred.Vertices[i][0], 1e-6)
		require.InDelta(t, want.Vertices[i][1], pred.Vertices[i][1], 1e-6)
		require.InDelta(t, want.Vertices[i][2], pred.Vertices[i][2], 1e-6)
	}
}

func TestVertexMeshRegressor_BatchPrediction(t *testing.T) {
	meshes, ages := trainingMeshes(4, 20)

	reg, err := NewVertexMeshRegressor(WithNeighborCount(3))
	require.NoError(t, err)

	fitted, err := reg.Fit(ages, meshes)
	require.NoError(t, err)

	out, err := fitted.Predict([]float64{1.5, 2.5, 3.5})
	require.NoError(t, err)

	preds := out.([]geom.Mesh)
	require.Len(t, preds, 3)
	for _, m := range preds {
		require.Len(t, m.Vertices, 20)
		require.Equal(t, meshes[0].Faces, m.Faces)
	}
}

func TestPCAMeshRegressor_RecoversTrainingMesh(t *testing.T) {
	meshes, ages := trainingMeshes(5, 24)

	// Targets move along a single direction, so one component captures them.
	reg, err := NewPCAMeshRegressor(WithNeighborCount(4), WithComponents(1))
	require.NoError(t, err)

	fitted, err := reg.Fit(ages, meshes)
	require.NoError(t, err)

	out, err := fitted.Predict([]float64{2})
	require.NoError(t, err)

	pred := out.([]geom.Mesh)[0]
	want := meshes[1]
	require.Len(t, pred.Vertices, 24)
	for i := range pred.Vertices {
		require.InDelta(t, want.Vertices[i][0], pred.Vertices[i][0], 1e-6)
		require.InDelta(t, want.Vertices[i][1], pred.Vertices[i][1], 1e-6)
		require.InDelta(t, want.Vertices[i][2], pred.Vertices[i][2], 1e-6)
	}
}

func TestMeshRegressor_OptionValidation(t *testing.T) {
	custom := pipeline.New(transform.NewMeshVertices(), transform.NewFlatten())

	t.Run("custom chain excludes neighbor count", func(t *testing.T) {
		_, err := NewVertexMeshRegressor(WithTargetChain(custom), WithNeighborCount(5))
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})

	t.Run("custom chain excludes components", func(t *testing.T) {
		_, err := NewPCAMeshRegressor(WithTargetChain(custom), WithComponents(2))
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})

	t.Run("custom input pipeline excludes input scaler", func(t *testing.T) {
		scaler, err := transform.NewScaler()
		require.NoError(t, err)

		_, err = NewVertexMeshRegressor(
			WithInputPipeline(pipeline.New(transform.NewToMatrix())),
			WithInputScaler(scaler),
		)
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})

	t.Run("components rejected on vertex regressor", func(t *testing.T) {
		_, err := NewVertexMeshRegressor(WithComponents(2))
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})

	t.Run("non-positive neighbor count", func(t *testing.T) {
		_, err := NewVertexMeshRegressor(WithNeighborCount(0))
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})
}

func TestMeshRegressor_CustomTargetChain(t *testing.T) {
	meshes, ages := trainingMeshes(3, 12)

	chain := pipeline.New(transform.NewMeshVertices(), transform.NewFlatten())
	reg, err := NewVertexMeshRegressor(WithTargetChain(chain))
	require.NoError(t, err)

	fitted, err := reg.Fit(ages, meshes)
	require.NoError(t, err)

	out, err := fitted.Predict([]float64{2})
	require.NoError(t, err)

	pred := out.([]geom.Mesh)[0]
	want := meshes[1]
	for i := range pred.Vertices {
		require.InDelta(t, want.Vertices[i][0], pred.Vertices[i][0], 1e-8)
		require.InDelta(t, want.Vertices[i][1], pred.Vertices[i][1], 1e-8)
		require.InDelta(t, want.Vertices[i][2], pred.Vertices[i][2], 1e-8)
	}
}

func TestObjectRegressor_InputScaling(t *testing.T) {
	meshes, ages := trainingMeshes(4, 10)

	scaler, err := transform.NewScaler()
	require.NoError(t, err)

	chain := pipeline.New(transform.NewMeshVertices(), transform.NewFlatten())
	reg, err := NewVertexMeshRegressor(WithTargetChain(chain), WithInputScaler(scaler))
	require.NoError(t, err)

	fitted, err := reg.Fit(ages, meshes)
	require.NoError(t, err)

	// Affine input scaling does not change a linear least squares fit.
	out, err := fitted.Predict([]float64{3})
	require.NoError(t, err)

	pred := out.([]geom.Mesh)[0]
	want := meshes[2]
	for i := range pred.Vertices {
		require.InDelta(t, want.Vertices[i][0], pred.Vertices[i][0], 1e-8)
	}
}

func TestRegressorFactory_CreateFitsModel(t *testing.T) {
	meshes, ages := trainingMeshes(3, 10)

	chain := pipeline.New(transform.NewMeshVertices(), transform.NewFlatten())
	reg, err := NewVertexMeshRegressor(WithTargetChain(chain))
	require.NoError(t, err)

	factory := NewRegressorFactory(reg, ages, meshes)

	m, err := factory.Create()
	require.NoError(t, err)

	out, err := m.Predict([]float64{1})
	require.NoError(t, err)
	require.Len(t, out.([]geom.Mesh), 1)

	x := mat.NewDense(2, 1, []float64{1, 2})
	out, err = m.Predict(x)
	require.NoError(t, err)
	require.Len(t, out.([]geom.Mesh), 2)
}
