package persist

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/shapefit/shapefit/compress"
	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/geom"
	"github.com/shapefit/shapefit/pipeline"
	"github.com/shapefit/shapefit/regress"
	"github.com/shapefit/shapefit/transform"
)

// fittedNumericPipeline fits a scaler+PCA chain on a small matrix and
// returns the fitted pipeline with its training input.
func fittedNumericPipeline(t *testing.T) (*pipeline.FittedPipeline, *mat.Dense) {
	t.Helper()

	x := mat.NewDense(6, 3, []float64{
		1, 2, 3,
		2, 4, 5,
		3, 6, 8,
		4, 8, 9,
		5, 10, 12,
		6, 12, 13,
	})

	scaler, err := transform.NewScaler()
	require.NoError(t, err)
	pca, err := transform.NewPCA(transform.WithComponents(2))
	require.NoError(t, err)

	fitted, err := pipeline.New(scaler, pca).Fit(x)
	require.NoError(t, err)

	return fitted, x
}

func trainingMeshes(count, verts int) ([]geom.Mesh, []float64) {
	meshes := make([]geom.Mesh, count)
	ages := make([]float64, count)
	for m := range meshes {
		ages[m] = float64(m + 1)
		vertices := make(geom.PointCloud, verts)
		for i := range vertices {
			a := float64(i) * 0.5
			vertices[i] = geom.Point{
				math.Cos(a) + 0.3*ages[m],
				math.Sin(a) - 0.2*ages[m],
				a*0.25 + 0.5*ages[m],
			}
		}
		faces := make([]geom.Triangle, 0, verts-2)
		for i := 0; i+2 < verts; i++ {
			faces = append(faces, geom.Triangle{i, i + 1, i + 2})
		}
		meshes[m] = geom.Mesh{Vertices: vertices, Faces: faces}
	}

	return meshes, ages
}

func TestSaveLoad_FittedPipeline(t *testing.T) {
	for _, typ := range []compress.Type{compress.TypeNone, compress.TypeS2, compress.TypeZstd, compress.TypeLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			fitted, x := fittedNumericPipeline(t)

			var buf bytes.Buffer
			require.NoError(t, Save(&buf, fitted, WithCompression(typ)))

			var restored pipeline.FittedPipeline
			require.NoError(t, Load(&buf, &restored))

			wantAny, err := fitted.Transform(x)
			require.NoError(t, err)
			gotAny, err := restored.Transform(x)
			require.NoError(t, err)

			want := wantAny.(*mat.Dense)
			got := gotAny.(*mat.Dense)
			require.True(t, mat.EqualApprox(want, got, 1e-12))
		})
	}
}

func TestSaveLoad_FittedMeshRegressor(t *testing.T) {
	meshes, ages := trainingMeshes(4, 16)

	reg, err := regress.NewVertexMeshRegressor(regress.WithNeighborCount(3))
	require.NoError(t, err)

	fitted, err := reg.Fit(ages, meshes)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, fitted))

	var restored regress.FittedObjectRegressor
	require.NoError(t, Load(&buf, &restored))

	wantAny, err := fitted.Predict([]float64{2.5})
	require.NoError(t, err)
	gotAny, err := restored.Predict([]float64{2.5})
	require.NoError(t, err)

	want := wantAny.([]geom.Mesh)[0]
	got := gotAny.([]geom.Mesh)[0]
	require.Equal(t, want.Faces, got.Faces)
	require.Len(t, got.Vertices, len(want.Vertices))
	for i := range want.Vertices {
		require.InDelta(t, want.Vertices[i][0], got.Vertices[i][0], 1e-12)
		require.InDelta(t, want.Vertices[i][1], got.Vertices[i][1], 1e-12)
		require.InDelta(t, want.Vertices[i][2], got.Vertices[i][2], 1e-12)
	}
}

func TestSave_InvalidCompression(t *testing.T) {
	fitted, _ := fittedNumericPipeline(t)

	var buf bytes.Buffer
	err := Save(&buf, fitted, WithCompression(compress.Type(0xaa)))
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestLoad_CorruptionDetection(t *testing.T) {
	fitted, _ := fittedNumericPipeline(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, fitted))
	snapshot := buf.Bytes()

	t.Run("bad magic", func(t *testing.T) {
		corrupted := append([]byte(nil), snapshot...)
		corrupted[0] = 'X'

		var restored pipeline.FittedPipeline
		err := Load(bytes.NewReader(corrupted), &restored)
		require.ErrorIs(t, err, errs.ErrSnapshotCorrupt)
	})

	t.Run("bad version", func(t *testing.T) {
		corrupted := append([]byte(nil), snapshot...)
		corrupted[4] = 0x7f

		var restored pipeline.FittedPipeline
		err := Load(bytes.NewReader(corrupted), &restored)
		require.ErrorIs(t, err, errs.ErrSnapshotCorrupt)
	})

	t.Run("flipped payload bit", func(t *testing.T) {
		corrupted := append([]byte(nil), snapshot...)
		corrupted[len(corrupted)-1] ^= 0x01

		var restored pipeline.FittedPipeline
		err := Load(bytes.NewReader(corrupted), &restored)
		require.ErrorIs(t, err, errs.ErrSnapshotCorrupt)
	})

	t.Run("truncated payload", func(t *testing.T) {
		var restored pipeline.FittedPipeline
		err := Load(bytes.NewReader(snapshot[:len(snapshot)-4]), &restored)
		require.ErrorIs(t, err, errs.ErrSnapshotCorrupt)
	})

	t.Run("truncated header", func(t *testing.T) {
		var restored pipeline.FittedPipeline
		err := Load(bytes.NewReader(snapshot[:10]), &restored)
		require.ErrorIs(t, err, errs.ErrSnapshotCorrupt)
	})
}
