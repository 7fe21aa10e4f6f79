package pipeline

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/geom"
)

func TestSqueezeValue(t *testing.T) {
	t.Run("unwraps single-element slice", func(t *testing.T) {
		v, ok := SqueezeValue([]int{7})
		require.True(t, ok)
		require.Equal(t, 7, v)
	})

	t.Run("unwraps nested single-element slices", func(t *testing.T) {
		v, ok := SqueezeValue([][]float64{{1.5}})
		require.True(t, ok)
		require.Equal(t, 1.5, v)
	})

	t.Run("leaves multi-element slices alone", func(t *testing.T) {
		v, ok := SqueezeValue([]int{1, 2})
		require.False(t, ok)
		require.Equal(t, []int{1, 2}, v)
	})

	t.Run("leaves scalars alone", func(t *testing.T) {
		v, ok := SqueezeValue(3.0)
		require.False(t, ok)
		require.Equal(t, 3.0, v)
	})
}

func TestSqueeze_Strict(t *testing.T) {
	s, err := NewSqueeze()
	require.NoError(t, err)

	// Forward is a passthrough.
	out, err := s.Transform([]int{1, 2})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, out)

	// Inverse squeezes a batch of one.
	mesh := geom.Mesh{Vertices: geom.PointCloud{{1, 2, 3}}}
	out, err = s.Inverse([]geom.Mesh{mesh})
	require.NoError(t, err)
	require.Equal(t, mesh, out)

	// Strict mode fails on non-reducible input.
	_, err = s.Inverse([]int{1, 2})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestSqueeze_LenientLogsAndPassesThrough(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s, err := NewSqueeze(WithLenient(), WithLogger(logger))
	require.NoError(t, err)

	out, err := s.Inverse([]int{1, 2})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, out)
	require.Contains(t, buf.String(), "squeeze passthrough")
}

func TestFunc_ForwardOnly(t *testing.T) {
	f := NewFunc(nil, nil)

	out, err := f.Transform(42)
	require.NoError(t, err)
	require.Equal(t, 42, out)

	_, err = f.Inverse(42)
	require.ErrorIs(t, err, errs.ErrNotInvertible)
}
