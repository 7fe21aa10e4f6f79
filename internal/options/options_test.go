package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// smoothConfig mimics a step configuration with a cross-field rule: a custom
// chain excludes the individual neighbour default.
type smoothConfig struct {
	Neighbors    int
	CustomChain  bool
	neighborsSet bool
}

func (c *smoothConfig) SetNeighbors(k int) error {
	if k <= 0 {
		return errors.New("neighbor count must be positive")
	}
	c.Neighbors = k
	c.neighborsSet = true

	return nil
}

func (c *smoothConfig) Validate() error {
	if c.CustomChain && c.neighborsSet {
		return errors.New("custom chain excludes neighbor option")
	}

	return nil
}

func TestOption_New(t *testing.T) {
	t.Run("applies and can fail", func(t *testing.T) {
		cfg := &smoothConfig{}
		opt := New(func(c *smoothConfig) error { return c.SetNeighbors(8) })
		require.NoError(t, opt.apply(cfg))
		require.Equal(t, 8, cfg.Neighbors)

		opt = New(func(c *smoothConfig) error { return c.SetNeighbors(0) })
		err := opt.apply(cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "must be positive")
	})
}

func TestOption_NoError(t *testing.T) {
	cfg := &smoothConfig{}
	opt := NoError(func(c *smoothConfig) { c.CustomChain = true })
	require.NoError(t, opt.apply(cfg))
	require.True(t, cfg.CustomChain)
}

func TestOption_Apply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &smoothConfig{}
		err := Apply(cfg,
			New(func(c *smoothConfig) error { return c.SetNeighbors(5) }),
			New(func(c *smoothConfig) error { return c.SetNeighbors(10) }),
		)
		require.NoError(t, err)
		require.Equal(t, 10, cfg.Neighbors)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &smoothConfig{}
		err := Apply(cfg,
			New(func(c *smoothConfig) error { return c.SetNeighbors(-1) }),
			New(func(c *smoothConfig) error { return c.SetNeighbors(10) }),
		)
		require.Error(t, err)
		require.Zero(t, cfg.Neighbors)
	})

	t.Run("runs Validate after all options", func(t *testing.T) {
		cfg := &smoothConfig{}
		err := Apply(cfg,
			New(func(c *smoothConfig) error { return c.SetNeighbors(10) }),
			NoError(func(c *smoothConfig) { c.CustomChain = true }),
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "custom chain excludes")
	})

	t.Run("empty option list is a no-op", func(t *testing.T) {
		cfg := &smoothConfig{}
		require.NoError(t, Apply(cfg))
		require.Zero(t, cfg.Neighbors)
	})
}

func TestOption_NonValidatorTarget(t *testing.T) {
	// Targets without a Validate hook skip validation entirely.
	var n int
	err := Apply(&n, NoError(func(p *int) { *p = 7 }))
	require.NoError(t, err)
	require.Equal(t, 7, n)
}
