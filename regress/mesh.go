package regress

import (
	"fmt"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/internal/options"
	"github.com/shapefit/shapefit/pipeline"
	"github.com/shapefit/shapefit/transform"
)

// meshConfig collects the configuration of the preconfigured mesh
// regressors. The target chain is a tagged choice: either the default chain
// assembled from the individual fields, or a caller-supplied custom chain.
// Set-flags record which individual defaults were overridden so Validate can
// reject contradictory combinations instead of silently ignoring them.
type meshConfig struct {
	base          Regressor
	inputPipeline *pipeline.Pipeline
	inputScaler   pipeline.Step
	targetChain   *pipeline.Pipeline
	targetScaler  pipeline.Step
	neighbors     int
	components    int

	neighborsSet    bool
	componentsSet   bool
	targetScalerSet bool
}

// Validate enforces the default-vs-custom exclusivity rules.
func (c *meshConfig) Validate() error {
	if c.targetChain != nil && (c.neighborsSet || c.componentsSet || c.targetScalerSet) {
		return fmt.Errorf("%w: a custom target chain excludes the individual chain options", errs.ErrInvalidConfig)
	}
	if c.inputPipeline != nil && c.inputScaler != nil {
		return fmt.Errorf("%w: a custom input pipeline excludes the input scaler option", errs.ErrInvalidConfig)
	}

	return nil
}

// MeshRegressorOption is a functional option for the preconfigured mesh
// regressors.
type MeshRegressorOption = options.Option[*meshConfig]

// WithBaseRegressor sets the base regressor. Defaults to ordinary least
// squares.
func WithBaseRegressor(r Regressor) MeshRegressorOption {
	return options.NoError(func(c *meshConfig) {
		c.base = r
	})
}

// WithInputPipeline replaces the whole input-preprocessing chain. Mutually
// exclusive with WithInputScaler.
func WithInputPipeline(p *pipeline.Pipeline) MeshRegressorOption {
	return options.NoError(func(c *meshConfig) {
		c.inputPipeline = p
	})
}

// WithInputScaler appends a scaling step to the default input chain.
func WithInputScaler(s pipeline.Step) MeshRegressorOption {
	return options.NoError(func(c *meshConfig) {
		c.inputScaler = s
	})
}

// WithTargetChain replaces the whole object-transform chain. Mutually
// exclusive with WithNeighborCount, WithComponents and WithTargetScaler.
func WithTargetChain(p *pipeline.Pipeline) MeshRegressorOption {
	return options.NoError(func(c *meshConfig) {
		c.targetChain = p
	})
}

// WithNeighborCount sets the smoothing neighbour count of the default target
// chain.
func WithNeighborCount(k int) MeshRegressorOption {
	return options.New(func(c *meshConfig) error {
		if k <= 0 {
			return fmt.Errorf("%w: neighbor count must be positive, got %d", errs.ErrInvalidConfig, k)
		}
		c.neighbors = k
		c.neighborsSet = true

		return nil
	})
}

// WithComponents sets the PCA component count of the default dimension-
// reduced target chain. Zero keeps the full rank.
func WithComponents(r int) MeshRegressorOption {
	return options.New(func(c *meshConfig) error {
		if r < 0 {
			return fmt.Errorf("%w: component count must be non-negative, got %d", errs.ErrInvalidConfig, r)
		}
		c.components = r
		c.componentsSet = true

		return nil
	})
}

// WithTargetScaler replaces the target scaling step of the default
// dimension-reduced chain.
func WithTargetScaler(s pipeline.Step) MeshRegressorOption {
	return options.NoError(func(c *meshConfig) {
		c.targetScaler = s
		c.targetScalerSet = true
	})
}

// applyMeshOptions builds a validated config with shared defaults.
func applyMeshOptions(opts []MeshRegressorOption) (*meshConfig, error) {
	cfg := &meshConfig{neighbors: transform.DefaultNeighborCount}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// inputChain assembles the input-preprocessing pipeline from the config.
func (c *meshConfig) inputChain() *pipeline.Pipeline {
	if c.inputPipeline != nil {
		return c.inputPipeline
	}

	steps := []pipeline.Step{transform.NewToMatrix()}
	if c.inputScaler != nil {
		steps = append(steps, c.inputScaler)
	}

	return pipeline.New(steps...)
}

// NewVertexMeshRegressor creates an object regressor whose targets are the
// smoothed, flattened mesh vertices, with no dimensionality reduction:
// mesh -> vertices -> smoothing -> stack/flatten.
func NewVertexMeshRegressor(opts ...MeshRegressorOption) (*ObjectRegressor, error) {
	cfg, err := applyMeshOptions(opts)
	if err != nil {
		return nil, err
	}
	if cfg.componentsSet || cfg.targetScalerSet {
		return nil, fmt.Errorf("%w: components and target scaler apply only to the dimension-reduced regressor", errs.ErrInvalidConfig)
	}

	chain := cfg.targetChain
	if chain == nil {
		smoother, err := transform.NewSmoother(transform.WithNeighbors(cfg.neighbors))
		if err != nil {
			return nil, err
		}
		chain = pipeline.New(transform.NewMeshVertices(), smoother, transform.NewFlatten())
	}

	target, err := NewTargetRegressor(cfg.base, chain)
	if err != nil {
		return nil, err
	}

	return NewObjectRegressor(cfg.inputChain(), target), nil
}

// NewPCAMeshRegressor creates an object regressor whose targets are reduced
// to principal components: mesh -> vertices -> smoothing -> stack/flatten ->
// mean-centering -> PCA. Defaults: 10 smoothing neighbours, mean-only target
// scaling, full-rank PCA.
func NewPCAMeshRegressor(opts ...MeshRegressorOption) (*ObjectRegressor, error) {
	cfg, err := applyMeshOptions(opts)
	if err != nil {
		return nil, err
	}

	chain := cfg.targetChain
	if chain == nil {
		smoother, err := transform.NewSmoother(transform.WithNeighbors(cfg.neighbors))
		if err != nil {
			return nil, err
		}

		scaler := cfg.targetScaler
		if scaler == nil {
			scaler, err = transform.NewScaler(transform.WithStdScaling(false))
			if err != nil {
				return nil, err
			}
		}

		pca, err := transform.NewPCA(transform.WithComponents(cfg.components))
		if err != nil {
			return nil, err
		}

		chain = pipeline.New(transform.NewMeshVertices(), smoother, transform.NewFlatten(), scaler, pca)
	}

	target, err := NewTargetRegressor(cfg.base, chain)
	if err != nil {
		return nil, err
	}

	return NewObjectRegressor(cfg.inputChain(), target), nil
}
