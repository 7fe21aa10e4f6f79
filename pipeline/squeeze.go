package pipeline

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/internal/options"
)

// Squeeze is a batch-shape adapter: it passes data through on the forward
// pass and reduces single-element sequences to their element on the inverse
// pass. It exists because forward and inverse are sometimes invoked on
// batches of differing structure (a single object versus a list of objects).
//
// By default a non-reducible value on the inverse pass is an error. The
// lenient mode returns such values unchanged instead, but always logs a
// warning: a silent passthrough can mask upstream shape bugs, so opting into
// leniency is an explicit, visible choice.
type Squeeze struct {
	lenient bool
	logger  *slog.Logger
}

var (
	_ Step       = (*Squeeze)(nil)
	_ FittedStep = (*Squeeze)(nil)
	_ Inverter   = (*Squeeze)(nil)
)

// SqueezeOption is a functional option for Squeeze.
type SqueezeOption = options.Option[*Squeeze]

// WithLenient makes non-reducible inverse inputs pass through unchanged
// (with a logged warning) instead of failing.
func WithLenient() SqueezeOption {
	return options.NoError(func(s *Squeeze) {
		s.lenient = true
	})
}

// WithLogger sets the logger used for lenient-mode warnings.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) SqueezeOption {
	return options.NoError(func(s *Squeeze) {
		s.logger = logger
	})
}

// NewSqueeze creates a squeeze step.
func NewSqueeze(opts ...SqueezeOption) (*Squeeze, error) {
	s := &Squeeze{logger: slog.Default()}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Fit returns the step itself; squeeze carries no fitted state.
func (s *Squeeze) Fit(any) (FittedStep, error) {
	return s, nil
}

// Transform passes the data through unchanged.
func (s *Squeeze) Transform(data any) (any, error) {
	return data, nil
}

// Inverse squeezes a single-element sequence down to its element. Behavior on
// non-reducible input depends on the lenient flag.
func (s *Squeeze) Inverse(data any) (any, error) {
	out, ok := SqueezeValue(data)
	if ok {
		return out, nil
	}

	if !s.lenient {
		return nil, fmt.Errorf("%w: cannot squeeze %T to a single element", errs.ErrShapeMismatch, data)
	}

	s.logger.Warn("squeeze passthrough on non-reducible value",
		slog.String("type", fmt.Sprintf("%T", data)))

	return data, nil
}

// GobEncode serializes the lenient flag so squeeze steps survive pipeline
// snapshots. The logger is not persisted; decoding restores slog.Default().
func (s *Squeeze) GobEncode() ([]byte, error) {
	if s.lenient {
		return []byte{1}, nil
	}

	return []byte{0}, nil
}

// GobDecode restores the lenient flag and attaches the default logger.
func (s *Squeeze) GobDecode(data []byte) error {
	s.lenient = len(data) == 1 && data[0] == 1
	s.logger = slog.Default()

	return nil
}

// SqueezeValue unwraps nested single-element sequences: a slice or array of
// length 1 is replaced by its element, repeatedly. It reports whether at
// least one level was removed.
func SqueezeValue(v any) (any, bool) {
	squeezed := false

	for {
		rv := reflect.ValueOf(v)
		if (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Len() != 1 {
			return v, squeezed
		}

		v = rv.Index(0).Interface()
		squeezed = true
	}
}
