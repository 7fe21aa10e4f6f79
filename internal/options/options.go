// Package options implements the generic functional-option machinery used by
// shapefit configuration structs.
package options

// Option configures a value of type T and may fail with a configuration error.
type Option[T any] interface {
	apply(T) error
}

// Func wraps a plain function as an Option for type T.
type Func[T any] struct {
	applyFunc func(T) error
}

// apply implements the Option interface.
func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates an Option from a function that may return an error.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// NoError creates an Option from a function that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Validator is implemented by configuration structs with cross-field rules
// that can only be checked after all options have been applied, such as
// mutually-exclusive default-vs-custom component choices.
type Validator interface {
	Validate() error
}

// Apply applies options to a target in order, then runs the target's Validate
// hook if it implements Validator. The first error stops processing.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	if v, ok := any(target).(Validator); ok {
		return v.Validate()
	}

	return nil
}
