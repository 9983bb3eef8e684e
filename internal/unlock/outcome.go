package unlock

// outcome is the result of one pipeline stage.
type outcome[T any] struct {
	value T
	err   error
}

func settle[T any](value T, err error) outcome[T] {
	return outcome[T]{value: value, err: err}
}

func (o outcome[T]) ok() bool {
	return o.err == nil
}

// or returns the stage value on success and fallback otherwise.
func (o outcome[T]) or(fallback T) T {
	if o.ok() {
		return o.value
	}
	return fallback
}
