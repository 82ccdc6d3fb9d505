package discount

// Optional holds a value that may never have been configured.
type Optional[T any] struct {
	value T
	set   bool
}

// Some wraps a configured value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an unset value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr converts a decoded pointer field, treating nil as unset.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was configured.
func (o Optional[T]) IsSet() bool { return o.set }

// OrElse returns the value or fallback when unset.
func (o Optional[T]) OrElse(fallback T) T {
	if !o.set {
		return fallback
	}
	return o.value
}

// Ptr returns a pointer to a copy of the value, or nil when unset.
func (o Optional[T]) Ptr() *T {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}
