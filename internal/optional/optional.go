// Package optional provides a small Option type used to thread values that
// may be absent through a chain of dependent lookups.
//
// A step that needs an earlier value is expressed with AndThen, so absence
// propagates without nested nil checks:
//
//	tick := optional.NonEmpty(firstTicker)
//	holder := optional.AndThen(tick, lookupHolder)
package optional

import "fmt"

// Option holds a value of type T or nothing.
// The zero value is None.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps v as a present value.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an absent value.
func None[T any]() Option[T] {
	return Option[T]{}
}

// NonEmpty is Some(s) for a non-empty string and None otherwise.
func NonEmpty(s string) Option[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// FromPtr is Some(*p) for a non-nil pointer and None otherwise.
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// ValueOr returns the value, or def when absent.
func (o Option[T]) ValueOr(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// OrElse returns o when present and other otherwise.
func (o Option[T]) OrElse(other Option[T]) Option[T] {
	if o.ok {
		return o
	}
	return other
}

// String renders the value with %v, or "<none>".
func (o Option[T]) String() string {
	if !o.ok {
		return "<none>"
	}
	return fmt.Sprintf("%v", o.value)
}

// AndThen applies f to the value when present. f itself may return None.
func AndThen[T, U any](o Option[T], f func(T) Option[U]) Option[U] {
	if !o.ok {
		return None[U]()
	}
	return f(o.value)
}

// Map applies f to the value when present.
func Map[T, U any](o Option[T], f func(T) U) Option[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(f(o.value))
}

// Pair holds two values that were both present.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip is Some only when both a and b are present.
func Zip[A, B any](a Option[A], b Option[B]) Option[Pair[A, B]] {
	if !a.ok || !b.ok {
		return None[Pair[A, B]]()
	}
	return Some(Pair[A, B]{First: a.value, Second: b.value})
}
