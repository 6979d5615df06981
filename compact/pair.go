// Package compact stores two values together without paying for a
// zero-sized one.
//
// Go gives zero-sized fields no storage unless they are the last field of a
// struct, where the compiler pads them so a pointer to the field cannot point
// past the allocation. Pair therefore lays out its second value first: a
// stateless second value (a deleter, a policy) adds no bytes, and a pointer
// first value keeps the pair exactly one word wide.
package compact

import "unsafe"

// Pair holds a first and a second value. The zero value is a pair of zero
// values.
type Pair[F, S any] struct {
	second S
	first  F
}

// Of returns a pair holding first and second.
func Of[F, S any](first F, second S) Pair[F, S] {
	return Pair[F, S]{first: first, second: second}
}

// First returns a pointer to the first value.
func (p *Pair[F, S]) First() *F {
	return &p.first
}

// Second returns a pointer to the second value. For a zero-sized S nothing
// is stored; every such value is indistinguishable from a fresh zero value.
func (p *Pair[F, S]) Second() *S {
	return &p.second
}

// Swap exchanges both values with o.
func (p *Pair[F, S]) Swap(o *Pair[F, S]) {
	p.first, o.first = o.first, p.first
	p.second, o.second = o.second, p.second
}

// Empty reports whether values of T occupy no storage.
func Empty[T any]() bool {
	var zero T
	return unsafe.Sizeof(zero) == 0
}

// Overhead returns the bytes a Pair[F, S] spends beyond storing F alone.
func Overhead[F, S any]() uintptr {
	var (
		p Pair[F, S]
		f F
	)
	return unsafe.Sizeof(p) - unsafe.Sizeof(f)
}
