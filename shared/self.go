package shared

import (
	"fmt"
	"reflect"

	"github.com/wippyai/ownership/errors"
)

// EnableShared lets a value mint handles to itself. Embed it in the value's
// struct:
//
//	type Node struct {
//		shared.EnableShared[Node]
//		children []shared.Shared[Node]
//	}
//
// The capability is filled in by New, NewWithDeleter, ResetTo, Make and
// MakeWith once the value and its control block both exist. Until then
// ShareSelf and WeakenSelf report a not_managed error.
//
// The capability may also sit in a struct embedded by value in the managed
// type, such as a Derived embedding a Base that embeds EnableShared[Base].
// ShareSelf then returns a Shared[Base] pointing at the embedded Base and
// sharing Derived's block. Reaching the capability through an embedded
// pointer is not supported and panics when the value is enrolled.
//
// EnableShared holds no count of its own, so embedding it does not keep the
// value or its block alive.
type EnableShared[T any] struct {
	self *T
	cb   controlBlock
}

// enroller is satisfied by every type that embeds EnableShared.
type enroller interface {
	enroll(p any, cb controlBlock)
}

func enroll[T any](p *T, cb controlBlock) {
	if e, ok := any(p).(enroller); ok {
		e.enroll(p, cb)
	}
}

func (e *EnableShared[T]) enroll(p any, cb controlBlock) {
	self, ok := p.(*T)
	if !ok {
		self = embeddedIn[T](p)
		if c, ok := any(self).(capable[T]); self == nil || !ok || c.capability() != e {
			panic(errors.TypeMismatch(errors.PhaseSelf, nil, "*"+typeName[T](), fmt.Sprintf("%T", p)))
		}
	}
	// A copied value carries its source's enrollment; only an enrollment
	// for this very address that is still live is kept.
	if e.self == self && !expired(e.cb) {
		return
	}
	e.self, e.cb = self, cb
}

type capable[T any] interface {
	capability() *EnableShared[T]
}

func (e *EnableShared[T]) capability() *EnableShared[T] {
	return e
}

// embeddedIn returns the shallowest T embedded by value in the struct p
// points to, or nil if there is none.
func embeddedIn[T any](p any) *T {
	want := reflect.TypeFor[T]()
	v := reflect.ValueOf(p)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil
	}

	level := []reflect.Value{v.Elem()}
	for len(level) > 0 {
		var next []reflect.Value
		for _, sv := range level {
			if sv.Kind() != reflect.Struct {
				continue
			}
			st := sv.Type()
			for i := 0; i < st.NumField(); i++ {
				f := st.Field(i)
				if !f.Anonymous {
					continue
				}
				if f.Type == want {
					return (*T)(sv.Field(i).Addr().UnsafePointer())
				}
				if f.Type.Kind() == reflect.Struct {
					next = append(next, sv.Field(i))
				}
			}
		}
		level = next
	}
	return nil
}

// ShareSelf returns a new strong reference to the value. It fails with a
// not_managed error before the value is owned by a Shared, and with an error
// matching errors.ErrExpiredOwner once it has been destroyed.
func (e *EnableShared[T]) ShareSelf() (Shared[T], error) {
	if err := e.check(); err != nil {
		return Shared[T]{}, err
	}
	retainStrong(e.cb)
	return Shared[T]{ptr: e.self, cb: e.cb}, nil
}

// WeakenSelf returns a new weak observer of the value, under the same
// conditions as ShareSelf.
func (e *EnableShared[T]) WeakenSelf() (Weak[T], error) {
	if err := e.check(); err != nil {
		return Weak[T]{}, err
	}
	retainWeak(e.cb)
	return Weak[T]{ptr: e.self, cb: e.cb}, nil
}

func (e *EnableShared[T]) check() error {
	if e.cb == nil {
		return errors.NotManaged("*" + typeName[T]())
	}
	if expired(e.cb) {
		return errors.ExpiredOwner(errors.PhaseSelf, "*"+typeName[T]())
	}
	return nil
}
