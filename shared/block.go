package shared

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/ownership"
	"github.com/wippyai/ownership/errors"
)

type blockKind uint8

const (
	kindAdopt blockKind = iota + 1
	kindInPlace
)

func (k blockKind) String() string {
	switch k {
	case kindAdopt:
		return "adopt"
	case kindInPlace:
		return "inplace"
	default:
		return "unknown"
	}
}

// outcome is the result of a release.
type outcome uint8

const (
	retained       outcome = iota // counts still hold the block
	valueDestroyed                // strong hit zero, weak observers keep the husk
	blockReleased                 // both counts are zero
)

func (o outcome) String() string {
	switch o {
	case retained:
		return "retained"
	case valueDestroyed:
		return "value_destroyed"
	case blockReleased:
		return "block_released"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// header holds the counts every control block carries. strong == 0 means
// the value is gone; the block is retired once weak is also zero.
type header struct {
	strong uint
	weak   uint

	// destroying pins the block while the value's destructor runs, so weak
	// handles stored inside the value cannot retire it underneath us.
	destroying bool
	released   bool
}

// controlBlock is implemented by adoptBlock and inplaceBlock. destroyValue
// and release are each called exactly once, by the helpers below.
type controlBlock interface {
	counts() *header
	kind() blockKind
	typeName() string
	destroyValue()
	release()
}

func retainStrong(cb controlBlock) {
	cb.counts().strong++
}

func retainWeak(cb controlBlock) {
	cb.counts().weak++
}

func releaseStrong(cb controlBlock) outcome {
	h := cb.counts()
	if h.strong == 0 {
		panic(errors.OverRelease(cb.typeName(), "strong"))
	}
	h.strong--
	if h.strong > 0 {
		return retained
	}

	h.destroying = true
	cb.destroyValue()
	h.destroying = false
	valuesDestroyed.Inc()
	logBlock(cb, "value destroyed")

	if h.weak == 0 {
		retire(cb)
		return blockReleased
	}
	return valueDestroyed
}

func releaseWeak(cb controlBlock) outcome {
	h := cb.counts()
	if h.weak == 0 {
		panic(errors.OverRelease(cb.typeName(), "weak"))
	}
	h.weak--
	if h.weak == 0 && h.strong == 0 && !h.destroying {
		retire(cb)
		return blockReleased
	}
	return retained
}

func retire(cb controlBlock) {
	h := cb.counts()
	if h.released {
		panic(errors.New(errors.PhaseShare, errors.KindOverRelease).
			GoType(cb.typeName()).
			Detail("control block released twice").
			Build())
	}
	h.released = true
	cb.release()
	blocksReleased.Inc()
	logBlock(cb, "control block released")
}

func strongCount(cb controlBlock) uint {
	if cb == nil {
		return 0
	}
	return cb.counts().strong
}

func weakCount(cb controlBlock) uint {
	if cb == nil {
		return 0
	}
	return cb.counts().weak
}

func expired(cb controlBlock) bool {
	return cb == nil || cb.counts().strong == 0
}

func logBlock(cb controlBlock, msg string) {
	if ce := Logger().Check(zapcore.DebugLevel, msg); ce != nil {
		h := cb.counts()
		ce.Write(
			zap.Stringer("kind", cb.kind()),
			zap.String("type", cb.typeName()),
			zap.Uint("strong", h.strong),
			zap.Uint("weak", h.weak),
		)
	}
}

// adoptBlock owns a separately allocated value and destroys it with del.
type adoptBlock[T any] struct {
	header
	ptr *T
	del func(*T)
}

func newAdoptBlock[T any](p *T, del func(*T)) *adoptBlock[T] {
	if del == nil {
		del = ownership.Delete[T]
	}
	b := &adoptBlock[T]{header: header{strong: 1}, ptr: p, del: del}
	blocksAdopted.Inc()
	logBlock(b, "control block allocated")
	return b
}

func (b *adoptBlock[T]) counts() *header  { return &b.header }
func (b *adoptBlock[T]) kind() blockKind  { return kindAdopt }
func (b *adoptBlock[T]) typeName() string { return typeName[T]() }

func (b *adoptBlock[T]) destroyValue() {
	p := b.ptr
	b.ptr = nil
	b.del(p)
}

func (b *adoptBlock[T]) release() {
	b.del = nil
}

// inplaceBlock embeds the value, so counts and value share one allocation.
// Destroying the value runs its destructor and zeroes the field; the field's
// storage goes away with the block.
type inplaceBlock[T any] struct {
	header
	value T
}

func newInplaceBlock[T any]() *inplaceBlock[T] {
	b := &inplaceBlock[T]{header: header{strong: 1}}
	blocksInPlace.Inc()
	return b
}

func (b *inplaceBlock[T]) counts() *header  { return &b.header }
func (b *inplaceBlock[T]) kind() blockKind  { return kindInPlace }
func (b *inplaceBlock[T]) typeName() string { return typeName[T]() }

func (b *inplaceBlock[T]) destroyValue() {
	ownership.Delete(&b.value)
}

func (b *inplaceBlock[T]) release() {}

func typeName[T any]() string {
	return fmt.Sprintf("%T", (*T)(nil))[1:]
}
