// Package registry allocates opaque handles for every long-lived API
// object. A handle packs a slot index and a generation counter into a
// single 64-bit value; a handle is valid only while the slot at its index
// still carries the same generation. Destroying an object bumps the slot's
// generation before the slot is reissued, so stale handles are detectably
// invalid and can never alias a newer object.
package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandle reports a stale, unknown, or wrong-kind handle.
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrExhausted reports that no more objects can be allocated.
	ErrExhausted = errors.New("resource exhausted")
)

// Kind identifies the API object type a handle refers to.
type Kind uint8

const (
	KindSurface Kind = iota + 1
	KindGraphics
	KindImage
	KindGeometry
	KindMaterial
	KindFont
)

func (k Kind) String() string {
	switch k {
	case KindSurface:
		return "surface"
	case KindGraphics:
		return "graphics"
	case KindImage:
		return "image"
	case KindGeometry:
		return "geometry"
	case KindMaterial:
		return "material"
	case KindFont:
		return "font"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Handle is an opaque object identifier. Index lives in the low 32 bits,
// generation in the high 32. The zero value is never a valid handle
// (generations start at 1).
type Handle uint64

func pack(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) index() uint32      { return uint32(h) }
func (h Handle) generation() uint32 { return uint32(h >> 32) }

// Bits returns the raw 64-bit value for crossing a foreign boundary.
func (h Handle) Bits() uint64 { return uint64(h) }

// FromBits reconstructs a handle from its raw value.
func FromBits(v uint64) Handle { return Handle(v) }

type slot struct {
	generation uint32
	kind       Kind
	live       bool
	payload    any
}

// Registry is a dense arena of object slots with a free list. Freed slots
// are reissued only with an incremented generation. Owned by the designated
// engine goroutine; no locking.
type Registry struct {
	slots    []slot
	free     []uint32
	capacity int
}

// New creates a registry that can hold at most capacity live objects.
func New(capacity int) *Registry {
	return &Registry{capacity: capacity}
}

// Create allocates a slot for payload and returns its handle.
func (r *Registry) Create(kind Kind, payload any) (Handle, error) {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		s := &r.slots[idx]
		s.kind = kind
		s.live = true
		s.payload = payload
		return pack(idx, s.generation), nil
	}
	if len(r.slots) >= r.capacity {
		return 0, fmt.Errorf("%w: registry full (%d objects)", ErrExhausted, r.capacity)
	}
	idx := uint32(len(r.slots))
	r.slots = append(r.slots, slot{generation: 1, kind: kind, live: true, payload: payload})
	return pack(idx, 1), nil
}

// Resolve validates h against kind and returns the slot's payload.
func (r *Registry) Resolve(h Handle, kind Kind) (any, error) {
	s, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	if s.kind != kind {
		return nil, fmt.Errorf("%w: handle is a %s, want %s", ErrInvalidHandle, s.kind, kind)
	}
	return s.payload, nil
}

// Destroy invalidates h and returns its payload so the caller can release
// native resources. A second destroy of the same handle is an error, not a
// no-op: it surfaces use-after-free bugs in callers.
func (r *Registry) Destroy(h Handle) (any, error) {
	s, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	payload := s.payload
	s.payload = nil
	s.live = false
	s.generation++
	r.free = append(r.free, h.index())
	return payload, nil
}

// Live returns the number of live objects.
func (r *Registry) Live() int {
	return len(r.slots) - len(r.free)
}

func (r *Registry) lookup(h Handle) (*slot, error) {
	idx := h.index()
	if int(idx) >= len(r.slots) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidHandle, idx)
	}
	s := &r.slots[idx]
	if !s.live || s.generation != h.generation() {
		return nil, fmt.Errorf("%w: object already destroyed", ErrInvalidHandle)
	}
	return s, nil
}
