// Package memref implements the lower-level plumbing of the binding
// core's memory bridge: wrapping foreign (non-Go-GC-owned) memory as a
// capsule with a safe destructor, and producing flat memoryview-style
// byte windows over it. internal/object.Capsule and internal/object.NDArray
// are the façades built on top of this package.
package memref

import (
	"fmt"
	"unsafe"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/object"
)

// Bridge wraps a foreign pointer p, known to hold n bytes, as a Capsule
// whose destructor calls free exactly once, when the capsule's own
// refcount reaches zero.
//
// free receives only the raw unsafe.Pointer payload, never a handle back
// to the capsule object itself, so there is no handle left to re-steal
// or double-release by the time it runs — the same payload-only
// destructor shape internal/rtscript.Runtime.finalize already enforces
// at the ABI level for every capsule and instance.
func Bridge(rt abi.Runtime, p unsafe.Pointer, n int, free func(unsafe.Pointer)) object.Capsule {
	bridged := object.NewCapsule(rt, p, func(payload any) {
		free(payload.(unsafe.Pointer))
	})
	return bridged
}

// BytesAt reinterprets a foreign pointer's memory as a byte slice of n
// bytes, for building a View over memory a Bridge capsule owns rather
// than a Go-GC-owned slice. The returned slice is only valid for as
// long as the backing capsule is alive — callers must keep the capsule
// (or an object holding it) referenced for the slice's lifetime.
func BytesAt(p unsafe.Pointer, n int) []byte {
	return unsafe.Slice((*byte)(p), n)
}

// formatSizes maps the struct-module-style format codes a buffer
// export uses to their element size in bytes.
var formatSizes = map[string]int{
	"b": 1, "B": 1, "c": 1, "?": 1,
	"h": 2, "H": 2,
	"i": 4, "I": 4, "l": 4, "L": 4, "f": 4,
	"q": 8, "Q": 8, "d": 8,
}

// FormatSize returns the element size in bytes for a buffer-protocol
// format code, or an error if the code is unrecognized.
func FormatSize(format string) (int, error) {
	n, ok := formatSizes[format]
	if !ok {
		return 0, fmt.Errorf("memref: unknown buffer format %q", format)
	}
	return n, nil
}

// View is a flat, typed window over a capsule-owned buffer, carrying the
// element format and read-only flag a buffer-protocol export carries
// alongside its raw bytes.
type View struct {
	buf      []byte
	format   string
	itemsize int
	readonly bool
	owner    object.Capsule
}

// NewView builds a View of format over data, with data's lifetime tied
// to owner. readonly set means Bytes returns a defensive copy rather
// than the backing slice itself.
func NewView(owner object.Capsule, data []byte, format string, readonly bool) (View, error) {
	itemsize, err := FormatSize(format)
	if err != nil {
		return View{}, err
	}
	if len(data)%itemsize != 0 {
		return View{}, fmt.Errorf("memref: buffer length %d not a multiple of item size %d", len(data), itemsize)
	}
	return View{buf: data, format: format, itemsize: itemsize, readonly: readonly, owner: owner}, nil
}

// Bytes returns the view's backing bytes. For a read-only view this is
// a defensive copy; the caller may freely mutate it without affecting
// the underlying buffer.
func (v View) Bytes() []byte {
	if !v.readonly {
		return v.buf
	}
	cp := make([]byte, len(v.buf))
	copy(cp, v.buf)
	return cp
}

// Len returns the number of elements the view covers.
func (v View) Len() int { return len(v.buf) / v.itemsize }

// Format returns the view's buffer-protocol format code.
func (v View) Format() string { return v.format }

// ItemSize returns the view's per-element size in bytes.
func (v View) ItemSize() int { return v.itemsize }

// ReadOnly reports whether the view forbids mutation.
func (v View) ReadOnly() bool { return v.readonly }

// Owner exposes the capsule keeping the view's backing memory alive.
func (v View) Owner() object.Capsule { return v.owner }

// Slice returns the sub-view covering elements [lo, hi), bounds-checked
// against Len.
func (v View) Slice(lo, hi int) (View, error) {
	if lo < 0 || hi > v.Len() || lo > hi {
		return View{}, fmt.Errorf("memref: slice [%d:%d] out of range for view of length %d", lo, hi, v.Len())
	}
	return View{
		buf:      v.buf[lo*v.itemsize : hi*v.itemsize],
		format:   v.format,
		itemsize: v.itemsize,
		readonly: v.readonly,
		owner:    v.owner,
	}, nil
}
