package object

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
)

// NDArray is a shape/stride/dtype view over a capsule-owned buffer, the
// optional n-dimensional array view the memory bridge (internal/memref)
// supplements the generic buffer protocol with.
//
// NDArray itself only carries the view's geometry; the backing bytes live
// in the Capsule it wraps, so the array's lifetime is exactly the
// capsule's lifetime.
type NDArray struct {
	Object
	capsule Capsule
	shape   []int
	strides []int
	dtype   string
}

// NewNDArray builds a view of shape/dtype over data, storing data inside a
// fresh Capsule (no destructor — the backing slice is host-owned Go
// memory, not a foreign resource needing cleanup) and computing
// C-contiguous (row-major) strides.
func NewNDArray(rt abi.Runtime, data any, shape []int, dtype string) NDArray {
	cap := NewCapsule(rt, data, nil)
	strides := make([]int, len(shape))
	stride := elemSize(dtype)
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return NDArray{Object: cap.Object, capsule: cap, shape: shape, strides: strides, dtype: dtype}
}

func elemSize(dtype string) int {
	switch dtype {
	case "float64", "int64":
		return 8
	case "float32", "int32":
		return 4
	case "int16":
		return 2
	case "int8", "uint8", "bool":
		return 1
	default:
		return 8
	}
}

// Shape returns the view's dimensions.
func (a NDArray) Shape() []int { return a.shape }

// Strides returns the view's per-dimension byte strides.
func (a NDArray) Strides() []int { return a.strides }

// Dtype returns the element type name.
func (a NDArray) Dtype() string { return a.dtype }

// NDim returns the number of dimensions.
func (a NDArray) NDim() int { return len(a.shape) }

// Capsule exposes the backing buffer's owning capsule.
func (a NDArray) Capsule() Capsule { return a.capsule }

// Offset computes the flat byte offset for a multi-index, bounds-checked
// against Shape.
func (a NDArray) Offset(index ...int) (int, error) {
	if len(index) != len(a.shape) {
		return 0, fmt.Errorf("NDArray.Offset: expected %d indices, got %d", len(a.shape), len(index))
	}
	off := 0
	for i, idx := range index {
		if idx < 0 || idx >= a.shape[i] {
			return 0, fmt.Errorf("NDArray.Offset: index %d out of range for dimension %d (size %d)", idx, i, a.shape[i])
		}
		off += idx * a.strides[i]
	}
	return off, nil
}
