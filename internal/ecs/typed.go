package ecs

import "unsafe"

// Add stores v as e's component of kind and returns a pointer into the column.
// T must be pointer-free: the column is plain bytes and is not scanned by the GC.
func Add[T any](w *World, e Entity, kind Kind, v T) (*T, error) {
	view, err := w.AddComponent(e, kind, bytesOf(&v))
	if err != nil {
		return nil, err
	}
	return (*T)(unsafe.Pointer(&view[0])), nil
}

// Get returns a pointer to e's component of kind, or nil when absent or when
// the kind's width does not match T.
func Get[T any](w *World, e Entity, kind Kind) *T {
	view := w.GetComponent(e, kind)
	var zero T
	if len(view) == 0 || len(view) != int(unsafe.Sizeof(zero)) {
		return nil
	}
	return (*T)(unsafe.Pointer(&view[0]))
}

// Bytes returns the in-memory representation of v.
func Bytes[T any](v *T) []byte {
	return bytesOf(v)
}

func bytesOf[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), size)
}
