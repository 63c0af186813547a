package ecs

import (
	"fmt"

	"go.uber.org/zap"
)

// Image is a self-contained copy of a World's store contents.
type Image struct {
	Capacity int
	Next     uint32
	Alive    []bool
	Columns  []ColumnImage
}

// ColumnImage holds one established kind. Data covers ids [0, Next).
type ColumnImage struct {
	Kind    Kind
	Width   int
	Data    []byte
	Present []bool
}

// Image copies the store. The copy shares no memory with the World.
func (w *World) Image() Image {
	n := int(w.next)
	img := Image{
		Capacity: w.capacity,
		Next:     uint32(w.next),
		Alive:    append([]bool(nil), w.alive[:n]...),
	}
	for k, c := range w.columns {
		if c == nil {
			continue
		}
		img.Columns = append(img.Columns, ColumnImage{
			Kind:    Kind(k),
			Width:   c.width,
			Data:    append([]byte(nil), c.data[:n*c.width]...),
			Present: append([]bool(nil), c.present[:n]...),
		})
	}
	return img
}

// FromImage rebuilds a World from img. Nothing is returned unless the whole
// image validates.
func FromImage(img Image, log *zap.Logger) (*World, error) {
	if img.Capacity < 1 || img.Next < 1 || int(img.Next) > img.Capacity+1 {
		return nil, fmt.Errorf("%w: capacity %d next %d", ErrCorruptImage, img.Capacity, img.Next)
	}
	n := int(img.Next)
	if len(img.Alive) != n {
		return nil, fmt.Errorf("%w: alive table has %d entries, want %d", ErrCorruptImage, len(img.Alive), n)
	}

	w := NewWorldSize(img.Capacity, log)
	w.next = Entity(img.Next)
	copy(w.alive, img.Alive)
	for e := 1; e < n; e++ {
		if w.alive[e] {
			w.live++
		}
	}

	for _, ci := range img.Columns {
		if int(ci.Kind) >= MaxKinds || ci.Width <= 0 {
			return nil, fmt.Errorf("%w: kind %d width %d", ErrCorruptImage, ci.Kind, ci.Width)
		}
		if w.columns[ci.Kind] != nil {
			return nil, fmt.Errorf("%w: duplicate kind %d", ErrCorruptImage, ci.Kind)
		}
		if len(ci.Data) != n*ci.Width || len(ci.Present) != n {
			return nil, fmt.Errorf("%w: kind %d has mismatched lengths", ErrCorruptImage, ci.Kind)
		}
		c := newColumn(ci.Width, img.Capacity)
		copy(c.data, ci.Data)
		for e := 1; e < n; e++ {
			if ci.Present[e] && w.alive[e] {
				c.present[e] = true
				c.count++
			}
		}
		w.columns[ci.Kind] = c
	}
	return w, nil
}
