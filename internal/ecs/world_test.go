package ecs

import (
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testPos struct {
	X, Y, Z float64
}

type testMass struct {
	M float64
}

const (
	kindPos Kind = iota
	kindMass
	kindTag
)

func TestCreateEntity(t *testing.T) {
	w := NewWorld(nil)
	e, err := w.CreateEntity()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if e == Invalid {
		t.Fatal("expected non-zero entity")
	}
	if !w.Alive(e) {
		t.Fatal("expected entity to be alive after creation")
	}
	if w.Alive(Invalid) {
		t.Fatal("the reserved entity must never be alive")
	}
}

func TestComponentRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		data []byte
	}{
		{"one byte", kindTag, []byte{0x7f}},
		{"odd width", kindMass, []byte{1, 2, 3, 4, 5}},
		{"wide", kindPos, bytes.Repeat([]byte{0xab, 0xcd}, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(nil)
			e, _ := w.CreateEntity()

			if _, err := w.AddComponent(e, tt.kind, tt.data); err != nil {
				t.Fatalf("add failed: %v", err)
			}
			got := w.GetComponent(e, tt.kind)
			if !bytes.Equal(got, tt.data) {
				t.Errorf("GetComponent = %v, want %v", got, tt.data)
			}
		})
	}
}

func TestAddComponentCopiesInput(t *testing.T) {
	w := NewWorld(nil)
	e, _ := w.CreateEntity()

	data := []byte{1, 2, 3}
	view, err := w.AddComponent(e, kindTag, data)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	data[0] = 99
	if view[0] != 1 {
		t.Error("stored bytes alias the caller's buffer")
	}

	view[1] = 42
	if w.GetComponent(e, kindTag)[1] != 42 {
		t.Error("returned view does not alias the column")
	}
}

func TestWidthMismatchRejected(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := NewWorld(zap.New(core))

	a, _ := w.CreateEntity()
	b, _ := w.CreateEntity()

	if _, err := w.AddComponent(a, kindMass, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	view, err := w.AddComponent(b, kindMass, []byte{1, 2})
	if !errors.Is(err, ErrWidthMismatch) {
		t.Fatalf("expected ErrWidthMismatch, got %v", err)
	}
	if view != nil {
		t.Error("rejected add returned a view")
	}
	if w.Has(b, kindMass) {
		t.Error("rejected add left a partial write")
	}
	if logs.FilterMessage("component width mismatch").Len() != 1 {
		t.Error("width mismatch was not logged")
	}

	if width, ok := w.Width(kindMass); !ok || width != 4 {
		t.Errorf("width = %d, %v; want 4, true", width, ok)
	}
}

func TestAddToInvalidEntity(t *testing.T) {
	w := NewWorld(nil)

	for _, e := range []Entity{Invalid, 5, MaxEntities + 10} {
		if _, err := w.AddComponent(e, kindTag, []byte{1}); !errors.Is(err, ErrInvalidEntity) {
			t.Errorf("entity %d: expected ErrInvalidEntity, got %v", e, err)
		}
	}
}

func TestRemoveComponent(t *testing.T) {
	w := NewWorld(nil)
	e, _ := w.CreateEntity()
	w.AddComponent(e, kindTag, []byte{5})

	w.RemoveComponent(e, kindTag)

	if w.GetComponent(e, kindTag) != nil {
		t.Fatal("component should be nil after Remove")
	}
	if w.KindCount(kindTag) != 0 {
		t.Errorf("kind count = %d, want 0", w.KindCount(kindTag))
	}
}

func TestRemoveNonexistentIsNoop(t *testing.T) {
	w := NewWorld(nil)
	e, _ := w.CreateEntity()
	w.RemoveComponent(e, Kind(40))
	w.RemoveComponent(Invalid, kindTag)
}

func TestDestroyEntityClearsAllKinds(t *testing.T) {
	w := NewWorld(nil)
	e, _ := w.CreateEntity()
	other, _ := w.CreateEntity()

	Add(w, e, kindPos, testPos{1, 2, 3})
	Add(w, e, kindMass, testMass{4})
	Add(w, other, kindMass, testMass{9})

	w.DestroyEntity(e)

	masks := []Mask{
		MaskOf(kindPos),
		MaskOf(kindMass),
		MaskOf(kindPos, kindMass),
		0,
	}
	for _, m := range masks {
		if w.HasAll(e, m) {
			t.Errorf("HasAll(destroyed, %b) = true", m)
		}
	}
	if w.Alive(e) {
		t.Error("entity should not be alive after DestroyEntity")
	}
	if got := Get[testMass](w, other, kindMass); got == nil || got.M != 9 {
		t.Error("destroying one entity disturbed another")
	}
	if w.Count() != 1 {
		t.Errorf("Count = %d, want 1", w.Count())
	}
}

func TestDestroyedIDsAreNotReused(t *testing.T) {
	w := NewWorldSize(3, nil)
	a, _ := w.CreateEntity()
	w.DestroyEntity(a)

	b, _ := w.CreateEntity()
	if b == a {
		t.Fatalf("destroyed id %d was reused", a)
	}
	w.CreateEntity()
	if _, err := w.CreateEntity(); !errors.Is(err, ErrEntityLimit) {
		t.Errorf("expected exhaustion after capacity lifetime creations, got %v", err)
	}
}

func TestCapacityBoundary(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := NewWorld(zap.New(core))

	created := make([]Entity, 0, MaxEntities)
	for i := 0; i < MaxEntities; i++ {
		e, err := w.CreateEntity()
		if err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
		if _, err := Add(w, e, kindMass, testMass{float64(i)}); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
		created = append(created, e)
	}

	e, err := w.CreateEntity()
	if e != Invalid || !errors.Is(err, ErrEntityLimit) {
		t.Fatalf("create beyond capacity = (%d, %v), want (Invalid, ErrEntityLimit)", e, err)
	}
	if logs.FilterMessage("entity table exhausted").Len() != 1 {
		t.Error("exhaustion was not logged")
	}

	for i, e := range created {
		m := Get[testMass](w, e, kindMass)
		if m == nil || m.M != float64(i) {
			t.Fatalf("entity %d lost its component after exhaustion", e)
		}
	}
}

func TestTypedHelpers(t *testing.T) {
	w := NewWorld(nil)
	e, _ := w.CreateEntity()

	p, err := Add(w, e, kindPos, testPos{1, 2, 3})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	p.X = 10

	got := Get[testPos](w, e, kindPos)
	if got == nil || *got != (testPos{10, 2, 3}) {
		t.Errorf("Get = %v, want {10 2 3}", got)
	}

	if Get[testMass](w, e, kindPos) != nil {
		t.Error("Get with a mismatched type width should return nil")
	}
	if _, err := Add(w, e, kindPos, testMass{1}); !errors.Is(err, ErrWidthMismatch) {
		t.Errorf("expected width mismatch for differently sized type, got %v", err)
	}
}

func TestImageRoundTrip(t *testing.T) {
	w := NewWorldSize(16, nil)
	a, _ := w.CreateEntity()
	b, _ := w.CreateEntity()
	c, _ := w.CreateEntity()
	Add(w, a, kindPos, testPos{1, 2, 3})
	Add(w, b, kindPos, testPos{4, 5, 6})
	Add(w, b, kindMass, testMass{7})
	w.DestroyEntity(c)

	restored, err := FromImage(w.Image(), nil)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	if restored.Count() != 2 || restored.Issued() != 3 {
		t.Errorf("count/issued = %d/%d, want 2/3", restored.Count(), restored.Issued())
	}
	if restored.Alive(c) {
		t.Error("destroyed entity came back alive")
	}
	if got := Get[testPos](restored, b, kindPos); got == nil || *got != (testPos{4, 5, 6}) {
		t.Errorf("restored position = %v", got)
	}
	next, _ := restored.CreateEntity()
	if next != 4 {
		t.Errorf("restored counter handed out %d, want 4", next)
	}
}

func TestFromImageRejectsCorruption(t *testing.T) {
	w := NewWorldSize(8, nil)
	e, _ := w.CreateEntity()
	Add(w, e, kindMass, testMass{1})

	img := w.Image()
	img.Columns[0].Data = img.Columns[0].Data[:3]

	if _, err := FromImage(img, nil); !errors.Is(err, ErrCorruptImage) {
		t.Errorf("expected ErrCorruptImage, got %v", err)
	}
}
