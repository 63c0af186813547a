package persist

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/scene"
)

const slotObject = "worlds"

var ErrNoSlot = errors.New("persist: save slot not found")

// Slots stores named world saves in the per-user application data directory.
type Slots struct {
	m   *gdata.Manager
	log *zap.Logger
}

func OpenSlots(appName string, log *zap.Logger) (*Slots, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open save slots: %w", err)
	}
	return &Slots{m: m, log: log}, nil
}

func (sl *Slots) Exists(slot string) bool {
	return sl.m.ObjectPropExists(slotObject, slot)
}

func (sl *Slots) Save(slot string, s *scene.Scene) error {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return err
	}
	if err := sl.m.SaveObjectProp(slotObject, slot, buf.Bytes()); err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	sl.log.Info("world saved", zap.String("slot", slot), zap.Int("bytes", buf.Len()), zap.Int("step", s.Steps()))
	return nil
}

func (sl *Slots) Load(slot string, s *scene.Scene) error {
	if !sl.Exists(slot) {
		return fmt.Errorf("%w: %s", ErrNoSlot, slot)
	}
	data, err := sl.m.LoadObjectProp(slotObject, slot)
	if err != nil {
		return fmt.Errorf("load slot %s: %w", slot, err)
	}
	b, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if err := Restore(b, s); err != nil {
		return err
	}
	sl.log.Info("world loaded", zap.String("slot", slot), zap.Int("step", s.Steps()))
	return nil
}
