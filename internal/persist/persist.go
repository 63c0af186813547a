// Package persist saves and restores a scene's world as an opaque gob blob.
// Loads are all-or-nothing: the scene is touched only after the whole blob
// has been decoded and validated.
package persist

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/scene"
)

// Version is bumped whenever the blob layout changes.
const Version = 1

var ErrVersion = errors.New("persist: incompatible save version")

// Blob is the encoded form of a world.
type Blob struct {
	Version int
	SavedAt int64
	Time    float64
	Steps   int
	Names   map[ecs.Entity]string
	World   ecs.Image
}

// Capture copies s into a Blob.
func Capture(s *scene.Scene) *Blob {
	return &Blob{
		Version: Version,
		SavedAt: time.Now().Unix(),
		Time:    s.Time(),
		Steps:   s.Steps(),
		Names:   s.Names(),
		World:   s.World().Image(),
	}
}

// Restore rebuilds the world from b and swaps it into s. On error s is
// unchanged.
func Restore(b *Blob, s *scene.Scene) error {
	if b.Version != Version {
		return fmt.Errorf("%w: %d (expected %d)", ErrVersion, b.Version, Version)
	}
	return s.Restore(b.World, b.Names, b.Time, b.Steps)
}

func Encode(out io.Writer, s *scene.Scene) error {
	if err := gob.NewEncoder(out).Encode(Capture(s)); err != nil {
		return fmt.Errorf("failed to encode world: %w", err)
	}
	return nil
}

func Decode(in io.Reader) (*Blob, error) {
	var b Blob
	if err := gob.NewDecoder(in).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode world: %w", err)
	}
	return &b, nil
}

// SaveWorld writes s to path. The blob is written to a temporary file in the
// same directory and renamed over path, so a failed save leaves any previous
// file intact.
func SaveWorld(path string, s *scene.Scene) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".world-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create save file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// LoadWorld restores path into s.
func LoadWorld(path string, s *scene.Scene) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open save file: %w", err)
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return err
	}
	return Restore(b, s)
}
