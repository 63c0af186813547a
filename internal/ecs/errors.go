package ecs

import "errors"

var (
	// ErrEntityLimit indicates the entity table is exhausted.
	ErrEntityLimit = errors.New("ecs: entity limit reached")

	// ErrInvalidEntity indicates a zero, out-of-range or destroyed entity.
	ErrInvalidEntity = errors.New("ecs: invalid entity")

	// ErrUnknownKind indicates a component kind outside [0, MaxKinds).
	ErrUnknownKind = errors.New("ecs: unknown component kind")

	// ErrWidthMismatch indicates a write whose byte width disagrees with the
	// width the kind was established with.
	ErrWidthMismatch = errors.New("ecs: component width mismatch")

	// ErrCorruptImage indicates a world image that fails validation.
	ErrCorruptImage = errors.New("ecs: corrupt world image")
)
