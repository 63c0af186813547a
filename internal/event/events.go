package event

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
)

// BodyCreated is published when a body joins the scene.
type BodyCreated struct {
	Entity ecs.Entity
	Name   string
}

// BodyDestroyed is published after a body's components have been cleared.
type BodyDestroyed struct {
	Entity ecs.Entity
}

// DestroyRequested asks the scene to destroy a body at end of tick.
type DestroyRequested struct {
	Entity ecs.Entity
}

// Collision reports two bodies whose surfaces overlap.
type Collision struct {
	A, B     ecs.Entity
	Distance float64
	Time     float64
}

// OrbitCompleted carries one completed revolution around the dominant attractor.
type OrbitCompleted struct {
	Entity   ecs.Entity
	Name     string
	Time     float64
	Position dynamo.Vec3
	Number   int
	Period   float64
}
