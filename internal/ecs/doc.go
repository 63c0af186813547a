// Package ecs is the component store and query engine of the simulation.
//
// Entities are strictly positive integer handles handed out from a single
// monotonic counter bounded by [MaxEntities]. Component data lives in one
// fixed-capacity column per [Kind]: a dense byte array sized to the entity
// capacity plus a parallel presence array. The byte width of a kind is fixed
// by the first write; later writes of a different width are rejected.
//
// Two query modes exist:
//
//   - [Immediate]: a cursor over the live entity range that re-tests the mask
//     on every Next call.
//   - [Cached]: an order-stable slice materialized once, safe to iterate many
//     times. It is a point-in-time snapshot and must be rebuilt with
//     [Query.Rebuild] after entity or component membership changes.
//
// The typed helpers [Add] and [Get] view columns as Go structs. Component
// structs stored this way must not contain pointers, slices, maps or strings.
package ecs
