package ecs

// MaxEntities bounds the number of entities a World hands out over its lifetime.
const MaxEntities = 10000

// Entity is an opaque, strictly positive handle. Zero is reserved.
type Entity uint32

// Invalid is the reserved "no entity" value.
const Invalid Entity = 0

func (e Entity) Valid() bool { return e != Invalid }
