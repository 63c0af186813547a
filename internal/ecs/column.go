package ecs

// column is the storage of one component kind: a dense byte array with one
// fixed-width slot per entity id, plus a parallel presence array.
type column struct {
	width   int
	data    []byte
	present []bool
	count   int
}

func newColumn(width, capacity int) *column {
	return &column{
		width:   width,
		data:    make([]byte, (capacity+1)*width),
		present: make([]bool, capacity+1),
	}
}

// slot returns the full-capacity-limited view of entity e's bytes.
func (c *column) slot(e Entity) []byte {
	off := int(e) * c.width
	return c.data[off : off+c.width : off+c.width]
}

func (c *column) set(e Entity, b []byte) []byte {
	s := c.slot(e)
	copy(s, b)
	if !c.present[e] {
		c.present[e] = true
		c.count++
	}
	return s
}

func (c *column) unset(e Entity) {
	if c.present[e] {
		c.present[e] = false
		c.count--
	}
}
