package heap

import "fmt"

const (
	offsetStartMask  uint32 = 1<<16 - 1
	offsetLengthMask        = ^offsetStartMask
)

// offset packs a byte range inside one block: bits 0..15 hold the start,
// bits 16..31 the length.
type offset uint32

func newOffset(start, length uint16) offset {
	return offset(uint32(start) | uint32(length)<<16)
}

func (o offset) start() int {
	return int(uint32(o) & offsetStartMask)
}

func (o offset) length() int {
	return int((uint32(o) & offsetLengthMask) >> 16)
}

// Handle locates one value inside the Pool that allocated it.
//
// Handles are only produced by Pool.Allocate. A Handle carries no reference to
// its pool, so it must always travel together with whatever identifies the
// pool (the column index in a working set).
type Handle struct {
	block uint32
	off   offset
}

// Block returns the id of the block holding the value.
func (h Handle) Block() int {
	return int(h.block)
}

// Start returns the byte offset of the value inside its block.
func (h Handle) Start() int {
	return h.off.start()
}

// Len returns the length of the value in bytes.
func (h Handle) Len() int {
	return h.off.length()
}

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d+%d", h.block, h.Start(), h.Len())
}
