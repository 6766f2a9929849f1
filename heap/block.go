// Package heap provides the append-only byte arena used as physical column storage.
//
// A Pool is an ordered list of fixed-size blocks. Values are copied into the
// first block with enough free space (bump allocation) and are addressed by a
// Handle: the block id plus a packed (start, length) offset. Written bytes are
// never updated, freed or moved.
//
// Example usage:
//
//	pool := heap.NewPool()
//	h, err := pool.Allocate([]byte("alice"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	value, err := pool.Read(h)
package heap

const (
	// BlockSize is the in-memory footprint of one block, header included.
	BlockSize = 8192

	// blockHeaderSize covers the block id and the free offset.
	blockHeaderSize = 8 + 2

	// BlockDataSize is the number of value bytes a single block can hold.
	// A value larger than this cannot be stored.
	BlockDataSize = BlockSize - blockHeaderSize
)

// block is one fixed-capacity region of a pool.
type block struct {
	id   uint64
	free uint16
	data [BlockDataSize]byte
}

func newBlock(id int) *block {
	return &block{id: uint64(id)}
}

// canAllocate reports whether size more bytes fit behind the free offset.
func (b *block) canAllocate(size int) bool {
	return int(b.free)+size <= len(b.data)
}

// remaining returns the number of unused bytes.
func (b *block) remaining() int {
	return len(b.data) - int(b.free)
}

// allocate copies value behind the free offset. Callers check canAllocate first.
func (b *block) allocate(value []byte) offset {
	start := b.free
	copy(b.data[start:], value)
	b.free += uint16(len(value))
	return newOffset(start, uint16(len(value)))
}

func (b *block) read(off offset) ([]byte, bool) {
	start, length := off.start(), off.length()
	if start+length > len(b.data) {
		return nil, false
	}
	return b.data[start : start+length : start+length], true
}
