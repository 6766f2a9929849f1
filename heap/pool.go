package heap

import (
	"errors"
	"fmt"
)

var (
	// ErrValueTooLarge is returned when a value does not fit into an empty block.
	ErrValueTooLarge = errors.New("value exceeds block capacity")

	// ErrNotFound is returned when a handle does not resolve inside the pool.
	ErrNotFound = errors.New("handle not found in pool")
)

// Pool is an append-only sequence of blocks with stable, dense ids.
//
// The zero value is not usable; create pools with NewPool.
type Pool struct {
	blocks []*block

	// open is the index of the first block with any free space left. Every
	// block before it is full, so first-fit scans can start here.
	open int
}

// Stats describes the physical usage of a pool.
type Stats struct {
	Blocks    int
	UsedBytes int
	FreeBytes int
}

// NewPool creates an empty pool. The first block is created by the first allocation.
func NewPool() *Pool {
	return &Pool{}
}

// Allocate copies value into the first block that can hold it, creating a new
// block when none can, and returns the handle of the stored copy.
func (p *Pool) Allocate(value []byte) (Handle, error) {
	if len(value) > BlockDataSize {
		return Handle{}, fmt.Errorf("%w: %d bytes (max %d)", ErrValueTooLarge, len(value), BlockDataSize)
	}

	id := p.freeBlock(len(value))
	off := p.blocks[id].allocate(value)
	p.advanceOpen()

	return Handle{block: uint32(id), off: off}, nil
}

// freeBlock returns the id of the oldest block that can fit size bytes,
// appending a new block when there is none.
func (p *Pool) freeBlock(size int) int {
	if size == 0 && len(p.blocks) > 0 {
		return 0
	}
	for i := p.open; i < len(p.blocks); i++ {
		if p.blocks[i].canAllocate(size) {
			return i
		}
	}
	return p.grow()
}

func (p *Pool) grow() int {
	id := len(p.blocks)
	p.blocks = append(p.blocks, newBlock(id))
	return id
}

func (p *Pool) advanceOpen() {
	for p.open < len(p.blocks) && p.blocks[p.open].remaining() == 0 {
		p.open++
	}
}

// Read returns the bytes addressed by h. The returned slice aliases pool
// memory and must not be modified.
func (p *Pool) Read(h Handle) ([]byte, error) {
	id := h.Block()
	if id >= len(p.blocks) {
		return nil, fmt.Errorf("%w: block %d (pool has %d)", ErrNotFound, id, len(p.blocks))
	}

	value, ok := p.blocks[id].read(h.off)
	if !ok {
		return nil, fmt.Errorf("%w: range %d+%d outside block %d", ErrNotFound, h.Start(), h.Len(), id)
	}
	return value, nil
}

// Blocks returns the number of blocks in the pool.
func (p *Pool) Blocks() int {
	return len(p.blocks)
}

// Stats reports block count and byte usage.
func (p *Pool) Stats() Stats {
	s := Stats{Blocks: len(p.blocks)}
	for _, b := range p.blocks {
		s.UsedBytes += int(b.free)
		s.FreeBytes += b.remaining()
	}
	return s
}
