package stack

import "encoding/binary"

// RegisterSet is a map-backed Registers implementation for tools and
// tests.
type RegisterSet struct {
	Values map[int]uint64
	Base   uint64
}

// Get returns the value of register n.
func (r *RegisterSet) Get(n int) (uint64, bool) {
	v, ok := r.Values[n]
	return v, ok
}

// FrameBase returns the frame base address.
func (r *RegisterSet) FrameBase() uint64 {
	return r.Base
}

// SliceMemory serves reads from one contiguous byte slice mapped at
// Base. Multi-byte reads decode the bytes as little-endian, whatever the
// host byte order.
type SliceMemory struct {
	Base uint64
	Data []byte
}

// ReadUint8 reads one byte at addr.
func (m *SliceMemory) ReadUint8(addr uint64) (byte, bool) {
	if addr < m.Base || addr-m.Base >= uint64(len(m.Data)) {
		return 0, false
	}
	return m.Data[addr-m.Base], true
}

// ReadUint64 reads eight bytes at addr.
func (m *SliceMemory) ReadUint64(addr uint64) (uint64, bool) {
	if addr < m.Base {
		return 0, false
	}
	off := addr - m.Base
	if off >= uint64(len(m.Data)) || uint64(len(m.Data))-off < 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(m.Data[off:]), true
}
