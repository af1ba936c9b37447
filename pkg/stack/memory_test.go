package stack

import "testing"

func TestSliceMemory(t *testing.T) {
	m := &SliceMemory{
		Base: 0x1000,
		Data: []byte{0x2a, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xee},
	}

	b, ok := m.ReadUint8(0x1008)
	if !ok || b != 0xff {
		t.Errorf("ReadUint8(0x1008) = (%#x, %v), expected (0xff, true)", b, ok)
	}
	if _, ok := m.ReadUint8(0x0fff); ok {
		t.Error("expected read below base to fail")
	}
	if _, ok := m.ReadUint8(0x100a); ok {
		t.Error("expected read past end to fail")
	}

	v, ok := m.ReadUint64(0x1000)
	if !ok || v != 0x2a {
		t.Errorf("ReadUint64(0x1000) = (%#x, %v), expected (0x2a, true)", v, ok)
	}
	if _, ok := m.ReadUint64(0x1003); ok {
		t.Error("expected short read to fail")
	}
}

func TestFrameRegValue(t *testing.T) {
	frame := &Frame{}
	if _, ok := frame.RegValue(0); ok {
		t.Error("expected RegValue without register context to fail")
	}
	if base := frame.FrameBase(); base != 0 {
		t.Errorf("FrameBase without register context = %#x, expected 0", base)
	}

	frame.Regs = &RegisterSet{Values: map[int]uint64{3: 0x7}, Base: 0x2000}
	v, ok := frame.RegValue(3)
	if !ok || v != 0x7 {
		t.Errorf("RegValue(3) = (%#x, %v), expected (0x7, true)", v, ok)
	}
	if base := frame.FrameBase(); base != 0x2000 {
		t.Errorf("FrameBase = %#x, expected 0x2000", base)
	}
}
