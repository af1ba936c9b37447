package winframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFromStringFrameData(t *testing.T) {
	fi, rva, codeSize, ok := ParseFromString("4 28e9 16 0 0 4 0 8 0 1 $T0 $ebp = $eip $T0 4 + ^ =")
	require.True(t, ok)

	assert.Equal(t, StackInfoFrameData, fi.Type)
	assert.Equal(t, ValidAll, fi.Valid)
	assert.Equal(t, uint64(0x28e9), rva)
	assert.Equal(t, uint64(0x16), codeSize)
	assert.Equal(t, uint32(4), fi.ParameterSize)
	assert.Equal(t, uint32(8), fi.LocalSize)
	assert.Equal(t, "$T0 $ebp = $eip $T0 4 + ^ =", fi.ProgramString)
	assert.False(t, fi.AllocatesBasePointer)
}

func TestParseFromStringFPO(t *testing.T) {
	fi, rva, codeSize, ok := ParseFromString("0 41b0 86 3 0 8 4 10 0 0 1")
	require.True(t, ok)

	assert.Equal(t, StackInfoFPO, fi.Type)
	assert.Equal(t, uint64(0x41b0), rva)
	assert.Equal(t, uint64(0x86), codeSize)
	assert.Equal(t, uint32(3), fi.PrologSize)
	assert.Equal(t, uint32(8), fi.ParameterSize)
	assert.Equal(t, uint32(4), fi.SavedRegisterSize)
	assert.Equal(t, uint32(0x10), fi.LocalSize)
	assert.Empty(t, fi.ProgramString)
	assert.True(t, fi.AllocatesBasePointer)
}

func TestParseFromStringRejects(t *testing.T) {
	cases := []string{
		"",
		"4 28e9 16 0 0 4 0 8 0 1",      // missing program tail
		"9 28e9 16 0 0 4 0 8 0 0 0",    // unknown type
		"4 zzzz 16 0 0 4 0 8 0 0 0",    // bad rva
		"4 28e9 16 0 0 4 0 8 0 zz 0",   // bad has_program
		"0 41b0 86 3 0 8 4 10 0 0 zz",  // bad allocates_base_pointer
	}

	for _, payload := range cases {
		_, _, _, ok := ParseFromString(payload)
		assert.False(t, ok, "payload %q", payload)
	}
}
