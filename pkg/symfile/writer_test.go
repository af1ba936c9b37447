package symfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpRoundTrip(t *testing.T) {
	input := strings.Join([]string{
		"FILE 1 /a/b.c",
		"FILE 2 /c/d.c",
		"FUNC 100 20 4 foo#1#int@4@n@50",
		"110 4 42 1",
		"114 8 43 2",
		"FUNC 200 10 0 operator new(unsigned long)",
		"PUBLIC 300 8 bar",
		"STACK WIN 0 400 20 3 0 4 4 8 0 0 1",
		"STACK WIN 4 440 20 3 0 8 4 8 0 1 $T0 $ebp = $eip $T0 4 + ^ =",
		"STACK CFI INIT 500 40 .cfa: rsp 8 + .ra: .cfa -8 ^",
		"STACK CFI 510 rbx: .cfa -16 ^",
		"",
	}, "\n")

	m := loadModule(t, input)
	require.False(t, m.IsCorrupt())

	var out bytes.Buffer
	require.NoError(t, m.Dump(&out))

	// reparsing the dump yields the same records
	m2 := New("roundtrip")
	require.True(t, m2.LoadFromMemory(out.Bytes()))
	require.False(t, m2.IsCorrupt())

	var out2 bytes.Buffer
	require.NoError(t, m2.Dump(&out2))
	assert.Equal(t, out.String(), out2.String())

	fns := m2.Functions()
	require.Len(t, fns, 2)
	assert.Equal(t, "foo", fns[0].Name)
	require.Len(t, fns[0].Params, 1)
	assert.Equal(t, 2, fns[0].Lines.Len())
	assert.Equal(t, "operator new(unsigned long)", fns[1].Name)

	frame := newFrame(testModuleBase + 0x445)
	fi := m2.FindWindowsFrameInfo(frame)
	require.NotNil(t, fi)
	assert.Equal(t, "$T0 $ebp = $eip $T0 4 + ^ =", fi.ProgramString)
}
