package symfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitzhangjie/minisym/pkg/stack"
)

func loadModule(t *testing.T, data string) *Module {
	t.Helper()
	m := New("test_module")
	require.True(t, m.LoadFromMemory([]byte(data)))
	return m
}

func TestLoadEmptyBuffer(t *testing.T) {
	m := New("empty")
	require.True(t, m.LoadFromMemory(nil))
	assert.False(t, m.IsCorrupt())
}

func TestParseRecords(t *testing.T) {
	m := loadModule(t, strings.Join([]string{
		"MODULE Linux x86_64 6EDC6ACDB282125843FD59DA9C81BD830 a.out",
		"INFO CODE_ID 6EDC6ACD a.out",
		"FILE 1 /src/a/b.c",
		"FILE 2 /src/with spaces/c.c",
		"FUNC 100 20 4 foo",
		"110 4 42 1",
		"114 8 43 2",
		"PUBLIC 200 0 bar",
		"STACK WIN 4 300 20 3 0 4 4 8 0 1 $T0 $ebp = $eip $T0 4 + ^ =",
		"STACK CFI INIT 400 40 .cfa: rsp 8 + .ra: .cfa -8 ^",
		"STACK CFI 410 rbx: .cfa -16 ^",
		"",
	}, "\n"))

	assert.False(t, m.IsCorrupt())

	files := m.Files()
	require.Len(t, files, 2)
	assert.Equal(t, File{ID: 1, Name: "/src/a/b.c"}, files[0])
	assert.Equal(t, File{ID: 2, Name: "/src/with spaces/c.c"}, files[1])

	fns := m.Functions()
	require.Len(t, fns, 1)
	assert.Equal(t, "foo", fns[0].Name)
	assert.Equal(t, uint64(0x100), fns[0].Address)
	assert.Equal(t, uint64(0x20), fns[0].Size)
	assert.Equal(t, 4, fns[0].ParameterSize)
	assert.Equal(t, 2, fns[0].Lines.Len())

	pubs := m.PublicSymbols()
	require.Len(t, pubs, 1)
	assert.Equal(t, "bar", pubs[0].Name)
}

func TestParseCRLFAndBlankLines(t *testing.T) {
	m := loadModule(t, "FILE 1 /a/b.c\r\n\r\nFUNC 100 20 0 foo\r\n110 4 42 1\r\n")

	assert.False(t, m.IsCorrupt())
	assert.Len(t, m.Functions(), 1)
}

func TestParseFuncWithParams(t *testing.T) {
	m := loadModule(t, "FUNC 500 10 0 g#2#int@4@n@50:0#char *@8@p@91:10:0\n")

	fns := m.Functions()
	require.Len(t, fns, 1)
	require.Len(t, fns[0].Params, 2)

	p := fns[0].Params[0]
	assert.Equal(t, "int", p.TypeName)
	assert.Equal(t, "n", p.ParamName)
	assert.Equal(t, uint64(4), p.TypeSize)
	require.Len(t, p.Locs, 1)
	assert.Equal(t, byte(0x50), byte(p.Locs[0].Code))
	assert.Equal(t, uint64(0), p.Locs[0].Value1)

	p = fns[0].Params[1]
	assert.Equal(t, "char *", p.TypeName)
	assert.Equal(t, "p", p.ParamName)
	assert.Equal(t, uint64(8), p.TypeSize)
	require.Len(t, p.Locs, 1)
	assert.Equal(t, byte(0x91), byte(p.Locs[0].Code))
	assert.Equal(t, uint64(0x10), p.Locs[0].Value1)
}

func TestParseFuncGarbledParamsKeepsFunction(t *testing.T) {
	// a broken parameter extension loses the params, not the FUNC
	m := loadModule(t, "FUNC 500 10 0 g#zz#int@4@n@50:0\n")

	fns := m.Functions()
	require.Len(t, fns, 1)
	assert.Equal(t, "g", fns[0].Name)
	assert.Empty(t, fns[0].Params)
	assert.False(t, m.IsCorrupt())
}

func TestParseErrorsAreCountedAndTolerated(t *testing.T) {
	m := loadModule(t, strings.Join([]string{
		"FILE x /bad/id.c",
		"FUNC zz 10 0 bad",
		"999 4 -1 1",
		"PUBLIC 300 8 keep",
		"110 4 42 1",
		"FUNC 100 20 0 good",
		"110 4 42 1",
	}, "\n"))

	// bad FILE, bad FUNC, orphan line under no function (twice: the
	// dropped FUNC leaves no cursor, and PUBLIC clears it)
	assert.True(t, m.IsCorrupt())

	fns := m.Functions()
	require.Len(t, fns, 1)
	assert.Equal(t, "good", fns[0].Name)
	assert.Equal(t, 1, fns[0].Lines.Len())

	pubs := m.PublicSymbols()
	require.Len(t, pubs, 1)
	assert.Equal(t, "keep", pubs[0].Name)
}

func TestParseBailsOutAfterTooManyErrors(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 150; i++ {
		sb.WriteString("FUNC zz zz zz broken\n")
	}
	sb.WriteString("FUNC 100 20 0 late\n")

	m := loadModule(t, sb.String())

	assert.True(t, m.IsCorrupt())
	// parsing stopped before the good record at the end
	assert.Empty(t, m.Functions())
}

func TestParseEmbeddedNul(t *testing.T) {
	data := []byte("FILE 1 /a/b.c\nFUNC 1\x0000 20 0 broken\nFUNC 200 10 0 ok\n")
	m := New("nul_module")
	require.True(t, m.LoadFromMemory(data))

	// the NUL is rewritten to '_' which garbles its record only
	assert.True(t, m.IsCorrupt())
	fns := m.Functions()
	require.Len(t, fns, 1)
	assert.Equal(t, "ok", fns[0].Name)
	require.Len(t, m.Files(), 1)
}

func TestParseTrailingNulsIgnored(t *testing.T) {
	m := New("padded")
	require.True(t, m.LoadFromMemory([]byte("FUNC 100 20 0 foo\n\x00\x00\x00")))
	assert.False(t, m.IsCorrupt())
	assert.Len(t, m.Functions(), 1)
}

func TestPublicAtAddressZeroDropped(t *testing.T) {
	m := loadModule(t, "PUBLIC 0 0 zero\nPUBLIC 300 8 keep\n")

	assert.False(t, m.IsCorrupt())
	pubs := m.PublicSymbols()
	require.Len(t, pubs, 1)
	assert.Equal(t, "keep", pubs[0].Name)

	// querying address 0 finds nothing
	frame := &stack.Frame{Instruction: 0, ModuleBase: 0}
	m.LookupAddress(nil, frame)
	assert.Equal(t, "", frame.FunctionName)
}

func TestParseStackWinUnknownPlatform(t *testing.T) {
	m := loadModule(t, "STACK MIPS 0 0 0\n")
	assert.True(t, m.IsCorrupt())
}
