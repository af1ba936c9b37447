package symfile

import (
	"sort"

	"go.uber.org/atomic"

	"github.com/hitzhangjie/minisym/pkg/dwarf/cfi"
	"github.com/hitzhangjie/minisym/pkg/rangemap"
	"github.com/hitzhangjie/minisym/pkg/stack"
	"github.com/hitzhangjie/minisym/pkg/winframe"
)

// Module owns all symbol entities of one binary. It is built once by
// LoadFromMemory and immutable afterwards, so lookups are safe to call
// concurrently from multiple unwinder threads.
type Module struct {
	name    string
	corrupt bool

	files     map[int]string
	functions *rangemap.RangeMap[*Function]
	publics   *rangemap.AddressMap[*PublicSymbol]

	windowsFrameInfo [winframe.StackInfoLast]*rangemap.RangeMap[*winframe.FrameInfo]
	cfiInitialRules  *rangemap.RangeMap[string]
	cfiDeltaRules    *rangemap.AddressMap[string]

	stats moduleStats

	// parse-time cursor, nil once LoadFromMemory returns
	curFunc *Function
}

type moduleStats struct {
	lookups     atomic.Uint64
	funcHits    atomic.Uint64
	publicHits  atomic.Uint64
	cfiHits     atomic.Uint64
	windowsHits atomic.Uint64
}

// ModuleStats is a snapshot of the lookup counters.
type ModuleStats struct {
	Lookups     uint64
	FuncHits    uint64
	PublicHits  uint64
	CFIHits     uint64
	WindowsHits uint64
}

// New returns an empty module named name (typically the debug file name).
func New(name string) *Module {
	m := &Module{
		name:            name,
		files:           make(map[int]string),
		functions:       rangemap.NewRangeMap[*Function](),
		publics:         rangemap.NewAddressMap[*PublicSymbol](),
		cfiInitialRules: rangemap.NewRangeMap[string](),
		cfiDeltaRules:   rangemap.NewAddressMap[string](),
	}
	for i := range m.windowsFrameInfo {
		m.windowsFrameInfo[i] = rangemap.NewRangeMap[*winframe.FrameInfo]()
	}
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// IsCorrupt reports whether parsing dropped any record. The module stays
// usable; the flag is advisory.
func (m *Module) IsCorrupt() bool {
	return m.corrupt
}

// LookupAddress resolves frame.Instruction to a function or public
// symbol, fills the frame's symbolic fields, and recovers parameter
// values through memory. Fields stay untouched on a miss.
func (m *Module) LookupAddress(memory stack.MemoryRegion, frame *stack.Frame) {
	m.stats.lookups.Inc()
	address := frame.Instruction - frame.ModuleBase

	// Look for a FUNC record covering address. Use RetrieveNearestRange
	// instead of RetrieveRange so that, if there is no such function,
	// the nearest one still bounds the extent of the PUBLIC symbol
	// found below. That means the containment check has to happen here,
	// in an overflow-friendly way.
	fn, funcBase, funcSize, haveFunc := m.functions.RetrieveNearestRange(address)
	if haveFunc && address >= funcBase && address-funcBase < funcSize {
		m.stats.funcHits.Inc()
		frame.FunctionName = fn.Name
		frame.FunctionBase = frame.ModuleBase + funcBase

		m.readFuncParams(frame, fn.Params, memory)

		// The line with the greatest base at or below address is used,
		// so an address in a gap after a line record maps to that line.
		if line, lineBase, _, ok := fn.Lines.RetrieveNearestRange(address); ok {
			if name, ok := m.files[line.FileID]; ok {
				frame.SourceFileName = name
			}
			frame.SourceLine = line.Line
			frame.SourceLineBase = frame.ModuleBase + lineBase
		}
		return
	}

	if pub, pubAddress, ok := m.publics.Retrieve(address); ok &&
		(!haveFunc || pubAddress > funcBase) {
		m.stats.publicHits.Inc()
		frame.FunctionName = pub.Name
		frame.FunctionBase = frame.ModuleBase + pubAddress
	}
}

// FindWindowsFrameInfo returns the MSVC frame info covering
// frame.Instruction, or nil when unwinding must fall back to scanning.
func (m *Module) FindWindowsFrameInfo(frame *stack.Frame) *winframe.FrameInfo {
	address := frame.Instruction - frame.ModuleBase
	result := new(winframe.FrameInfo)

	// Prefer STACK_INFO_FRAME_DATA over STACK_INFO_FPO: FrameData is
	// the newer stream and carries its own program string.
	for _, typ := range []winframe.StackInfoType{winframe.StackInfoFrameData, winframe.StackInfoFPO} {
		if fi, _, _, ok := m.windowsFrameInfo[typ].RetrieveRange(address); ok {
			m.stats.windowsHits.Inc()
			result.CopyFrom(fi)
			return result
		}
	}

	// Even without a STACK WIN record, a FUNC record tells how much
	// stack its parameters consume. Nearest-range retrieval again, so
	// the function can bound the PUBLIC symbol below.
	fn, funcBase, funcSize, haveFunc := m.functions.RetrieveNearestRange(address)
	if haveFunc && address >= funcBase && address-funcBase < funcSize {
		m.stats.windowsHits.Inc()
		result.ParameterSize = uint32(fn.ParameterSize)
		result.Valid |= winframe.ValidParameterSize
		return result
	}

	// PUBLIC symbols may carry a parameter size as well. The candidate
	// record is filled in but not returned; kept as-is to stay faithful
	// to the reference resolver.
	if pub, pubAddress, ok := m.publics.Retrieve(address); ok &&
		(!haveFunc || pubAddress > funcBase) {
		result.ParameterSize = uint32(pub.ParameterSize)
	}

	return nil
}

// FindCFIFrameInfo composes the CFI register recovery rules in effect at
// frame.Instruction: the INIT rule set covering it, refined by every
// delta at or below it within the INIT range.
func (m *Module) FindCFIFrameInfo(frame *stack.Frame) *cfi.FrameInfo {
	address := frame.Instruction - frame.ModuleBase

	initialRules, initialBase, _, ok := m.cfiInitialRules.RetrieveRange(address)
	if !ok {
		return nil
	}

	rules := cfi.NewFrameInfo()
	if !rules.Apply(initialRules) {
		return nil
	}

	m.cfiDeltaRules.Walk(initialBase, address, func(addr uint64, deltaRules string) bool {
		rules.Apply(deltaRules)
		return true
	})

	m.stats.cfiHits.Inc()
	return rules
}

// Stats returns a snapshot of the lookup counters. Safe to call while
// lookups are running.
func (m *Module) Stats() ModuleStats {
	return ModuleStats{
		Lookups:     m.stats.lookups.Load(),
		FuncHits:    m.stats.funcHits.Load(),
		PublicHits:  m.stats.publicHits.Load(),
		CFIHits:     m.stats.cfiHits.Load(),
		WindowsHits: m.stats.windowsHits.Load(),
	}
}

// Files returns the FILE records ordered by id.
func (m *Module) Files() []File {
	files := make([]File, 0, len(m.files))
	for id, name := range m.files {
		files = append(files, File{ID: id, Name: name})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files
}

// Functions returns the FUNC records ordered by address.
func (m *Module) Functions() []*Function {
	var fns []*Function
	m.functions.Walk(func(base, size uint64, fn *Function) bool {
		fns = append(fns, fn)
		return true
	})
	return fns
}

// CFIRuleCounts returns how many STACK CFI INIT ranges and delta records
// the module carries.
func (m *Module) CFIRuleCounts() (initial, delta int) {
	return m.cfiInitialRules.Len(), m.cfiDeltaRules.Len()
}

// WindowsFrameInfoCount returns how many STACK WIN records of the given
// type the module carries.
func (m *Module) WindowsFrameInfoCount(typ winframe.StackInfoType) int {
	if typ < 0 || typ >= winframe.StackInfoLast {
		return 0
	}
	return m.windowsFrameInfo[typ].Len()
}

// PublicSymbols returns the PUBLIC records ordered by address.
func (m *Module) PublicSymbols() []*PublicSymbol {
	pubs := make([]*PublicSymbol, 0, m.publics.Len())
	m.publics.Walk(0, ^uint64(0), func(addr uint64, pub *PublicSymbol) bool {
		pubs = append(pubs, pub)
		return true
	})
	return pubs
}
