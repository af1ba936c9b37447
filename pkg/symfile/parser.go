package symfile

import (
	"strconv"
	"strings"

	"github.com/hitzhangjie/minisym/pkg/dwarf/expr"
	"github.com/hitzhangjie/minisym/pkg/dwarf/op"
	"github.com/hitzhangjie/minisym/pkg/log"
	"github.com/hitzhangjie/minisym/pkg/textutil"
	"github.com/hitzhangjie/minisym/pkg/winframe"
)

const (
	// Only the first few parse errors are worth logging in full.
	maxErrorsPrinted = 5
	// Past this many errors the file is junk, stop wasting time on it.
	maxErrorsBeforeBailing = 100
)

func (m *Module) logParseError(message string, lineNumber int, numErrors *int) {
	*numErrors++
	if *numErrors <= maxErrorsPrinted {
		if lineNumber > 0 {
			log.Errorf("symfile %s: line %d: %s", m.name, lineNumber, message)
		} else {
			log.Errorf("symfile %s: %s", m.name, message)
		}
	}
}

// LoadFromMemory parses a symbol file into the module. The buffer is
// modified in place: embedded NUL bytes are rewritten to '_' (and
// counted as one parse error), so the caller must grant exclusive
// ownership for the duration of the call. Individual bad records are
// logged, counted and dropped; parsing gives up entirely once the error
// count passes a hard threshold. The return value is true whenever the
// buffer was readable at all, even for a partial parse; IsCorrupt
// reports whether anything was dropped.
func (m *Module) LoadFromMemory(buffer []byte) bool {
	lineNumber := 0
	numErrors := 0

	// An empty buffer is a valid empty module. Useful for system
	// libraries nobody dumped symbols for.
	if len(buffer) == 0 {
		return true
	}

	// Strip trailing NUL terminators, then make sure there are none in
	// the middle of the buffer.
	end := len(buffer)
	for end > 0 && buffer[end-1] == 0 {
		end--
	}
	hasInteriorNul := false
	for i := 0; i < end; i++ {
		if buffer[i] == 0 {
			buffer[i] = '_'
			hasInteriorNul = true
		}
	}
	if hasInteriorNul {
		m.logParseError("NUL byte is not expected in the middle of the symbol data",
			lineNumber, &numErrors)
	}

	data := string(buffer[:end])
	for len(data) > 0 {
		data = strings.TrimLeft(data, "\r\n")
		if data == "" {
			break
		}
		var line string
		if idx := strings.IndexAny(data, "\r\n"); idx >= 0 {
			line, data = data[:idx], data[idx:]
		} else {
			line, data = data, ""
		}
		lineNumber++

		switch {
		case strings.HasPrefix(line, "FILE "):
			if !m.parseFile(line) {
				m.logParseError("FILE record malformed", lineNumber, &numErrors)
			}
		case strings.HasPrefix(line, "STACK "):
			if !m.parseStackInfo(line) {
				m.logParseError("STACK record malformed", lineNumber, &numErrors)
			}
		case strings.HasPrefix(line, "FUNC "):
			fn, ok := parseFunction(line)
			if !ok {
				m.curFunc = nil
				m.logParseError("FUNC record malformed", lineNumber, &numErrors)
				break
			}
			// StoreRange fails on an invalid address or size, or on a
			// conflict with an already stored function. The function
			// is silently dropped then, though it stays the line
			// record cursor.
			m.curFunc = fn
			m.functions.StoreRange(fn.Address, fn.Size, fn)
		case strings.HasPrefix(line, "PUBLIC "):
			// Public symbols carry no line records, drop the cursor.
			m.curFunc = nil
			if !m.parsePublicSymbol(line) {
				m.logParseError("PUBLIC record malformed", lineNumber, &numErrors)
			}
		case strings.HasPrefix(line, "MODULE "):
			// Informational only. Present so suppliers can place the
			// file next to the right binary; nothing to index.
		case strings.HasPrefix(line, "INFO "):
			// Housekeeping for suppliers as well.
		default:
			if m.curFunc == nil {
				m.logParseError("found source line data without a function",
					lineNumber, &numErrors)
				break
			}
			ln, ok := parseLine(line)
			if !ok {
				m.logParseError("source line record malformed", lineNumber, &numErrors)
				break
			}
			m.curFunc.Lines.StoreRange(ln.Address, ln.Size, ln)
		}

		if numErrors > maxErrorsBeforeBailing {
			log.Errorf("symfile %s: too many errors, giving up", m.name)
			break
		}
	}

	if numErrors > 0 {
		log.Infof("symfile %s: %d errors during parsing", m.name, numErrors)
	}

	m.curFunc = nil
	m.corrupt = numErrors > 0
	return true
}

// parseFile handles "FILE <id> <filename>". The filename is the rest of
// the line and may contain spaces.
func (m *Module) parseFile(line string) bool {
	tokens, ok := textutil.Tokenize(line[len("FILE "):], textutil.Whitespace, 2)
	if !ok {
		return false
	}

	id, err := strconv.Atoi(tokens[0])
	if err != nil || id < 0 {
		return false
	}

	m.files[id] = tokens[1]
	return true
}

// parseFunction handles "FUNC <address> <size> <stack_param_size> <name>"
// with the optional "#<nparams>#<param>#<param>..." extension carrying
// parameter location expressions.
func parseFunction(line string) (*Function, bool) {
	segments, _ := textutil.Tokenize(line[len("FUNC "):], "#", 3)
	if len(segments) == 0 {
		return nil, false
	}

	tokens, ok := textutil.Tokenize(segments[0], textutil.Whitespace, 4)
	if !ok {
		return nil, false
	}

	address, err := strconv.ParseUint(tokens[0], 16, 64)
	if err != nil {
		return nil, false
	}
	size, err := strconv.ParseUint(tokens[1], 16, 64)
	if err != nil {
		return nil, false
	}
	parameterSize, err := strconv.ParseInt(tokens[2], 16, 32)
	if err != nil || parameterSize < 0 {
		return nil, false
	}

	var params []FuncParam
	if len(segments) == 3 {
		// A garbled parameter extension degrades to a function without
		// parameters rather than losing the FUNC record.
		if numParams, err := strconv.ParseUint(segments[1], 16, 32); err == nil {
			if pv, ok := textutil.Tokenize(segments[2], "#", int(numParams)); ok {
				params, _ = parseFuncParams(pv)
			}
		}
	}

	return newFunction(tokens[3], address, size, int(parameterSize), params), true
}

// parseFuncParams decodes the "#"-separated parameter list of a FUNC
// record. Each parameter has four "@"-separated fields:
//
//	<type name>@<type size:hex>@<param name>@<location expression>
//
// and the location expression is a "$"-separated opcode sequence, each
// opcode up to three ":"-separated hex fields: op[:value1[:value2]].
func parseFuncParams(pv []string) ([]FuncParam, bool) {
	params := make([]FuncParam, 0, len(pv))

	for _, raw := range pv {
		args, ok := textutil.Tokenize(raw, "@", 4)
		if !ok {
			return nil, false
		}

		p := FuncParam{
			TypeName:  args[0],
			ParamName: args[2],
		}
		// A bad size field means the value can't be read, but the
		// parameter is still worth listing.
		if typeSize, err := strconv.ParseUint(args[1], 16, 64); err == nil {
			p.TypeSize = typeSize
		}

		locExprs := textutil.SplitAll(args[3], "$")
		if len(locExprs) == 0 {
			return nil, false
		}

		for _, locExpr := range locExprs {
			fields, _ := textutil.Tokenize(locExpr, ":", 4)
			if len(fields) == 0 {
				return nil, false
			}

			opcode, err := strconv.ParseUint(fields[0], 16, 8)
			if err != nil {
				return nil, false
			}

			loc := expr.Op{Code: op.Opcode(opcode)}
			if len(fields) > 1 {
				loc.Value1, _ = strconv.ParseUint(fields[1], 16, 64)
			}
			if len(fields) > 2 {
				loc.Value2, _ = strconv.ParseUint(fields[2], 16, 64)
			}
			p.Locs = append(p.Locs, loc)
		}

		params = append(params, p)
	}

	return params, true
}

// parseLine handles "<address> <size> <line> <file id>" records under the
// current function.
func parseLine(line string) (*Line, bool) {
	tokens, ok := textutil.Tokenize(line, textutil.Whitespace, 4)
	if !ok {
		return nil, false
	}

	address, err := strconv.ParseUint(tokens[0], 16, 64)
	if err != nil {
		return nil, false
	}
	size, err := strconv.ParseUint(tokens[1], 16, 64)
	if err != nil {
		return nil, false
	}
	// Line 0 is legal: block helper functions carry a source file but
	// no line number.
	lineNumber, err := strconv.ParseInt(tokens[2], 10, 32)
	if err != nil || lineNumber < 0 {
		return nil, false
	}
	fileID, err := strconv.Atoi(tokens[3])
	if err != nil || fileID < 0 {
		return nil, false
	}

	return &Line{
		Address: address,
		Size:    size,
		FileID:  fileID,
		Line:    int(lineNumber),
	}, true
}

// parsePublicSymbol handles "PUBLIC <address> <stack_param_size> <name>".
func (m *Module) parsePublicSymbol(line string) bool {
	tokens, ok := textutil.Tokenize(line[len("PUBLIC "):], textutil.Whitespace, 3)
	if !ok {
		return false
	}

	address, err := strconv.ParseUint(tokens[0], 16, 64)
	if err != nil {
		return false
	}
	parameterSize, err := strconv.ParseInt(tokens[1], 16, 32)
	if err != nil || parameterSize < 0 {
		return false
	}

	// Some dumpers emit public symbols at address 0 (seen in ntdll.pdb
	// output for _CIlog and friends). They would conflict with each
	// other in the index; accept the record but keep it out of the map.
	if address == 0 {
		return true
	}

	m.publics.Store(address, &PublicSymbol{
		Name:          tokens[2],
		Address:       address,
		ParameterSize: int(parameterSize),
	})
	return true
}

// parseStackInfo handles "STACK WIN ..." and "STACK CFI ..." records.
func (m *Module) parseStackInfo(line string) bool {
	payload := strings.TrimLeft(line[len("STACK "):], " ")

	idx := strings.IndexAny(payload, textutil.Whitespace)
	if idx < 0 {
		return false
	}
	platform, payload := payload[:idx], payload[idx+1:]

	switch platform {
	case "WIN":
		fi, rva, codeSize, ok := winframe.ParseFromString(payload)
		if !ok {
			return false
		}
		// MSVC infrequently emits stack info violating the containment
		// rules: nominal ranges conflict although the code after the
		// prologs nests fine. StoreRange drops such records; the file
		// as a whole is still good, so ignore the result.
		m.windowsFrameInfo[fi.Type].StoreRange(rva, codeSize, fi)
		return true
	case "CFI":
		return m.parseCFIFrameInfo(payload)
	default:
		return false
	}
}

// parseCFIFrameInfo handles the CFI payload: either
// "INIT <address> <size> <rules...>" or the delta form
// "<address> <rules...>".
func (m *Module) parseCFIFrameInfo(payload string) bool {
	initOrAddress, rest, ok := nextToken(payload)
	if !ok {
		return false
	}

	if initOrAddress == "INIT" {
		tokens, ok := textutil.Tokenize(rest, textutil.Whitespace, 3)
		if !ok {
			return false
		}
		address, err := strconv.ParseUint(tokens[0], 16, 64)
		if err != nil {
			return false
		}
		size, err := strconv.ParseUint(tokens[1], 16, 64)
		if err != nil {
			return false
		}
		m.cfiInitialRules.StoreRange(address, size, tokens[2])
		return true
	}

	address, err := strconv.ParseUint(initOrAddress, 16, 64)
	if err != nil {
		return false
	}
	rules := strings.TrimLeft(rest, textutil.Whitespace)
	if rules == "" {
		return false
	}
	m.cfiDeltaRules.Replace(address, rules)
	return true
}

// nextToken splits off the first whitespace-delimited token.
func nextToken(s string) (token, rest string, ok bool) {
	s = strings.TrimLeft(s, textutil.Whitespace)
	if s == "" {
		return "", "", false
	}
	if idx := strings.IndexAny(s, textutil.Whitespace); idx >= 0 {
		return s[:idx], s[idx:], true
	}
	return s, "", true
}
