package assembler

import (
	"fmt"
	"strings"

	"github.com/asmteach/asm15/parser"
)

// maxMemoryWords is the usable budget for code and data combined: the ISA's
// full 4096-word address space, less the 100-word reserve before IC's
// starting value (§8, invariant 1).
const maxMemoryWords = 4096 - 100

// pendingEntry is a `.entry` operand recorded during pass 1 and resolved
// in one post-pass once the whole symbol table is complete (§9 — this
// rules out any dependence on the source-file order of `.entry X` versus
// `X:`).
type pendingEntry struct {
	Name string
	Pos  parser.Position
}

// FirstPassResult carries everything pass 2 needs: the completed symbol
// table, the final instruction/data counters, and accumulated diagnostics.
type FirstPassResult struct {
	Symbols *parser.SymbolTable
	FinalIC int
	FinalDC int
	Errors  *parser.ErrorList
}

// RunFirstPass drives the parser over the cleaned, macro-expanded stream,
// maintaining IC/DC, building the symbol table, and validating directives
// (§4.4). It continues past recoverable per-line errors so later errors in
// the same file are also reported, but the caller must check
// Errors.HasErrors() before running the second pass.
func RunFirstPass(filename, content string) *FirstPassResult {
	symbols := parser.NewSymbolTable()
	errs := &parser.ErrorList{}

	ic := 100
	dc := 0
	var pendingEntries []pendingEntry

	lines := strings.Split(content, "\n")
	for i, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		pos := parser.Position{Filename: filename, Line: i + 1}
		line := parser.ParseLine(raw, pos, true, errs)
		if line.Err {
			continue
		}

		isDataLine := line.IsDirective && (line.Directive == parser.DirectiveData || line.Directive == parser.DirectiveString)

		if line.HasLabel {
			addr := ic
			if isDataLine {
				addr = dc
			}
			insertLabel(symbols, errs, line.Label, addr, isDataLine, pos)
		}

		switch {
		case line.IsDirective:
			switch line.Directive {
			case parser.DirectiveData:
				n, ok := countDataValues(line.RawArgs)
				if !ok {
					errs.AddError(parser.NewError(pos, parser.ErrKindMalformedData, "malformed .data operands: "+line.RawArgs))
					continue
				}
				dc += n

			case parser.DirectiveString:
				payload, ok := quotedPayload(line.RawArgs)
				if !ok {
					errs.AddError(parser.NewError(pos, parser.ErrKindMalformedData, "malformed .string operand: "+line.RawArgs))
					continue
				}
				// DC increment mirrors pass 2's emission (one word per raw
				// character plus a trailing zero). §4.5 takes each character
				// of the quoted payload literally, with no escape
				// translation.
				dc += len(payload) + 1

			case parser.DirectiveExtern:
				name := strings.TrimSpace(line.RawArgs)
				if name == "" {
					errs.AddError(parser.NewError(pos, parser.ErrKindEmptyOperand, ".extern requires a symbol name"))
					continue
				}
				if _, exists := symbols.Lookup(name); exists {
					errs.AddWarning(&parser.Warning{Pos: pos, Message: "symbol " + name + " already declared"})
					continue
				}
				symbols.Insert(name, 0, parser.SymbolExtern, false, i+1)

			case parser.DirectiveEntry:
				name := strings.TrimSpace(line.RawArgs)
				if name == "" {
					errs.AddError(parser.NewError(pos, parser.ErrKindEmptyOperand, ".entry requires a symbol name"))
					continue
				}
				pendingEntries = append(pendingEntries, pendingEntry{Name: name, Pos: pos})
			}

		case line.Mnemonic != "":
			ic += 1 + instructionWordsAfterOpcode(&line)
		}
	}

	symbols.RelocateData(ic)

	if totalWords := (ic - 100) + dc; totalWords > maxMemoryWords {
		errs.AddError(parser.NewError(parser.Position{Filename: filename, Line: len(lines)},
			parser.ErrKindMemoryOverflow,
			fmt.Sprintf("program requires %d words, exceeding the %d-word address space", totalWords, maxMemoryWords)))
	}

	for _, pe := range pendingEntries {
		if _, ok := symbols.Lookup(pe.Name); !ok {
			errs.AddError(parser.NewError(pe.Pos, parser.ErrKindSymbolNotFound, "entry symbol not found: "+pe.Name))
			continue
		}
		symbols.Promote(pe.Name, parser.SymbolEntry)
	}

	return &FirstPassResult{Symbols: symbols, FinalIC: ic, FinalDC: dc, Errors: errs}
}

func insertLabel(symbols *parser.SymbolTable, errs *parser.ErrorList, label string, addr int, isData bool, pos parser.Position) {
	if len(label) > 31 {
		errs.AddError(parser.NewError(pos, parser.ErrKindLabelTooLong, "label too long: "+label))
		return
	}
	if parser.IsOpcode(label) || parser.IsRegisterName(label) {
		errs.AddError(parser.NewError(pos, parser.ErrKindReservedName, "label equals a mnemonic or register: "+label))
		return
	}
	if !symbols.Insert(label, addr, parser.SymbolLabel, isData, pos.Line) {
		errs.AddError(parser.NewError(pos, parser.ErrKindDuplicateSymbol, "duplicate symbol: "+label))
	}
}

// instructionWordsAfterOpcode counts the operand words following the
// opcode word, honoring the register/indirect-register sharing rule.
// Each operand present independently of its own type contributes one
// word unless both operands of a two-operand instruction are
// register-like, in which case they share a single word (§4.4, §4.6).
func instructionWordsAfterOpcode(line *parser.ParsedLine) int {
	switch line.Opcode.Operands {
	case 2:
		src, dest := line.Operands[0], line.Operands[1]
		if isRegisterLike(src.Mode) && isRegisterLike(dest.Mode) {
			return 1
		}
		return 2
	case 1:
		return 1
	default:
		return 0
	}
}

func isRegisterLike(mode parser.AddressingMode) bool {
	return mode == parser.Register || mode == parser.IndirectRegister
}

// countDataValues counts the comma-separated values in a .data operand
// list (comma count + 1), rejecting an empty operand list.
func countDataValues(args string) (int, bool) {
	args = strings.TrimSpace(args)
	if args == "" {
		return 0, false
	}
	return strings.Count(args, ",") + 1, true
}

// quotedPayload extracts the text between the first and last double quote
// of a .string operand.
func quotedPayload(args string) (string, bool) {
	args = strings.TrimSpace(args)
	if len(args) < 2 || args[0] != '"' || args[len(args)-1] != '"' {
		return "", false
	}
	return args[1 : len(args)-1], true
}
