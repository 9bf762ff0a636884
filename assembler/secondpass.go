package assembler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/asmteach/asm15/encoder"
	"github.com/asmteach/asm15/parser"
)

// ExternalReference records one code address at which an extern symbol is
// referenced, in the order the second pass encountered it (§3).
type ExternalReference struct {
	Name    string
	Address int
}

// SecondPassResult carries the emitted binary table, the ordered extern
// reference list, and any diagnostics from the second pass.
type SecondPassResult struct {
	Binary    *BinaryTable
	Externals []ExternalReference
	Errors    *parser.ErrorList
	Warnings  []string
}

// RunSecondPass re-parses the same cleaned stream quietly (pass 1 already
// reported syntax errors), encodes every instruction and data directive,
// and records external references at their use addresses (§4.5).
func RunSecondPass(filename, content string, symbols *parser.SymbolTable, finalIC int) *SecondPassResult {
	enc := encoder.NewEncoder(symbols)
	binary := NewBinaryTable()
	errs := &parser.ErrorList{}
	var externals []ExternalReference

	ic := 100
	dc := finalIC

	lines := strings.Split(content, "\n")
	for i, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		pos := parser.Position{Filename: filename, Line: i + 1}
		line := parser.ParseLine(raw, pos, false, errs)
		if line.Err {
			continue
		}

		switch {
		case line.IsDirective:
			switch line.Directive {
			case parser.DirectiveEntry:
				name := strings.TrimSpace(line.RawArgs)
				if _, ok := symbols.Lookup(name); !ok {
					errs.AddError(parser.NewError(pos, parser.ErrKindSymbolNotFound, "entry symbol not found: "+name))
					continue
				}
				symbols.Promote(name, parser.SymbolEntry)

			case parser.DirectiveExtern:
				// No action in pass 2.

			case parser.DirectiveData:
				values, ok, kind, msg := parseDataValues(line.RawArgs)
				if !ok {
					errs.AddError(parser.NewError(pos, kind, msg))
					continue
				}
				for _, v := range values {
					binary.AddDataWord(dc, v)
					dc++
				}

			case parser.DirectiveString:
				payload, ok := quotedPayload(line.RawArgs)
				if !ok {
					errs.AddError(parser.NewError(pos, parser.ErrKindMalformedData, "malformed .string operand: "+line.RawArgs))
					continue
				}
				for _, ch := range []byte(payload) {
					binary.AddDataWord(dc, int(ch))
					dc++
				}
				binary.AddDataWord(dc, 0)
				dc++
			}

		case line.Mnemonic != "":
			instrWord := enc.EncodeInstructionWord(&line)
			binary.AddInstructionWord(ic, instrWord)
			ic++

			words, err := enc.EncodeOperandWords(&line)
			if err != nil {
				kind := parser.ErrKindSymbolNotFound
				var encErr *encoder.EncodingError
				if errors.As(err, &encErr) {
					kind = encErr.Kind
				}
				errs.AddError(parser.NewError(pos, kind, err.Error()))
				continue
			}
			for _, w := range words {
				if w.IsExternal {
					externals = append(externals, ExternalReference{Name: w.ExternName, Address: ic})
				}
				binary.AddInstructionWord(ic, w.Value)
				ic++
			}
		}
	}

	return &SecondPassResult{Binary: binary, Externals: externals, Errors: errs, Warnings: enc.Warnings}
}

// parseDataValues parses a comma-separated list of signed integers,
// distinguishing an empty operand list from a non-integer value so the
// caller can report the precise error kind.
func parseDataValues(args string) ([]int, bool, parser.ErrorKind, string) {
	args = strings.TrimSpace(args)
	if args == "" {
		return nil, false, parser.ErrKindMalformedData, "empty .data operand list"
	}
	parts := strings.Split(args, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, false, parser.ErrKindNotInteger, "non-integer .data value: " + p
		}
		values = append(values, v)
	}
	return values, true, 0, ""
}
