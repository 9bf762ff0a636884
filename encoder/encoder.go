package encoder

import (
	"strconv"
	"strings"

	"github.com/asmteach/asm15/parser"
)

const wordMask = 0x7FFF

// ARE tag values, per the three-bit linker-semantics field (§4.6).
const (
	areAbsolute   = 0b100
	areRelocation = 0b010
	areExternal   = 0b001
)

// OperandWord is one encoded operand word, annotated with whether it
// refers to an external symbol so the second pass can record it.
type OperandWord struct {
	Value      int
	IsExternal bool
	ExternName string
}

// Encoder turns a parsed instruction line into its instruction word and
// operand words, consulting the symbol table built by the first pass.
type Encoder struct {
	symbols  *parser.SymbolTable
	Warnings []string
}

// NewEncoder creates an encoder bound to a (read-only, during pass 2)
// symbol table.
func NewEncoder(symbols *parser.SymbolTable) *Encoder {
	return &Encoder{symbols: symbols}
}

// EncodeInstructionWord builds the 4/4/4/3-bit instruction word (§4.6).
// For single-operand instructions only the destination mode field is
// populated; the source field stays zero.
func (e *Encoder) EncodeInstructionWord(line *parser.ParsedLine) int {
	var srcCode, destCode int
	switch line.Opcode.Operands {
	case 2:
		srcCode = line.Operands[0].Mode.ModeCode()
		destCode = line.Operands[1].Mode.ModeCode()
	case 1:
		destCode = line.Operands[0].Mode.ModeCode()
	}
	word := (line.Opcode.Code << 11) | (srcCode << 7) | (destCode << 3) | areAbsolute
	return word & wordMask
}

// EncodeOperandWords produces the operand word(s) for a line, per the
// sharing rule for register-like operand pairs (§4.6).
func (e *Encoder) EncodeOperandWords(line *parser.ParsedLine) ([]OperandWord, error) {
	switch line.Opcode.Operands {
	case 0:
		return nil, nil
	case 1:
		return e.operandWords(line.Operands[0], false)
	case 2:
		src, dest := line.Operands[0], line.Operands[1]
		if isRegisterLike(src.Mode) && isRegisterLike(dest.Mode) {
			word := (regNum(src) << 6) | (regNum(dest) << 3) | areAbsolute
			return []OperandWord{{Value: word & wordMask}}, nil
		}
		var words []OperandWord
		srcWords, err := e.operandWords(src, true)
		if err != nil {
			return nil, err
		}
		destWords, err := e.operandWords(dest, false)
		if err != nil {
			return nil, err
		}
		words = append(words, srcWords...)
		words = append(words, destWords...)
		return words, nil
	default:
		return nil, nil
	}
}

// operandWords encodes a single operand in isolation, given whether it
// fills the source or destination role.
func (e *Encoder) operandWords(op parser.Operand, isSource bool) ([]OperandWord, error) {
	switch op.Mode {
	case parser.Immediate:
		value, err := parseImmediateValue(op.Raw)
		if err != nil {
			return nil, err
		}
		if value < -2048 || value > 2047 {
			e.Warnings = append(e.Warnings, "immediate value "+strconv.Itoa(value)+" truncated to 12 bits")
		}
		truncated := value & 0xFFF
		word := (truncated << 3) | areAbsolute
		return []OperandWord{{Value: word & wordMask}}, nil

	case parser.Direct:
		sym, ok := e.symbols.Lookup(op.Raw)
		if !ok {
			return nil, NewEncodingError("symbol not found: " + op.Raw)
		}
		if sym.Kind == parser.SymbolExtern {
			return []OperandWord{{Value: areExternal, IsExternal: true, ExternName: op.Raw}}, nil
		}
		word := ((sym.Address & 0x1FFF) << 3) | areRelocation
		return []OperandWord{{Value: word & wordMask}}, nil

	case parser.Register, parser.IndirectRegister:
		reg := regNum(op)
		var word int
		if isSource {
			word = (reg << 6) | areAbsolute
		} else {
			word = (reg << 3) | areAbsolute
		}
		return []OperandWord{{Value: word & wordMask}}, nil

	default:
		return nil, NewEncodingErrorKind(parser.ErrKindAddressingMode, "unrecognized addressing mode")
	}
}

func isRegisterLike(mode parser.AddressingMode) bool {
	return mode == parser.Register || mode == parser.IndirectRegister
}

func regNum(op parser.Operand) int {
	return parser.RegisterNumber(op)
}

func parseImmediateValue(raw string) (int, error) {
	text := strings.TrimPrefix(raw, "#")
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, NewEncodingErrorKind(parser.ErrKindNotInteger, "non-integer immediate operand: "+raw)
	}
	return value, nil
}
