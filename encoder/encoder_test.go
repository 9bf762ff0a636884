package encoder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asmteach/asm15/parser"
)

func mustParse(t *testing.T, raw string) parser.ParsedLine {
	t.Helper()
	errs := &parser.ErrorList{}
	line := parser.ParseLine(raw, parser.Position{Filename: "t.as", Line: 1}, true, errs)
	require.False(t, line.Err, "parse error: %v", errs.Errors)
	return line
}

func TestEncodeOperandWordRegisterPair(t *testing.T) {
	line := mustParse(t, "mov r3, r4")
	symbols := parser.NewSymbolTable()
	enc := NewEncoder(symbols)

	words, err := enc.EncodeOperandWords(&line)
	require.NoError(t, err)
	require.Len(t, words, 1)
	require.Equal(t, 228, words[0].Value)
}

func TestEncodeInstructionWordStop(t *testing.T) {
	line := mustParse(t, "stop")
	symbols := parser.NewSymbolTable()
	enc := NewEncoder(symbols)

	word := enc.EncodeInstructionWord(&line)
	require.Equal(t, 30724, word)

	words, err := enc.EncodeOperandWords(&line)
	require.NoError(t, err)
	require.Empty(t, words)
}

func TestEncodeImmediateAndDirectOperands(t *testing.T) {
	symbols := parser.NewSymbolTable()
	symbols.Insert("LEN", 102, parser.SymbolLabel, true, 1)
	enc := NewEncoder(symbols)

	line := mustParse(t, "mov #7, LEN")
	words, err := enc.EncodeOperandWords(&line)
	require.NoError(t, err)
	require.Len(t, words, 2)
	require.Equal(t, 60, words[0].Value)
	require.Equal(t, 818, words[1].Value)
}

func TestEncodeExternDirectOperand(t *testing.T) {
	symbols := parser.NewSymbolTable()
	symbols.Insert("FUNC", 0, parser.SymbolExtern, false, 1)
	enc := NewEncoder(symbols)

	line := mustParse(t, "jmp FUNC")
	words, err := enc.EncodeOperandWords(&line)
	require.NoError(t, err)
	require.Len(t, words, 1)
	require.Equal(t, 1, words[0].Value)
	require.True(t, words[0].IsExternal)
	require.Equal(t, "FUNC", words[0].ExternName)
}

func TestEncodeImmediateOutOfRangeWarns(t *testing.T) {
	symbols := parser.NewSymbolTable()
	enc := NewEncoder(symbols)

	line := mustParse(t, "mov #5000, r1")
	_, err := enc.EncodeOperandWords(&line)
	require.NoError(t, err)
	require.NotEmpty(t, enc.Warnings)
}

func TestEncodeDirectUndefinedSymbolErrors(t *testing.T) {
	symbols := parser.NewSymbolTable()
	enc := NewEncoder(symbols)

	line := mustParse(t, "jmp MISSING")
	_, err := enc.EncodeOperandWords(&line)
	require.Error(t, err)
}

func TestEncodeSingleRegisterDestinationOnly(t *testing.T) {
	symbols := parser.NewSymbolTable()
	enc := NewEncoder(symbols)

	line := mustParse(t, "clr r2")
	words, err := enc.EncodeOperandWords(&line)
	require.NoError(t, err)
	require.Len(t, words, 1)
	require.Equal(t, (2<<3)|0b100, words[0].Value)
}

func TestEncodeSourceRegisterOwnWordWithDirectDest(t *testing.T) {
	symbols := parser.NewSymbolTable()
	symbols.Insert("LEN", 102, parser.SymbolLabel, true, 1)
	enc := NewEncoder(symbols)

	line := mustParse(t, "mov r2, LEN")
	words, err := enc.EncodeOperandWords(&line)
	require.NoError(t, err)
	require.Len(t, words, 2)
	require.Equal(t, (2<<6)|0b100, words[0].Value)
	require.Equal(t, ((102&0x1FFF)<<3)|0b010, words[1].Value)
}
