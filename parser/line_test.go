package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, raw string) ParsedLine {
	t.Helper()
	errs := &ErrorList{}
	line := ParseLine(raw, Position{Filename: "t.as", Line: 1}, true, errs)
	require.False(t, line.Err, "unexpected parse error: %v", errs.Errors)
	return line
}

func TestParseLineLabelAndMnemonic(t *testing.T) {
	line := parseOK(t, "LOOP: mov r3, r4")
	require.True(t, line.HasLabel)
	require.Equal(t, "LOOP", line.Label)
	require.Equal(t, "mov", line.Mnemonic)
	require.Len(t, line.Operands, 2)
	require.Equal(t, Register, line.Operands[0].Mode)
	require.Equal(t, Register, line.Operands[1].Mode)
}

func TestParseLineNoLabel(t *testing.T) {
	line := parseOK(t, "stop")
	require.False(t, line.HasLabel)
	require.Equal(t, "stop", line.Mnemonic)
	require.Empty(t, line.Operands)
}

func TestParseLineDirective(t *testing.T) {
	line := parseOK(t, "STR: .string \"abc\"")
	require.True(t, line.HasLabel)
	require.True(t, line.IsDirective)
	require.Equal(t, DirectiveString, line.Directive)
	require.Equal(t, `"abc"`, line.RawArgs)
}

func TestParseLineOperandClassification(t *testing.T) {
	line := parseOK(t, "mov #7, LEN")
	require.Equal(t, Immediate, line.Operands[0].Mode)
	require.Equal(t, Direct, line.Operands[1].Mode)

	line = parseOK(t, "mov *r2, r3")
	require.Equal(t, IndirectRegister, line.Operands[0].Mode)
	require.Equal(t, Register, line.Operands[1].Mode)
}

func TestParseLineUnknownMnemonic(t *testing.T) {
	errs := &ErrorList{}
	line := ParseLine("frobnicate r1", Position{Filename: "t.as", Line: 3}, true, errs)
	require.True(t, line.Err)
	require.True(t, errs.HasErrors())
	require.Equal(t, ErrKindUnknownMnemonic, errs.Errors[0].Kind)
}

func TestParseLineWrongOperandCount(t *testing.T) {
	errs := &ErrorList{}
	line := ParseLine("mov r1", Position{Filename: "t.as", Line: 5}, true, errs)
	require.True(t, line.Err)
	require.Equal(t, ErrKindOperandCount, errs.Errors[0].Kind)
}

func TestParseLineEmptyOperand(t *testing.T) {
	errs := &ErrorList{}
	line := ParseLine("mov r1, , r2", Position{Filename: "t.as", Line: 5}, true, errs)
	require.True(t, line.Err)
	found := false
	for _, e := range errs.Errors {
		if e.Kind == ErrKindEmptyOperand {
			found = true
		}
	}
	require.True(t, found)
}

func TestParseLineBadLabelSyntax(t *testing.T) {
	errs := &ErrorList{}
	line := ParseLine("1BAD: mov r1, r2", Position{Filename: "t.as", Line: 1}, true, errs)
	require.True(t, line.Err)
	require.Equal(t, ErrKindBadLabelSyntax, errs.Errors[0].Kind)
}

func TestParseLineUnknownDirective(t *testing.T) {
	errs := &ErrorList{}
	line := ParseLine(".bogus 1,2,3", Position{Filename: "t.as", Line: 1}, true, errs)
	require.True(t, line.Err)
	require.Equal(t, ErrKindUnknownDirective, errs.Errors[0].Kind)
}
