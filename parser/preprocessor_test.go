package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreprocessorStripsCommentsAndBlankLines(t *testing.T) {
	p := NewPreprocessor("t.as")
	out, err := p.Process("; a comment\nmov r1, r2\n\nstop\n")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Equal(t, []string{"mov r1, r2", "stop"}, lines)
}

func TestPreprocessorExpandsMacro(t *testing.T) {
	p := NewPreprocessor("t.as")
	src := "macr m_clear\nmov #0, r1\nmov #0, r2\nendmacr\nm_clear\nstop\n"
	out, err := p.Process(src)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Equal(t, []string{"mov #0, r1", "mov #0, r2", "stop"}, lines)

	_, ok := p.Macros().Lookup("m_clear")
	require.True(t, ok)
}

func TestPreprocessorMissingEndmacrIsFatal(t *testing.T) {
	p := NewPreprocessor("t.as")
	_, err := p.Process("macr m1\nmov r1, r2\n")
	require.Error(t, err)
}

func TestPreprocessorBareEndmacrIsFatal(t *testing.T) {
	p := NewPreprocessor("t.as")
	_, err := p.Process("endmacr\n")
	require.Error(t, err)
}

func TestPreprocessorMalformedMacroNameIsFatal(t *testing.T) {
	p := NewPreprocessor("t.as")
	_, err := p.Process("macr\nstop\nendmacr\n")
	require.Error(t, err)
}

func TestPreprocessorMacroNameCannotBeMnemonic(t *testing.T) {
	p := NewPreprocessor("t.as")
	_, err := p.Process("macr mov\nstop\nendmacr\n")
	require.Error(t, err)
}

func TestPreprocessorDuplicateMacroNameIsFatal(t *testing.T) {
	p := NewPreprocessor("t.as")
	src := "macr m1\nstop\nendmacr\nmacr m1\nrts\nendmacr\n"
	_, err := p.Process(src)
	require.Error(t, err)
}
