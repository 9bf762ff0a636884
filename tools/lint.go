// Package tools provides advisory analysis over assembly source, run
// optionally after a successful assembly.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/asmteach/asm15/parser"
)

// LintLevel represents the severity of a lint issue.
type LintLevel int

const (
	LintError   LintLevel = iota // Would also be caught by the assembler itself
	LintWarning                  // Best-practice violations, potential issues
	LintInfo                     // Suggestions, style recommendations
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single lint finding.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// LintOptions controls linter behavior.
type LintOptions struct {
	CheckUnusedExtern bool
	CheckUnusedEntry  bool
	SuggestFixes      bool
	MaxLabelLength    int
}

// DefaultLintOptions returns default linter options.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{
		CheckUnusedExtern: true,
		CheckUnusedEntry:  true,
		SuggestFixes:      true,
		MaxLabelLength:    31,
	}
}

// Linter analyzes assembly source for advisory findings. Its LintError
// findings repeat checks the assembler itself treats as fatal; the others
// are issues the assembler accepts.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue

	definedLabels   map[string]int
	externSymbols   map[string]int
	entrySymbols    map[string]int
	referencedNames map[string]bool
}

// NewLinter creates a new linter.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{
		options:         options,
		definedLabels:   make(map[string]int),
		externSymbols:   make(map[string]int),
		entrySymbols:    make(map[string]int),
		referencedNames: make(map[string]bool),
	}
}

// Lint analyzes source, returning issues sorted by line number.
func (l *Linter) Lint(source, filename string) []*LintIssue {
	lines := strings.Split(source, "\n")
	parsed := make([]parser.ParsedLine, 0, len(lines))

	for i, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		pos := parser.Position{Filename: filename, Line: i + 1}
		line := parser.ParseLine(raw, pos, false, nil)
		if line.Err {
			continue
		}
		parsed = append(parsed, line)
	}

	l.collectDeclarations(parsed)
	l.checkLabelLengths(parsed)
	l.checkUndefinedReferences(parsed)

	if l.options.CheckUnusedExtern {
		l.checkUnusedExterns(parsed)
	}
	if l.options.CheckUnusedEntry {
		l.checkUnresolvedEntries(parsed)
	}

	sort.Slice(l.issues, func(i, j int) bool { return l.issues[i].Line < l.issues[j].Line })
	return l.issues
}

func (l *Linter) collectDeclarations(lines []parser.ParsedLine) {
	for _, line := range lines {
		if line.HasLabel {
			l.definedLabels[line.Label] = line.Pos.Line
		}
		if line.IsDirective && line.Directive == parser.DirectiveExtern {
			name := strings.TrimSpace(line.RawArgs)
			if name != "" {
				l.externSymbols[name] = line.Pos.Line
			}
		}
		if line.IsDirective && line.Directive == parser.DirectiveEntry {
			name := strings.TrimSpace(line.RawArgs)
			if name != "" {
				l.entrySymbols[name] = line.Pos.Line
			}
		}
		for _, op := range line.Operands {
			if op.Mode == parser.Direct {
				l.referencedNames[op.Raw] = true
			}
		}
	}
}

func (l *Linter) checkLabelLengths(lines []parser.ParsedLine) {
	for _, line := range lines {
		if line.HasLabel && len(line.Label) > l.options.MaxLabelLength {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintWarning,
				Line:    line.Pos.Line,
				Message: fmt.Sprintf("label %q exceeds the recommended %d-character length", line.Label, l.options.MaxLabelLength),
				Code:    "LABEL_TOO_LONG",
			})
		}
	}
}

// checkUndefinedReferences warns about Direct operands that name neither a
// defined label nor a declared extern symbol — the assembler itself will
// already reject these at encode time, but surfacing it here lets an editor
// integration flag it before a full assembly run.
func (l *Linter) checkUndefinedReferences(lines []parser.ParsedLine) {
	for _, line := range lines {
		for _, op := range line.Operands {
			if op.Mode != parser.Direct {
				continue
			}
			_, isLabel := l.definedLabels[op.Raw]
			_, isExtern := l.externSymbols[op.Raw]
			if isLabel || isExtern {
				continue
			}
			msg := fmt.Sprintf("reference to undefined symbol %q", op.Raw)
			if l.options.SuggestFixes {
				if suggestion := l.findSimilarLabel(op.Raw); suggestion != "" {
					msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
				}
			}
			l.issues = append(l.issues, &LintIssue{
				Level:   LintError,
				Line:    line.Pos.Line,
				Message: msg,
				Code:    "UNDEF_SYMBOL",
			})
		}
	}
}

func (l *Linter) checkUnusedExterns(lines []parser.ParsedLine) {
	for name, defLine := range l.externSymbols {
		if !l.referencedNames[name] {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintWarning,
				Line:    defLine,
				Message: fmt.Sprintf("extern %q declared but never referenced", name),
				Code:    "UNUSED_EXTERN",
			})
		}
	}
}

func (l *Linter) checkUnresolvedEntries(lines []parser.ParsedLine) {
	for name, defLine := range l.entrySymbols {
		if _, ok := l.definedLabels[name]; !ok {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintError,
				Line:    defLine,
				Message: fmt.Sprintf("entry %q does not name a label defined in this file", name),
				Code:    "UNRESOLVED_ENTRY",
			})
		}
	}
}

// findSimilarLabel finds a defined label close in spelling to target, for
// typo suggestions.
func (l *Linter) findSimilarLabel(target string) string {
	bestMatch := ""
	bestDistance := 4
	for label := range l.definedLabels {
		dist := levenshteinDistance(label, target)
		if dist < bestDistance {
			bestMatch = label
			bestDistance = dist
		}
	}
	return bestMatch
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = minOf3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}
	return matrix[len(s1)][len(s2)]
}

func minOf3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
