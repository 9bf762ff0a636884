package parser

import (
	"fmt"
	"strings"
)

const (
	macroStartKeyword = "macr"
	macroEndKeyword   = "endmacr"
)

// Preprocessor runs before the first pass: it strips comments and blank
// lines, then captures and expands macro bodies (§4.2). It has no
// knowledge of file inclusion or conditional assembly — both are excluded
// from this ISA's assembler.
type Preprocessor struct {
	filename string
	macros   *MacroStore
}

// NewPreprocessor creates a preprocessor for the named source file.
func NewPreprocessor(filename string) *Preprocessor {
	return &Preprocessor{filename: filename, macros: NewMacroStore()}
}

// Macros returns the macro store populated while processing, so the first
// pass can, if ever needed, inspect macro definitions after the fact.
func (p *Preprocessor) Macros() *MacroStore {
	return p.macros
}

// Process cleans and macro-expands content, returning the text that would
// be written to the `.am` stream. Macro-definition errors are fatal and
// abort the pipeline per §7.
func (p *Preprocessor) Process(content string) (string, error) {
	cleaned := clean(content)
	return p.expandMacros(cleaned)
}

// clean discards comment lines, blank lines, and leading whitespace.
func clean(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func (p *Preprocessor) expandMacros(lines []string) (string, error) {
	var out []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		head := firstToken(line)

		switch {
		case head == macroStartKeyword:
			name, rest, ok := splitMacroHeader(line)
			if !ok {
				return "", fmt.Errorf("macro name missing in %q", line)
			}
			if rest != "" {
				return "", fmt.Errorf("additional characters after macro name %q", name)
			}
			if _, exists := p.macros.Lookup(name); exists {
				return "", fmt.Errorf("macro %q already defined", name)
			}
			if IsOpcode(name) || IsDirective(name) {
				return "", fmt.Errorf("macro name %q is a restricted name", name)
			}

			body, end, err := captureBody(lines, i+1)
			if err != nil {
				return "", err
			}
			if defErr := p.macros.Define(&Macro{Name: name, Body: body}); defErr != nil {
				return "", defErr
			}
			i = end + 1

		case head == macroEndKeyword:
			return "", fmt.Errorf("endmacr without matching macr")

		default:
			if body, exists := p.macros.Expand(head); exists {
				out = append(out, body...)
			} else {
				out = append(out, line)
			}
			i++
		}
	}
	return strings.Join(out, "\n") + "\n", nil
}

// captureBody reads lines verbatim starting at idx until a line beginning
// with endmacr is found. It returns the body lines and the index of the
// endmacr line. EOF before endmacr is a hard error.
func captureBody(lines []string, idx int) ([]string, int, error) {
	var body []string
	for j := idx; j < len(lines); j++ {
		if firstToken(lines[j]) == macroEndKeyword {
			return body, j, nil
		}
		body = append(body, lines[j])
	}
	return nil, 0, fmt.Errorf("macro definition missing endmacr")
}

func firstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// splitMacroHeader parses "macr NAME" and returns the name plus any
// trailing text after it (which must be empty for a valid definition).
func splitMacroHeader(line string) (name, rest string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", false
	}
	name = fields[1]
	if len(fields) > 2 {
		rest = strings.Join(fields[2:], " ")
	}
	return name, rest, true
}
