package assembler

import (
	"fmt"
	"os"

	"github.com/asmteach/asm15/parser"
)

// Result is the outcome of assembling one source file: the diagnostics
// from whichever pass ran, and whether the output files were written.
// Ran is false whenever either pass recorded an error, even when pass 2
// ran and SecondPass is set.
type Result struct {
	FirstPass  *FirstPassResult
	SecondPass *SecondPassResult
	Ran        bool
}

// Run executes the full pipeline for baseName (without extension):
// pre-process → pass 1 → pass 2 → output emission (§5). Pass 2 is skipped
// if pass 1 recorded any error, per §7's propagation rule.
func Run(baseName string) (*Result, error) {
	asPath := baseName + ".as"
	source, err := os.ReadFile(asPath) // #nosec G304 -- path is derived from the user-supplied base name
	if err != nil {
		return nil, fmt.Errorf("Error on line 0: could not open %s: %w", asPath, err)
	}

	pre := parser.NewPreprocessor(asPath)
	amContent, err := pre.Process(string(source))
	if err != nil {
		return nil, fmt.Errorf("Error on line 0: %w", err)
	}

	amPath := baseName + ".am"
	if err := os.WriteFile(amPath, []byte(amContent), 0o644); err != nil { // #nosec G306 -- generated intermediate artifact
		return nil, fmt.Errorf("Error on line 0: could not write %s: %w", amPath, err)
	}

	fp := RunFirstPass(amPath, amContent)
	result := &Result{FirstPass: fp}
	if fp.Errors.HasErrors() {
		return result, nil
	}

	sp := RunSecondPass(amPath, amContent, fp.Symbols, fp.FinalIC)
	result.SecondPass = sp
	if sp.Errors.HasErrors() {
		return result, nil
	}

	if err := WriteOutputFiles(baseName, fp, sp); err != nil {
		return result, err
	}
	result.Ran = true
	return result, nil
}
