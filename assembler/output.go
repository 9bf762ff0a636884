package assembler

import (
	"fmt"
	"os"
	"sort"

	"github.com/asmteach/asm15/parser"
)

// WriteOutputFiles emits the .ob file, and the .ent/.ext files if and only
// if they would be non-empty (§4.7).
func WriteOutputFiles(baseName string, fp *FirstPassResult, sp *SecondPassResult) error {
	if err := writeObjectFile(baseName+".ob", fp.FinalIC, fp.FinalDC, sp.Binary); err != nil {
		return err
	}
	if err := writeEntryFile(baseName+".ent", fp.Symbols); err != nil {
		return err
	}
	if err := writeExternFile(baseName+".ext", sp.Externals); err != nil {
		return err
	}
	return nil
}

func writeObjectFile(path string, finalIC, finalDC int, binary *BinaryTable) error {
	f, err := os.Create(path) // #nosec G304 -- path is derived from the user-supplied base name
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	words := make([]Word, len(binary.Words))
	copy(words, binary.Words)
	sort.Slice(words, func(i, j int) bool { return words[i].Address < words[j].Address })

	if _, err := fmt.Fprintf(f, "%d %d\n", finalIC-100, finalDC); err != nil {
		return err
	}
	for _, w := range words {
		if _, err := fmt.Fprintf(f, "%04d %05o\n", w.Address, w.Value); err != nil {
			return err
		}
	}
	return nil
}

func writeEntryFile(path string, symbols *parser.SymbolTable) error {
	entries := symbols.Entries()
	if len(entries) == 0 {
		return nil
	}
	f, err := os.Create(path) // #nosec G304 -- path is derived from the user-supplied base name
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	for _, sym := range entries {
		if _, err := fmt.Fprintf(f, "%s %04d\n", sym.Name, sym.Address); err != nil {
			return err
		}
	}
	return nil
}

func writeExternFile(path string, externals []ExternalReference) error {
	if len(externals) == 0 {
		return nil
	}
	f, err := os.Create(path) // #nosec G304 -- path is derived from the user-supplied base name
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	for _, ref := range externals {
		if _, err := fmt.Fprintf(f, "%s %04d\n", ref.Name, ref.Address); err != nil {
			return err
		}
	}
	return nil
}
