package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/n2t-toolchain/n2t/pkg/asm"
	"github.com/n2t-toolchain/n2t/pkg/hack"
	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
The Hack Assembler takes Hack assembly (.asm) source and translates it into the
16-bit machine code the Hack CPU runs: parsing each instruction, resolving every
label and variable symbol, then emitting one binary word per line.
`, "\n", " ")

var HackAssembler = cli.New(Description).
	WithArg(cli.NewArg("path", "The assembly (.asm) file to assemble")).
	WithAction(Handler)

// Handler implements the assembler's CLI contract: one argument, a '.asm'
// file; output is written to '<name>.hack' alongside it.
func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Println("ERROR: missing required <path> argument")
		return 2
	}
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("ERROR: path not found: %s\n", err)
		return 2
	}
	if info.IsDir() {
		fmt.Println("ERROR: expected a .asm file, got a directory")
		return 3
	}
	if !asm.IsAsmFile(path) {
		fmt.Printf("ERROR: %q does not have the required .asm extension\n", path)
		return 3
	}

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("ERROR: unable to read input file: %s\n", err)
		return 1
	}

	parser := asm.NewParser(bytes.NewReader(content))
	program, err := parser.ParseWithLines()
	if err != nil {
		fmt.Printf("ERROR: unable to complete 'parsing' pass: %s\n", err)
		return 1
	}

	binary, err := hack.Assemble(program)
	if err != nil {
		fmt.Printf("ERROR: unable to complete 'assembling' pass: %s\n", err)
		return 1
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".hack"
	if err := os.WriteFile(outPath, []byte(binary+"\n"), 0644); err != nil {
		fmt.Printf("ERROR: unable to write output file: %s\n", err)
		return 1
	}

	return 0
}

func main() { os.Exit(HackAssembler.Run(os.Args, os.Stdout)) }
