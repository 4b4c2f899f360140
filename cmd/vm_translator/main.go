package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/n2t-toolchain/n2t/pkg/vm"
	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
The VM Translator lowers programs written in the stack-based VM bytecode into
Hack assembly: a single '.vm' file becomes '<name>.asm' alongside it, while a
directory of modules is translated together into one bootstrapped '.asm' file
that calls Sys.init.
`, "\n", " ")

var VmTranslator = cli.New(Description).
	WithArg(cli.NewArg("path", "A .vm file or a directory of .vm modules to translate")).
	WithAction(Handler)

// Handler implements the translator's CLI contract.
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
		return translateDirectory(path)
	}
	return translateFile(path)
}

func translateFile(path string) int {
	if !vm.IsVMFile(path) {
		fmt.Printf("ERROR: %q does not have the required .vm extension\n", path)
		return 3
	}

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("ERROR: unable to read input file: %s\n", err)
		return 1
	}

	unit := vm.Unit{Stem: vm.Stem(path), Source: bytes.NewReader(content)}
	asmText, err := vm.Translate([]vm.Unit{unit}, false)
	if err != nil {
		fmt.Printf("ERROR: unable to complete 'translation' pass: %s\n", err)
		return 1
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".asm"
	if err := os.WriteFile(outPath, []byte(asmText), 0644); err != nil {
		fmt.Printf("ERROR: unable to write output file: %s\n", err)
		return 1
	}
	return 0
}

func translateDirectory(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Printf("ERROR: unable to read directory: %s\n", err)
		return 1
	}

	units := []vm.Unit{}
	for _, entry := range entries {
		if entry.IsDir() || !vm.IsVMFile(entry.Name()) {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(full)
		if err != nil {
			fmt.Printf("ERROR: unable to read input file: %s\n", err)
			return 1
		}
		units = append(units, vm.Unit{Stem: vm.Stem(full), Source: bytes.NewReader(content)})
	}

	if len(units) == 0 {
		fmt.Printf("ERROR: %q contains no .vm files\n", dir)
		return 4
	}

	asmText, err := vm.Translate(units, true)
	if err != nil {
		fmt.Printf("ERROR: unable to complete 'translation' pass: %s\n", err)
		return 1
	}

	base := filepath.Base(filepath.Clean(dir))
	outPath := filepath.Join(dir, base+".asm")
	if err := os.WriteFile(outPath, []byte(asmText), 0644); err != nil {
		fmt.Printf("ERROR: unable to write output file: %s\n", err)
		return 1
	}
	return 0
}

func main() { os.Exit(VmTranslator.Run(os.Args, os.Stdout)) }
