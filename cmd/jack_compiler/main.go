package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/n2t-toolchain/n2t/pkg/jack"
	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
The Jack Compiler compiles programs written in the Jack language -- a small,
class-based OOP language tailored for the Hack platform -- into VM bytecode
modules, one '.vm' file per compiled class.
`, "\n", " ")

var JackCompiler = cli.New(Description).
	WithArg(cli.NewArg("path", "A .jack source file or a directory of classes to compile")).
	WithAction(Handler)

// Handler implements the compiler's CLI contract: one argument, a source
// file or a directory walked recursively; each source file produces a '.vm'
// file alongside it.
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

	if !info.IsDir() {
		if !jack.IsSourceFile(path) {
			fmt.Printf("ERROR: %q does not have the required .jack extension\n", path)
			return 3
		}
		if status := compileFile(path); status != 0 {
			return status
		}
		return 0
	}

	sources := []string{}
	err = filepath.Walk(path, func(p string, fi fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && jack.IsSourceFile(p) {
			sources = append(sources, p)
		}
		return nil
	})
	if err != nil {
		fmt.Printf("ERROR: unable to walk directory: %s\n", err)
		return 1
	}
	if len(sources) == 0 {
		fmt.Printf("ERROR: %q contains no .jack files\n", path)
		return 4
	}

	for _, src := range sources {
		if status := compileFile(src); status != 0 {
			return status
		}
	}
	return 0
}

func compileFile(path string) int {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("ERROR: unable to read input file: %s\n", err)
		return 1
	}

	parser, err := jack.NewParser(bytes.NewReader(content))
	if err != nil {
		fmt.Printf("ERROR: unable to tokenize %q: %s\n", path, err)
		return 1
	}

	class, err := parser.CompileClass()
	if err != nil {
		fmt.Printf("ERROR: unable to complete 'parsing' pass on %q: %s\n", path, err)
		return 1
	}

	lines, err := jack.NewCodeGenerator().Generate(class)
	if err != nil {
		fmt.Printf("ERROR: unable to complete 'codegen' pass on %q: %s\n", path, err)
		return 1
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".vm"
	body := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(outPath, []byte(body), 0644); err != nil {
		fmt.Printf("ERROR: unable to write output file: %s\n", err)
		return 1
	}
	return 0
}

func main() { os.Exit(JackCompiler.Run(os.Args, os.Stdout)) }
