package vm

import (
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// ----------------------------------------------------------------------------
// Vm Translator

// Translator orchestrates parsing and assembly generation over a whole
// program: one or more '.vm' files, each translated under its own file-stem
// module scope, optionally preceded by a bootstrap sequence (directory-mode
// translation only).

// Unit is one '.vm' translation unit: its file stem (used for 'static' naming
// and label scoping) paired with its source text.
type Unit struct {
	Stem   string
	Source io.Reader
}

// bootstrap sets SP to 256, the base of the stack. Translate follows it with
// a call to Sys.init built by generateFuncCall, so that call pushes a return
// address and a caller frame like any other call.
const bootstrap = "@256\nD=A\n@SP\nM=D\n"

// Translate lowers every unit to Assembly text and concatenates the results in
// lexicographic order by file stem, so that a given set of input files always
// produces the same output regardless of directory-listing order.
//
// withBootstrap is true only for directory-mode translation; a single bare
// '.vm' file is translated without it.
func Translate(units []Unit, withBootstrap bool) (string, error) {
	sort.Slice(units, func(i, j int) bool { return units[i].Stem < units[j].Stem })

	out := ""
	if withBootstrap {
		cg := NewCodeGenerator("Sys")
		out += bootstrap
		call, err := cg.generateFuncCall(FuncCallOp{Name: "Sys.init", NArgs: 0})
		if err != nil {
			return "", err
		}
		out += call
	}

	for _, unit := range units {
		parser := NewParser(unit.Source)
		module, err := parser.Parse()
		if err != nil {
			return "", err
		}
		text, err := NewCodeGenerator(unit.Stem).Generate(module)
		if err != nil {
			return "", err
		}
		out += text
	}
	return out, nil
}

// Stem strips the directory and '.vm' extension from path, e.g. 'Main.vm' -> 'Main'.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsVMFile reports whether path carries the '.vm' translation-unit extension.
func IsVMFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".vm")
}
