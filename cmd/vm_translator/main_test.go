package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempVM(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}
	return path
}

func TestVMTranslatorSingleFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTempVM(t, dir, "SimpleAdd.vm", `
push constant 7
push constant 8
add
`)

	status := Handler([]string{input}, nil)
	if status != 0 {
		t.Fatalf("unexpected exit status: %d", status)
	}

	out, err := os.ReadFile(filepath.Join(dir, "SimpleAdd.asm"))
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if strings.Contains(string(out), "@Sys.init") {
		t.Fatal("single-file translation must not include the bootstrap sequence")
	}
}

func TestVMTranslatorDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTempVM(t, dir, "Main.vm", `
function Main.main 0
call Sys.init 0
return
`)
	writeTempVM(t, dir, "Sys.vm", `
function Sys.init 0
push constant 0
return
`)

	status := Handler([]string{dir}, nil)
	if status != 0 {
		t.Fatalf("unexpected exit status: %d", status)
	}

	outPath := filepath.Join(dir, filepath.Base(dir)+".asm")
	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if !strings.Contains(string(out), "@Sys.init") {
		t.Fatal("directory translation must include the bootstrap call to Sys.init")
	}
}

func TestVMTranslatorMissingPath(t *testing.T) {
	status := Handler([]string{filepath.Join(t.TempDir(), "missing.vm")}, nil)
	if status != 2 {
		t.Fatalf("expected exit status 2, got %d", status)
	}
}

func TestVMTranslatorWrongExtension(t *testing.T) {
	dir := t.TempDir()
	input := writeTempVM(t, dir, "Main.txt", "push constant 1\n")

	status := Handler([]string{input}, nil)
	if status != 3 {
		t.Fatalf("expected exit status 3, got %d", status)
	}
}

func TestVMTranslatorEmptyDirectory(t *testing.T) {
	status := Handler([]string{t.TempDir()}, nil)
	if status != 4 {
		t.Fatalf("expected exit status 4, got %d", status)
	}
}

func TestVMTranslatorCompileError(t *testing.T) {
	dir := t.TempDir()
	input := writeTempVM(t, dir, "Bad.vm", "pop constant 0\n")

	status := Handler([]string{input}, nil)
	if status != 1 {
		t.Fatalf("expected exit status 1, got %d", status)
	}
}
