package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempAsm(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}
	return path
}

func TestHackAssemblerAdd(t *testing.T) {
	dir := t.TempDir()
	input := writeTempAsm(t, dir, "Add.asm", `
// Computes R0 = 2 + 3
@2
D=A
@3
D=D+A
@0
M=D
`)

	status := Handler([]string{input}, nil)
	if status != 0 {
		t.Fatalf("unexpected exit status: %d", status)
	}

	out, err := os.ReadFile(filepath.Join(dir, "Add.hack"))
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}

	want := "0000000000000010\n1110110000010000\n0000000000000011\n1110000010010000\n0000000000000000\n1110001100001000\n"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestHackAssemblerMissingPath(t *testing.T) {
	status := Handler([]string{filepath.Join(t.TempDir(), "missing.asm")}, nil)
	if status != 2 {
		t.Fatalf("expected exit status 2, got %d", status)
	}
}

func TestHackAssemblerWrongExtension(t *testing.T) {
	dir := t.TempDir()
	input := writeTempAsm(t, dir, "Add.txt", "@0\n")

	status := Handler([]string{input}, nil)
	if status != 3 {
		t.Fatalf("expected exit status 3, got %d", status)
	}
}

func TestHackAssemblerDirectoryRejected(t *testing.T) {
	status := Handler([]string{t.TempDir()}, nil)
	if status != 3 {
		t.Fatalf("expected exit status 3, got %d", status)
	}
}

func TestHackAssemblerCompileError(t *testing.T) {
	dir := t.TempDir()
	input := writeTempAsm(t, dir, "Bad.asm", "@32768\n")

	status := Handler([]string{input}, nil)
	if status != 1 {
		t.Fatalf("expected exit status 1, got %d", status)
	}
}
