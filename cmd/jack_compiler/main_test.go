package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const mainClassSource = `
class Main {
	function void main() {
		do Output.printInt(Main.answer());
		return;
	}

	function int answer() {
		return 42;
	}
}
`

func TestJackCompilerProducesOneVMFilePerSource(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Main.jack")
	if err := os.WriteFile(input, []byte(mainClassSource), 0644); err != nil {
		t.Fatalf("failed to write fixture: %s", err)
	}

	if status := Handler([]string{input}, map[string]string{"stdlib": "true"}); status != 0 {
		t.Fatalf("unexpected exit status code: %d", status)
	}

	output := filepath.Join(dir, "Main.vm")
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("error reading output file %s: %v", output, err)
	}

	if !strings.Contains(string(got), "function Main.main 0") {
		t.Fatalf("expected a 'function Main.main 0' declaration, got:\n%s", got)
	}
	if !strings.Contains(string(got), "call Main.answer 0") {
		t.Fatalf("expected a call to 'Main.answer', got:\n%s", got)
	}
	if !strings.Contains(string(got), "call Output.printInt 1") {
		t.Fatalf("expected a call to the stdlib 'Output.printInt', got:\n%s", got)
	}
}

func TestJackCompilerRequiresAtLeastOneInput(t *testing.T) {
	if status := Handler(nil, nil); status == 0 {
		t.Fatal("expected a non-zero exit status with no input files given")
	}
}

func TestJackCompilerTypecheckRejectsUndeclaredVariable(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Broken.jack")
	src := `
		class Broken {
			function void main() {
				let x = 1;
				return;
			}
		}
	`
	if err := os.WriteFile(input, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write fixture: %s", err)
	}

	if status := Handler([]string{input}, map[string]string{"typecheck": "true"}); status == 0 {
		t.Fatal("expected a non-zero exit status assigning to an undeclared variable")
	}
}

func TestJackCompilerRejectsSyntaxError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Broken.jack")
	if err := os.WriteFile(input, []byte(`class Broken {`), 0644); err != nil {
		t.Fatalf("failed to write fixture: %s", err)
	}

	if status := Handler([]string{input}, nil); status == 0 {
		t.Fatal("expected a non-zero exit status for an unclosed class body")
	}
}
