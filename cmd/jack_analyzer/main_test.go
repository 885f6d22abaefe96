package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJackAnalyzerProducesXMLParseTree(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Main.jack")
	src := `
		class Main {
			function void main() {
				return;
			}
		}
	`
	if err := os.WriteFile(input, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write fixture: %s", err)
	}

	if status := Handler([]string{input}, nil); status != 0 {
		t.Fatalf("unexpected exit status code: %d", status)
	}

	output := filepath.Join(dir, "Main.comp.xml")
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("error reading output file %s: %v", output, err)
	}

	if !strings.Contains(string(got), "<class>") || !strings.Contains(string(got), "</class>") {
		t.Fatalf("expected a '<class>' production, got:\n%s", got)
	}
	if !strings.Contains(string(got), "<subroutineDec>") {
		t.Fatalf("expected a '<subroutineDec>' production, got:\n%s", got)
	}
}

func TestJackAnalyzerRequiresAtLeastOneInput(t *testing.T) {
	if status := Handler(nil, nil); status == 0 {
		t.Fatal("expected a non-zero exit status with no input files given")
	}
}

func TestJackAnalyzerRejectsSyntaxError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Broken.jack")
	if err := os.WriteFile(input, []byte(`class Broken {`), 0644); err != nil {
		t.Fatalf("failed to write fixture: %s", err)
	}

	if status := Handler([]string{input}, nil); status == 0 {
		t.Fatal("expected a non-zero exit status for an unclosed class body")
	}
}
