package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestHackAssembler(t *testing.T) {
	test := func(name, source, want string) {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, name+".asm")
			output := filepath.Join(dir, name+".hack")

			if err := os.WriteFile(input, []byte(source), 0644); err != nil {
				t.Fatalf("failed to write fixture: %s", err)
			}

			status := Handler([]string{input, output}, nil)
			if status != 0 {
				t.Fatalf("unexpected exit status code: expected 0 got: %d", status)
			}

			got, err := os.ReadFile(output)
			if err != nil {
				t.Fatalf("error reading output file %s: %v", output, err)
			}
			if string(got) != want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, want)
			}
		})
	}

	// @2, D=A, @3, D=D+A, @0, M=D
	test("Add", "@2\nD=A\n@3\nD=D+A\n@0\nM=D\n",
		"0000000000000010\n1110110000010000\n0000000000000011\n1110000010010000\n0000000000000000\n1110001100001000\n",
	)

	// Variables (not built-in, not labels) are allocated starting at 16.
	test("Variables", "@foo\nM=1\n@bar\nM=1\n@foo\nD=M\n",
		fmt.Sprintf("%016b\n1110111111001000\n%016b\n1110111111001000\n%016b\n1111110000010000\n", 16, 17, 16),
	)

	test("LabelLoop", "(LOOP)\n@LOOP\n0;JMP\n",
		fmt.Sprintf("%016b\n1110101010000111\n", 0),
	)
}

func TestHackAssemblerRejectsOutOfBoundAddress(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "OutOfBound.asm")
	output := filepath.Join(dir, "OutOfBound.hack")

	if err := os.WriteFile(input, []byte("@32768\nD=A\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %s", err)
	}

	if status := Handler([]string{input, output}, nil); status == 0 {
		t.Fatal("expected a non-zero exit status for an out-of-bound address")
	}
}
