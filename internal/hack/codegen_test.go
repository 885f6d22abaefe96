package hack_test

import (
	"testing"

	"n2tc.dev/toolchain/internal/hack"
)

func TestGenerateAInst(t *testing.T) {
	test := func(name string, inst hack.AInstruction, table hack.SymbolTable, want string, wantErr bool) {
		t.Run(name, func(t *testing.T) {
			cg := hack.NewCodeGenerator(nil, table)
			got, err := cg.GenerateAInst(inst)

			if wantErr {
				if err == nil {
					t.Fatalf("expected an error, got none (result=%q)", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != want {
				t.Fatalf("got %q, want %q", got, want)
			}
		})
	}

	test("raw address", hack.AInstruction{LocType: hack.Raw, LocName: "2"}, hack.SymbolTable{},
		"0000000000000010", false)
	test("raw address zero", hack.AInstruction{LocType: hack.Raw, LocName: "0"}, hack.SymbolTable{},
		"0000000000000000", false)
	test("built-in SCREEN", hack.AInstruction{LocType: hack.BuiltIn, LocName: "SCREEN"}, hack.SymbolTable{},
		"0100000000000000", false)
	test("built-in unknown", hack.AInstruction{LocType: hack.BuiltIn, LocName: "NOPE"}, hack.SymbolTable{},
		"", true)
	test("label already resolved", hack.AInstruction{LocType: hack.Label, LocName: "LOOP"},
		hack.SymbolTable{"LOOP": 4}, "0000000000000100", false)
	test("boundary: max addressable address accepted", hack.AInstruction{LocType: hack.Raw, LocName: "32767"},
		hack.SymbolTable{}, "0111111111111111", false)
	test("boundary: one past max addressable address rejected", hack.AInstruction{LocType: hack.Raw, LocName: "32768"},
		hack.SymbolTable{}, "", true)
}

func TestGenerateAInstAllocatesVariables(t *testing.T) {
	table := hack.SymbolTable{}
	cg := hack.NewCodeGenerator(nil, table)

	first, err := cg.GenerateAInst(hack.AInstruction{LocType: hack.Label, LocName: "counter"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if first != "0000000000010000" { // first free variable slot is RAM[16]
		t.Fatalf("got %q, want RAM[16]", first)
	}

	second, err := cg.GenerateAInst(hack.AInstruction{LocType: hack.Label, LocName: "other"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if second != "0000000000010001" { // second variable gets the next free slot
		t.Fatalf("got %q, want RAM[17]", second)
	}

	// Referencing 'counter' again must resolve to the same address, not allocate a new one.
	again, err := cg.GenerateAInst(hack.AInstruction{LocType: hack.Label, LocName: "counter"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if again != first {
		t.Fatalf("got %q, want re-resolution to %q", again, first)
	}
}

func TestGenerateCInst(t *testing.T) {
	test := func(name string, inst hack.CInstruction, want string, wantErr bool) {
		t.Run(name, func(t *testing.T) {
			cg := hack.NewCodeGenerator(nil, hack.SymbolTable{})
			got, err := cg.GenerateCInst(inst)

			if wantErr {
				if err == nil {
					t.Fatalf("expected an error, got none (result=%q)", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != want {
				t.Fatalf("got %q, want %q", got, want)
			}
		})
	}

	test("D=M", hack.CInstruction{Comp: "M", Dest: "D", Jump: ""}, "1111110000010000", false)
	test("0;JMP", hack.CInstruction{Comp: "0", Dest: "", Jump: "JMP"}, "1110101010000111", false)
	test("D=D+1", hack.CInstruction{Comp: "D+1", Dest: "D", Jump: ""}, "1110011111010000", false)
	test("AM=M-1", hack.CInstruction{Comp: "M-1", Dest: "AM", Jump: ""}, "1111110010101000", false)
	test("missing comp", hack.CInstruction{Comp: "", Dest: "D", Jump: ""}, "", true)
	test("invalid comp", hack.CInstruction{Comp: "D+D", Dest: "D", Jump: ""}, "", true)
	test("invalid jump", hack.CInstruction{Comp: "D", Dest: "", Jump: "JBOGUS"}, "", true)
}

func TestGenerateProgram(t *testing.T) {
	program := hack.Program{
		hack.AInstruction{LocType: hack.Raw, LocName: "0"},
		hack.CInstruction{Comp: "A", Dest: "D", Jump: ""},
		hack.AInstruction{LocType: hack.BuiltIn, LocName: "KBD"},
		hack.CInstruction{Comp: "0", Dest: "", Jump: "JMP"},
	}
	cg := hack.NewCodeGenerator(program, hack.SymbolTable{})

	got, err := cg.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []string{
		"0000000000000000",
		"1110110000010000",
		"0110000000000000",
		"1110101010000111",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
