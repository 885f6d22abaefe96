package vm_test

import (
	"testing"

	"n2tc.dev/toolchain/internal/asm"
	"n2tc.dev/toolchain/internal/vm"
)

func TestLowerRejectsEmptyProgram(t *testing.T) {
	lowerer := vm.NewLowerer(nil)
	if _, err := lowerer.Lower(); err == nil {
		t.Fatal("expected an error for a nil/empty program")
	}
}

func TestLowerPushConstant(t *testing.T) {
	program := vm.Program{{File: "Main.vm", Module: vm.Module{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 17},
	}}}
	lowerer := vm.NewLowerer(program)

	lowered, err := lowerer.Lower()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	first, ok := lowered[0].(asm.AInstruction)
	if !ok || first.Location != "17" {
		t.Fatalf("expected first instruction to load constant 17, got %#v", lowered[0])
	}
}

func TestLowerRejectsPopConstant(t *testing.T) {
	program := vm.Program{{File: "Main.vm", Module: vm.Module{
		vm.MemoryOp{Operation: vm.Pop, Segment: vm.Constant, Offset: 0},
	}}}
	lowerer := vm.NewLowerer(program)
	if _, err := lowerer.Lower(); err == nil {
		t.Fatal("expected an error popping into 'constant'")
	}
}

func TestLowerComparisonLabelsAreUnique(t *testing.T) {
	program := vm.Program{{File: "Main.vm", Module: vm.Module{
		vm.ArithmeticOp{Operation: vm.Eq},
		vm.ArithmeticOp{Operation: vm.Eq},
	}}}
	lowerer := vm.NewLowerer(program)

	lowered, err := lowerer.Lower()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	seen := map[string]bool{}
	for _, inst := range lowered {
		if decl, ok := inst.(asm.LabelDecl); ok {
			if seen[decl.Name] {
				t.Fatalf("duplicate label declaration %q across two 'eq' ops", decl.Name)
			}
			seen[decl.Name] = true
		}
	}
	if len(seen) != 4 { // 2 labels (true/end) per 'eq' occurrence
		t.Fatalf("got %d distinct labels, want 4", len(seen))
	}
}

func TestLowerLabelsAreScopedPerFunction(t *testing.T) {
	program := vm.Program{{File: "Main.vm", Module: vm.Module{
		vm.FuncDecl{Name: "Main.a", NLocal: 0},
		vm.LabelDecl{Name: "LOOP"},
		vm.GotoOp{Jump: vm.Unconditional, Label: "LOOP"},
		vm.ReturnOp{},
		vm.FuncDecl{Name: "Main.b", NLocal: 0},
		vm.LabelDecl{Name: "LOOP"},
		vm.GotoOp{Jump: vm.Unconditional, Label: "LOOP"},
		vm.ReturnOp{},
	}}}
	lowerer := vm.NewLowerer(program)

	lowered, err := lowerer.Lower()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	labels := map[string]bool{}
	for _, inst := range lowered {
		if decl, ok := inst.(asm.LabelDecl); ok {
			labels[decl.Name] = true
		}
	}
	if !labels["Main.a$LOOP"] || !labels["Main.b$LOOP"] {
		t.Fatalf("expected scoped labels 'Main.a$LOOP' and 'Main.b$LOOP', got %v", labels)
	}
}

func TestLowerFuncDeclPushesZeroedLocals(t *testing.T) {
	program := vm.Program{{File: "Main.vm", Module: vm.Module{
		vm.FuncDecl{Name: "Main.f", NLocal: 3},
	}}}
	lowerer := vm.NewLowerer(program)

	lowered, err := lowerer.Lower()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	zeroPushes := 0
	for _, inst := range lowered {
		if c, ok := inst.(asm.CInstruction); ok && c.Comp == "0" && c.Dest == "D" {
			zeroPushes++
		}
	}
	if zeroPushes != 3 {
		t.Fatalf("got %d zero-initializations, want 3 (one per local)", zeroPushes)
	}
}

func TestLowerStaticSegmentScopedToFile(t *testing.T) {
	program := vm.Program{{File: "Main.vm", Module: vm.Module{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Static, Offset: 0},
	}}}
	lowerer := vm.NewLowerer(program)

	lowered, err := lowerer.Lower()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	found := false
	for _, inst := range lowered {
		if a, ok := inst.(asm.AInstruction); ok && a.Location == "Main.0" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a reference to 'Main.0', got %#v", lowered)
	}
}

func TestBootstrapCallsSysInit(t *testing.T) {
	lowerer := vm.NewLowerer(nil)
	bootstrap := lowerer.Bootstrap()

	found := false
	for _, inst := range bootstrap {
		if a, ok := inst.(asm.AInstruction); ok && a.Location == "Sys.init" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected bootstrap to reference 'Sys.init'")
	}
}

func TestBootstrapAndProgramShareLabelCounter(t *testing.T) {
	program := vm.Program{{File: "Main.vm", Module: vm.Module{
		vm.FuncCallOp{Name: "Main.main", NArgs: 0},
	}}}
	lowerer := vm.NewLowerer(program)
	bootstrap := lowerer.Bootstrap()

	lowered, err := lowerer.Lower()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	seen := map[string]bool{}
	for _, inst := range append(bootstrap, lowered...) {
		if decl, ok := inst.(asm.LabelDecl); ok {
			if seen[decl.Name] {
				t.Fatalf("duplicate label %q between bootstrap and program lowering", decl.Name)
			}
			seen[decl.Name] = true
		}
	}
}
