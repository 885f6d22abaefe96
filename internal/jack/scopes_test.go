package jack_test

import (
	"testing"

	"n2tc.dev/toolchain/internal/jack"
)

func TestScopeTableResolvesFieldsAndLocals(t *testing.T) {
	scopes := jack.NewScopeTable()
	scopes.PushClassScope("Point")
	scopes.RegisterVariable(jack.Variable{Name: "x", Type: jack.Field, DataType: jack.Int})
	scopes.RegisterVariable(jack.Variable{Name: "y", Type: jack.Field, DataType: jack.Int})

	scopes.PushSubRoutineScope("getX")
	scopes.RegisterVariable(jack.Variable{Name: "tmp", Type: jack.Local, DataType: jack.Int})

	offset, v, err := scopes.ResolveVariable("x")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if offset != 0 || v.Type != jack.Field {
		t.Fatalf("got offset=%d var=%#v, want offset=0 Type=Field", offset, v)
	}

	offset, v, err = scopes.ResolveVariable("y")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if offset != 1 {
		t.Fatalf("got offset=%d, want 1", offset)
	}

	offset, v, err = scopes.ResolveVariable("tmp")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if offset != 0 || v.Type != jack.Local {
		t.Fatalf("got offset=%d var=%#v, want offset=0 Type=Local", offset, v)
	}
}

func TestScopeTableUndeclaredVariableIsAnError(t *testing.T) {
	scopes := jack.NewScopeTable()
	scopes.PushClassScope("Point")
	scopes.PushSubRoutineScope("getX")

	if _, _, err := scopes.ResolveVariable("nope"); err == nil {
		t.Fatal("expected an error resolving an undeclared variable")
	}
}

func TestScopeTableLocalShadowsField(t *testing.T) {
	scopes := jack.NewScopeTable()
	scopes.PushClassScope("Point")
	scopes.RegisterVariable(jack.Variable{Name: "x", Type: jack.Field, DataType: jack.Int})

	scopes.PushSubRoutineScope("shadow")
	scopes.RegisterVariable(jack.Variable{Name: "x", Type: jack.Local, DataType: jack.Bool})

	_, v, err := scopes.ResolveVariable("x")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v.Type != jack.Local || v.DataType != jack.Bool {
		t.Fatalf("expected the local to shadow the field, got %#v", v)
	}
}

func TestScopeTablePopClearsSubroutineScope(t *testing.T) {
	scopes := jack.NewScopeTable()
	scopes.PushClassScope("Point")
	scopes.PushSubRoutineScope("getX")
	scopes.RegisterVariable(jack.Variable{Name: "tmp", Type: jack.Local, DataType: jack.Int})
	scopes.PopSubroutineScope()

	if _, _, err := scopes.ResolveVariable("tmp"); err == nil {
		t.Fatal("expected 'tmp' to no longer resolve after popping its subroutine scope")
	}
}

func TestScopeTableStaticResetsPerClass(t *testing.T) {
	scopes := jack.NewScopeTable()
	scopes.PushClassScope("A")
	scopes.RegisterVariable(jack.Variable{Name: "count", Type: jack.Static, DataType: jack.Int})
	if scopes.Count(jack.Static) != 1 {
		t.Fatalf("got %d static vars in class A, want 1", scopes.Count(jack.Static))
	}

	scopes.PopClassScope()
	scopes.PushClassScope("B")
	if scopes.Count(jack.Static) != 0 {
		t.Fatalf("got %d static vars in class B, want 0 (should not leak from class A)", scopes.Count(jack.Static))
	}
}

func TestScopeTableGetScopeNaming(t *testing.T) {
	scopes := jack.NewScopeTable()
	if scopes.GetScope() != "Global" {
		t.Fatalf("got %q, want 'Global' before any class is pushed", scopes.GetScope())
	}

	scopes.PushClassScope("Main")
	if scopes.GetScope() != "Main.Global" {
		t.Fatalf("got %q, want 'Main.Global'", scopes.GetScope())
	}

	scopes.PushSubRoutineScope("run")
	if scopes.GetScope() != "Main.run" {
		t.Fatalf("got %q, want 'Main.run'", scopes.GetScope())
	}
}
