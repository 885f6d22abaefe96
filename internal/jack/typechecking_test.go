package jack_test

import (
	"testing"

	"n2tc.dev/toolchain/internal/jack"
	"n2tc.dev/toolchain/internal/utils"
)

func TestTypeCheckRejectsEmptyProgram(t *testing.T) {
	checker := jack.NewTypeChecker(jack.Program{})
	if _, err := checker.Check(); err == nil {
		t.Fatal("expected an error for a nil/empty program")
	}
}

func TestTypeCheckAcceptsValidProgram(t *testing.T) {
	sub := jack.Subroutine{
		Name: "main", Type: jack.Function, Return: jack.Void,
		Arguments: utils.NewOrderedMap[string, jack.Variable](),
		Statements: []jack.Statement{
			jack.VarStmt{Vars: []jack.Variable{{Name: "x", Type: jack.Local, DataType: jack.Int}}},
			jack.LetStmt{Lhs: jack.VarExpr{Var: "x"}, Rhs: jack.LiteralExpr{Type: jack.Int, Value: "1"}},
			jack.ReturnStmt{},
		},
	}
	program := jack.Program{"Main": classWith("Main", nil, sub)}

	checker := jack.NewTypeChecker(program)
	ok, err := checker.Check()
	if err != nil || !ok {
		t.Fatalf("expected the program to check out, got ok=%v err=%s", ok, err)
	}
}

func TestTypeCheckRejectsUndeclaredVariable(t *testing.T) {
	sub := jack.Subroutine{
		Name: "main", Type: jack.Function, Return: jack.Void,
		Arguments:  utils.NewOrderedMap[string, jack.Variable](),
		Statements: []jack.Statement{jack.ReturnStmt{Expr: jack.VarExpr{Var: "nope"}}},
	}
	program := jack.Program{"Main": classWith("Main", nil, sub)}

	checker := jack.NewTypeChecker(program)
	if _, err := checker.Check(); err == nil {
		t.Fatal("expected an error for a reference to an undeclared variable")
	}
}

func TestTypeCheckRejectsArityMismatch(t *testing.T) {
	helper := jack.Subroutine{
		Name: "helper", Type: jack.Function, Return: jack.Void,
		Arguments:  utils.NewOrderedMap[string, jack.Variable](),
		Statements: []jack.Statement{jack.ReturnStmt{}},
	}
	{
		args := utils.NewOrderedMap[string, jack.Variable]()
		args.Set("a", jack.Variable{Name: "a", Type: jack.Parameter, DataType: jack.Int})
		helper.Arguments = args
	}

	doStmt := jack.DoStmt{FuncCall: jack.FuncCallExpr{FuncName: "helper"}} // missing the 1 required argument
	main := jack.Subroutine{
		Name: "main", Type: jack.Function, Return: jack.Void,
		Arguments:  utils.NewOrderedMap[string, jack.Variable](),
		Statements: []jack.Statement{doStmt, jack.ReturnStmt{}},
	}
	program := jack.Program{"Main": classWith("Main", nil, main, helper)}

	checker := jack.NewTypeChecker(program)
	if _, err := checker.Check(); err == nil {
		t.Fatal("expected an error for a subroutine call with the wrong argument count")
	}
}

func TestTypeCheckRejectsUnknownSubroutine(t *testing.T) {
	doStmt := jack.DoStmt{FuncCall: jack.FuncCallExpr{FuncName: "missing"}}
	main := jack.Subroutine{
		Name: "main", Type: jack.Function, Return: jack.Void,
		Arguments:  utils.NewOrderedMap[string, jack.Variable](),
		Statements: []jack.Statement{doStmt, jack.ReturnStmt{}},
	}
	program := jack.Program{"Main": classWith("Main", nil, main)}

	checker := jack.NewTypeChecker(program)
	if _, err := checker.Check(); err == nil {
		t.Fatal("expected an error calling a subroutine that doesn't exist")
	}
}

func TestTypeCheckTrustsUnregisteredStdlibCall(t *testing.T) {
	// 'Output' isn't part of 'program' here (the caller didn't pass --stdlib), so the
	// checker must not fail the call outright — it only validates what it can see.
	doStmt := jack.DoStmt{FuncCall: jack.FuncCallExpr{IsExtCall: true, Var: "Output", FuncName: "println"}}
	main := jack.Subroutine{
		Name: "main", Type: jack.Function, Return: jack.Void,
		Arguments:  utils.NewOrderedMap[string, jack.Variable](),
		Statements: []jack.Statement{doStmt, jack.ReturnStmt{}},
	}
	program := jack.Program{"Main": classWith("Main", nil, main)}

	checker := jack.NewTypeChecker(program)
	if _, err := checker.Check(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}
