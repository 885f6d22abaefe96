package jack

import (
	"fmt"
	"sort"
	"strings"

	"n2tc.dev/toolchain/internal/utils"
)

// ----------------------------------------------------------------------------
// Jack Type Checker

// TypeChecker walks a 'jack.Program' validating that every variable reference resolves
// and every subroutine call targets a subroutine that actually exists with a matching
// arity. Per spec §1 ("Non-goals: ... type checking beyond what the generator requires")
// this does not attempt full structural type inference (e.g. it will not catch 'let x =
// "hi";' where x is declared 'int') — it only catches the class of error that would
// otherwise surface as a confusing Lowerer failure deep in HandleFuncCallExpr.
type TypeChecker struct {
	program utils.OrderedMap[string, Class]
	scopes  ScopeTable
}

// Initializes and returns to the caller a brand new 'TypeChecker' struct.
func NewTypeChecker(p Program) TypeChecker {
	classes := []utils.MapEntry[string, Class]{}
	for _, class := range p {
		classes = append(classes, utils.MapEntry[string, Class]{Key: class.Name, Value: class})
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Key < classes[j].Key })

	return TypeChecker{program: utils.NewOrderedMapFromList(classes), scopes: *NewScopeTable()}
}

// Check runs the full pass and reports whether the program checks out.
func (tc *TypeChecker) Check() (bool, error) {
	if tc.program.Size() == 0 {
		return false, fmt.Errorf("the given 'program' is empty or nil")
	}

	for _, class := range tc.program.Entries() {
		if err := tc.HandleClass(class); err != nil {
			return false, fmt.Errorf("error type checking class '%s': %w", class.Name, err)
		}
	}

	return true, nil
}

// Specialized function to type-check a 'jack.Class' and its nested fields.
func (tc *TypeChecker) HandleClass(class Class) error {
	tc.scopes.PushClassScope(class.Name)
	defer tc.scopes.PopClassScope()

	for _, field := range class.Fields.Entries() {
		tc.scopes.RegisterVariable(field)
	}

	for _, subroutine := range class.Subroutines.Entries() {
		if err := tc.HandleSubroutine(class, subroutine); err != nil {
			return fmt.Errorf("error type checking subroutine '%s' in class '%s': %w", subroutine.Name, class.Name, err)
		}
	}

	return nil
}

// Specialized function to type-check a 'jack.Subroutine' and its nested statements.
func (tc *TypeChecker) HandleSubroutine(class Class, subroutine Subroutine) error {
	tc.scopes.PushSubRoutineScope(subroutine.Name)
	defer tc.scopes.PopSubroutineScope()

	if subroutine.Type == Method {
		tc.scopes.RegisterVariable(Variable{Name: "this", Type: Parameter, DataType: Object, ClassName: class.Name})
	}
	for _, arg := range subroutine.Arguments.Entries() {
		tc.scopes.RegisterVariable(arg)
	}

	for _, stmt := range subroutine.Statements {
		if err := tc.HandleStatement(stmt); err != nil {
			return err
		}
	}

	return nil
}

// Generalized function to type-check multiple statement types.
func (tc *TypeChecker) HandleStatement(stmt Statement) error {
	switch tStmt := stmt.(type) {
	case DoStmt:
		return tc.HandleExpression(tStmt.FuncCall)
	case VarStmt:
		for _, v := range tStmt.Vars {
			tc.scopes.RegisterVariable(v)
		}
		return nil
	case LetStmt:
		if err := tc.HandleExpression(tStmt.Lhs); err != nil {
			return err
		}
		return tc.HandleExpression(tStmt.Rhs)
	case IfStmt:
		if err := tc.HandleExpression(tStmt.Condition); err != nil {
			return err
		}
		for _, s := range tStmt.ThenBlock {
			if err := tc.HandleStatement(s); err != nil {
				return err
			}
		}
		for _, s := range tStmt.ElseBlock {
			if err := tc.HandleStatement(s); err != nil {
				return err
			}
		}
		return nil
	case WhileStmt:
		if err := tc.HandleExpression(tStmt.Condition); err != nil {
			return err
		}
		for _, s := range tStmt.Block {
			if err := tc.HandleStatement(s); err != nil {
				return err
			}
		}
		return nil
	case ReturnStmt:
		if tStmt.Expr == nil {
			return nil
		}
		return tc.HandleExpression(tStmt.Expr)
	default:
		return fmt.Errorf("unrecognized statement: %T", stmt)
	}
}

// Generalized function to type-check multiple expression types. For a VarExpr/ArrayExpr
// this only confirms the referenced name resolves in scope; it does not compare types.
func (tc *TypeChecker) HandleExpression(expr Expression) error {
	switch tExpr := expr.(type) {
	case VarExpr:
		if tExpr.Var == "this" {
			return nil
		}
		_, _, err := tc.scopes.ResolveVariable(tExpr.Var)
		return err

	case LiteralExpr:
		return nil

	case ArrayExpr:
		if _, _, err := tc.scopes.ResolveVariable(tExpr.Var); err != nil {
			return err
		}
		return tc.HandleExpression(tExpr.Index)

	case UnaryExpr:
		return tc.HandleExpression(tExpr.Rhs)

	case BinaryExpr:
		if err := tc.HandleExpression(tExpr.Lhs); err != nil {
			return err
		}
		return tc.HandleExpression(tExpr.Rhs)

	case FuncCallExpr:
		return tc.HandleFuncCallExpr(tExpr)

	default:
		return fmt.Errorf("unrecognized expression: %T", expr)
	}
}

// Specialized function to type-check a 'jack.FuncCallExpr': resolves the callee and
// validates the arity matches what the caller is providing. A call through an unresolved
// class (e.g. a stdlib class not registered via '--stdlib') is trusted rather than
// rejected, since this checker only validates what's visible in 'tc.program'.
func (tc *TypeChecker) HandleFuncCallExpr(expression FuncCallExpr) error {
	for _, arg := range expression.Arguments {
		if err := tc.HandleExpression(arg); err != nil {
			return err
		}
	}

	nargs := len(expression.Arguments)

	if !expression.IsExtCall {
		className := strings.Split(tc.scopes.GetScope(), ".")[0]
		class, exists := tc.program.Get(className)
		if !exists {
			return fmt.Errorf("class definition not found for '%s'", className)
		}
		routine, exists := class.Subroutines.Get(expression.FuncName)
		if !exists {
			return fmt.Errorf("subroutine '%s' not found in class '%s'", expression.FuncName, className)
		}
		return checkArity(routine, nargs)
	}

	if _, variable, err := tc.scopes.ResolveVariable(expression.Var); err == nil {
		if variable.DataType != Object {
			return fmt.Errorf("variable '%s' is not an object, cannot call method on it", expression.Var)
		}
		class, exists := tc.program.Get(variable.ClassName)
		if !exists {
			return nil
		}
		routine, exists := class.Subroutines.Get(expression.FuncName)
		if !exists {
			return fmt.Errorf("subroutine '%s' not found in class '%s'", expression.FuncName, class.Name)
		}
		return checkArity(routine, nargs)
	}

	class, isClass := tc.program.Get(expression.Var)
	if !isClass {
		return nil
	}
	routine, exists := class.Subroutines.Get(expression.FuncName)
	if !exists {
		return fmt.Errorf("subroutine '%s' not found in class '%s'", expression.FuncName, class.Name)
	}
	return checkArity(routine, nargs)
}

// checkArity compares the caller's argument count against the callee's declared parameter
// count. 'routine.Arguments' never includes the implicit 'this' (spec §4.5: "method ...
// silently allocate argument slot 0 to this"), so no adjustment is needed for either side.
func checkArity(routine Subroutine, nargs int) error {
	if want := routine.Arguments.Size(); want != nargs {
		return fmt.Errorf("subroutine '%s' expects %d argument(s), got %d", routine.Name, want, nargs)
	}
	return nil
}
