package jack

import (
	"fmt"
	"strings"

	"n2tc.dev/toolchain/internal/utils"
)

type Scope struct {
	name    string
	entries utils.Stack[Variable]
}

type ScopeTable struct {
	static utils.Stack[Variable]

	local     Scope
	field     Scope
	parameter Scope
}

func NewScopeTable() *ScopeTable {
	return &ScopeTable{
		static:    utils.Stack[Variable]{},
		local:     Scope{},
		field:     Scope{},
		parameter: Scope{},
	}
}

func (st *ScopeTable) PushClassScope(class string) {
	newScope := fmt.Sprintf("%s.Global", class)
	st.field = Scope{name: newScope, entries: utils.Stack[Variable]{}}
	// 'static' is scoped to the class too (it backs the VM's 'static' segment,
	// which the translator scopes per .vm file, i.e. per class).
	st.static = utils.Stack[Variable]{}
}

func (st *ScopeTable) PopClassScope() { st.field = Scope{} }

// Count returns how many variables of 't' are currently registered in the
// active class scope. Used by the lowerer to size a constructor's
// 'Memory.alloc' call with the object's field count.
func (st *ScopeTable) Count(t VarType) int {
	switch t {
	case Field:
		return st.field.entries.Count()
	case Static:
		return st.static.Count()
	case Local:
		return st.local.entries.Count()
	case Parameter:
		return st.parameter.entries.Count()
	default:
		return 0
	}
}

func (st *ScopeTable) PushSubRoutineScope(method string) {
	newScope := strings.ReplaceAll(st.GetScope(), "Global", method)
	st.local = Scope{name: newScope, entries: utils.Stack[Variable]{}}
	st.parameter = Scope{name: newScope, entries: utils.Stack[Variable]{}}
}

func (st *ScopeTable) PopSubroutineScope() { st.local, st.parameter = Scope{}, Scope{} }

func (st *ScopeTable) GetScope() string {
	if st.local.name != "" && st.parameter.name != "" {
		return st.local.name
	}

	if st.field.name != "" {
		return st.field.name
	}

	return "Global"
}

func (st *ScopeTable) RegisterVariable(v Variable) {
	switch v.Type {
	case Local:
		st.local.entries.Push(v)
	case Field:
		st.field.entries.Push(v)
	case Parameter:
		st.parameter.entries.Push(v)
	case Static:
		st.static.Push(v)
	}
}

func (st *ScopeTable) ResolveVariable(name string) (uint16, Variable, error) {
	scopes := []utils.Stack[Variable]{st.local.entries, st.parameter.entries, st.field.entries, st.static}

	for _, scope := range scopes {
		for idx, entry := range scope.Iterator() {
			if entry.Name == name {
				return uint16(idx), entry, nil
			}
		}
	}

	return 0, Variable{}, fmt.Errorf("variable '%s' undeclared, not found in any scope", name)
}
