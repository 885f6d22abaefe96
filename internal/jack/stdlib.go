package jack

import "n2tc.dev/toolchain/internal/utils"

// ----------------------------------------------------------------------------
// Jack Standard Library ABI

// StandardLibraryABI describes the public surface of the nand2tetris OS classes
// (Math, String, Array, Output, Screen, Keyboard, Memory, Sys) by class name then
// subroutine name. Only the call signature matters here (type, arity) — the
// Lowerer/TypeChecker never inspect 'Statements' for these entries, since stdlib
// classes are resolved but never themselves lowered into VM code (spec §4.5's call
// resolution rules are the only thing that needs them: 'Math.multiply', 'String.new',
// 'Memory.alloc' and friends all get emitted as plain 'call' targets).
//
// Registering it (the '--stdlib' flag on the compiler) lets a program call these
// without also having to supply a local .jack re-implementation of them, while still
// catching a typo'd stdlib call name or a wrong argument count before lowering.
var StandardLibraryABI = map[string]map[string]Subroutine{
	"Math": {
		"abs":      fn("abs", 1),
		"multiply": fn("multiply", 2),
		"divide":   fn("divide", 2),
		"min":      fn("min", 2),
		"max":      fn("max", 2),
		"sqrt":     fn("sqrt", 1),
	},
	"String": {
		"new":          constructor("new", 1),
		"dispose":      method("dispose", 0),
		"length":       method("length", 0),
		"charAt":       method("charAt", 1),
		"setCharAt":    method("setCharAt", 2),
		"appendChar":   method("appendChar", 1),
		"eraseLastChar": method("eraseLastChar", 0),
		"intValue":     method("intValue", 0),
		"setInt":       method("setInt", 1),
		"newLine":      fn("newLine", 0),
		"backSpace":    fn("backSpace", 0),
		"doubleQuote":  fn("doubleQuote", 0),
	},
	"Array": {
		"new":    fn("new", 1),
		"dispose": method("dispose", 0),
	},
	"Output": {
		"moveCursor":  fn("moveCursor", 2),
		"printChar":   fn("printChar", 1),
		"printString": fn("printString", 1),
		"printInt":    fn("printInt", 1),
		"println":     fn("println", 0),
		"backSpace":   fn("backSpace", 0),
	},
	"Screen": {
		"setColor":   fn("setColor", 1),
		"clearScreen": fn("clearScreen", 0),
		"drawPixel":  fn("drawPixel", 2),
		"drawLine":   fn("drawLine", 4),
		"drawRectangle": fn("drawRectangle", 4),
		"drawCircle": fn("drawCircle", 3),
	},
	"Keyboard": {
		"keyPressed":  fn("keyPressed", 0),
		"readChar":    fn("readChar", 0),
		"readLine":    fn("readLine", 1),
		"readInt":     fn("readInt", 1),
	},
	"Memory": {
		"peek":   fn("peek", 1),
		"poke":   fn("poke", 2),
		"alloc":  fn("alloc", 1),
		"deAlloc": method("deAlloc", 1),
	},
	"Sys": {
		"halt": fn("halt", 0),
		"error": fn("error", 1),
		"wait":  fn("wait", 1),
	},
}

func fn(name string, arity int) Subroutine {
	return Subroutine{Name: name, Type: Function, Arguments: argList(arity)}
}

func method(name string, arity int) Subroutine {
	return Subroutine{Name: name, Type: Method, Arguments: argList(arity)}
}

func constructor(name string, arity int) Subroutine {
	return Subroutine{Name: name, Type: Constructor, Arguments: argList(arity)}
}

// argList builds a placeholder parameter list of the given arity; only its length is
// ever consulted (by arity checks), so the individual entries carry no real type info.
func argList(arity int) utils.OrderedMap[string, Variable] {
	args := utils.NewOrderedMap[string, Variable]()
	for i := 0; i < arity; i++ {
		name := string(rune('a' + i))
		args.Set(name, Variable{Name: name, Type: Parameter, DataType: Int})
	}
	return args
}
