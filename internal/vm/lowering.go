package vm

import (
	"fmt"
	"strings"

	"n2tc.dev/toolchain/internal/asm"
)

// ----------------------------------------------------------------------------
// Vm Lowerer

// The Lowerer takes a 'vm.Program' (one or more parsed translation units) and produces
// its 'asm.Program' counterpart, implementing the full nand2tetris calling convention:
// the 8 memory segments, the 9 arithmetic/logical operations, function declaration,
// call and return, and program bootstrap.
//
// Labels generated for comparison operations ('eq'/'gt'/'lt') and 'call' return addresses
// need to be unique across the whole program, so the Lowerer keeps a monotonically
// increasing counter alive across every module it processes. User-declared labels ('label'
// / 'goto' / 'if-goto') are scoped to the function they appear in ('{function}$'{label}')
// so that two different functions are free to reuse the same label text.
type Lowerer struct {
	program      Program
	labelCounter uint64 // Bumped for every comparison op and 'call' site, guarantees unique labels
}

// Initializes and returns to the caller a brand new 'Lowerer' struct.
// Requires the argument Program to be not nil nor empty.
func NewLowerer(p Program) Lowerer {
	return Lowerer{program: p}
}

// Bootstrap returns the Hack assembly instructions that must run before any translated
// module: initializes the Stack Pointer to its base address (256) and calls 'Sys.init'
// using the regular calling convention (not a bare jump, so 'Sys.init' can 'return' like
// any other function, and any globals it 'call's get a well-formed frame to work with).
//
// It's a method (rather than a free function) so its 'call' site shares 'l.labelCounter'
// with the rest of 'l's lowering: two independent counters starting at zero could both
// mint a 'RETURN_0' label and collide once concatenated into one .asm file.
func (l *Lowerer) Bootstrap() asm.Program {
	program := asm.Program{
		asm.AInstruction{Location: "256"},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
	return append(program, l.lowerFuncCallOp(FuncCallOp{Name: "Sys.init", NArgs: 0})...)
}

// Triggers the lowering process, module by module, operation by operation, producing
// a single flat 'asm.Program'. The order modules are given in 'l.program' is preserved
// in the output (spec's determinism contract): translating the same input twice, in the
// same order, must produce byte-identical assembly.
func (l *Lowerer) Lower() (asm.Program, error) {
	if len(l.program) == 0 {
		return nil, fmt.Errorf("the given 'program' is empty")
	}

	result := asm.Program{}
	for _, unit := range l.program {
		lowered, err := l.lowerModule(unit)
		if err != nil {
			return nil, fmt.Errorf("failed to lower module '%s': %w", unit.File, err)
		}
		result = append(result, lowered...)
	}

	return result, nil
}

// Lowers a single translation unit, tracking which function (if any) is currently
// being emitted so that 'label'/'goto'/'if-goto' can be scoped to it.
func (l *Lowerer) lowerModule(unit ModuleFile) (asm.Program, error) {
	result := asm.Program{}
	currentFunc := ""

	for _, op := range unit.Module {
		switch tOp := op.(type) {
		case MemoryOp:
			lowered, err := l.lowerMemoryOp(tOp, unit.File)
			if err != nil {
				return nil, err
			}
			result = append(result, lowered...)

		case ArithmeticOp:
			lowered, err := l.lowerArithmeticOp(tOp)
			if err != nil {
				return nil, err
			}
			result = append(result, lowered...)

		case LabelDecl:
			result = append(result, asm.LabelDecl{Name: scopeLabel(currentFunc, tOp.Name)})

		case GotoOp:
			target := scopeLabel(currentFunc, tOp.Label)
			if tOp.Jump == Unconditional {
				result = append(result,
					asm.AInstruction{Location: target},
					asm.CInstruction{Comp: "0", Jump: "JMP"},
				)
			} else {
				// Conditional jump: pop the stack's top and jump to 'target' if it's not zero.
				result = append(result, popD()...)
				result = append(result,
					asm.AInstruction{Location: target},
					asm.CInstruction{Comp: "D", Jump: "JNE"},
				)
			}

		case FuncDecl:
			currentFunc = tOp.Name
			result = append(result, l.lowerFuncDecl(tOp)...)

		case FuncCallOp:
			result = append(result, l.lowerFuncCallOp(tOp)...)

		case ReturnOp:
			result = append(result, l.lowerReturnOp()...)

		default:
			return nil, fmt.Errorf("unrecognized operation '%T'", op)
		}
	}

	return result, nil
}

// scopeLabel qualifies a user label with the function it's declared in, matching the
// generated Hack assembly label naming convention '{function}${label}'. Labels declared
// outside of any function (legal, if unusual, for a 'label'/'goto' pair) are left bare.
func scopeLabel(currentFunc, label string) string {
	if currentFunc == "" {
		return label
	}
	return fmt.Sprintf("%s$%s", currentFunc, label)
}

// ----------------------------------------------------------------------------
// Memory segments

// lowerMemoryOp lowers a single 'push'/'pop' operation against one of the 8 VM segments.
func (l *Lowerer) lowerMemoryOp(op MemoryOp, file string) (asm.Program, error) {
	switch op.Segment {
	case Constant:
		if op.Operation == Pop {
			return nil, fmt.Errorf("cannot 'pop' into the virtual 'constant' segment")
		}
		return append(asm.Program{
			asm.AInstruction{Location: fmt.Sprint(op.Offset)},
			asm.CInstruction{Dest: "D", Comp: "A"},
		}, pushD()...), nil

	case Local, Argument, This, That:
		base := segmentBase(op.Segment)
		if op.Operation == Push {
			return append(asm.Program{
				asm.AInstruction{Location: base},
				asm.CInstruction{Dest: "D", Comp: "M"},
				asm.AInstruction{Location: fmt.Sprint(op.Offset)},
				asm.CInstruction{Dest: "A", Comp: "D+A"},
				asm.CInstruction{Dest: "D", Comp: "M"},
			}, pushD()...), nil
		}
		// pop: resolve the destination address into R13, pop into D, store D at [R13]
		result := asm.Program{
			asm.AInstruction{Location: base},
			asm.CInstruction{Dest: "D", Comp: "M"},
			asm.AInstruction{Location: fmt.Sprint(op.Offset)},
			asm.CInstruction{Dest: "D", Comp: "D+A"},
			asm.AInstruction{Location: "R13"},
			asm.CInstruction{Dest: "M", Comp: "D"},
		}
		result = append(result, popD()...)
		result = append(result, asm.AInstruction{Location: "R13"}, asm.CInstruction{Dest: "A", Comp: "M"}, asm.CInstruction{Dest: "M", Comp: "D"})
		return result, nil

	case Pointer:
		if op.Offset > 1 {
			return nil, fmt.Errorf("invalid 'pointer' offset, got %d", op.Offset)
		}
		target := "THIS"
		if op.Offset == 1 {
			target = "THAT"
		}
		if op.Operation == Push {
			return append(asm.Program{
				asm.AInstruction{Location: target},
				asm.CInstruction{Dest: "D", Comp: "M"},
			}, pushD()...), nil
		}
		return append(popD(), asm.AInstruction{Location: target}, asm.CInstruction{Dest: "M", Comp: "D"}), nil

	case Temp:
		if op.Offset > 7 {
			return nil, fmt.Errorf("invalid 'temp' offset, got %d", op.Offset)
		}
		address := fmt.Sprint(5 + op.Offset)
		if op.Operation == Push {
			return append(asm.Program{
				asm.AInstruction{Location: address},
				asm.CInstruction{Dest: "D", Comp: "M"},
			}, pushD()...), nil
		}
		return append(popD(), asm.AInstruction{Location: address}, asm.CInstruction{Dest: "M", Comp: "D"}), nil

	case Static:
		// One class per .vm file is a precondition for this scoping, not enforced here
		// (see DESIGN.md): it turns every distinct (file, offset) pair into a stable,
		// assembler-allocated variable name.
		label := fmt.Sprintf("%s.%d", strings.TrimSuffix(file, ".vm"), op.Offset)
		if op.Operation == Push {
			return append(asm.Program{
				asm.AInstruction{Location: label},
				asm.CInstruction{Dest: "D", Comp: "M"},
			}, pushD()...), nil
		}
		return append(popD(), asm.AInstruction{Location: label}, asm.CInstruction{Dest: "M", Comp: "D"}), nil

	default:
		return nil, fmt.Errorf("unrecognized segment '%s'", op.Segment)
	}
}

// segmentBase returns the built-in pointer register backing a segment's base address.
func segmentBase(seg SegmentType) string {
	switch seg {
	case Local:
		return "LCL"
	case Argument:
		return "ARG"
	case This:
		return "THIS"
	case That:
		return "THAT"
	default:
		return ""
	}
}

// pushD emits the instructions that push the D register's current value onto the stack,
// advancing the Stack Pointer by one word.
func pushD() asm.Program {
	return asm.Program{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M+1"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
}

// popD emits the instructions that pop the stack's top into the D register, decrementing
// the Stack Pointer by one word. The popped value is left in D for the caller to route.
func popD() asm.Program {
	return asm.Program{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
	}
}

// ----------------------------------------------------------------------------
// Arithmetic & logical operations

// lowerArithmeticOp lowers one of the 9 arithmetic/logical VM operations. Unary operations
// ('neg', 'not') leave the Stack Pointer untouched; binary operations pop two operands and
// push one result net (Stack Pointer moves by -1); comparisons ('eq', 'gt', 'lt') need a
// pair of globally-unique labels since there's no natural scope to qualify them with.
func (l *Lowerer) lowerArithmeticOp(op ArithmeticOp) (asm.Program, error) {
	switch op.Operation {
	case Neg:
		return asm.Program{
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "A", Comp: "M-1"},
			asm.CInstruction{Dest: "M", Comp: "-M"},
		}, nil
	case Not:
		return asm.Program{
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "A", Comp: "M-1"},
			asm.CInstruction{Dest: "M", Comp: "!M"},
		}, nil

	case Add:
		return binaryOp("D+M"), nil
	case Sub:
		return binaryOp("M-D"), nil
	case And:
		return binaryOp("D&M"), nil
	case Or:
		return binaryOp("D|M"), nil

	case Eq:
		return l.comparisonOp("JEQ"), nil
	case Gt:
		return l.comparisonOp("JGT"), nil
	case Lt:
		return l.comparisonOp("JLT"), nil

	default:
		return nil, fmt.Errorf("unrecognized arithmetic operation '%s'", op.Operation)
	}
}

// binaryOp pops the two topmost stack values and pushes back the result of 'comp'
// (which must reference 'D' as the first-popped value and 'M' as the second-popped one).
func binaryOp(comp string) asm.Program {
	return asm.Program{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.CInstruction{Dest: "A", Comp: "A-1"},
		asm.CInstruction{Dest: "M", Comp: comp},
	}
}

// comparisonOp pops the two topmost stack values, computes their difference, and pushes
// -1 (true) or 0 (false) back depending on whether 'jump' (JEQ/JGT/JLT) is satisfied.
func (l *Lowerer) comparisonOp(jump string) asm.Program {
	n := l.labelCounter
	l.labelCounter++
	trueLabel, endLabel := fmt.Sprintf("COMP_TRUE_%d", n), fmt.Sprintf("COMP_END_%d", n)

	return asm.Program{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.CInstruction{Dest: "A", Comp: "A-1"},
		asm.CInstruction{Dest: "D", Comp: "M-D"},
		asm.AInstruction{Location: trueLabel},
		asm.CInstruction{Comp: "D", Jump: jump},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "0"},
		asm.AInstruction{Location: endLabel},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
		asm.LabelDecl{Name: trueLabel},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M-1"},
		asm.CInstruction{Dest: "M", Comp: "-1"},
		asm.LabelDecl{Name: endLabel},
	}
}

// ----------------------------------------------------------------------------
// Function calling convention

// lowerFuncDecl emits a function's entrypoint label followed by 'NLocal' pushes of the
// constant 0, zero-initializing every local variable the function declares.
func (l *Lowerer) lowerFuncDecl(op FuncDecl) asm.Program {
	result := asm.Program{asm.LabelDecl{Name: op.Name}}
	for i := uint8(0); i < op.NLocal; i++ {
		result = append(result, asm.CInstruction{Dest: "D", Comp: "0"})
		result = append(result, pushD()...)
	}
	return result
}

// lowerFuncCallOp emits the full calling sequence: saves the caller's frame (return
// address and the 4 segment pointers) on the stack, repositions ARG/LCL for the callee,
// and jumps into it. The return address label is unique per call site.
func (l *Lowerer) lowerFuncCallOp(op FuncCallOp) asm.Program {
	n := l.labelCounter
	l.labelCounter++
	returnLabel := fmt.Sprintf("RETURN_%d", n)

	result := asm.Program{}
	// Push the return address, then the caller's LCL/ARG/THIS/THAT.
	result = append(result, asm.AInstruction{Location: returnLabel}, asm.CInstruction{Dest: "D", Comp: "A"})
	result = append(result, pushD()...)
	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		result = append(result, asm.AInstruction{Location: reg}, asm.CInstruction{Dest: "D", Comp: "M"})
		result = append(result, pushD()...)
	}

	// ARG = SP - NArgs - 5 (5 = the return address + the 4 saved segment pointers)
	result = append(result,
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: fmt.Sprint(int(op.NArgs) + 5)},
		asm.CInstruction{Dest: "D", Comp: "D-A"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
	// LCL = SP
	result = append(result,
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
	// goto callee, then declare the return address right after
	result = append(result,
		asm.AInstruction{Location: op.Name},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
		asm.LabelDecl{Name: returnLabel},
	)

	return result
}

// lowerReturnOp tears down the current function's frame, restores the caller's segment
// pointers, repositions the return value at the top of the caller's stack and jumps back
// to the caller. 'R13' holds the saved frame pointer, 'R14' the return address, matching
// 'R13' being the same scratch register 'pop' uses elsewhere (never live across operations).
func (l *Lowerer) lowerReturnOp() asm.Program {
	result := asm.Program{}

	// R13 (FRAME) = LCL
	result = append(result,
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
	// R14 (RET) = *(FRAME - 5)
	result = append(result,
		asm.AInstruction{Location: "R13"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "5"},
		asm.CInstruction{Dest: "A", Comp: "D-A"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
	// *ARG = pop() (reposition the return value where the caller expects it)
	result = append(result, popD()...)
	result = append(result,
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
	// SP = ARG + 1
	result = append(result,
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "D", Comp: "M+1"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	)
	// THAT/THIS/ARG/LCL = *(FRAME-1)/*(FRAME-2)/*(FRAME-3)/*(FRAME-4), in that order
	for i, reg := range []string{"THAT", "THIS", "ARG", "LCL"} {
		result = append(result,
			asm.AInstruction{Location: "R13"},
			asm.CInstruction{Dest: "D", Comp: "M"},
			asm.AInstruction{Location: fmt.Sprint(i + 1)},
			asm.CInstruction{Dest: "A", Comp: "D-A"},
			asm.CInstruction{Dest: "D", Comp: "M"},
			asm.AInstruction{Location: reg},
			asm.CInstruction{Dest: "M", Comp: "D"},
		)
	}
	// goto RET
	result = append(result,
		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
	)

	return result
}
