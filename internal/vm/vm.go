// Package vm models the nand2tetris stack-machine intermediate language: the
// bytecode every Jack class is compiled into and every VM Translator lowers
// down into Hack assembly.
package vm

// ----------------------------------------------------------------------------
// General information

// This section contains some general information about the VM intermediate language.
//
// We declare a shared 'Operation' interface for every macro operation available for the
// language and we define some other useful top-level struct such as Program and Module.
// Is important to note that a VM program can be composed of multiple translation units
// that can be also referenced as file or modules or also classes.

// A VM Program is just an ordered set of multiple modules/files, in the VM spec each Jack
// class is translated to its own .vm file (just like Java .class file) that can be handled
// as its own translation unit during the compilation or lowering phases. The order here is
// the order the files were given on the command line: it matters because it decides where
// each module's code lands in the final, concatenated .asm output (spec "byte-identical
// output" determinism contract), and the 'static' segment is scoped to 'File'.
type Program []ModuleFile

// ModuleFile pairs a translation unit's source file name with its parsed operations.
type ModuleFile struct {
	File   string // Base name of the originating .vm file (e.g. "Main.vm"), used to scope 'static'
	Module Module // The linear sequence of operations parsed out of 'File'
}

// A VM Module is just a linear list of VM operations/instructions
type Module []Operation

// Used to put together all operation in the VM language (Memory, Arithmetic, ... ops).
type Operation interface{}

// ----------------------------------------------------------------------------
// Memory Op

// In memory representation of a Memory operation for the VM language.
//
// In the VM intermediate language there are only two possible memory operation on the stack.
// We could either push a new value taken from the specified segment location on the stack's
// top or take the stack's top and saves its value at the specified segment location.
type MemoryOp struct {
	Operation OperationType // The type of operation, either 'push' or 'pop'
	Segment   SegmentType   // The named memory segment to use (this, that, temp, ...)
	Offset    uint16        // The specific location/offset inside of the memory segment
}

type OperationType string // Enum to manage the operation allowed for a MemoryOp

const (
	Push OperationType = "push"
	Pop  OperationType = "pop"
)

type SegmentType string // Enum to manage the segment accessible for a MemoryOp

const (
	Temp     SegmentType = "temp"     // Real segment used to store intermediate computations
	Constant SegmentType = "constant" // Virtual segment used to access numeric constant

	Local    SegmentType = "local"    // Real segment used to store local function variables
	Static   SegmentType = "static"   // Real segment used to store shared/static variables
	Argument SegmentType = "argument" // Real segment used to store function's argument

	This    SegmentType = "this"    // Virtual segment used to point to a specific memory location
	That    SegmentType = "that"    // Virtual segment used to point to a specific memory location
	Pointer SegmentType = "pointer" // Real segment w/ 2 location used to set the 'this' and 'that' pointers
)

// ----------------------------------------------------------------------------
// Arithmetic Op

// In memory representation of a Arithmetic operation for the VM language.
//
// In the VM intermediate language there are just a handful of operation available.
// In particular each operation acts directly on the top of the stack, of course we have both unary
// and binary operation, the specific management of each op will be handled in the codegen phase.
type ArithmeticOp struct{ Operation ArithOpType }

type ArithOpType string // Enum to manage the operation allowed for an ArithmeticOp

const (
	Eq ArithOpType = "eq" // Comparison operations
	Gt ArithOpType = "gt"
	Lt ArithOpType = "lt"

	Add ArithOpType = "add" // Arithmetic operations
	Sub ArithOpType = "sub"
	Neg ArithOpType = "neg"

	Not ArithOpType = "not" // Bitwise operations
	And ArithOpType = "and"
	Or  ArithOpType = "or"
)

// ----------------------------------------------------------------------------
// Branching Op

// In memory representation of a label declaration statement for the VM language.
//
// Labels are scoped to the function they're declared in by the lowering phase (their
// generated Hack assembly counterpart is qualified as '{function}${label}') so that two
// different functions are free to reuse the same label text without colliding.
type LabelDecl struct {
	Name string // The symbol/ident chosen by the user for the label
}

// In memory representation of a jump statement ('goto' / 'if-goto') for the VM language.
//
// An unconditional jump ('goto') always transfers control to 'Label'. A conditional jump
// ('if-goto') pops the stack's top and transfers control to 'Label' only if that value is
// not zero (the VM's boolean "true" representation, -1/0xFFFF, satisfies this check too).
type GotoOp struct {
	Jump  JumpType // Whether the jump is conditional or not
	Label string   // The target label, scoped the same way as LabelDecl.Name
}

type JumpType string // Enum to manage the type of jump performed by a GotoOp

const (
	Unconditional JumpType = "goto"
	Conditional   JumpType = "if-goto"
)

// ----------------------------------------------------------------------------
// Function Op

// In memory representation of a function declaration statement for the VM language.
//
// Declares the entrypoint of a callable unit and how many local variables it needs;
// the lowering phase is responsible for zero-initializing all of them on entry.
type FuncDecl struct {
	Name   string // The fully qualified name of the function (e.g. "Main.main")
	NLocal uint8  // The number of local variables the function declares
}

// In memory representation of a function call statement for the VM language.
//
// At the point of a call the 'NArgs' topmost stack values are the arguments already
// pushed by the caller; the lowering phase generates the full calling convention
// (saving the caller's frame, jumping, and restoring it on return).
type FuncCallOp struct {
	Name  string // The fully qualified name of the function being called
	NArgs uint8  // The number of arguments already pushed onto the stack by the caller
}

// In memory representation of a return statement for the VM language.
//
// Tears down the current function's frame, restores the caller's segment pointers
// and transfers control back to the caller's return address.
type ReturnOp struct{}
