// Package armasm parses the GCC-emitted ARM (armv4t) assembly subset that
// the translator accepts: labels, a handful of directives, and the
// instruction forms enumerated in internal/lower.
package armasm

import "github.com/yuhanlia1/rv32i-toolchain/internal/lexer"

// OperandKind distinguishes the syntactic shape of an operand.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandMemory
	OperandRegisterList
	OperandLabel
)

// ShiftKind names an ARM register-shift applied to a memory index register.
type ShiftKind int

const (
	ShiftNone ShiftKind = iota
	ShiftLSL
	ShiftLSR
	ShiftASR
	ShiftROR
)

// MemOperand describes an ARM load/store address expression.
type MemOperand struct {
	Base       string // ARM register name, e.g. "r1"
	OffsetImm  string // signed literal text, set when OffsetReg == ""
	OffsetReg  string // ARM register name, set for register-offset forms
	HasOffset  bool   // false for the bare [rn] form (implies offset 0)
	Shift      ShiftKind
	ShiftAmt   string
	PreIndex   bool // [rn, #k]!
	PostIndex  bool // not set by Parser: a post-indexed offset ([rn], #k / [rn], rm) is a separate operand
	PostOffset string
}

// Operand is a single ARM instruction operand.
type Operand struct {
	Kind     OperandKind
	Register string   // ARM register name (OperandRegister)
	Literal  string   // raw text after '#' (OperandImmediate)
	Mem      *MemOperand
	Regs     []string // expanded register list, in list order (OperandRegisterList)
	Label    string   // bare symbol (OperandLabel)
	Raw      string
}

// Instruction is one ARM mnemonic line, with its condition/S-bit suffix
// still attached to Mnemonic exactly as the source wrote it — the lowerer
// dispatches on the full mnemonic text, the same way the reference
// translator this is grounded on does.
type Instruction struct {
	Pos      lexer.Position
	Mnemonic string // lowercase, e.g. "beq", "adds", "ldrsb"
	Operands []Operand
	Raw      string
}

// Directive is an assembler directive line (.text, .word, .global, ...).
type Directive struct {
	Pos  lexer.Position
	Name string // lowercase, leading dot retained: ".word"
	Args []string
	Raw  string
}

// LineKind identifies what a Line carries.
type LineKind int

const (
	LineLabel LineKind = iota
	LineDirective
	LineInstruction
	LineBlank
)

// Line is one logical source line. A label and an instruction/directive may
// share a Line when they appear on the same source line ("loop: add r0,r0,r1").
type Line struct {
	Kind        LineKind
	Label       string
	Directive   *Directive
	Instruction *Instruction
	Pos         lexer.Position
	Raw         string
}

// Program is an ordered sequence of parsed source lines.
type Program struct {
	Lines []*Line
}
