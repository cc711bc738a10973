// Package rvasm parses RV32I text assembly — either hand-written or the
// output of internal/lower — into the line-oriented representation that
// internal/expand, internal/hazard, and internal/encode operate on in turn.
package rvasm

import "github.com/yuhanlia1/rv32i-toolchain/internal/lexer"

// OperandKind distinguishes the syntactic shape of an operand.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandMemory // imm(reg)
	OperandHi     // %hi(symbol)
	OperandLo     // %lo(symbol)
	OperandLabel  // bare symbol, used as a branch/jump/la target
)

// MemOperand is a "imm(reg)" load/store address.
type MemOperand struct {
	Base   string
	Offset string
}

// Operand is a single RV32I instruction operand.
type Operand struct {
	Kind     OperandKind
	Register string
	Literal  string
	Symbol   string
	Mem      *MemOperand
	Raw      string
}

// Instruction is one RV32I mnemonic line, canonical or pseudo.
type Instruction struct {
	Pos      lexer.Position
	Mnemonic string
	Operands []Operand
	Raw      string
}

// Directive is an assembler directive line.
type Directive struct {
	Pos  lexer.Position
	Name string
	Args []string
	Raw  string
}

// LineKind identifies what a Line carries.
type LineKind int

const (
	LineLabel LineKind = iota
	LineDirective
	LineInstruction
)

// Line is one logical source line, possibly carrying a label that was
// written on the same source line as its instruction/directive.
type Line struct {
	Kind        LineKind
	Label       string
	Directive   *Directive
	Instruction *Instruction
	Pos         lexer.Position
	Raw         string
}

// HaltMnemonic is the canonical sentinel that `ret` (and the `halt`
// pseudo-op) expand to: a self-branch "beq x0,x0,0" that never advances the
// program counter, rather than a real jalr with no return address to
// unwind to.
const HaltMnemonic = "_halt"

// Program is an ordered sequence of parsed lines.
type Program struct {
	Lines []*Line
}

// Clone returns a shallow copy of the Program's Line slice, so passes that
// rewrite the instruction stream (expand, hazard) can build a new Program
// without mutating the one they were given.
func (p *Program) Clone() *Program {
	lines := make([]*Line, len(p.Lines))
	copy(lines, p.Lines)
	return &Program{Lines: lines}
}
