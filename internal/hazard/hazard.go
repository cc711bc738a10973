// Package hazard inserts the minimal NOP padding a non-forwarding five-stage
// pipeline needs to keep a register write visible to every instruction that
// reads it before the write actually lands.
//
// Padding is computed from straight-line distance only (the next one and two
// instructions in program order). Branch targets are not analyzed: a
// dependency that reaches its consumer through a taken branch is not padded.
package hazard

import "github.com/yuhanlia1/rv32i-toolchain/internal/rvasm"

// formatKind classifies an instruction's encoding shape for the purpose of
// deriving its destination and source register sets.
type formatKind int

const (
	fmtR formatKind = iota
	fmtI
	fmtIShift
	fmtS
	fmtB
	fmtU
	fmtJ
	fmtSys
	fmtHalt
)

var mnemonicFormat = map[string]formatKind{
	"add": fmtR, "sub": fmtR, "sll": fmtR, "slt": fmtR, "sltu": fmtR,
	"xor": fmtR, "srl": fmtR, "sra": fmtR, "or": fmtR, "and": fmtR,

	"addi": fmtI, "slti": fmtI, "sltiu": fmtI, "xori": fmtI, "ori": fmtI, "andi": fmtI,
	"lb": fmtI, "lh": fmtI, "lw": fmtI, "lbu": fmtI, "lhu": fmtI, "jalr": fmtI,

	"slli": fmtIShift, "srli": fmtIShift, "srai": fmtIShift,

	"sb": fmtS, "sh": fmtS, "sw": fmtS,

	"beq": fmtB, "bne": fmtB, "blt": fmtB, "bge": fmtB, "bltu": fmtB, "bgeu": fmtB,

	"lui": fmtU, "auipc": fmtU,

	"jal": fmtJ,

	"ecall": fmtSys, "ebreak": fmtSys,

	rvasm.HaltMnemonic: fmtHalt,
}

func classify(mn string) formatKind {
	if f, ok := mnemonicFormat[mn]; ok {
		return f
	}
	return fmtSys
}

func regOf(op rvasm.Operand) (string, bool) {
	switch op.Kind {
	case rvasm.OperandRegister:
		if op.Register == "x0" || op.Register == "zero" {
			return "", false
		}
		return op.Register, true
	case rvasm.OperandMemory:
		if op.Mem == nil {
			return "", false
		}
		return regOf(rvasm.Operand{Kind: rvasm.OperandRegister, Register: op.Mem.Base})
	}
	return "", false
}

// dest returns the written register for inst, or "" if it writes none.
func dest(inst *rvasm.Instruction) string {
	switch classify(inst.Mnemonic) {
	case fmtR, fmtI, fmtIShift, fmtU, fmtJ:
		if len(inst.Operands) == 0 {
			return ""
		}
		if r, ok := regOf(inst.Operands[0]); ok {
			return r
		}
	}
	return ""
}

// srcs returns the set of registers read by inst.
func srcs(inst *rvasm.Instruction) map[string]bool {
	out := map[string]bool{}
	add := func(op rvasm.Operand) {
		if r, ok := regOf(op); ok {
			out[r] = true
		}
	}
	switch classify(inst.Mnemonic) {
	case fmtR:
		if len(inst.Operands) >= 3 {
			add(inst.Operands[1])
			add(inst.Operands[2])
		}
	case fmtI:
		// loads and jalr carry rs1 in a memory operand; arithmetic I-type
		// carries rs1 as the second operand. Either way it's operand 1.
		if len(inst.Operands) >= 2 {
			add(inst.Operands[1])
		}
	case fmtIShift:
		if len(inst.Operands) >= 2 {
			add(inst.Operands[1])
		}
	case fmtS:
		if len(inst.Operands) >= 2 {
			add(inst.Operands[0])
			add(inst.Operands[1])
		}
	case fmtB:
		if len(inst.Operands) >= 2 {
			add(inst.Operands[0])
			add(inst.Operands[1])
		}
	}
	return out
}

// Schedule returns a new Program with NOP lines inserted after each
// instruction per the computed nops[] count, and the final real instruction
// forced to zero padding.
func Schedule(prog *rvasm.Program) *rvasm.Program {
	var insts []*rvasm.Instruction
	for _, l := range prog.Lines {
		if l.Kind == rvasm.LineInstruction {
			insts = append(insts, l.Instruction)
		}
	}
	n := len(insts)
	if n == 0 {
		return prog.Clone()
	}
	nops := make([]int, n)

	for i := 0; i+1 < n; i++ {
		d := dest(insts[i])
		if d == "" {
			continue
		}
		if srcs(insts[i+1])[d] {
			if nops[i] < 2 {
				nops[i] = 2
			}
		}
	}

	for i := 0; i+2 < n; i++ {
		d := dest(insts[i])
		if d == "" {
			continue
		}
		if srcs(insts[i+2])[d] && nops[i]+nops[i+1] < 1 {
			if nops[i] < 1 {
				nops[i] = 1
			}
		}
	}

	nops[n-1] = 0

	out := &rvasm.Program{}
	instPos := 0
	for _, l := range prog.Lines {
		out.Lines = append(out.Lines, l)
		if l.Kind == rvasm.LineInstruction {
			for k := 0; k < nops[instPos]; k++ {
				nopLine := &rvasm.Line{
					Kind:        rvasm.LineInstruction,
					Instruction: rvasm.ParseInstructionText("addi x0,x0,0"),
					Pos:         l.Pos,
				}
				out.Lines = append(out.Lines, nopLine)
			}
			instPos++
		}
	}
	return out
}
