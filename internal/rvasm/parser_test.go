package rvasm

import "testing"

func TestParseInstructionWithMemoryOperand(t *testing.T) {
	prog := NewParser("t.s").Parse("\tlw a0, 4(sp)\n")
	inst := prog.Lines[0].Instruction
	if inst.Mnemonic != "lw" {
		t.Fatalf("mnemonic = %q", inst.Mnemonic)
	}
	mem := inst.Operands[1]
	if mem.Kind != OperandMemory || mem.Mem.Base != "sp" || mem.Mem.Offset != "4" {
		t.Fatalf("mem = %+v", mem)
	}
}

func TestParseHiLoSymbols(t *testing.T) {
	prog := NewParser("t.s").Parse("\tlui a0, %hi(my_array)\n\taddi a0, a0, %lo(my_array)\n")
	hi := prog.Lines[0].Instruction.Operands[1]
	lo := prog.Lines[1].Instruction.Operands[2]
	if hi.Kind != OperandHi || hi.Symbol != "my_array" {
		t.Fatalf("hi = %+v", hi)
	}
	if lo.Kind != OperandLo || lo.Symbol != "my_array" {
		t.Fatalf("lo = %+v", lo)
	}
}

func TestParseNegativeImmediate(t *testing.T) {
	prog := NewParser("t.s").Parse("\taddi sp, sp, -8\n")
	imm := prog.Lines[0].Instruction.Operands[2]
	if imm.Kind != OperandImmediate || imm.Literal != "-8" {
		t.Fatalf("imm = %+v", imm)
	}
}

func TestParseLabelOnOwnLine(t *testing.T) {
	prog := NewParser("t.s").Parse("loop:\n\taddi a0, a0, 1\n")
	if prog.Lines[0].Kind != LineLabel || prog.Lines[0].Label != "loop" {
		t.Fatalf("line0 = %+v", prog.Lines[0])
	}
}

func TestParseBranchLabelOperand(t *testing.T) {
	prog := NewParser("t.s").Parse("\tbge zero,a2,.L1\n")
	target := prog.Lines[0].Instruction.Operands[2]
	if target.Kind != OperandLabel || target.Symbol != ".L1" {
		t.Fatalf("target = %+v", target)
	}
}
