package armasm

import "testing"

func TestParseSimpleInstruction(t *testing.T) {
	p := NewParser("t.s")
	prog := p.Parse("\tmov r0, r1\n")
	if len(prog.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(prog.Lines))
	}
	line := prog.Lines[0]
	if line.Kind != LineInstruction {
		t.Fatalf("expected instruction line, got %v", line.Kind)
	}
	if line.Instruction.Mnemonic != "mov" {
		t.Fatalf("mnemonic = %q", line.Instruction.Mnemonic)
	}
	if len(line.Instruction.Operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(line.Instruction.Operands))
	}
	if line.Instruction.Operands[0].Kind != OperandRegister || line.Instruction.Operands[0].Register != "r0" {
		t.Fatalf("operand 0 = %+v", line.Instruction.Operands[0])
	}
}

func TestParseLabelAndInstructionSameLine(t *testing.T) {
	p := NewParser("t.s")
	prog := p.Parse("loop: add r0, r0, r1\n")
	if len(prog.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(prog.Lines))
	}
	line := prog.Lines[0]
	if line.Label != "loop" {
		t.Fatalf("label = %q", line.Label)
	}
	if line.Instruction == nil || line.Instruction.Mnemonic != "add" {
		t.Fatalf("instruction = %+v", line.Instruction)
	}
}

func TestParseMemoryOperandPostIndexed(t *testing.T) {
	p := NewParser("t.s")
	prog := p.Parse("\tldr r0, [r1], #4\n")
	inst := prog.Lines[0].Instruction
	if len(inst.Operands) != 3 {
		t.Fatalf("expected 3 operands (rd, mem, post-imm), got %d", len(inst.Operands))
	}
	mem := inst.Operands[1]
	if mem.Kind != OperandMemory || mem.Mem.Base != "r1" || mem.Mem.HasOffset {
		t.Fatalf("mem operand = %+v", mem)
	}
	post := inst.Operands[2]
	if post.Kind != OperandImmediate || post.Literal != "4" {
		t.Fatalf("post operand = %+v", post)
	}
}

func TestParseMemoryOperandPreIndexed(t *testing.T) {
	p := NewParser("t.s")
	prog := p.Parse("\tstr fp, [sp, #-4]!\n")
	inst := prog.Lines[0].Instruction
	mem := inst.Operands[1]
	if !mem.Mem.PreIndex || mem.Mem.OffsetImm != "-4" {
		t.Fatalf("mem = %+v", mem.Mem)
	}
}

func TestParseRegisterListWithRange(t *testing.T) {
	p := NewParser("t.s")
	prog := p.Parse("\tpush {r4-r6, lr}\n")
	inst := prog.Lines[0].Instruction
	got := inst.Operands[0].Regs
	want := []string{"r4", "r5", "r6", "lr"}
	if len(got) != len(want) {
		t.Fatalf("regs = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("regs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseDirective(t *testing.T) {
	p := NewParser("t.s")
	prog := p.Parse(".word 42\n")
	d := prog.Lines[0].Directive
	if d.Name != ".word" || len(d.Args) != 1 || d.Args[0] != "42" {
		t.Fatalf("directive = %+v", d)
	}
}

func TestParseKeepsImmediateHashButDropsTrailingComment(t *testing.T) {
	p := NewParser("t.s")
	prog := p.Parse("\tcmp r2, #0 @ compare\n")
	inst := prog.Lines[0].Instruction
	if inst.Mnemonic != "cmp" || len(inst.Operands) != 2 {
		t.Fatalf("instruction = %+v", inst)
	}
	if inst.Operands[1].Kind != OperandImmediate || inst.Operands[1].Literal != "0" {
		t.Fatalf("immediate operand = %+v", inst.Operands[1])
	}
}

func TestParseSkipsFullLineHashComment(t *testing.T) {
	p := NewParser("t.s")
	prog := p.Parse("   # full line comment\n\tmov r0, r1\n")
	if len(prog.Lines) != 1 {
		t.Fatalf("expected the comment line to be dropped, got %d lines", len(prog.Lines))
	}
	if prog.Lines[0].Instruction.Mnemonic != "mov" {
		t.Fatalf("unexpected surviving line: %+v", prog.Lines[0])
	}
}
