package hazard

import (
	"testing"

	"github.com/yuhanlia1/rv32i-toolchain/internal/rvasm"
)

func scheduleSource(t *testing.T, src string) []*rvasm.Instruction {
	t.Helper()
	prog := rvasm.NewParser("t.s").Parse(src)
	out := Schedule(prog)
	var insts []*rvasm.Instruction
	for _, l := range out.Lines {
		if l.Kind == rvasm.LineInstruction {
			insts = append(insts, l.Instruction)
		}
	}
	return insts
}

func TestScheduleDistance1InsertsTwoNops(t *testing.T) {
	insts := scheduleSource(t, "addi a0,x0,1\naddi a1,a0,2\n")
	if len(insts) != 4 {
		t.Fatalf("expected 4 instructions (1 + 2 nops + 1), got %d: %+v", len(insts), insts)
	}
	if insts[1].Mnemonic != "addi" || insts[1].Operands[0].Register != "x0" {
		t.Fatalf("expected nop at slot 1, got %+v", insts[1])
	}
	if insts[2].Mnemonic != "addi" || insts[2].Operands[0].Register != "x0" {
		t.Fatalf("expected nop at slot 2, got %+v", insts[2])
	}
	if insts[3].Operands[0].Register != "a1" {
		t.Fatalf("expected consumer last, got %+v", insts[3])
	}
}

func TestScheduleDistance2InsertsOneNop(t *testing.T) {
	insts := scheduleSource(t, "addi a0,x0,1\naddi a5,x0,9\naddi a1,a0,2\n")
	if len(insts) != 4 {
		t.Fatalf("expected 4 instructions (producer + filler + 1 nop + consumer), got %d: %+v", len(insts), insts)
	}
}

func TestScheduleNoHazardNoPadding(t *testing.T) {
	insts := scheduleSource(t, "addi a0,x0,1\naddi a1,x0,2\naddi a2,x0,3\naddi a3,x0,4\n")
	if len(insts) != 4 {
		t.Fatalf("expected no padding, got %d: %+v", len(insts), insts)
	}
}

func TestScheduleSpecWorkedExample(t *testing.T) {
	// addi a0,a0,1; addi a1,a0,2; addi a2,a0,3; addi a3,a5,4
	insts := scheduleSource(t, "addi a0,a0,1\naddi a1,a0,2\naddi a2,a0,3\naddi a3,a5,4\n")
	// i0 -> i1 distance 1 (a0 consumed) => nops[0] = 2
	// i0 -> i2 distance 2 (a0 consumed) but nops[0]+nops[1] already >= 1, no extra pad
	// i3 reads a5, unrelated to a0
	if insts[0].Operands[0].Register != "a0" {
		t.Fatalf("insts[0] = %+v", insts[0])
	}
	if insts[1].Mnemonic != "addi" || insts[1].Operands[0].Register != "x0" {
		t.Fatalf("expected nop after producer, got %+v", insts[1])
	}
	if insts[2].Mnemonic != "addi" || insts[2].Operands[0].Register != "x0" {
		t.Fatalf("expected second nop after producer, got %+v", insts[2])
	}
}

func TestScheduleFinalSlotForcedZero(t *testing.T) {
	insts := scheduleSource(t, "addi a0,x0,1\naddi a1,a0,2\n")
	last := insts[len(insts)-1]
	if last.Operands[0].Register != "a1" {
		t.Fatalf("last instruction should be the real consumer with no trailing nop, got %+v", last)
	}
}
