package encode

import (
	"fmt"

	"github.com/yuhanlia1/rv32i-toolchain/internal/rvasm"
)

// PrependStartupStub injects the bare-metal stack initialization that the
// runtime has no chance to do: the program's first instruction(s) load
// stackTop into sp. Zero suppresses injection entirely.
func PrependStartupStub(prog *rvasm.Program, stackTop int64) *rvasm.Program {
	if stackTop == 0 {
		return prog
	}

	var stub []*rvasm.Instruction
	if stackTop >= -2048 && stackTop < 2048 {
		stub = []*rvasm.Instruction{rvasm.ParseInstructionText(fmt.Sprintf("addi sp,x0,%d", stackTop))}
	} else {
		h, l := hi20(stackTop), lo12(stackTop)
		stub = []*rvasm.Instruction{
			rvasm.ParseInstructionText(fmt.Sprintf("lui sp,%d", h)),
			rvasm.ParseInstructionText(fmt.Sprintf("addi sp,sp,%d", l)),
		}
	}

	out := &rvasm.Program{}
	for _, inst := range stub {
		out.Lines = append(out.Lines, &rvasm.Line{Kind: rvasm.LineInstruction, Instruction: inst})
	}
	out.Lines = append(out.Lines, prog.Lines...)
	return out
}
