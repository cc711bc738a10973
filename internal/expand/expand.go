// Package expand rewrites RV32I pseudo-instructions into the canonical
// RV32I instructions the encoder knows how to emit.
package expand

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuhanlia1/rv32i-toolchain/internal/rvasm"
)

// Expand returns a new Program in which every pseudo-instruction has been
// replaced by one or more canonical instructions. Labels and directives
// pass through unchanged; a label attached to a pseudo-instruction that
// expands to several lines stays attached to the first one.
func Expand(prog *rvasm.Program) *rvasm.Program {
	out := &rvasm.Program{}
	for _, line := range prog.Lines {
		if line.Kind != rvasm.LineInstruction {
			out.Lines = append(out.Lines, line)
			continue
		}

		expanded := expandOne(line.Instruction)
		for i, inst := range expanded {
			newLine := &rvasm.Line{Kind: rvasm.LineInstruction, Instruction: inst, Pos: line.Pos, Raw: line.Raw}
			if i == 0 {
				newLine.Label = line.Label
			}
			out.Lines = append(out.Lines, newLine)
		}
	}
	return out
}

func expandOne(inst *rvasm.Instruction) []*rvasm.Instruction {
	mn := inst.Mnemonic
	ops := inst.Operands

	text := func(s string) *rvasm.Instruction {
		i := rvasm.ParseInstructionText(s)
		i.Pos = inst.Pos
		return i
	}

	reg := func(i int) string { return ops[i].Register }
	lit := func(i int) string { return operandText(ops[i]) }

	switch mn {
	case "nop":
		return []*rvasm.Instruction{text("addi x0,x0,0")}

	case "ret", "halt":
		h := &rvasm.Instruction{Mnemonic: rvasm.HaltMnemonic, Pos: inst.Pos}
		return []*rvasm.Instruction{h}

	case "li":
		rd := reg(0)
		imm, err := strconv.ParseInt(strings.TrimSpace(ops[1].Literal), 0, 64)
		if err != nil {
			return []*rvasm.Instruction{inst}
		}
		if imm >= -2048 && imm < 2048 {
			return []*rvasm.Instruction{text(fmt.Sprintf("addi %s,x0,%d", rd, imm))}
		}
		h, l := hi20(imm), lo12(imm)
		return []*rvasm.Instruction{
			text(fmt.Sprintf("lui %s,%d", rd, h)),
			text(fmt.Sprintf("addi %s,%s,%d", rd, rd, l)),
		}

	case "mv":
		return []*rvasm.Instruction{text(fmt.Sprintf("addi %s,%s,0", reg(0), reg(1)))}
	case "j":
		return []*rvasm.Instruction{text(fmt.Sprintf("jal x0,%s", lit(0)))}
	case "jr":
		return []*rvasm.Instruction{text(fmt.Sprintf("jalr x0,0(%s)", reg(0)))}
	case "call":
		return []*rvasm.Instruction{text(fmt.Sprintf("jal ra,%s", lit(0)))}
	case "tail":
		return []*rvasm.Instruction{text(fmt.Sprintf("jal x0,%s", lit(0)))}

	case "ble":
		return []*rvasm.Instruction{text(fmt.Sprintf("bge %s,%s,%s", reg(1), reg(0), lit(2)))}
	case "bgt":
		return []*rvasm.Instruction{text(fmt.Sprintf("blt %s,%s,%s", reg(1), reg(0), lit(2)))}
	case "blez":
		return []*rvasm.Instruction{text(fmt.Sprintf("bge x0,%s,%s", reg(0), lit(1)))}
	case "bgtz":
		return []*rvasm.Instruction{text(fmt.Sprintf("blt x0,%s,%s", reg(0), lit(1)))}
	case "beqz":
		return []*rvasm.Instruction{text(fmt.Sprintf("beq %s,x0,%s", reg(0), lit(1)))}
	case "bnez":
		return []*rvasm.Instruction{text(fmt.Sprintf("bne %s,x0,%s", reg(0), lit(1)))}

	case "seqz":
		return []*rvasm.Instruction{text(fmt.Sprintf("sltiu %s,%s,1", reg(0), reg(1)))}
	case "snez":
		return []*rvasm.Instruction{text(fmt.Sprintf("sltu %s,x0,%s", reg(0), reg(1)))}
	case "sltz":
		return []*rvasm.Instruction{text(fmt.Sprintf("slt %s,%s,x0", reg(0), reg(1)))}
	case "sgtz":
		return []*rvasm.Instruction{text(fmt.Sprintf("slt %s,x0,%s", reg(0), reg(1)))}
	case "neg":
		return []*rvasm.Instruction{text(fmt.Sprintf("sub %s,x0,%s", reg(0), reg(1)))}
	case "not":
		return []*rvasm.Instruction{text(fmt.Sprintf("xori %s,%s,-1", reg(0), reg(1)))}
	}

	return []*rvasm.Instruction{inst}
}

func operandText(op rvasm.Operand) string {
	switch op.Kind {
	case rvasm.OperandLabel:
		return op.Symbol
	case rvasm.OperandRegister:
		return op.Register
	case rvasm.OperandImmediate:
		return op.Literal
	default:
		return op.Raw
	}
}

func hi20(addr int64) int64 {
	return ((addr + 0x800) >> 12) & 0xfffff
}

func lo12(addr int64) int64 {
	v := addr & 0xfff
	if v >= 0x800 {
		v -= 0x1000
	}
	return v
}
