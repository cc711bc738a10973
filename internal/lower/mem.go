package lower

import (
	"fmt"

	"github.com/yuhanlia1/rv32i-toolchain/internal/armasm"
)

// memInfo is the resolved shape of an ARM load/store address expression,
// derived from the parsed MemOperand plus an optional trailing post-index
// operand.
type memInfo struct {
	mode     string // "imm" | "reg" | "regshift"
	base     string
	offset   string // rv register name (reg/regshift) or literal (imm)
	shiftOp  string // rv shift mnemonic, regshift mode only
	shiftAmt string

	wbKind  string // "", "pre", "post"
	wbDelta string
}

var armShiftToRV = map[armasm.ShiftKind]string{
	armasm.ShiftLSL: "slli",
	armasm.ShiftLSR: "srli",
	armasm.ShiftASR: "srai",
}

func buildMemInfo(mem *armasm.MemOperand, post *armasm.Operand) memInfo {
	info := memInfo{base: rmap(mem.Base)}

	switch {
	case !mem.HasOffset:
		info.mode, info.offset = "imm", "0"
	case mem.OffsetReg == "":
		info.mode, info.offset = "imm", mem.OffsetImm
	case mem.Shift != armasm.ShiftNone:
		info.mode = "regshift"
		info.offset = rmap(mem.OffsetReg)
		info.shiftOp = armShiftToRV[mem.Shift]
		if info.shiftOp == "" {
			info.shiftOp = "slli"
		}
		info.shiftAmt = mem.ShiftAmt
	default:
		info.mode, info.offset = "reg", rmap(mem.OffsetReg)
	}

	switch {
	case mem.PreIndex:
		info.wbKind = "pre"
		if info.mode == "imm" {
			info.wbDelta = info.offset
		}
	case post != nil:
		info.wbKind = "post"
		if post.Kind == armasm.OperandImmediate {
			info.wbDelta = post.Literal
		} else if post.Kind == armasm.OperandRegister {
			info.wbDelta = rmap(post.Register)
		}
	}

	return info
}

// computeAddr emits any address-calculation instructions needed for a
// register or register-shifted offset and returns the "imm(base)" operand
// text to use in the following load/store.
func (c *Context) computeAddr(info memInfo, tmp string) string {
	switch info.mode {
	case "imm":
		return fmt.Sprintf("%s(%s)", info.offset, info.base)
	case "reg":
		c.emit(fmt.Sprintf("\tadd\t%s,%s,%s", tmp, info.base, info.offset))
		return fmt.Sprintf("0(%s)", tmp)
	default: // regshift
		c.emit(fmt.Sprintf("\t%s\t%s,%s,%s", info.shiftOp, tmp, info.offset, info.shiftAmt))
		c.emit(fmt.Sprintf("\tadd\t%s,%s,%s", tmp, info.base, tmp))
		return fmt.Sprintf("0(%s)", tmp)
	}
}

func (c *Context) emitLoad(op, rd string, mem *armasm.MemOperand, post *armasm.Operand) {
	info := buildMemInfo(mem, post)
	switch info.wbKind {
	case "pre":
		c.emit(fmt.Sprintf("\taddi\t%s,%s,%s", info.base, info.base, info.wbDelta))
		c.emit(fmt.Sprintf("\t%s\t%s,0(%s)", op, rd, info.base))
	case "post":
		c.emit(fmt.Sprintf("\t%s\t%s,0(%s)", op, rd, info.base))
		c.emit(fmt.Sprintf("\taddi\t%s,%s,%s", info.base, info.base, info.wbDelta))
	default:
		addr := c.computeAddr(info, "t5")
		c.emit(fmt.Sprintf("\t%s\t%s,%s", op, rd, addr))
	}
}

func (c *Context) emitStore(op, rs string, mem *armasm.MemOperand, post *armasm.Operand) {
	info := buildMemInfo(mem, post)
	switch info.wbKind {
	case "pre":
		c.emit(fmt.Sprintf("\taddi\t%s,%s,%s", info.base, info.base, info.wbDelta))
		c.emit(fmt.Sprintf("\t%s\t%s,0(%s)", op, rs, info.base))
	case "post":
		c.emit(fmt.Sprintf("\t%s\t%s,0(%s)", op, rs, info.base))
		c.emit(fmt.Sprintf("\taddi\t%s,%s,%s", info.base, info.base, info.wbDelta))
	default:
		addr := c.computeAddr(info, "t5")
		c.emit(fmt.Sprintf("\t%s\t%s,%s", op, rs, addr))
	}
}
