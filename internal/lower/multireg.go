package lower

import (
	"fmt"
	"strings"

	"github.com/yuhanlia1/rv32i-toolchain/internal/armasm"
)

func (c *Context) expandPush(inst *armasm.Instruction) {
	regs := inst.Operands[0].Regs
	n := len(regs)
	c.emit(fmt.Sprintf("\taddi\tsp,sp,%d", -4*n))
	for i, r := range regs {
		c.emit(fmt.Sprintf("\tsw\t%s,%d(sp)", rmap(r), 4*i))
	}
}

func (c *Context) expandPop(inst *armasm.Instruction) {
	regs := inst.Operands[0].Regs
	n := len(regs)
	for i, r := range regs {
		c.emit(fmt.Sprintf("\tlw\t%s,%d(sp)", rmap(r), 4*i))
	}
	c.emit(fmt.Sprintf("\taddi\tsp,sp,%d", 4*n))
	for _, r := range regs {
		if strings.ToLower(r) == "pc" {
			c.emit("\tret")
			break
		}
	}
}

// expandMultiTransfer lowers ldm*/stm*: base register operand (optionally
// writeback-marked with a trailing '!') followed by a brace register list.
// Increment modes address upward from the base and add 4·n on writeback;
// decrement modes (da/db, and stmfd) address below it and subtract 4·n.
func (c *Context) expandMultiTransfer(inst *armasm.Instruction, isStore bool) {
	baseOp := inst.Operands[0]
	writeback := strings.HasSuffix(baseOp.Raw, "!")
	base := rmap(baseOp.Register)

	var regs []string
	for _, op := range inst.Operands[1:] {
		if op.Kind == armasm.OperandRegisterList {
			regs = op.Regs
			break
		}
	}

	op := "lw"
	if isStore {
		op = "sw"
	}
	n := 4 * len(regs)
	start, delta := 0, n
	switch inst.Mnemonic {
	case "ldmib":
		start = 4
	case "ldmda", "stmda":
		start, delta = 4-n, -n
	case "ldmdb", "stmdb", "stmfd":
		start, delta = -n, -n
	}
	for i, r := range regs {
		c.emit(fmt.Sprintf("\t%s\t%s,%d(%s)", op, rmap(r), start+4*i, base))
	}
	if writeback {
		c.emit(fmt.Sprintf("\taddi\t%s,%s,%d", base, base, delta))
	}
}
