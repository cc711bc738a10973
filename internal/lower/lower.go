// Package lower rewrites parsed ARM (armv4t) assembly into RV32I text
// assembly: ARM's flag-based condition codes are merged into RV
// compare-and-branch instructions, multi-register transfers are expanded
// into discrete loads/stores, and PC-relative literal pools are resolved
// into lui/addi pairs or inlined li immediates.
package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuhanlia1/rv32i-toolchain/internal/armasm"
	"github.com/yuhanlia1/rv32i-toolchain/internal/lexer"
)

// Context carries the mutable state threaded through the single lowering
// pass: the accumulated output lines and the last comparison seen, which a
// following conditional branch consumes.
type Context struct {
	out     []string
	pendCmp *[2]string
	pools   *pools
	curPos  lexer.Position
	errs    *lexer.ErrorList
}

func (c *Context) emit(s string) {
	c.out = append(c.out, s)
}

func (c *Context) warn(msg string) {
	c.emit("\t# [WARNING] " + msg)
	c.errs.AddWarning(&lexer.Warning{Pos: c.curPos, Message: msg})
}

// Lower translates a parsed ARM program into RV32I assembly text.
func Lower(prog *armasm.Program) (string, *lexer.ErrorList) {
	c := &Context{pools: scanLiteralPools(prog), errs: &lexer.ErrorList{}}

	c.emit("\t.option nopic")
	c.emit("\t.attribute arch, \"rv32i2p0\"")
	c.emit("\t.attribute unaligned_access, 0")
	c.emit("\t.attribute stack_align, 16")

	for i, line := range prog.Lines {
		if c.pools.suppress[i] {
			continue
		}
		c.processLine(line)
	}

	return strings.Join(c.out, "\n") + "\n", c.errs
}

func (c *Context) processLine(line *armasm.Line) {
	c.curPos = line.Pos
	if line.Label != "" {
		c.emit(line.Label + ":")
	}

	switch line.Kind {
	case armasm.LineDirective:
		c.processDirective(line.Directive)
	case armasm.LineInstruction:
		c.dispatch(line.Instruction)
	}
}

func (c *Context) processDirective(d *armasm.Directive) {
	if dropDirectives[d.Name] {
		return
	}
	switch d.Name {
	case ".global":
		c.emit("\t.globl\t" + strings.Join(d.Args, ", "))
	case ".file":
		c.emit("\t.file\t\"translated_from_arm.s\"")
	default:
		args := strings.Join(d.Args, ", ")
		if args != "" {
			c.emit("\t" + d.Name + "\t" + args)
		} else {
			c.emit("\t" + d.Name)
		}
	}
}

func (c *Context) dispatch(inst *armasm.Instruction) {
	mnem := inst.Mnemonic
	ops := inst.Operands

	switch {
	case mnem == "b":
		c.emit("\tj\t" + label(ops[0]))
		c.pendCmp = nil
		return

	case mnem == "bl":
		c.emit("\tcall\t" + label(ops[0]))
		return

	case mnem == "bx":
		r := "ra"
		if len(ops) > 0 {
			r = rmap(ops[0].Register)
		}
		if r == "ra" {
			c.emit("\tret")
		} else {
			c.emit("\tjr\t" + r)
		}
		c.pendCmp = nil
		return
	}

	if cb, ok := condBranchTable[mnem]; ok {
		target := label(ops[0])
		if c.pendCmp != nil {
			rs1, rs2 := c.pendCmp[0], c.pendCmp[1]
			if cb.swap {
				rs1, rs2 = rs2, rs1
			}
			c.emit(fmt.Sprintf("\t%s\t%s,%s,%s", cb.rv, rs1, rs2, target))
			c.pendCmp = nil
		} else {
			c.warn(fmt.Sprintf("%s has no preceding cmp, defaulting to zero,zero", mnem))
			c.emit(fmt.Sprintf("\t%s\tzero,zero,%s", cb.rv, target))
		}
		return
	}

	switch mnem {
	case "cmp", "cmn":
		rs1 := rmap(ops[0].Register)
		op2 := ops[1]
		if op2.Kind == armasm.OperandImmediate {
			if op2.Literal == "0" {
				c.pendCmp = &[2]string{rs1, "zero"}
			} else {
				c.emit("\tli\tt4," + op2.Literal)
				c.pendCmp = &[2]string{rs1, "t4"}
			}
		} else {
			c.pendCmp = &[2]string{rs1, rmap(op2.Register)}
		}
		return

	case "mov":
		rd, src := rmap(ops[0].Register), ops[1]
		if src.Kind == armasm.OperandImmediate {
			c.emit("\tli\t" + rd + "," + src.Literal)
		} else {
			c.emit("\tmv\t" + rd + "," + rmap(src.Register))
		}
		return

	case "mvn":
		rd, src := rmap(ops[0].Register), ops[1]
		if src.Kind == armasm.OperandImmediate {
			c.emit("\tli\t" + rd + "," + invertDecimal(src.Literal))
		} else {
			c.emit("\tnot\t" + rd + "," + rmap(src.Register))
		}
		return

	case "add", "adds":
		rd, rn, op2 := rmap(ops[0].Register), rmap(ops[1].Register), ops[2]
		if op2.Kind == armasm.OperandImmediate {
			c.emit("\taddi\t" + rd + "," + rn + "," + op2.Literal)
		} else {
			c.emit("\tadd\t" + rd + "," + rn + "," + rmap(op2.Register))
		}
		return

	case "sub", "subs":
		rd, rn, op2 := rmap(ops[0].Register), rmap(ops[1].Register), ops[2]
		if op2.Kind == armasm.OperandImmediate {
			c.emit("\taddi\t" + rd + "," + rn + "," + negateDecimal(op2.Literal))
		} else {
			c.emit("\tsub\t" + rd + "," + rn + "," + rmap(op2.Register))
		}
		return

	case "rsb", "rsbs":
		rd, rn, op2 := rmap(ops[0].Register), rmap(ops[1].Register), ops[2]
		if op2.Kind == armasm.OperandImmediate && op2.Literal == "0" {
			c.emit("\tneg\t" + rd + "," + rn)
		} else {
			c.emit("\tli\tt4," + op2.Literal)
			c.emit("\tsub\t" + rd + ",t4," + rn)
		}
		return

	case "mul", "muls":
		c.emit("\tmul\t" + rmap(ops[0].Register) + "," + rmap(ops[1].Register) + "," + rmap(ops[2].Register))
		return

	case "smull", "smulls":
		rdlo, rdhi, rn, rm := rmap(ops[0].Register), rmap(ops[1].Register), rmap(ops[2].Register), rmap(ops[3].Register)
		c.emit(fmt.Sprintf("\tmul\t%s,%s,%s", rdlo, rn, rm))
		c.emit(fmt.Sprintf("\tmulh\t%s,%s,%s", rdhi, rn, rm))
		return

	case "umull", "umulls":
		rdlo, rdhi, rn, rm := rmap(ops[0].Register), rmap(ops[1].Register), rmap(ops[2].Register), rmap(ops[3].Register)
		c.emit(fmt.Sprintf("\tmul\t%s,%s,%s", rdlo, rn, rm))
		c.emit(fmt.Sprintf("\tmulhu\t%s,%s,%s", rdhi, rn, rm))
		return

	case "smlal", "smlals":
		rdlo, rdhi, rn, rm := rmap(ops[0].Register), rmap(ops[1].Register), rmap(ops[2].Register), rmap(ops[3].Register)
		c.emit(fmt.Sprintf("\tmul\tt5,%s,%s", rn, rm))
		c.emit(fmt.Sprintf("\tmulh\tt6,%s,%s", rn, rm))
		c.emit(fmt.Sprintf("\tadd\t%s,%s,t5", rdlo, rdlo))
		c.emit(fmt.Sprintf("\tsltu\tt5,%s,t5", rdlo))
		c.emit(fmt.Sprintf("\tadd\t%s,%s,t5", rdhi, rdhi))
		c.emit(fmt.Sprintf("\tadd\t%s,%s,t6", rdhi, rdhi))
		return

	case "sdiv":
		c.emit("\tdiv\t" + rmap(ops[0].Register) + "," + rmap(ops[1].Register) + "," + rmap(ops[2].Register))
		return

	case "udiv":
		c.emit("\tdivu\t" + rmap(ops[0].Register) + "," + rmap(ops[1].Register) + "," + rmap(ops[2].Register))
		return

	case "and", "ands":
		rd, rn, op2 := rmap(ops[0].Register), rmap(ops[1].Register), ops[2]
		if op2.Kind == armasm.OperandImmediate {
			c.emit("\tandi\t" + rd + "," + rn + "," + op2.Literal)
		} else {
			c.emit("\tand\t" + rd + "," + rn + "," + rmap(op2.Register))
		}
		return

	case "orr", "orrs":
		rd, rn, op2 := rmap(ops[0].Register), rmap(ops[1].Register), ops[2]
		if op2.Kind == armasm.OperandImmediate {
			c.emit("\tori\t" + rd + "," + rn + "," + op2.Literal)
		} else {
			c.emit("\tor\t" + rd + "," + rn + "," + rmap(op2.Register))
		}
		return

	case "eor", "eors":
		rd, rn, op2 := rmap(ops[0].Register), rmap(ops[1].Register), ops[2]
		if op2.Kind == armasm.OperandImmediate {
			c.emit("\txori\t" + rd + "," + rn + "," + op2.Literal)
		} else {
			c.emit("\txor\t" + rd + "," + rn + "," + rmap(op2.Register))
		}
		return

	case "bic":
		rd, rn, op2 := rmap(ops[0].Register), rmap(ops[1].Register), ops[2]
		if op2.Kind == armasm.OperandImmediate {
			c.emit("\tandi\t" + rd + "," + rn + "," + invertDecimal(op2.Literal))
		} else {
			c.emit("\tnot\tt4," + rmap(op2.Register))
			c.emit("\tand\t" + rd + "," + rn + ",t4")
		}
		return

	case "ror":
		rd, rn, op2 := rmap(ops[0].Register), rmap(ops[1].Register), ops[2]
		if op2.Kind == armasm.OperandImmediate {
			amt, _ := strconv.Atoi(op2.Literal)
			c.emit(fmt.Sprintf("\tsrli\tt4,%s,%d", rn, amt))
			c.emit(fmt.Sprintf("\tslli\t%s,%s,%d", rd, rn, 32-amt))
			c.emit(fmt.Sprintf("\tor\t%s,%s,t4", rd, rd))
		} else {
			rvAmt := rmap(op2.Register)
			c.emit(fmt.Sprintf("\tsrl\tt4,%s,%s", rn, rvAmt))
			c.emit("\tli\tt5,32")
			c.emit(fmt.Sprintf("\tsub\tt5,t5,%s", rvAmt))
			c.emit(fmt.Sprintf("\tsll\t%s,%s,t5", rd, rn))
			c.emit(fmt.Sprintf("\tor\t%s,%s,t4", rd, rd))
		}
		return

	case "nop":
		c.emit("\tnop")
		return

	case "swi", "svc":
		var rest []string
		for _, o := range ops {
			rest = append(rest, o.Raw)
		}
		c.emit(fmt.Sprintf("\tecall\t# %s %s", mnem, strings.Join(rest, ",")))
		return
	}

	if rv, ok := shiftOpsTable[mnem]; ok {
		rd, rn, op2 := rmap(ops[0].Register), rmap(ops[1].Register), ops[2]
		if op2.Kind == armasm.OperandImmediate {
			c.emit(fmt.Sprintf("\t%s\t%s,%s,%s", rv.imm, rd, rn, op2.Literal))
		} else {
			c.emit(fmt.Sprintf("\t%s\t%s,%s,%s", rv.reg, rd, rn, rmap(op2.Register)))
		}
		return
	}

	if rvOp, ok := loadOps[mnem]; ok {
		rd := rmap(ops[0].Register)
		mem := ops[1]
		if mem.Kind == armasm.OperandLabel {
			c.emitPoolLoad(rvOp, rd, mem.Label)
			return
		}
		var post *armasm.Operand
		if len(ops) > 2 {
			post = &ops[2]
		}
		c.emitLoad(rvOp, rd, mem.Mem, post)
		return
	}

	if rvOp, ok := storeOps[mnem]; ok {
		rs := rmap(ops[0].Register)
		mem := ops[1]
		var post *armasm.Operand
		if len(ops) > 2 {
			post = &ops[2]
		}
		c.emitStore(rvOp, rs, mem.Mem, post)
		return
	}

	switch {
	case mnem == "push":
		c.expandPush(inst)
		return
	case mnem == "pop":
		c.expandPop(inst)
		return
	case isLDM(mnem):
		c.expandMultiTransfer(inst, false)
		return
	case isSTM(mnem):
		c.expandMultiTransfer(inst, true)
		return
	}

	var rest []string
	for _, o := range ops {
		rest = append(rest, o.Raw)
	}
	c.emit(fmt.Sprintf("\t# [UNTRANSLATED] %s %s", mnem, strings.Join(rest, ",")))
}

var loadOps = map[string]string{
	"ldr": "lw", "ldrb": "lbu", "ldrh": "lhu", "ldrsb": "lb", "ldrsh": "lh",
}

var storeOps = map[string]string{
	"str": "sw", "strb": "sb", "strh": "sh",
}

func isLDM(m string) bool {
	switch m {
	case "ldm", "ldmia", "ldmfd", "ldmda", "ldmdb", "ldmib":
		return true
	}
	return false
}

func isSTM(m string) bool {
	switch m {
	case "stm", "stmia", "stmea", "stmda", "stmdb", "stmfd":
		return true
	}
	return false
}

func (c *Context) emitPoolLoad(rvOp, rd, poolLabel string) {
	if sym, ok := c.pools.symbol[poolLabel]; ok {
		c.emit("\tlui\t" + rd + ",%hi(" + sym + ")")
		c.emit("\taddi\t" + rd + "," + rd + ",%lo(" + sym + ")")
		return
	}
	if val, ok := c.pools.numeric[poolLabel]; ok {
		c.emit("\tli\t" + rd + "," + val)
		return
	}
	c.warn("literal pool " + poolLabel + " not found, falling back to la")
	c.emit("\tla\t" + rd + "," + poolLabel)
	_ = rvOp // the pool forms never need the original load opcode
}

func label(op armasm.Operand) string {
	if op.Kind == armasm.OperandLabel {
		return op.Label
	}
	return op.Raw
}

func negateDecimal(lit string) string {
	v, err := strconv.ParseInt(lit, 0, 64)
	if err != nil {
		return "-(" + lit + ")"
	}
	return strconv.FormatInt(-v, 10)
}

func invertDecimal(lit string) string {
	v, err := strconv.ParseInt(lit, 0, 64)
	if err != nil {
		return "~(" + lit + ")"
	}
	return strconv.FormatInt(^v, 10)
}
