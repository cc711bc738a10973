// Package encode turns a fully expanded, hazard-scheduled rvasm.Program
// into 32-bit instruction words, a resolved label table, and the .rodata
// word stream, plus the human-readable and Verilog output formats built
// from them.
package encode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuhanlia1/rv32i-toolchain/internal/rvasm"
)

// Result is everything a finished assembly run produces.
type Result struct {
	Words       []uint32
	Labels      map[string]int64 // byte address, text or rodata
	RodataWords []uint32
	RodataBase  int64
	StackTop    int64
	TotalSlots  int
	HaltBytePC  int64
}

// textItem is one instruction destined for the Icache, in its expanded
// form; the pre-expansion source text is not kept.
type textItem struct {
	inst *rvasm.Instruction
}

// Encode assembles prog (already pseudo-expanded and hazard-scheduled) into
// a Result. rodataBase and stackTop are the configured memory layout
// constants; stackTop is recorded for diagnostics only — stub injection
// happens separately via PrependStartupStub.
func Encode(prog *rvasm.Program, rodataBase, stackTop int64) (*Result, error) {
	labels := map[string]int64{}
	var text []textItem
	var rodata []uint32

	section := sectionText
	var pendingTextLabels []string
	var pendingRodataLabels []string
	rodataPC := int64(0)

	bindPendingRodata := func() {
		for _, l := range pendingRodataLabels {
			labels[l] = rodataBase + rodataPC
		}
		pendingRodataLabels = nil
	}

	for _, line := range prog.Lines {
		switch line.Kind {
		case rvasm.LineLabel:
			if section == sectionRodata {
				bindPendingRodata()
				pendingRodataLabels = append(pendingRodataLabels, line.Label)
			} else {
				pendingTextLabels = append(pendingTextLabels, line.Label)
			}
			continue

		case rvasm.LineDirective:
			if line.Label != "" {
				if section == sectionRodata {
					bindPendingRodata()
					pendingRodataLabels = append(pendingRodataLabels, line.Label)
				} else {
					pendingTextLabels = append(pendingTextLabels, line.Label)
				}
			}
			d := line.Directive
			if kind, ok := sectionFor(d.Name, d.Args); ok {
				section = kind
				continue
			}
			if shouldSkipDirective(d.Name) {
				continue
			}
			if d.Name == ".word" && section == sectionRodata {
				bindPendingRodata()
				for _, a := range d.Args {
					v, err := parseInt(a)
					if err != nil {
						return nil, fmt.Errorf("encode: bad .word operand %q: %w", a, err)
					}
					rodata = append(rodata, uint32(v))
					rodataPC += 4
				}
				continue
			}
			// unrecognized directive in text: ignored, matches GNU_SKIP fallthrough.
			continue

		case rvasm.LineInstruction:
			if line.Label != "" {
				pendingTextLabels = append(pendingTextLabels, line.Label)
			}
			for _, l := range pendingTextLabels {
				labels[l] = int64(len(text)) * 4
			}
			pendingTextLabels = nil
			text = append(text, textItem{inst: line.Instruction})
		}
	}
	bindPendingRodata()

	totalInsts := len(text)
	haltBytePC := int64(0)
	if totalInsts > 0 {
		haltBytePC = int64(totalInsts-1) * 4
	}

	words := make([]uint32, totalInsts)
	for i, item := range text {
		bytePC := int64(i) * 4
		w, err := encodeOne(item.inst, bytePC, labels)
		if err != nil {
			return nil, wrapEncodingError(item.inst, err)
		}
		words[i] = w
	}

	return &Result{
		Words:       words,
		Labels:      labels,
		RodataWords: rodata,
		RodataBase:  rodataBase,
		StackTop:    stackTop,
		TotalSlots:  totalInsts,
		HaltBytePC:  haltBytePC,
	}, nil
}

func encodeOne(inst *rvasm.Instruction, bytePC int64, labels map[string]int64) (uint32, error) {
	if inst.Mnemonic == rvasm.HaltMnemonic {
		return HaltWord, nil
	}

	info, ok := instTable[inst.Mnemonic]
	if !ok {
		return 0, newEncodingError(inst, fmt.Sprintf("unknown mnemonic %q", inst.Mnemonic))
	}
	ops := inst.Operands

	reg := func(i int) (uint32, error) {
		if i >= len(ops) {
			return 0, newEncodingError(inst, "missing operand")
		}
		return regNum(inst, ops[i])
	}

	switch info.format {
	case FormatR:
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		rs1, err := reg(1)
		if err != nil {
			return 0, err
		}
		rs2, err := reg(2)
		if err != nil {
			return 0, err
		}
		return (info.funct7 << 25) | (rs2 << 20) | (rs1 << 15) | (info.funct3 << 12) | (rd << 7) | info.opcode, nil

	case FormatI:
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		switch inst.Mnemonic {
		case "lw", "lh", "lb", "lbu", "lhu", "jalr":
			if len(ops) < 2 || ops[1].Kind != rvasm.OperandMemory {
				return 0, newEncodingError(inst, "expected memory operand")
			}
			imm, err := parseInt(ops[1].Mem.Offset)
			if err != nil {
				return 0, newEncodingError(inst, fmt.Sprintf("bad immediate %q", ops[1].Mem.Offset))
			}
			rs1, ok := rvasm.RegisterNumber(ops[1].Mem.Base)
			if !ok {
				return 0, newEncodingError(inst, fmt.Sprintf("unknown register %q", ops[1].Mem.Base))
			}
			return (uint32(imm&0xfff) << 20) | (uint32(rs1) << 15) | (info.funct3 << 12) | (rd << 7) | info.opcode, nil
		default:
			rs1, err := reg(1)
			if err != nil {
				return 0, err
			}
			imm, err := resolveHiLo(inst, ops[2], labels)
			if err != nil {
				return 0, err
			}
			return (uint32(imm&0xfff) << 20) | (rs1 << 15) | (info.funct3 << 12) | (rd << 7) | info.opcode, nil
		}

	case FormatIShift:
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		rs1, err := reg(1)
		if err != nil {
			return 0, err
		}
		shamt, err := parseInt(ops[2].Literal)
		if err != nil {
			return 0, newEncodingError(inst, fmt.Sprintf("bad shift amount %q", ops[2].Raw))
		}
		return (info.funct7 << 25) | (uint32(shamt&0x1f) << 20) | (rs1 << 15) | (info.funct3 << 12) | (rd << 7) | info.opcode, nil

	case FormatS:
		rs2, err := reg(0)
		if err != nil {
			return 0, err
		}
		if len(ops) < 2 || ops[1].Kind != rvasm.OperandMemory {
			return 0, newEncodingError(inst, "expected memory operand")
		}
		imm, err := parseInt(ops[1].Mem.Offset)
		if err != nil {
			return 0, newEncodingError(inst, fmt.Sprintf("bad immediate %q", ops[1].Mem.Offset))
		}
		rs1, ok := rvasm.RegisterNumber(ops[1].Mem.Base)
		if !ok {
			return 0, newEncodingError(inst, fmt.Sprintf("unknown register %q", ops[1].Mem.Base))
		}
		u := uint32(imm) & 0xfff
		return ((u >> 5) << 25) | (rs2 << 20) | (uint32(rs1) << 15) | (info.funct3 << 12) | ((u & 0x1f) << 7) | info.opcode, nil

	case FormatB:
		rs1, err := reg(0)
		if err != nil {
			return 0, err
		}
		rs2, err := reg(1)
		if err != nil {
			return 0, err
		}
		if len(ops) < 3 {
			return 0, newEncodingError(inst, "missing branch target")
		}
		target, err := labelOffset(inst, ops[2], bytePC, labels)
		if err != nil {
			return 0, err
		}
		if target < -4096 || target > 4094 {
			return 0, newEncodingError(inst, fmt.Sprintf("branch target %q out of range (offset %d)", ops[2].Raw, target))
		}
		u := uint32(target)
		return (((u >> 12) & 1) << 31) | (((u >> 5) & 0x3f) << 25) | (rs2 << 20) | (rs1 << 15) |
			(info.funct3 << 12) | (((u >> 1) & 0xf) << 8) | (((u >> 11) & 1) << 7) | info.opcode, nil

	case FormatU:
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		if len(ops) < 2 {
			return 0, newEncodingError(inst, "missing immediate")
		}
		imm, err := resolveHiLo(inst, ops[1], labels)
		if err != nil {
			return 0, err
		}
		return ((uint32(imm) & 0xfffff) << 12) | (rd << 7) | info.opcode, nil

	case FormatJ:
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		if len(ops) < 2 {
			return 0, newEncodingError(inst, "missing jump target")
		}
		target, err := labelOffset(inst, ops[1], bytePC, labels)
		if err != nil {
			return 0, err
		}
		if target < -1048576 || target > 1048574 {
			return 0, newEncodingError(inst, fmt.Sprintf("jump target %q out of range (offset %d)", ops[1].Raw, target))
		}
		u := uint32(target)
		return (((u >> 20) & 1) << 31) | (((u >> 1) & 0x3ff) << 21) | (((u >> 11) & 1) << 20) |
			(((u >> 12) & 0xff) << 12) | (rd << 7) | info.opcode, nil

	case FormatSys:
		return (info.sysCode << 20) | info.opcode, nil
	}

	return 0, newEncodingError(inst, fmt.Sprintf("unsupported format for %q", inst.Mnemonic))
}

func regNum(inst *rvasm.Instruction, op rvasm.Operand) (uint32, error) {
	if op.Kind != rvasm.OperandRegister {
		return 0, newEncodingError(inst, fmt.Sprintf("expected register operand, got %q", op.Raw))
	}
	n, ok := rvasm.RegisterNumber(op.Register)
	if !ok {
		return 0, newEncodingError(inst, fmt.Sprintf("unknown register %q", op.Register))
	}
	return uint32(n), nil
}

func resolveHiLo(inst *rvasm.Instruction, op rvasm.Operand, labels map[string]int64) (int64, error) {
	switch op.Kind {
	case rvasm.OperandHi:
		addr, ok := labels[op.Symbol]
		if !ok {
			return 0, newEncodingError(inst, fmt.Sprintf("undefined label %q (for %%hi)", op.Symbol))
		}
		return int64(hi20(addr)), nil
	case rvasm.OperandLo:
		addr, ok := labels[op.Symbol]
		if !ok {
			return 0, newEncodingError(inst, fmt.Sprintf("undefined label %q (for %%lo)", op.Symbol))
		}
		return lo12(addr), nil
	default:
		v, err := parseInt(op.Literal)
		if err != nil {
			return 0, newEncodingError(inst, fmt.Sprintf("bad immediate %q", op.Raw))
		}
		return v, nil
	}
}

func labelOffset(inst *rvasm.Instruction, op rvasm.Operand, bytePC int64, labels map[string]int64) (int64, error) {
	name := op.Symbol
	if name == "" {
		name = op.Raw
	}
	addr, ok := labels[name]
	if !ok {
		return 0, newEncodingError(inst, fmt.Sprintf("undefined label %q", name))
	}
	return addr - bytePC, nil
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var v int64
	var err error
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		v, err = strconv.ParseInt(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}
