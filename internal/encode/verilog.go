package encode

import (
	"fmt"
	"sort"
	"strings"
)

// VerilogTasks renders the load_icache/load_dcache task pair a testbench can
// paste in directly: both tasks zero their target memory first, then
// overlay the assembled words (and .rodata words) at their slots.
func (r *Result) VerilogTasks(sourceName string) string {
	slot2lbl := map[int64][]string{}
	for lbl, addr := range r.Labels {
		if addr < r.RodataBase {
			slot2lbl[addr/4] = append(slot2lbl[addr/4], lbl)
		}
	}
	for _, labels := range slot2lbl {
		sort.Strings(labels)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\n", strings.Repeat("=", 58))
	b.WriteString("// Auto-generated instruction/data memory loader\n")
	fmt.Fprintf(&b, "// Source : %s\n", sourceName)
	fmt.Fprintf(&b, "// Insts  : %d   Slots: %d\n", r.TotalSlots, r.TotalSlots)
	fmt.Fprintf(&b, "// HALT byte PC = %d\n", r.HaltBytePC)
	fmt.Fprintf(&b, "// STACK_TOP    = 0x%04X = %d\n", r.StackTop, r.StackTop)
	fmt.Fprintf(&b, "// RODATA_BASE  = 0x%04X -> Dcache word %d\n", r.RodataBase, r.RodataBase/4)
	fmt.Fprintf(&b, "// %s\n\n", strings.Repeat("=", 58))

	b.WriteString("task load_icache;\n")
	b.WriteString("integer _ki;\n")
	b.WriteString("begin\n")
	b.WriteString("    for (_ki = 0; _ki < 512; _ki = _ki + 1)\n")
	b.WriteString("        dut.Imm.mem[_ki] = 32'h00000013; // NOP\n\n")

	for slot, word := range r.Words {
		if lbls := slot2lbl[int64(slot)]; len(lbls) > 0 {
			var tags []string
			for _, l := range lbls {
				tags = append(tags, "<"+l+">")
			}
			fmt.Fprintf(&b, "    // -- %s (byte %d) --\n", strings.Join(tags, "  "), slot*4)
		}
		fmt.Fprintf(&b, "    dut.Imm.mem[%3d] = 32'h%08X;\n", slot, word)
	}

	fmt.Fprintf(&b, "\n    $display(\"[ICACHE] %d insts, %d slots, HALT byte PC=%d\");\n", r.TotalSlots, r.TotalSlots, r.HaltBytePC)
	b.WriteString("end\nendtask\n\n")

	b.WriteString("task load_dcache;\n")
	b.WriteString("integer _kd;\n")
	b.WriteString("begin\n")
	b.WriteString("    for (_kd = 0; _kd < 512; _kd = _kd + 1)\n")
	b.WriteString("        dut.mm_stage_inst.Dmm.mem[_kd] = 32'h00000000;\n\n")

	if len(r.RodataWords) > 0 {
		baseWord := r.RodataBase / 4
		for idx, val := range r.RodataWords {
			signed := int32(val)
			fmt.Fprintf(&b, "    dut.mm_stage_inst.Dmm.mem[%d] = 32'h%08X; // %d\n", baseWord+int64(idx), val, signed)
		}
	} else {
		b.WriteString("    // no .rodata data\n")
	}

	b.WriteString("\n    $display(\"[DCACHE] preload complete\");\n")
	b.WriteString("end\nendtask\n")

	return b.String()
}
