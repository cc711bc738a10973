package encode

import (
	"fmt"
	"sort"
	"strings"
)

// Listing renders the human-readable byte/slot/hex/assembly table, one line
// per instruction word plus a synthetic <label>: line wherever a label
// binds to that slot.
func (r *Result) Listing(sourceName string, insns []string) string {
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
	fmt.Fprintf(&b, "RV32I Listing — %s\n", sourceName)
	fmt.Fprintf(&b, "  RODATA_BASE=0x%04X  STACK_TOP=0x%04X\n", r.RodataBase, r.StackTop)
	fmt.Fprintf(&b, "  %d insts  %d slots  HALT byte PC=%d\n", r.TotalSlots, r.TotalSlots, r.HaltBytePC)
	rule := strings.Repeat("─", 72)
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%7s %5s  %10s  %s\n", "BytePC", "Slot", "Hex", "Assembly")
	b.WriteString(rule + "\n")

	for slot, word := range r.Words {
		for _, lbl := range slot2lbl[int64(slot)] {
			fmt.Fprintf(&b, "%7s %5s  %10s  <%s>:\n", "", "", "", lbl)
		}
		asm := ""
		if slot < len(insns) {
			asm = insns[slot]
		}
		fmt.Fprintf(&b, "%7d %5d  0x%08X  %s\n", slot*4, slot, word, asm)
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Total slots: %d\n", r.TotalSlots)
	return b.String()
}
