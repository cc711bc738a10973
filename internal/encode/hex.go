package encode

import (
	"fmt"
	"strings"
)

// IcacheHex renders a commented header followed by one 0x%08X instruction
// word per line, in slot order, each trailed by a "# mnemonic (slot N)"
// annotation when insns carries text for that slot.
func (r *Result) IcacheHex(sourceName string, insns []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# imem.hex — %s\n", sourceName)
	fmt.Fprintf(&b, "# %d words, HALT byte PC=%d\n", len(r.Words), r.HaltBytePC)
	for slot, w := range r.Words {
		asm := ""
		if slot < len(insns) {
			asm = insns[slot]
		}
		fmt.Fprintf(&b, "0x%08X  # %s (slot %d)\n", w, asm, slot)
	}
	return b.String()
}

// DcacheHex renders the .rodata word stream the same way; the words belong
// in data memory starting at word index RodataBase/4.
func (r *Result) DcacheHex(sourceName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# dmem.hex — %s\n", sourceName)
	fmt.Fprintf(&b, "# %d words, base word %d\n", len(r.RodataWords), r.RodataBase/4)
	for i, w := range r.RodataWords {
		fmt.Fprintf(&b, "0x%08X  # word %d\n", w, i)
	}
	return b.String()
}
