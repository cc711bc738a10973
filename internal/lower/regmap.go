package lower

import "strings"

// RegisterMap maps ARM register names (and ABI aliases) to their RV32I
// ABI counterpart, chosen to preserve argument/callee-saved/scratch roles
// rather than a literal r(n)->x(n) renumbering.
var RegisterMap = map[string]string{
	"r0": "a0", "r1": "a1", "r2": "a2", "r3": "a3",
	"r4": "a4", "r5": "a5", "r6": "a6", "r7": "a7",
	"r8": "s1", "r9": "s2", "r10": "s3", "r11": "s4",
	"r12": "t0", "r13": "sp", "r14": "ra", "r15": "t6",
	"fp": "s0", "ip": "t0", "sp": "sp", "lr": "ra", "pc": "t6",
}

// rmap resolves an ARM register name to its RV32I counterpart. Names that
// are not in the table pass through unchanged, which lets mnemonic text
// already written in RV form flow through untouched.
func rmap(name string) string {
	name = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "!"))
	if rv, ok := RegisterMap[name]; ok {
		return rv
	}
	return name
}
