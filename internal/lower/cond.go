package lower

// condBranch describes how an ARM conditional branch mnemonic maps onto
// an RV32I branch: which RV mnemonic to use, and whether the compared
// operands must be swapped to express the ARM predicate with it.
type condBranch struct {
	rv   string
	swap bool
}

var condBranchTable = map[string]condBranch{
	"beq": {"beq", false}, "bne": {"bne", false},
	"blt": {"blt", false}, "bge": {"bge", false},
	"bgt": {"blt", true}, "ble": {"bge", true},
	"blo": {"bltu", false}, "bls": {"bgeu", true},
	"bhi": {"bltu", true}, "bhs": {"bgeu", false},
	"bcs": {"bgeu", false}, "bcc": {"bltu", false},
	"bpl": {"bge", false}, "bmi": {"blt", false},
}

type shiftPair struct {
	imm string
	reg string
}

var shiftOpsTable = map[string]shiftPair{
	"lsl": {"slli", "sll"},
	"lsr": {"srli", "srl"},
	"asr": {"srai", "sra"},
}

// dropDirectives names architecture/attribute directives that describe the
// ARM build target and have no RV32I equivalent; they are silently omitted
// from translated output.
var dropDirectives = map[string]bool{
	".cpu": true, ".eabi_attribute": true, ".arch": true, ".syntax": true,
	".arm": true, ".thumb": true, ".fpu": true, ".code": true,
	".force_thumb": true, ".thumb_func": true,
}
