package encode

// NopWord is the literal encoding of "addi x0,x0,0".
const NopWord uint32 = 0x00000013

// HaltWord is the literal encoding of "beq x0,x0,0", a self-branch that
// parks the program counter rather than returning through a missing
// caller frame.
const HaltWord uint32 = 0x00000063

// Format identifies an instruction's encoding shape.
type Format int

const (
	FormatR Format = iota
	FormatI
	FormatIShift
	FormatS
	FormatB
	FormatU
	FormatJ
	FormatSys
)

// instInfo mirrors the teacher reference's (fmt, opcode, funct3[, funct7])
// instruction table.
type instInfo struct {
	format Format
	opcode uint32
	funct3 uint32
	funct7 uint32
	// sysCode distinguishes ecall (0) from ebreak (1) for FormatSys.
	sysCode uint32
}

var instTable = map[string]instInfo{
	"add": {FormatR, 0x33, 0, 0x00, 0}, "sub": {FormatR, 0x33, 0, 0x20, 0},
	"sll": {FormatR, 0x33, 1, 0x00, 0}, "slt": {FormatR, 0x33, 2, 0x00, 0},
	"sltu": {FormatR, 0x33, 3, 0x00, 0}, "xor": {FormatR, 0x33, 4, 0x00, 0},
	"srl": {FormatR, 0x33, 5, 0x00, 0}, "sra": {FormatR, 0x33, 5, 0x20, 0},
	"or": {FormatR, 0x33, 6, 0x00, 0}, "and": {FormatR, 0x33, 7, 0x00, 0},

	"addi": {FormatI, 0x13, 0, 0, 0}, "slti": {FormatI, 0x13, 2, 0, 0},
	"sltiu": {FormatI, 0x13, 3, 0, 0}, "xori": {FormatI, 0x13, 4, 0, 0},
	"ori": {FormatI, 0x13, 6, 0, 0}, "andi": {FormatI, 0x13, 7, 0, 0},

	"slli": {FormatIShift, 0x13, 1, 0x00, 0},
	"srli": {FormatIShift, 0x13, 5, 0x00, 0},
	"srai": {FormatIShift, 0x13, 5, 0x20, 0},

	"lb": {FormatI, 0x03, 0, 0, 0}, "lh": {FormatI, 0x03, 1, 0, 0},
	"lw": {FormatI, 0x03, 2, 0, 0}, "lbu": {FormatI, 0x03, 4, 0, 0},
	"lhu": {FormatI, 0x03, 5, 0, 0},

	"sb": {FormatS, 0x23, 0, 0, 0}, "sh": {FormatS, 0x23, 1, 0, 0}, "sw": {FormatS, 0x23, 2, 0, 0},

	"beq": {FormatB, 0x63, 0, 0, 0}, "bne": {FormatB, 0x63, 1, 0, 0},
	"blt": {FormatB, 0x63, 4, 0, 0}, "bge": {FormatB, 0x63, 5, 0, 0},
	"bltu": {FormatB, 0x63, 6, 0, 0}, "bgeu": {FormatB, 0x63, 7, 0, 0},

	"lui": {FormatU, 0x37, 0, 0, 0}, "auipc": {FormatU, 0x17, 0, 0, 0},

	"jal": {FormatJ, 0x6F, 0, 0, 0},

	"jalr": {FormatI, 0x67, 0, 0, 0},

	"ecall": {FormatSys, 0x73, 0, 0, 0}, "ebreak": {FormatSys, 0x73, 0, 0, 1},
}

func hi20(addr int64) uint32 {
	return uint32(((addr + 0x800) >> 12) & 0xfffff)
}

func lo12(addr int64) int64 {
	v := addr & 0xfff
	if v >= 0x800 {
		v -= 0x1000
	}
	return v
}
