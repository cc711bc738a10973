package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yuhanlia1/rv32i-toolchain/internal/lexer"
	"github.com/yuhanlia1/rv32i-toolchain/internal/rvasm"
)

func TestEncodingErrorIncludesSourceLocation(t *testing.T) {
	inst := &rvasm.Instruction{
		Pos: lexer.Position{Filename: "t.s", Line: 4, Column: 1},
		Raw: "frobnicate a0,a1",
	}
	err := newEncodingError(inst, "unknown mnemonic")

	assert.Contains(t, err.Error(), "t.s:4:1")
	assert.Contains(t, err.Error(), "unknown mnemonic")
	assert.Contains(t, err.Error(), "frobnicate a0,a1")
}

func TestWrapEncodingErrorDoesNotDoubleWrap(t *testing.T) {
	inst := &rvasm.Instruction{Raw: "addi x0,x0,0"}
	original := newEncodingError(inst, "boom")

	wrapped := wrapEncodingError(inst, original)

	assert.Same(t, original, wrapped)
}
