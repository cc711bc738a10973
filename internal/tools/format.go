// Package tools provides source-level utilities — currently a column
// formatter for RV32I assembly — that operate on the already-parsed
// rvasm representation rather than re-lexing text.
package tools

import (
	"fmt"
	"strings"

	"github.com/yuhanlia1/rv32i-toolchain/internal/rvasm"
)

// FormatStyle selects a column layout preset.
type FormatStyle int

const (
	FormatDefault FormatStyle = iota
	FormatCompact
	FormatExpanded
)

// FormatOptions controls the formatter's column layout.
type FormatOptions struct {
	Style             FormatStyle
	InstructionColumn int
	OperandColumn     int
}

// DefaultFormatOptions matches the column widths used by GCC-style RV32I
// listings: a tab stop for the mnemonic, another for its operands.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatDefault, InstructionColumn: 8, OperandColumn: 16}
}

// CompactFormatOptions collapses all alignment to a single space.
func CompactFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatCompact}
}

// ExpandedFormatOptions widens the columns for easier side-by-side reading.
func ExpandedFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatExpanded, InstructionColumn: 12, OperandColumn: 28}
}

// Format renders prog as column-aligned RV32I assembly text.
func Format(prog *rvasm.Program, opts *FormatOptions) string {
	if opts == nil {
		opts = DefaultFormatOptions()
	}
	var b strings.Builder
	for _, line := range prog.Lines {
		formatLine(&b, line, opts)
	}
	return b.String()
}

func formatLine(b *strings.Builder, line *rvasm.Line, opts *FormatOptions) {
	if line.Label != "" {
		fmt.Fprintf(b, "%s:\n", line.Label)
	}

	switch line.Kind {
	case rvasm.LineLabel:
		return

	case rvasm.LineDirective:
		d := line.Directive
		if len(d.Args) == 0 {
			fmt.Fprintf(b, "\t%s\n", d.Name)
			return
		}
		fmt.Fprintf(b, "\t%s %s\n", d.Name, strings.Join(d.Args, ", "))

	case rvasm.LineInstruction:
		inst := line.Instruction
		var operands []string
		for _, op := range inst.Operands {
			operands = append(operands, op.Raw)
		}
		if opts.Style == FormatCompact {
			if len(operands) == 0 {
				fmt.Fprintf(b, "%s\n", inst.Mnemonic)
			} else {
				fmt.Fprintf(b, "%s %s\n", inst.Mnemonic, strings.Join(operands, ","))
			}
			return
		}
		mnemCol := pad(inst.Mnemonic, opts.InstructionColumn)
		fmt.Fprintf(b, "\t%s%s\n", mnemCol, strings.Join(operands, ", "))
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
