package lower

import (
	"strings"

	"github.com/yuhanlia1/rv32i-toolchain/internal/armasm"
)

// pools holds the literal-pool classification gathered by scanLiteralPools:
// a local label whose sole body is a single .word is either a symbol-address
// pool (materialized at use sites with lui/addi) or a numeric-constant pool
// (inlined with li), and its defining lines are suppressed from the output.
type pools struct {
	symbol    map[string]string
	numeric   map[string]string
	suppress  map[int]bool
}

func scanLiteralPools(prog *armasm.Program) *pools {
	p := &pools{symbol: map[string]string{}, numeric: map[string]string{}, suppress: map[int]bool{}}

	lines := prog.Lines
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line.Kind != armasm.LineLabel || !strings.HasPrefix(line.Label, ".L") {
			continue
		}

		j := i + 1
		alignIdx := -1
		if j < len(lines) && lines[j].Kind == armasm.LineDirective && isAlignDirective(lines[j].Directive.Name) {
			alignIdx = j
			j++
		}
		if j >= len(lines) || lines[j].Kind != armasm.LineDirective || lines[j].Directive.Name != ".word" {
			continue
		}
		if len(lines[j].Directive.Args) != 1 {
			continue
		}

		k := j + 1
		nextIsWord := k < len(lines) && lines[k].Kind == armasm.LineDirective && lines[k].Directive.Name == ".word"
		if nextIsWord {
			continue
		}

		val := lines[j].Directive.Args[0]
		p.suppress[i] = true
		if alignIdx >= 0 {
			p.suppress[alignIdx] = true
		}
		p.suppress[j] = true

		if isSymbolLiteral(val) {
			p.symbol[line.Label] = val
		} else {
			p.numeric[line.Label] = val
		}
	}

	return p
}

func isAlignDirective(name string) bool {
	return name == ".align" || name == ".p2align" || name == ".balign"
}

func isSymbolLiteral(val string) bool {
	if val == "" {
		return false
	}
	c := val[0]
	return c == '.' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
