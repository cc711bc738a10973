package encode

import "strings"

// gnuSkipDirectives are GNU assembler metadata directives that carry no
// semantic weight for this pipeline and are dropped outright.
var gnuSkipDirectives = map[string]bool{
	".file": true, ".option": true, ".attribute": true, ".type": true,
	".size": true, ".ident": true, ".globl": true, ".global": true,
	".cfi_startproc": true, ".cfi_endproc": true, ".cfi_def_cfa_offset": true,
	".cfi_offset": true, ".uleb128": true, ".sleb128": true,
	".string": true, ".ascii": true, ".byte": true, ".half": true,
	".comm": true, ".lcomm": true, ".set": true, ".equ": true, ".equiv": true,
	".weak": true, ".protected": true, ".hidden": true, ".internal": true,
}

func isAlignDirective(name string) bool {
	return name == ".align" || name == ".p2align" || name == ".balign"
}

func isCfiDirective(name string) bool {
	return strings.HasPrefix(name, ".cfi_") || strings.HasPrefix(name, ".loc")
}

func shouldSkipDirective(name string) bool {
	return gnuSkipDirectives[name] || isAlignDirective(name) || isCfiDirective(name)
}

// sectionKind tracks which output stream a line belongs to.
type sectionKind int

const (
	sectionText sectionKind = iota
	sectionRodata
	sectionOther
)

func sectionFor(name string, args []string) (sectionKind, bool) {
	switch name {
	case ".text":
		return sectionText, true
	case ".rodata":
		return sectionRodata, true
	case ".data", ".bss":
		return sectionOther, true
	case ".section":
		for _, a := range args {
			if strings.Contains(a, "rodata") {
				return sectionRodata, true
			}
		}
		return sectionOther, true
	}
	return sectionOther, false
}
