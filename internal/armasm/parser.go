package armasm

import (
	"fmt"
	"strings"

	"github.com/yuhanlia1/rv32i-toolchain/internal/lexer"
)

// Parser turns ARM assembly text into a Program by walking the token
// stream produced by internal/lexer. Operands are classified structurally
// (register / immediate / memory / register-list / label) and the
// mnemonic string is kept verbatim, including its condition-code and
// S-bit suffix — the lowerer dispatches on that full string.
type Parser struct {
	filename string
	errors   *lexer.ErrorList

	tokens []lexer.Token
	pos    int
	cur    lexer.Token
	peek   lexer.Token
}

// NewParser creates a Parser that tags diagnostics with filename.
func NewParser(filename string) *Parser {
	return &Parser{filename: filename, errors: &lexer.ErrorList{}}
}

// Errors returns the accumulated error list.
func (p *Parser) Errors() *lexer.ErrorList {
	return p.errors
}

// Parse parses the entire source text into a Program.
func (p *Parser) Parse(source string) *Program {
	lx := lexer.NewLexer(source, p.filename)
	p.tokens = lx.TokenizeAll()
	p.pos = 0
	p.advance()
	p.advance()
	for _, err := range lx.Errors().Errors {
		p.errors.AddError(err)
	}

	prog := &Program{}
	for p.cur.Type != lexer.TokenEOF {
		if line := p.parseLine(); line != nil {
			prog.Lines = append(prog.Lines, line)
		}
	}
	return prog
}

func (p *Parser) advance() {
	p.cur = p.peek
	if p.pos < len(p.tokens) {
		p.peek = p.tokens[p.pos]
		p.pos++
	} else {
		p.peek = lexer.Token{Type: lexer.TokenEOF, Pos: p.cur.Pos}
	}
}

func (p *Parser) atLineEnd() bool {
	return p.cur.Type == lexer.TokenNewline || p.cur.Type == lexer.TokenEOF || p.cur.Type == lexer.TokenComment
}

func (p *Parser) parseLine() *Line {
	for p.cur.Type == lexer.TokenNewline || p.cur.Type == lexer.TokenComment {
		p.advance()
	}
	if p.cur.Type == lexer.TokenEOF {
		return nil
	}
	pos := p.cur.Pos

	// A leading '#' opens a GNU-as style comment when nothing precedes it
	// on the line. The lexer always emits '#' as TokenHash (it also serves
	// as the ARM immediate prefix), so the disambiguation happens here.
	if p.cur.Type == lexer.TokenHash {
		for !p.atLineEnd() {
			p.advance()
		}
		p.finishLine()
		return nil
	}

	var label string
	if (p.cur.Type == lexer.TokenIdentifier || p.cur.Type == lexer.TokenDirective) && p.peek.Type == lexer.TokenColon {
		label = p.cur.Literal
		p.advance()
		p.advance()
	}

	if p.atLineEnd() {
		p.finishLine()
		if label != "" {
			return &Line{Kind: LineLabel, Label: label, Pos: pos, Raw: label + ":"}
		}
		return nil
	}

	var line *Line
	if p.cur.Type == lexer.TokenDirective {
		d := p.parseDirective()
		line = &Line{Kind: LineDirective, Label: label, Directive: d, Pos: pos, Raw: d.Raw}
	} else {
		inst := p.parseInstruction(pos)
		line = &Line{Kind: LineInstruction, Label: label, Instruction: inst, Pos: pos, Raw: inst.Raw}
	}
	p.finishLine()
	return line
}

func (p *Parser) finishLine() {
	if p.cur.Type == lexer.TokenComment {
		p.advance()
	}
	if p.cur.Type == lexer.TokenNewline {
		p.advance()
	}
}

func (p *Parser) parseDirective() *Directive {
	pos := p.cur.Pos
	name := strings.ToLower(p.cur.Literal)
	p.advance()

	var args []string
	for !p.atLineEnd() {
		if p.cur.Type == lexer.TokenComma {
			p.advance()
			continue
		}
		args = append(args, p.collectDirectiveArg())
	}
	return &Directive{Pos: pos, Name: name, Args: args, Raw: directiveText(name, args)}
}

func (p *Parser) collectDirectiveArg() string {
	if p.cur.Type == lexer.TokenMinus && p.peek.Type == lexer.TokenNumber {
		p.advance()
		lit := "-" + p.cur.Literal
		p.advance()
		return lit
	}
	if p.cur.Type == lexer.TokenString {
		lit := "\"" + p.cur.Literal + "\""
		p.advance()
		return lit
	}
	lit := p.cur.Literal
	p.advance()
	return lit
}

func directiveText(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, ", ")
}

func (p *Parser) parseInstruction(pos lexer.Position) *Instruction {
	mnem := strings.ToLower(p.cur.Literal)
	p.advance()

	var operands []Operand
	for !p.atLineEnd() {
		if p.cur.Type == lexer.TokenComma {
			p.advance()
			continue
		}
		operands = append(operands, p.parseOperand())
	}
	return &Instruction{Pos: pos, Mnemonic: mnem, Operands: operands, Raw: instructionText(mnem, operands)}
}

func instructionText(mnem string, operands []Operand) string {
	if len(operands) == 0 {
		return mnem
	}
	parts := make([]string, len(operands))
	for i, op := range operands {
		parts[i] = op.Raw
	}
	return mnem + " " + strings.Join(parts, ",")
}

func (p *Parser) parseOperand() Operand {
	switch p.cur.Type {
	case lexer.TokenHash:
		return p.parseImmediateOperand()
	case lexer.TokenLBracket:
		return p.parseMemoryOperand()
	case lexer.TokenLBrace:
		return p.parseRegisterListOperand()
	default:
		return p.parseRegisterOrLabelOperand()
	}
}

func (p *Parser) parseImmediateOperand() Operand {
	p.advance() // consume '#'
	lit := ""
	if p.cur.Type == lexer.TokenMinus {
		lit = "-"
		p.advance()
	}
	lit += p.cur.Literal
	raw := "#" + lit
	p.advance()
	return Operand{Kind: OperandImmediate, Literal: strings.TrimSpace(lit), Raw: raw}
}

// parseMemoryOperand parses "[base]", "[base, #off]", "[base, rm]",
// "[base, rm, LSL #n]" and the pre-indexed "[base, #off]!" form.
func (p *Parser) parseMemoryOperand() Operand {
	startPos := p.cur.Pos
	p.advance() // consume '['

	m := &MemOperand{}
	raw := []string{"["}

	if p.cur.Type != lexer.TokenRBracket {
		m.Base = strings.ToLower(p.cur.Literal)
		raw = append(raw, p.cur.Literal)
		p.advance()
	}

	if p.cur.Type == lexer.TokenComma {
		p.advance()
		raw = append(raw, ",")
		m.HasOffset = true

		if p.cur.Type == lexer.TokenHash {
			p.advance()
			neg := ""
			if p.cur.Type == lexer.TokenMinus {
				neg = "-"
				p.advance()
			}
			m.OffsetImm = neg + p.cur.Literal
			raw = append(raw, "#"+m.OffsetImm)
			p.advance()
		} else {
			m.OffsetReg = strings.ToLower(p.cur.Literal)
			raw = append(raw, p.cur.Literal)
			p.advance()
			if p.cur.Type == lexer.TokenComma {
				p.advance()
				if p.cur.Type == lexer.TokenIdentifier {
					shiftName := p.cur.Literal
					raw = append(raw, ","+shiftName)
					p.advance()
					amt := ""
					if p.cur.Type == lexer.TokenHash {
						p.advance()
						amt = p.cur.Literal
						raw = append(raw, "#"+amt)
						p.advance()
					}
					m.Shift = shiftKindByName(shiftName)
					m.ShiftAmt = amt
				}
			}
		}
	}

	if p.cur.Type != lexer.TokenRBracket {
		p.errors.AddError(lexer.NewError(startPos, lexer.ErrorInvalidOperand, fmt.Sprintf("unterminated memory operand starting at %s", startPos)))
	} else {
		p.advance()
	}
	raw = append(raw, "]")

	if p.cur.Type == lexer.TokenExclaim {
		m.PreIndex = true
		raw = append(raw, "!")
		p.advance()
	}

	return Operand{Kind: OperandMemory, Mem: m, Raw: strings.Join(raw, "")}
}

func shiftKindByName(name string) ShiftKind {
	switch strings.ToLower(name) {
	case "lsl":
		return ShiftLSL
	case "lsr":
		return ShiftLSR
	case "asr":
		return ShiftASR
	case "ror":
		return ShiftROR
	default:
		return ShiftNone
	}
}

func (p *Parser) parseRegisterListOperand() Operand {
	p.advance() // consume '{'

	var items []string
	var cur strings.Builder
	for p.cur.Type != lexer.TokenRBrace && !p.atLineEnd() {
		switch p.cur.Type {
		case lexer.TokenComma:
			items = append(items, cur.String())
			cur.Reset()
		case lexer.TokenMinus:
			cur.WriteString("-")
		default:
			cur.WriteString(p.cur.Literal)
		}
		p.advance()
	}
	if cur.Len() > 0 {
		items = append(items, cur.String())
	}
	if p.cur.Type == lexer.TokenRBrace {
		p.advance()
	}

	return Operand{Kind: OperandRegisterList, Regs: expandRegItems(items), Raw: "{" + strings.Join(items, ",") + "}"}
}

// expandRegItems turns a comma-separated item list like ["r4-r6", "lr"]
// into the fully expanded register name sequence ["r4","r5","r6","lr"].
func expandRegItems(items []string) []string {
	var out []string
	for _, tok := range items {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.Contains(tok, "-") && !strings.HasPrefix(tok, "-") {
			bounds := strings.SplitN(tok, "-", 2)
			lo, okLo := armRegIndex(strings.TrimSpace(bounds[0]))
			hi, okHi := armRegIndex(strings.TrimSpace(bounds[1]))
			if okLo && okHi && lo <= hi {
				for i := lo; i <= hi; i++ {
					out = append(out, armRegName(i))
				}
				continue
			}
		}
		out = append(out, strings.ToLower(tok))
	}
	return out
}

func (p *Parser) parseRegisterOrLabelOperand() Operand {
	lit := p.cur.Literal
	raw := lit
	p.advance()
	if p.cur.Type == lexer.TokenExclaim {
		raw += "!"
		p.advance()
	}
	if IsARMRegister(lit) {
		return Operand{Kind: OperandRegister, Register: strings.ToLower(lit), Raw: raw}
	}
	return Operand{Kind: OperandLabel, Label: lit, Raw: raw}
}

var armAliasIndex = map[string]int{"fp": 11, "ip": 12, "sp": 13, "lr": 14, "pc": 15}
var armIndexAlias = map[int]string{11: "fp", 12: "ip", 13: "sp", 14: "lr", 15: "pc"}

func armRegIndex(name string) (int, bool) {
	name = strings.ToLower(name)
	if idx, ok := armAliasIndex[name]; ok {
		return idx, true
	}
	if len(name) >= 2 && name[0] == 'r' {
		n := 0
		for _, c := range name[1:] {
			if c < '0' || c > '9' {
				return 0, false
			}
			n = n*10 + int(c-'0')
		}
		if n <= 15 {
			return n, true
		}
	}
	return 0, false
}

func armRegName(idx int) string {
	if name, ok := armIndexAlias[idx]; ok {
		return name
	}
	return fmt.Sprintf("r%d", idx)
}

// IsARMRegister reports whether name (optionally case-folded) is a valid
// ARM register name or alias, r0-r15 or sp/lr/pc/fp/ip.
func IsARMRegister(name string) bool {
	_, ok := armRegIndex(name)
	return ok
}
