package rvasm

import (
	"strings"

	"github.com/yuhanlia1/rv32i-toolchain/internal/lexer"
)

// Parser turns RV32I assembly text into a Program by walking the token
// stream produced by internal/lexer, the same tokenizer the ARM front end
// uses — both dialects classify the identifiers and punctuation it emits
// themselves rather than the lexer knowing any mnemonic or register name.
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

// Parse parses source text into a Program.
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

// ParseInstructionText parses a single "mnemonic arg,arg,..." string into an
// Instruction, for synthesizing canonical instructions during pseudo
// expansion and NOP insertion rather than re-running the full line scanner.
func ParseInstructionText(s string) *Instruction {
	p := NewParser("")
	lx := lexer.NewLexer(strings.TrimSpace(s), "")
	p.tokens = lx.TokenizeAll()
	p.pos = 0
	p.advance()
	p.advance()
	return p.parseInstruction(lexer.Position{})
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
	switch {
	case p.cur.Type == lexer.TokenPercent:
		return p.parseHiLoOperand()
	case p.cur.Type == lexer.TokenNumber || p.cur.Type == lexer.TokenMinus:
		return p.parseNumericOrMemoryOperand()
	case p.cur.Type == lexer.TokenIdentifier && IsRegister(p.cur.Literal):
		return p.parseRegisterOperand()
	default:
		return p.parseLabelOperand()
	}
}

// parseHiLoOperand parses "%hi(symbol)" and "%lo(symbol)".
func (p *Parser) parseHiLoOperand() Operand {
	raw := "%"
	p.advance() // consume '%'
	kind := strings.ToLower(p.cur.Literal)
	raw += p.cur.Literal
	p.advance()
	if p.cur.Type == lexer.TokenLParen {
		raw += "("
		p.advance()
	}
	sym := p.cur.Literal
	raw += sym
	p.advance()
	if p.cur.Type == lexer.TokenRParen {
		raw += ")"
		p.advance()
	}
	switch kind {
	case "hi":
		return Operand{Kind: OperandHi, Symbol: sym, Raw: raw}
	case "lo":
		return Operand{Kind: OperandLo, Symbol: sym, Raw: raw}
	default:
		return Operand{Kind: OperandLabel, Symbol: raw, Raw: raw}
	}
}

// parseNumericOrMemoryOperand parses a signed integer literal, or — if a
// '(' immediately follows it — the "imm(reg)" memory form.
func (p *Parser) parseNumericOrMemoryOperand() Operand {
	lit := ""
	if p.cur.Type == lexer.TokenMinus {
		lit = "-"
		p.advance()
	}
	lit += p.cur.Literal
	p.advance()

	if p.cur.Type != lexer.TokenLParen {
		return Operand{Kind: OperandImmediate, Literal: lit, Raw: lit}
	}

	p.advance() // consume '('
	base := p.cur.Literal
	p.advance()
	raw := lit + "(" + base + ")"
	if p.cur.Type == lexer.TokenRParen {
		p.advance()
	}
	return Operand{Kind: OperandMemory, Mem: &MemOperand{Base: strings.ToLower(base), Offset: lit}, Raw: raw}
}

func (p *Parser) parseRegisterOperand() Operand {
	lit := p.cur.Literal
	p.advance()
	return Operand{Kind: OperandRegister, Register: strings.ToLower(lit), Raw: lit}
}

func (p *Parser) parseLabelOperand() Operand {
	lit := p.cur.Literal
	p.advance()
	return Operand{Kind: OperandLabel, Symbol: lit, Raw: lit}
}
