package tape

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/Gaurav-Gosain/sheetwm/internal/sim"
)

// Parser parses scenario scripts into commands
type Parser struct {
	lexer   *Lexer
	curTok  Token
	peekTok Token
	errors  []string
}

// NewParser creates a new parser from a lexer
func NewParser(l *Lexer) *Parser {
	p := &Parser{
		lexer:  l,
		errors: []string{},
	}
	p.nextToken()
	p.nextToken()
	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lexer.NextToken()
}

// Parse parses the entire script and returns all commands
func (p *Parser) Parse() []Command {
	var commands []Command

	for p.curTok.Type != TOKEN_EOF {
		if p.curTok.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}

		cmd, ok := p.parseCommand()
		if ok {
			commands = append(commands, cmd)
		}
		p.skipToNextLine()
	}

	return commands
}

// parseCommand parses a single command line
func (p *Parser) parseCommand() (Command, bool) {
	if !p.curTok.Type.IsCommand() {
		p.addError(fmt.Sprintf("unexpected token: %s %q", p.curTok.Type, p.curTok.Literal))
		return Command{}, false
	}

	cmd := Command{
		Type:   CommandType(p.curTok.Literal),
		Line:   p.curTok.Line,
		Column: p.curTok.Column,
	}
	p.nextToken()

	if !p.parseDelay(&cmd) {
		return cmd, false
	}

	var ok bool
	switch cmd.Type {
	case CommandType_Map:
		ok = p.parseMap(&cmd)
	case CommandType_Expect:
		ok = p.parseExpect(&cmd)
	default:
		cmd.Args, ok = p.parseArgs(string(cmd.Type), commandSpecs[cmd.Type])
	}
	if !ok {
		return cmd, false
	}

	if cmd.Type == CommandType_Sleep {
		cmd.Delay, _ = ParseDuration(cmd.Args[0])
	}

	if !p.atLineEnd() {
		p.addError(fmt.Sprintf("%s: unexpected %q", cmd.Type, p.curTok.Literal))
		return cmd, false
	}

	cmd.Raw = cmd.String()
	return cmd, true
}

// parseDelay reads an optional @<duration> right after the command name.
func (p *Parser) parseDelay(cmd *Command) bool {
	if p.curTok.Type != TOKEN_AT {
		return true
	}
	p.nextToken()
	if p.curTok.Type != TOKEN_DURATION {
		p.addError("expected duration after @")
		return false
	}
	d, err := ParseDuration(p.curTok.Literal)
	if err != nil {
		p.addError(fmt.Sprintf("invalid duration: %s", p.curTok.Literal))
		return false
	}
	cmd.Delay = d
	p.nextToken()
	return true
}

// parseArgs reads arguments following spec.
func (p *Parser) parseArgs(name string, spec commandSpec) ([]string, bool) {
	args := make([]string, 0, len(spec.args))
	required := len(spec.args) - spec.optional
	for i, kind := range spec.args {
		if p.atLineEnd() {
			if i >= required {
				break
			}
			p.addError(fmt.Sprintf("%s expects %s as argument %d%s", name, kind, i+1, usageHint(spec)))
			return nil, false
		}
		arg, ok := p.parseArg(name, kind)
		if !ok {
			return nil, false
		}
		args = append(args, arg)
	}
	return args, true
}

func usageHint(spec commandSpec) string {
	if spec.usage == "" {
		return ""
	}
	return " (usage: " + spec.usage + ")"
}

// parseArg checks the current token against kind and consumes it.
func (p *Parser) parseArg(name string, kind argKind) (string, bool) {
	tok := p.curTok
	valid := false
	switch kind {
	case argView:
		valid = tok.Type == TOKEN_IDENTIFIER || tok.Type == TOKEN_STRING || isInt(tok)
	case argInt:
		valid = isInt(tok)
	case argText:
		valid = tok.Type.IsValue()
	case argRune:
		valid = tok.Type.IsValue() && utf8.RuneCountInString(tok.Literal) == 1
	case argDuration:
		if tok.Type == TOKEN_DURATION {
			_, err := ParseDuration(tok.Literal)
			valid = err == nil
		}
	case argValue:
		valid = tok.Type.IsValue()
	}
	if !valid {
		p.addError(fmt.Sprintf("%s expects %s, got %s %q", name, kind, tok.Type, tok.Literal))
		return "", false
	}
	p.nextToken()
	return tok.Literal, true
}

func isInt(tok Token) bool {
	if tok.Type != TOKEN_NUMBER {
		return false
	}
	_, err := strconv.Atoi(tok.Literal)
	return err == nil
}

// parseMap parses: Map app [w h] [protocol] [as name]. The arguments are
// normalized to app, w, h, protocol, name with empty strings for defaults.
func (p *Parser) parseMap(cmd *Command) bool {
	app, ok := p.parseArg("Map", argText)
	if !ok {
		return false
	}
	args := []string{app, "", "", "", ""}

	if isInt(p.curTok) {
		size, ok := p.parseArgs("Map", commandSpec{args: []argKind{argInt, argInt}})
		if !ok {
			return false
		}
		args[1], args[2] = size[0], size[1]
	}
	if p.curTok.Type == TOKEN_IDENTIFIER {
		if _, err := sim.ParseProtocol(p.curTok.Literal); err != nil {
			p.addError(fmt.Sprintf("Map: %v", err))
			return false
		}
		args[3] = p.curTok.Literal
		p.nextToken()
	}
	if p.curTok.Type == TOKEN_AS {
		p.nextToken()
		if p.curTok.Type != TOKEN_IDENTIFIER && p.curTok.Type != TOKEN_STRING {
			p.addError("Map expects a name after as")
			return false
		}
		args[4] = p.curTok.Literal
		p.nextToken()
	}

	cmd.Args = trimTrailingEmpty(args)
	return true
}

func trimTrailingEmpty(args []string) []string {
	for len(args) > 1 && args[len(args)-1] == "" {
		args = args[:len(args)-1]
	}
	return args
}

// parseExpect parses: Expect what args...
func (p *Parser) parseExpect(cmd *Command) bool {
	if !p.curTok.Type.IsValue() {
		p.addError("Expect needs something to check")
		return false
	}
	what := Expectation(p.curTok.Literal)
	spec, ok := expectSpecs[what]
	if !ok {
		p.addError(fmt.Sprintf("unknown expectation %q", what))
		return false
	}
	p.nextToken()

	args, ok := p.parseArgs("Expect "+string(what), spec)
	if !ok {
		return false
	}
	cmd.Args = append([]string{string(what)}, args...)
	return true
}

func (p *Parser) atLineEnd() bool {
	return p.curTok.Type == TOKEN_NEWLINE || p.curTok.Type == TOKEN_EOF
}

// skipToNextLine skips tokens until the next newline
func (p *Parser) skipToNextLine() {
	for !p.atLineEnd() {
		p.nextToken()
	}
}

// addError adds an error to the parser's error list
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curTok.Line, msg))
}

// Errors returns the list of parser errors
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseFile parses a script from a string
func ParseFile(content string) ([]Command, []string) {
	l := New(content)
	p := NewParser(l)
	commands := p.Parse()
	return commands, p.Errors()
}
