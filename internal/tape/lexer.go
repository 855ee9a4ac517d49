package tape

import (
	"strings"
	"unicode"
)

// Lexer splits a script into tokens. Newlines are tokens of their own
// because every command ends at the end of its line.
type Lexer struct {
	src  string
	off  int  // offset of ch
	ch   byte // 0 at end of input
	line int
	col  int
}

// New returns a lexer positioned at the first character of src.
func New(src string) *Lexer {
	l := &Lexer{src: src, off: -1, line: 1}
	l.advance()
	return l
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	l.off++
	l.col++
	if l.off >= len(l.src) {
		l.off = len(l.src)
		l.ch = 0
		return
	}
	l.ch = l.src[l.off]
}

func (l *Lexer) peek() byte {
	if l.off+1 >= len(l.src) {
		return 0
	}
	return l.src[l.off+1]
}

// skipBlank skips spaces, tabs, carriage returns and comments up to, but
// not including, the next newline.
func (l *Lexer) skipBlank() {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.advance()
		case '#':
			for l.ch != '\n' && l.ch != 0 {
				l.advance()
			}
		default:
			return
		}
	}
}

// quoted reads a string closed by quote. Strings end at the line end when
// unterminated; \n and \t are the only escapes that change the next byte.
func (l *Lexer) quoted(quote byte) string {
	var sb strings.Builder
	for l.advance(); l.ch != quote && l.ch != 0 && l.ch != '\n'; l.advance() {
		if l.ch != '\\' {
			sb.WriteByte(l.ch)
			continue
		}
		l.advance()
		switch l.ch {
		case 0:
			return sb.String()
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		default:
			sb.WriteByte(l.ch)
		}
	}
	if l.ch == quote {
		l.advance()
	}
	return sb.String()
}

// word reads an identifier. Dashes, dots and plus signs are allowed after
// the first letter, so "visible-groups" and "alt+shift+t" are single words.
func (l *Lexer) word() string {
	start := l.off
	for isIdentifierChar(l.ch) {
		l.advance()
	}
	return l.src[start:l.off]
}

// number reads an optionally signed number. A trailing unit makes it a
// duration: 500ms, 1.5s, 1m30s.
func (l *Lexer) number() (TokenType, string) {
	start := l.off
	if l.ch == '-' {
		l.advance()
	}
	for isDigit(l.ch) || l.ch == '.' {
		l.advance()
	}
	if !unicode.IsLetter(rune(l.ch)) {
		return TOKEN_NUMBER, l.src[start:l.off]
	}
	for unicode.IsLetter(rune(l.ch)) || isDigit(l.ch) || l.ch == '.' {
		l.advance()
	}
	return TOKEN_DURATION, l.src[start:l.off]
}

// NextToken returns the next token; it keeps returning EOF at the end.
func (l *Lexer) NextToken() Token {
	l.skipBlank()
	tok := Token{Line: l.line, Column: l.col}

	switch c := l.ch; {
	case c == 0:
		tok.Type = TOKEN_EOF
	case c == '\n':
		tok.Type, tok.Literal = TOKEN_NEWLINE, "\n"
		l.advance()
	case c == '@':
		tok.Type, tok.Literal = TOKEN_AT, "@"
		l.advance()
	case c == '"' || c == '\'' || c == '`':
		tok.Type, tok.Literal = TOKEN_STRING, l.quoted(c)
	case isDigit(c) || (c == '-' && isDigit(l.peek())):
		tok.Type, tok.Literal = l.number()
	case isIdentifierStart(c):
		tok.Literal = l.word()
		tok.Type = LookupKeyword(tok.Literal)
	default:
		tok.Type, tok.Literal = TOKEN_ILLEGAL, string(c)
		l.advance()
	}
	return tok
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isIdentifierStart(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isIdentifierChar(ch byte) bool {
	return isIdentifierStart(ch) || isDigit(ch) || ch == '-' || ch == '.' || ch == '+'
}

// Tokenize lexes all of src, ending with the EOF token.
func Tokenize(src string) []Token {
	l := New(src)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			return tokens
		}
	}
}
