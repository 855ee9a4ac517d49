package tape

// TokenType represents the type of a token in a scenario script
type TokenType string

const (
	// Special tokens
	TOKEN_EOF     TokenType = "EOF"
	TOKEN_ILLEGAL TokenType = "ILLEGAL"
	TOKEN_NEWLINE TokenType = "NEWLINE"

	// Literals
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"

	// Symbols
	TOKEN_AT TokenType = "AT"

	// Command names lex as TOKEN_COMMAND with the name as literal
	TOKEN_COMMAND TokenType = "COMMAND"

	// Keywords
	TOKEN_AS    TokenType = "as"
	TOKEN_TRUE  TokenType = "true"
	TOKEN_FALSE TokenType = "false"
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsCommand returns true if the token starts a command
func (tt TokenType) IsCommand() bool {
	return tt == TOKEN_COMMAND
}

// IsValue returns true if the token can stand as a bare argument
func (tt TokenType) IsValue() bool {
	switch tt {
	case TOKEN_STRING, TOKEN_NUMBER, TOKEN_DURATION, TOKEN_IDENTIFIER, TOKEN_TRUE, TOKEN_FALSE:
		return true
	}
	return false
}

// KeywordTokenMap maps reserved words to token types
var KeywordTokenMap = map[string]TokenType{
	"as":    TOKEN_AS,
	"true":  TOKEN_TRUE,
	"false": TOKEN_FALSE,
}

// LookupKeyword returns the token type for a word: a command, a keyword, or
// TOKEN_IDENTIFIER.
func LookupKeyword(ident string) TokenType {
	if _, ok := commandSpecs[CommandType(ident)]; ok {
		return TOKEN_COMMAND
	}
	if tt, ok := KeywordTokenMap[ident]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}
