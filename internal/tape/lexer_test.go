package tape

import (
	"testing"
)

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "Map with alias",
			input:    `Map term 40 12 as t`,
			expected: []TokenType{TOKEN_COMMAND, TOKEN_IDENTIFIER, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_AS, TOKEN_IDENTIFIER, TOKEN_EOF},
		},
		{
			name:     "Sleep command",
			input:    `Sleep 500ms`,
			expected: []TokenType{TOKEN_COMMAND, TOKEN_DURATION, TOKEN_EOF},
		},
		{
			name:     "Negative numbers",
			input:    `Move t -4 -2`,
			expected: []TokenType{TOKEN_COMMAND, TOKEN_IDENTIFIER, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_EOF},
		},
		{
			name:     "Hyphenated expectation",
			input:    `Expect visible-groups 2`,
			expected: []TokenType{TOKEN_COMMAND, TOKEN_IDENTIFIER, TOKEN_NUMBER, TOKEN_EOF},
		},
		{
			name:     "Key combination",
			input:    `Key alt+shift+t`,
			expected: []TokenType{TOKEN_COMMAND, TOKEN_IDENTIFIER, TOKEN_EOF},
		},
		{
			name:     "Delay modifier",
			input:    `Hide@250ms t`,
			expected: []TokenType{TOKEN_COMMAND, TOKEN_AT, TOKEN_DURATION, TOKEN_IDENTIFIER, TOKEN_EOF},
		},
		{
			name:     "Comment and newline",
			input:    "# setup\nFrame\n",
			expected: []TokenType{TOKEN_NEWLINE, TOKEN_COMMAND, TOKEN_NEWLINE, TOKEN_EOF},
		},
		{
			name:     "Booleans",
			input:    `Set modifier true`,
			expected: []TokenType{TOKEN_COMMAND, TOKEN_IDENTIFIER, TOKEN_TRUE, TOKEN_EOF},
		},
		{
			name:     "Illegal character",
			input:    `Frame ;`,
			expected: []TokenType{TOKEN_COMMAND, TOKEN_ILLEGAL, TOKEN_EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)

			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d: %v", len(tt.expected), len(tokens), tokens)
			}

			for i, expectedType := range tt.expected {
				if tokens[i].Type != expectedType {
					t.Errorf("Token %d: expected %v, got %v", i, expectedType, tokens[i].Type)
				}
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedValue string
	}{
		{
			name:          "Double quoted string",
			input:         `Title t "hello world"`,
			expectedValue: "hello world",
		},
		{
			name:          "Single quoted string",
			input:         `Title t 'hello world'`,
			expectedValue: "hello world",
		},
		{
			name:          "Backtick string",
			input:         "Title t `hello world`",
			expectedValue: "hello world",
		},
		{
			name:          "Escaped quotes",
			input:         `Title t "hello \"world\""`,
			expectedValue: `hello "world"`,
		},
		{
			name:          "Escaped newline",
			input:         `Title t "a\nb"`,
			expectedValue: "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			if len(tokens) < 3 || tokens[2].Type != TOKEN_STRING {
				t.Fatalf("Expected a string token, got %v", tokens)
			}
			if tokens[2].Literal != tt.expectedValue {
				t.Errorf("Expected %q, got %q", tt.expectedValue, tokens[2].Literal)
			}
		})
	}
}

func TestLexerDurations(t *testing.T) {
	for _, input := range []string{"500ms", "1s", "1.5s", "1m30s"} {
		t.Run(input, func(t *testing.T) {
			tokens := Tokenize("Sleep " + input)
			if tokens[1].Type != TOKEN_DURATION || tokens[1].Literal != input {
				t.Errorf("Expected duration %q, got %v %q", input, tokens[1].Type, tokens[1].Literal)
			}
		})
	}
}

func TestLexerLineTracking(t *testing.T) {
	tokens := Tokenize("Frame\n\n  Map term")

	var mapTok Token
	for _, tok := range tokens {
		if tok.Literal == "Map" {
			mapTok = tok
		}
	}
	if mapTok.Line != 3 {
		t.Errorf("Expected Map on line 3, got %d", mapTok.Line)
	}
	if mapTok.Column != 3 {
		t.Errorf("Expected Map at column 3, got %d", mapTok.Column)
	}
}
