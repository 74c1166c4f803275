// Package cppast tokenizes C++ headers and builds declaration nodes for
// the classes they contain. It is a declaration-oriented heuristic parser,
// not a general C++ front-end: it understands namespaces, class bodies,
// and member function signatures, and skips everything else.
package cppast

import (
	"strings"
	"unicode"
)

var keywords = map[string]bool{
	"class": true, "struct": true, "union": true, "enum": true,
	"public": true, "private": true, "protected": true,
	"virtual": true, "const": true, "static": true, "volatile": true,
	"mutable": true, "explicit": true, "inline": true, "friend": true,
	"void": true, "int": true, "char": true, "float": true, "double": true,
	"bool": true, "long": true, "short": true, "unsigned": true, "signed": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"return": true, "nullptr": true, "NULL": true, "this": true,
	"template": true, "typename": true, "namespace": true, "using": true,
	"typedef": true, "operator": true, "new": true, "delete": true,
}

// Lexer tokenizes C++ source code.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Tokenize processes the entire input and returns all tokens. Comments and
// preprocessor directives are skipped; the byte offsets of the remaining
// tokens still refer to the original input.
func (l *Lexer) Tokenize() []Token {
	for l.pos < len(l.input) {
		l.skipWhitespaceAndComments()
		if l.pos >= len(l.input) {
			break
		}

		ch := l.input[l.pos]

		// :: must win over : as punctuation.
		if ch == ':' && l.peek() == ':' {
			l.addToken(TokenOperator, "::")
			l.advance()
			l.advance()
			continue
		}

		switch {
		case ch == '"' || ch == '\'':
			l.readString(ch)
		case ch == '#':
			l.skipPreprocessor()
		case unicode.IsLetter(rune(ch)) || ch == '_':
			l.readIdentifier()
		case unicode.IsDigit(rune(ch)):
			l.readNumber()
		case l.isOperator(ch):
			l.readOperator()
		case l.isPunctuation(ch):
			l.addToken(TokenPunctuation, string(ch))
			l.advance()
		default:
			l.advance()
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Pos: l.pos, Line: l.line, Column: l.column})
	return l.tokens
}

func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

func (l *Lexer) peek() byte {
	if l.pos+1 < len(l.input) {
		return l.input[l.pos+1]
	}
	return 0
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else if ch == '/' && l.peek() == '/' {
			// Single-line comment
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		} else if ch == '/' && l.peek() == '*' {
			// Multi-line comment
			l.advance() // skip /
			l.advance() // skip *
			for l.pos < len(l.input)-1 {
				if l.input[l.pos] == '*' && l.peek() == '/' {
					l.advance() // skip *
					l.advance() // skip /
					break
				}
				l.advance()
			}
		} else {
			break
		}
	}
}

func (l *Lexer) skipPreprocessor() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		// Handle line continuation
		if l.input[l.pos] == '\\' && l.peek() == '\n' {
			l.advance()
			l.advance()
			continue
		}
		l.advance()
	}
}

func (l *Lexer) readString(quote byte) {
	startPos := l.pos
	startLine := l.line
	startCol := l.column
	var sb strings.Builder
	sb.WriteByte(quote)
	l.advance() // skip opening quote

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			sb.WriteByte(ch)
			l.advance()
			if l.pos < len(l.input) {
				sb.WriteByte(l.input[l.pos])
				l.advance()
			}
		} else if ch == quote {
			sb.WriteByte(ch)
			l.advance()
			break
		} else if ch == '\n' {
			break // Unterminated string
		} else {
			sb.WriteByte(ch)
			l.advance()
		}
	}

	l.tokens = append(l.tokens, Token{
		Type:   TokenString,
		Value:  sb.String(),
		Pos:    startPos,
		Line:   startLine,
		Column: startCol,
	})
}

func (l *Lexer) readIdentifier() {
	startPos := l.pos
	startLine := l.line
	startCol := l.column

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_' {
			l.advance()
		} else {
			break
		}
	}

	value := l.input[startPos:l.pos]
	tokenType := TokenIdent
	if keywords[value] {
		tokenType = TokenKeyword
	}

	l.tokens = append(l.tokens, Token{
		Type:   tokenType,
		Value:  value,
		Pos:    startPos,
		Line:   startLine,
		Column: startCol,
	})
}

func (l *Lexer) readNumber() {
	startPos := l.pos
	startLine := l.line
	startCol := l.column

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if unicode.IsDigit(rune(ch)) || ch == '.' || ch == 'x' || ch == 'X' ||
			(ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F') ||
			ch == 'l' || ch == 'L' || ch == 'u' || ch == 'U' {
			l.advance()
		} else {
			break
		}
	}

	l.tokens = append(l.tokens, Token{
		Type:   TokenNumber,
		Value:  l.input[startPos:l.pos],
		Pos:    startPos,
		Line:   startLine,
		Column: startCol,
	})
}

func (l *Lexer) isOperator(ch byte) bool {
	return ch == '+' || ch == '-' || ch == '*' || ch == '/' || ch == '=' ||
		ch == '<' || ch == '>' || ch == '!' || ch == '&' || ch == '|' ||
		ch == '^' || ch == '%' || ch == '~'
}

func (l *Lexer) readOperator() {
	startPos := l.pos
	startLine := l.line
	startCol := l.column

	// Handle multi-character operators
	if l.pos+1 < len(l.input) {
		two := l.input[l.pos : l.pos+2]
		if two == "->" || two == "==" || two == "!=" ||
			two == "<=" || two == ">=" || two == "&&" || two == "||" ||
			two == "++" || two == "--" || two == "+=" || two == "-=" ||
			two == "*=" || two == "/=" || two == "<<" || two == ">>" {
			l.advance()
			l.advance()
			l.tokens = append(l.tokens, Token{
				Type:   TokenOperator,
				Value:  two,
				Pos:    startPos,
				Line:   startLine,
				Column: startCol,
			})
			return
		}
	}

	l.advance()
	l.tokens = append(l.tokens, Token{
		Type:   TokenOperator,
		Value:  l.input[startPos:l.pos],
		Pos:    startPos,
		Line:   startLine,
		Column: startCol,
	})
}

func (l *Lexer) isPunctuation(ch byte) bool {
	return ch == '{' || ch == '}' || ch == '(' || ch == ')' ||
		ch == '[' || ch == ']' || ch == ';' || ch == ',' ||
		ch == ':' || ch == '.'
}

func (l *Lexer) addToken(tokenType TokenType, value string) {
	l.tokens = append(l.tokens, Token{
		Type:   tokenType,
		Value:  value,
		Pos:    l.pos,
		Line:   l.line,
		Column: l.column,
	})
}
