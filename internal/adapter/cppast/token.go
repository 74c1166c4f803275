package cppast

// TokenType classifies a lexical token from C++ source.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenNumber
	TokenString
	TokenKeyword
	TokenOperator
	TokenPunctuation
)

// Token is one lexical token. Pos is the byte offset of the token's first
// character in the input, so declaration text can be reconstructed from
// token spans.
type Token struct {
	Type   TokenType
	Value  string
	Pos    int
	Line   int
	Column int
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Pos + len(t.Value)
}
