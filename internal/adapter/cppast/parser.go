package cppast

import "gmockgen/internal/domain"

// Parser adapts the builder to the DeclParser port.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (Parser) Parse(source, filename string) ([]domain.Class, error) {
	return NewBuilder(source, filename).Build()
}
