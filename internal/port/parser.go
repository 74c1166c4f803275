package port

import "gmockgen/internal/domain"

// DeclParser turns C++ source text into a sequence of class declaration
// nodes, or returns an error on input it cannot walk.
type DeclParser interface {
	Parse(source, filename string) ([]domain.Class, error)
}
