package cppast

import (
	"fmt"
	"strings"

	"gmockgen/internal/domain"
)

// Builder walks a token stream and extracts class declarations: names,
// enclosing namespaces, and member function signatures with parameter
// source spans. Function bodies, free functions, and expressions are
// skipped.
type Builder struct {
	source  string
	file    string
	tokens  []Token
	pos     int
	classes []domain.Class
}

// NewBuilder tokenizes source and returns a builder for it. The filename
// is used in error messages only.
func NewBuilder(source, filename string) *Builder {
	lexer := NewLexer(source)
	return &Builder{
		source: source,
		file:   filename,
		tokens: lexer.Tokenize(),
	}
}

// Parse is a convenience wrapper combining NewBuilder and Build.
func Parse(source, filename string) ([]domain.Class, error) {
	return NewBuilder(source, filename).Build()
}

type nsFrame struct {
	name  string
	depth int
}

// Build returns every class declaration found, in source order. It returns
// an error for input too malformed to walk, such as unbalanced braces,
// along with the classes completed before the failure.
func (b *Builder) Build() ([]domain.Class, error) {
	depth := 0
	var frames []nsFrame

	for !b.isAtEnd() {
		switch {
		case b.checkKeyword("namespace"):
			b.advance()
			var names []string
			if b.check(TokenIdent) {
				names = append(names, b.current().Value)
				b.advance()
				for b.checkValue("::") {
					b.advance()
					if b.check(TokenIdent) {
						names = append(names, b.current().Value)
						b.advance()
					}
				}
			}
			if b.checkValue("{") {
				b.advance()
				depth++
				if len(names) == 0 {
					// Anonymous namespace: track the scope, emit no name.
					frames = append(frames, nsFrame{depth: depth})
				}
				for _, n := range names {
					frames = append(frames, nsFrame{name: n, depth: depth})
				}
			} else {
				b.skipTo(";")
			}

		case b.checkKeyword("enum"):
			if err := b.skipEnum(); err != nil {
				return b.classes, err
			}

		case b.checkKeyword("template"):
			b.skipTemplateHeader()

		case b.checkKeyword("class") || b.checkKeyword("struct"):
			if err := b.parseClassDecl(namespacePath(frames)); err != nil {
				return b.classes, err
			}

		case b.checkValue("{"):
			depth++
			b.advance()

		case b.checkValue("}"):
			depth--
			if depth < 0 {
				return b.classes, b.errorf(b.current().Line, "unexpected '}'")
			}
			for len(frames) > 0 && frames[len(frames)-1].depth > depth {
				frames = frames[:len(frames)-1]
			}
			b.advance()

		default:
			b.advance()
		}
	}

	if depth != 0 {
		return b.classes, b.errorf(b.eofLine(), "unexpected end of file, %d unclosed brace(s)", depth)
	}

	return b.classes, nil
}

func namespacePath(frames []nsFrame) []string {
	var path []string
	for _, f := range frames {
		if f.name != "" {
			path = append(path, f.name)
		}
	}
	return path
}

// parseClassDecl consumes a class or struct declaration starting at the
// keyword, through the closing brace of its body. Forward declarations and
// variable declarations using the class keyword are consumed and ignored.
func (b *Builder) parseClassDecl(ns []string) error {
	b.advance() // class or struct

	// The class name is the last identifier before the inheritance clause
	// or body. Intervening identifiers (export macros) are skipped; a
	// trailing contextual `final` is not a name.
	name := ""
	line := b.current().Line
	for b.check(TokenIdent) {
		if b.current().Value == "final" && name != "" {
			b.advance()
			break
		}
		name = b.current().Value
		b.advance()
	}
	if name == "" {
		return nil
	}

	if b.checkValue("<") {
		// Template specialization arguments.
		b.skipAngles()
	}

	// Skip the inheritance clause.
	for !b.isAtEnd() && !b.checkValue("{") && !b.checkValue(";") {
		b.advance()
	}

	if b.checkValue(";") {
		b.advance() // forward declaration or variable declaration
		return nil
	}
	if !b.checkValue("{") {
		return nil
	}
	b.advance()

	cls := domain.Class{
		Name:      name,
		Namespace: append([]string(nil), ns...),
		Line:      line,
	}
	if err := b.parseClassBody(&cls); err != nil {
		return err
	}
	b.classes = append(b.classes, cls)
	return nil
}

func (b *Builder) parseClassBody(cls *domain.Class) error {
	for {
		if b.isAtEnd() {
			return b.errorf(b.eofLine(), "unexpected end of file in class %s", cls.Name)
		}

		switch {
		case b.checkValue("}"):
			b.advance()
			return nil

		case b.checkKeyword("public") || b.checkKeyword("private") || b.checkKeyword("protected"):
			b.advance()
			b.matchValue(":")

		case b.checkKeyword("using") || b.checkKeyword("typedef") || b.checkKeyword("friend"):
			b.skipTo(";")
			cls.MemberCount++

		case b.checkKeyword("enum"):
			if err := b.skipEnum(); err != nil {
				return err
			}
			cls.MemberCount++

		case b.checkKeyword("class") || b.checkKeyword("struct") || b.checkKeyword("union"):
			if err := b.skipNestedType(); err != nil {
				return err
			}
			cls.MemberCount++

		case b.checkKeyword("template"):
			b.skipTemplateHeader()

		default:
			if err := b.parseMember(cls); err != nil {
				return err
			}
		}
	}
}

// parseMember consumes one member declaration: a data member, a method
// declaration, or a method definition with an inline body.
func (b *Builder) parseMember(cls *domain.Class) error {
	startLine := b.current().Line
	var head []Token
	seenOperator := false
	angles := 0

	for {
		if b.isAtEnd() {
			return b.errorf(b.eofLine(), "unexpected end of file in class %s", cls.Name)
		}
		t := b.current()
		if t.Value == ";" && t.Type == TokenPunctuation {
			b.advance()
			if len(head) > 0 {
				cls.MemberCount++
			}
			return nil
		}
		if t.Value == "{" {
			// Anonymous aggregate member or stray block.
			if err := b.skipBalanced("{", "}"); err != nil {
				return err
			}
			cls.MemberCount++
			return nil
		}
		// A '(' inside template angles belongs to the return type, as in
		// std::function<void(int)>.
		if t.Value == "(" && angles == 0 {
			break
		}
		switch t.Value {
		case "<":
			angles++
		case ">":
			if angles > 0 {
				angles--
			}
		case ">>":
			if angles > 1 {
				angles -= 2
			} else if angles > 0 {
				angles--
			}
		}
		if t.Type == TokenKeyword && t.Value == "operator" {
			seenOperator = true
		}
		head = append(head, t)
		b.advance()
	}

	if seenOperator || len(head) == 0 {
		// Operator overloads are not mockable; consume and move on.
		if err := b.skipBalanced("(", ")"); err != nil {
			return err
		}
		if err := b.finishDecl(); err != nil {
			return err
		}
		cls.MemberCount++
		return nil
	}

	var mods domain.Modifier
	rest := head
	for len(rest) > 0 && rest[0].Type == TokenKeyword {
		done := false
		switch rest[0].Value {
		case "virtual":
			mods |= domain.ModVirtual
			rest = rest[1:]
		case "static":
			mods |= domain.ModStatic
			rest = rest[1:]
		case "explicit", "inline", "friend", "mutable":
			rest = rest[1:]
		default:
			done = true
		}
		if done {
			break
		}
	}

	name := ""
	nameIdx := -1
	isDtor := false
	for i, t := range rest {
		if t.Value == "~" && i+1 < len(rest) && rest[i+1].Type == TokenIdent {
			isDtor = true
			name = "~" + rest[i+1].Value
			break
		}
	}
	if !isDtor {
		for i := len(rest) - 1; i >= 0; i-- {
			if rest[i].Type == TokenIdent {
				name = rest[i].Value
				nameIdx = i
				break
			}
		}
	}
	if name == "" {
		// Not a parseable function; treat like an opaque member.
		if err := b.skipBalanced("(", ")"); err != nil {
			return err
		}
		if err := b.finishDecl(); err != nil {
			return err
		}
		cls.MemberCount++
		return nil
	}

	var ret *domain.TypeRef
	switch {
	case isDtor:
		mods |= domain.ModDtor
	case nameIdx == 0 && name == cls.Name:
		mods |= domain.ModCtor
	default:
		ret = parseTypeRef(rest[:nameIdx])
	}

	params, err := b.parseParams(cls.Name)
	if err != nil {
		return err
	}

	// Trailing qualifiers, pure-virtual marker, initializer list, body.
	for {
		if b.isAtEnd() {
			return b.errorf(b.eofLine(), "unexpected end of file in class %s", cls.Name)
		}
		t := b.current()
		if t.Value == ";" {
			b.advance()
			break
		}
		if t.Value == "{" {
			if err := b.skipBalanced("{", "}"); err != nil {
				return err
			}
			break
		}
		switch t.Value {
		case "const":
			mods |= domain.ModConst
			b.advance()
		case "=":
			b.advance()
			if b.checkValue("0") {
				mods |= domain.ModPureVirtual
			}
			b.advance() // 0, default, delete
		case ":":
			// Constructor initializer list.
			for !b.isAtEnd() && !b.checkValue("{") && !b.checkValue(";") {
				b.advance()
			}
		case "(":
			// noexcept(...) or throw(...) argument list.
			if err := b.skipBalanced("(", ")"); err != nil {
				return err
			}
		default:
			b.advance() // override, final, noexcept
		}
	}

	cls.Methods = append(cls.Methods, domain.Method{
		Name:       name,
		Modifiers:  mods,
		ReturnType: ret,
		Params:     params,
		Line:       startLine,
	})
	return nil
}

// parseParams consumes a parenthesized parameter list starting at '('.
// Each parameter records the byte span of its declaration text and, when
// determinable, its name. `(void)` and `()` both yield zero parameters.
func (b *Builder) parseParams(className string) ([]domain.Param, error) {
	if !b.matchValue("(") {
		return nil, b.errorf(b.current().Line, "expected '(' in class %s", className)
	}

	var groups [][]Token
	var group []Token
	parens, angles, brackets := 0, 0, 0

	for {
		if b.isAtEnd() {
			return nil, b.errorf(b.eofLine(), "unexpected end of file in parameter list of class %s", className)
		}
		t := b.current()
		if parens == 0 && angles == 0 && brackets == 0 {
			if t.Value == ")" {
				b.advance()
				if len(group) > 0 {
					groups = append(groups, group)
				}
				break
			}
			if t.Value == "," {
				b.advance()
				if len(group) > 0 {
					groups = append(groups, group)
					group = nil
				}
				continue
			}
		}
		switch t.Value {
		case "(":
			parens++
		case ")":
			parens--
		case "<":
			angles++
		case ">":
			if angles > 0 {
				angles--
			}
		case ">>":
			if angles > 1 {
				angles -= 2
			} else if angles == 1 {
				angles--
			}
		case "[":
			brackets++
		case "]":
			brackets--
		}
		group = append(group, t)
		b.advance()
	}

	if len(groups) == 1 && len(groups[0]) == 1 && groups[0][0].Value == "void" {
		return nil, nil
	}

	var params []domain.Param
	for _, g := range groups {
		params = append(params, domain.Param{
			Name:  paramName(g),
			Start: g[0].Pos,
			End:   g[len(g)-1].End(),
		})
	}
	return params, nil
}

var typeQualifiers = map[string]bool{
	"const": true, "volatile": true, "struct": true, "class": true,
	"enum": true, "typename": true, "mutable": true,
}

// paramName extracts the declared name of a parameter, or "" when the
// parameter is unnamed. This is a heuristic over the token shapes seen in
// declaration headers; it does not validate semantics.
func paramName(toks []Token) string {
	// Ignore a default value.
	for i, t := range toks {
		if t.Value == "=" {
			toks = toks[:i]
			break
		}
	}

	// Ignore trailing array brackets: `int buf[16]` is named buf.
	for len(toks) > 0 && toks[len(toks)-1].Value == "]" {
		depth := 0
		i := len(toks) - 1
		for ; i >= 0; i-- {
			if toks[i].Value == "]" {
				depth++
			} else if toks[i].Value == "[" {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		if i < 0 {
			break
		}
		toks = toks[:i]
	}

	// Function-pointer parameter: the name sits inside the first
	// parenthesized group, e.g. `void (*cb)(int)`.
	hasParen := false
	for _, t := range toks {
		if t.Value == "(" {
			hasParen = true
			break
		}
	}
	if hasParen {
		name := ""
		depth := 0
		for _, t := range toks {
			switch t.Value {
			case "(":
				depth++
			case ")":
				if depth == 1 && name != "" {
					return name
				}
				depth--
			default:
				if depth == 1 && t.Type == TokenIdent {
					name = t.Value
				}
			}
		}
		return ""
	}

	// Otherwise collect the type/name core words outside template
	// nesting, merging :: chains. The last core is the name only when it
	// is an identifier and at least one core precedes it: `Foo bar` is
	// named bar, a bare `const Foo` is unnamed.
	var cores []Token
	angles := 0
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.Value {
		case "<":
			angles++
			continue
		case ">":
			if angles > 0 {
				angles--
			}
			continue
		case ">>":
			if angles > 1 {
				angles -= 2
			} else if angles > 0 {
				angles--
			}
			continue
		case "::":
			// Qualified name: the next identifier extends the previous
			// core rather than starting a new one.
			if angles == 0 && i+1 < len(toks) && len(cores) > 0 {
				i++
			}
			continue
		}
		if angles > 0 {
			continue
		}
		if (t.Type == TokenIdent || t.Type == TokenKeyword) && !typeQualifiers[t.Value] {
			cores = append(cores, t)
		}
	}
	if len(cores) >= 2 && cores[len(cores)-1].Type == TokenIdent {
		return cores[len(cores)-1].Value
	}
	return ""
}

// parseTypeRef builds a return type descriptor from the tokens preceding a
// method name. All words before the final type word become qualifiers, so
// `const unsigned long` renders back as written.
func parseTypeRef(toks []Token) *domain.TypeRef {
	if len(toks) == 0 {
		return nil
	}

	ref := &domain.TypeRef{}
	var units []string

	i := 0
	for i < len(toks) {
		t := toks[i]
		switch {
		case t.Value == "::":
			if len(units) > 0 && i+1 < len(toks) &&
				(toks[i+1].Type == TokenIdent || toks[i+1].Type == TokenKeyword) {
				units[len(units)-1] += "::" + toks[i+1].Value
				i += 2
			} else {
				i++
			}
		case t.Value == "<":
			i = parseTemplateArgs(toks, i, ref)
		case t.Value == "*":
			ref.Pointer = true
			i++
		case t.Value == "&":
			ref.Reference = true
			i++
		case t.Type == TokenIdent || t.Type == TokenKeyword:
			units = append(units, t.Value)
			i++
		default:
			i++
		}
	}

	if len(units) == 0 {
		return nil
	}
	ref.Name = units[len(units)-1]
	ref.Qualifiers = units[:len(units)-1]
	return ref
}

// parseTemplateArgs consumes a single-level `<...>` starting at toks[i]
// and records one TypeRef name per top-level argument. Deeper nesting is
// balanced over but not modeled.
func parseTemplateArgs(toks []Token, i int, ref *domain.TypeRef) int {
	depth := 1
	i++
	var words []string
	flush := func() {
		if len(words) > 0 {
			ref.TemplateArgs = append(ref.TemplateArgs, domain.TypeRef{Name: strings.Join(words, " ")})
			words = nil
		}
	}

	for i < len(toks) && depth > 0 {
		t := toks[i]
		switch t.Value {
		case "<":
			depth++
		case ">":
			depth--
		case ">>":
			depth -= 2
		case ",":
			if depth == 1 {
				flush()
			}
		case "::":
			if depth == 1 && len(words) > 0 && i+1 < len(toks) {
				words[len(words)-1] += "::" + toks[i+1].Value
				i++
			}
		default:
			if depth == 1 && (t.Type == TokenIdent || t.Type == TokenKeyword || t.Type == TokenNumber) {
				words = append(words, t.Value)
			}
		}
		i++
	}
	flush()
	return i
}

// finishDecl consumes the remainder of an uninteresting declaration: up to
// and including a terminating ';', or past an inline body.
func (b *Builder) finishDecl() error {
	for {
		if b.isAtEnd() {
			return b.errorf(b.eofLine(), "unexpected end of file")
		}
		if b.checkValue(";") {
			b.advance()
			return nil
		}
		if b.checkValue("{") {
			return b.skipBalanced("{", "}")
		}
		b.advance()
	}
}

// skipNestedType consumes a nested class/struct/union definition or a
// member declared with an elaborated type specifier.
func (b *Builder) skipNestedType() error {
	for !b.isAtEnd() && !b.checkValue("{") && !b.checkValue(";") {
		b.advance()
	}
	if b.checkValue("{") {
		if err := b.skipBalanced("{", "}"); err != nil {
			return err
		}
	}
	if b.checkValue(";") {
		b.advance()
	}
	return nil
}

// skipEnum consumes an enum or enum class declaration.
func (b *Builder) skipEnum() error {
	b.advance() // enum
	if b.checkKeyword("class") || b.checkKeyword("struct") {
		b.advance()
	}
	return b.skipNestedType()
}

// skipTemplateHeader consumes `template <...>`.
func (b *Builder) skipTemplateHeader() {
	b.advance() // template
	if b.checkValue("<") {
		b.skipAngles()
	}
}

func (b *Builder) skipAngles() {
	depth := 0
	for !b.isAtEnd() {
		switch b.current().Value {
		case "<":
			depth++
		case ">":
			depth--
		case ">>":
			depth -= 2
		}
		b.advance()
		if depth <= 0 {
			return
		}
	}
}

func (b *Builder) skipBalanced(open, close string) error {
	depth := 0
	for !b.isAtEnd() {
		v := b.current().Value
		if v == open {
			depth++
		} else if v == close {
			depth--
		}
		b.advance()
		if depth == 0 {
			return nil
		}
	}
	return b.errorf(b.eofLine(), "unexpected end of file, unbalanced %q", open)
}

func (b *Builder) skipTo(value string) {
	for !b.isAtEnd() {
		if b.checkValue(value) {
			b.advance()
			return
		}
		b.advance()
	}
}

func (b *Builder) errorf(line int, format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %s", b.file, line, fmt.Sprintf(format, args...))
}

func (b *Builder) eofLine() int {
	if len(b.tokens) == 0 {
		return 0
	}
	return b.tokens[len(b.tokens)-1].Line
}

// Token navigation helpers
func (b *Builder) current() Token {
	if b.pos < len(b.tokens) {
		return b.tokens[b.pos]
	}
	return Token{Type: TokenEOF}
}

func (b *Builder) advance() {
	if b.pos < len(b.tokens) {
		b.pos++
	}
}

func (b *Builder) isAtEnd() bool {
	return b.pos >= len(b.tokens) || b.tokens[b.pos].Type == TokenEOF
}

func (b *Builder) check(tokenType TokenType) bool {
	return !b.isAtEnd() && b.current().Type == tokenType
}

func (b *Builder) checkValue(value string) bool {
	return !b.isAtEnd() && b.current().Value == value
}

func (b *Builder) checkKeyword(keyword string) bool {
	return b.check(TokenKeyword) && b.current().Value == keyword
}

func (b *Builder) matchValue(value string) bool {
	if b.checkValue(value) {
		b.advance()
		return true
	}
	return false
}
