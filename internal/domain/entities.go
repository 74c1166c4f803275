package domain

// Modifier is a bitmask of declaration modifiers on a method.
type Modifier uint

const (
	ModVirtual Modifier = 1 << iota
	ModPureVirtual
	ModConst
	ModStatic
	ModCtor
	ModDtor
)

// TypeRef describes a return type: leading qualifier words, a possibly
// ::-qualified name, single-level template arguments, and pointer or
// reference suffixes.
type TypeRef struct {
	Name         string
	Qualifiers   []string
	Pointer      bool
	Reference    bool
	TemplateArgs []TypeRef
}

// Param is one entry of a method's parameter list. Start and End are byte
// offsets into the original source text; the verbatim declaration text is
// reconstructed from them. Name is empty for unnamed parameters.
type Param struct {
	Name  string
	Start int
	End   int
}

// Method is a member function declaration.
type Method struct {
	Name       string
	Modifiers  Modifier
	ReturnType *TypeRef
	Params     []Param
	Line       int
}

// IsVirtual reports whether the method participates in dynamic dispatch.
func (m *Method) IsVirtual() bool {
	return m.Modifiers&(ModVirtual|ModPureVirtual) != 0
}

// IsCtorOrDtor reports whether the method is a constructor or destructor.
func (m *Method) IsCtorOrDtor() bool {
	return m.Modifiers&(ModCtor|ModDtor) != 0
}

// Class is a class or struct declaration. Namespace holds the enclosing
// namespace names, outermost first. MemberCount counts non-method member
// declarations, so HasBody distinguishes `class X {};` from `class X;`.
type Class struct {
	Name        string
	Namespace   []string
	Line        int
	Methods     []Method
	MemberCount int
}

// HasBody reports whether the class declared anything between its braces.
func (c *Class) HasBody() bool {
	return len(c.Methods) > 0 || c.MemberCount > 0
}

// Mode selects what kind of mock class the generator emits.
type Mode int

const (
	// ModeMock emits plain MOCK_METHODn declarations.
	ModeMock Mode = iota
	// ModePartial additionally emits parent-delegating wrappers so mocked
	// methods default to the real base-class behavior.
	ModePartial
)

func (m Mode) String() string {
	if m == ModePartial {
		return "partial"
	}
	return "mock"
}
