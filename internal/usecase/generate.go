package usecase

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gmockgen/internal/domain"
)

// GenerateUseCase renders Google Mock boilerplate for parsed class
// declarations. The generation mode and indentation are fixed at
// construction and threaded through every formatting call; there is no
// ambient mode state.
type GenerateUseCase struct {
	mode          domain.Mode
	indent        int
	mockPrefix    string
	partialPrefix string
}

// NewGenerateUseCase creates a generator for the given mode. indent is the
// number of spaces per level; prefixes name the generated classes.
func NewGenerateUseCase(mode domain.Mode, indent int, mockPrefix, partialPrefix string) *GenerateUseCase {
	if indent <= 0 {
		indent = 2
	}
	if mockPrefix == "" {
		mockPrefix = "Mock"
	}
	if partialPrefix == "" {
		partialPrefix = "PartialMock"
	}
	return &GenerateUseCase{
		mode:          mode,
		indent:        indent,
		mockPrefix:    mockPrefix,
		partialPrefix: partialPrefix,
	}
}

// GenerateResult contains the generated output and per-run diagnostics.
type GenerateResult struct {
	Lines   []string // generated text, one entry per output line
	Matched []string // processed class names, in declaration order
	Missing []string // requested class names absent from the source, sorted
}

// Text returns the generated output as a single string.
func (r *GenerateResult) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Generate renders mock classes for every class with a non-empty body that
// matches the requested names. An empty want list selects all classes.
// source must be the exact text the classes were parsed from; parameter
// declarations are reconstructed from spans into it.
func (u *GenerateUseCase) Generate(source string, classes []domain.Class, want []string) *GenerateResult {
	res := &GenerateResult{}

	wanted := make(map[string]bool, len(want))
	for _, name := range want {
		wanted[name] = true
	}
	processed := make(map[string]bool)

	for i := range classes {
		cls := &classes[i]
		if !cls.HasBody() {
			continue
		}
		if len(wanted) > 0 && !wanted[cls.Name] {
			continue
		}
		processed[cls.Name] = true
		res.Matched = append(res.Matched, cls.Name)
		u.emitClass(res, cls, source)
	}

	for name := range wanted {
		if !processed[name] {
			res.Missing = append(res.Missing, name)
		}
	}
	sort.Strings(res.Missing)

	return res
}

// classParts accumulates the text fragments of one generated class before
// they are flushed together.
type classParts struct {
	methods    []string // mock macro invocations and warning comments
	parents    []string // parent-delegating wrapper definitions
	onCalls    []string // default-delegation registration statements
	ctors      []string // constructor passthrough lines
	dtors      []string // destructor passthrough lines
	hasVirtual bool
}

func (u *GenerateUseCase) emitClass(res *GenerateResult, cls *domain.Class, source string) {
	prefix := u.mockPrefix
	if u.mode == domain.ModePartial {
		prefix = u.partialPrefix
	}
	fullName := prefix + cls.Name

	parts := u.renderMembers(cls, fullName, source)

	for _, ns := range cls.Namespace {
		res.Lines = append(res.Lines, fmt.Sprintf("namespace %s {", ns))
	}
	if len(cls.Namespace) > 0 {
		res.Lines = append(res.Lines, "")
	}

	res.Lines = append(res.Lines, fmt.Sprintf("class %s : public %s {", fullName, cls.Name))
	// No virtual methods means no mock members, so the visibility label
	// is dropped with them.
	if parts.hasVirtual {
		res.Lines = append(res.Lines, strings.Repeat(" ", u.indent/2)+"public:")
	}
	res.Lines = append(res.Lines, parts.methods...)

	if u.mode == domain.ModePartial {
		indent := strings.Repeat(" ", u.indent)
		if len(parts.parents) > 0 {
			res.Lines = append(res.Lines, "")
			res.Lines = append(res.Lines, parts.parents...)
		}
		if len(parts.onCalls) > 0 {
			res.Lines = append(res.Lines, "")
			res.Lines = append(res.Lines, indent+"void delegateMethodCallsToParent() {")
			res.Lines = append(res.Lines, parts.onCalls...)
			res.Lines = append(res.Lines, indent+"}")
		}
		if len(parts.ctors) > 0 {
			res.Lines = append(res.Lines, "")
			res.Lines = append(res.Lines, parts.ctors...)
		}
		if len(parts.dtors) > 0 {
			res.Lines = append(res.Lines, "")
			res.Lines = append(res.Lines, parts.dtors...)
		}
	}

	res.Lines = append(res.Lines, "};")
	res.Lines = append(res.Lines, "")

	for i := len(cls.Namespace) - 1; i >= 0; i-- {
		res.Lines = append(res.Lines, fmt.Sprintf("}  // namespace %s", cls.Namespace[i]))
	}
	if len(cls.Namespace) > 0 {
		res.Lines = append(res.Lines, "")
	}
}

func (u *GenerateUseCase) renderMembers(cls *domain.Class, fullName, source string) *classParts {
	indent := strings.Repeat(" ", u.indent)
	parts := &classParts{}

	for i := range cls.Methods {
		m := &cls.Methods[i]

		if m.IsVirtual() && !m.IsCtorOrDtor() {
			parts.hasVirtual = true
			u.renderMockMethod(parts, m, cls, fullName, source, indent)
		}

		if u.mode != domain.ModePartial {
			continue
		}
		if m.Modifiers&domain.ModCtor != 0 {
			args := argsText(source, m)
			names := strings.Join(paramNames(m), ", ")
			parts.ctors = append(parts.ctors,
				indent+fullName+"("+args+") :",
				indent+indent+cls.Name+"("+names+") {",
				indent+indent+"delegateMethodCallsToParent();",
				indent+"}")
		}
		if m.Modifiers&domain.ModDtor != 0 && m.IsVirtual() {
			parts.dtors = append(parts.dtors, indent+"virtual ~"+fullName+"() {}")
		}
	}

	return parts
}

// renderMockMethod appends one MOCK_[CONST_]METHODn invocation, preceded
// by a warning comment when the return type cannot be expressed inside the
// macro, and collects the partial-mode delegation text.
func (u *GenerateUseCase) renderMockMethod(parts *classParts, m *domain.Method, cls *domain.Class, fullName, source, indent string) {
	constPart := ""
	if m.Modifiers&domain.ModConst != 0 {
		constPart = "CONST_"
	}
	macro := fmt.Sprintf("MOCK_%sMETHOD%d", constPart, len(m.Params))

	returnType, warnings := renderReturnType(m.ReturnType)
	for _, w := range warnings {
		parts.methods = append(parts.methods, indent+w)
	}

	args := argsText(source, m)

	if u.mode == domain.ModePartial {
		// NOTE: delegation does not work with unnamed parameters.
		names := paramNames(m)
		namesJoined := strings.Join(names, ", ")

		parentName := "Parent" + m.Name
		returnStatement := ""
		if returnType != "void" {
			returnStatement = "return "
		}
		parts.parents = append(parts.parents,
			indent+returnType+" "+parentName+"("+args+") { "+
				returnStatement+cls.Name+"::"+m.Name+"("+namesJoined+"); }")

		matchers := strings.TrimSuffix(strings.Repeat("_, ", len(names)), ", ")
		parts.onCalls = append(parts.onCalls,
			indent+indent+"ON_CALL(*this, "+m.Name+"("+matchers+
				")).WillByDefault(Invoke(this, &"+fullName+"::"+parentName+"));")
	}

	parts.methods = append(parts.methods,
		fmt.Sprintf("%s%s(%s,", indent, macro, m.Name),
		fmt.Sprintf("%s%s(%s));", indent+indent+indent, returnType, args))
}

// renderReturnType renders a TypeRef back into C++ source text. A
// multi-argument templated return type cannot appear inside a mock macro
// invocation, so it additionally yields an explanatory comment.
func renderReturnType(ref *domain.TypeRef) (string, []string) {
	if ref == nil {
		return "void", nil
	}

	returnType := ref.Name
	if len(ref.Qualifiers) > 0 {
		returnType = strings.Join(ref.Qualifiers, " ") + " " + returnType
	}

	var warnings []string
	if len(ref.TemplateArgs) > 0 {
		args := make([]string, len(ref.TemplateArgs))
		for i, a := range ref.TemplateArgs {
			args[i] = a.Name
		}
		returnType += "<" + strings.Join(args, ", ") + ">"
		if len(ref.TemplateArgs) > 1 {
			warnings = []string{
				"// The following line won't really compile, as the return",
				"// type has multiple template arguments.  To fix it, use a",
				"// typedef for the return type.",
			}
		}
	}

	if ref.Pointer {
		returnType += "*"
	}
	if ref.Reference {
		returnType += "&"
	}
	return returnType, warnings
}

var (
	lineCommentRe = regexp.MustCompile(`//.*`)
	multiSpaceRe  = regexp.MustCompile(`  +`)
)

// argsText reconstructs the verbatim parameter list from the source span
// covering the first through the last parameter, with // comments stripped
// and newlines collapsed to single spaces.
func argsText(source string, m *domain.Method) string {
	if len(m.Params) == 0 {
		return ""
	}
	start := m.Params[0].Start
	end := m.Params[len(m.Params)-1].End
	if start < 0 || end > len(source) || start >= end {
		return ""
	}
	args := lineCommentRe.ReplaceAllString(source[start:end], "")
	args = strings.ReplaceAll(args, "\n", " ")
	return multiSpaceRe.ReplaceAllString(args, " ")
}

func paramNames(m *domain.Method) []string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return names
}
