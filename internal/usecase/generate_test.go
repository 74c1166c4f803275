package usecase

import (
	"strings"
	"testing"

	"gmockgen/internal/adapter/cppast"
	"gmockgen/internal/domain"
)

func generate(t *testing.T, source string, mode domain.Mode, want ...string) *GenerateResult {
	t.Helper()
	classes, err := cppast.Parse(source, "test.h")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	gen := NewGenerateUseCase(mode, 2, "", "")
	return gen.Generate(source, classes, want)
}

func countOccurrences(lines []string, substr string) int {
	n := 0
	for _, line := range lines {
		n += strings.Count(line, substr)
	}
	return n
}

func TestGenerate_NoVirtualMethodsOmitsPublicLabel(t *testing.T) {
	res := generate(t, "class Plain { int x_; };", domain.ModeMock)

	text := res.Text()
	if !strings.Contains(text, "class MockPlain : public Plain {") {
		t.Errorf("expected class prolog, got:\n%s", text)
	}
	if !strings.Contains(text, "};") {
		t.Errorf("expected class epilog, got:\n%s", text)
	}
	if strings.Contains(text, "public:") {
		t.Errorf("expected no visibility label, got:\n%s", text)
	}
}

func TestGenerate_PureVirtualArities(t *testing.T) {
	source := `
class Shape {
 public:
  virtual void A() = 0;
  virtual int B(int x) = 0;
  virtual bool C(int x, float y) = 0;
};
`
	res := generate(t, source, domain.ModeMock)

	if got := countOccurrences(res.Lines, "MOCK_"); got != 3 {
		t.Fatalf("expected exactly 3 mock macros, got %d:\n%s", got, res.Text())
	}
	for _, want := range []string{"MOCK_METHOD0(A,", "MOCK_METHOD1(B,", "MOCK_METHOD2(C,"} {
		if countOccurrences(res.Lines, want) != 1 {
			t.Errorf("expected %q once, got:\n%s", want, res.Text())
		}
	}
}

func TestGenerate_ConstSelectsConstMacro(t *testing.T) {
	source := `
class Q {
 public:
  virtual int Size() const;
  virtual void Clear();
};
`
	res := generate(t, source, domain.ModeMock)

	if countOccurrences(res.Lines, "MOCK_CONST_METHOD0(Size,") != 1 {
		t.Errorf("expected const macro for Size, got:\n%s", res.Text())
	}
	if countOccurrences(res.Lines, "MOCK_METHOD0(Clear,") != 1 {
		t.Errorf("expected non-const macro for Clear, got:\n%s", res.Text())
	}
	if countOccurrences(res.Lines, "MOCK_CONST_METHOD0(Clear,") != 0 {
		t.Errorf("Clear must not use the const macro:\n%s", res.Text())
	}
}

func TestGenerate_MultiArgTemplateReturnWarns(t *testing.T) {
	source := `
class T {
 public:
  virtual std::pair<int, bool> Get() = 0;
};
`
	res := generate(t, source, domain.ModeMock)

	text := res.Text()
	if !strings.Contains(text, "// The following line won't really compile") {
		t.Errorf("expected inline warning comment, got:\n%s", text)
	}
	if !strings.Contains(text, "typedef") {
		t.Errorf("warning should suggest a typedef, got:\n%s", text)
	}
	if !strings.Contains(text, "std::pair<int, bool>()") {
		t.Errorf("expected reconstructed return type, got:\n%s", text)
	}
}

func TestGenerate_MissingRequestedClass(t *testing.T) {
	source := "class A { public: virtual void F(); };"

	res := generate(t, source, domain.ModeMock, "A", "Zed")
	if len(res.Missing) != 1 || res.Missing[0] != "Zed" {
		t.Errorf("expected Missing=[Zed], got %v", res.Missing)
	}
	if len(res.Matched) != 1 || res.Matched[0] != "A" {
		t.Errorf("expected A to still generate, got %v", res.Matched)
	}
	if !strings.Contains(res.Text(), "class MockA : public A {") {
		t.Errorf("expected generated output for A, got:\n%s", res.Text())
	}

	res = generate(t, source, domain.ModeMock, "Zed")
	if len(res.Lines) != 0 {
		t.Errorf("expected no output for unknown class, got:\n%s", res.Text())
	}
	if len(res.Missing) != 1 || res.Missing[0] != "Zed" {
		t.Errorf("expected Missing=[Zed], got %v", res.Missing)
	}
}

func TestGenerate_UnfilteredProcessesAllNonEmptyClasses(t *testing.T) {
	source := `
class A { public: virtual void FA(); };
class Empty {};
class B { int x_; };
`
	res := generate(t, source, domain.ModeMock)

	if len(res.Matched) != 2 || res.Matched[0] != "A" || res.Matched[1] != "B" {
		t.Errorf("expected Matched=[A B], got %v", res.Matched)
	}
	if strings.Contains(res.Text(), "MockEmpty") {
		t.Errorf("bodyless class must be skipped:\n%s", res.Text())
	}
}

func TestGenerate_ArgsReconstructedFromSource(t *testing.T) {
	source := `
class S {
 public:
  virtual void Configure(int width,
                         int height,  // pixels
                         const std::string& title);
};
`
	res := generate(t, source, domain.ModeMock)

	want := "void(int width, int height, const std::string& title));"
	if countOccurrences(res.Lines, want) != 1 {
		t.Errorf("expected collapsed parameter text %q, got:\n%s", want, res.Text())
	}
}

func TestGenerate_NamespaceWrapping(t *testing.T) {
	source := `
namespace a {
namespace b {
class C { public: virtual void F(); };
}
}
`
	res := generate(t, source, domain.ModeMock)

	text := res.Text()
	for _, want := range []string{
		"namespace a {",
		"namespace b {",
		"class MockC : public C {",
		"}  // namespace b",
		"}  // namespace a",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}
	// Innermost namespace closes first.
	closeB := strings.Index(text, "}  // namespace b")
	closeA := strings.Index(text, "}  // namespace a")
	if closeB > closeA {
		t.Errorf("namespaces must close innermost first:\n%s", text)
	}
}

func TestGenerate_PartialMode(t *testing.T) {
	source := `
class Calc {
 public:
  Calc(int seed);
  virtual ~Calc();
  virtual int Add(int a, int b);
  virtual void Reset();
};
`
	res := generate(t, source, domain.ModePartial)
	text := res.Text()

	for _, want := range []string{
		"class PartialMockCalc : public Calc {",
		"int ParentAdd(int a, int b) { return Calc::Add(a, b); }",
		"void ParentReset() { Calc::Reset(); }",
		"void delegateMethodCallsToParent() {",
		"ON_CALL(*this, Add(_, _)).WillByDefault(Invoke(this, &PartialMockCalc::ParentAdd));",
		"ON_CALL(*this, Reset()).WillByDefault(Invoke(this, &PartialMockCalc::ParentReset));",
		"PartialMockCalc(int seed) :",
		"Calc(seed) {",
		"delegateMethodCallsToParent();",
		"virtual ~PartialMockCalc() {}",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in partial output:\n%s", want, text)
		}
	}

	// Mock macros are still present alongside the wrappers.
	if countOccurrences(res.Lines, "MOCK_METHOD2(Add,") != 1 {
		t.Errorf("expected mock macro for Add:\n%s", text)
	}
}

func TestGenerate_IndentWidth(t *testing.T) {
	source := "class I { public: virtual void F(); };"
	classes, err := cppast.Parse(source, "test.h")
	if err != nil {
		t.Fatal(err)
	}

	gen := NewGenerateUseCase(domain.ModeMock, 4, "", "")
	res := gen.Generate(source, classes, nil)

	if countOccurrences(res.Lines, "    MOCK_METHOD0(F,") != 1 {
		t.Errorf("expected 4-space indent, got:\n%s", res.Text())
	}
	if countOccurrences(res.Lines, "  public:") != 1 {
		t.Errorf("expected half-indent visibility label, got:\n%s", res.Text())
	}
}

func TestMockFileName(t *testing.T) {
	cases := map[string]string{
		"/src/widget.h":   "mock_widget.h",
		"painter.hpp":     "mock_painter.h",
		"a/b/c/thing.hxx": "mock_thing.h",
	}
	for in, want := range cases {
		if got := MockFileName(in); got != want {
			t.Errorf("MockFileName(%q): expected %q, got %q", in, want, got)
		}
	}
}
