package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gmockgen/config"
)

func captureOutput(t *testing.T, fn func()) (string, string) {
	t.Helper()
	oldOut, oldErr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout, os.Stderr = outW, errW

	outCh := make(chan string)
	errCh := make(chan string)
	go func() { b, _ := io.ReadAll(outR); outCh <- string(b) }()
	go func() { b, _ := io.ReadAll(errR); errCh <- string(b) }()

	fn()

	outW.Close()
	errW.Close()
	os.Stdout, os.Stderr = oldOut, oldErr
	return <-outCh, <-errCh
}

func TestRunGenerate_ParseFailureSkipsGeneration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.h")
	source := "class Ok { public: virtual void F(); };\nclass Broken { virtual void G("
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	cfg = config.DefaultConfig()
	stdout, stderr := captureOutput(t, func() {
		if err := runGenerate(generateCmd, []string{path}); err != nil {
			t.Errorf("a parse failure must not be a command error: %v", err)
		}
	})

	if stdout != "" {
		t.Errorf("expected no generated output after a parse failure, got:\n%s", stdout)
	}
	if !strings.Contains(stderr, "broken.h") {
		t.Errorf("expected diagnostic naming the file, got:\n%s", stderr)
	}
}

func TestRunGenerate_UnreadableFileFails(t *testing.T) {
	cfg = config.DefaultConfig()
	err := runGenerate(generateCmd, []string{filepath.Join(t.TempDir(), "missing.h")})
	if err == nil {
		t.Error("expected error for unreadable input file")
	}
}

func TestIndentWidth_EnvOverridesFlag(t *testing.T) {
	generateIndent = 4
	defer func() { generateIndent = 0 }()
	t.Setenv("INDENT", "8")

	if got := indentWidth(2); got != 8 {
		t.Errorf("expected INDENT env to win, got %d", got)
	}
}

func TestIndentWidth_FlagOverridesConfig(t *testing.T) {
	t.Setenv("INDENT", "")
	os.Unsetenv("INDENT")
	generateIndent = 4
	defer func() { generateIndent = 0 }()

	if got := indentWidth(2); got != 4 {
		t.Errorf("expected --indent flag to win over config, got %d", got)
	}
}

func TestIndentWidth_BadEnvWarnsAndFallsBack(t *testing.T) {
	t.Setenv("INDENT", "banana")
	generateIndent = 0

	var got int
	_, stderr := captureOutput(t, func() {
		got = indentWidth(3)
	})

	if got != 3 {
		t.Errorf("expected fallback to configured indent, got %d", got)
	}
	if !strings.Contains(stderr, "Unable to use indent of banana") {
		t.Errorf("expected warning for bad INDENT value, got:\n%s", stderr)
	}
}
