package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gmockgen/internal/adapter/cppast"
	"gmockgen/internal/adapter/fs"
	"gmockgen/internal/domain"
	"gmockgen/internal/usecase"
)

var (
	generatePartial bool
	generateIndent  int
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] <header-file> [ClassName]...",
	Short: "Generate mock classes for a header",
	Long: `Read a C++ header and write Google Mock classes for the named classes
to standard output. With no class names, every class in the header is
emitted.

Examples:
  gmockgen generate widget.h                  # Mock all classes
  gmockgen generate widget.h Widget Painter   # Mock two classes
  gmockgen generate --partial widget.h Widget # Delegate to real methods`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&generatePartial, "partial", "p", false,
		"generate a partial mock that delegates to the base class by default (methods with unnamed parameters are unsupported)")
	generateCmd.Flags().IntVar(&generateIndent, "indent", 0, "indentation width (default from config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	filename := args[0]
	want := args[1:]

	mode := domain.ModeMock
	if generatePartial || cfg.Generate.Partial {
		mode = domain.ModePartial
	}

	source, err := fs.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	classes, err := cppast.NewParser().Parse(source, filename)
	if err != nil {
		// A broken header is diagnosed, not fatal; nothing is generated.
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil
	}

	gen := usecase.NewGenerateUseCase(mode, indentWidth(cfg.Generate.Indent),
		cfg.Generate.MockPrefix, cfg.Generate.PartialPrefix)
	result := gen.Generate(source, classes, want)

	if len(result.Missing) > 0 {
		fmt.Fprintf(os.Stderr, "Class(es) not found in %s: %s\n",
			filename, strings.Join(result.Missing, ", "))
	} else if len(want) == 0 && len(result.Matched) == 0 {
		fmt.Fprintf(os.Stderr, "No class found in %s\n", filename)
	}

	if len(result.Lines) > 0 {
		fmt.Println(result.Text())
	}
	return nil
}

// indentWidth resolves the indentation width: the INDENT environment
// variable wins, then the --indent flag, then the configured value. A
// non-numeric environment value gets a warning and is ignored.
func indentWidth(configured int) int {
	if env, ok := os.LookupEnv("INDENT"); ok {
		n, err := strconv.Atoi(env)
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Unable to use indent of %s\n", env)
		} else {
			return n
		}
	}
	if generateIndent > 0 {
		return generateIndent
	}
	if configured > 0 {
		return configured
	}
	return 2
}
