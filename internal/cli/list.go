package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gmockgen/internal/adapter/cppast"
	"gmockgen/internal/adapter/fs"
)

var listCmd = &cobra.Command{
	Use:   "list <header-file>",
	Short: "List the classes found in a header",
	Long: `Parse a header and print every class declaration found, with its
namespace and the number of virtual methods it declares.

Example:
  gmockgen list widget.h`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	filename := args[0]

	source, err := fs.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	classes, err := cppast.NewParser().Parse(source, filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil
	}

	if len(classes) == 0 {
		fmt.Fprintf(os.Stderr, "No class found in %s\n", filename)
		return nil
	}

	for i := range classes {
		cls := &classes[i]
		name := cls.Name
		if len(cls.Namespace) > 0 {
			name = strings.Join(cls.Namespace, "::") + "::" + name
		}
		virtuals := 0
		for j := range cls.Methods {
			m := &cls.Methods[j]
			if m.IsVirtual() && !m.IsCtorOrDtor() {
				virtuals++
			}
		}
		fmt.Printf("%s:%d: %s (%d virtual method(s))\n", filename, cls.Line, name, virtuals)
	}
	return nil
}
