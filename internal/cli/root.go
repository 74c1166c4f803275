package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gmockgen/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "gmockgen",
	Short: "Generate Google Mock classes from C++ headers",
	Long: `gmockgen reads a C++ header, parses its class declarations, and emits
Google Mock boilerplate: one mock class per input class, with every
virtual method replicated as a MOCK_METHOD macro. Partial-mock mode adds
parent-delegating wrappers so mocked methods default to the real
base-class behavior.

Example usage:
  gmockgen generate widget.h            # Mock every class in widget.h
  gmockgen generate -p widget.h Widget  # Partial mock for one class
  gmockgen batch ./include              # Mock headers for a whole tree`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./gmockgen.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
