package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gmockgen/config"
	"gmockgen/internal/adapter/cache"
	"gmockgen/internal/adapter/cppast"
	"gmockgen/internal/adapter/fs"
	"gmockgen/internal/domain"
	"gmockgen/internal/port"
	"gmockgen/internal/usecase"
)

var (
	batchOutput  string
	batchPartial bool
	batchNoCache bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [path]",
	Short: "Generate mock headers for a whole tree",
	Long: `Walk a directory tree, generate a mock_<name>.h for every matched
header, and skip headers whose content is unchanged since the last run.
Include and exclude patterns come from the configuration.

Examples:
  gmockgen batch ./include             # Mocks into ./mocks
  gmockgen batch -o test/mocks ./src   # Custom output directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output directory (default from config)")
	batchCmd.Flags().BoolVarP(&batchPartial, "partial", "p", false, "generate partial mocks")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "regenerate every header")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	outputDir := cfg.Batch.Output
	if batchOutput != "" {
		outputDir = batchOutput
	}
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(path, outputDir)
	}

	mode := domain.ModeMock
	if batchPartial || cfg.Generate.Partial {
		mode = domain.ModePartial
	}

	var genCache port.GenCache
	if cfg.Batch.Cache && !batchNoCache {
		if err := config.EnsureStateDir(path); err != nil {
			return fmt.Errorf("failed to create .gmockgen directory: %w", err)
		}
		c, err := cache.NewBoltCache(config.CacheDBPath(path))
		if err != nil {
			return fmt.Errorf("failed to open generation cache: %w", err)
		}
		defer c.Close()
		genCache = c
	}

	walker := fs.NewWalker(cfg.Batch.Includes, cfg.Batch.Excludes)
	gen := usecase.NewGenerateUseCase(mode, indentWidth(cfg.Generate.Indent),
		cfg.Generate.MockPrefix, cfg.Generate.PartialPrefix)
	batchUC := usecase.NewBatchUseCase(cppast.NewParser(), walker, gen, genCache)

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var initialized bool

	progress := func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if !initialized {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Generating[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
			initialized = true
		}

		bar.Set(processed)
	}

	result, err := batchUC.Run(path, outputDir, progress)
	if err != nil {
		return fmt.Errorf("batch generation failed: %w", err)
	}

	fmt.Printf("\nBatch generation complete:\n")
	fmt.Printf("  Headers scanned: %d\n", result.HeadersScanned)
	fmt.Printf("  Files generated: %d\n", result.FilesGenerated)
	fmt.Printf("  Files skipped:   %d (unchanged or no classes)\n", result.FilesSkipped)
	fmt.Printf("  Classes mocked:  %d\n", result.ClassesMocked)

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	if result.FilesGenerated > 0 {
		fmt.Printf("\nMocks written to: %s\n", outputDir)
	}
	return nil
}
