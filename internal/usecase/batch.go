package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gmockgen/internal/adapter/cache"
	"gmockgen/internal/adapter/fs"
	"gmockgen/internal/port"
)

// BatchUseCase generates mock headers for every header under a directory
// tree, writing one mock_<name>.h per input header.
type BatchUseCase struct {
	parser    port.DeclParser
	walker    *fs.Walker
	generator *GenerateUseCase
	cache     port.GenCache // optional; nil disables freshness checks
}

// NewBatchUseCase creates a batch generator. cache may be nil.
func NewBatchUseCase(parser port.DeclParser, walker *fs.Walker, generator *GenerateUseCase, genCache port.GenCache) *BatchUseCase {
	return &BatchUseCase{
		parser:    parser,
		walker:    walker,
		generator: generator,
		cache:     genCache,
	}
}

// BatchResult contains the results of a batch run.
type BatchResult struct {
	HeadersScanned int
	FilesGenerated int
	FilesSkipped   int // unchanged since the last run, or no classes found
	ClassesMocked  int
	Errors         []string
}

// ProgressFunc reports batch progress. It is called once per header and a
// final time with processed == total.
type ProgressFunc func(processed, total int, currentFile string)

// Run walks root, generates mocks for each matched header into outputDir,
// and returns aggregate results. Per-header failures are recorded and do
// not stop the run.
func (u *BatchUseCase) Run(root, outputDir string, progress ProgressFunc) (*BatchResult, error) {
	headers, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	result := &BatchResult{HeadersScanned: len(headers)}
	if len(headers) == 0 {
		return result, nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Headers in different directories, or with different extensions, can
	// map to the same mock file name; the first one wins.
	seen := make(map[string]string)

	for i, header := range headers {
		if progress != nil {
			progress(i, len(headers), header)
		}

		source, err := fs.ReadFile(header)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to read %s: %v", header, err))
			continue
		}

		hash := cache.HashSource(source)
		outPath := filepath.Join(outputDir, MockFileName(header))

		if prev, ok := seen[outPath]; ok {
			result.Errors = append(result.Errors,
				fmt.Sprintf("skipping %s: %s already generated from %s", header, filepath.Base(outPath), prev))
			result.FilesSkipped++
			continue
		}
		seen[outPath] = header

		if u.cache != nil {
			prevOut, fresh, err := u.cache.Lookup(header, hash)
			if err == nil && fresh && prevOut == outPath && fileExists(outPath) {
				result.FilesSkipped++
				continue
			}
		}

		classes, err := u.parser.Parse(source, header)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to parse %s: %v", header, err))
			continue
		}

		gen := u.generator.Generate(source, classes, nil)
		if len(gen.Matched) == 0 {
			result.FilesSkipped++
			continue
		}

		text := "// Generated by gmockgen from " + filepath.Base(header) + ".\n\n" + gen.Text() + "\n"
		if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to write %s: %v", outPath, err))
			continue
		}

		result.FilesGenerated++
		result.ClassesMocked += len(gen.Matched)

		if u.cache != nil {
			if err := u.cache.Record(header, hash, outPath); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to update cache for %s: %v", header, err))
			}
		}
	}

	if progress != nil {
		progress(len(headers), len(headers), "")
	}
	return result, nil
}

// MockFileName returns the output file name for a header: mock_<base>.h.
func MockFileName(header string) string {
	base := filepath.Base(header)
	ext := filepath.Ext(base)
	return "mock_" + strings.TrimSuffix(base, ext) + ".h"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
