package port

// GenCache remembers which header contents have already produced generated
// output, so batch runs can skip unchanged files.
type GenCache interface {
	// Lookup returns the recorded output path for the header and whether
	// the recorded content hash matches.
	Lookup(headerPath, contentHash string) (outputPath string, fresh bool, err error)

	// Record stores the content hash and output path for the header.
	Record(headerPath, contentHash, outputPath string) error

	Close() error
}
