// Package cache remembers generated output per header so batch runs can
// skip headers whose content has not changed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	bucketHeaders = []byte("headers")
)

// BoltCache is a bbolt-backed generation cache. Keys are header paths;
// values record the content hash and the output file the header produced.
type BoltCache struct {
	db *bbolt.DB
}

type headerEntry struct {
	Hash   string `json:"hash"`
	Output string `json:"output"`
}

func NewBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketHeaders)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &BoltCache{db: db}, nil
}

// HashSource returns the content hash used as the freshness key.
func HashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the recorded output path for the header and whether the
// recorded hash matches contentHash.
func (c *BoltCache) Lookup(headerPath, contentHash string) (string, bool, error) {
	var entry headerEntry
	found := false

	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketHeaders).Get([]byte(headerPath))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	return entry.Output, entry.Hash == contentHash, nil
}

// Record stores the content hash and output path for the header.
func (c *BoltCache) Record(headerPath, contentHash, outputPath string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(headerEntry{Hash: contentHash, Output: outputPath})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketHeaders).Put([]byte(headerPath), data)
	})
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}
