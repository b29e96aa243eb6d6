package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Candidate is a file discovered for extraction.
type Candidate struct {
	Path string
	Ext  string
	Size int64
}

type DirStats struct {
	Scanned uint32
	Matched uint32
	Failed  uint32
}

type ScanOptions struct {
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> default set
	SkipHidden  bool
}

// Scan walks root and returns the supported files in lexical order. Unreadable
// entries are counted as failures and skipped.
func Scan(root string, opts ScanOptions) ([]Candidate, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var out []Candidate
	var stats DirStats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			stats.Failed++
			return nil
		}
		if opts.SkipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path), opts.AllowedExts) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			stats.Failed++
			return nil
		}
		stats.Matched++
		out = append(out, Candidate{
			Path: path,
			Ext:  strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return out, stats, fmt.Errorf("walk: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, stats, nil
}

// HashFile returns the hex sha256 of the file content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Dedup remembers content hashes so repeated write events for an unchanged
// file are processed once.
type Dedup struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedup() *Dedup {
	return &Dedup{seen: map[string]struct{}{}}
}

// FirstSeen hashes path and reports whether its content is new.
func (d *Dedup) FirstSeen(path string) (bool, error) {
	sum, err := HashFile(path)
	if err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[sum]; ok {
		return false, nil
	}
	d.seen[sum] = struct{}{}
	return true, nil
}
