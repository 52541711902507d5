// Package walker collects prose documents from a directory tree for batch
// analysis.
package walker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DefaultMaxFileSize caps the size of a document sent for analysis.
const DefaultMaxFileSize int64 = 64 << 10

// Document is one file selected for analysis.
type Document struct {
	Path        string // Absolute path on disk.
	RelPath     string // Path relative to the root directory, slash separated.
	Size        int64
	Format      string
	Text        string
	ContentHash string // SHA-256 hex digest of Text.
}

// Config controls Walk.
type Config struct {
	RootDir string
	// Include selects files by glob. When empty, only files with a known
	// prose format are collected.
	Include     []string
	Exclude     []string
	MaxFileSize int64 // 0 means DefaultMaxFileSize.
}

// Walk returns every document under config.RootDir that passes filtering.
// Binary, oversized, non-UTF-8 and gitignored files are skipped, as are
// files whose content duplicates an earlier document.
func Walk(config Config) ([]Document, error) {
	if err := ValidatePatterns(config.Include); err != nil {
		return nil, err
	}
	if err := ValidatePatterns(config.Exclude); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	gitignorePatterns := loadGitignore(filepath.Join(root, ".gitignore"))
	seen := make(map[string]bool)
	var docs []Document

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped rather than aborting the walk.
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && shouldExcludeDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if matchesGitignore(relPath, gitignorePatterns) {
			return nil
		}

		format := DetectFormat(name)
		if len(config.Include) == 0 {
			if format == "" {
				return nil
			}
		} else if !MatchesInclude(relPath, config.Include) {
			return nil
		}
		if MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize || info.Size() == 0 {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil || isBinary(data) {
			return nil
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return nil
		}

		hash := hashText(text)
		if seen[hash] {
			return nil
		}
		seen[hash] = true

		if format == "" {
			format = "Plain text"
		}
		docs = append(docs, Document{
			Path:        path,
			RelPath:     filepath.ToSlash(relPath),
			Size:        info.Size(),
			Format:      format,
			Text:        text,
			ContentHash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return docs, nil
}

// ReadDocument loads a single file as a document, regardless of its
// extension.
func ReadDocument(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("walker: open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, DefaultMaxFileSize+1))
	if err != nil {
		return Document{}, fmt.Errorf("walker: read %s: %w", path, err)
	}
	if int64(len(data)) > DefaultMaxFileSize {
		return Document{}, fmt.Errorf("walker: %s is larger than %d bytes", path, DefaultMaxFileSize)
	}
	if isBinary(data) {
		return Document{}, fmt.Errorf("walker: %s is not a text file", path)
	}

	text := strings.TrimSpace(string(data))
	format := DetectFormat(path)
	if format == "" {
		format = "Plain text"
	}
	return Document{
		Path:        path,
		RelPath:     filepath.ToSlash(filepath.Base(path)),
		Size:        int64(len(data)),
		Format:      format,
		Text:        text,
		ContentHash: hashText(text),
	}, nil
}

// isBinary treats content with NUL bytes or invalid UTF-8 in its first
// 512 bytes as binary.
func isBinary(data []byte) bool {
	head := data
	truncated := len(head) > 512
	if truncated {
		head = head[:512]
	}
	for _, b := range head {
		if b == 0 {
			return true
		}
	}
	if truncated {
		// The cut may have split the last rune.
		for i := 0; i < utf8.UTFMax-1 && !utf8.Valid(head); i++ {
			head = head[:len(head)-1]
		}
	}
	return !utf8.Valid(head)
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// loadGitignore reads a .gitignore file and returns its non-empty,
// non-comment lines as patterns.
func loadGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesGitignore checks if a relative path matches any gitignore pattern.
func matchesGitignore(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.TrimSuffix(pattern, "/")

		if strings.Contains(pattern, "/") {
			if matched, _ := filepath.Match(pattern, normalized); matched {
				return true
			}
			continue
		}

		// A slash-free pattern matches any path component. Directory-only
		// patterns must not match the file itself.
		parts := strings.Split(normalized, "/")
		for i, part := range parts {
			if dirOnly && i == len(parts)-1 {
				continue
			}
			if matched, _ := filepath.Match(pattern, part); matched {
				return true
			}
		}
	}
	return false
}
