// Package source abstracts "read a text file" and "list files under a
// directory" over either a real filesystem or a single zip archive, so the
// parser is written once against the ContentSource interface.
package source

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ContentSource reads logical paths. Implementations are stateful and owned
// by a single parser instance; they are not safe for concurrent use.
type ContentSource interface {
	// ReadToString returns the text content of the file at path. A missing
	// or unreadable file is an error.
	ReadToString(path string) (string, error)

	// ListDir returns the full paths of files under path. Entries may be at
	// any depth below the directory; callers filter by filename. A
	// directory that does not exist yields an empty list, not an error,
	// when the concept does not apply to the backing store.
	ListDir(path string) ([]string, error)
}

// FSSource reads directly from the filesystem.
type FSSource struct{}

// ReadToString implements ContentSource.
func (FSSource) ReadToString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// ListDir implements ContentSource. Only direct children that are regular
// files are returned.
func (FSSource) ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	return files, nil
}

// ZipSource reads from the entries of an open zip archive. Logical paths are
// matched against entry names after stripping any leading "./" or "/".
type ZipSource struct {
	zr *zip.Reader
}

// NewZipSource wraps an open zip reader.
func NewZipSource(zr *zip.Reader) *ZipSource {
	return &ZipSource{zr: zr}
}

// normalize strips the leading "./" and "/" forms used interchangeably by
// tools that produce these archives.
func normalize(path string) string {
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}

// ReadToString implements ContentSource.
func (s *ZipSource) ReadToString(path string) (string, error) {
	name := normalize(path)
	for _, f := range s.zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s in archive: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("read %s from archive: %w", name, err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("file %s not found in archive", name)
}

// ListDir implements ContentSource. All entries under the prefix are
// returned regardless of depth; directory placeholders are skipped.
func (s *ZipSource) ListDir(path string) ([]string, error) {
	prefix := normalize(path)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	var files []string
	for _, f := range s.zr.File {
		if strings.HasPrefix(f.Name, prefix) && !strings.HasSuffix(f.Name, "/") {
			files = append(files, f.Name)
		}
	}
	return files, nil
}
