// Package archive reads and writes the zip container format. System XML
// entries are decoded into typed models and regenerated on write; every other
// entry is carried verbatim, so an unmodified archive round-trips exactly:
// same entry order, same per-entry compression method, same bytes.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/slxkit/internal/decode"
	"github.com/vk/slxkit/internal/generate"
	"github.com/vk/slxkit/internal/model"
)

// isSystemXML reports whether an entry path names a parseable system file.
// Only direct children of simulink/systems/ qualify; files in deeper
// subdirectories are preserved raw.
func isSystemXML(path string) bool {
	normalized := strings.TrimPrefix(path, "./")
	normalized = strings.TrimPrefix(normalized, "/")
	rest, ok := strings.CutPrefix(normalized, "simulink/systems/")
	if !ok {
		return false
	}
	return strings.HasPrefix(rest, "system_") &&
		strings.HasSuffix(rest, ".xml") &&
		!strings.Contains(rest, "/")
}

// Read decodes an archive from r. System entries are shallow-decoded; their
// cross-file references stay unresolved so the archive can be regenerated
// without duplicating subsystem content.
func Read(ctx context.Context, r io.ReaderAt, size int64) (*model.Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	arch := &model.Archive{Entries: make([]*model.Entry, 0, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in archive: %w", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s from archive: %w", f.Name, err)
		}
		entry := &model.Entry{
			Path:       f.Name,
			Compressed: f.Method == zip.Deflate,
		}
		if isSystemXML(f.Name) {
			sys, err := decode.SystemText(ctx, string(raw))
			if err != nil {
				return nil, fmt.Errorf("decode %s: %w", f.Name, err)
			}
			entry.System = sys
		} else {
			entry.Raw = raw
		}
		arch.Entries = append(arch.Entries, entry)
	}
	return arch, nil
}

// ReadFile decodes the archive file at path.
func ReadFile(ctx context.Context, path string) (*model.Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return Read(ctx, f, info.Size())
}

// Write encodes the archive to w. System entries are regenerated from their
// models; raw entries are copied through. Entry order and the stored/deflated
// choice recorded at read time are reproduced.
func Write(arch *model.Archive, w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, entry := range arch.Entries {
		header := &zip.FileHeader{Name: entry.Path, Method: zip.Store}
		if entry.Compressed {
			header.Method = zip.Deflate
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("create %s in archive: %w", entry.Path, err)
		}
		var data []byte
		if entry.System != nil {
			data = []byte(generate.SystemXML(entry.System))
		} else {
			data = entry.Raw
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("write %s to archive: %w", entry.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

// WriteFile encodes the archive to a file at path.
func WriteFile(arch *model.Archive, path string) error {
	var buf bytes.Buffer
	if err := Write(arch, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
