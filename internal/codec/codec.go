// Package codec serializes parsed documents to a compact binary cache
// format: a fixed magic string, a little-endian format version, and a
// msgpack-encoded body. The cache lets repeat invocations skip XML parsing
// and reference linking entirely.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vk/slxkit/internal/model"
)

const magic = "SLXKITDOC"

// Version is the current cache format version. Decoding rejects any other
// version rather than guessing at compatibility.
const Version uint32 = 1

// ErrBadMagic reports data that is not a cache document at all.
var ErrBadMagic = errors.New("not a cache document (bad magic)")

// Document is the unit of serialization: a fully linked system tree.
type Document struct {
	System *model.System
}

// Encode serializes doc.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	if err := binary.Write(&buf, binary.LittleEndian, Version); err != nil {
		return nil, fmt.Errorf("write version: %w", err)
	}
	body, err := msgpack.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document body: %w", err)
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// Decode deserializes a document produced by Encode.
func Decode(data []byte) (*Document, error) {
	if len(data) < len(magic)+4 {
		return nil, ErrBadMagic
	}
	if string(data[:len(magic)]) != magic {
		return nil, ErrBadMagic
	}
	version := binary.LittleEndian.Uint32(data[len(magic) : len(magic)+4])
	if version != Version {
		return nil, fmt.Errorf("unsupported cache version %d (want %d)", version, Version)
	}
	doc := &Document{}
	if err := msgpack.Unmarshal(data[len(magic)+4:], doc); err != nil {
		return nil, fmt.Errorf("decode document body: %w", err)
	}
	return doc, nil
}

// SaveFile writes the encoded document to path.
func SaveFile(doc *Document, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadFile reads and decodes the document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
