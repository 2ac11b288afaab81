package model

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Properties is a string-to-string map that preserves insertion order.
// Property order in the source XML is authoring history, not derivable from
// content, so it must survive a parse/generate round trip.
type Properties struct {
	keys   []string
	values map[string]string
}

// NewProperties returns an empty ordered property map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

// Set inserts a key at the end of the order, or updates the value in place
// if the key is already present.
func (p *Properties) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value for key and whether it is present.
func (p *Properties) Get(key string) (string, bool) {
	if p == nil || p.values == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

// GetDefault returns the value for key, or "" when absent.
func (p *Properties) GetDefault(key string) string {
	v, _ := p.Get(key)
	return v
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Delete removes key, preserving the relative order of the remaining keys.
func (p *Properties) Delete(key string) {
	if p == nil || p.values == nil {
		return
	}
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return p.keys
}

// Clone returns a deep copy.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	out := &Properties{
		keys:   append([]string(nil), p.keys...),
		values: make(map[string]string, len(p.values)),
	}
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether both maps hold the same entries in the same order.
// go-cmp picks this up for structural comparisons in tests.
func (p *Properties) Equal(o *Properties) bool {
	if p.Len() != o.Len() {
		return false
	}
	for i, k := range p.Keys() {
		if o.keys[i] != k || o.values[k] != p.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON renders the map as a JSON object in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores entries in document order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return err
	}
	p.keys = nil
	p.values = make(map[string]string)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		var v string
		if err := dec.Decode(&v); err != nil {
			return err
		}
		p.Set(kt.(string), v)
	}
	_, err := dec.Token() // closing brace
	return err
}

var (
	_ msgpack.CustomEncoder = (*Properties)(nil)
	_ msgpack.CustomDecoder = (*Properties)(nil)
)

// EncodeMsgpack writes the entries as a msgpack map in insertion order.
func (p *Properties) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(p.Len()); err != nil {
		return err
	}
	for _, k := range p.Keys() {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.EncodeString(p.values[k]); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack restores entries in encoded order.
func (p *Properties) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	p.keys = nil
	p.values = make(map[string]string, n)
	for i := 0; i < n; i++ {
		k, err := dec.DecodeString()
		if err != nil {
			return err
		}
		v, err := dec.DecodeString()
		if err != nil {
			return err
		}
		p.Set(k, v)
	}
	return nil
}
