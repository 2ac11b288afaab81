// Package decode turns one XML system or chart document into the typed model
// without following cross-file references. Decoding is lenient everywhere the
// format allows it: unknown elements and attributes are logged and skipped,
// malformed endpoints drop to an absent optional, and only a syntactically
// broken document or a missing root element is an error.
package decode
