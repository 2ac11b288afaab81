// Package model defines the typed in-memory representation of a block-diagram
// model: systems, blocks, lines, annotations, masks, charts, and the archive
// container. Every type preserves enough raw data (insertion-ordered property
// maps, recorded child element order, raw attribute lists) that the XML source
// files can be regenerated byte-for-byte from an unmodified model.
package model
