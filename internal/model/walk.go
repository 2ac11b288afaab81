package model

import "strings"

// WalkBlocks visits every block in the tree depth-first, including blocks of
// nested subsystems. path holds the names of the enclosing subsystem blocks,
// outermost first.
func (s *System) WalkBlocks(visit func(path []string, b *Block)) {
	var path []string
	s.walkBlocks(&path, visit)
}

func (s *System) walkBlocks(path *[]string, visit func(path []string, b *Block)) {
	for _, b := range s.Blocks {
		visit(*path, b)
		if b.Subsystem != nil {
			*path = append(*path, b.Name)
			b.Subsystem.walkBlocks(path, visit)
			*path = (*path)[:len(*path)-1]
		}
	}
}

// FindBlocksByType returns every block whose Type equals blockType, with the
// slash-joined subsystem path it was found under.
func (s *System) FindBlocksByType(blockType string) []FoundBlock {
	var out []FoundBlock
	s.WalkBlocks(func(path []string, b *Block) {
		if b.Type == blockType {
			out = append(out, FoundBlock{Path: strings.Join(path, "/"), Block: b})
		}
	})
	return out
}

// FoundBlock pairs a block with its subsystem path.
type FoundBlock struct {
	Path  string
	Block *Block
}

// FullPath returns the slash-joined path of b within root, including b's own
// name, or "" when b is not part of the tree.
func (b *Block) FullPath(root *System) string {
	var result string
	root.WalkBlocks(func(path []string, cand *Block) {
		if cand == b {
			if len(path) == 0 {
				result = b.Name
				return
			}
			result = strings.Join(path, "/") + "/" + b.Name
		}
	})
	return result
}
