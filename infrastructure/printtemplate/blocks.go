package printtemplate

import (
	"sort"

	"odinpos/infrastructure/apperr"
)

// CloneBlocks copies blocks into a new slice.
func CloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	copy(out, blocks)
	return out
}

// SortByOrder returns a copy of blocks sorted by their order field.
// Renderers go through it instead of trusting slice position.
func SortByOrder(blocks []Block) []Block {
	out := CloneBlocks(blocks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Renumber sets each block's order to its slice index, in place.
func Renumber(blocks []Block) {
	for i := range blocks {
		blocks[i].Order = i
	}
}

// IndexOf returns the slice index of the block with id, or -1.
func IndexOf(blocks []Block, id string) int {
	for i := range blocks {
		if blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// MoveBlock removes the block at from and reinserts it at to, then
// renumbers every block. The input slice is left untouched.
func MoveBlock(blocks []Block, from, to int) ([]Block, error) {
	n := len(blocks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, apperr.Newf(apperr.CodeInvalidArgument, "move %d -> %d out of range for %d blocks", from, to, n).
			WithDetails(map[string]any{"from": from, "to": to, "length": n})
	}

	out := make([]Block, 0, n)
	moved := blocks[from]
	for i := range blocks {
		if i != from {
			out = append(out, blocks[i])
		}
	}
	out = append(out, Block{})
	copy(out[to+1:], out[to:])
	out[to] = moved

	Renumber(out)
	return out, nil
}

// AddBlock appends a default block of kind at the end of the sequence.
func AddBlock(blocks []Block, kind BlockKind) ([]Block, error) {
	if !kind.Valid() {
		return nil, apperr.Newf(apperr.CodeInvalidArgument, "unknown block kind %q", kind)
	}
	b := NewBlock(kind)
	b.Order = len(blocks)
	out := append(CloneBlocks(blocks), b)
	return out, nil
}

// RemoveBlock deletes the block with id and renumbers the rest. Required
// blocks are refused with CodeInvalidOperation and the input is returned
// unchanged alongside the error.
func RemoveBlock(blocks []Block, id string) ([]Block, error) {
	idx := IndexOf(blocks, id)
	if idx < 0 {
		return blocks, apperr.Newf(apperr.CodeNotFound, "block %q not found", id)
	}
	if blocks[idx].Required {
		return blocks, apperr.Newf(apperr.CodeInvalidOperation, "el bloque %q es obligatorio y no se puede eliminar", blocks[idx].Kind.Label()).
			WithDetails(map[string]any{"blockId": id, "kind": blocks[idx].Kind})
	}

	out := make([]Block, 0, len(blocks)-1)
	out = append(out, blocks[:idx]...)
	out = append(out, blocks[idx+1:]...)
	Renumber(out)
	return out, nil
}

// WithFreshIDs returns a copy of blocks where every block has a new id.
func WithFreshIDs(blocks []Block, newID func() string) []Block {
	out := CloneBlocks(blocks)
	for i := range out {
		out[i].ID = newID()
	}
	return out
}
