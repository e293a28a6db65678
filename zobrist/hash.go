package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/tilecrush/board"
	"github.com/domino14/tilecrush/piece"
)

const bignum = 1<<63 - 2

// slots per cell: one per color for Normal pieces, then one per piece type.
const numSlots = int(piece.MaxColors) + int(piece.NumPieceTypes)

// Zobrist hashes board positions. Empty cells contribute nothing, so a
// board's key is the XOR of the keys of its occupied cells.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	posTable [][]uint64
	hitsSalt uint64

	width, height int
}

func (z *Zobrist) Initialize(width, height int) {
	z.width, z.height = width, height
	z.posTable = make([][]uint64, width*height)
	for i := range z.posTable {
		z.posTable[i] = make([]uint64, numSlots)
		for j := 0; j < numSlots; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	z.hitsSalt = frand.Uint64n(bignum) + 1
}

// https://stackoverflow.com/a/12996028/1737333
func hashUint64(x uint64) uint64 {
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return x
}

func slot(p *piece.Piece) int {
	if p.Type == piece.Normal && p.Color != piece.Any {
		return int(p.Color)
	}
	return int(piece.MaxColors) + int(p.Type)
}

// Piece returns the contribution of p sitting at (x, y). XOR it out of a
// key before a cell changes and XOR the new piece back in afterwards.
func (z *Zobrist) Piece(x, y int, p *piece.Piece) uint64 {
	if p == nil || p.Type == piece.Empty {
		return 0
	}
	i := y*z.width + x
	key := z.posTable[i][slot(p)]
	if p.Type == piece.Obstacle {
		// damaged obstacles are a different position
		key ^= hashUint64(z.hitsSalt ^ uint64(i)<<16 ^ uint64(p.Hits))
	}
	return key
}

// Hash computes the key of every cell of b. b must have the dimensions
// z was initialized with.
func (z *Zobrist) Hash(b *board.Board) uint64 {
	if b.Width() != z.width || b.Height() != z.height {
		panic("zobrist: board dimensions do not match table")
	}
	key := uint64(0)
	for y := 0; y < z.height; y++ {
		for x := 0; x < z.width; x++ {
			key ^= z.Piece(x, y, b.Get(x, y))
		}
	}
	return key
}

// AddSwap updates key for exchanging the pieces currently at p1's and p2's
// coordinates. Applying it twice returns the original key.
func (z *Zobrist) AddSwap(key uint64, p1, p2 *piece.Piece) uint64 {
	key ^= z.Piece(p1.X, p1.Y, p1)
	key ^= z.Piece(p2.X, p2.Y, p2)
	key ^= z.Piece(p2.X, p2.Y, p1)
	key ^= z.Piece(p1.X, p1.Y, p2)
	return key
}
