package game

import (
	"encoding/binary"

	"lukechampine.com/frand"

	"github.com/domino14/tilecrush/match"
)

// Rand is the randomness source the game draws every random choice from.
type Rand = match.Rand

const (
	rngBufSize = 1024
	rngRounds  = 12
)

// NewRand returns a deterministic source for the given seed.
func NewRand(seed [32]byte) *frand.RNG {
	return frand.NewCustom(seed[:], rngBufSize, rngRounds)
}

// SeedFromInt expands a small integer seed, as typed into a shell or a
// config file, into a full seed.
func SeedFromInt(n uint64) [32]byte {
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], n)
	return seed
}
