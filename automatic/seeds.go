package automatic

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash"
)

var ErrBadSeed = errors.New("seed must be 32 bytes")

// RunSeeds derives the seed of every game in a run from the run ID, so a
// run can be replayed from its ID alone.
func RunSeeds(runID string, n int) [][32]byte {
	seeds := make([][32]byte, n)
	for i := range seeds {
		for j := 0; j < 4; j++ {
			h := xxhash.Sum64String(fmt.Sprintf("%s/%d/%d", runID, i, j))
			binary.LittleEndian.PutUint64(seeds[i][j*8:], h)
		}
	}
	return seeds
}

// PolicySeed derives the seed of the policy's random stream from a game
// seed, so the policy's draws are independent of the board's.
func PolicySeed(seed [32]byte) [32]byte {
	var out [32]byte
	for j := 0; j < 4; j++ {
		h := xxhash.Sum64String(fmt.Sprintf("%s/policy/%d", encodeSeed(seed), j))
		binary.LittleEndian.PutUint64(out[j*8:], h)
	}
	return out
}

func encodeSeed(seed [32]byte) string {
	return base64.RawURLEncoding.EncodeToString(seed[:])
}

func decodeSeed(s string) ([32]byte, error) {
	var seed [32]byte
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return seed, err
	}
	if len(decoded) != len(seed) {
		return seed, fmt.Errorf("%w, got %d", ErrBadSeed, len(decoded))
	}
	copy(seed[:], decoded)
	return seed, nil
}

// SaveSeeds writes one base64 seed per line.
func SaveSeeds(seeds [][32]byte, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating seed file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# tilecrush autoplay seeds (base64 url encoding, 32 bytes each)")
	for _, s := range seeds {
		fmt.Fprintln(w, encodeSeed(s))
	}
	return w.Flush()
}

// LoadSeeds reads a file written by SaveSeeds. Blank lines and lines
// starting with # are skipped.
func LoadSeeds(path string) ([][32]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	var seeds [][32]byte
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		seed, err := decodeSeed(text)
		if err != nil {
			return nil, fmt.Errorf("seed at line %d: %w", line, err)
		}
		seeds = append(seeds, seed)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return seeds, nil
}
