package match

import "github.com/domino14/tilecrush/piece"

// A Key classifies a swap of two pieces for special-combination dispatch.
type Key uint8

const (
	KeyEmpty Key = iota
	KeyRainbow
	KeyRow
	KeyColumn
	KeyBomb
)

var keyNames = [...]string{"empty", "rainbow", "row", "column", "bomb"}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// takesColor is true for pieces a Rainbow can pair with.
func takesColor(p *piece.Piece) bool {
	return p.Type == piece.Normal || p.Type.IsSpecial()
}

// DetermineKey classifies the swap of a (the piece that was moved) with b.
// The checks are ordered: a Rainbow wins over rockets, which win over
// bombs.
func DetermineKey(a, b *piece.Piece) Key {
	switch {
	case a.Type == piece.Rainbow && !a.BeingCleared() && takesColor(b):
		return KeyRainbow
	case b.Type == piece.Rainbow && !b.BeingCleared() && takesColor(a):
		return KeyRainbow
	case a.Type.IsLineClear():
		return KeyColumn
	case b.Type.IsLineClear():
		return KeyRow
	case a.Type == piece.Bomb || b.Type == piece.Bomb:
		return KeyBomb
	}
	return KeyEmpty
}

// Participants splits a classified swap into the piece whose effect
// drives the combination and its partner. ok is false for KeyEmpty.
func Participants(k Key, a, b *piece.Piece) (trigger, partner *piece.Piece, ok bool) {
	switch k {
	case KeyRainbow:
		if a.Type == piece.Rainbow {
			return a, b, true
		}
		return b, a, true
	case KeyColumn:
		return a, b, true
	case KeyRow:
		return b, a, true
	case KeyBomb:
		if a.Type == piece.Bomb {
			return a, b, true
		}
		return b, a, true
	}
	return nil, nil, false
}
