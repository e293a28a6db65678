// Package effect describes what special pieces do when they are cleared,
// alone or in combination with a swap partner. It only holds descriptors;
// the game package runs them.
package effect

import (
	"fmt"

	"github.com/domino14/tilecrush/piece"
)

// Kind is the shape of an effect's clear sequence.
type Kind uint8

const (
	None Kind = iota
	// Detonate clears the trigger piece, which then runs its own effect.
	Detonate
	Line
	Cross
	Area
	ColorSweep
	ChainedSweep
	BoardSweep
)

var kindNames = [...]string{"none", "detonate", "line", "cross", "area", "colorsweep", "chainedsweep", "boardsweep"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Origin is the cell an effect centers on.
type Origin uint8

const (
	AtTrigger Origin = iota
	// AtFirst is where the first swapped piece ended up.
	AtFirst
	// AtFirstPrior is where the first swapped piece was before the swap.
	AtFirstPrior
)

// ColorSource picks the target color of a sweep.
type ColorSource uint8

const (
	NoColor ColorSource = iota
	PartnerColor
	MostFrequentColor
	RandomColor
)

// A Variant fully describes one clear sequence.
type Variant struct {
	Kind Kind
	// Horizontal and Vertical select the directions of a Line.
	Horizontal, Vertical bool
	// Radius is the half-size of an Area, or the half-width of the band of
	// rows and columns a Cross clears.
	Radius int
	Origin Origin
	Color  ColorSource
	// Spawn is the special every targeted cell of a ChainedSweep becomes.
	// RowClear stands for a rocket of random orientation.
	Spawn piece.PieceType
	// Promote, when not Normal, is a special spawned at the origin that
	// carries the effect.
	Promote piece.PieceType
	// ConsumeTrigger and ConsumePartner remove the swapped pieces without
	// running their own effects.
	ConsumeTrigger, ConsumePartner bool
}

// Promotes reports whether v spawns a piece at its origin.
func (v Variant) Promotes() bool {
	return v.Promote != piece.Normal
}

// Staggered is false for effects that clear all their cells at once.
func (v Variant) Staggered() bool {
	return v.Kind != Area
}

type pair struct {
	trigger, partner piece.PieceType
}

var single = map[piece.PieceType]Variant{
	piece.RowClear:    {Kind: Line, Horizontal: true},
	piece.ColumnClear: {Kind: Line, Vertical: true},
	piece.SuperRocket: {Kind: Cross},
	piece.Bomb:        {Kind: Area, Radius: 1},
	piece.SuperBomb:   {Kind: Area, Radius: 2},
	piece.Rainbow:     {Kind: ColorSweep, Color: RandomColor},
}

var combos = map[pair]Variant{}

func register(trigger, partner piece.PieceType, v Variant) {
	combos[pair{trigger, partner}] = v
}

func init() {
	rockets := []piece.PieceType{piece.RowClear, piece.ColumnClear}

	register(piece.Rainbow, piece.Normal, Variant{
		Kind: ColorSweep, Color: PartnerColor, ConsumeTrigger: true,
	})
	for _, r := range rockets {
		register(piece.Rainbow, r, Variant{
			Kind: ChainedSweep, Color: MostFrequentColor, Spawn: piece.RowClear, ConsumeTrigger: true,
		})
	}
	register(piece.Rainbow, piece.Bomb, Variant{
		Kind: ChainedSweep, Color: MostFrequentColor, Spawn: piece.Bomb, ConsumeTrigger: true,
	})
	register(piece.Rainbow, piece.Rainbow, Variant{
		Kind: BoardSweep, ConsumeTrigger: true, ConsumePartner: true,
	})

	for _, r := range rockets {
		register(r, piece.Normal, Variant{Kind: Detonate})
		for _, r2 := range rockets {
			register(r, r2, Variant{
				Kind: Cross, Origin: AtFirst, ConsumeTrigger: true, ConsumePartner: true,
			})
		}
		// swaps always put the rocket first, so there is no bomb-led entry
		register(r, piece.Bomb, Variant{
			Kind: Cross, Radius: 1, Origin: AtFirst, Promote: piece.SuperRocket,
			ConsumeTrigger: true, ConsumePartner: true,
		})
	}

	register(piece.Bomb, piece.Normal, Variant{Kind: Detonate})
	register(piece.Bomb, piece.Bomb, Variant{
		Kind: Area, Radius: 2, Origin: AtFirstPrior, Promote: piece.SuperBomb,
		ConsumeTrigger: true, ConsumePartner: true,
	})
}

// ForPiece is the effect a special runs when it is cleared on its own.
func ForPiece(t piece.PieceType) (Variant, bool) {
	v, ok := single[t]
	return v, ok
}

// ForCombination is the effect of swapping a trigger special with a
// partner. Unknown combinations fall back to detonating the trigger.
func ForCombination(trigger, partner piece.PieceType) (Variant, bool) {
	if v, ok := combos[pair{trigger, partner}]; ok {
		return v, true
	}
	if _, ok := single[trigger]; ok {
		return Variant{Kind: Detonate}, true
	}
	return Variant{}, false
}
