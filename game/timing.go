package game

import "time"

const (
	// DefaultFillDelay is the time one falling step takes.
	DefaultFillDelay = 150 * time.Millisecond

	SwapTime        = 150 * time.Millisecond
	InvalidSwapWait = 300 * time.Millisecond

	// CellStagger separates two consecutive waves of an effect.
	CellStagger = 80 * time.Millisecond
	SettleDelay = 200 * time.Millisecond
	// BombSettleDelay is longer since a bomb clears everything at once.
	BombSettleDelay = 800 * time.Millisecond

	ActorLifetime = 1500 * time.Millisecond
)

// UpgradeChance is the percent chance that a chained rainbow sweep turns
// an untargeted Normal piece into a special.
const UpgradeChance = 20

// maxSettleSteps bounds Settle. A full 9x9 cascade with chained effects
// takes a few hundred scheduler steps.
const maxSettleSteps = 200000
