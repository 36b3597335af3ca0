package ai

// Tunable constants for the decision rule. Their structure (which terms
// exist, how they combine) is a correctness requirement; their exact
// magnitudes are behavioral tunables, not a correctness requirement.
const (
	defaultRolloutSamples = 24

	weightThreatImmediate   = 0.06
	weightFeedPenalty       = 0.22
	weightJokerDiscard      = 0.08
	weightComposition       = 0.10
	weightUncertainty       = 0.04
	baseResetBonus          = 15.0
	recentDiscardWindow     = 3
)

// feed-penalty sub-terms, used by feedPenalty.
const (
	feedBaseLowValue   = 1.5 // card value <= 3
	feedBaseMidValue   = 1.0 // card value <= 5
	feedBaseHighValue  = 0.2 // everything else
	feedBaseJoker      = 4.0
	feedKnownRank      = 1.3
	feedAdjacentKnown  = 0.8
	feedCollectedRank  = 2.0
	feedAdjacentCollec = 1.5
	feedBridge         = 2.5
	feedRecentDiscard  = -0.6
)

// Yaniv-declaration threshold table, indexed by hand value 0..5.
var yanivThreshold = [6]float64{0.60, 0.55, 0.45, 0.32, 0.20, 0.12}
