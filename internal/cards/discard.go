package cards

import "sort"

// ValidateDiscard decides whether cs is a legal Yaniv discard:
//
//  1. exactly one card;
//  2. a set — all non-joker cards share rank, any number of jokers, size>=2;
//  3. a run — size>=3, non-joker cards share suit and are strictly
//     increasing with interior gaps fillable by jokers, with any leftover
//     jokers placeable at a legal end.
//
// It returns whether the discard is legal, whether it was validated as a
// run (as opposed to a single or a set), and — when it is a run — the cards
// in play order (jokers interleaved into gaps, leftover jokers at the ends).
// The function is deterministic and side-effect-free: it never mutates cs.
func ValidateDiscard(cs []Card) (legal bool, isRun bool, ordered []Card) {
	switch {
	case len(cs) == 0:
		return false, false, nil
	case len(cs) == 1:
		return true, false, append([]Card(nil), cs...)
	}

	if isValidSet(cs) {
		return true, false, nil
	}

	if ok, run := tryRun(cs); ok {
		return true, true, run
	}

	return false, false, nil
}

func isValidSet(cs []Card) bool {
	rank := -1
	for _, c := range cs {
		if c.IsJoker() {
			continue
		}
		if rank == -1 {
			rank = c.RankIndex()
			continue
		}
		if c.RankIndex() != rank {
			return false
		}
	}
	return true // all-joker or all-same-rank; size>=2 guaranteed by caller
}

func tryRun(cs []Card) (bool, []Card) {
	if len(cs) < 3 {
		return false, nil
	}

	var nonJokers, jokers []Card
	for _, c := range cs {
		if c.IsJoker() {
			jokers = append(jokers, c)
		} else {
			nonJokers = append(nonJokers, c)
		}
	}
	if len(nonJokers) == 0 {
		// Caught by isValidSet already; a pure-joker discard is a set, not a run.
		return false, nil
	}

	suit := nonJokers[0].Suit()
	for _, c := range nonJokers {
		if c.Suit() != suit {
			return false, nil
		}
	}

	sorted := append([]Card(nil), nonJokers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RankIndex() < sorted[j].RankIndex() })

	gapSum := 0
	for i := 1; i < len(sorted); i++ {
		diff := sorted[i].RankIndex() - sorted[i-1].RankIndex()
		if diff == 0 {
			return false, nil // duplicate rank: not strictly increasing
		}
		gapSum += diff - 1
	}

	jokerCount := len(jokers)
	if gapSum > jokerCount {
		return false, nil
	}
	leftover := jokerCount - gapSum

	low := sorted[0].RankIndex()
	high := sorted[len(sorted)-1].RankIndex()
	lowRoom := low - 1
	highRoom := 13 - high
	if leftover > lowRoom+highRoom {
		return false, nil
	}

	// Prefer placing leftover jokers at the low end first, spilling any
	// remainder to the high end. Either placement is equally legal; this
	// choice is made for determinism.
	lowExtra := leftover
	if lowExtra > lowRoom {
		lowExtra = lowRoom
	}
	highExtra := leftover - lowExtra

	jokerIdx := 0
	nextJoker := func() Card {
		c := jokers[jokerIdx]
		jokerIdx++
		return c
	}

	ordered := make([]Card, 0, len(cs))
	for i := 0; i < lowExtra; i++ {
		ordered = append(ordered, nextJoker())
	}
	for i, c := range sorted {
		if i > 0 {
			gap := c.RankIndex() - sorted[i-1].RankIndex() - 1
			for g := 0; g < gap; g++ {
				ordered = append(ordered, nextJoker())
			}
		}
		ordered = append(ordered, c)
	}
	for i := 0; i < highExtra; i++ {
		ordered = append(ordered, nextJoker())
	}

	return true, ordered
}

// RunEndRanks returns the effective low/high rank index (A=1..K=13) that
// the two ends of an ordered run (as returned by ValidateDiscard) occupy,
// even when an end is physically a joker. ok is false if ordered does not
// describe a run of 2+ cards with at least one non-joker anchor.
func RunEndRanks(ordered []Card) (low, high int, suit Suit, ok bool) {
	anchorIdx, anchorRank := -1, 0
	for i, c := range ordered {
		if !c.IsJoker() {
			anchorIdx, anchorRank = i, c.RankIndex()
			suit = c.Suit()
			break
		}
	}
	if anchorIdx == -1 || len(ordered) < 2 {
		return 0, 0, SuitNone, false
	}
	low = anchorRank - anchorIdx
	high = low + len(ordered) - 1
	return low, high, suit, true
}

// PickupOptions returns the legal pickup targets from lastDiscard: the two
// ends of the run if lastDiscard forms one, otherwise every card in it.
func PickupOptions(lastDiscard []Card) []Card {
	if len(lastDiscard) == 0 {
		return nil
	}
	legal, isRun, ordered := ValidateDiscard(lastDiscard)
	if legal && isRun {
		if len(ordered) == 1 {
			return []Card{ordered[0]}
		}
		low, high := ordered[0], ordered[len(ordered)-1]
		if low.Equal(high) {
			return []Card{low}
		}
		return []Card{low, high}
	}
	return append([]Card(nil), lastDiscard...)
}
