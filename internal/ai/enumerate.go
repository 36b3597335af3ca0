package ai

import "github.com/marianogappa/yaniv-backend/internal/cards"

// discardOptions returns every legal discard available from hand, memoized
// by hand signature.
func (p *Player) discardOptions(hand []cards.Card) [][]cards.Card {
	sig := cards.Signature(hand)
	if cached, ok := p.discardOptionsCache.Get(sig); ok {
		return cached
	}
	opts := enumerateDiscards(hand)
	p.discardOptionsCache.Add(sig, opts)
	return opts
}

// enumerateDiscards enumerates every legal discard shape from hand:
//  1. every single card;
//  2. every combination of 2+ non-joker cards sharing a rank, plus every
//     subset of jokers (including the empty one);
//  3. every combination of 2+ non-joker cards sharing a suit whose interior
//     gaps sum to at most the joker count, emitted as the run the validator
//     produces, plus the run extensions obtained by spending any leftover
//     jokers on a legal end.
func enumerateDiscards(hand []cards.Card) [][]cards.Card {
	var jokers, nonJokers []cards.Card
	for _, c := range hand {
		if c.IsJoker() {
			jokers = append(jokers, c)
		} else {
			nonJokers = append(nonJokers, c)
		}
	}

	seen := map[string]bool{}
	var out [][]cards.Card
	add := func(combo []cards.Card) {
		key := cards.Signature(combo)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, combo)
	}

	for _, c := range hand {
		add([]cards.Card{c})
	}

	jokerSubsets := powerset(jokers)

	byRank := map[int][]cards.Card{}
	for _, c := range nonJokers {
		byRank[c.RankIndex()] = append(byRank[c.RankIndex()], c)
	}
	for _, group := range byRank {
		for _, combo := range subsetsAtLeast(group, 2) {
			for _, jset := range jokerSubsets {
				add(append(append([]cards.Card{}, combo...), jset...))
			}
		}
	}

	bySuit := map[cards.Suit][]cards.Card{}
	for _, c := range nonJokers {
		bySuit[c.Suit()] = append(bySuit[c.Suit()], c)
	}
	for _, group := range bySuit {
		for _, combo := range subsetsAtLeast(group, 2) {
			addRunCandidates(add, combo, jokers)
		}
	}

	return out
}

// addRunCandidates validates combo (a same-suit, rank-sorted-by-construction
// subset) as the non-joker skeleton of a run, using exactly as many jokers
// as needed to fill interior gaps, then emits that core run plus every legal
// way of spending any jokers left over on the run's two ends.
func addRunCandidates(add func([]cards.Card), combo []cards.Card, jokers []cards.Card) {
	sorted := append([]cards.Card(nil), combo...)
	cards.SortByRank(sorted)

	gapSum := 0
	for i := 1; i < len(sorted); i++ {
		diff := sorted[i].RankIndex() - sorted[i-1].RankIndex()
		if diff <= 0 {
			return // duplicate rank in the same suit can't happen, but guard anyway
		}
		gapSum += diff - 1
	}
	if gapSum > len(jokers) {
		return
	}

	core := append(append([]cards.Card{}, sorted...), jokers[:gapSum]...)
	legal, isRun, ordered := cards.ValidateDiscard(core)
	if !legal || !isRun || len(ordered) < 3 {
		return
	}
	add(ordered)

	leftover := len(jokers) - gapSum
	if leftover == 0 {
		return
	}
	low, high, _, ok := cards.RunEndRanks(ordered)
	if !ok {
		return
	}
	for lowSpend := 0; lowSpend <= leftover; lowSpend++ {
		highSpend := leftover - lowSpend
		if lowSpend == 0 && highSpend == 0 {
			continue
		}
		if lowSpend > 0 && low-lowSpend < 1 {
			continue
		}
		if highSpend > 0 && high+highSpend > 13 {
			continue
		}
		full := append(append([]cards.Card{}, core...), jokers[gapSum:gapSum+lowSpend+highSpend]...)
		legal2, isRun2, ordered2 := cards.ValidateDiscard(full)
		if legal2 && isRun2 {
			add(ordered2)
		}
	}
}

// subsetsAtLeast returns every subset of cs with size >= min, in the
// include-first/exclude-first recursive shape used throughout this package.
func subsetsAtLeast(cs []cards.Card, min int) [][]cards.Card {
	all := allSubsets(cs)
	var out [][]cards.Card
	for _, s := range all {
		if len(s) >= min {
			out = append(out, s)
		}
	}
	return out
}

func allSubsets(cs []cards.Card) [][]cards.Card {
	if len(cs) == 0 {
		return [][]cards.Card{{}}
	}
	first := cs[0]
	rest := allSubsets(cs[1:])

	out := make([][]cards.Card, 0, len(rest)*2)
	out = append(out, rest...)
	for _, combo := range rest {
		withFirst := append([]cards.Card{first}, combo...)
		out = append(out, withFirst)
	}
	return out
}

// powerset returns every subset of jokers, including the empty one.
func powerset(jokers []cards.Card) [][]cards.Card {
	return allSubsets(jokers)
}
