package mapping

// Merge resolves conflicting candidates per source column by consensus.
// Independent matchers agreeing on the same target cell is strong evidence,
// so the winning target is the one with the most votes (ties broken by
// summed confidence), and the emitted candidate's confidence is boosted by
// 0.1 per additional agreeing vote, capped at 1.0.
//
// Output order follows the first appearance of each source column in the
// input, keeping the merge deterministic.
func Merge(candidates []Candidate) []Candidate {
	byColumn := make(map[string][]Candidate)
	var order []string
	for _, c := range candidates {
		if _, seen := byColumn[c.SourceColumn]; !seen {
			order = append(order, c.SourceColumn)
		}
		byColumn[c.SourceColumn] = append(byColumn[c.SourceColumn], c)
	}

	merged := make([]Candidate, 0, len(order))
	for _, col := range order {
		group := byColumn[col]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}
		merged = append(merged, mergeGroup(group))
	}
	return merged
}

type targetVote struct {
	votes         int
	confidenceSum float64
	best          Candidate
}

func mergeGroup(group []Candidate) Candidate {
	votes := make(map[cellRef]*targetVote)
	var targets []cellRef

	for _, c := range group {
		ref := cellRef{row: c.TargetRow, col: c.TargetCol}
		v, ok := votes[ref]
		if !ok {
			v = &targetVote{best: c}
			votes[ref] = v
			targets = append(targets, ref)
		}
		v.votes++
		v.confidenceSum += c.Confidence
		if c.Confidence > v.best.Confidence {
			v.best = c
		}
	}

	winner := votes[targets[0]]
	for _, ref := range targets[1:] {
		v := votes[ref]
		if v.votes > winner.votes ||
			(v.votes == winner.votes && v.confidenceSum > winner.confidenceSum) {
			winner = v
		}
	}

	out := winner.best
	out.Confidence += 0.1 * float64(winner.votes-1)
	if out.Confidence > 1.0 {
		out.Confidence = 1.0
	}
	return out
}
