package game

import "sort"

// Standing is one row of the final results.
type Standing struct {
	Place       int
	Participant *Participant
}

// Tabulate orders the participants for the end-game announcement: score
// descending; at equal score anyone still in the game outranks the
// eliminated, and among the eliminated a later round-out ranks higher.
// Places are dense over contiguous equal-score runs; tie reports whether
// any place is shared.
func Tabulate(g *Game) ([]Standing, bool) {
	list := make([]*Participant, 0, len(g.Participants))
	for _, p := range g.Participants {
		list = append(list, p)
	}

	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Eliminated != b.Eliminated {
			return !a.Eliminated
		}
		if a.RoundOut != b.RoundOut {
			return a.RoundOut > b.RoundOut
		}
		return a.ID < b.ID
	})

	standings := make([]Standing, 0, len(list))
	place := 0
	tie := false
	for i, p := range list {
		if i == 0 || p.Score != list[i-1].Score {
			place++
		} else {
			tie = true
		}
		standings = append(standings, Standing{Place: place, Participant: p})
	}
	return standings, tie
}
