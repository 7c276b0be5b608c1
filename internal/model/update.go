package model

import "sort"

// UpsertFounder returns a copy of founders with f replacing the entry that has
// the same ID, or appended when no such entry exists.
func UpsertFounder(founders []Founder, f Founder) []Founder {
	out := make([]Founder, 0, len(founders)+1)
	replaced := false
	for _, existing := range founders {
		if existing.ID == f.ID {
			out = append(out, f)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, f)
	}
	return out
}

// RemoveFounder returns a copy of founders without the entry with the given ID.
func RemoveFounder(founders []Founder, id string) []Founder {
	out := make([]Founder, 0, len(founders))
	for _, f := range founders {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

// UpsertRound returns a copy of rounds with r replacing the entry that has the
// same ID, or appended when no such entry exists.
func UpsertRound(rounds []Round, r Round) []Round {
	out := make([]Round, 0, len(rounds)+1)
	replaced := false
	for _, existing := range rounds {
		if existing.ID == r.ID {
			out = append(out, r)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, r)
	}
	return out
}

func RemoveRound(rounds []Round, id string) []Round {
	out := make([]Round, 0, len(rounds))
	for _, r := range rounds {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// SortedRounds returns a copy of rounds in processing order.
// Ties keep their input order.
func SortedRounds(rounds []Round) []Round {
	out := make([]Round, len(rounds))
	copy(out, rounds)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// NextRoundOrder is one past the highest Order in rounds (1 for none).
func NextRoundOrder(rounds []Round) int {
	next := 1
	for _, r := range rounds {
		if r.Order >= next {
			next = r.Order + 1
		}
	}
	return next
}
