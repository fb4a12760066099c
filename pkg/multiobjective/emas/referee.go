package emas

import "github.com/intob/moea/pkg/multiobjective/framework"

// Referee picks the winner of an encounter, or returns nil when it cannot
// tell the agents apart.
type Referee func(a, b *Agent) *Agent

// DefaultReferees is the tie-break chain used for ordinary encounters.
var DefaultReferees = []Referee{ByDominance, ByWinRatio, ByCrowding}

// Decide asks the referees in order and returns the first decision.
func Decide(referees []Referee, a, b *Agent) *Agent {
	for _, referee := range referees {
		if winner := referee(a, b); winner != nil {
			return winner
		}
	}
	return nil
}

// ByDominance picks the agent whose value Pareto-dominates the other's.
func ByDominance(a, b *Agent) *Agent {
	switch {
	case framework.Dominates(a.Value(), b.Value()):
		return a
	case framework.Dominates(b.Value(), a.Value()):
		return b
	}
	return nil
}

// ByWinRatio picks the agent with the larger share of won encounters.
func ByWinRatio(a, b *Agent) *Agent {
	ra, rb := a.WinRatio(), b.WinRatio()
	switch {
	case ra > rb:
		return a
	case rb > ra:
		return b
	}
	return nil
}

// ByCrowding picks the more isolated agent, unless it has lost more often
// than it has won and holds less energy than its opponent.
func ByCrowding(a, b *Agent) *Agent {
	ca, cb := a.Crowding(), b.Crowding()
	var winner, loser *Agent
	switch {
	case ca > cb:
		winner, loser = a, b
	case cb > ca:
		winner, loser = b, a
	default:
		return nil
	}
	if winner.losses > winner.wins && winner.energy < loser.energy {
		return nil
	}
	return winner
}
