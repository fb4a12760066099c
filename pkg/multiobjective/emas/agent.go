package emas

import (
	"fmt"

	"github.com/intob/moea/pkg/multiobjective/framework"
)

// Agent is a specimen living on an island. Its env is the index of the
// Environment (and Island) it currently resides on.
type Agent struct {
	ID uint64
	*framework.Specimen

	energy float64
	env    int
	elite  bool
	dead   bool

	encounters      int
	wins            int
	losses          int
	closeEncounters int
	distanceSum     float64
}

func (a *Agent) Energy() float64      { return a.energy }
func (a *Agent) Island() int          { return a.env }
func (a *Agent) Elite() bool          { return a.elite }
func (a *Agent) Dead() bool           { return a.dead }
func (a *Agent) Encounters() int      { return a.encounters }
func (a *Agent) Wins() int            { return a.wins }
func (a *Agent) Losses() int          { return a.losses }
func (a *Agent) CloseEncounters() int { return a.closeEncounters }

// Crowding is the mean objective space distance to the agents met so far,
// 0 before the first encounter.
func (a *Agent) Crowding() float64 {
	if a.encounters == 0 {
		return 0
	}
	return a.distanceSum / float64(a.encounters)
}

// WinRatio is the fraction of encounters won.
func (a *Agent) WinRatio() float64 {
	if a.encounters == 0 {
		return 0
	}
	return float64(a.wins) / float64(a.encounters)
}

// LossFraction is the fraction of encounters lost.
func (a *Agent) LossFraction() float64 {
	if a.encounters == 0 {
		return 0
	}
	return float64(a.losses) / float64(a.encounters)
}

func (a *Agent) String() string {
	return fmt.Sprintf("agent#%d%v e=%.4f", a.ID, a.Value(), a.energy)
}

// Behavior decides on offers made to an agent. Candidates passed to
// AcceptMate are already able to reproduce.
type Behavior interface {
	// AcceptMate reports whether self agrees to reproduce with suitor.
	AcceptMate(self, suitor *Agent) bool
	// AcceptEncounter reports whether self agrees to meet challenger.
	AcceptEncounter(self, challenger *Agent) bool
}

// DefaultBehavior accepts every offer.
type DefaultBehavior struct{}

func (DefaultBehavior) AcceptMate(_, _ *Agent) bool      { return true }
func (DefaultBehavior) AcceptEncounter(_, _ *Agent) bool { return true }
