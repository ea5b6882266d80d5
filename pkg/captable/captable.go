// Package captable defines the capital-structure data structures consumed by
// the resolver and backsolve solver. All types here are read-only inputs owned
// by the caller; the solvers never mutate them.
package captable

import (
	"fmt"
)

// SecurityClass describes one class of securities on the capital table.
// StrikePrice is only meaningful for option-like instruments and is zero for
// ordinary shares.
type SecurityClass struct {
	ID            string
	Name          string
	ShareCount    float64
	StrikePrice   float64
	Seniority     int
	Participating bool
}

// OptionPool is a tranche of options whose exercise decision depends on the
// resolved price per share.
type OptionPool struct {
	ID          string
	Name        string
	ShareCount  float64
	StrikePrice float64
}

// CapTable aggregates the common shares and option pools fed to the circular
// resolver.
type CapTable struct {
	CommonShares float64
	OptionPools  []OptionPool
}

// Participant is one security's participation in a breakpoint band.
type Participant struct {
	SecurityID string
	Shares     float64
}

// Breakpoint is an exit-value band over which the marginal allocation of
// proceeds is constant. ExercisePrice is the cumulative equity value at which
// the band activates; UpperBound is zero for the open-ended final band.
type Breakpoint struct {
	Sequence      int
	ExercisePrice float64
	UpperBound    float64
	Participants  []Participant
}

// TotalParticipatingShares sums the participating share counts of the band.
func (b Breakpoint) TotalParticipatingShares() float64 {
	total := 0.0
	for _, p := range b.Participants {
		total += p.Shares
	}
	return total
}

// ValidateBreakpointOrder checks the correctness invariant that exercise
// prices are non-decreasing along the sequence. Out-of-order breakpoints
// silently corrupt every downstream allocation, so this fails loudly instead.
func ValidateBreakpointOrder(breakpoints []Breakpoint) error {
	for i := 1; i < len(breakpoints); i++ {
		if breakpoints[i].ExercisePrice < breakpoints[i-1].ExercisePrice {
			return fmt.Errorf("breakpoints out of order: exercise price %.6f at index %d is below %.6f at index %d",
				breakpoints[i].ExercisePrice, i, breakpoints[i-1].ExercisePrice, i-1)
		}
	}
	return nil
}

// FindParticipant returns the participant entry for a security within a
// breakpoint, if present.
func (b Breakpoint) FindParticipant(securityID string) (Participant, bool) {
	for _, p := range b.Participants {
		if p.SecurityID == securityID {
			return p, true
		}
	}
	return Participant{}, false
}
