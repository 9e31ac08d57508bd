// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"bytes"
	"fmt"
	"slices"
)

// VoterRegistry stores voters keyed by principal.
type VoterRegistry struct {
	voters map[PrincipalID]*Voter
}

func NewVoterRegistry() *VoterRegistry {
	return &VoterRegistry{voters: make(map[PrincipalID]*Voter)}
}

// Register inserts a voter with weight 0. It returns false and changes nothing
// if the principal is already registered.
func (r *VoterRegistry) Register(id PrincipalID) bool {
	if _, ok := r.voters[id]; ok {
		return false
	}
	r.voters[id] = &Voter{}
	return true
}

// Lookup returns a copy of the voter record.
func (r *VoterRegistry) Lookup(id PrincipalID) (Voter, bool) {
	v, ok := r.voters[id]
	if !ok {
		return Voter{}, false
	}
	return v.clone(), true
}

// GrantRight sets the target's weight to 1. Callers check authorization.
func (r *VoterRegistry) GrantRight(target PrincipalID) error {
	v, ok := r.voters[target]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVoter, target)
	}
	if v.HasVoted {
		return fmt.Errorf("%w: %s", ErrAlreadyVoted, target)
	}
	v.Weight = 1
	return nil
}

func (r *VoterRegistry) Len() int {
	return len(r.voters)
}

// Each calls fn for every voter in ascending principal byte order.
func (r *VoterRegistry) Each(fn func(PrincipalID, Voter)) {
	for _, id := range r.ids() {
		fn(id, r.voters[id].clone())
	}
}

func (r *VoterRegistry) ids() []PrincipalID {
	out := make([]PrincipalID, 0, len(r.voters))
	for id := range r.voters {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b PrincipalID) int {
		return bytes.Compare(a[:], b[:])
	})
	return out
}

// voter returns the live record for in-place updates.
func (r *VoterRegistry) voter(id PrincipalID) (*Voter, bool) {
	v, ok := r.voters[id]
	return v, ok
}
