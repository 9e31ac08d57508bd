// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"fmt"
	"math"
)

// DelegationResolver settles a single delegation step.
//
// Settlement is one hop deep: the delegator's weight lands on whatever the
// immediate delegate has already decided, or on the delegate's own weight if
// it has not decided yet. Chains are never walked. A delegate that has itself
// delegated has no proposal to settle against and is rejected, which also
// keeps delegation cycles from forming. Walking chains instead would need a
// visited set for cycle detection.
type DelegationResolver struct {
	voters    *VoterRegistry
	proposals *ProposalList
}

func NewDelegationResolver(voters *VoterRegistry, proposals *ProposalList) *DelegationResolver {
	return &DelegationResolver{voters: voters, proposals: proposals}
}

// Delegate moves caller's weight and turn to target.
func (d *DelegationResolver) Delegate(caller, target PrincipalID) (Event, error) {
	if target == caller {
		return Event{}, fmt.Errorf("%w: %s", ErrSelfDelegation, caller)
	}
	sender, ok := d.voters.voter(caller)
	if !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrUnknownVoter, caller)
	}
	if sender.HasVoted {
		return Event{}, fmt.Errorf("%w: %s", ErrAlreadyVoted, caller)
	}
	delegate, ok := d.voters.voter(target)
	if !ok {
		return Event{}, fmt.Errorf("%w: %s is not registered", ErrInvalidDelegate, target)
	}

	weight := sender.Weight
	settleOn := -1
	switch {
	case delegate.HasVoted && delegate.VotedProposalIndex != nil:
		settleOn = *delegate.VotedProposalIndex
		if !d.proposals.valid(settleOn) {
			return Event{}, fmt.Errorf("%w: %s voted for missing proposal %d", ErrCorruptSnapshot, target, settleOn)
		}
		if !d.proposals.canAdd(settleOn, weight) {
			return Event{}, fmt.Errorf("%w: proposal %d", ErrWeightOverflow, settleOn)
		}
	case delegate.HasVoted:
		return Event{}, fmt.Errorf("%w: %s has delegated", ErrInvalidDelegate, target)
	default:
		if delegate.Weight > math.MaxUint32-weight {
			return Event{}, fmt.Errorf("%w: voter %s", ErrWeightOverflow, target)
		}
	}

	sender.HasVoted = true
	to := target
	sender.DelegatedTo = &to
	if settleOn >= 0 {
		d.proposals.addVotes(settleOn, weight)
	} else {
		delegate.Weight += weight
	}

	return Event{
		Op:       OpDelegate,
		Caller:   caller,
		Target:   target,
		Proposal: settleOn,
		Weight:   weight,
	}, nil
}
