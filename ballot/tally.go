// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"fmt"

	"github.com/luxfi/ids"
)

// TallyEngine records direct votes and picks the winner.
type TallyEngine struct {
	voters    *VoterRegistry
	proposals *ProposalList
}

func NewTallyEngine(voters *VoterRegistry, proposals *ProposalList) *TallyEngine {
	return &TallyEngine{voters: voters, proposals: proposals}
}

// Vote gives caller's whole weight to the proposal at index.
func (t *TallyEngine) Vote(caller PrincipalID, index int) (Event, error) {
	sender, ok := t.voters.voter(caller)
	if !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrUnknownVoter, caller)
	}
	if sender.HasVoted {
		return Event{}, fmt.Errorf("%w: %s", ErrAlreadyVoted, caller)
	}
	if sender.Weight == 0 {
		return Event{}, fmt.Errorf("%w: %s", ErrNoRight, caller)
	}
	if !t.proposals.valid(index) {
		return Event{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfBounds, index, t.proposals.Len())
	}
	if !t.proposals.canAdd(index, sender.Weight) {
		return Event{}, fmt.Errorf("%w: proposal %d", ErrWeightOverflow, index)
	}

	sender.HasVoted = true
	idx := index
	sender.VotedProposalIndex = &idx
	t.proposals.addVotes(index, sender.Weight)

	return Event{
		Op:       OpVote,
		Caller:   caller,
		Target:   ids.ShortEmpty,
		Proposal: index,
		Weight:   sender.Weight,
	}, nil
}

// WinningProposal returns the index of the proposal with the most votes.
// The lowest index wins a tie and there is no winner while every count is 0.
func (t *TallyEngine) WinningProposal() (int, bool) {
	var (
		best   uint32
		winner = -1
	)
	for i, p := range t.proposals.proposals {
		if p.VoteCount > best {
			best = p.VoteCount
			winner = i
		}
	}
	return winner, winner >= 0
}

func (t *TallyEngine) WinningProposalName() (string, error) {
	index, ok := t.WinningProposal()
	if !ok {
		return "", ErrNoWinner
	}
	return t.proposals.proposals[index].Name, nil
}
