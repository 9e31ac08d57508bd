// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "github.com/luxfi/ids"

// PrincipalID identifies a caller. It is supplied by the host and trusted.
type PrincipalID = ids.ShortID

type Proposal struct {
	Name      string
	VoteCount uint32
}

// Voter is a registry record. DelegatedTo and VotedProposalIndex are nil when
// unset; a non-nil index of 0 is a vote for the first proposal.
type Voter struct {
	Weight             uint32
	HasVoted           bool
	DelegatedTo        *PrincipalID
	VotedProposalIndex *int
}

// Delegated reports whether the voter spent its turn on a delegation.
func (v Voter) Delegated() bool {
	return v.HasVoted && v.DelegatedTo != nil
}

func (v Voter) clone() Voter {
	c := v
	if v.DelegatedTo != nil {
		to := *v.DelegatedTo
		c.DelegatedTo = &to
	}
	if v.VotedProposalIndex != nil {
		idx := *v.VotedProposalIndex
		c.VotedProposalIndex = &idx
	}
	return c
}

// Op names an accepted mutation.
type Op string

const (
	OpCreate      Op = "create"
	OpAddVoter    Op = "add_voter"
	OpGrantRight  Op = "give_voting_right"
	OpDelegate    Op = "delegate"
	OpVote        Op = "vote"
	OpAddProposal Op = "add_proposal"
)

// Event describes one accepted mutation. Target is ids.ShortEmpty and
// Proposal is -1 when they don't apply. Weight is the weight moved by a vote
// or delegation.
type Event struct {
	Op       Op
	Caller   PrincipalID
	Target   PrincipalID
	Proposal int
	Weight   uint32
}

// Listener is notified after each accepted mutation, while the call still
// holds the ballot.
type Listener interface {
	BallotChanged(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) BallotChanged(e Event) { f(e) }
