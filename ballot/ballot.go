// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"fmt"

	"github.com/luxfi/ids"
)

// Role is an authority a caller must hold for an operation.
type Role int

const (
	RoleChairperson Role = iota + 1
)

func (r Role) String() string {
	switch r {
	case RoleChairperson:
		return "chairperson"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Ballot is the aggregate root and the only entry point for callers.
type Ballot struct {
	chairPerson PrincipalID
	voters      *VoterRegistry
	proposals   *ProposalList
	delegation  *DelegationResolver
	tally       *TallyEngine

	listener Listener
	busy     bool
}

// New creates a ballot chaired by caller. Each name becomes a proposal with
// no votes; nil means no proposals.
func New(caller PrincipalID, proposalNames []string) *Ballot {
	b := assemble(caller, NewVoterRegistry(), NewProposalList(proposalNames))
	b.voters.Register(caller)
	chair, _ := b.voters.voter(caller)
	chair.Weight = 1
	return b
}

func assemble(chair PrincipalID, voters *VoterRegistry, proposals *ProposalList) *Ballot {
	return &Ballot{
		chairPerson: chair,
		voters:      voters,
		proposals:   proposals,
		delegation:  NewDelegationResolver(voters, proposals),
		tally:       NewTallyEngine(voters, proposals),
	}
}

// SetListener installs l to be notified of accepted mutations. nil removes it.
func (b *Ballot) SetListener(l Listener) {
	b.listener = l
}

func (b *Ballot) Chairperson() PrincipalID {
	return b.chairPerson
}

// authorize fails with ErrUnauthorized unless caller holds role.
func (b *Ballot) authorize(caller PrincipalID, role Role) error {
	switch role {
	case RoleChairperson:
		if caller == b.chairPerson {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not %s", ErrUnauthorized, caller, role)
}

// GiveVotingRight sets voter's weight to 1. Only the chairperson may call it.
func (b *Ballot) GiveVotingRight(caller, voter PrincipalID) error {
	if err := b.enter(); err != nil {
		return err
	}
	defer b.leave()

	if err := b.authorize(caller, RoleChairperson); err != nil {
		return err
	}
	if err := b.voters.GrantRight(voter); err != nil {
		return err
	}
	b.notify(Event{Op: OpGrantRight, Caller: caller, Target: voter, Proposal: -1, Weight: 1})
	return nil
}

// AddVoter registers voter with weight 0 and reports whether it was new.
func (b *Ballot) AddVoter(voter PrincipalID) (bool, error) {
	if err := b.enter(); err != nil {
		return false, err
	}
	defer b.leave()

	if !b.voters.Register(voter) {
		return false, nil
	}
	b.notify(Event{Op: OpAddVoter, Caller: ids.ShortEmpty, Target: voter, Proposal: -1})
	return true, nil
}

func (b *Ballot) Delegate(caller, to PrincipalID) error {
	if err := b.enter(); err != nil {
		return err
	}
	defer b.leave()

	e, err := b.delegation.Delegate(caller, to)
	if err != nil {
		return err
	}
	b.notify(e)
	return nil
}

func (b *Ballot) Vote(caller PrincipalID, proposalIndex int) error {
	if err := b.enter(); err != nil {
		return err
	}
	defer b.leave()

	e, err := b.tally.Vote(caller, proposalIndex)
	if err != nil {
		return err
	}
	b.notify(e)
	return nil
}

// AddProposal appends a proposal and returns its index.
func (b *Ballot) AddProposal(name string) (int, error) {
	if err := b.enter(); err != nil {
		return 0, err
	}
	defer b.leave()

	index := b.proposals.Append(name)
	b.notify(Event{Op: OpAddProposal, Caller: ids.ShortEmpty, Target: ids.ShortEmpty, Proposal: index})
	return index, nil
}

func (b *Ballot) WinningProposal() (int, bool) {
	return b.tally.WinningProposal()
}

func (b *Ballot) WinningProposalName() (string, error) {
	return b.tally.WinningProposalName()
}

func (b *Ballot) ProposalNameAt(index int) (string, error) {
	p, ok := b.proposals.Get(index)
	if !ok {
		return "", fmt.Errorf("%w: %d of %d", ErrIndexOutOfBounds, index, b.proposals.Len())
	}
	return p.Name, nil
}

func (b *Ballot) Proposal(index int) (Proposal, bool) {
	return b.proposals.Get(index)
}

func (b *Ballot) ProposalCount() int {
	return b.proposals.Len()
}

func (b *Ballot) Proposals() []Proposal {
	return b.proposals.All()
}

func (b *Ballot) Voter(id PrincipalID) (Voter, bool) {
	return b.voters.Lookup(id)
}

func (b *Ballot) VoterCount() int {
	return b.voters.Len()
}

func (b *Ballot) enter() error {
	if b.busy {
		return ErrReentrantCall
	}
	b.busy = true
	return nil
}

func (b *Ballot) leave() {
	b.busy = false
}

func (b *Ballot) notify(e Event) {
	if b.listener != nil {
		b.listener.BallotChanged(e)
	}
}
