// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "fmt"

// Snapshot is a detached copy of a ballot's state.
type Snapshot struct {
	ChairPerson PrincipalID
	Voters      map[PrincipalID]Voter
	Proposals   []Proposal
}

func (b *Ballot) Snapshot() Snapshot {
	s := Snapshot{
		ChairPerson: b.chairPerson,
		Voters:      make(map[PrincipalID]Voter, b.voters.Len()),
		Proposals:   b.proposals.All(),
	}
	b.voters.Each(func(id PrincipalID, v Voter) {
		s.Voters[id] = v
	})
	return s
}

// Restore rebuilds a ballot from s. It fails with ErrCorruptSnapshot if s
// breaks a ballot invariant.
func Restore(s Snapshot) (*Ballot, error) {
	chair, ok := s.Voters[s.ChairPerson]
	if !ok {
		return nil, fmt.Errorf("%w: chairperson %s is not a voter", ErrCorruptSnapshot, s.ChairPerson)
	}
	if chair.Weight == 0 {
		return nil, fmt.Errorf("%w: chairperson %s has no weight", ErrCorruptSnapshot, s.ChairPerson)
	}

	voters := NewVoterRegistry()
	for id, v := range s.Voters {
		if err := checkVoter(id, v, s); err != nil {
			return nil, err
		}
		c := v.clone()
		voters.voters[id] = &c
	}

	proposals := &ProposalList{proposals: make([]Proposal, len(s.Proposals))}
	copy(proposals.proposals, s.Proposals)
	return assemble(s.ChairPerson, voters, proposals), nil
}

func checkVoter(id PrincipalID, v Voter, s Snapshot) error {
	voted := v.VotedProposalIndex != nil
	delegated := v.DelegatedTo != nil
	switch {
	case !v.HasVoted && (voted || delegated):
		return fmt.Errorf("%w: voter %s has a decision but has not voted", ErrCorruptSnapshot, id)
	case v.HasVoted && voted == delegated:
		return fmt.Errorf("%w: voter %s must have exactly one of vote or delegate", ErrCorruptSnapshot, id)
	case voted && (*v.VotedProposalIndex < 0 || *v.VotedProposalIndex >= len(s.Proposals)):
		return fmt.Errorf("%w: voter %s voted for missing proposal %d", ErrCorruptSnapshot, id, *v.VotedProposalIndex)
	case delegated && *v.DelegatedTo == id:
		return fmt.Errorf("%w: voter %s delegated to itself", ErrCorruptSnapshot, id)
	}
	if delegated {
		if _, ok := s.Voters[*v.DelegatedTo]; !ok {
			return fmt.Errorf("%w: voter %s delegated to unknown %s", ErrCorruptSnapshot, id, *v.DelegatedTo)
		}
	}
	return nil
}
