// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "math"

// ProposalList is an append-only list of proposals. Indexes are stable.
type ProposalList struct {
	proposals []Proposal
}

func NewProposalList(names []string) *ProposalList {
	l := &ProposalList{proposals: make([]Proposal, 0, len(names))}
	for _, name := range names {
		l.Append(name)
	}
	return l
}

// Append adds a proposal with no votes and returns its index. Names are not
// checked for uniqueness.
func (l *ProposalList) Append(name string) int {
	l.proposals = append(l.proposals, Proposal{Name: name})
	return len(l.proposals) - 1
}

func (l *ProposalList) Get(index int) (Proposal, bool) {
	if !l.valid(index) {
		return Proposal{}, false
	}
	return l.proposals[index], true
}

func (l *ProposalList) Len() int {
	return len(l.proposals)
}

// All returns a copy of the proposals in index order.
func (l *ProposalList) All() []Proposal {
	out := make([]Proposal, len(l.proposals))
	copy(out, l.proposals)
	return out
}

func (l *ProposalList) valid(index int) bool {
	return index >= 0 && index < len(l.proposals)
}

// canAdd reports whether weight can be added to the proposal at index
// without overflowing. index must be valid.
func (l *ProposalList) canAdd(index int, weight uint32) bool {
	return l.proposals[index].VoteCount <= math.MaxUint32-weight
}

func (l *ProposalList) addVotes(index int, weight uint32) {
	l.proposals[index].VoteCount += weight
}
