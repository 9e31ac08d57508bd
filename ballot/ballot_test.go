// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

var (
	chair = ids.ShortID{1}
	alice = ids.ShortID{2}
	bob   = ids.ShortID{3}
	carol = ids.ShortID{4}
	dave  = ids.ShortID{5}
)

// enfranchised returns a ballot where every given voter is registered and
// holds weight 1.
func enfranchised(t *testing.T, names []string, voters ...PrincipalID) *Ballot {
	t.Helper()
	b := New(chair, names)
	for _, v := range voters {
		_, err := b.AddVoter(v)
		require.NoError(t, err)
		require.NoError(t, b.GiveVotingRight(chair, v))
	}
	return b
}

func counts(b *Ballot) []uint32 {
	out := make([]uint32, 0, b.ProposalCount())
	for _, p := range b.Proposals() {
		out = append(out, p.VoteCount)
	}
	return out
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		names         []string
		expectedNames []string
	}{
		"OK: no proposals": {
			names:         nil,
			expectedNames: []string{},
		},
		"OK: one proposal": {
			names:         []string{"Proposal # 1"},
			expectedNames: []string{"Proposal # 1"},
		},
		"OK: duplicate names are kept": {
			names:         []string{"A", "B", "A"},
			expectedNames: []string{"A", "B", "A"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			b := New(chair, tt.names)
			require.Equal(t, chair, b.Chairperson())
			require.Equal(t, len(tt.expectedNames), b.ProposalCount())
			for i, expected := range tt.expectedNames {
				name, err := b.ProposalNameAt(i)
				require.NoError(t, err)
				require.Equal(t, expected, name)
			}

			v, ok := b.Voter(chair)
			require.True(t, ok)
			require.Equal(t, Voter{Weight: 1}, v)
			require.Equal(t, 1, b.VoterCount())
		})
	}
}

func TestAddVoter(t *testing.T) {
	require := require.New(t)
	b := New(chair, nil)

	added, err := b.AddVoter(alice)
	require.NoError(err)
	require.True(added)

	for i := 0; i < 3; i++ {
		added, err = b.AddVoter(alice)
		require.NoError(err)
		require.False(added)
	}

	added, err = b.AddVoter(chair)
	require.NoError(err)
	require.False(added)

	v, ok := b.Voter(alice)
	require.True(ok)
	require.Equal(Voter{}, v)

	_, ok = b.Voter(bob)
	require.False(ok)
}

func TestGiveVotingRight(t *testing.T) {
	tests := map[string]struct {
		setup       func(b *Ballot)
		caller      PrincipalID
		voter       PrincipalID
		expectedErr error
		expected    Voter
	}{
		"OK: registered voter gets weight 1": {
			setup:    func(b *Ballot) { _, _ = b.AddVoter(alice) },
			caller:   chair,
			voter:    alice,
			expected: Voter{Weight: 1},
		},
		"OK: delegated weight is reset to 1": {
			setup: func(b *Ballot) {
				_, _ = b.AddVoter(alice)
				_, _ = b.AddVoter(bob)
				_ = b.GiveVotingRight(chair, bob)
				_ = b.Delegate(bob, alice)
			},
			caller:   chair,
			voter:    alice,
			expected: Voter{Weight: 1},
		},
		"Not chairperson": {
			setup: func(b *Ballot) {
				_, _ = b.AddVoter(alice)
				_, _ = b.AddVoter(bob)
			},
			caller:      bob,
			voter:       alice,
			expectedErr: ErrUnauthorized,
			expected:    Voter{},
		},
		"Unknown voter": {
			setup:       func(*Ballot) {},
			caller:      chair,
			voter:       alice,
			expectedErr: ErrUnknownVoter,
		},
		"Already voted": {
			setup: func(b *Ballot) {
				_, _ = b.AddVoter(alice)
				_ = b.GiveVotingRight(chair, alice)
				_ = b.Vote(alice, 0)
			},
			caller:      chair,
			voter:       alice,
			expectedErr: ErrAlreadyVoted,
			expected:    Voter{Weight: 1, HasVoted: true, VotedProposalIndex: intPtr(0)},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			b := New(chair, []string{"A", "B"})
			tt.setup(b)

			err := b.GiveVotingRight(tt.caller, tt.voter)
			require.ErrorIs(t, err, tt.expectedErr)

			v, ok := b.Voter(tt.voter)
			if tt.expectedErr == ErrUnknownVoter {
				require.False(t, ok)
				return
			}
			require.True(t, ok)
			require.Equal(t, tt.expected, v)
		})
	}
}

func TestVote(t *testing.T) {
	tests := map[string]struct {
		setup          func(b *Ballot)
		caller         PrincipalID
		index          int
		expectedErr    error
		expectedCounts []uint32
	}{
		"OK: chairperson votes": {
			setup:          func(*Ballot) {},
			caller:         chair,
			index:          0,
			expectedCounts: []uint32{1, 0},
		},
		"OK: accumulated weight is counted": {
			setup: func(b *Ballot) {
				_ = b.Delegate(alice, bob)
				_ = b.Delegate(carol, bob)
			},
			caller:         bob,
			index:          1,
			expectedCounts: []uint32{0, 3},
		},
		"Unknown voter": {
			setup:          func(*Ballot) {},
			caller:         dave,
			index:          0,
			expectedErr:    ErrUnknownVoter,
			expectedCounts: []uint32{0, 0},
		},
		"Already voted": {
			setup:          func(b *Ballot) { _ = b.Vote(alice, 1) },
			caller:         alice,
			index:          0,
			expectedErr:    ErrAlreadyVoted,
			expectedCounts: []uint32{0, 1},
		},
		"Already delegated": {
			setup:          func(b *Ballot) { _ = b.Delegate(alice, bob) },
			caller:         alice,
			index:          0,
			expectedErr:    ErrAlreadyVoted,
			expectedCounts: []uint32{0, 0},
		},
		"No right": {
			setup:          func(b *Ballot) { _, _ = b.AddVoter(dave) },
			caller:         dave,
			index:          0,
			expectedErr:    ErrNoRight,
			expectedCounts: []uint32{0, 0},
		},
		"Index out of bounds": {
			setup:          func(*Ballot) {},
			caller:         alice,
			index:          99,
			expectedErr:    ErrIndexOutOfBounds,
			expectedCounts: []uint32{0, 0},
		},
		"Negative index": {
			setup:          func(*Ballot) {},
			caller:         alice,
			index:          -1,
			expectedErr:    ErrIndexOutOfBounds,
			expectedCounts: []uint32{0, 0},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			b := enfranchised(t, []string{"A", "B"}, alice, bob, carol)
			tt.setup(b)
			before, _ := b.Voter(tt.caller)

			err := b.Vote(tt.caller, tt.index)
			require.ErrorIs(t, err, tt.expectedErr)
			require.Equal(t, tt.expectedCounts, counts(b))

			after, _ := b.Voter(tt.caller)
			if tt.expectedErr != nil {
				require.Equal(t, before, after)
				return
			}
			require.True(t, after.HasVoted)
			require.Nil(t, after.DelegatedTo)
			require.Equal(t, intPtr(tt.index), after.VotedProposalIndex)
		})
	}
}

func TestVoteAddsExactlyWeight(t *testing.T) {
	for index := 0; index < 3; index++ {
		b := enfranchised(t, []string{"A", "B", "C"}, alice, bob, carol)
		require.NoError(t, b.Delegate(bob, alice))
		require.NoError(t, b.Delegate(carol, alice))
		v, _ := b.Voter(alice)
		require.Equal(t, uint32(3), v.Weight)

		require.NoError(t, b.Vote(alice, index))
		for i, p := range b.Proposals() {
			if i == index {
				require.Equal(t, v.Weight, p.VoteCount)
			} else {
				require.Zero(t, p.VoteCount)
			}
		}
	}
}

func TestDelegate(t *testing.T) {
	tests := map[string]struct {
		setup          func(b *Ballot)
		caller         PrincipalID
		to             PrincipalID
		expectedErr    error
		expectedCounts []uint32
		expectedTarget Voter
	}{
		"OK: delegate has not voted": {
			setup:          func(*Ballot) {},
			caller:         alice,
			to:             bob,
			expectedCounts: []uint32{0, 0},
			expectedTarget: Voter{Weight: 2},
		},
		"OK: delegate has voted": {
			setup:          func(b *Ballot) { _ = b.Vote(bob, 0) },
			caller:         alice,
			to:             bob,
			expectedCounts: []uint32{2, 0},
			expectedTarget: Voter{Weight: 1, HasVoted: true, VotedProposalIndex: intPtr(0)},
		},
		"OK: delegate without right receives weight": {
			setup:          func(b *Ballot) { _, _ = b.AddVoter(dave) },
			caller:         alice,
			to:             dave,
			expectedCounts: []uint32{0, 0},
			expectedTarget: Voter{Weight: 1},
		},
		"OK: caller without right delegates nothing": {
			setup:          func(b *Ballot) { _, _ = b.AddVoter(dave) },
			caller:         dave,
			to:             bob,
			expectedCounts: []uint32{0, 0},
			expectedTarget: Voter{Weight: 1},
		},
		"Self delegation": {
			setup:          func(*Ballot) {},
			caller:         alice,
			to:             alice,
			expectedErr:    ErrSelfDelegation,
			expectedCounts: []uint32{0, 0},
			expectedTarget: Voter{Weight: 1},
		},
		"Unknown caller": {
			setup:          func(*Ballot) {},
			caller:         dave,
			to:             bob,
			expectedErr:    ErrUnknownVoter,
			expectedCounts: []uint32{0, 0},
			expectedTarget: Voter{Weight: 1},
		},
		"Caller already voted": {
			setup:          func(b *Ballot) { _ = b.Vote(alice, 1) },
			caller:         alice,
			to:             bob,
			expectedErr:    ErrAlreadyVoted,
			expectedCounts: []uint32{0, 1},
			expectedTarget: Voter{Weight: 1},
		},
		"Caller already delegated": {
			setup:          func(b *Ballot) { _ = b.Delegate(alice, carol) },
			caller:         alice,
			to:             bob,
			expectedErr:    ErrAlreadyVoted,
			expectedCounts: []uint32{0, 0},
			expectedTarget: Voter{Weight: 1},
		},
		"Unknown delegate": {
			setup:          func(*Ballot) {},
			caller:         bob,
			to:             dave,
			expectedErr:    ErrInvalidDelegate,
			expectedCounts: []uint32{0, 0},
		},
		"Delegate has delegated": {
			setup:          func(b *Ballot) { _ = b.Delegate(bob, carol) },
			caller:         alice,
			to:             bob,
			expectedErr:    ErrInvalidDelegate,
			expectedCounts: []uint32{0, 0},
			expectedTarget: Voter{Weight: 1, HasVoted: true, DelegatedTo: &carol},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			b := enfranchised(t, []string{"A", "B"}, alice, bob, carol)
			tt.setup(b)
			before, _ := b.Voter(tt.caller)

			err := b.Delegate(tt.caller, tt.to)
			require.ErrorIs(t, err, tt.expectedErr)
			require.Equal(t, tt.expectedCounts, counts(b))

			target, ok := b.Voter(tt.to)
			if tt.expectedErr == ErrInvalidDelegate && !ok {
				after, _ := b.Voter(tt.caller)
				require.Equal(t, before, after)
				return
			}
			require.Equal(t, tt.expectedTarget, target)

			after, _ := b.Voter(tt.caller)
			if tt.expectedErr != nil {
				if tt.caller != tt.to {
					require.Equal(t, before, after)
				}
				return
			}
			require.True(t, after.HasVoted)
			require.Nil(t, after.VotedProposalIndex)
			require.Equal(t, &tt.to, after.DelegatedTo)
			require.Equal(t, before.Weight, after.Weight)
		})
	}
}

func TestSelfDelegationAlwaysFails(t *testing.T) {
	b := enfranchised(t, []string{"A"}, alice)
	_, err := b.AddVoter(bob)
	require.NoError(t, err)

	for _, id := range []PrincipalID{chair, alice, bob, carol, ids.ShortEmpty} {
		require.ErrorIs(t, b.Delegate(id, id), ErrSelfDelegation)
	}
}

func TestDelegateBeforeDelegateVotes(t *testing.T) {
	require := require.New(t)
	b := enfranchised(t, []string{"A", "B"}, alice, bob)

	require.NoError(b.Delegate(alice, bob))
	require.NoError(b.Vote(bob, 1))

	p, ok := b.Proposal(1)
	require.True(ok)
	require.Equal(uint32(2), p.VoteCount)
}

func TestDelegateAfterDelegateVoted(t *testing.T) {
	require := require.New(t)
	b := enfranchised(t, []string{"A", "B"}, alice, bob)

	require.NoError(b.Vote(bob, 0))
	require.NoError(b.Delegate(alice, bob))

	require.Equal([]uint32{2, 0}, counts(b))
	v, _ := b.Voter(alice)
	require.True(v.HasVoted)
	require.Nil(v.VotedProposalIndex)
	require.Equal(&bob, v.DelegatedTo)
}

func TestDelegationChainCarriesWeight(t *testing.T) {
	require := require.New(t)
	b := enfranchised(t, []string{"A", "B"}, alice, bob, carol)

	require.NoError(b.Delegate(alice, bob))
	require.NoError(b.Delegate(bob, carol))
	require.NoError(b.Vote(carol, 1))
	require.Equal([]uint32{0, 3}, counts(b))

	// a cycle back to a delegator is refused
	require.ErrorIs(b.Delegate(chair, alice), ErrInvalidDelegate)
}

func TestWinningProposal(t *testing.T) {
	tests := map[string]struct {
		names         []string
		votes         map[PrincipalID]int
		expectedIndex int
		expectedOK    bool
	}{
		"No proposals": {
			expectedIndex: -1,
		},
		"All zero": {
			names:         []string{"A", "B", "C"},
			expectedIndex: -1,
		},
		"Single leader": {
			names:         []string{"A", "B", "C"},
			votes:         map[PrincipalID]int{alice: 2, bob: 2, chair: 0},
			expectedIndex: 2,
			expectedOK:    true,
		},
		"Tie goes to lowest index": {
			names:         []string{"A", "B", "C"},
			votes:         map[PrincipalID]int{alice: 1, bob: 2},
			expectedIndex: 1,
			expectedOK:    true,
		},
		"Later equal count does not replace": {
			names:         []string{"A", "B", "C"},
			votes:         map[PrincipalID]int{alice: 0, bob: 2, carol: 2, chair: 0},
			expectedIndex: 0,
			expectedOK:    true,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			b := enfranchised(t, tt.names, alice, bob, carol)
			for voter, index := range tt.votes {
				require.NoError(t, b.Vote(voter, index))
			}

			index, ok := b.WinningProposal()
			require.Equal(t, tt.expectedOK, ok)
			if !ok {
				_, err := b.WinningProposalName()
				require.ErrorIs(t, err, ErrNoWinner)
				return
			}
			require.Equal(t, tt.expectedIndex, index)
			name, err := b.WinningProposalName()
			require.NoError(t, err)
			require.Equal(t, tt.names[tt.expectedIndex], name)
		})
	}
}

func TestChairpersonVoteWins(t *testing.T) {
	b := New(chair, []string{"A", "B"})
	require.NoError(t, b.Vote(chair, 0))

	name, err := b.WinningProposalName()
	require.NoError(t, err)
	require.Equal(t, "A", name)
}

func TestProposals(t *testing.T) {
	require := require.New(t)
	b := New(chair, nil)
	require.Zero(b.ProposalCount())

	index, err := b.AddProposal("Proposal #1")
	require.NoError(err)
	require.Equal(0, index)
	index, err = b.AddProposal("Proposal #2")
	require.NoError(err)
	require.Equal(1, index)
	require.Equal(2, b.ProposalCount())

	name, err := b.ProposalNameAt(1)
	require.NoError(err)
	require.Equal("Proposal #2", name)

	_, err = b.ProposalNameAt(2)
	require.ErrorIs(err, ErrIndexOutOfBounds)
	_, err = b.ProposalNameAt(-1)
	require.ErrorIs(err, ErrIndexOutOfBounds)
}

func TestReentrantCall(t *testing.T) {
	require := require.New(t)
	b := enfranchised(t, []string{"A", "B"}, alice)

	var (
		events  []Event
		nested  []error
		winners []int
	)
	b.SetListener(ListenerFunc(func(e Event) {
		events = append(events, e)
		nested = append(nested, b.Vote(chair, 1))
		_, err := b.AddVoter(dave)
		nested = append(nested, err)
		w, _ := b.WinningProposal()
		winners = append(winners, w)
	}))

	require.NoError(b.Vote(alice, 0))

	require.Equal([]Event{{Op: OpVote, Caller: alice, Target: ids.ShortEmpty, Proposal: 0, Weight: 1}}, events)
	require.Len(nested, 2)
	for _, err := range nested {
		require.ErrorIs(err, ErrReentrantCall)
	}
	require.Equal([]int{0}, winners)
	require.Equal([]uint32{1, 0}, counts(b))
	_, ok := b.Voter(dave)
	require.False(ok)

	// the guard is released once the call returns
	b.SetListener(nil)
	require.NoError(b.Vote(chair, 1))
}

func TestListenerEvents(t *testing.T) {
	require := require.New(t)
	b := New(chair, []string{"A"})

	var events []Event
	b.SetListener(ListenerFunc(func(e Event) { events = append(events, e) }))

	_, _ = b.AddVoter(alice)
	_, _ = b.AddVoter(alice)
	_ = b.GiveVotingRight(chair, alice)
	_ = b.GiveVotingRight(alice, alice)
	_, _ = b.AddProposal("B")
	_ = b.Vote(chair, 1)
	_ = b.Delegate(alice, chair)

	require.Equal([]Event{
		{Op: OpAddVoter, Target: alice, Proposal: -1},
		{Op: OpGrantRight, Caller: chair, Target: alice, Proposal: -1, Weight: 1},
		{Op: OpAddProposal, Proposal: 1},
		{Op: OpVote, Caller: chair, Proposal: 1, Weight: 1},
		{Op: OpDelegate, Caller: alice, Target: chair, Proposal: 1, Weight: 1},
	}, events)
}

func TestCode(t *testing.T) {
	b := New(chair, []string{"A"})
	require.Equal(t, "SelfDelegation", Code(b.Delegate(chair, chair)))
	require.Equal(t, "Unauthorized", Code(b.GiveVotingRight(alice, chair)))
	require.Equal(t, "IndexOutOfBounds", Code(b.Vote(chair, 5)))
	_, err := b.WinningProposalName()
	require.Equal(t, "NoWinner", Code(err))
	require.Empty(t, Code(nil))
}

func intPtr(i int) *int {
	return &i
}
