// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot implements the voting engine: proposals, a voter registry,
single-hop weight delegation and a deterministic winner.

# Ballot

A Ballot is created by a caller who becomes its chairperson and is registered
with weight 1:

	b := ballot.New(chair, []string{"A", "B"})

Every operation takes the caller identity explicitly. Identity is trusted;
authenticating it is the host's job.

	b.AddVoter(alice)                // register (weight 0)
	b.GiveVotingRight(chair, alice)  // chairperson only, weight = 1
	b.Delegate(bob, alice)           // bob's weight moves to alice
	b.Vote(alice, 1)                 // proposals[1] += alice's weight
	name, err := b.WinningProposalName()

# Voter States

	Unregistered → Registered (weight 0) → Enfranchised (weight ≥ 1)
	Enfranchised → Delegated | Voted

Delegated and Voted are terminal.

# Delegation

Delegation is resolved eagerly and one hop deep. If the delegate has voted,
the delegator's weight is added to that proposal immediately. If not, it is
added to the delegate's weight. Delegating to a voter who has delegated is
rejected with ErrInvalidDelegate, so delegation cycles cannot form.

# Winner

WinningProposal scans in index order with a strict greater-than against a
running maximum starting at zero. Ties go to the lowest index and a ballot
where every proposal has zero votes has no winner.

# Atomicity

Each mutating call validates before it writes, so a failed call leaves the
ballot unchanged. A call made while another is in flight on the same Ballot
(for example from a Listener) fails with ErrReentrantCall. A Ballot is not
safe for concurrent use; the host serializes calls.
*/
package ballot
