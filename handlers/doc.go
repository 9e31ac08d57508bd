// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Ballot API.

# Handler Types

  - PrincipalHandler: issues principal tokens and resolves callers
  - BallotHandler: ballot creation, summary and proposals
  - VotingHandler: voter registration, voting rights, delegation and votes
  - ResultsHandler: winning proposal and the operation journal

Ballot handlers share a *db.Store, the Config and *metrics.Metrics:

	ballotHandler := handlers.NewBallotHandler(store, cfg, m)

# Caller Identity

Mutating routes are mounted behind middleware.RequirePrincipal, so handlers
read the caller with middleware.Principal. The chairperson of a ballot is
whoever created it.

# Mutations

Every mutation is one db.Store.Update: the ballot is loaded, the operation
runs against it, and the changed rows plus journal entries are written in
the same transaction. A rejected operation writes nothing.

Ballot errors are answered with their name in the code field:

	Unauthorized, NoRight                     → 403
	UnknownVoter, IndexOutOfBounds, NoWinner  → 404
	AlreadyVoted, ReentrantCall               → 409
	SelfDelegation, InvalidDelegate,
	WeightOverflow                            → 422

Any other failure is logged and answered with 500.
*/
package handlers
