// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

Principal IDs travel as their ShortID text form everywhere in this package.

# Request Types

Types for parsing incoming JSON:

  - CreateBallotRequest: proposals (optional list of names)
  - AddProposalRequest: name
  - AddVoterRequest: voter
  - DelegateRequest: to
  - VoteRequest: proposal (index, required)

# Response Types

Types for JSON responses:

  - IssuePrincipalResponse: token, principal_id
  - PrincipalResponse: principal_id
  - CreateBallotResponse: ballot_id, chairperson
  - AddProposalResponse: index
  - AddVoterResponse: voter, added
  - ProposalCountResponse, ProposalNameResponse, WinnerResponse
  - EventsResponse: the ballot journal
  - ErrorResponse: error, message, code

The code field of ErrorResponse carries the ballot error name
(for example "AlreadyVoted") when the failure came from the ballot itself.

# Domain Types

  - Ballot: summary with proposals and voter count
  - Proposal: name and vote count at an index
  - Voter: weight, voted flag, and the decision if any
  - Event: one journal entry
*/
package models
