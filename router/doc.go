// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Ballot API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg, m, prometheus.DefaultGatherer)

# Endpoints

Operations:

	GET /health
	GET /metrics - Prometheus exposition

Principals:

	POST /principals    - Issue a token and its principal ID
	GET  /principals/me - Resolve the caller (X-Principal-Token)

Ballots and proposals (POST requires X-Principal-Token):

	POST /ballots                          - Create ballot, caller is chairperson
	GET  /ballots/{id}                     - Summary
	GET  /ballots/{id}/chairperson         - Chairperson
	POST /ballots/{id}/proposals           - Append proposal
	GET  /ballots/{id}/proposals/count     - Number of proposals
	GET  /ballots/{id}/proposals/{index}   - Proposal name

Voters (POST requires X-Principal-Token):

	POST /ballots/{id}/voters                - Register voter
	GET  /ballots/{id}/voters/{voter}        - Voter record
	POST /ballots/{id}/voters/{voter}/right  - Give voting right (chairperson)
	POST /ballots/{id}/delegate              - Delegate caller's vote
	POST /ballots/{id}/vote                  - Vote

Results:

	GET /ballots/{id}/winner - Winning proposal
	GET /ballots/{id}/events - Operation journal
*/
package router
