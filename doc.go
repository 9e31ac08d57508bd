// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Ballot API server.

Quickly Ballot runs chairperson-led ballots: the creator registers voters,
gives them the right to vote, and each voter either votes for a proposal or
delegates their weight to another voter. The proposal with the most weight
wins, with ties going to the earliest proposal.

# Starting the Server

The server reads CLI flags, then environment variables, then an optional
.env file:

	DATABASE_URL=file:ballots.db PRINCIPAL_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --principal-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file URL or PostgreSQL connection string
  - PRINCIPAL_SALT (--principal-salt): Secret for principal ID derivation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ALLOWED_ORIGINS (--allowed-origins): CORS origins (default: *)
  - LOG_LEVEL (--log-level): debug, info, warn or error (default: info)
  - LOG_FORMAT (--log-format): text or json (default: text)

# Architecture

  - ballot: the voting engine (voters, proposals, delegation, tally)
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, caller identity, JSON helpers
  - models: Request/response types
  - auth: Principal tokens and IDs
  - db: Schema and the transactional ballot store
  - metrics: Prometheus counters
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
