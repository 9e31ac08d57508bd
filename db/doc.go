// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and ballot storage.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite (modernc.org/sqlite) connections enable foreign keys and a busy
timeout, and the pool is limited to one connection. PostgreSQL uses lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - ballot: Ballot identity and chairperson
  - proposal: Proposals by position, with vote counts
  - voter: Voter records (weight, decision)
  - ballot_event: Journal of accepted operations

	ballot 1──* proposal
	ballot 1──* voter
	ballot 1──* ballot_event

All foreign keys use ON DELETE CASCADE.

# Store

Store loads a ballot aggregate, applies one operation and saves it:

	events, err := store.Update(ctx, id, origin, func(b *ballot.Ballot) error {
		return b.Vote(caller, 1)
	})

Calls on the same ballot are serialized with an in-process lock (plus
SELECT ... FOR UPDATE on PostgreSQL). The load, the changed rows and the
journal entries share one transaction, so a failed operation leaves nothing
behind.
*/
package db
