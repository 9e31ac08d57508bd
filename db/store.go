// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/ids"

	"github.com/danielhkuo/quickly-ballot/ballot"
	"github.com/danielhkuo/quickly-ballot/cliparse"
)

var ErrBallotNotFound = errors.New("ballot not found")

// Origin carries request metadata recorded with journal entries.
// Principal is journaled as the caller of events that carry none.
type Origin struct {
	IPHash    string
	Principal ids.ShortID
}

// JournalEntry is one accepted operation as stored in ballot_event.
type JournalEntry struct {
	Seq       int
	Op        ballot.Op
	Caller    *ids.ShortID
	Target    *ids.ShortID
	Proposal  *int
	Weight    uint32
	CreatedAt time.Time
}

// Store persists ballot aggregates. Calls against the same ballot are
// serialized in-process, and each Update runs in a single transaction.
type Store struct {
	db        *sql.DB
	forUpdate string
	locks     *keyedMutex
	now       func() time.Time
}

func NewStore(db *sql.DB, databaseType string) *Store {
	s := &Store{
		db:    db,
		locks: newKeyedMutex(),
		now:   time.Now,
	}
	if databaseType == cliparse.DatabasePostgres {
		s.forUpdate = " FOR UPDATE"
	}
	return s
}

// Create stores a new ballot under id and journals its creation.
func (s *Store) Create(ctx context.Context, id string, b *ballot.Ballot, origin Origin) error {
	unlock := s.locks.lock(id)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO ballot (id, chairperson, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, id, b.Chairperson().String(), now, now)
	if err != nil {
		return fmt.Errorf("failed to insert ballot: %w", err)
	}

	if err := saveDiff(ctx, tx, id, ballot.Snapshot{}, b.Snapshot()); err != nil {
		return err
	}

	created := ballot.Event{
		Op:       ballot.OpCreate,
		Caller:   b.Chairperson(),
		Target:   ids.ShortEmpty,
		Proposal: -1,
	}
	if err := appendEvents(ctx, tx, id, origin, now, []ballot.Event{created}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load returns a detached copy of the ballot. Changes to it are not saved.
func (s *Store) Load(ctx context.Context, id string) (*ballot.Ballot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	return s.load(ctx, tx, id, "")
}

// Update loads the ballot, runs fn against it and saves the result with the
// events fn produced. If fn or any write fails, nothing is saved.
func (s *Store) Update(ctx context.Context, id string, origin Origin, fn func(*ballot.Ballot) error) ([]ballot.Event, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	b, err := s.load(ctx, tx, id, s.forUpdate)
	if err != nil {
		return nil, err
	}

	var events []ballot.Event
	b.SetListener(ballot.ListenerFunc(func(e ballot.Event) {
		events = append(events, e)
	}))
	before := b.Snapshot()
	if err := fn(b); err != nil {
		return nil, err
	}
	b.SetListener(nil)
	if len(events) == 0 {
		return nil, nil
	}

	if err := saveDiff(ctx, tx, id, before, b.Snapshot()); err != nil {
		return nil, err
	}
	now := s.now()
	if _, err := tx.ExecContext(ctx, `UPDATE ballot SET updated_at = $1 WHERE id = $2`, now, id); err != nil {
		return nil, fmt.Errorf("failed to touch ballot: %w", err)
	}
	if err := appendEvents(ctx, tx, id, origin, now, events); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return events, nil
}

// Events returns the ballot's journal in order.
func (s *Store) Events(ctx context.Context, id string) ([]JournalEntry, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM ballot WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballot: %w", err)
	}
	if !exists {
		return nil, ErrBallotNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, op, caller, target, proposal, weight, created_at
		FROM ballot_event
		WHERE ballot_id = $1
		ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	entries := []JournalEntry{}
	for rows.Next() {
		var (
			e        JournalEntry
			op       string
			caller   sql.NullString
			target   sql.NullString
			proposal sql.NullInt64
			weight   int64
		)
		if err := rows.Scan(&e.Seq, &op, &caller, &target, &proposal, &weight, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Op = ballot.Op(op)
		e.Weight = uint32(weight)
		if e.Caller, err = nullPrincipal(caller); err != nil {
			return nil, err
		}
		if e.Target, err = nullPrincipal(target); err != nil {
			return nil, err
		}
		if proposal.Valid {
			p := int(proposal.Int64)
			e.Proposal = &p
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return entries, nil
}

func (s *Store) load(ctx context.Context, tx *sql.Tx, id, lockClause string) (*ballot.Ballot, error) {
	var chair string
	err := tx.QueryRowContext(ctx, `SELECT chairperson FROM ballot WHERE id = $1`+lockClause, id).Scan(&chair)
	if err == sql.ErrNoRows {
		return nil, ErrBallotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ballot: %w", err)
	}

	snap := ballot.Snapshot{Voters: make(map[ballot.PrincipalID]ballot.Voter)}
	if snap.ChairPerson, err = ids.ShortFromString(chair); err != nil {
		return nil, fmt.Errorf("%w: chairperson %q: %v", ballot.ErrCorruptSnapshot, chair, err)
	}

	if snap.Proposals, err = loadProposals(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := loadVoters(ctx, tx, id, snap.Voters); err != nil {
		return nil, err
	}

	return ballot.Restore(snap)
}

func loadProposals(ctx context.Context, tx *sql.Tx, id string) ([]ballot.Proposal, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT idx, name, vote_count FROM proposal
		WHERE ballot_id = $1
		ORDER BY idx
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposals: %w", err)
	}
	defer rows.Close()

	proposals := []ballot.Proposal{}
	for rows.Next() {
		var (
			idx   int
			p     ballot.Proposal
			count int64
		)
		if err := rows.Scan(&idx, &p.Name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		if idx != len(proposals) {
			return nil, fmt.Errorf("%w: proposal index %d out of sequence", ballot.ErrCorruptSnapshot, idx)
		}
		p.VoteCount = uint32(count)
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read proposals: %w", err)
	}
	return proposals, nil
}

func loadVoters(ctx context.Context, tx *sql.Tx, id string, into map[ballot.PrincipalID]ballot.Voter) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT principal, weight, has_voted, delegated_to, voted_proposal FROM voter
		WHERE ballot_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			principal   string
			weight      int64
			v           ballot.Voter
			delegatedTo sql.NullString
			votedFor    sql.NullInt64
		)
		if err := rows.Scan(&principal, &weight, &v.HasVoted, &delegatedTo, &votedFor); err != nil {
			return fmt.Errorf("failed to scan voter: %w", err)
		}
		pid, err := ids.ShortFromString(principal)
		if err != nil {
			return fmt.Errorf("%w: voter %q: %v", ballot.ErrCorruptSnapshot, principal, err)
		}
		v.Weight = uint32(weight)
		if v.DelegatedTo, err = nullPrincipal(delegatedTo); err != nil {
			return err
		}
		if votedFor.Valid {
			idx := int(votedFor.Int64)
			v.VotedProposalIndex = &idx
		}
		into[pid] = v
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read voters: %w", err)
	}
	return nil
}

// saveDiff writes the proposals and voters that differ between before and
// after. Rows are never deleted.
func saveDiff(ctx context.Context, tx *sql.Tx, id string, before, after ballot.Snapshot) error {
	for i, p := range after.Proposals {
		if i < len(before.Proposals) && before.Proposals[i] == p {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO proposal (ballot_id, idx, name, vote_count)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (ballot_id, idx) DO UPDATE SET vote_count = EXCLUDED.vote_count
		`, id, i, p.Name, int64(p.VoteCount))
		if err != nil {
			return fmt.Errorf("failed to save proposal %d: %w", i, err)
		}
	}

	for pid, v := range after.Voters {
		if old, ok := before.Voters[pid]; ok && sameVoter(old, v) {
			continue
		}
		var (
			delegatedTo sql.NullString
			votedFor    sql.NullInt64
		)
		if v.DelegatedTo != nil {
			delegatedTo = sql.NullString{String: v.DelegatedTo.String(), Valid: true}
		}
		if v.VotedProposalIndex != nil {
			votedFor = sql.NullInt64{Int64: int64(*v.VotedProposalIndex), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO voter (ballot_id, principal, weight, has_voted, delegated_to, voted_proposal)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (ballot_id, principal) DO UPDATE SET
				weight = EXCLUDED.weight,
				has_voted = EXCLUDED.has_voted,
				delegated_to = EXCLUDED.delegated_to,
				voted_proposal = EXCLUDED.voted_proposal
		`, id, pid.String(), int64(v.Weight), v.HasVoted, delegatedTo, votedFor)
		if err != nil {
			return fmt.Errorf("failed to save voter %s: %w", pid, err)
		}
	}
	return nil
}

func appendEvents(ctx context.Context, tx *sql.Tx, id string, origin Origin, at time.Time, events []ballot.Event) error {
	var seq int
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM ballot_event WHERE ballot_id = $1
	`, id).Scan(&seq)
	if err != nil {
		return fmt.Errorf("failed to query journal: %w", err)
	}

	var ipHash sql.NullString
	if origin.IPHash != "" {
		ipHash = sql.NullString{String: origin.IPHash, Valid: true}
	}

	for _, e := range events {
		seq++
		if e.Caller == ids.ShortEmpty {
			e.Caller = origin.Principal
		}
		var proposal sql.NullInt64
		if e.Proposal >= 0 {
			proposal = sql.NullInt64{Int64: int64(e.Proposal), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ballot_event (ballot_id, seq, op, caller, target, proposal, weight, ip_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, id, seq, string(e.Op), principalOrNull(e.Caller), principalOrNull(e.Target), proposal, int64(e.Weight), ipHash, at)
		if err != nil {
			return fmt.Errorf("failed to journal %s: %w", e.Op, err)
		}
	}
	return nil
}

func sameVoter(a, b ballot.Voter) bool {
	if a.Weight != b.Weight || a.HasVoted != b.HasVoted {
		return false
	}
	if (a.DelegatedTo == nil) != (b.DelegatedTo == nil) || (a.DelegatedTo != nil && *a.DelegatedTo != *b.DelegatedTo) {
		return false
	}
	if (a.VotedProposalIndex == nil) != (b.VotedProposalIndex == nil) ||
		(a.VotedProposalIndex != nil && *a.VotedProposalIndex != *b.VotedProposalIndex) {
		return false
	}
	return true
}

func principalOrNull(id ids.ShortID) sql.NullString {
	if id == ids.ShortEmpty {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}

func nullPrincipal(s sql.NullString) (*ids.ShortID, error) {
	if !s.Valid {
		return nil, nil
	}
	id, err := ids.ShortFromString(s.String)
	if err != nil {
		return nil, fmt.Errorf("%w: principal %q: %v", ballot.ErrCorruptSnapshot, s.String, err)
	}
	return &id, nil
}

// keyedMutex hands out one mutex per key and forgets keys nobody holds.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{entries: make(map[string]*keyedEntry)}
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &keyedEntry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
