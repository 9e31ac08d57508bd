// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/luxfi/ids"

	"github.com/danielhkuo/quickly-ballot/auth"
	"github.com/danielhkuo/quickly-ballot/ballot"
	"github.com/danielhkuo/quickly-ballot/cliparse"
	"github.com/danielhkuo/quickly-ballot/db"
	"github.com/danielhkuo/quickly-ballot/metrics"
	"github.com/danielhkuo/quickly-ballot/middleware"
	"github.com/danielhkuo/quickly-ballot/models"
)

// deps are shared by every ballot handler
type deps struct {
	store   *db.Store
	cfg     cliparse.Config
	metrics *metrics.Metrics
}

// ballotID reads and validates the {id} path value, answering 400 if it is bad
func ballotID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := auth.ParseBallotID(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid ballot id")
		return "", false
	}
	return id, true
}

func caller(w http.ResponseWriter, r *http.Request) (ids.ShortID, bool) {
	id, ok := middleware.Principal(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, middleware.ErrMissingPrincipal.Error())
	}
	return id, ok
}

func principalParam(w http.ResponseWriter, s, field string) (ids.ShortID, bool) {
	if s == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, field+" is required")
		return ids.ShortEmpty, false
	}
	id, err := auth.ParsePrincipalID(s)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid "+field)
		return ids.ShortEmpty, false
	}
	return id, true
}

func (d *deps) origin(r *http.Request) db.Origin {
	o := db.Origin{IPHash: auth.HashIP(middleware.GetClientIP(r), d.cfg.PrincipalSalt)}
	o.Principal, _ = middleware.Principal(r.Context())
	return o
}

// load fetches a ballot for reading, answering the error itself on failure
func (d *deps) load(w http.ResponseWriter, r *http.Request, id string) (*ballot.Ballot, bool) {
	b, err := d.store.Load(r.Context(), id)
	if err != nil {
		writeError(w, err, id)
		return nil, false
	}
	return b, true
}

// mutate runs fn as one stored update and records the outcome in metrics
func (d *deps) mutate(w http.ResponseWriter, r *http.Request, id string, op ballot.Op, fn func(*ballot.Ballot) error) bool {
	events, err := d.store.Update(r.Context(), id, d.origin(r), fn)
	if err != nil {
		if !errors.Is(err, db.ErrBallotNotFound) {
			d.metrics.MarkRejected(op, err)
		}
		writeError(w, err, id)
		return false
	}
	d.metrics.Observe(events)
	return true
}

func voterModel(id ids.ShortID, v ballot.Voter) models.Voter {
	m := models.Voter{
		ID:                 id.String(),
		Weight:             v.Weight,
		HasVoted:           v.HasVoted,
		VotedProposalIndex: v.VotedProposalIndex,
	}
	if v.DelegatedTo != nil {
		s := v.DelegatedTo.String()
		m.DelegatedTo = &s
	}
	return m
}

func proposalModels(ps []ballot.Proposal) []models.Proposal {
	out := make([]models.Proposal, len(ps))
	for i, p := range ps {
		out[i] = models.Proposal{Index: i, Name: p.Name, VoteCount: p.VoteCount}
	}
	return out
}
