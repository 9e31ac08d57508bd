// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-ballot/ballot"
	"github.com/danielhkuo/quickly-ballot/cliparse"
	"github.com/danielhkuo/quickly-ballot/db"
	"github.com/danielhkuo/quickly-ballot/metrics"
	"github.com/danielhkuo/quickly-ballot/middleware"
	"github.com/danielhkuo/quickly-ballot/models"
)

type VotingHandler struct {
	deps
}

func NewVotingHandler(store *db.Store, cfg cliparse.Config, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{deps{store: store, cfg: cfg, metrics: m}}
}

// AddVoter handles POST /ballots/{id}/voters
func (h *VotingHandler) AddVoter(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}

	var req models.AddVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	voter, ok := principalParam(w, req.Voter, "voter")
	if !ok {
		return
	}

	var added bool
	ok = h.mutate(w, r, id, ballot.OpAddVoter, func(b *ballot.Ballot) error {
		var err error
		added, err = b.AddVoter(voter)
		return err
	})
	if !ok {
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
		slog.Info("voter added", "ballot_id", id, "voter", voter.String())
	}
	middleware.JSONResponse(w, status, models.AddVoterResponse{Voter: voter.String(), Added: added})
}

// GetVoter handles GET /ballots/{id}/voters/{voter}
func (h *VotingHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}
	voter, ok := principalParam(w, r.PathValue("voter"), "voter")
	if !ok {
		return
	}
	b, ok := h.load(w, r, id)
	if !ok {
		return
	}

	v, found := b.Voter(voter)
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voterModel(voter, v))
}

// GiveVotingRight handles POST /ballots/{id}/voters/{voter}/right
func (h *VotingHandler) GiveVotingRight(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}
	chair, ok := caller(w, r)
	if !ok {
		return
	}
	voter, ok := principalParam(w, r.PathValue("voter"), "voter")
	if !ok {
		return
	}

	var after ballot.Voter
	ok = h.mutate(w, r, id, ballot.OpGrantRight, func(b *ballot.Ballot) error {
		if err := b.GiveVotingRight(chair, voter); err != nil {
			return err
		}
		after, _ = b.Voter(voter)
		return nil
	})
	if !ok {
		return
	}

	slog.Info("voting right given", "ballot_id", id, "voter", voter.String())

	middleware.JSONResponse(w, http.StatusOK, voterModel(voter, after))
}

// Delegate handles POST /ballots/{id}/delegate
func (h *VotingHandler) Delegate(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}
	from, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.DelegateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	to, ok := principalParam(w, req.To, "to")
	if !ok {
		return
	}

	var after ballot.Voter
	ok = h.mutate(w, r, id, ballot.OpDelegate, func(b *ballot.Ballot) error {
		if err := b.Delegate(from, to); err != nil {
			return err
		}
		after, _ = b.Voter(from)
		return nil
	})
	if !ok {
		return
	}

	slog.Info("vote delegated", "ballot_id", id, "from", from.String(), "to", to.String())

	middleware.JSONResponse(w, http.StatusOK, voterModel(from, after))
}

// Vote handles POST /ballots/{id}/vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}
	voter, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Proposal == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal is required")
		return
	}

	var after ballot.Voter
	ok = h.mutate(w, r, id, ballot.OpVote, func(b *ballot.Ballot) error {
		if err := b.Vote(voter, *req.Proposal); err != nil {
			return err
		}
		after, _ = b.Voter(voter)
		return nil
	})
	if !ok {
		return
	}

	slog.Info("vote cast", "ballot_id", id, "voter", voter.String(), "proposal", *req.Proposal)

	middleware.JSONResponse(w, http.StatusOK, voterModel(voter, after))
}
