// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-ballot/auth"
	"github.com/danielhkuo/quickly-ballot/ballot"
	"github.com/danielhkuo/quickly-ballot/cliparse"
	"github.com/danielhkuo/quickly-ballot/db"
	"github.com/danielhkuo/quickly-ballot/metrics"
	"github.com/danielhkuo/quickly-ballot/middleware"
	"github.com/danielhkuo/quickly-ballot/models"
)

// maxNameLen bounds proposal names accepted over HTTP
const maxNameLen = 200

type BallotHandler struct {
	deps
}

func NewBallotHandler(store *db.Store, cfg cliparse.Config, m *metrics.Metrics) *BallotHandler {
	return &BallotHandler{deps{store: store, cfg: cfg, metrics: m}}
}

func validName(name string) bool {
	return name != "" && len(name) <= maxNameLen
}

// CreateBallot handles POST /ballots
func (h *BallotHandler) CreateBallot(w http.ResponseWriter, r *http.Request) {
	chair, ok := caller(w, r)
	if !ok {
		return
	}

	// The body is optional; an empty one means no proposals.
	var req models.CreateBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	for _, name := range req.Proposals {
		if !validName(name) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "proposal names must be 1-200 characters")
			return
		}
	}

	id := auth.NewBallotID()
	b := ballot.New(chair, req.Proposals)
	if err := h.store.Create(r.Context(), id, b, h.origin(r)); err != nil {
		slog.Error("failed to create ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create ballot")
		return
	}
	h.metrics.BallotChanged(ballot.Event{Op: ballot.OpCreate, Caller: chair, Proposal: -1})

	slog.Info("ballot created", "ballot_id", id, "chairperson", chair.String(), "proposals", len(req.Proposals))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateBallotResponse{
		BallotID:    id,
		Chairperson: chair.String(),
	})
}

// GetBallot handles GET /ballots/{id}
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}
	b, ok := h.load(w, r, id)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.Ballot{
		ID:          id,
		Chairperson: b.Chairperson().String(),
		VoterCount:  b.VoterCount(),
		Proposals:   proposalModels(b.Proposals()),
	})
}

// GetChairperson handles GET /ballots/{id}/chairperson
func (h *BallotHandler) GetChairperson(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}
	b, ok := h.load(w, r, id)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ChairpersonResponse{Chairperson: b.Chairperson().String()})
}

// AddProposal handles POST /ballots/{id}/proposals
func (h *BallotHandler) AddProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}

	var req models.AddProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !validName(req.Name) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be 1-200 characters")
		return
	}

	var index int
	ok = h.mutate(w, r, id, ballot.OpAddProposal, func(b *ballot.Ballot) error {
		var err error
		index, err = b.AddProposal(req.Name)
		return err
	})
	if !ok {
		return
	}

	slog.Info("proposal added", "ballot_id", id, "index", index)

	middleware.JSONResponse(w, http.StatusCreated, models.AddProposalResponse{Index: index})
}

// GetProposalCount handles GET /ballots/{id}/proposals/count
func (h *BallotHandler) GetProposalCount(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}
	b, ok := h.load(w, r, id)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ProposalCountResponse{Count: b.ProposalCount()})
}

// GetProposal handles GET /ballots/{id}/proposals/{index}
func (h *BallotHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	b, ok := h.load(w, r, id)
	if !ok {
		return
	}

	name, err := b.ProposalNameAt(index)
	if err != nil {
		writeError(w, err, id)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ProposalNameResponse{Index: index, Name: name})
}
