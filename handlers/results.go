// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/luxfi/ids"

	"github.com/danielhkuo/quickly-ballot/cliparse"
	"github.com/danielhkuo/quickly-ballot/db"
	"github.com/danielhkuo/quickly-ballot/metrics"
	"github.com/danielhkuo/quickly-ballot/middleware"
	"github.com/danielhkuo/quickly-ballot/models"
)

type ResultsHandler struct {
	deps
}

func NewResultsHandler(store *db.Store, cfg cliparse.Config, m *metrics.Metrics) *ResultsHandler {
	return &ResultsHandler{deps{store: store, cfg: cfg, metrics: m}}
}

// GetWinner handles GET /ballots/{id}/winner
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}
	b, ok := h.load(w, r, id)
	if !ok {
		return
	}

	name, err := b.WinningProposalName()
	if err != nil {
		writeError(w, err, id)
		return
	}
	index, _ := b.WinningProposal()
	middleware.JSONResponse(w, http.StatusOK, models.WinnerResponse{Index: index, Name: name})
}

// GetEvents handles GET /ballots/{id}/events
func (h *ResultsHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := ballotID(w, r)
	if !ok {
		return
	}

	entries, err := h.store.Events(r.Context(), id)
	if err != nil {
		writeError(w, err, id)
		return
	}

	events := make([]models.Event, len(entries))
	for i, e := range entries {
		events[i] = models.Event{
			Seq:       e.Seq,
			Op:        string(e.Op),
			Caller:    principalString(e.Caller),
			Target:    principalString(e.Target),
			Proposal:  e.Proposal,
			Weight:    e.Weight,
			CreatedAt: e.CreatedAt,
		}
	}
	middleware.JSONResponse(w, http.StatusOK, models.EventsResponse{Events: events})
}

func principalString(id *ids.ShortID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
