// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-ballot/cliparse"
	"github.com/danielhkuo/quickly-ballot/db"
	"github.com/danielhkuo/quickly-ballot/handlers"
	"github.com/danielhkuo/quickly-ballot/metrics"
	"github.com/danielhkuo/quickly-ballot/middleware"
)

func NewRouter(store *db.Store, cfg cliparse.Config, m *metrics.Metrics, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	principalHandler := handlers.NewPrincipalHandler(cfg)
	ballotHandler := handlers.NewBallotHandler(store, cfg, m)
	votingHandler := handlers.NewVotingHandler(store, cfg, m)
	resultsHandler := handlers.NewResultsHandler(store, cfg, m)

	// authed wraps handlers that need the caller's principal
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequirePrincipal(cfg.PrincipalSalt, h))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Principals
	mux.HandleFunc("POST /principals", middleware.WithLogging(principalHandler.Issue))
	mux.HandleFunc("GET /principals/me", authed(principalHandler.Me))

	// Ballots and proposals
	mux.HandleFunc("POST /ballots", authed(ballotHandler.CreateBallot))
	mux.HandleFunc("GET /ballots/{id}", middleware.WithLogging(ballotHandler.GetBallot))
	mux.HandleFunc("GET /ballots/{id}/chairperson", middleware.WithLogging(ballotHandler.GetChairperson))
	mux.HandleFunc("POST /ballots/{id}/proposals", authed(ballotHandler.AddProposal))
	mux.HandleFunc("GET /ballots/{id}/proposals/count", middleware.WithLogging(ballotHandler.GetProposalCount))
	mux.HandleFunc("GET /ballots/{id}/proposals/{index}", middleware.WithLogging(ballotHandler.GetProposal))

	// Voters and voting
	mux.HandleFunc("POST /ballots/{id}/voters", authed(votingHandler.AddVoter))
	mux.HandleFunc("GET /ballots/{id}/voters/{voter}", middleware.WithLogging(votingHandler.GetVoter))
	mux.HandleFunc("POST /ballots/{id}/voters/{voter}/right", authed(votingHandler.GiveVotingRight))
	mux.HandleFunc("POST /ballots/{id}/delegate", authed(votingHandler.Delegate))
	mux.HandleFunc("POST /ballots/{id}/vote", authed(votingHandler.Vote))

	// Results
	mux.HandleFunc("GET /ballots/{id}/winner", middleware.WithLogging(resultsHandler.GetWinner))
	mux.HandleFunc("GET /ballots/{id}/events", middleware.WithLogging(resultsHandler.GetEvents))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-ballot API v1"))
	})

	return mux
}
