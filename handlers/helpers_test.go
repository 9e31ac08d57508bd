// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-ballot/cliparse"
	"github.com/danielhkuo/quickly-ballot/db"
	"github.com/danielhkuo/quickly-ballot/middleware"
	"github.com/danielhkuo/quickly-ballot/testutil"
)

type testEnv struct {
	store   *db.Store
	cfg     cliparse.Config
	ballots *BallotHandler
	voting  *VotingHandler
	results *ResultsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	m := testutil.GetTestMetrics(t)
	return &testEnv{
		store:   store,
		cfg:     cfg,
		ballots: NewBallotHandler(store, cfg, m),
		voting:  NewVotingHandler(store, cfg, m),
		results: NewResultsHandler(store, cfg, m),
	}
}

// call serves req with fn behind principal extraction, the way the router
// mounts mutating routes. pathValues are name/value pairs.
func (e *testEnv) call(fn http.HandlerFunc, req *http.Request, pathValues ...string) *httptest.ResponseRecorder {
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	w := httptest.NewRecorder()
	middleware.RequirePrincipal(e.cfg.PrincipalSalt, fn)(w, req)
	return w
}

// get serves a read-only request without principal extraction
func (e *testEnv) get(fn http.HandlerFunc, req *http.Request, pathValues ...string) *httptest.ResponseRecorder {
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	w := httptest.NewRecorder()
	fn(w, req)
	return w
}
