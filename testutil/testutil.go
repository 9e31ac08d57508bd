// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/luxfi/ids"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/quickly-ballot/auth"
	"github.com/danielhkuo/quickly-ballot/ballot"
	"github.com/danielhkuo/quickly-ballot/cliparse"
	"github.com/danielhkuo/quickly-ballot/db"
	"github.com/danielhkuo/quickly-ballot/metrics"
	"github.com/danielhkuo/quickly-ballot/models"
)

// SetupTestDB creates a fresh SQLite database in a temp dir with the full schema.
// The connection is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(context.Background(), cliparse.DatabaseSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// SetupTestStore returns a store over a fresh test database
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(SetupTestDB(t), cliparse.DatabaseSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           cliparse.DefaultPort,
		DatabaseURL:    "file::memory:",
		DatabaseType:   cliparse.DatabaseSQLite,
		PrincipalSalt:  "test-principal-salt",
		AllowedOrigins: []string{"*"},
		LogFormat:      "text",
	}
}

// GetTestMetrics returns metrics registered on a private registry
func GetTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	m, err := metrics.New("ballot", prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("Failed to register metrics: %v", err)
	}
	return m
}

// Principal is a test caller: its token and the ID derived from it
type Principal struct {
	Token string
	ID    ids.ShortID
}

// Headers returns the request headers identifying p
func (p Principal) Headers() map[string]string {
	return map[string]string{models.HeaderPrincipalToken: p.Token}
}

// NewPrincipal issues a token and derives its principal ID under cfg's salt
func NewPrincipal(t *testing.T, cfg cliparse.Config) Principal {
	t.Helper()

	token, err := auth.GeneratePrincipalToken()
	if err != nil {
		t.Fatalf("Failed to generate principal token: %v", err)
	}
	id, err := auth.DerivePrincipalID(token, cfg.PrincipalSalt)
	if err != nil {
		t.Fatalf("Failed to derive principal id: %v", err)
	}
	return Principal{Token: token, ID: id}
}

// CreateTestBallot stores a ballot chaired by chair and returns its ID
func CreateTestBallot(t *testing.T, store *db.Store, chair ids.ShortID, proposals ...string) string {
	t.Helper()

	id := auth.NewBallotID()
	if err := store.Create(context.Background(), id, ballot.New(chair, proposals), db.Origin{}); err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}
	return id
}

// AddTestVoter registers voter on the ballot and, if enfranchise is set,
// gives it the right to vote as chair
func AddTestVoter(t *testing.T, store *db.Store, ballotID string, chair, voter ids.ShortID, enfranchise bool) {
	t.Helper()

	_, err := store.Update(context.Background(), ballotID, db.Origin{}, func(b *ballot.Ballot) error {
		if _, err := b.AddVoter(voter); err != nil {
			return err
		}
		if enfranchise {
			return b.GiveVotingRight(chair, voter)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to add test voter: %v", err)
	}
}

// LoadTestBallot reads a ballot back from the store
func LoadTestBallot(t *testing.T, store *db.Store, ballotID string) *ballot.Ballot {
	t.Helper()

	b, err := store.Load(context.Background(), ballotID)
	if err != nil {
		t.Fatalf("Failed to load test ballot: %v", err)
	}
	return b
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode checks the status and the ballot error code of an error response
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, w, status)
	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Code != code {
		t.Errorf("Expected error code %q, got %q (%s)", code, resp.Code, resp.Message)
	}
}
