// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-ballot/ballot"
	"github.com/danielhkuo/quickly-ballot/db"
	"github.com/danielhkuo/quickly-ballot/middleware"
)

// statusFor maps ballot error codes to HTTP status codes
var statusFor = map[string]int{
	"Unauthorized":     http.StatusForbidden,
	"NoRight":          http.StatusForbidden,
	"UnknownVoter":     http.StatusNotFound,
	"IndexOutOfBounds": http.StatusNotFound,
	"NoWinner":         http.StatusNotFound,
	"AlreadyVoted":     http.StatusConflict,
	"ReentrantCall":    http.StatusConflict,
	"SelfDelegation":   http.StatusUnprocessableEntity,
	"InvalidDelegate":  http.StatusUnprocessableEntity,
	"WeightOverflow":   http.StatusUnprocessableEntity,
}

// writeError answers a failed store or ballot call. Anything that is not a
// known ballot rejection is logged and reported as a database error.
func writeError(w http.ResponseWriter, err error, ballotID string) {
	if errors.Is(err, db.ErrBallotNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}
	code := ballot.Code(err)
	if status, ok := statusFor[code]; ok {
		middleware.CodedErrorResponse(w, status, code, err.Error())
		return
	}
	slog.Error("ballot operation failed", "error", err, "ballot_id", ballotID)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}
