// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for the configured origins:

	handler := middleware.CORS(cfg.AllowedOrigins)(mux)

Allows GET, POST and OPTIONS with the Content-Type and X-Principal-Token
headers. Preflight handling is done by github.com/rs/cors.

# Caller Identity

Mutating routes need the caller's principal:

	mux.HandleFunc("POST /ballots", middleware.RequirePrincipal(cfg.PrincipalSalt, h.CreateBallot))

	caller, _ := middleware.Principal(r.Context())

A missing or malformed X-Principal-Token header is answered with 401.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.CodedErrorResponse(w, http.StatusConflict, "AlreadyVoted", "message")

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

The IP is only ever stored hashed, in the ballot journal.
*/
package middleware
