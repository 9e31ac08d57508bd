// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-ballot/auth"
	"github.com/danielhkuo/quickly-ballot/cliparse"
	"github.com/danielhkuo/quickly-ballot/middleware"
	"github.com/danielhkuo/quickly-ballot/models"
)

type PrincipalHandler struct {
	cfg cliparse.Config
}

func NewPrincipalHandler(cfg cliparse.Config) *PrincipalHandler {
	return &PrincipalHandler{cfg: cfg}
}

// Issue handles POST /principals
func (h *PrincipalHandler) Issue(w http.ResponseWriter, r *http.Request) {
	token, err := auth.GeneratePrincipalToken()
	if err != nil {
		slog.Error("failed to generate principal token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue principal")
		return
	}
	id, err := auth.DerivePrincipalID(token, h.cfg.PrincipalSalt)
	if err != nil {
		slog.Error("failed to derive principal id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue principal")
		return
	}

	slog.Info("principal issued", "principal_id", id)

	middleware.JSONResponse(w, http.StatusCreated, models.IssuePrincipalResponse{
		Token:       token,
		PrincipalID: id.String(),
	})
}

// Me handles GET /principals/me
func (h *PrincipalHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.Principal(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, middleware.ErrMissingPrincipal.Error())
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PrincipalResponse{PrincipalID: id.String()})
}
