// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/luxfi/ids"
)

var (
	ErrInvalidToken = errors.New("invalid token format")
	ErrMissingSalt  = errors.New("principal salt is empty")
)

// 24 bytes = 192 bits of token entropy; principal IDs are 20-byte ShortIDs.
const (
	tokenBytes       = 24
	principalIDBytes = 20
)

// NewBallotID returns a fresh ballot identifier
func NewBallotID() string {
	return uuid.NewString()
}

// ParseBallotID checks that id is a ballot identifier and returns its canonical form
func ParseBallotID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid ballot id: %w", err)
	}
	return u.String(), nil
}

// GeneratePrincipalToken creates a random secure token for a caller.
// The token is the caller's only credential; the principal ID is derived from it.
func GeneratePrincipalToken() (string, error) {
	b := make([]byte, tokenBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate principal token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// ValidateToken checks the token format without deriving anything from it
func ValidateToken(token string) error {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) != tokenBytes {
		return ErrInvalidToken
	}
	return nil
}

// DerivePrincipalID maps a token to its principal ID.
// This is deterministic, so no token table is needed to authenticate a call.
func DerivePrincipalID(token, salt string) (ids.ShortID, error) {
	if salt == "" {
		return ids.ShortEmpty, ErrMissingSalt
	}
	if err := ValidateToken(token); err != nil {
		return ids.ShortEmpty, err
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(token))
	sum := h.Sum(nil)
	return ids.ToShortID(sum[:principalIDBytes])
}

// ParsePrincipalID parses the text form of a principal ID
func ParsePrincipalID(s string) (ids.ShortID, error) {
	id, err := ids.ShortFromString(s)
	if err != nil {
		return ids.ShortEmpty, fmt.Errorf("invalid principal id %q: %w", s, err)
	}
	if id == ids.ShortEmpty {
		return ids.ShortEmpty, fmt.Errorf("invalid principal id %q: empty", s)
	}
	return id, nil
}

// HashIP creates a one-way hash of an IP address for the operation journal
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
