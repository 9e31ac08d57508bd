// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides caller identity and identifier utilities for the host.

# Principal Tokens

A principal token is a random 24-byte (192-bit) secret:

	token, err := auth.GeneratePrincipalToken()

Tokens are URL-safe base64 without padding and sent in the X-Principal-Token
header on every call.

# Principal IDs

The principal ID the ballot engine sees is derived from the token with
HMAC-SHA256 and truncated to a 20-byte ids.ShortID:

	id, err := auth.DerivePrincipalID(token, salt)

Derivation is deterministic, so tokens are never stored. Losing a token means
losing the identity.

	id, err := auth.ParsePrincipalID(text)  // from the ShortID string form

# Ballot IDs

Ballots are addressed by UUID:

	id := auth.NewBallotID()
	id, err := auth.ParseBallotID(pathValue)

# IP Hashing

The operation journal records a salted hash instead of the client address:

	hash := auth.HashIP(ipAddress, salt)
*/
package auth
