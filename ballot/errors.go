// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "errors"

var (
	ErrUnauthorized     = errors.New("caller is not allowed to perform this operation")
	ErrUnknownVoter     = errors.New("voter is not registered")
	ErrAlreadyVoted     = errors.New("voter has already voted")
	ErrSelfDelegation   = errors.New("self-delegation is disallowed")
	ErrInvalidDelegate  = errors.New("invalid delegate")
	ErrNoRight          = errors.New("voter has no right to vote")
	ErrIndexOutOfBounds = errors.New("proposal index out of bounds")
	ErrNoWinner         = errors.New("no winning proposal")

	ErrReentrantCall   = errors.New("ballot is busy with another call")
	ErrWeightOverflow  = errors.New("vote weight overflow")
	ErrCorruptSnapshot = errors.New("corrupt ballot snapshot")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, "Unauthorized"},
	{ErrUnknownVoter, "UnknownVoter"},
	{ErrAlreadyVoted, "AlreadyVoted"},
	{ErrSelfDelegation, "SelfDelegation"},
	{ErrInvalidDelegate, "InvalidDelegate"},
	{ErrNoRight, "NoRight"},
	{ErrIndexOutOfBounds, "IndexOutOfBounds"},
	{ErrNoWinner, "NoWinner"},
	{ErrReentrantCall, "ReentrantCall"},
	{ErrWeightOverflow, "WeightOverflow"},
	{ErrCorruptSnapshot, "CorruptSnapshot"},
}

// Code returns the taxonomy name of a ballot error, or "" if err is not one.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
