// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exports Prometheus counters for ballot operations.
// A *Metrics is a ballot.Listener, so it can observe a ballot directly or be
// fed the events a store update returns.
package metrics
