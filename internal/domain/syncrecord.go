package domain

import (
	"fmt"
	"time"
)

// SyncStatus classifies the local replica's state relative to a single
// upstream server at one point in time.
type SyncStatus int

const (
	// StatusSynchronized means local and upstream agree on revision
	// (and root hash, where both are known).
	StatusSynchronized SyncStatus = iota

	// StatusOutOfSync means the upstream has a newer published state.
	StatusOutOfSync

	// StatusAheadOfUpstream means the local replica is newer than the
	// upstream, which usually indicates comparing against a stale mirror.
	StatusAheadOfUpstream

	// StatusHashMismatch means revisions agree but root hashes differ.
	// This is never expected and indicates corruption or a parsing bug;
	// it must surface even though the revisions match.
	StatusHashMismatch

	// StatusUnreachable means the upstream manifest could not be fetched.
	StatusUnreachable
)

// String returns the operator-facing label for the status.
func (s SyncStatus) String() string {
	switch s {
	case StatusSynchronized:
		return "synchronized"
	case StatusOutOfSync:
		return "out-of-sync"
	case StatusAheadOfUpstream:
		return "ahead-of-upstream"
	case StatusHashMismatch:
		return "hash-mismatch"
	case StatusUnreachable:
		return "unreachable"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler so the status serializes
// as its label in JSON and CSV output.
func (s SyncStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, the inverse of
// MarshalText.
func (s *SyncStatus) UnmarshalText(text []byte) error {
	parsed, ok := ParseStatus(string(text))
	if !ok {
		return fmt.Errorf("unknown sync status %q", text)
	}
	*s = parsed
	return nil
}

// ParseStatus maps a stored status label back to its SyncStatus.
func ParseStatus(label string) (SyncStatus, bool) {
	for _, s := range []SyncStatus{
		StatusSynchronized, StatusOutOfSync, StatusAheadOfUpstream,
		StatusHashMismatch, StatusUnreachable,
	} {
		if s.String() == label {
			return s, true
		}
	}
	return StatusUnreachable, false
}

// UnknownLag marks a revision lag that could not be estimated because one
// or both publish timestamps are unknown.
const UnknownLag float64 = -1

// SyncRecord is one comparison between the local replica and one upstream
// server. Records are immutable once created and appended to the
// time-series store; retention is an external concern.
type SyncRecord struct {
	Timestamp time.Time  `json:"timestamp"`
	Server    string     `json:"server"`
	Local     Manifest   `json:"local"`
	Upstream  Manifest   `json:"upstream"`
	Status    SyncStatus `json:"status"`

	// LagHours approximates how far the local replica trails the upstream,
	// derived from publish timestamps. UnknownLag when either timestamp is
	// unknown or the record is not out-of-sync.
	LagHours float64 `json:"lag_hours"`
}

// SyncSummary aggregates the per-server records of one pass.
type SyncSummary struct {
	Synchronized int `json:"synchronized"`
	OutOfSync    int `json:"out_of_sync"`
	Unreachable  int `json:"unreachable"`

	// LatestServer names the server holding the freshest known publish
	// timestamp across the pass, reachable or not. Empty if no server
	// reported a timestamp. It guides operator action (trigger a snapshot,
	// check connectivity) even when no single upstream is authoritative.
	LatestServer string `json:"latest_server,omitempty"`

	// LatestRevision is the revision published by LatestServer.
	LatestRevision int64 `json:"latest_revision"`
}
