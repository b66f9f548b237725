package domain

import "errors"

// Sentinel errors for cross-package error classification. Callers wrap
// these so commands can distinguish fatal preconditions from the soft,
// degrade-to-unknown failures that keep a pass running.
//
//	return fmt.Errorf("repository %s: %w", name, domain.ErrRepositoryMissing)
var (
	// ErrRepositoryMissing indicates the local replica path does not
	// exist. This is fatal for a monitoring pass: there is nothing to
	// monitor.
	ErrRepositoryMissing = errors.New("repository path missing")

	// ErrNoServers indicates every discovery source came up empty and
	// not even a placeholder could be emitted.
	ErrNoServers = errors.New("no upstream servers resolved")

	// ErrPassLocked indicates another monitoring pass holds the lock file.
	ErrPassLocked = errors.New("another pass is already running")
)
