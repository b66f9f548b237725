package pass

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

func TestAcquireLock(t *testing.T) {
	dir := t.TempDir()

	release, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, lockFileName)); err != nil {
		t.Fatalf("lock file not created: %v", err)
	}

	release()
	if _, err := os.Stat(filepath.Join(dir, lockFileName)); !errors.Is(err, os.ErrNotExist) {
		t.Error("release must remove the lock file")
	}
}

func TestAcquireLock_Busy(t *testing.T) {
	dir := t.TempDir()

	release, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	defer release()

	if _, err := acquireLock(dir); !errors.Is(err, domain.ErrPassLocked) {
		t.Errorf("expected ErrPassLocked while held, got: %v", err)
	}
}

func TestAcquireLock_StaleTakeover(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, lockFileName)

	if err := os.WriteFile(path, []byte("12345 2020-01-01T00:00:00Z\n"), 0o644); err != nil {
		t.Fatalf("failed to plant stale lock: %v", err)
	}
	old := time.Now().Add(-staleLockAge - time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("failed to age lock file: %v", err)
	}

	release, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("expected stale lock takeover, got: %v", err)
	}
	release()
}

func TestAcquireLock_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	release, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("acquire with missing data dir failed: %v", err)
	}
	release()
}
