package pass

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/logging"
)

const lockFileName = ".pass.lock"

// staleLockAge is how old a lock file must be before a new pass assumes
// the holder died and takes the lock over. Full passes finish in seconds;
// anything beyond this is a crashed run.
const staleLockAge = 2 * time.Hour

// acquireLock guards against overlapping passes writing to the same
// store. The returned release func removes the lock; callers must defer
// it. A live lock yields domain.ErrPassLocked.
func acquireLock(dataDir string) (func(), error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	path := filepath.Join(dataDir, lockFileName)

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d %s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create lock file %s: %w", path, err)
		}

		info, statErr := os.Stat(path)
		if statErr == nil && time.Since(info.ModTime()) > staleLockAge {
			logging.Component("pass").WithField("lock", path).Warn("taking over stale pass lock")
			os.Remove(path)
			continue
		}
		break
	}

	return nil, fmt.Errorf("%w (lock file %s)", domain.ErrPassLocked, path)
}
