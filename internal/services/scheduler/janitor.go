package scheduler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"go.uber.org/multierr"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
)

// JanitorJobName is the scheduler job name of the scratch sweep.
const JanitorJobName = "scratch-janitor"

// Janitor removes scratch files left behind by requests that never reached
// their own cleanup.
type Janitor struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
	logger arbor.ILogger
}

func NewJanitor(dir string, maxAge time.Duration, logger arbor.ILogger) *Janitor {
	return &Janitor{
		dir:    dir,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger,
	}
}

// Sweep deletes workspace files in the scratch directory older than maxAge and
// returns how many were removed. Files not named like a workspace are left
// alone. A missing directory is not an error.
func (j *Janitor) Sweep() (int, error) {
	entries, err := os.ReadDir(j.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read scratch dir: %w", err)
	}

	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	var errs error

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !common.IsWorkspaceFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.dir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = multierr.Append(errs, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info().
			Int("removed", removed).
			Str("dir", j.dir).
			Msg("Removed abandoned scratch files")
	}

	return removed, errs
}

// Run adapts Sweep to a scheduler job handler.
func (j *Janitor) Run() error {
	_, err := j.Sweep()
	return err
}
