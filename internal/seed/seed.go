// Package seed populates the vocabulary with the names of executables
// found on a search path, giving a fresh agent something to say.
package seed

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/forager/internal/vocab"
)

// #region seeder

// fallbackPath is used when neither the override nor $PATH is set.
const fallbackPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// Seeder scans search-path directories for executable names.
type Seeder struct {
	PerDirCap    int           // max words added per directory (0 = unlimited)
	DirTimeout   time.Duration // per-directory scan budget (0 = none)
	SkipSymlinks bool          // ignore symlinked entries
	logger       *zap.Logger
}

// New creates a seeder. logger may be nil for silence.
func New(perDirCap int, dirTimeout time.Duration, skipSymlinks bool, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		PerDirCap:    perDirCap,
		DirTimeout:   dirTimeout,
		SkipSymlinks: skipSymlinks,
		logger:       logger.Named("seed"),
	}
}

// #endregion seeder

// #region seed

// Seed appends the names of regular executable files from every
// directory on the colon-separated pathOverride (or $PATH, or the
// standard fallback) and returns how many words were added. Unreadable
// directories are skipped, not errors.
func (s *Seeder) Seed(v *vocab.Vocabulary, pathOverride string) int {
	search := pathOverride
	if search == "" {
		search = os.Getenv("PATH")
	}
	if search == "" {
		search = fallbackPath
	}

	total := 0
	for _, dir := range strings.Split(search, ":") {
		if dir == "" {
			continue
		}
		added := s.scanDir(v, dir)
		s.logger.Debug("scanned directory", zap.String("dir", dir), zap.Int("added", added))
		total += added
	}
	s.logger.Info("seeding complete", zap.Int("added", total))
	return total
}

// scanDir adds executable names from one directory, honoring the
// per-directory cap and scan budget.
func (s *Seeder) scanDir(v *vocab.Vocabulary, dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Debug("skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
		return 0
	}

	deadline := time.Time{}
	if s.DirTimeout > 0 {
		deadline = time.Now().Add(s.DirTimeout)
	}

	added := 0
	for _, entry := range entries {
		if !deadline.IsZero() && time.Now().After(deadline) {
			s.logger.Warn("directory scan timed out", zap.String("dir", dir), zap.Int("added", added))
			break
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			if s.SkipSymlinks {
				continue
			}
		} else if !entry.Type().IsRegular() {
			continue
		}
		// Stat follows symlinks, so a kept link must still point at a
		// regular executable file.
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.Mode().IsRegular() || info.Mode()&0o111 == 0 {
			continue
		}
		if _, isNew := v.Append(name); isNew {
			added++
		}
		if s.PerDirCap > 0 && added >= s.PerDirCap {
			s.logger.Debug("directory cap reached", zap.String("dir", dir), zap.Int("cap", s.PerDirCap))
			break
		}
	}
	return added
}

// #endregion seed
