// Package repo detects and fetches the git working copies calibration
// indexes are published as.
package repo

import (
	"context"
	"io"
	"time"

	"github.com/go-git/go-git/v5"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Fetcher populates dir with a complete local copy of remote.
type Fetcher interface {
	Fetch(ctx context.Context, remote, dir string) error
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, remote, dir string) error

func (f FetcherFunc) Fetch(ctx context.Context, remote, dir string) error {
	return f(ctx, remote, dir)
}

var _ Fetcher = &GitFetcher{}

// GitFetcher clones remote with go-git. Transient network failures are
// returned as-is; nothing is retried.
type GitFetcher struct {
	// Progress receives the server's sideband output, if set.
	Progress io.Writer
}

func (g *GitFetcher) Fetch(ctx context.Context, remote, dir string) error {
	logrus.WithFields(logrus.Fields{
		"remote": remote,
		"dir":    dir,
	}).Info("cloning calibration repository")
	start := time.Now()

	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:      remote,
		Progress: g.Progress,
	})
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to clone %s into %s", remote, dir)
	}

	logrus.WithField("elapsed", time.Since(start)).Debug("clone finished")
	return nil
}

// IsRepository reports whether dir itself is the root of a git working copy.
// Parent directories are not searched.
func IsRepository(dir string) (bool, error) {
	_, err := git.PlainOpen(dir)
	if err == nil {
		return true, nil
	}
	if pkgerrors.Is(err, git.ErrRepositoryNotExists) {
		return false, nil
	}
	return false, pkgerrors.Wrapf(err, "failed to open %s as a git repository", dir)
}
