package appupdate

import (
	"context"
	"io"
	"os"

	"github.com/creativeprojects/go-selfupdate"
)

// Release is the subset of release metadata the update check needs.
type Release interface {
	Version() string
}

// Updater detects the latest release of a repository.
type Updater interface {
	DetectLatest(ctx context.Context, repo string) (Release, bool, error)
}

// DefaultUpdater detects releases from GitHub.
type DefaultUpdater struct{}

func (DefaultUpdater) DetectLatest(ctx context.Context, repo string) (Release, bool, error) {
	release, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if release == nil {
		return nil, found, err
	}
	return release, found, err
}

// FileSystem abstracts the file operations used by the update check so tests
// can run without touching the real config directory.
type FileSystem interface {
	Open(name string) (io.ReadCloser, error)
	Create(name string) (io.WriteCloser, error)
}

// DefaultFileSystem is the os-backed FileSystem.
type DefaultFileSystem struct{}

func (DefaultFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (DefaultFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}
