// Package appupdate checks for newer releases in the background and records
// the latest known version so the CLI can print an upgrade notice. It never
// replaces the binary on its own.
package appupdate

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/execanything/xa/internal/core"
	"go.uber.org/zap"
)

const repositorySlug = "execanything/xa"

// CheckForUpdate launches a background check for a newer release. The
// returned channel yields the newer version string if one exists and is
// closed either way. Dev builds skip the check entirely.
func CheckForUpdate(
	currentVersion string,
	logger *zap.Logger,
	fs FileSystem,
	updater Updater,
) chan string {
	resultChannel := make(chan string)

	currentSemVer, err := semver.NewVersion(currentVersion)
	if err != nil {
		logger.Debug("running a dev build, skipping update check")
		close(resultChannel)
		return resultChannel
	}

	go fetchAndSaveLatestVersion(resultChannel, logger, fs, updater, currentSemVer)

	return resultChannel
}

// ReadLatestVersion returns the last recorded newer version, or "" if none
// has been recorded.
func ReadLatestVersion(fs FileSystem) string {
	file, err := fs.Open(core.LatestVersionFile())
	if err != nil {
		return ""
	}
	defer file.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, file)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(buf.String())
}

func fetchAndSaveLatestVersion(resultChannel chan string, logger *zap.Logger, fs FileSystem, updater Updater, currentSemVer *semver.Version) {
	defer close(resultChannel)

	latest, found, err := updater.DetectLatest(context.Background(), repositorySlug)
	if err != nil {
		logger.Warn("error occurred while getting latest version from remote", zap.Error(err))
		return
	}
	if !found {
		logger.Warn("latest version could not be found")
		return
	}

	latestSemVer, err := semver.NewVersion(latest.Version())
	if err != nil {
		logger.Error("failed to parse latest version", zap.Error(err))
		return
	}

	if latestSemVer.LessThanEqual(currentSemVer) {
		logger.Debug("already running the latest version")
		return
	}

	// Save the latest version for notification
	file, err := fs.Create(core.LatestVersionFile())
	if err != nil {
		logger.Error("failed to save latest version", zap.Error(err))
		return
	}
	defer file.Close()

	_, err = file.Write([]byte(latest.Version()))
	if err != nil {
		logger.Error("failed to save latest version", zap.Error(err))
		return
	}

	logger.Info("new version available", zap.String("current", currentSemVer.String()), zap.String("latest", latest.Version()))
	resultChannel <- latest.Version()
}
