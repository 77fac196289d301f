// Package checker runs one update-check cycle: fetch the appcast, decide
// whether the feed's best enclosure beats the installed version, honor the
// user's skip choice, and report the outcome. Collaborators are injected so
// the whole cycle is testable without network or disk.
package checker

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/updrift/updrift/internal/download"
	"github.com/updrift/updrift/internal/hostenv"
	"github.com/updrift/updrift/internal/logging"
	"github.com/updrift/updrift/internal/notify"
	"github.com/updrift/updrift/internal/settings"
	"github.com/updrift/updrift/internal/verify"
	"github.com/updrift/updrift/pkg/appcast"
	"github.com/updrift/updrift/pkg/update"
)

// Downloader fetches raw bytes from a URL.
type Downloader interface {
	Fetch(ctx context.Context, url string, flags download.Flags) ([]byte, error)
}

// Settings is the persistence collaborator for cross-run state.
type Settings interface {
	ReadString(key string) (string, bool, error)
	WriteString(key, value string) error
	WriteTime(key string, t time.Time) error
}

// Outcome summarizes one completed check cycle.
type Outcome struct {
	Cast        *appcast.Appcast
	Decision    update.Decision
	Message     string
	UpdateFound bool
}

// Checker drives update checks for one application. It is not safe for
// concurrent Check calls: the last-accepted enclosure version is owned by
// the checker and threaded through consecutive parses.
type Checker struct {
	AppcastURL string
	AppVersion string

	// Manual marks a user-initiated check: caches are bypassed so brand-new
	// releases are found, and a previously skipped version is still shown.
	Manual bool

	// MinisignKey enables artifact verification in Download when set.
	MinisignKey string

	Downloader Downloader
	Settings   Settings
	Notifier   notify.Notifier

	// Now is replaceable in tests; defaults to time.Now.
	Now func() time.Time

	lastAccepted string
}

// Check performs one cycle. Exactly one Notifier entry point is invoked;
// the returned error mirrors the Error notification.
func (c *Checker) Check(ctx context.Context) (Outcome, error) {
	outcome, err := c.check(ctx)
	if err != nil {
		c.Notifier.Error(err)
		return Outcome{}, err
	}
	if outcome.UpdateFound {
		c.Notifier.UpdateAvailable(outcome.Cast)
	} else {
		c.Notifier.NoUpdates()
	}
	return outcome, nil
}

func (c *Checker) check(ctx context.Context) (Outcome, error) {
	if c.AppcastURL == "" {
		return Outcome{}, fmt.Errorf("appcast URL not specified")
	}

	var flags download.Flags
	if c.Manual {
		flags |= download.NoCache
	}
	data, err := c.Downloader.Fetch(ctx, c.AppcastURL, flags)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetch appcast: %w", err)
	}

	cast, last, err := appcast.Load(data, c.lastAccepted)
	if err != nil {
		return Outcome{}, err
	}
	c.lastAccepted = last
	logging.Debugf("appcast parsed: version=%q short=%q", cast.Version, cast.ShortVersionString)

	if err := c.Settings.WriteTime(settings.KeyLastCheckTime, c.now()); err != nil {
		return Outcome{}, fmt.Errorf("record check time: %w", err)
	}

	toSkip, _, err := c.Settings.ReadString(settings.KeySkipThisVersion)
	if err != nil {
		return Outcome{}, fmt.Errorf("read skip marker: %w", err)
	}

	decision, msg := update.Decide(c.AppVersion, cast.Version, toSkip, c.Manual)
	logging.Debugf("%s", msg)
	return Outcome{
		Cast:        cast,
		Decision:    decision,
		Message:     msg,
		UpdateFound: decision == update.DecisionAvailable,
	}, nil
}

// SkipVersion records that scheduled checks should stay quiet about version.
func (c *Checker) SkipVersion(version string) error {
	if version == "" {
		return fmt.Errorf("skip version must not be empty")
	}
	if err := c.Settings.WriteString(settings.KeySkipThisVersion, version); err != nil {
		return fmt.Errorf("record skip marker: %w", err)
	}
	return nil
}

// Download fetches the update artifact described by cast into destDir and
// returns the saved path. When a minisign key is configured, the .minisig
// sidecar next to the download URL is fetched and the payload verified
// before anything is written to disk.
func (c *Checker) Download(ctx context.Context, cast *appcast.Appcast, destDir string) (string, error) {
	if cast == nil || cast.DownloadURL == "" {
		return "", fmt.Errorf("appcast carries no download URL")
	}

	payload, err := c.Downloader.Fetch(ctx, cast.DownloadURL, 0)
	if err != nil {
		return "", fmt.Errorf("download update: %w", err)
	}

	if c.MinisignKey != "" {
		sig, err := c.Downloader.Fetch(ctx, cast.DownloadURL+".minisig", 0)
		if err != nil {
			return "", fmt.Errorf("download signature: %w", err)
		}
		if err := verify.Update(payload, sig, c.MinisignKey); err != nil {
			return "", fmt.Errorf("verify update: %w", err)
		}
		logging.Infof("minisign signature verified")
	}

	dest, err := download.SaveTo(destDir, cast.DownloadURL, payload)
	if err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(dest); err == nil && hostenv.IsNoExecMount(filepath.Dir(abs)) {
		logging.Warnf("%s is on a noexec mount; the installer cannot be run from there", filepath.Dir(abs))
	}
	return dest, nil
}

func (c *Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
