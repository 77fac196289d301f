// Package notify delivers check outcomes to the user. The Notifier
// interface is the seam the checker talks through; Console is the CLI
// implementation.
package notify

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/updrift/updrift/pkg/appcast"
)

// Notifier receives exactly one call per check cycle.
type Notifier interface {
	UpdateAvailable(cast *appcast.Appcast)
	NoUpdates()
	Error(err error)
}

// Console writes outcomes to Out, either as human-readable lines or as a
// single JSON object for CI consumption.
type Console struct {
	Out  io.Writer
	JSON bool
}

type jsonOutcome struct {
	Status             string `json:"status"`
	Version            string `json:"version,omitempty"`
	ShortVersionString string `json:"shortVersionString,omitempty"`
	DownloadURL        string `json:"downloadURL,omitempty"`
	Title              string `json:"title,omitempty"`
	ReleaseNotesURL    string `json:"releaseNotesURL,omitempty"`
	Error              string `json:"error,omitempty"`
}

func (c *Console) UpdateAvailable(cast *appcast.Appcast) {
	if c.JSON {
		c.emit(jsonOutcome{
			Status:             "update-available",
			Version:            cast.Version,
			ShortVersionString: cast.ShortVersionString,
			DownloadURL:        cast.DownloadURL,
			Title:              cast.Title,
			ReleaseNotesURL:    cast.ReleaseNotesURL,
		})
		return
	}
	display := cast.ShortVersionString
	if display == "" {
		display = cast.Version
	}
	fmt.Fprintf(c.Out, "Update available: %s\n", display)
	if cast.Title != "" {
		fmt.Fprintf(c.Out, "  %s\n", cast.Title)
	}
	fmt.Fprintf(c.Out, "  Download: %s\n", cast.DownloadURL)
	if cast.ReleaseNotesURL != "" {
		fmt.Fprintf(c.Out, "  Release notes: %s\n", cast.ReleaseNotesURL)
	}
}

func (c *Console) NoUpdates() {
	if c.JSON {
		c.emit(jsonOutcome{Status: "up-to-date"})
		return
	}
	fmt.Fprintln(c.Out, "You are up to date.")
}

func (c *Console) Error(err error) {
	if c.JSON {
		c.emit(jsonOutcome{Status: "error", Error: err.Error()})
		return
	}
	fmt.Fprintf(c.Out, "Update check failed: %v\n", err)
}

func (c *Console) emit(o jsonOutcome) {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(o)
}
