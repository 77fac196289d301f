package update

import (
	"fmt"

	"github.com/updrift/updrift/pkg/appcast"
)

type Decision string

const (
	DecisionAvailable Decision = "available" // feed offers a newer version
	DecisionUpToDate  Decision = "uptodate"  // same or newer version installed
	DecisionSkipped   Decision = "skipped"   // newer, but the user opted out of this version
	DecisionEmptyFeed Decision = "emptyfeed" // feed carried no versioned enclosure
)

// Decide determines the outcome of one check cycle.
//
// installed: version of the running application
// offered:   best enclosure version from the appcast ("" if none)
// skipped:   version the user chose to skip ("" if none)
// manual:    true for user-initiated checks, which ignore the skip marker
//
// Returns the decision and a human message.
func Decide(installed, offered, skipped string, manual bool) (Decision, string) {
	if offered == "" {
		return DecisionEmptyFeed, "The update feed did not offer any version."
	}

	if appcast.CompareVersions(installed, offered) >= 0 {
		msg := fmt.Sprintf("Installed version %s is current (feed offers %s).", installed, offered)
		return DecisionUpToDate, msg
	}

	// "Skip this version" silences scheduled checks only. An explicitly
	// requested check still shows the release, matching Sparkle semantics.
	if !manual && skipped != "" && skipped == offered {
		msg := fmt.Sprintf("Version %s is newer but was skipped by user choice.", offered)
		return DecisionSkipped, msg
	}

	msg := fmt.Sprintf("Update available: %s → %s", installed, offered)
	return DecisionAvailable, msg
}

// Describe returns a short human-readable status for a decision.
func Describe(d Decision) string {
	switch d {
	case DecisionAvailable:
		return "Update available"
	case DecisionUpToDate:
		return "Already up to date"
	case DecisionSkipped:
		return "Update skipped by user preference"
	case DecisionEmptyFeed:
		return "No versions offered by the feed"
	default:
		return string(d)
	}
}
