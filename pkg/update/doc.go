// Package update decides whether an appcast check cycle should surface an
// update to the user.
//
// It intentionally performs no downloads, parsing, or persistence: given
// the installed version, the feed's best offered version, and the user's
// skip preference, it answers "what should the user be told" with clear
// messaging. Version ordering follows the Sparkle feed convention
// implemented by pkg/appcast, which tolerates arbitrary version string
// formats ("1.5b3", "2.0rc1") rather than requiring strict semver.
package update
