// Package appcast parses Sparkle-style update feeds and compares the
// free-form version strings they carry.
//
// The two entry points are independent: CompareVersions is a pure total-order
// comparison usable on its own, and Load turns raw feed XML into a single
// Appcast descriptor describing the best enclosure in the document.
//
// Version model
//   - Versions are split into runs of digits, periods, and everything else
//     ("1.20rc3" becomes ["1", ".", "20", "rc", "3"]).
//   - Numeric components compare as integers, string components compare
//     lexicographically, and a numeric component always outranks a string
//     component at the same position ("1.2.0" > "1.2rc1").
//   - A trailing pre-release tag sorts below the bare version ("1.5" >
//     "1.5b3"), while a trailing numeric component sorts above ("1.5.1" >
//     "1.5").
//
// This is the de-facto standard ordering used by Sparkle feed producers;
// the edge cases above are load-bearing and covered by tests.
//
// Load does not keep hidden state between calls. The version of the last
// accepted enclosure is an explicit argument and return value, so callers
// that want "pick the highest enclosure across several feeds" semantics
// thread it through themselves and concurrent loads stay independent.
package appcast
