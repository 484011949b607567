// Package lockfile extracts per-package dependency lists from Cargo-style
// lockfiles.
//
// # Overview
//
// A lockfile is a sequence of package sections:
//
//	[[package]]
//	name = "serde"
//	version = "1.0.200"
//	dependencies = [
//	 "serde_derive 1.0.200",
//	]
//
// [Parse] scans the text line by line and builds a [Mapping] from each
// package [Identity] to the names listed in its dependencies block. Only the
// leading word of every quoted dependency entry is kept; the version
// requirement that may follow it is discarded.
//
// # Leniency
//
// Parsing never fails. Lines the scanner does not recognize are classified
// as [LineIgnored] and skipped, and a package section that ends without both
// a name and a version is dropped without affecting the sections after it.
// Lock formats gain new keys over time, and an unknown directive must not
// abort extraction.
//
// Use [Classify] to inspect how a single line is interpreted:
//
//	l := lockfile.Classify(`name = "serde"`, false)
//	// l.Kind == lockfile.LineName, l.Value == "serde"
//
// # Concurrency
//
// Each call to [Parse] or [Read] owns its own scan state. A returned
// [Mapping] is never modified afterwards and is safe for concurrent reads.
package lockfile
