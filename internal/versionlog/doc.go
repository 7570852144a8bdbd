// Package versionlog persists the append-only per-repository release log.
//
// Each release appends exactly one line in the configured Format. The build
// number of the last non-blank line seeds the next tag resolution; a missing,
// empty, or unparsable log counts as build 0.
package versionlog
