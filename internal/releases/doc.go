// Package releases records a resolved version in the version log and publishes it as a git tag.
//
// Service exposes the individual steps (log commit, tag creation, push) used by the
// workflow stages, plus Release and CascadeToSubmodules, which run all steps for a
// repository or for each direct submodule sitting on a branch.
package releases
