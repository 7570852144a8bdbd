// Package workflow drives each repository through acquisition, submodule and branch
// synchronization or revert, version resolution, and the commit, tag and push of the
// new version. Runner processes a batch of references sequentially and stops the
// batch after a fatal push failure.
package workflow
