// Package branches groups the branch-level git services used while preparing a repository for tagging.
//
// Subpackage cd switches a working copy onto a named branch, and subpackage
// refresh forces the checked-out branch to match its remote counterpart.
package branches
