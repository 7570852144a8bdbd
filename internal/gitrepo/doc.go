// Package gitrepo answers questions about git working copies.
//
// RepositoryManager wraps read-only git queries (worktree state, current
// branch, remote heads, tags, last commit subject, submodule paths) and the
// reference helpers classify a repository argument as a clone URL or a local
// path.
package gitrepo
