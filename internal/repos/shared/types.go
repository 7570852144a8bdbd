package shared

import (
	"context"
	"path/filepath"
	"time"

	"github.com/eymenaizona/build-creater/internal/execshell"
)

const (
	// OriginRemoteNameConstant identifies the default upstream remote.
	OriginRemoteNameConstant = "origin"
	// DefaultPrimaryBranchConstant is the branch releases are cut from when it exists remotely.
	DefaultPrimaryBranchConstant = "main"
	// DefaultFallbackBranchConstant is probed for submodules lacking the primary branch.
	DefaultFallbackBranchConstant = "master"
	// SubmoduleManifestFileNameConstant names the file declaring submodules at a repository root.
	SubmoduleManifestFileNameConstant = ".gitmodules"
	// GitTerminalPromptEnvironmentNameConstant disables interactive credential prompts.
	GitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	// GitTerminalPromptDisabledValueConstant is the value that disables prompting.
	GitTerminalPromptDisabledValueConstant = "0"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitRepositoryManager exposes repository-level git queries.
type GitRepositoryManager interface {
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	RemoteBranchExists(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (bool, error)
	TagExists(executionContext context.Context, repositoryPath string, tagName string) (bool, error)
	ListTags(executionContext context.Context, repositoryPath string, pattern string) ([]string, error)
	LastCommitSummary(executionContext context.Context, repositoryPath string) (string, error)
	IsRepository(executionContext context.Context, repositoryPath string) (bool, error)
	ListSubmodulePaths(executionContext context.Context, repositoryPath string) ([]string, error)
}

// RepositoryHandle identifies a working copy. Every operation receives the path explicitly.
type RepositoryHandle struct {
	Reference string
	Path      string
	Branch    string
	Temporary bool
}

// Submodule returns the handle of a direct submodule declared at relativePath.
func (handle RepositoryHandle) Submodule(relativePath string) RepositoryHandle {
	return RepositoryHandle{
		Reference: relativePath,
		Path:      filepath.Join(handle.Path, filepath.FromSlash(relativePath)),
	}
}

// NonInteractiveEnvironment returns the environment applied to git invocations that may contact a remote.
func NonInteractiveEnvironment() map[string]string {
	return map[string]string{GitTerminalPromptEnvironmentNameConstant: GitTerminalPromptDisabledValueConstant}
}
