package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eymenaizona/build-creater/internal/execshell"
)

const (
	gitStatusSubcommandConstant           = "status"
	gitPorcelainFlagConstant              = "--porcelain"
	gitRevParseSubcommandConstant         = "rev-parse"
	gitAbbrevRefFlagConstant              = "--abbrev-ref"
	gitHeadReferenceConstant              = "HEAD"
	gitQuietFlagConstant                  = "-q"
	gitVerifyFlagConstant                 = "--verify"
	gitTagReferencePrefixConstant         = "refs/tags/"
	gitInsideWorkTreeFlagConstant         = "--is-inside-work-tree"
	gitInsideWorkTreeTrueConstant         = "true"
	gitLSRemoteSubcommandConstant         = "ls-remote"
	gitHeadsFlagConstant                  = "--heads"
	gitTagSubcommandConstant              = "tag"
	gitListFlagConstant                   = "--list"
	gitLogSubcommandConstant              = "log"
	gitSingleEntryFlagConstant            = "-1"
	gitSubjectFormatFlagConstant          = "--pretty=%s"
	gitConfigSubcommandConstant           = "config"
	gitFileFlagConstant                   = "--file"
	gitGetRegexpFlagConstant              = "--get-regexp"
	gitSubmodulePathPatternConstant       = `^submodule\..*\.path$`
	submoduleManifestFileNameConstant     = ".gitmodules"
	gitTerminalPromptEnvironmentConstant  = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant     = "0"
	missingReferenceExitCodeConstant      = 1
	executorNotConfiguredMessageConstant  = "git executor not configured"
	repositoryPathRequiredMessageConstant = "repository path required"
	queryErrorTemplateConstant            = "%s in %s: %w"
	worktreeQueryDescriptionConstant      = "inspect worktree"
	branchQueryDescriptionConstant        = "resolve current branch"
	remoteBranchQueryDescriptionConstant  = "query remote branch"
	tagQueryDescriptionConstant           = "resolve tag"
	tagListQueryDescriptionConstant       = "list tags"
	commitQueryDescriptionConstant        = "read last commit"
	repositoryQueryDescriptionConstant    = "verify repository"
	submoduleQueryDescriptionConstant     = "list submodules"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrRepositoryPathRequired indicates a query was issued without a repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager answers read-only questions about a working copy through git.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CheckCleanWorktree reports whether the worktree has no staged, unstaged, or untracked changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	output, queryError := manager.query(executionContext, repositoryPath, worktreeQueryDescriptionConstant, nil, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if queryError != nil {
		return false, queryError
	}
	return len(strings.TrimSpace(output)) == 0, nil
}

// GetCurrentBranch returns the checked-out branch name, or an empty string for a detached HEAD.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	output, queryError := manager.query(executionContext, repositoryPath, branchQueryDescriptionConstant, nil, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if queryError != nil {
		return "", queryError
	}
	branchName := strings.TrimSpace(output)
	if branchName == gitHeadReferenceConstant {
		return "", nil
	}
	return branchName, nil
}

// RemoteBranchExists reports whether remoteName advertises branchName.
func (manager *RepositoryManager) RemoteBranchExists(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (bool, error) {
	output, queryError := manager.query(executionContext, repositoryPath, remoteBranchQueryDescriptionConstant, nonInteractiveEnvironment(), gitLSRemoteSubcommandConstant, gitHeadsFlagConstant, remoteName, branchName)
	if queryError != nil {
		return false, queryError
	}
	return len(strings.TrimSpace(output)) > 0, nil
}

// TagExists reports whether refs/tags/tagName resolves locally.
func (manager *RepositoryManager) TagExists(executionContext context.Context, repositoryPath string, tagName string) (bool, error) {
	_, queryError := manager.query(executionContext, repositoryPath, tagQueryDescriptionConstant, nil, gitRevParseSubcommandConstant, gitQuietFlagConstant, gitVerifyFlagConstant, gitTagReferencePrefixConstant+tagName)
	if queryError == nil {
		return true, nil
	}
	if isMissingReference(queryError) {
		return false, nil
	}
	return false, queryError
}

// ListTags returns the local tags matching the glob pattern.
func (manager *RepositoryManager) ListTags(executionContext context.Context, repositoryPath string, pattern string) ([]string, error) {
	output, queryError := manager.query(executionContext, repositoryPath, tagListQueryDescriptionConstant, nil, gitTagSubcommandConstant, gitListFlagConstant, pattern)
	if queryError != nil {
		return nil, queryError
	}
	return nonEmptyLines(output), nil
}

// LastCommitSummary returns the subject line of HEAD.
func (manager *RepositoryManager) LastCommitSummary(executionContext context.Context, repositoryPath string) (string, error) {
	output, queryError := manager.query(executionContext, repositoryPath, commitQueryDescriptionConstant, nil, gitLogSubcommandConstant, gitSingleEntryFlagConstant, gitSubjectFormatFlagConstant)
	if queryError != nil {
		return "", queryError
	}
	return strings.TrimSpace(output), nil
}

// IsRepository reports whether repositoryPath lies inside a git worktree.
func (manager *RepositoryManager) IsRepository(executionContext context.Context, repositoryPath string) (bool, error) {
	output, queryError := manager.query(executionContext, repositoryPath, repositoryQueryDescriptionConstant, nil, gitRevParseSubcommandConstant, gitInsideWorkTreeFlagConstant)
	if queryError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(queryError, &failedError) {
			return false, nil
		}
		return false, queryError
	}
	return strings.TrimSpace(output) == gitInsideWorkTreeTrueConstant, nil
}

// ListSubmodulePaths returns the paths of the direct submodules declared in .gitmodules.
func (manager *RepositoryManager) ListSubmodulePaths(executionContext context.Context, repositoryPath string) ([]string, error) {
	output, queryError := manager.query(executionContext, repositoryPath, submoduleQueryDescriptionConstant, nil, gitConfigSubcommandConstant, gitFileFlagConstant, submoduleManifestFileNameConstant, gitGetRegexpFlagConstant, gitSubmodulePathPatternConstant)
	if queryError != nil {
		if isMissingReference(queryError) {
			return nil, nil
		}
		return nil, queryError
	}

	paths := make([]string, 0)
	for _, line := range nonEmptyLines(output) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		paths = append(paths, strings.Join(fields[1:], " "))
	}
	return paths, nil
}

func (manager *RepositoryManager) query(executionContext context.Context, repositoryPath string, description string, environment map[string]string, arguments ...string) (string, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return "", ErrRepositoryPathRequired
	}
	result, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: environment,
	})
	if executionError != nil {
		return "", fmt.Errorf(queryErrorTemplateConstant, description, repositoryPath, executionError)
	}
	return result.StandardOutput, nil
}

func isMissingReference(err error) bool {
	var failedError execshell.CommandFailedError
	return errors.As(err, &failedError) && failedError.Result.ExitCode == missingReferenceExitCodeConstant
}

func nonEmptyLines(output string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

func nonInteractiveEnvironment() map[string]string {
	return map[string]string{gitTerminalPromptEnvironmentConstant: gitTerminalPromptDisabledConstant}
}
