package refresh

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/execshell"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
)

const (
	repositoryPathRequiredMessageConstant   = "repository path must be provided"
	branchNameRequiredMessageConstant       = "branch name must be provided"
	gitExecutorMissingMessageConstant       = "git executor not configured"
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	cleanVerificationErrorTemplateConstant  = "failed to verify clean worktree: %w"
	gitFetchFailureTemplateConstant         = "failed to fetch updates from %s: %w"
	gitStashFailureTemplateConstant         = "failed to stash local changes: %w"
	gitResetFailureTemplateConstant         = "failed to reset to %s: %w"
	gitStashPopFailureTemplateConstant      = "failed to reapply stashed changes: %w"
	remoteReferenceTemplateConstant         = "%s/%s"
	gitFetchSubcommandConstant              = "fetch"
	gitFetchPruneFlagConstant               = "--prune"
	gitStashSubcommandConstant              = "stash"
	gitStashPushActionConstant              = "push"
	gitStashPopActionConstant               = "pop"
	gitIncludeUntrackedFlagConstant         = "--include-untracked"
	gitResetSubcommandConstant              = "reset"
	gitResetHardFlagConstant                = "--hard"
	stashConflictMessageConstant            = "Stashed changes conflict with the remote branch; they remain in the stash list"
	synchronizedMessageConstant             = "Synchronized branch with remote"
	repositoryLogFieldConstant              = "repository"
	branchLogFieldConstant                  = "branch"
	remoteLogFieldConstant                  = "remote"
	stashedLogFieldConstant                 = "stashed"
	errorDetailLogFieldConstant             = "detail"
)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrBranchNameRequired indicates the branch name option was empty.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// Dependencies enumerates external collaborators required for synchronization.
type Dependencies struct {
	GitExecutor       shared.GitExecutor
	RepositoryManager shared.GitRepositoryManager
	Logger            *zap.Logger
}

// Options configures a branch synchronization.
type Options struct {
	RepositoryPath string
	BranchName     string
	RemoteName     string
}

// Result captures the observable outcomes of a synchronization.
type Result struct {
	RepositoryPath     string
	BranchName         string
	Stashed            bool
	StashReapplyFailed bool
}

// Service forces a local branch to match its remote while preserving uncommitted work in the stash.
type Service struct {
	executor          shared.GitExecutor
	repositoryManager shared.GitRepositoryManager
	logger            *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{executor: dependencies.GitExecutor, repositoryManager: dependencies.RepositoryManager, logger: logger}, nil
}

// Synchronize fetches the remote and hard-resets the checked-out branch to {remote}/{branch}.
// Local modifications are stashed first and popped afterwards; a conflicting pop is reported
// through Result.StashReapplyFailed rather than as an error.
func (service *Service) Synchronize(executionContext context.Context, options Options) (Result, error) {
	trimmedRepositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	trimmedBranchName := strings.TrimSpace(options.BranchName)
	if len(trimmedBranchName) == 0 {
		return Result{}, ErrBranchNameRequired
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = shared.OriginRemoteNameConstant
	}

	if fetchError := service.executeGit(executionContext, trimmedRepositoryPath, gitFetchSubcommandConstant, gitFetchPruneFlagConstant, remoteName); fetchError != nil {
		return Result{}, fmt.Errorf(gitFetchFailureTemplateConstant, remoteName, fetchError)
	}

	clean, cleanError := service.repositoryManager.CheckCleanWorktree(executionContext, trimmedRepositoryPath)
	if cleanError != nil {
		return Result{}, fmt.Errorf(cleanVerificationErrorTemplateConstant, cleanError)
	}

	result := Result{RepositoryPath: trimmedRepositoryPath, BranchName: trimmedBranchName, Stashed: !clean}
	if result.Stashed {
		if stashError := service.executeGit(executionContext, trimmedRepositoryPath, gitStashSubcommandConstant, gitStashPushActionConstant, gitIncludeUntrackedFlagConstant); stashError != nil {
			return Result{}, fmt.Errorf(gitStashFailureTemplateConstant, stashError)
		}
	}

	remoteReference := fmt.Sprintf(remoteReferenceTemplateConstant, remoteName, trimmedBranchName)
	if resetError := service.executeGit(executionContext, trimmedRepositoryPath, gitResetSubcommandConstant, gitResetHardFlagConstant, remoteReference); resetError != nil {
		return Result{}, fmt.Errorf(gitResetFailureTemplateConstant, remoteReference, resetError)
	}

	if result.Stashed {
		popError := service.executeGit(executionContext, trimmedRepositoryPath, gitStashSubcommandConstant, gitStashPopActionConstant)
		var failedError execshell.CommandFailedError
		switch {
		case popError == nil:
		case errors.As(popError, &failedError):
			result.StashReapplyFailed = true
			service.logger.Warn(stashConflictMessageConstant,
				zap.String(repositoryLogFieldConstant, trimmedRepositoryPath),
				zap.String(branchLogFieldConstant, trimmedBranchName),
				zap.String(errorDetailLogFieldConstant, strings.TrimSpace(failedError.Result.StandardError)),
			)
		default:
			return Result{}, fmt.Errorf(gitStashPopFailureTemplateConstant, popError)
		}
	}

	service.logger.Info(synchronizedMessageConstant,
		zap.String(repositoryLogFieldConstant, trimmedRepositoryPath),
		zap.String(branchLogFieldConstant, trimmedBranchName),
		zap.String(remoteLogFieldConstant, remoteName),
		zap.Bool(stashedLogFieldConstant, result.Stashed),
	)
	return result, nil
}

func (service *Service) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) error {
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: shared.NonInteractiveEnvironment(),
	})
	return executionError
}
