package cd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eymenaizona/build-creater/internal/execshell"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
)

const (
	repositoryPathRequiredMessageConstant  = "repository path must be provided"
	branchNameRequiredMessageConstant      = "branch name must be provided"
	gitExecutorMissingMessageConstant      = "git executor not configured"
	gitSwitchFailureTemplateConstant       = "failed to switch to branch %q: %w"
	gitCreateBranchFailureTemplateConstant = "failed to create branch %q from %s: %w"
	trackReferenceTemplateConstant         = "%s/%s"
	gitSwitchSubcommandConstant            = "switch"
	gitCreateBranchFlagConstant            = "-c"
	gitTrackFlagConstant                   = "--track"
)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrBranchNameRequired indicates the branch name option was empty.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor shared.GitExecutor
}

// Options configure a branch change operation.
type Options struct {
	RepositoryPath  string
	BranchName      string
	RemoteName      string
	CreateIfMissing bool
}

// Result captures the outcome of a branch change.
type Result struct {
	RepositoryPath string
	BranchName     string
	BranchCreated  bool
}

// Service switches repositories onto a named branch.
type Service struct {
	executor shared.GitExecutor
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Service{executor: dependencies.GitExecutor}, nil
}

// Change switches the repository to the requested branch, creating a tracking branch from the remote if needed.
func (service *Service) Change(executionContext context.Context, options Options) (Result, error) {
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

	switchError := service.executeGit(executionContext, trimmedRepositoryPath, gitSwitchSubcommandConstant, trimmedBranchName)
	if switchError == nil {
		return Result{RepositoryPath: trimmedRepositoryPath, BranchName: trimmedBranchName}, nil
	}
	if !options.CreateIfMissing {
		return Result{}, fmt.Errorf(gitSwitchFailureTemplateConstant, trimmedBranchName, switchError)
	}

	trackReference := fmt.Sprintf(trackReferenceTemplateConstant, remoteName, trimmedBranchName)
	if createError := service.executeGit(executionContext, trimmedRepositoryPath, gitSwitchSubcommandConstant, gitCreateBranchFlagConstant, trimmedBranchName, gitTrackFlagConstant, trackReference); createError != nil {
		return Result{}, fmt.Errorf(gitCreateBranchFailureTemplateConstant, trimmedBranchName, remoteName, createError)
	}

	return Result{RepositoryPath: trimmedRepositoryPath, BranchName: trimmedBranchName, BranchCreated: true}, nil
}

func (service *Service) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) error {
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: shared.NonInteractiveEnvironment(),
	})
	return executionError
}
