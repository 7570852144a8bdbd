package submodules

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/execshell"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
)

const (
	fileSystemMissingMessageConstant        = "submodule synchronizer file system not configured"
	gitExecutorMissingMessageConstant       = "submodule synchronizer git executor not configured"
	repositoryManagerMissingMessageConstant = "submodule synchronizer repository manager not configured"
	repositoryPathRequiredMessageConstant   = "repository path must be provided"
	manifestInspectionErrorTemplateConstant = "failed to inspect %s: %w"
	submoduleUpdateErrorTemplateConstant    = "failed to update submodules: %w"
	submoduleListErrorTemplateConstant      = "failed to list submodules: %w"
	fetchFailureTemplateConstant            = "fetch failed: %v"
	branchProbeFailureTemplateConstant      = "remote branch lookup failed: %v"
	checkoutFailureTemplateConstant         = "checkout of %s failed: %v"
	fastForwardFailureTemplateConstant      = "fast-forward to %s failed: %v"
	remoteReferenceTemplateConstant         = "%s/%s"
	noSubmodulesMessageConstant             = "No submodules declared; skipping submodule synchronization"
	submoduleUpdatedMessageConstant         = "Submodule fast-forwarded"
	submoduleUntouchedMessageConstant       = "Submodule has no primary or fallback branch on the remote; leaving it untouched"
	submoduleFailedMessageConstant          = "Submodule synchronization failed"
	repositoryLogFieldConstant              = "repository"
	submoduleLogFieldConstant               = "submodule"
	branchLogFieldConstant                  = "branch"
	reasonLogFieldConstant                  = "reason"
	gitSubmoduleSubcommandConstant          = "submodule"
	gitUpdateActionConstant                 = "update"
	gitInitFlagConstant                     = "--init"
	gitRecursiveFlagConstant                = "--recursive"
	gitFetchSubcommandConstant              = "fetch"
	gitCheckoutSubcommandConstant           = "checkout"
	gitMergeSubcommandConstant              = "merge"
	gitFastForwardOnlyFlagConstant          = "--ff-only"
)

// ErrFileSystemNotConfigured indicates the synchronizer was built without a file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrGitExecutorNotConfigured indicates the synchronizer was built without a git executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the synchronizer was built without a repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// Status classifies the outcome for a single submodule.
type Status string

// Submodule outcomes.
const (
	StatusUpdated   Status = Status("updated")
	StatusUntouched Status = Status("untouched")
	StatusFailed    Status = Status("failed")
)

// SubmoduleResult records what happened to one direct submodule.
type SubmoduleResult struct {
	Path   string
	Status Status
	Branch string
	Reason string
}

// Result summarizes a synchronization.
type Result struct {
	NoSubmodules bool
	Submodules   []SubmoduleResult
}

// Dependencies enumerates collaborators required by the Synchronizer.
type Dependencies struct {
	FileSystem        afero.Fs
	GitExecutor       shared.GitExecutor
	RepositoryManager shared.GitRepositoryManager
	Logger            *zap.Logger
}

// Options configures a synchronization run.
type Options struct {
	RepositoryPath string
	RemoteName     string
	PrimaryBranch  string
	FallbackBranch string
}

// Synchronizer brings direct submodules up to date with their remote branches.
type Synchronizer struct {
	fileSystem        afero.Fs
	executor          shared.GitExecutor
	repositoryManager shared.GitRepositoryManager
	logger            *zap.Logger
}

// NewSynchronizer validates dependencies and constructs a Synchronizer.
func NewSynchronizer(dependencies Dependencies) (*Synchronizer, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
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
	return &Synchronizer{
		fileSystem:        dependencies.FileSystem,
		executor:          dependencies.GitExecutor,
		repositoryManager: dependencies.RepositoryManager,
		logger:            logger,
	}, nil
}

// ManifestExists reports whether repositoryPath declares submodules.
func ManifestExists(fileSystem afero.Fs, repositoryPath string) (bool, error) {
	manifestPath := filepath.Join(repositoryPath, shared.SubmoduleManifestFileNameConstant)
	exists, existsError := afero.Exists(fileSystem, manifestPath)
	if existsError != nil {
		return false, fmt.Errorf(manifestInspectionErrorTemplateConstant, manifestPath, existsError)
	}
	return exists, nil
}

// Synchronize initializes submodules recursively and fast-forwards each direct submodule.
// A repository without a manifest is a no-op. Individual submodule failures are reported in the
// result and never returned as errors; parent submodule pointers are left unstaged.
func (synchronizer *Synchronizer) Synchronize(executionContext context.Context, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}
	options = normalizeOptions(options)

	manifestExists, manifestError := ManifestExists(synchronizer.fileSystem, repositoryPath)
	if manifestError != nil {
		return Result{}, manifestError
	}
	if !manifestExists {
		synchronizer.logger.Info(noSubmodulesMessageConstant, zap.String(repositoryLogFieldConstant, repositoryPath))
		return Result{NoSubmodules: true}, nil
	}

	if updateError := synchronizer.executeGit(executionContext, repositoryPath, gitSubmoduleSubcommandConstant, gitUpdateActionConstant, gitInitFlagConstant, gitRecursiveFlagConstant); updateError != nil {
		return Result{}, fmt.Errorf(submoduleUpdateErrorTemplateConstant, updateError)
	}

	submodulePaths, listError := synchronizer.repositoryManager.ListSubmodulePaths(executionContext, repositoryPath)
	if listError != nil {
		return Result{}, fmt.Errorf(submoduleListErrorTemplateConstant, listError)
	}

	parent := shared.RepositoryHandle{Path: repositoryPath}
	result := Result{Submodules: make([]SubmoduleResult, 0, len(submodulePaths))}
	for _, relativePath := range submodulePaths {
		submoduleResult := synchronizer.synchronizeSubmodule(executionContext, parent.Submodule(relativePath), options)
		synchronizer.logSubmoduleResult(repositoryPath, submoduleResult)
		result.Submodules = append(result.Submodules, submoduleResult)
	}

	return result, nil
}

func (synchronizer *Synchronizer) synchronizeSubmodule(executionContext context.Context, submodule shared.RepositoryHandle, options Options) SubmoduleResult {
	result := SubmoduleResult{Path: submodule.Reference}

	if fetchError := synchronizer.executeGit(executionContext, submodule.Path, gitFetchSubcommandConstant, options.RemoteName); fetchError != nil {
		return failed(result, fmt.Sprintf(fetchFailureTemplateConstant, fetchError))
	}

	branchName := ""
	for _, candidate := range []string{options.PrimaryBranch, options.FallbackBranch} {
		exists, probeError := synchronizer.repositoryManager.RemoteBranchExists(executionContext, submodule.Path, options.RemoteName, candidate)
		if probeError != nil {
			return failed(result, fmt.Sprintf(branchProbeFailureTemplateConstant, probeError))
		}
		if exists {
			branchName = candidate
			break
		}
	}
	if len(branchName) == 0 {
		result.Status = StatusUntouched
		return result
	}

	result.Branch = branchName
	if checkoutError := synchronizer.executeGit(executionContext, submodule.Path, gitCheckoutSubcommandConstant, branchName); checkoutError != nil {
		return failed(result, fmt.Sprintf(checkoutFailureTemplateConstant, branchName, checkoutError))
	}

	remoteReference := fmt.Sprintf(remoteReferenceTemplateConstant, options.RemoteName, branchName)
	if mergeError := synchronizer.executeGit(executionContext, submodule.Path, gitMergeSubcommandConstant, gitFastForwardOnlyFlagConstant, remoteReference); mergeError != nil {
		return failed(result, fmt.Sprintf(fastForwardFailureTemplateConstant, remoteReference, mergeError))
	}

	result.Status = StatusUpdated
	return result
}

func (synchronizer *Synchronizer) logSubmoduleResult(repositoryPath string, result SubmoduleResult) {
	fields := []zap.Field{
		zap.String(repositoryLogFieldConstant, repositoryPath),
		zap.String(submoduleLogFieldConstant, result.Path),
	}
	switch result.Status {
	case StatusUpdated:
		synchronizer.logger.Info(submoduleUpdatedMessageConstant, append(fields, zap.String(branchLogFieldConstant, result.Branch))...)
	case StatusUntouched:
		synchronizer.logger.Info(submoduleUntouchedMessageConstant, fields...)
	default:
		synchronizer.logger.Warn(submoduleFailedMessageConstant, append(fields, zap.String(reasonLogFieldConstant, result.Reason))...)
	}
}

func (synchronizer *Synchronizer) executeGit(executionContext context.Context, workingDirectory string, arguments ...string) error {
	_, executionError := synchronizer.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: shared.NonInteractiveEnvironment(),
	})
	return executionError
}

func failed(result SubmoduleResult, reason string) SubmoduleResult {
	result.Status = StatusFailed
	result.Reason = reason
	return result
}

func normalizeOptions(options Options) Options {
	normalized := options
	normalized.RemoteName = valueOrDefault(options.RemoteName, shared.OriginRemoteNameConstant)
	normalized.PrimaryBranch = valueOrDefault(options.PrimaryBranch, shared.DefaultPrimaryBranchConstant)
	normalized.FallbackBranch = valueOrDefault(options.FallbackBranch, shared.DefaultFallbackBranchConstant)
	return normalized
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
