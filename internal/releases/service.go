package releases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/execshell"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
	"github.com/eymenaizona/build-creater/internal/submodules"
	"github.com/eymenaizona/build-creater/internal/versioning"
	"github.com/eymenaizona/build-creater/internal/versionlog"
)

const (
	gitExecutorMissingMessageConstant       = "release service git executor not configured"
	repositoryManagerMissingMessageConstant = "release service repository manager not configured"
	versionLogMissingMessageConstant        = "release service version log not configured"
	fileSystemMissingMessageConstant        = "release service file system not configured"
	repositoryPathRequiredMessageConstant   = "repository path must be provided"
	tagNameRequiredMessageConstant          = "tag name must be provided"
	branchNameRequiredMessageConstant       = "branch name must be provided to push a release"
	detachedHeadReasonConstant              = "detached HEAD"
	commitSummaryErrorTemplateConstant      = "failed to read last commit summary: %w"
	appendLogErrorTemplateConstant          = "failed to append version log: %w"
	stageLogErrorTemplateConstant           = "failed to stage %s: %w"
	commitErrorTemplateConstant             = "failed to commit %s: %w"
	tagErrorTemplateConstant                = "failed to create tag %s: %w"
	pushBranchErrorTemplateConstant         = "failed to push branch %s to %s: %w"
	pushTagErrorTemplateConstant            = "failed to push tag %s to %s: %w"
	branchLookupErrorTemplateConstant       = "failed to read current branch: %w"
	submoduleListErrorTemplateConstant      = "failed to list submodules: %w"
	createLogCommitTemplateConstant         = "Add %s"
	releaseCommitTemplateConstant           = "Update %s to %s"
	releasedMessageConstant                 = "Release published"
	submoduleReleasedMessageConstant        = "Submodule release published"
	submoduleSkippedMessageConstant         = "Submodule is not on a branch; skipping release"
	submoduleFailedMessageConstant          = "Submodule release failed"
	repositoryLogFieldConstant              = "repository"
	submoduleLogFieldConstant               = "submodule"
	branchLogFieldConstant                  = "branch"
	tagLogFieldConstant                     = "tag"
	reasonLogFieldConstant                  = "reason"
	gitAddSubcommandConstant                = "add"
	gitCommitSubcommandConstant             = "commit"
	gitMessageFlagConstant                  = "-m"
	gitTagSubcommandConstant                = "tag"
	gitForceFlagConstant                    = "-f"
	gitPushSubcommandConstant               = "push"
	gitForceWithLeaseFlagConstant           = "--force-with-lease"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrVersionLogNotConfigured indicates the version log store dependency was missing.
var ErrVersionLogNotConfigured = errors.New(versionLogMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the file system dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRepositoryPathRequired indicates the repository path was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrTagNameRequired indicates the tag name was empty.
var ErrTagNameRequired = errors.New(tagNameRequiredMessageConstant)

// ErrBranchNameRequired indicates a push was requested without a branch.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// PushError marks a failure while publishing a branch or tag to the remote.
type PushError struct {
	Cause error
}

// Error describes the failure.
func (pushError PushError) Error() string {
	return pushError.Cause.Error()
}

// Unwrap exposes the underlying cause.
func (pushError PushError) Unwrap() error {
	return pushError.Cause
}

// ServiceDependencies enumerates collaborators required by the release service.
type ServiceDependencies struct {
	GitExecutor       shared.GitExecutor
	RepositoryManager shared.GitRepositoryManager
	VersionLog        *versionlog.Store
	FileSystem        afero.Fs
	Clock             shared.Clock
	Logger            *zap.Logger
}

// Options configures a release of one repository.
type Options struct {
	Tag        versioning.VersionTag
	RemoteName string
	ForceTag   bool
	ForcePush  bool
}

// PushOptions configures publication of a branch and its tag.
type PushOptions struct {
	RemoteName string
	BranchName string
	TagName    string
	Force      bool
}

// SubmoduleStatus classifies the cascade outcome for one submodule.
type SubmoduleStatus string

// Submodule cascade outcomes.
const (
	SubmoduleStatusReleased SubmoduleStatus = SubmoduleStatus("released")
	SubmoduleStatusSkipped  SubmoduleStatus = SubmoduleStatus("skipped")
	SubmoduleStatusFailed   SubmoduleStatus = SubmoduleStatus("failed")
)

// SubmoduleRelease records the cascade outcome for one direct submodule.
type SubmoduleRelease struct {
	Path   string
	Branch string
	Status SubmoduleStatus
	Reason string
}

// Service commits version log entries, creates tags and pushes them.
type Service struct {
	executor          shared.GitExecutor
	repositoryManager shared.GitRepositoryManager
	versionLog        *versionlog.Store
	fileSystem        afero.Fs
	clock             shared.Clock
	logger            *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.VersionLog == nil {
		return nil, ErrVersionLogNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = shared.SystemClock{}
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		executor:          dependencies.GitExecutor,
		repositoryManager: dependencies.RepositoryManager,
		versionLog:        dependencies.VersionLog,
		fileSystem:        dependencies.FileSystem,
		clock:             clock,
		logger:            logger,
	}, nil
}

// CommitLogCreation stages and commits a freshly created version log.
func (service *Service) CommitLogCreation(executionContext context.Context, repositoryPath string) error {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return ErrRepositoryPathRequired
	}
	return service.commitVersionLog(executionContext, repositoryPath, fmt.Sprintf(createLogCommitTemplateConstant, service.versionLog.FileName()), []string{service.versionLog.FileName()})
}

// RecordVersion appends a log entry for tag and commits it together with the direct submodule pointers.
func (service *Service) RecordVersion(executionContext context.Context, handle shared.RepositoryHandle, tag versioning.VersionTag) (versionlog.Entry, error) {
	if len(strings.TrimSpace(handle.Path)) == 0 {
		return versionlog.Entry{}, ErrRepositoryPathRequired
	}

	commitSummary, summaryError := service.repositoryManager.LastCommitSummary(executionContext, handle.Path)
	if summaryError != nil {
		return versionlog.Entry{}, fmt.Errorf(commitSummaryErrorTemplateConstant, summaryError)
	}
	stagedPaths, pathsError := service.releasePaths(executionContext, handle.Path)
	if pathsError != nil {
		return versionlog.Entry{}, pathsError
	}

	entry := versionlog.Entry{
		Timestamp:        service.clock.Now(),
		Tag:              tag,
		CommitSummary:    commitSummary,
		WorkingDirectory: handle.Path,
		Branch:           handle.Branch,
	}
	if appendError := service.versionLog.Append(handle.Path, entry); appendError != nil {
		return versionlog.Entry{}, fmt.Errorf(appendLogErrorTemplateConstant, appendError)
	}

	commitMessage := fmt.Sprintf(releaseCommitTemplateConstant, service.versionLog.FileName(), tag.String())
	if commitError := service.commitVersionLog(executionContext, handle.Path, commitMessage, stagedPaths); commitError != nil {
		return versionlog.Entry{}, commitError
	}
	return entry, nil
}

// CreateTag creates tagName at HEAD, replacing an existing tag when force is set.
func (service *Service) CreateTag(executionContext context.Context, repositoryPath string, tagName string, force bool) error {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return ErrRepositoryPathRequired
	}
	trimmedTagName := strings.TrimSpace(tagName)
	if len(trimmedTagName) == 0 {
		return ErrTagNameRequired
	}

	arguments := []string{gitTagSubcommandConstant}
	if force {
		arguments = append(arguments, gitForceFlagConstant)
	}
	arguments = append(arguments, trimmedTagName)
	if tagError := service.executeGit(executionContext, repositoryPath, nil, arguments...); tagError != nil {
		return fmt.Errorf(tagErrorTemplateConstant, trimmedTagName, tagError)
	}
	return nil
}

// Push publishes the branch and then the tag. Force uses --force-with-lease; a bare --force is never issued.
// Failures are returned as PushError.
func (service *Service) Push(executionContext context.Context, repositoryPath string, options PushOptions) error {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return ErrRepositoryPathRequired
	}
	branchName := strings.TrimSpace(options.BranchName)
	if len(branchName) == 0 {
		return ErrBranchNameRequired
	}
	tagName := strings.TrimSpace(options.TagName)
	if len(tagName) == 0 {
		return ErrTagNameRequired
	}
	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = shared.OriginRemoteNameConstant
	}

	if pushError := service.executeGit(executionContext, repositoryPath, shared.NonInteractiveEnvironment(), pushArguments(remoteName, branchName, options.Force)...); pushError != nil {
		return PushError{Cause: fmt.Errorf(pushBranchErrorTemplateConstant, branchName, remoteName, pushError)}
	}
	if pushError := service.executeGit(executionContext, repositoryPath, shared.NonInteractiveEnvironment(), pushArguments(remoteName, tagName, options.Force)...); pushError != nil {
		return PushError{Cause: fmt.Errorf(pushTagErrorTemplateConstant, tagName, remoteName, pushError)}
	}
	return nil
}

// Release records, tags and pushes options.Tag for the repository on handle.Branch.
func (service *Service) Release(executionContext context.Context, handle shared.RepositoryHandle, options Options) error {
	if _, recordError := service.RecordVersion(executionContext, handle, options.Tag); recordError != nil {
		return recordError
	}
	if tagError := service.CreateTag(executionContext, handle.Path, options.Tag.String(), options.ForceTag); tagError != nil {
		return tagError
	}
	if pushError := service.Push(executionContext, handle.Path, PushOptions{
		RemoteName: options.RemoteName,
		BranchName: handle.Branch,
		TagName:    options.Tag.String(),
		Force:      options.ForcePush,
	}); pushError != nil {
		return pushError
	}
	service.logger.Info(releasedMessageConstant,
		zap.String(repositoryLogFieldConstant, handle.Path),
		zap.String(branchLogFieldConstant, handle.Branch),
		zap.String(tagLogFieldConstant, options.Tag.String()),
	)
	return nil
}

// CascadeToSubmodules releases options.Tag in every direct submodule that is checked out on a branch.
// Per-submodule failures are reported in the returned slice; only manifest or listing problems are errors.
func (service *Service) CascadeToSubmodules(executionContext context.Context, handle shared.RepositoryHandle, options Options) ([]SubmoduleRelease, error) {
	if len(strings.TrimSpace(handle.Path)) == 0 {
		return nil, ErrRepositoryPathRequired
	}

	manifestExists, manifestError := submodules.ManifestExists(service.fileSystem, handle.Path)
	if manifestError != nil {
		return nil, manifestError
	}
	if !manifestExists {
		return nil, nil
	}

	submodulePaths, listError := service.repositoryManager.ListSubmodulePaths(executionContext, handle.Path)
	if listError != nil {
		return nil, fmt.Errorf(submoduleListErrorTemplateConstant, listError)
	}

	releases := make([]SubmoduleRelease, 0, len(submodulePaths))
	for _, relativePath := range submodulePaths {
		release := service.releaseSubmodule(executionContext, handle.Submodule(relativePath), options)
		service.logSubmoduleRelease(handle.Path, options.Tag, release)
		releases = append(releases, release)
	}
	return releases, nil
}

func (service *Service) releaseSubmodule(executionContext context.Context, submodule shared.RepositoryHandle, options Options) SubmoduleRelease {
	release := SubmoduleRelease{Path: submodule.Reference}

	branchName, branchError := service.repositoryManager.GetCurrentBranch(executionContext, submodule.Path)
	if branchError != nil {
		release.Status = SubmoduleStatusFailed
		release.Reason = fmt.Errorf(branchLookupErrorTemplateConstant, branchError).Error()
		return release
	}
	if len(branchName) == 0 {
		release.Status = SubmoduleStatusSkipped
		release.Reason = detachedHeadReasonConstant
		return release
	}

	submodule.Branch = branchName
	release.Branch = branchName
	if releaseError := service.Release(executionContext, submodule, options); releaseError != nil {
		release.Status = SubmoduleStatusFailed
		release.Reason = releaseError.Error()
		return release
	}
	release.Status = SubmoduleStatusReleased
	return release
}

func (service *Service) logSubmoduleRelease(repositoryPath string, tag versioning.VersionTag, release SubmoduleRelease) {
	fields := []zap.Field{
		zap.String(repositoryLogFieldConstant, repositoryPath),
		zap.String(submoduleLogFieldConstant, release.Path),
		zap.String(tagLogFieldConstant, tag.String()),
	}
	switch release.Status {
	case SubmoduleStatusReleased:
		service.logger.Info(submoduleReleasedMessageConstant, append(fields, zap.String(branchLogFieldConstant, release.Branch))...)
	case SubmoduleStatusSkipped:
		service.logger.Info(submoduleSkippedMessageConstant, fields...)
	default:
		service.logger.Warn(submoduleFailedMessageConstant, append(fields, zap.String(reasonLogFieldConstant, release.Reason))...)
	}
}

// releasePaths lists the version log followed by every direct submodule, so synchronized pointers land in the release commit.
func (service *Service) releasePaths(executionContext context.Context, repositoryPath string) ([]string, error) {
	paths := []string{service.versionLog.FileName()}
	manifestExists, manifestError := submodules.ManifestExists(service.fileSystem, repositoryPath)
	if manifestError != nil {
		return nil, manifestError
	}
	if !manifestExists {
		return paths, nil
	}
	submodulePaths, listError := service.repositoryManager.ListSubmodulePaths(executionContext, repositoryPath)
	if listError != nil {
		return nil, fmt.Errorf(submoduleListErrorTemplateConstant, listError)
	}
	return append(paths, submodulePaths...), nil
}

func (service *Service) commitVersionLog(executionContext context.Context, repositoryPath string, message string, paths []string) error {
	fileName := service.versionLog.FileName()
	arguments := append([]string{gitAddSubcommandConstant}, paths...)
	if addError := service.executeGit(executionContext, repositoryPath, nil, arguments...); addError != nil {
		return fmt.Errorf(stageLogErrorTemplateConstant, fileName, addError)
	}
	if commitError := service.executeGit(executionContext, repositoryPath, nil, gitCommitSubcommandConstant, gitMessageFlagConstant, message); commitError != nil {
		return fmt.Errorf(commitErrorTemplateConstant, fileName, commitError)
	}
	return nil
}

func (service *Service) executeGit(executionContext context.Context, repositoryPath string, environment map[string]string, arguments ...string) error {
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: environment,
	})
	return executionError
}

func pushArguments(remoteName string, reference string, force bool) []string {
	arguments := []string{gitPushSubcommandConstant}
	if force {
		arguments = append(arguments, gitForceWithLeaseFlagConstant)
	}
	return append(arguments, remoteName, reference)
}
