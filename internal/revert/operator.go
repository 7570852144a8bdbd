// Package revert checks a working copy and its direct submodules out at a previously created tag.
package revert

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
)

const (
	fileSystemMissingMessageConstant        = "revert operator file system not configured"
	gitExecutorMissingMessageConstant       = "revert operator git executor not configured"
	repositoryManagerMissingMessageConstant = "revert operator repository manager not configured"
	repositoryPathRequiredMessageConstant   = "repository path must be provided"
	tagNameRequiredMessageConstant          = "revert tag must be provided"
	tagLookupErrorTemplateConstant          = "failed to look up tag %s: %w"
	checkoutErrorTemplateConstant           = "failed to check out %s: %w"
	submoduleListErrorTemplateConstant      = "failed to list submodules: %w"
	submoduleTagLookupTemplateConstant      = "tag lookup failed: %v"
	submoduleCheckoutTemplateConstant       = "checkout failed: %v"
	tagMissingMessageConstant               = "Revert tag not found"
	revertedMessageConstant                 = "Checked out revert tag"
	submoduleTagMissingMessageConstant      = "Revert tag missing in submodule; leaving it unchanged"
	submoduleFailedMessageConstant          = "Submodule revert failed"
	repositoryLogFieldConstant              = "repository"
	submoduleLogFieldConstant               = "submodule"
	tagLogFieldConstant                     = "tag"
	reasonLogFieldConstant                  = "reason"
	gitCheckoutSubcommandConstant           = "checkout"
)

// ErrFileSystemNotConfigured indicates the operator was built without a file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrGitExecutorNotConfigured indicates the operator was built without a git executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the operator was built without a repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrRepositoryPathRequired indicates the handle carried no path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrTagNameRequired indicates no revert tag was supplied.
var ErrTagNameRequired = errors.New(tagNameRequiredMessageConstant)

// SubmoduleStatus classifies the revert outcome of one submodule.
type SubmoduleStatus string

// Submodule revert outcomes.
const (
	SubmoduleStatusReverted   SubmoduleStatus = SubmoduleStatus("reverted")
	SubmoduleStatusTagMissing SubmoduleStatus = SubmoduleStatus("tag_missing")
	SubmoduleStatusFailed     SubmoduleStatus = SubmoduleStatus("failed")
)

// SubmoduleResult records the revert outcome of one direct submodule.
type SubmoduleResult struct {
	Path   string
	Status SubmoduleStatus
	Reason string
}

// Result describes a revert attempt. Found is false when the tag does not exist, in which case nothing was changed.
type Result struct {
	Tag        string
	Found      bool
	Submodules []SubmoduleResult
}

// Dependencies enumerates collaborators required by the Operator.
type Dependencies struct {
	FileSystem        afero.Fs
	GitExecutor       shared.GitExecutor
	RepositoryManager shared.GitRepositoryManager
	Logger            *zap.Logger
}

// Options configures a revert.
type Options struct {
	TagName string
	DryRun  bool
}

// Operator checks out prior tags.
type Operator struct {
	fileSystem        afero.Fs
	executor          shared.GitExecutor
	repositoryManager shared.GitRepositoryManager
	logger            *zap.Logger
}

// NewOperator validates dependencies and constructs an Operator.
func NewOperator(dependencies Dependencies) (*Operator, error) {
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
	return &Operator{
		fileSystem:        dependencies.FileSystem,
		executor:          dependencies.GitExecutor,
		repositoryManager: dependencies.RepositoryManager,
		logger:            logger,
	}, nil
}

// Revert checks out options.TagName in the repository and then in every direct submodule that has it.
// In dry-run mode only the existence of the tag is reported.
func (operator *Operator) Revert(executionContext context.Context, handle shared.RepositoryHandle, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(handle.Path)
	if len(repositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}
	tagName := strings.TrimSpace(options.TagName)
	if len(tagName) == 0 {
		return Result{}, ErrTagNameRequired
	}

	found, lookupError := operator.repositoryManager.TagExists(executionContext, repositoryPath, tagName)
	if lookupError != nil {
		return Result{}, fmt.Errorf(tagLookupErrorTemplateConstant, tagName, lookupError)
	}
	result := Result{Tag: tagName, Found: found}
	if !found {
		operator.logger.Info(tagMissingMessageConstant, zap.String(repositoryLogFieldConstant, repositoryPath), zap.String(tagLogFieldConstant, tagName))
		return result, nil
	}
	if options.DryRun {
		return result, nil
	}

	if checkoutError := operator.checkout(executionContext, repositoryPath, tagName); checkoutError != nil {
		return Result{}, fmt.Errorf(checkoutErrorTemplateConstant, tagName, checkoutError)
	}
	operator.logger.Info(revertedMessageConstant, zap.String(repositoryLogFieldConstant, repositoryPath), zap.String(tagLogFieldConstant, tagName))

	manifestExists, manifestError := submodules.ManifestExists(operator.fileSystem, repositoryPath)
	if manifestError != nil {
		return Result{}, manifestError
	}
	if !manifestExists {
		return result, nil
	}

	submodulePaths, listError := operator.repositoryManager.ListSubmodulePaths(executionContext, repositoryPath)
	if listError != nil {
		return Result{}, fmt.Errorf(submoduleListErrorTemplateConstant, listError)
	}

	parent := shared.RepositoryHandle{Path: repositoryPath}
	for _, relativePath := range submodulePaths {
		submoduleResult := operator.revertSubmodule(executionContext, parent.Submodule(relativePath), tagName)
		if submoduleResult.Status != SubmoduleStatusReverted {
			operator.logSubmoduleProblem(repositoryPath, tagName, submoduleResult)
		}
		result.Submodules = append(result.Submodules, submoduleResult)
	}
	return result, nil
}

func (operator *Operator) revertSubmodule(executionContext context.Context, submodule shared.RepositoryHandle, tagName string) SubmoduleResult {
	result := SubmoduleResult{Path: submodule.Reference}
	exists, lookupError := operator.repositoryManager.TagExists(executionContext, submodule.Path, tagName)
	switch {
	case lookupError != nil:
		result.Status = SubmoduleStatusFailed
		result.Reason = fmt.Sprintf(submoduleTagLookupTemplateConstant, lookupError)
	case !exists:
		result.Status = SubmoduleStatusTagMissing
	default:
		if checkoutError := operator.checkout(executionContext, submodule.Path, tagName); checkoutError != nil {
			result.Status = SubmoduleStatusFailed
			result.Reason = fmt.Sprintf(submoduleCheckoutTemplateConstant, checkoutError)
			return result
		}
		result.Status = SubmoduleStatusReverted
	}
	return result
}

func (operator *Operator) logSubmoduleProblem(repositoryPath string, tagName string, result SubmoduleResult) {
	fields := []zap.Field{
		zap.String(repositoryLogFieldConstant, repositoryPath),
		zap.String(submoduleLogFieldConstant, result.Path),
		zap.String(tagLogFieldConstant, tagName),
	}
	if result.Status == SubmoduleStatusTagMissing {
		operator.logger.Warn(submoduleTagMissingMessageConstant, fields...)
		return
	}
	operator.logger.Warn(submoduleFailedMessageConstant, append(fields, zap.String(reasonLogFieldConstant, result.Reason))...)
}

func (operator *Operator) checkout(executionContext context.Context, workingDirectory string, reference string) error {
	_, executionError := operator.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, reference},
		WorkingDirectory: workingDirectory,
	})
	return executionError
}
