package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/branches/cd"
	"github.com/eymenaizona/build-creater/internal/branches/refresh"
	"github.com/eymenaizona/build-creater/internal/gitrepo"
	"github.com/eymenaizona/build-creater/internal/releases"
	repoerrors "github.com/eymenaizona/build-creater/internal/repos/errors"
	"github.com/eymenaizona/build-creater/internal/repos/shared"
	"github.com/eymenaizona/build-creater/internal/revert"
	"github.com/eymenaizona/build-creater/internal/submodules"
	"github.com/eymenaizona/build-creater/internal/summary"
	"github.com/eymenaizona/build-creater/internal/tags"
	pathutils "github.com/eymenaizona/build-creater/internal/utils/path"
	"github.com/eymenaizona/build-creater/internal/versionlog"
)

const (
	runnerDependenciesMessageConstant    = "workflow runner requires git executor, repository manager, and file system dependencies"
	noRepositoriesMessageConstant        = "at least one repository must be provided"
	invalidConfigurationTemplateConstant = "invalid workflow configuration: %w"
	serviceConstructionTemplateConstant  = "failed to construct workflow services: %w"
	fatalSkipReasonTemplateConstant      = "not processed: batch stopped after fatal failure in %s"
	cancelledSkipReasonConstant          = "not processed: run cancelled"
	batchStartedMessageConstant          = "Processing repositories"
	batchStoppedMessageConstant          = "Fatal failure; skipping remaining repositories"
	repositoryCountLogFieldConstant      = "repositories"
	remainingCountLogFieldConstant       = "remaining"
)

// ErrRunnerDependenciesMissing indicates a required collaborator was not supplied.
var ErrRunnerDependenciesMissing = errors.New(runnerDependenciesMessageConstant)

// ErrNoRepositories indicates the batch received no usable references.
var ErrNoRepositories = errors.New(noRepositoriesMessageConstant)

// Dependencies configures shared collaborators for workflow execution.
type Dependencies struct {
	Logger            *zap.Logger
	GitExecutor       shared.GitExecutor
	RepositoryManager shared.GitRepositoryManager
	FileSystem        afero.Fs
	Clock             shared.Clock
	Reporter          shared.Reporter
	HomeExpander      *pathutils.HomeExpander
}

// Runner processes a batch of repository references sequentially.
type Runner struct {
	executor  *Executor
	sanitizer *pathutils.RepositoryReferenceSanitizer
	logger    *zap.Logger
}

// NewRunner validates configuration, builds the stage services and returns a Runner using DefaultOperations.
func NewRunner(configuration Configuration, dependencies Dependencies) (*Runner, error) {
	return NewRunnerWithOperations(configuration, dependencies, DefaultOperations())
}

// NewRunnerWithOperations is NewRunner with an explicit operation list.
func NewRunnerWithOperations(configuration Configuration, dependencies Dependencies, operations []Operation) (*Runner, error) {
	if dependencies.GitExecutor == nil || dependencies.RepositoryManager == nil || dependencies.FileSystem == nil {
		return nil, ErrRunnerDependenciesMissing
	}

	normalizedConfiguration := configuration.withDefaults()
	if validationError := normalizedConfiguration.Validate(); validationError != nil {
		return nil, fmt.Errorf(invalidConfigurationTemplateConstant, validationError)
	}

	environment, environmentError := buildEnvironment(normalizedConfiguration, dependencies)
	if environmentError != nil {
		return nil, fmt.Errorf(serviceConstructionTemplateConstant, environmentError)
	}

	sanitizer := pathutils.NewRepositoryReferenceSanitizerWithConfiguration(environment.HomeExpander, pathutils.RepositoryReferenceSanitizerConfiguration{
		ExcludeBooleanLiteralCandidates: true,
		PreserveReference:               gitrepo.IsRemoteReference,
	})

	return &Runner{
		executor:  NewExecutor(operations, environment),
		sanitizer: sanitizer,
		logger:    environment.Logger,
	}, nil
}

// Run processes references in order. Non-fatal failures are recorded and the batch continues; a fatal
// failure stops the batch and marks the remaining references skipped. The returned error aggregates
// every repository failure.
func (runner *Runner) Run(executionContext context.Context, references []string) (summary.Summary, error) {
	sanitizedReferences := runner.sanitizer.Sanitize(references)
	if len(sanitizedReferences) == 0 {
		return summary.Summary{}, ErrNoRepositories
	}

	runner.logger.Info(batchStartedMessageConstant, zap.Int(repositoryCountLogFieldConstant, len(sanitizedReferences)))

	outcomes := make([]summary.RepositoryOutcome, 0, len(sanitizedReferences))
	var aggregated error
	for referenceIndex, reference := range sanitizedReferences {
		if contextError := executionContext.Err(); contextError != nil {
			outcomes = append(outcomes, skippedOutcomes(sanitizedReferences[referenceIndex:], cancelledSkipReasonConstant)...)
			aggregated = multierr.Append(aggregated, contextError)
			break
		}

		outcome, executeError := runner.executor.Execute(executionContext, reference)
		outcomes = append(outcomes, outcome)
		if executeError == nil {
			continue
		}

		aggregated = multierr.Append(aggregated, executeError)
		if repoerrors.IsFatal(executeError) {
			remaining := sanitizedReferences[referenceIndex+1:]
			runner.logger.Error(batchStoppedMessageConstant,
				zap.String(repositoryLogFieldConstant, reference),
				zap.Int(remainingCountLogFieldConstant, len(remaining)),
			)
			outcomes = append(outcomes, skippedOutcomes(remaining, fmt.Sprintf(fatalSkipReasonTemplateConstant, reference))...)
			break
		}
	}

	return summary.New(outcomes), aggregated
}

func skippedOutcomes(references []string, reason string) []summary.RepositoryOutcome {
	outcomes := make([]summary.RepositoryOutcome, 0, len(references))
	for _, reference := range references {
		outcomes = append(outcomes, summary.RepositoryOutcome{
			Reference: reference,
			Stage:     string(StagePending),
			Status:    summary.StatusSkipped,
			Reason:    reason,
		})
	}
	return outcomes
}

func buildEnvironment(configuration Configuration, dependencies Dependencies) (*Environment, error) {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	homeExpander := dependencies.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}

	versionLog, versionLogError := versionlog.NewStore(dependencies.FileSystem, configuration.VersionFile, configuration.LogEntryFormat)
	if versionLogError != nil {
		return nil, versionLogError
	}

	submoduleSynchronizer, submoduleError := submodules.NewSynchronizer(submodules.Dependencies{
		FileSystem:        dependencies.FileSystem,
		GitExecutor:       dependencies.GitExecutor,
		RepositoryManager: dependencies.RepositoryManager,
		Logger:            logger,
	})
	if submoduleError != nil {
		return nil, submoduleError
	}

	reverter, reverterError := revert.NewOperator(revert.Dependencies{
		FileSystem:        dependencies.FileSystem,
		GitExecutor:       dependencies.GitExecutor,
		RepositoryManager: dependencies.RepositoryManager,
		Logger:            logger,
	})
	if reverterError != nil {
		return nil, reverterError
	}

	branchSwitcher, switcherError := cd.NewService(cd.ServiceDependencies{GitExecutor: dependencies.GitExecutor})
	if switcherError != nil {
		return nil, switcherError
	}

	branchSynchronizer, synchronizerError := refresh.NewService(refresh.Dependencies{
		GitExecutor:       dependencies.GitExecutor,
		RepositoryManager: dependencies.RepositoryManager,
		Logger:            logger,
	})
	if synchronizerError != nil {
		return nil, synchronizerError
	}

	resolver, resolverError := tags.NewResolver(tags.ResolverDependencies{Backend: dependencies.RepositoryManager, Logger: logger})
	if resolverError != nil {
		return nil, resolverError
	}

	releaseService, releaseError := releases.NewService(releases.ServiceDependencies{
		GitExecutor:       dependencies.GitExecutor,
		RepositoryManager: dependencies.RepositoryManager,
		VersionLog:        versionLog,
		FileSystem:        dependencies.FileSystem,
		Clock:             dependencies.Clock,
		Logger:            logger,
	})
	if releaseError != nil {
		return nil, releaseError
	}

	return &Environment{
		Configuration:      configuration,
		GitExecutor:        dependencies.GitExecutor,
		RepositoryManager:  dependencies.RepositoryManager,
		FileSystem:         dependencies.FileSystem,
		HomeExpander:       homeExpander,
		Submodules:         submoduleSynchronizer,
		Reverter:           reverter,
		BranchSwitcher:     branchSwitcher,
		BranchSynchronizer: branchSynchronizer,
		Resolver:           resolver,
		VersionLog:         versionLog,
		Releases:           releaseService,
		Reporter:           reporter,
		Logger:             logger,
	}, nil
}
