// Package tags finds the next unused version tag for a repository.
package tags

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/eymenaizona/build-creater/internal/versioning"
)

const (
	// DefaultMaxProbeAttemptsConstant bounds the linear probe for a free build number.
	DefaultMaxProbeAttemptsConstant = 1000

	backendRequiredMessageConstant      = "tag backend not configured"
	tagSpaceExhaustedMessageConstant    = "no free tag found within probe limit"
	unsupportedStrategyTemplateConstant = "unsupported base build strategy %q (expected log or tag)"
	exhaustedTemplateConstant           = "%w: %d candidates from %s"
	buildOverflowTemplateConstant       = "%w: build number cannot advance past %s"
	probeErrorTemplateConstant          = "check tag %s: %w"
	listErrorTemplateConstant           = "list tags %s: %w"
	invalidRequestTemplateConstant      = "invalid tag request: %s"
	negativeNumbersMessageConstant      = "major, minor, and base build must not be negative"
	probeLogMessageConstant             = "Probing version tag"
	resolvedLogMessageConstant          = "Resolved version tag"
	repositoryLogFieldConstant          = "repository"
	tagLogFieldConstant                 = "tag"
	existsLogFieldConstant              = "exists"
	probesLogFieldConstant              = "probes"
	strategyLogFieldConstant            = "strategy"
)

// Strategy selects where the base build number comes from.
type Strategy string

// Supported strategies.
const (
	// StrategyLog takes the build recorded on the last version log line.
	StrategyLog Strategy = "log"
	// StrategyTag continues after the highest existing tag for the prefix.
	StrategyTag Strategy = "tag"
)

// ErrBackendNotConfigured indicates the resolver was constructed without a tag backend.
var ErrBackendNotConfigured = errors.New(backendRequiredMessageConstant)

// ErrTagSpaceExhausted indicates every candidate within the probe limit already exists.
var ErrTagSpaceExhausted = errors.New(tagSpaceExhaustedMessageConstant)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(value))) {
	case StrategyLog:
		return StrategyLog, nil
	case StrategyTag:
		return StrategyTag, nil
	default:
		return "", fmt.Errorf(unsupportedStrategyTemplateConstant, value)
	}
}

// Request describes what to resolve. LogBuild is only consulted by StrategyLog.
type Request struct {
	Prefix           string
	Major            int
	Minor            int
	LogBuild         int
	Strategy         Strategy
	MaxProbeAttempts int
}

// Resolution reports the chosen tag and how it was found.
type Resolution struct {
	Tag       versioning.VersionTag
	BaseBuild int
	Probes    int
}

// ResolverDependencies wires collaborators for the Resolver.
type ResolverDependencies struct {
	Backend TagBackend
	Logger  *zap.Logger
}

// Resolver picks the smallest unused build at or above the base.
type Resolver struct {
	backend TagBackend
	logger  *zap.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(dependencies ResolverDependencies) (*Resolver, error) {
	if dependencies.Backend == nil {
		return nil, ErrBackendNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{backend: dependencies.Backend, logger: logger}, nil
}

// Resolve returns the first {prefix}-{major}.{minor}.{build} absent from the backend, probing upward from the base.
func (resolver *Resolver) Resolve(executionContext context.Context, repositoryPath string, request Request) (Resolution, error) {
	if len(request.Prefix) == 0 {
		return Resolution{}, versioning.ErrEmptyPrefix
	}
	if request.Major < 0 || request.Minor < 0 || request.LogBuild < 0 {
		return Resolution{}, fmt.Errorf(invalidRequestTemplateConstant, negativeNumbersMessageConstant)
	}

	strategy := request.Strategy
	if len(strategy) == 0 {
		strategy = StrategyLog
	}
	maxProbeAttempts := request.MaxProbeAttempts
	if maxProbeAttempts <= 0 {
		maxProbeAttempts = DefaultMaxProbeAttemptsConstant
	}

	baseTag, baseError := resolver.baseTag(executionContext, repositoryPath, request, strategy)
	if baseError != nil {
		return Resolution{}, baseError
	}

	for attempt := 0; attempt < maxProbeAttempts; attempt++ {
		if contextError := executionContext.Err(); contextError != nil {
			return Resolution{}, contextError
		}

		if attempt > math.MaxInt-baseTag.Build {
			return Resolution{}, fmt.Errorf(buildOverflowTemplateConstant, ErrTagSpaceExhausted, baseTag.WithBuild(math.MaxInt).String())
		}
		candidate := baseTag.WithBuild(baseTag.Build + attempt)
		exists, probeError := resolver.backend.TagExists(executionContext, repositoryPath, candidate.String())
		if probeError != nil {
			return Resolution{}, fmt.Errorf(probeErrorTemplateConstant, candidate.String(), probeError)
		}
		resolver.logger.Debug(probeLogMessageConstant,
			zap.String(repositoryLogFieldConstant, repositoryPath),
			zap.String(tagLogFieldConstant, candidate.String()),
			zap.Bool(existsLogFieldConstant, exists),
		)
		if exists {
			continue
		}

		resolver.logger.Info(resolvedLogMessageConstant,
			zap.String(repositoryLogFieldConstant, repositoryPath),
			zap.String(tagLogFieldConstant, candidate.String()),
			zap.String(strategyLogFieldConstant, string(strategy)),
			zap.Int(probesLogFieldConstant, attempt+1),
		)
		return Resolution{Tag: candidate, BaseBuild: baseTag.Build, Probes: attempt + 1}, nil
	}

	return Resolution{}, fmt.Errorf(exhaustedTemplateConstant, ErrTagSpaceExhausted, maxProbeAttempts, baseTag.String())
}

func (resolver *Resolver) baseTag(executionContext context.Context, repositoryPath string, request Request, strategy Strategy) (versioning.VersionTag, error) {
	configured := versioning.VersionTag{Prefix: request.Prefix, Major: request.Major, Minor: request.Minor}

	switch strategy {
	case StrategyLog:
		return configured.WithBuild(request.LogBuild), nil
	case StrategyTag:
		pattern := versioning.TagGlob(request.Prefix)
		existingTags, listError := resolver.backend.ListTags(executionContext, repositoryPath, pattern)
		if listError != nil {
			return versioning.VersionTag{}, fmt.Errorf(listErrorTemplateConstant, pattern, listError)
		}
		highest, found := versioning.Highest(request.Prefix, existingTags)
		if !found {
			return configured, nil
		}
		if highest.Build == math.MaxInt {
			return versioning.VersionTag{}, fmt.Errorf(buildOverflowTemplateConstant, ErrTagSpaceExhausted, highest.String())
		}
		return highest.WithBuild(highest.Build + 1), nil
	default:
		return versioning.VersionTag{}, fmt.Errorf(unsupportedStrategyTemplateConstant, strategy)
	}
}
