package tags_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eymenaizona/build-creater/internal/tags"
	"github.com/eymenaizona/build-creater/internal/tags/mocks"
)

const (
	testRepositoryPathConstant = "/work/app"
	testPrefixConstant         = "build"
)

func newResolver(t *testing.T, backend tags.TagBackend) *tags.Resolver {
	t.Helper()
	resolver, creationError := tags.NewResolver(tags.ResolverDependencies{Backend: backend})
	require.NoError(t, creationError)
	return resolver
}

func TestNewResolverRequiresBackend(t *testing.T) {
	resolver, creationError := tags.NewResolver(tags.ResolverDependencies{})
	require.ErrorIs(t, creationError, tags.ErrBackendNotConfigured)
	require.Nil(t, resolver)
}

func TestResolveLogStrategySkipsExistingTags(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTagBackend(ctrl)

	gomock.InOrder(
		backend.EXPECT().TagExists(gomock.Any(), testRepositoryPathConstant, "build-1.0.3").Return(true, nil),
		backend.EXPECT().TagExists(gomock.Any(), testRepositoryPathConstant, "build-1.0.4").Return(false, nil),
	)

	resolution, resolveError := newResolver(t, backend).Resolve(context.Background(), testRepositoryPathConstant, tags.Request{
		Prefix:   testPrefixConstant,
		Major:    1,
		Minor:    0,
		LogBuild: 3,
		Strategy: tags.StrategyLog,
	})

	require.NoError(t, resolveError)
	require.Equal(t, "build-1.0.4", resolution.Tag.String())
	require.Equal(t, 3, resolution.BaseBuild)
	require.Equal(t, 2, resolution.Probes)
}

func TestResolveFreshRepositoryYieldsZeroBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTagBackend(ctrl)
	backend.EXPECT().TagExists(gomock.Any(), testRepositoryPathConstant, "build-1.0.0").Return(false, nil)

	resolution, resolveError := newResolver(t, backend).Resolve(context.Background(), testRepositoryPathConstant, tags.Request{
		Prefix: testPrefixConstant,
		Major:  1,
	})

	require.NoError(t, resolveError)
	require.Equal(t, "build-1.0.0", resolution.Tag.String())
}

func TestResolveNeverReturnsExistingTag(t *testing.T) {
	existing := map[string]bool{"build-2.1.5": true, "build-2.1.6": true, "build-2.1.8": true}

	for logBuild := 0; logBuild < 10; logBuild++ {
		t.Run(fmt.Sprintf("log_build_%d", logBuild), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			backend := mocks.NewMockTagBackend(ctrl)
			backend.EXPECT().TagExists(gomock.Any(), testRepositoryPathConstant, gomock.Any()).DoAndReturn(
				func(_ context.Context, _ string, tagName string) (bool, error) {
					return existing[tagName], nil
				},
			).AnyTimes()

			resolution, resolveError := newResolver(t, backend).Resolve(context.Background(), testRepositoryPathConstant, tags.Request{
				Prefix:   testPrefixConstant,
				Major:    2,
				Minor:    1,
				LogBuild: logBuild,
			})

			require.NoError(t, resolveError)
			require.False(t, existing[resolution.Tag.String()])
			require.GreaterOrEqual(t, resolution.Tag.Build, logBuild)
		})
	}
}

func TestResolveIsMonotonicAcrossReleases(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTagBackend(ctrl)
	created := map[string]bool{}
	backend.EXPECT().TagExists(gomock.Any(), testRepositoryPathConstant, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, tagName string) (bool, error) {
			return created[tagName], nil
		},
	).AnyTimes()

	resolver := newResolver(t, backend)
	previousBuild := -1
	logBuild := 0
	for release := 0; release < 5; release++ {
		resolution, resolveError := resolver.Resolve(context.Background(), testRepositoryPathConstant, tags.Request{Prefix: testPrefixConstant, Major: 1, LogBuild: logBuild})
		require.NoError(t, resolveError)
		require.Greater(t, resolution.Tag.Build, previousBuild)

		created[resolution.Tag.String()] = true
		previousBuild = resolution.Tag.Build
		logBuild = resolution.Tag.Build
	}
}

func TestResolveTagStrategy(t *testing.T) {
	testCases := []struct {
		name          string
		existingTags  []string
		expectedProbe string
	}{
		{name: "continues_after_highest", existingTags: []string{"build-1.0.9", "build-1.2.3", "build-1.0.10"}, expectedProbe: "build-1.2.4"},
		{name: "ignores_malformed", existingTags: []string{"build-nightly", "build-1.0.0-rc1"}, expectedProbe: "build-3.4.0"},
		{name: "no_tags_uses_configuration", existingTags: nil, expectedProbe: "build-3.4.0"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			backend := mocks.NewMockTagBackend(ctrl)
			backend.EXPECT().ListTags(gomock.Any(), testRepositoryPathConstant, "build-*").Return(testCase.existingTags, nil)
			backend.EXPECT().TagExists(gomock.Any(), testRepositoryPathConstant, testCase.expectedProbe).Return(false, nil)

			resolution, resolveError := newResolver(t, backend).Resolve(context.Background(), testRepositoryPathConstant, tags.Request{
				Prefix:   testPrefixConstant,
				Major:    3,
				Minor:    4,
				LogBuild: 99,
				Strategy: tags.StrategyTag,
			})

			require.NoError(t, resolveError)
			require.Equal(t, testCase.expectedProbe, resolution.Tag.String())
		})
	}
}

func TestResolveFailsWhenProbeCapExceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTagBackend(ctrl)
	backend.EXPECT().TagExists(gomock.Any(), testRepositoryPathConstant, gomock.Any()).Return(true, nil).Times(3)

	_, resolveError := newResolver(t, backend).Resolve(context.Background(), testRepositoryPathConstant, tags.Request{
		Prefix:           testPrefixConstant,
		Major:            1,
		MaxProbeAttempts: 3,
	})

	require.ErrorIs(t, resolveError, tags.ErrTagSpaceExhausted)
}

func TestResolveFailsWhenBuildNumberWouldOverflow(t *testing.T) {
	maximumBuildTag := fmt.Sprintf("build-1.0.%d", math.MaxInt)

	testCases := []struct {
		name      string
		strategy  tags.Strategy
		configure func(backend *mocks.MockTagBackend)
	}{
		{
			name:     "tag_strategy_at_maximum",
			strategy: tags.StrategyTag,
			configure: func(backend *mocks.MockTagBackend) {
				backend.EXPECT().ListTags(gomock.Any(), testRepositoryPathConstant, "build-*").Return([]string{maximumBuildTag}, nil)
			},
		},
		{
			name:     "log_strategy_at_maximum_taken",
			strategy: tags.StrategyLog,
			configure: func(backend *mocks.MockTagBackend) {
				backend.EXPECT().TagExists(gomock.Any(), testRepositoryPathConstant, maximumBuildTag).Return(true, nil)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			backend := mocks.NewMockTagBackend(ctrl)
			testCase.configure(backend)

			resolution, resolveError := newResolver(t, backend).Resolve(context.Background(), testRepositoryPathConstant, tags.Request{
				Prefix:   testPrefixConstant,
				Major:    1,
				LogBuild: math.MaxInt,
				Strategy: testCase.strategy,
			})

			require.ErrorIs(t, resolveError, tags.ErrTagSpaceExhausted)
			require.Equal(t, tags.Resolution{}, resolution)
		})
	}
}

func TestResolveAcceptsMaximumBuildWhenFree(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTagBackend(ctrl)
	backend.EXPECT().TagExists(gomock.Any(), testRepositoryPathConstant, fmt.Sprintf("build-1.0.%d", math.MaxInt)).Return(false, nil)

	resolution, resolveError := newResolver(t, backend).Resolve(context.Background(), testRepositoryPathConstant, tags.Request{
		Prefix:   testPrefixConstant,
		Major:    1,
		LogBuild: math.MaxInt,
	})

	require.NoError(t, resolveError)
	require.Equal(t, math.MaxInt, resolution.Tag.Build)
}

func TestResolvePropagatesBackendErrors(t *testing.T) {
	backendFailure := errors.New("not a git repository")
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTagBackend(ctrl)
	backend.EXPECT().TagExists(gomock.Any(), testRepositoryPathConstant, "build-1.0.0").Return(false, backendFailure)

	_, resolveError := newResolver(t, backend).Resolve(context.Background(), testRepositoryPathConstant, tags.Request{Prefix: testPrefixConstant, Major: 1})

	require.ErrorIs(t, resolveError, backendFailure)
}

func TestResolveRejectsInvalidRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockTagBackend(ctrl)
	resolver := newResolver(t, backend)

	_, emptyPrefixError := resolver.Resolve(context.Background(), testRepositoryPathConstant, tags.Request{})
	require.Error(t, emptyPrefixError)

	_, negativeError := resolver.Resolve(context.Background(), testRepositoryPathConstant, tags.Request{Prefix: testPrefixConstant, Major: -1})
	require.Error(t, negativeError)

	_, strategyError := resolver.Resolve(context.Background(), testRepositoryPathConstant, tags.Request{Prefix: testPrefixConstant, Strategy: tags.Strategy("semver")})
	require.Error(t, strategyError)
}

func TestParseStrategy(t *testing.T) {
	strategy, parseError := tags.ParseStrategy(" TAG ")
	require.NoError(t, parseError)
	require.Equal(t, tags.StrategyTag, strategy)

	_, parseError = tags.ParseStrategy("latest")
	require.Error(t, parseError)
}
