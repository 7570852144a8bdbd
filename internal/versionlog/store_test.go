package versionlog_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/eymenaizona/build-creater/internal/versioning"
	"github.com/eymenaizona/build-creater/internal/versionlog"
)

const (
	testRepositoryPathConstant = "/work/app"
	testLogFileNameConstant    = "build_version.txt"
	testPrefixConstant         = "build"
)

var testTimestamp = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

func newTestStore(testInstance *testing.T, format versionlog.Format) (*versionlog.Store, afero.Fs) {
	testInstance.Helper()
	fileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, fileSystem.MkdirAll(testRepositoryPathConstant, 0o755))
	store, creationError := versionlog.NewStore(fileSystem, testLogFileNameConstant, format)
	require.NoError(testInstance, creationError)
	return store, fileSystem
}

func TestNewStoreValidation(testInstance *testing.T) {
	testCases := []struct {
		name        string
		fileSystem  afero.Fs
		fileName    string
		format      versionlog.Format
		expectError error
	}{
		{name: "missing_filesystem", fileName: testLogFileNameConstant, format: versionlog.FormatRelease, expectError: versionlog.ErrFileSystemNotConfigured},
		{name: "missing_file_name", fileSystem: afero.NewMemMapFs(), fileName: " ", format: versionlog.FormatRelease, expectError: versionlog.ErrFileNameRequired},
		{name: "nested_file_name", fileSystem: afero.NewMemMapFs(), fileName: "logs/build.txt", format: versionlog.FormatRelease},
		{name: "unknown_format", fileSystem: afero.NewMemMapFs(), fileName: testLogFileNameConstant, format: versionlog.Format("csv")},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			store, creationError := versionlog.NewStore(testCase.fileSystem, testCase.fileName, testCase.format)
			require.Error(testInstance, creationError)
			require.Nil(testInstance, store)
			if testCase.expectError != nil {
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestStoreLastBuildOfMissingOrEmptyLogIsZero(testInstance *testing.T) {
	store, _ := newTestStore(testInstance, versionlog.FormatRelease)

	exists, existsError := store.Exists(testRepositoryPathConstant)
	require.NoError(testInstance, existsError)
	require.False(testInstance, exists)

	build, buildError := store.LastBuild(testRepositoryPathConstant, testPrefixConstant)
	require.NoError(testInstance, buildError)
	require.Zero(testInstance, build)

	require.NoError(testInstance, store.Create(testRepositoryPathConstant))
	exists, existsError = store.Exists(testRepositoryPathConstant)
	require.NoError(testInstance, existsError)
	require.True(testInstance, exists)

	build, buildError = store.LastBuild(testRepositoryPathConstant, testPrefixConstant)
	require.NoError(testInstance, buildError)
	require.Zero(testInstance, build)
}

func TestStoreAppendMakesLastEntryTheBase(testInstance *testing.T) {
	for _, format := range []versionlog.Format{versionlog.FormatRelease, versionlog.FormatTag, versionlog.FormatWorkspace} {
		testInstance.Run(string(format), func(testInstance *testing.T) {
			store, _ := newTestStore(testInstance, format)

			for build := 0; build < 5; build++ {
				entry := versionlog.Entry{
					Timestamp:        testTimestamp.Add(time.Duration(build) * time.Minute),
					Tag:              versioning.VersionTag{Prefix: testPrefixConstant, Major: 1, Minor: 2, Build: build},
					CommitSummary:    fmt.Sprintf("Bump dependency 3.4.%d", 90+build),
					WorkingDirectory: testRepositoryPathConstant,
					Branch:           "main",
				}
				require.NoError(testInstance, store.Append(testRepositoryPathConstant, entry))

				lastBuild, buildError := store.LastBuild(testRepositoryPathConstant, testPrefixConstant)
				require.NoError(testInstance, buildError)
				require.Equal(testInstance, build, lastBuild)
			}
		})
	}
}

func TestStoreAppendWritesFormattedLines(testInstance *testing.T) {
	store, fileSystem := newTestStore(testInstance, versionlog.FormatRelease)
	require.NoError(testInstance, afero.WriteFile(fileSystem, store.Path(testRepositoryPathConstant), []byte("Version: 1.0.3, Timestamp: 2024-03-04 10:00:00, Last Commit: \"Initial\""), 0o644))

	entry := versionlog.Entry{
		Timestamp:     testTimestamp,
		Tag:           versioning.VersionTag{Prefix: testPrefixConstant, Major: 1, Minor: 0, Build: 4},
		CommitSummary: "Fix login\nredirect",
	}
	require.NoError(testInstance, store.Append(testRepositoryPathConstant, entry))

	content, readError := afero.ReadFile(fileSystem, store.Path(testRepositoryPathConstant))
	require.NoError(testInstance, readError)
	require.Equal(testInstance,
		"Version: 1.0.3, Timestamp: 2024-03-04 10:00:00, Last Commit: \"Initial\"\n"+
			"Version: 1.0.4, Timestamp: 2024-03-05 14:07:09, Last Commit: \"Fix login redirect\"\n",
		string(content))
}

func TestStoreLastBuildIgnoresTrailingBlankLinesAndNonNumericEntries(testInstance *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected int
	}{
		{name: "trailing_blank_lines", content: "2024-03-04 10:00:00, build-1.0.7\n\n  \n", expected: 7},
		{name: "non_numeric_last_line", content: "2024-03-04 10:00:00, build-1.0.7\nmanual edit\n", expected: 0},
		{name: "legacy_bare_version", content: "1.0.12\n", expected: 12},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			store, fileSystem := newTestStore(testInstance, versionlog.FormatTag)
			require.NoError(testInstance, afero.WriteFile(fileSystem, store.Path(testRepositoryPathConstant), []byte(testCase.content), 0o644))

			build, buildError := store.LastBuild(testRepositoryPathConstant, testPrefixConstant)
			require.NoError(testInstance, buildError)
			require.Equal(testInstance, testCase.expected, build)
		})
	}
}
