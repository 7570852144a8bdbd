package versioning_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eymenaizona/build-creater/internal/versioning"
)

func TestVersionTagString(t *testing.T) {
	tag := versioning.VersionTag{Prefix: "build", Major: 1, Minor: 0, Build: 4}

	require.Equal(t, "build-1.0.4", tag.String())
	require.Equal(t, "1.0.4", tag.Version())
	require.Equal(t, "build-1.0.9", tag.WithBuild(9).String())
	require.Equal(t, "build-*", versioning.TagGlob("build"))
}

func TestParseTag(t *testing.T) {
	testCases := []struct {
		name        string
		prefix      string
		input       string
		expected    versioning.VersionTag
		expectError bool
	}{
		{name: "canonical", prefix: "build", input: "build-1.0.3", expected: versioning.VersionTag{Prefix: "build", Major: 1, Minor: 0, Build: 3}},
		{name: "hyphenated_prefix", prefix: "release-candidate", input: "release-candidate-2.5.17", expected: versioning.VersionTag{Prefix: "release-candidate", Major: 2, Minor: 5, Build: 17}},
		{name: "other_prefix", prefix: "build", input: "release-1.0.3", expectError: true},
		{name: "missing_component", prefix: "build", input: "build-1.0", expectError: true},
		{name: "suffix", prefix: "build", input: "build-1.0.3-rc1", expectError: true},
		{name: "non_numeric", prefix: "build", input: "build-1.x.3", expectError: true},
		{name: "signed", prefix: "build", input: "build-1.0.+3", expectError: true},
		{name: "empty_prefix", prefix: "", input: "-1.0.3", expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			parsed, parseError := versioning.ParseTag(testCase.prefix, testCase.input)
			if testCase.expectError {
				require.Error(t, parseError)
				return
			}
			require.NoError(t, parseError)
			require.Equal(t, testCase.expected, parsed)
			require.Equal(t, testCase.input, parsed.String())
		})
	}
}

func TestCompareOrdersNumerically(t *testing.T) {
	lower := versioning.VersionTag{Prefix: "build", Major: 1, Minor: 2, Build: 9}
	higher := versioning.VersionTag{Prefix: "build", Major: 1, Minor: 10, Build: 0}

	require.Equal(t, -1, versioning.Compare(lower, higher))
	require.Equal(t, 1, versioning.Compare(higher, lower))
	require.Equal(t, 0, versioning.Compare(lower, lower))
}

func TestHighest(t *testing.T) {
	highest, found := versioning.Highest("build", []string{"build-1.0.9", "build-1.0.10", "build-0.9.99", "build-x", "release-9.9.9"})
	require.True(t, found)
	require.Equal(t, "build-1.0.10", highest.String())

	_, found = versioning.Highest("build", []string{"release-1.0.0"})
	require.False(t, found)
}
