package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eymenaizona/build-creater/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    gitrepo.RemoteURL
		expectError bool
	}{
		{
			name:     "scp_like",
			input:    "git@github.com:acme/api.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Path: "acme/api.git", Repository: "api"},
		},
		{
			name:     "ssh_scheme_with_user",
			input:    "ssh://git@git.example.com/team/tools.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "git.example.com", Path: "team/tools.git", Repository: "tools"},
		},
		{
			name:     "https",
			input:    "https://github.com/acme/web",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "github.com", Path: "acme/web", Repository: "web"},
		},
		{
			name:     "git_protocol",
			input:    "git://example.org/mirror/core.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolGit, Host: "example.org", Path: "mirror/core.git", Repository: "core"},
		},
		{
			name:     "file_scheme",
			input:    "file:///srv/git/app.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolFile, Path: "srv/git/app.git", Repository: "app"},
		},
		{name: "absolute_path", input: "/srv/work/app", expectError: true},
		{name: "home_path", input: "~/src/app", expectError: true},
		{name: "relative_path_with_colon", input: "./build@2:x", expectError: true},
		{name: "empty", input: "  ", expectError: true},
		{name: "https_without_path", input: "https://github.com", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsed, parseError := gitrepo.ParseRemoteURL(testCase.input)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				require.False(testInstance, gitrepo.IsRemoteReference(testCase.input))
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, parsed)
			require.True(testInstance, gitrepo.IsRemoteReference(testCase.input))
		})
	}
}

func TestRepositoryName(testInstance *testing.T) {
	testCases := []struct {
		reference string
		expected  string
	}{
		{reference: "git@github.com:acme/api.git", expected: "api"},
		{reference: "/srv/work/web/", expected: "web"},
		{reference: "/srv/mirror/core.git", expected: "core"},
		{reference: "/", expected: "repository"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.reference, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, gitrepo.RepositoryName(testCase.reference))
		})
	}
}
