package gitrepo

import (
	"fmt"
	"path"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	gitProtocolPrefixConstant           = "git://"
	fileProtocolPrefixConstant          = "file://"
	scpUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	requiredValueMessageConstant        = "value required"
	defaultRepositoryNameConstant       = "repository"
)

// RemoteProtocol enumerates the transports a repository reference may use.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
	RemoteProtocolGit   RemoteProtocol = RemoteProtocol("git")
	RemoteProtocolFile  RemoteProtocol = RemoteProtocol("file")
)

var protocolPrefixes = []struct {
	prefix   string
	protocol RemoteProtocol
}{
	{prefix: sshProtocolPrefixConstant, protocol: RemoteProtocolSSH},
	{prefix: httpsProtocolPrefixConstant, protocol: RemoteProtocolHTTPS},
	{prefix: httpProtocolPrefixConstant, protocol: RemoteProtocolHTTP},
	{prefix: gitProtocolPrefixConstant, protocol: RemoteProtocolGit},
	{prefix: fileProtocolPrefixConstant, protocol: RemoteProtocolFile},
}

// RemoteURL represents a structured clone URL.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Path       string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// IsRemoteReference reports whether reference must be cloned rather than opened in place.
// URL schemes and scp-like user@host:path forms are remote; everything else is a filesystem path.
func IsRemoteReference(reference string) bool {
	_, parseError := ParseRemoteURL(reference)
	return parseError == nil
}

// ParseRemoteURL converts a textual clone URL into a structured representation.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	for _, candidate := range protocolPrefixes {
		if strings.HasPrefix(strings.ToLower(trimmedRemote), candidate.prefix) {
			return parseSchemeRemote(trimmedRemote, trimmedRemote[len(candidate.prefix):], candidate.protocol)
		}
	}

	return parseScpLikeRemote(trimmedRemote)
}

func parseSchemeRemote(original string, remainder string, protocol RemoteProtocol) (RemoteURL, error) {
	if protocol == RemoteProtocolFile {
		return buildRemoteURL(original, protocol, "", remainder)
	}

	separatorIndex := strings.Index(remainder, pathSeparatorConstant)
	if separatorIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: original, Message: invalidRemoteURLMessageConstant}
	}
	host := remainder[:separatorIndex]
	if userIndex := strings.LastIndex(host, scpUserDelimiterConstant); userIndex >= 0 {
		host = host[userIndex+1:]
	}
	return buildRemoteURL(original, protocol, host, remainder[separatorIndex+1:])
}

func parseScpLikeRemote(remote string) (RemoteURL, error) {
	userIndex := strings.Index(remote, scpUserDelimiterConstant)
	pathIndex := strings.Index(remote, scpPathDelimiterConstant)
	if userIndex <= 0 || pathIndex <= userIndex+1 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	if strings.Contains(remote[:pathIndex], pathSeparatorConstant) {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	return buildRemoteURL(remote, RemoteProtocolSSH, remote[userIndex+1:pathIndex], remote[pathIndex+1:])
}

func buildRemoteURL(original string, protocol RemoteProtocol, host string, repositoryPath string) (RemoteURL, error) {
	trimmedPath := strings.Trim(repositoryPath, pathSeparatorConstant)
	repositoryName := strings.TrimSuffix(path.Base(trimmedPath), gitSuffixConstant)
	if len(trimmedPath) == 0 || len(repositoryName) == 0 || repositoryName == "." {
		return RemoteURL{}, RemoteURLParseError{Input: original, Message: invalidRemoteURLMessageConstant}
	}
	return RemoteURL{Protocol: protocol, Host: host, Path: trimmedPath, Repository: repositoryName}, nil
}

// RepositoryName derives a short directory-safe name from a remote URL or a filesystem path.
func RepositoryName(reference string) string {
	if remoteURL, parseError := ParseRemoteURL(reference); parseError == nil {
		return remoteURL.Repository
	}
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(strings.TrimSpace(reference), "\\", pathSeparatorConstant)), gitSuffixConstant)
	if len(base) == 0 || base == "." || base == pathSeparatorConstant {
		return defaultRepositoryNameConstant
	}
	return base
}
