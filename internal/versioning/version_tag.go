// Package versioning models {prefix}-{major}.{minor}.{build} version tags.
package versioning

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	tagTemplateConstant               = "%s-%d.%d.%d"
	versionTemplateConstant           = "%d.%d.%d"
	semverTemplateConstant            = "v%d.%d.%d"
	prefixSeparatorConstant           = "-"
	versionComponentSeparatorConstant = "."
	versionComponentCountConstant     = 3
	tagGlobSuffixConstant             = "-*"
	emptyPrefixMessageConstant        = "tag prefix required"
	malformedTagTemplateConstant      = "malformed version tag %q for prefix %q"
	negativeComponentTemplateConstant = "negative version component in %q"
)

// ErrEmptyPrefix indicates a tag was composed or parsed without a prefix.
var ErrEmptyPrefix = errors.New(emptyPrefixMessageConstant)

// VersionTag is a prefixed three-component version.
type VersionTag struct {
	Prefix string
	Major  int
	Minor  int
	Build  int
}

// String renders the canonical form, for example build-1.0.4.
func (tag VersionTag) String() string {
	return fmt.Sprintf(tagTemplateConstant, tag.Prefix, tag.Major, tag.Minor, tag.Build)
}

// Version renders the numeric part only.
func (tag VersionTag) Version() string {
	return fmt.Sprintf(versionTemplateConstant, tag.Major, tag.Minor, tag.Build)
}

// WithBuild returns a copy of the tag carrying build.
func (tag VersionTag) WithBuild(build int) VersionTag {
	tag.Build = build
	return tag
}

func (tag VersionTag) semver() string {
	return fmt.Sprintf(semverTemplateConstant, tag.Major, tag.Minor, tag.Build)
}

// Compare orders tags by (major, minor, build) and returns -1, 0, or +1.
func Compare(first VersionTag, second VersionTag) int {
	return semver.Compare(first.semver(), second.semver())
}

// TagGlob returns the git tag --list pattern matching every tag for prefix.
func TagGlob(prefix string) string {
	return prefix + tagGlobSuffixConstant
}

// ParseTag accepts exactly {prefix}-{major}.{minor}.{build}.
func ParseTag(prefix string, candidate string) (VersionTag, error) {
	if len(prefix) == 0 {
		return VersionTag{}, ErrEmptyPrefix
	}
	trimmed := strings.TrimSpace(candidate)
	expectedPrefix := prefix + prefixSeparatorConstant
	if !strings.HasPrefix(trimmed, expectedPrefix) {
		return VersionTag{}, fmt.Errorf(malformedTagTemplateConstant, candidate, prefix)
	}

	components, parseError := ParseVersion(strings.TrimPrefix(trimmed, expectedPrefix))
	if parseError != nil {
		return VersionTag{}, fmt.Errorf(malformedTagTemplateConstant, candidate, prefix)
	}
	components.Prefix = prefix
	return components, nil
}

// ParseVersion parses a bare MAJOR.MINOR.BUILD triple into a prefix-less tag.
func ParseVersion(candidate string) (VersionTag, error) {
	parts := strings.Split(strings.TrimSpace(candidate), versionComponentSeparatorConstant)
	if len(parts) != versionComponentCountConstant {
		return VersionTag{}, fmt.Errorf(malformedTagTemplateConstant, candidate, "")
	}

	values := make([]int, 0, versionComponentCountConstant)
	for _, part := range parts {
		if len(part) == 0 || strings.TrimLeft(part, "0123456789") != "" {
			return VersionTag{}, fmt.Errorf(malformedTagTemplateConstant, candidate, "")
		}
		value, conversionError := strconv.Atoi(part)
		if conversionError != nil {
			return VersionTag{}, conversionError
		}
		if value < 0 {
			return VersionTag{}, fmt.Errorf(negativeComponentTemplateConstant, candidate)
		}
		values = append(values, value)
	}
	return VersionTag{Major: values[0], Minor: values[1], Build: values[2]}, nil
}

// Highest returns the greatest well-formed tag for prefix among candidates.
// Tags that do not parse are ignored. The boolean is false when none qualify.
func Highest(prefix string, candidates []string) (VersionTag, bool) {
	var highest VersionTag
	found := false
	for _, candidate := range candidates {
		parsed, parseError := ParseTag(prefix, candidate)
		if parseError != nil {
			continue
		}
		if !found || Compare(parsed, highest) > 0 {
			highest = parsed
			found = true
		}
	}
	return highest, found
}
