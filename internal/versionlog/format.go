package versionlog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eymenaizona/build-creater/internal/versioning"
)

const (
	// TimestampLayoutConstant is the layout of every timestamp written to the log.
	TimestampLayoutConstant = "2006-01-02 15:04:05"

	releaseLineTemplateConstant       = "Version: %s, Timestamp: %s, Last Commit: \"%s\""
	tagLineTemplateConstant           = "%s, %s"
	workspaceLineTemplateConstant     = "%s, %s, %s, %s"
	unsupportedFormatTemplateConstant = "unsupported log entry format %q (expected release, tag, or workspace)"
	lineBreakReplacementConstant      = " "
)

// Format selects the shape of appended log lines.
type Format string

// Supported formats.
const (
	FormatRelease   Format = "release"
	FormatTag       Format = "tag"
	FormatWorkspace Format = "workspace"
)

var (
	versionMarkerExpression = regexp.MustCompile(`Version:\s*(\d+)\.(\d+)\.(\d+)`)
	versionTripleExpression = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)
	lineBreakReplacer       = strings.NewReplacer("\r\n", lineBreakReplacementConstant, "\n", lineBreakReplacementConstant, "\r", lineBreakReplacementConstant)

	// prefixedExpressions caches one compiled {prefix}-X.Y.Z expression per prefix.
	prefixedExpressions sync.Map
)

// ParseFormat validates a configured format name.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatRelease:
		return FormatRelease, nil
	case FormatTag:
		return FormatTag, nil
	case FormatWorkspace:
		return FormatWorkspace, nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, value)
	}
}

// Entry is one released version.
type Entry struct {
	Timestamp        time.Time
	Tag              versioning.VersionTag
	CommitSummary    string
	WorkingDirectory string
	Branch           string
}

// FormatEntry renders entry as a single log line without the trailing newline.
func FormatEntry(format Format, entry Entry) string {
	timestamp := entry.Timestamp.Format(TimestampLayoutConstant)
	switch format {
	case FormatTag:
		return fmt.Sprintf(tagLineTemplateConstant, timestamp, entry.Tag.String())
	case FormatWorkspace:
		return fmt.Sprintf(workspaceLineTemplateConstant, timestamp, entry.Tag.String(), entry.WorkingDirectory, entry.Branch)
	default:
		return fmt.Sprintf(releaseLineTemplateConstant, entry.Tag.Version(), timestamp, lineBreakReplacer.Replace(entry.CommitSummary))
	}
}

// ParseBuild extracts the build number from a log line written in any format.
// The explicit Version marker wins, then a {prefix}-X.Y.Z tag, then the last X.Y.Z triple.
func ParseBuild(prefix string, line string) (int, bool) {
	if match := versionMarkerExpression.FindStringSubmatch(line); match != nil {
		return atoiBuild(match[3])
	}

	if len(prefix) > 0 {
		if match := prefixedBuildExpression(prefix).FindStringSubmatch(line); match != nil {
			return atoiBuild(match[3])
		}
	}

	matches := versionTripleExpression.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return 0, false
	}
	return atoiBuild(matches[len(matches)-1][3])
}

func prefixedBuildExpression(prefix string) *regexp.Regexp {
	if cached, exists := prefixedExpressions.Load(prefix); exists {
		return cached.(*regexp.Regexp)
	}
	compiled := regexp.MustCompile(regexp.QuoteMeta(prefix) + `-(\d+)\.(\d+)\.(\d+)`)
	actual, _ := prefixedExpressions.LoadOrStore(prefix, compiled)
	return actual.(*regexp.Regexp)
}

func atoiBuild(value string) (int, bool) {
	build, conversionError := strconv.Atoi(value)
	if conversionError != nil {
		return 0, false
	}
	return build, true
}
