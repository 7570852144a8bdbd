package versionlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	logFilePermissionsConstant        = 0o644
	lineTerminatorConstant            = "\n"
	fileSystemRequiredMessageConstant = "version log filesystem not configured"
	fileNameRequiredMessageConstant   = "version log file name required"
	fileNameNotBaseTemplateConstant   = "version log file name %q must not contain path separators"
	statErrorTemplateConstant         = "inspect version log %s: %w"
	createErrorTemplateConstant       = "create version log %s: %w"
	readErrorTemplateConstant         = "read version log %s: %w"
	appendErrorTemplateConstant       = "append to version log %s: %w"
)

// ErrFileSystemNotConfigured indicates the store was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemRequiredMessageConstant)

// ErrFileNameRequired indicates the store was constructed without a log file name.
var ErrFileNameRequired = errors.New(fileNameRequiredMessageConstant)

// Store reads and appends the version log at the root of each repository.
type Store struct {
	fileSystem afero.Fs
	fileName   string
	format     Format
}

// NewStore constructs a Store for fileName, which is resolved relative to each repository root.
func NewStore(fileSystem afero.Fs, fileName string, format Format) (*Store, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	trimmedFileName := strings.TrimSpace(fileName)
	if len(trimmedFileName) == 0 {
		return nil, ErrFileNameRequired
	}
	if filepath.Base(trimmedFileName) != trimmedFileName {
		return nil, fmt.Errorf(fileNameNotBaseTemplateConstant, fileName)
	}
	if _, formatError := ParseFormat(string(format)); formatError != nil {
		return nil, formatError
	}
	return &Store{fileSystem: fileSystem, fileName: trimmedFileName, format: format}, nil
}

// FileName returns the log file name relative to the repository root.
func (store *Store) FileName() string {
	return store.fileName
}

// Path returns the absolute log path inside repositoryPath.
func (store *Store) Path(repositoryPath string) string {
	return filepath.Join(repositoryPath, store.fileName)
}

// Exists reports whether the log file is present.
func (store *Store) Exists(repositoryPath string) (bool, error) {
	exists, statError := afero.Exists(store.fileSystem, store.Path(repositoryPath))
	if statError != nil {
		return false, fmt.Errorf(statErrorTemplateConstant, store.Path(repositoryPath), statError)
	}
	return exists, nil
}

// Create writes an empty log. An existing log is left untouched.
func (store *Store) Create(repositoryPath string) error {
	logFile, openError := store.fileSystem.OpenFile(store.Path(repositoryPath), os.O_CREATE|os.O_WRONLY, logFilePermissionsConstant)
	if openError != nil {
		return fmt.Errorf(createErrorTemplateConstant, store.Path(repositoryPath), openError)
	}
	return logFile.Close()
}

// Append writes one formatted line, adding a separating newline when the existing content lacks one.
func (store *Store) Append(repositoryPath string, entry Entry) error {
	logPath := store.Path(repositoryPath)
	existing, readError := store.readIfPresent(logPath)
	if readError != nil {
		return readError
	}

	line := FormatEntry(store.format, entry) + lineTerminatorConstant
	if len(existing) > 0 && !strings.HasSuffix(existing, lineTerminatorConstant) {
		line = lineTerminatorConstant + line
	}

	logFile, openError := store.fileSystem.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePermissionsConstant)
	if openError != nil {
		return fmt.Errorf(appendErrorTemplateConstant, logPath, openError)
	}
	if _, writeError := io.WriteString(logFile, line); writeError != nil {
		_ = logFile.Close()
		return fmt.Errorf(appendErrorTemplateConstant, logPath, writeError)
	}
	if closeError := logFile.Close(); closeError != nil {
		return fmt.Errorf(appendErrorTemplateConstant, logPath, closeError)
	}
	return nil
}

// LastBuild returns the build number recorded on the last non-blank line, or 0 when
// the log is absent, empty, or the line carries no version.
func (store *Store) LastBuild(repositoryPath string, prefix string) (int, error) {
	content, readError := store.readIfPresent(store.Path(repositoryPath))
	if readError != nil {
		return 0, readError
	}

	lines := strings.Split(content, lineTerminatorConstant)
	for lineIndex := len(lines) - 1; lineIndex >= 0; lineIndex-- {
		line := strings.TrimSpace(lines[lineIndex])
		if len(line) == 0 {
			continue
		}
		build, parsed := ParseBuild(prefix, line)
		if !parsed {
			return 0, nil
		}
		return build, nil
	}
	return 0, nil
}

func (store *Store) readIfPresent(logPath string) (string, error) {
	content, readError := afero.ReadFile(store.fileSystem, logPath)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf(readErrorTemplateConstant, logPath, readError)
	}
	return string(content), nil
}
