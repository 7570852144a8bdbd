package pathutils

import (
	"path/filepath"
	"strings"
)

const (
	booleanLiteralTrueValueConstant  = "true"
	booleanLiteralFalseValueConstant = "false"
	referenceListSeparatorsConstant  = ", \t\n"
)

// ReferencePreserver reports whether a reference must be kept verbatim, such as a remote URL.
type ReferencePreserver func(reference string) bool

// RepositoryReferenceSanitizerConfiguration controls repository reference sanitization behavior.
type RepositoryReferenceSanitizerConfiguration struct {
	// ExcludeBooleanLiteralCandidates removes arguments that represent boolean literals.
	ExcludeBooleanLiteralCandidates bool
	// PreserveReference marks references that are neither expanded nor cleaned.
	PreserveReference ReferencePreserver
}

// RepositoryReferenceSanitizer normalizes repository references supplied on the command line or in configuration.
// A single argument may carry several references separated by commas or whitespace.
type RepositoryReferenceSanitizer struct {
	homeExpander  *HomeExpander
	configuration RepositoryReferenceSanitizerConfiguration
}

// NewRepositoryReferenceSanitizer constructs a sanitizer with default behavior.
func NewRepositoryReferenceSanitizer() *RepositoryReferenceSanitizer {
	return NewRepositoryReferenceSanitizerWithConfiguration(nil, RepositoryReferenceSanitizerConfiguration{})
}

// NewRepositoryReferenceSanitizerWithConfiguration constructs a sanitizer using the provided expander and configuration.
func NewRepositoryReferenceSanitizerWithConfiguration(homeExpander *HomeExpander, configuration RepositoryReferenceSanitizerConfiguration) *RepositoryReferenceSanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}

	return &RepositoryReferenceSanitizer{
		homeExpander:  resolvedExpander,
		configuration: configuration,
	}
}

// Sanitize splits, trims, expands, and de-duplicates references while keeping first-seen order.
func (sanitizer *RepositoryReferenceSanitizer) Sanitize(candidateReferences []string) []string {
	if sanitizer == nil {
		sanitizer = NewRepositoryReferenceSanitizer()
	}

	seenReferences := make(map[string]struct{})
	sanitizedReferences := make([]string, 0, len(candidateReferences))
	for _, candidate := range candidateReferences {
		for _, token := range splitReferences(candidate) {
			if sanitizer.configuration.ExcludeBooleanLiteralCandidates && isBooleanLiteral(token) {
				continue
			}

			normalized := sanitizer.normalize(token)
			if len(normalized) == 0 {
				continue
			}
			if _, seen := seenReferences[normalized]; seen {
				continue
			}
			seenReferences[normalized] = struct{}{}
			sanitizedReferences = append(sanitizedReferences, normalized)
		}
	}

	if len(sanitizedReferences) == 0 {
		return nil
	}
	return sanitizedReferences
}

func (sanitizer *RepositoryReferenceSanitizer) normalize(reference string) string {
	if sanitizer.configuration.PreserveReference != nil && sanitizer.configuration.PreserveReference(reference) {
		return reference
	}
	expandedPath := sanitizer.homeExpander.Expand(reference)
	return filepath.Clean(expandedPath)
}

func splitReferences(candidate string) []string {
	return strings.FieldsFunc(candidate, func(character rune) bool {
		return strings.ContainsRune(referenceListSeparatorsConstant, character)
	})
}

func isBooleanLiteral(candidate string) bool {
	loweredCandidate := strings.ToLower(candidate)
	return loweredCandidate == booleanLiteralTrueValueConstant || loweredCandidate == booleanLiteralFalseValueConstant
}
