package tags

import "context"

//go:generate mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks

// TagBackend answers tag queries for a working copy.
type TagBackend interface {
	TagExists(executionContext context.Context, repositoryPath string, tagName string) (bool, error)
	ListTags(executionContext context.Context, repositoryPath string, pattern string) ([]string, error)
}
