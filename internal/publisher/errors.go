package publisher

import (
	"errors"
	"fmt"
)

// ErrorKind classifies publication failures.
type ErrorKind string

const (
	// ErrorKindMissingContext reports an invocation without a repository path, store, or valid options.
	ErrorKindMissingContext ErrorKind = "missing_context"
	// ErrorKindRepositoryOpen reports a path that does not hold an openable repository.
	ErrorKindRepositoryOpen ErrorKind = "repository_open"
	// ErrorKindRepositoryRead reports a failure while walking references or reading commits.
	ErrorKindRepositoryRead ErrorKind = "repository_read"
	// ErrorKindPropertyWrite reports a store that rejected a property.
	ErrorKindPropertyWrite ErrorKind = "property_write"

	errorWithPathTemplateConstant    = "%s (%s): %v"
	errorWithoutPathTemplateConstant = "%s: %v"
)

const (
	openerMissingMessageConstant          = "repository opener not configured"
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	storeRequiredMessageConstant          = "property store must be provided"
)

// ErrOpenerNotConfigured indicates the service was constructed without a repository opener.
var ErrOpenerNotConfigured = errors.New(openerMissingMessageConstant)

// ErrRepositoryPathRequired indicates Publish was called without a repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrStoreRequired indicates Publish was called without a property store.
var ErrStoreRequired = errors.New(storeRequiredMessageConstant)

// Error describes a failed publication.
type Error struct {
	Kind           ErrorKind
	RepositoryPath string
	Err            error
}

func newError(kind ErrorKind, repositoryPath string, cause error) *Error {
	return &Error{Kind: kind, RepositoryPath: repositoryPath, Err: cause}
}

// Error implements the error interface.
func (publicationError *Error) Error() string {
	if len(publicationError.RepositoryPath) == 0 {
		return fmt.Sprintf(errorWithoutPathTemplateConstant, publicationError.Kind, publicationError.Err)
	}
	return fmt.Sprintf(errorWithPathTemplateConstant, publicationError.Kind, publicationError.RepositoryPath, publicationError.Err)
}

// Unwrap exposes the underlying cause.
func (publicationError *Error) Unwrap() error {
	return publicationError.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var publicationError *Error
	if errors.As(err, &publicationError) {
		return publicationError.Kind, true
	}
	return "", false
}
