package gitrepo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

const (
	repositoryPathRequiredMessageConstant  = "repository path must be provided"
	repositoryNotFoundMessageConstant      = "git repository not found"
	repositoryReadMessageConstant          = "failed to read git repository"
	repositoryHandleMissingMessageConstant = "repository handle not initialized"
	repositoryNotFoundTemplateConstant     = "%w: %s"
	repositoryOpenErrorTemplateConstant    = "failed to open repository %s: %w"
	repositoryPathResolveTemplateConstant  = "failed to resolve repository path %s: %w"
	repositoryReadErrorTemplateConstant    = "%w: %s: %w"
	logFieldRepositoryPathConstant         = "repository_path"
	logFieldSearchParentsConstant          = "search_parents"
	repositoryOpenedMessageConstant        = "git repository opened"
)

// ErrRepositoryPathRequired indicates the repository path was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrRepositoryNotFound indicates the path does not hold an openable git repository.
var ErrRepositoryNotFound = errors.New(repositoryNotFoundMessageConstant)

// ErrRepositoryRead indicates an I/O or parse failure while reading references or commits.
var ErrRepositoryRead = errors.New(repositoryReadMessageConstant)

// ErrRepositoryHandleMissing indicates a Repository was used without an underlying go-git handle.
var ErrRepositoryHandleMissing = errors.New(repositoryHandleMissingMessageConstant)

// Opener opens repositories from working directory paths.
type Opener struct {
	// DetectParentRepository searches parent directories for a .git entry when set.
	DetectParentRepository bool
	Logger                 *zap.Logger
}

// Repository is a read-only handle over a go-git repository.
type Repository struct {
	path       string
	repository *git.Repository
	logger     *zap.Logger
}

// NewRepository wraps an already opened go-git repository.
func NewRepository(path string, repository *git.Repository, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{path: path, repository: repository, logger: logger}
}

// Open opens the repository rooted at path.
func (opener Opener) Open(path string) (*Repository, error) {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return nil, ErrRepositoryPathRequired
	}

	absolutePath, absoluteError := filepath.Abs(trimmedPath)
	if absoluteError != nil {
		return nil, fmt.Errorf(repositoryPathResolveTemplateConstant, trimmedPath, absoluteError)
	}

	if _, statError := os.Stat(absolutePath); statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return nil, fmt.Errorf(repositoryNotFoundTemplateConstant, ErrRepositoryNotFound, absolutePath)
		}
		return nil, fmt.Errorf(repositoryOpenErrorTemplateConstant, absolutePath, statError)
	}

	repository, openError := git.PlainOpenWithOptions(absolutePath, &git.PlainOpenOptions{
		DetectDotGit: opener.DetectParentRepository,
	})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf(repositoryNotFoundTemplateConstant, ErrRepositoryNotFound, absolutePath)
		}
		return nil, fmt.Errorf(repositoryOpenErrorTemplateConstant, absolutePath, openError)
	}

	logger := opener.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(
		repositoryOpenedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, absolutePath),
		zap.Bool(logFieldSearchParentsConstant, opener.DetectParentRepository),
	)

	return NewRepository(absolutePath, repository, logger), nil
}

// Path returns the path the repository was opened from.
func (repository *Repository) Path() string {
	return repository.path
}

// Close releases storage handles held by the underlying repository.
func (repository *Repository) Close() error {
	if repository == nil || repository.repository == nil {
		return nil
	}
	if closer, isCloser := repository.repository.Storer.(io.Closer); isCloser {
		return closer.Close()
	}
	return nil
}

func (repository *Repository) readError(operation string, cause error) error {
	return fmt.Errorf(repositoryReadErrorTemplateConstant, ErrRepositoryRead, operation, cause)
}
