package publisher

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitprops/internal/gitrepo"
	"github.com/temirov/gitprops/internal/identity"
	"github.com/temirov/gitprops/internal/properties"
)

const (
	commitNotFoundMessageConstant        = "commit not found"
	propertiesPublishedMessageConstant   = "git properties published"
	repositoryCloseFailedMessageConstant = "failed to close repository"
	logFieldRepositoryPathConstant       = "repository_path"
	logFieldBranchConstant               = "branch"
	logFieldAuthorCountConstant          = "author_count"
	logFieldVisitedCommitsConstant       = "visited_commits"
	logFieldCommitConstant               = "commit"
)

// RepositoryOpener opens a repository from a working directory path.
type RepositoryOpener interface {
	Open(path string) (*gitrepo.Repository, error)
}

// Dependencies enumerates collaborators required by the service.
type Dependencies struct {
	Opener RepositoryOpener
	Logger *zap.Logger
}

// Options configure a publication.
type Options struct {
	RepositoryPath string
	EqualityPolicy identity.EqualityPolicy
}

// Report mirrors every property written during a publication.
type Report struct {
	RepositoryPath string
	Values         map[string]string
	AuthorNames    []string
	VisitedCommits int
	TipResolved    bool
}

// Value returns the value written under key.
func (report Report) Value(key string) (string, bool) {
	value, exists := report.Values[key]
	return value, exists
}

// Entries returns the written properties in publication order.
func (report Report) Entries() []properties.Entry {
	entries := make([]properties.Entry, 0, len(report.Values))
	for _, key := range properties.PublishedKeys() {
		if value, exists := report.Values[key]; exists {
			entries = append(entries, properties.Entry{Key: key, Value: value})
		}
	}
	return entries
}

// Service publishes repository metadata as build properties.
type Service struct {
	opener RepositoryOpener
	logger *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Opener == nil {
		return nil, ErrOpenerNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{opener: dependencies.Opener, logger: logger}, nil
}

// Publish writes the branch, author, and tip commit properties of the repository at
// options.RepositoryPath into store. Branch properties are written before the tip commit is
// resolved, so a tip failure leaves them in place while commit properties stay absent.
// Nothing is written when the repository cannot be opened or its history cannot be read.
func (service *Service) Publish(executionContext context.Context, options Options, store properties.Store) (Report, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Report{}, newError(ErrorKindMissingContext, "", ErrRepositoryPathRequired)
	}
	if store == nil {
		return Report{}, newError(ErrorKindMissingContext, repositoryPath, ErrStoreRequired)
	}
	policy, policyError := identity.ParseEqualityPolicy(string(options.EqualityPolicy))
	if policyError != nil {
		return Report{}, newError(ErrorKindMissingContext, repositoryPath, policyError)
	}
	if executionContext == nil {
		executionContext = context.Background()
	}

	repository, openError := service.opener.Open(repositoryPath)
	if openError != nil {
		return Report{}, newError(ErrorKindRepositoryOpen, repositoryPath, openError)
	}
	defer func() {
		if closeError := repository.Close(); closeError != nil {
			service.logger.Warn(repositoryCloseFailedMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath), zap.Error(closeError))
		}
	}()

	resolvedPath := repository.Path()
	if len(resolvedPath) == 0 {
		resolvedPath = repositoryPath
	}

	branchAuthors, collectError := repository.CollectBranchAuthors(executionContext, policy)
	if collectError != nil {
		return Report{}, newError(ErrorKindRepositoryRead, resolvedPath, collectError)
	}

	report := Report{
		RepositoryPath: resolvedPath,
		Values:         make(map[string]string, len(properties.PublishedKeys())),
		AuthorNames:    branchAuthors.Authors.Names(),
		VisitedCommits: branchAuthors.VisitedCommits,
	}
	writer := propertyWriter{store: store, report: &report}

	if writeError := writer.write(
		properties.Entry{Key: properties.BranchNameKey, Value: branchAuthors.BranchName},
		properties.Entry{Key: properties.BranchFullNameKey, Value: branchAuthors.BranchFullName},
		properties.Entry{Key: properties.BranchAuthorsKey, Value: branchAuthors.Authors.Render(properties.MissingAuthorValue)},
	); writeError != nil {
		return report, writeError
	}

	tipCommit, tipFound, tipError := repository.ResolveTip(executionContext)
	if tipError != nil {
		return report, newError(ErrorKindRepositoryRead, resolvedPath, tipError)
	}

	commitEntries := []properties.Entry{
		{Key: properties.LastCommitHashKey, Value: properties.MissingCommitValue},
		{Key: properties.LastCommitShortHashKey, Value: properties.MissingCommitValue},
		{Key: properties.LastCommitAuthorKey, Value: properties.MissingAuthorValue},
	}
	if tipFound {
		commitEntries[0].Value = tipCommit.Hash
		commitEntries[1].Value = tipCommit.ShortHash
		commitEntries[2].Value = tipCommit.AuthorName
	} else {
		service.logger.Error(commitNotFoundMessageConstant, zap.String(logFieldRepositoryPathConstant, resolvedPath))
	}
	report.TipResolved = tipFound

	if writeError := writer.write(commitEntries...); writeError != nil {
		return report, writeError
	}

	service.logger.Info(
		propertiesPublishedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, resolvedPath),
		zap.String(logFieldBranchConstant, branchAuthors.BranchName),
		zap.Int(logFieldAuthorCountConstant, len(report.AuthorNames)),
		zap.Int(logFieldVisitedCommitsConstant, report.VisitedCommits),
		zap.String(logFieldCommitConstant, commitEntries[0].Value),
	)

	return report, nil
}

type propertyWriter struct {
	store  properties.Store
	report *Report
}

func (writer propertyWriter) write(entries ...properties.Entry) error {
	for _, entry := range entries {
		if setError := writer.store.SetProperty(entry.Key, entry.Value); setError != nil {
			return newError(ErrorKindPropertyWrite, writer.report.RepositoryPath, setError)
		}
		writer.report.Values[entry.Key] = entry.Value
	}
	return nil
}
