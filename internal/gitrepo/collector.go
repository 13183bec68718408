package gitrepo

import (
	"context"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"

	"github.com/temirov/gitprops/internal/identity"
)

const (
	readHeadOperationConstant         = "read HEAD reference"
	listReferencesOperationConstant   = "list references"
	resolveReferenceOperationConstant = "resolve reference"
	walkHistoryOperationConstant      = "walk commit history"
	readShallowOperationConstant      = "read shallow boundary"
	readAuthorOperationConstant       = "read commit author"
	parsingCommitMessageConstant      = "parsing commit"
	skippedReferenceMessageConstant   = "skipping reference without commit target"
	collectedAuthorsMessageConstant   = "collected commit authors"
	logFieldCommitConstant            = "commit"
	logFieldAuthorConstant            = "author"
	logFieldReferenceConstant         = "reference"
	logFieldTargetTypeConstant        = "target_type"
	logFieldStartCountConstant        = "start_count"
	logFieldVisitedCountConstant      = "visited_commits"
	logFieldAuthorCountConstant       = "author_count"
)

// BranchAuthors is the outcome of collecting branch names and authors.
type BranchAuthors struct {
	BranchName     string
	BranchFullName string
	Authors        *identity.AuthorSet
	VisitedCommits int
}

// CollectBranchAuthors resolves the current branch names and gathers the distinct authors of
// every commit reachable from any reference. Each commit is visited exactly once.
// On failure no partial result is returned.
func (repository *Repository) CollectBranchAuthors(executionContext context.Context, policy identity.EqualityPolicy) (BranchAuthors, error) {
	if repository == nil || repository.repository == nil {
		return BranchAuthors{}, ErrRepositoryHandleMissing
	}
	if executionContext == nil {
		executionContext = context.Background()
	}

	branchName, branchFullName, branchError := repository.currentBranch()
	if branchError != nil {
		return BranchAuthors{}, branchError
	}

	startCommits, startError := repository.startCommits()
	if startError != nil {
		return BranchAuthors{}, startError
	}

	shallowCommits, shallowError := repository.shallowBoundary()
	if shallowError != nil {
		return BranchAuthors{}, shallowError
	}

	authors := identity.NewAuthorSet(policy)
	visited := make(map[plumbing.Hash]bool)

	for _, startCommit := range startCommits {
		if walkError := repository.walkHistory(executionContext, startCommit.Hash, visited, shallowCommits, authors); walkError != nil {
			return BranchAuthors{}, walkError
		}
	}

	repository.logger.Debug(
		collectedAuthorsMessageConstant,
		zap.Int(logFieldStartCountConstant, len(startCommits)),
		zap.Int(logFieldVisitedCountConstant, len(visited)),
		zap.Int(logFieldAuthorCountConstant, authors.Len()),
	)

	return BranchAuthors{
		BranchName:     branchName,
		BranchFullName: branchFullName,
		Authors:        authors,
		VisitedCommits: len(visited),
	}, nil
}

// currentBranch reads HEAD without resolving it, so unborn branches still report their name.
// A detached HEAD reports the commit hash for both names.
func (repository *Repository) currentBranch() (string, string, error) {
	headReference, headError := repository.repository.Reference(plumbing.HEAD, false)
	if headError != nil {
		return "", "", repository.readError(readHeadOperationConstant, headError)
	}

	if headReference.Type() == plumbing.SymbolicReference {
		targetName := headReference.Target()
		return targetName.Short(), targetName.String(), nil
	}

	headHash := headReference.Hash().String()
	return headHash, headHash, nil
}

// startCommits peels every hash reference to a commit. Symbolic references are skipped because
// their targets are enumerated on their own. The result is ordered by reference name.
func (repository *Repository) startCommits() ([]*object.Commit, error) {
	referenceIterator, referencesError := repository.repository.References()
	if referencesError != nil {
		return nil, repository.readError(listReferencesOperationConstant, referencesError)
	}
	defer referenceIterator.Close()

	var references []*plumbing.Reference
	iterationError := referenceIterator.ForEach(func(reference *plumbing.Reference) error {
		if reference.Type() != plumbing.HashReference {
			return nil
		}
		references = append(references, reference)
		return nil
	})
	if iterationError != nil {
		return nil, repository.readError(listReferencesOperationConstant, iterationError)
	}

	sort.Slice(references, func(leftIndex int, rightIndex int) bool {
		return references[leftIndex].Name().String() < references[rightIndex].Name().String()
	})

	seenStarts := make(map[plumbing.Hash]bool)
	startCommits := make([]*object.Commit, 0, len(references))
	for _, reference := range references {
		commit, targetType, peelError := repository.peelToCommit(reference.Hash())
		if peelError != nil {
			return nil, repository.readError(resolveReferenceOperationConstant+" "+reference.Name().String(), peelError)
		}
		if commit == nil {
			repository.logger.Debug(
				skippedReferenceMessageConstant,
				zap.String(logFieldReferenceConstant, reference.Name().String()),
				zap.String(logFieldTargetTypeConstant, targetType.String()),
			)
			continue
		}
		if seenStarts[commit.Hash] {
			continue
		}
		seenStarts[commit.Hash] = true
		startCommits = append(startCommits, commit)
	}

	return startCommits, nil
}

// shallowBoundary lists the commits whose parents were cut off by a shallow clone.
func (repository *Repository) shallowBoundary() (map[plumbing.Hash]bool, error) {
	shallowHashes, shallowError := repository.repository.Storer.Shallow()
	if shallowError != nil {
		return nil, repository.readError(readShallowOperationConstant, shallowError)
	}
	boundary := make(map[plumbing.Hash]bool, len(shallowHashes))
	for _, shallowHash := range shallowHashes {
		boundary[shallowHash] = true
	}
	return boundary, nil
}

// walkHistory visits every unvisited commit reachable from start, newest first. Commits on the
// shallow boundary are treated as roots.
func (repository *Repository) walkHistory(executionContext context.Context, start plumbing.Hash, visited map[plumbing.Hash]bool, shallowCommits map[plumbing.Hash]bool, authors *identity.AuthorSet) error {
	pending := []plumbing.Hash{start}
	for len(pending) > 0 {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		lastIndex := len(pending) - 1
		commitHash := pending[lastIndex]
		pending = pending[:lastIndex]
		if visited[commitHash] {
			continue
		}

		commit, commitError := repository.repository.CommitObject(commitHash)
		if commitError != nil {
			return repository.readError(walkHistoryOperationConstant, commitError)
		}
		visited[commitHash] = true

		author, authorError := identity.FromSignature(&commit.Author)
		if authorError != nil {
			return repository.readError(readAuthorOperationConstant, authorError)
		}
		repository.logger.Debug(
			parsingCommitMessageConstant,
			zap.String(logFieldCommitConstant, commitHash.String()),
			zap.String(logFieldAuthorConstant, author.ExternalString()),
		)
		authors.Add(author)

		if shallowCommits[commitHash] {
			continue
		}
		for parentIndex := len(commit.ParentHashes) - 1; parentIndex >= 0; parentIndex-- {
			parentHash := commit.ParentHashes[parentIndex]
			if !visited[parentHash] {
				pending = append(pending, parentHash)
			}
		}
	}
	return nil
}

// peelToCommit follows annotated tags until it reaches a commit. A nil commit with no error
// means the chain ends in a tree or blob.
func (repository *Repository) peelToCommit(hash plumbing.Hash) (*object.Commit, plumbing.ObjectType, error) {
	gitObject, objectError := repository.repository.Object(plumbing.AnyObject, hash)
	if objectError != nil {
		return nil, plumbing.InvalidObject, objectError
	}

	for {
		switch typedObject := gitObject.(type) {
		case *object.Commit:
			return typedObject, plumbing.CommitObject, nil
		case *object.Tag:
			if typedObject.TargetType != plumbing.CommitObject && typedObject.TargetType != plumbing.TagObject {
				return nil, typedObject.TargetType, nil
			}
			targetObject, targetError := typedObject.Object()
			if targetError != nil {
				return nil, typedObject.TargetType, targetError
			}
			gitObject = targetObject
		default:
			return nil, gitObject.Type(), nil
		}
	}
}
