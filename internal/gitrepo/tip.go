package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/temirov/gitprops/internal/identity"
)

const (
	// ShortHashLength is the number of leading hex characters kept in a short hash.
	ShortHashLength = 7

	hashTooShortMessageConstant       = "commit hash shorter than short hash length"
	hashTooShortTemplateConstant      = "%w: %q"
	resolveHeadOperationConstant      = "resolve HEAD"
	readTipCommitOperationConstant    = "read tip commit"
	convertTipAuthorOperationConstant = "read tip commit author"
)

// ErrHashTooShort indicates a hash cannot be abbreviated to ShortHashLength characters.
var ErrHashTooShort = errors.New(hashTooShortMessageConstant)

// TipCommit describes the commit HEAD currently resolves to.
type TipCommit struct {
	Hash       string
	ShortHash  string
	AuthorName string
	Author     identity.AuthorIdentity
}

// ShortHash returns the first ShortHashLength characters of hash.
func ShortHash(hash string) (string, error) {
	if len(hash) < ShortHashLength {
		return "", fmt.Errorf(hashTooShortTemplateConstant, ErrHashTooShort, hash)
	}
	return hash[:ShortHashLength], nil
}

// ResolveTip resolves HEAD to a commit. The boolean is false when HEAD does not point at a
// commit yet (empty repository or unborn branch); that outcome is not an error.
func (repository *Repository) ResolveTip(executionContext context.Context) (TipCommit, bool, error) {
	if repository == nil || repository.repository == nil {
		return TipCommit{}, false, ErrRepositoryHandleMissing
	}
	if executionContext != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return TipCommit{}, false, contextError
		}
	}

	headReference, headError := repository.repository.Head()
	if headError != nil {
		if errors.Is(headError, plumbing.ErrReferenceNotFound) {
			return TipCommit{}, false, nil
		}
		return TipCommit{}, false, repository.readError(resolveHeadOperationConstant, headError)
	}

	commit, commitError := repository.repository.CommitObject(headReference.Hash())
	if commitError != nil {
		return TipCommit{}, false, repository.readError(readTipCommitOperationConstant, commitError)
	}

	author, authorError := identity.FromSignature(&commit.Author)
	if authorError != nil {
		return TipCommit{}, false, repository.readError(convertTipAuthorOperationConstant, authorError)
	}

	fullHash := commit.Hash.String()
	shortHash, shortHashError := ShortHash(fullHash)
	if shortHashError != nil {
		return TipCommit{}, false, shortHashError
	}

	return TipCommit{
		Hash:       fullHash,
		ShortHash:  shortHash,
		AuthorName: author.Name,
		Author:     author,
	}, true, nil
}
