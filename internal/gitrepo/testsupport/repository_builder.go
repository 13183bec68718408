// Package testsupport builds throwaway go-git repositories for tests.
package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

const (
	// DefaultBranchNameConstant is the branch HEAD points at in freshly built repositories.
	DefaultBranchNameConstant = "main"

	commitFileNameTemplateConstant    = "file-%03d.txt"
	commitFileContentTemplateConstant = "content %d\n"
	commitMessageTemplateConstant     = "commit %d"
	tagMessageTemplateConstant        = "tag %s"
	taggerNameConstant                = "Release Bot"
	taggerEmailConstant               = "release@example.com"
	gitDirectoryNameConstant          = ".git"
	objectsDirectoryNameConstant      = "objects"
)

var baseCommitTime = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

// RepositoryBuilder creates commits, branches, and tags in a go-git repository.
type RepositoryBuilder struct {
	Repository   *git.Repository
	Path         string
	testInstance testing.TB
	worktree     *git.Worktree
	sequence     int
}

// NewFilesystemRepository initializes a repository on disk with HEAD on DefaultBranchNameConstant.
func NewFilesystemRepository(testInstance testing.TB, directory string) *RepositoryBuilder {
	testInstance.Helper()

	repository, initError := git.PlainInit(directory, false)
	require.NoError(testInstance, initError)

	return newRepositoryBuilder(testInstance, repository, directory)
}

// NewMemoryRepository initializes a repository backed by in-memory storage and a memfs worktree.
func NewMemoryRepository(testInstance testing.TB) *RepositoryBuilder {
	testInstance.Helper()

	repository, initError := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(testInstance, initError)

	return newRepositoryBuilder(testInstance, repository, "")
}

func newRepositoryBuilder(testInstance testing.TB, repository *git.Repository, path string) *RepositoryBuilder {
	testInstance.Helper()

	headReference := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(DefaultBranchNameConstant))
	require.NoError(testInstance, repository.Storer.SetReference(headReference))

	worktree, worktreeError := repository.Worktree()
	require.NoError(testInstance, worktreeError)

	return &RepositoryBuilder{
		Repository:   repository,
		Path:         path,
		testInstance: testInstance,
		worktree:     worktree,
	}
}

// Commit records a new commit on the checked-out branch authored by name and email.
func (builder *RepositoryBuilder) Commit(name string, email string) plumbing.Hash {
	builder.testInstance.Helper()

	builder.sequence++
	fileName := fmt.Sprintf(commitFileNameTemplateConstant, builder.sequence)
	file, createError := builder.worktree.Filesystem.Create(fileName)
	require.NoError(builder.testInstance, createError)
	_, writeError := file.Write([]byte(fmt.Sprintf(commitFileContentTemplateConstant, builder.sequence)))
	require.NoError(builder.testInstance, writeError)
	require.NoError(builder.testInstance, file.Close())

	_, addError := builder.worktree.Add(fileName)
	require.NoError(builder.testInstance, addError)

	commitHash, commitError := builder.worktree.Commit(fmt.Sprintf(commitMessageTemplateConstant, builder.sequence), &git.CommitOptions{
		Author: &object.Signature{
			Name:  name,
			Email: email,
			When:  baseCommitTime.Add(time.Duration(builder.sequence) * time.Minute),
		},
	})
	require.NoError(builder.testInstance, commitError)
	return commitHash
}

// CheckoutNewBranch creates branchName at startHash and checks it out.
func (builder *RepositoryBuilder) CheckoutNewBranch(branchName string, startHash plumbing.Hash) {
	builder.testInstance.Helper()

	checkoutError := builder.worktree.Checkout(&git.CheckoutOptions{
		Hash:   startHash,
		Branch: plumbing.NewBranchReferenceName(branchName),
		Create: true,
	})
	require.NoError(builder.testInstance, checkoutError)
}

// CheckoutBranch checks out an existing branch.
func (builder *RepositoryBuilder) CheckoutBranch(branchName string) {
	builder.testInstance.Helper()

	checkoutError := builder.worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branchName),
	})
	require.NoError(builder.testInstance, checkoutError)
}

// SetReference points referenceName directly at hash without touching the worktree.
func (builder *RepositoryBuilder) SetReference(referenceName plumbing.ReferenceName, hash plumbing.Hash) {
	builder.testInstance.Helper()

	require.NoError(builder.testInstance, builder.Repository.Storer.SetReference(plumbing.NewHashReference(referenceName, hash)))
}

// DetachHead points HEAD directly at hash.
func (builder *RepositoryBuilder) DetachHead(hash plumbing.Hash) {
	builder.testInstance.Helper()

	builder.SetReference(plumbing.HEAD, hash)
}

// PointHeadAt makes HEAD a symbolic reference to branchName, which may not exist yet.
func (builder *RepositoryBuilder) PointHeadAt(branchName string) {
	builder.testInstance.Helper()

	headReference := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branchName))
	require.NoError(builder.testInstance, builder.Repository.Storer.SetReference(headReference))
}

// DeleteBranch removes a branch reference.
func (builder *RepositoryBuilder) DeleteBranch(branchName string) {
	builder.testInstance.Helper()

	require.NoError(builder.testInstance, builder.Repository.Storer.RemoveReference(plumbing.NewBranchReferenceName(branchName)))
}

// DeleteTag removes a tag reference while leaving any tag object in place.
func (builder *RepositoryBuilder) DeleteTag(tagName string) {
	builder.testInstance.Helper()

	require.NoError(builder.testInstance, builder.Repository.Storer.RemoveReference(plumbing.NewTagReferenceName(tagName)))
}

// AnnotatedTag creates an annotated tag named tagName that targets hash.
func (builder *RepositoryBuilder) AnnotatedTag(tagName string, hash plumbing.Hash) plumbing.Hash {
	builder.testInstance.Helper()

	tagReference, tagError := builder.Repository.CreateTag(tagName, hash, &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  taggerNameConstant,
			Email: taggerEmailConstant,
			When:  baseCommitTime,
		},
		Message: fmt.Sprintf(tagMessageTemplateConstant, tagName),
	})
	require.NoError(builder.testInstance, tagError)
	return tagReference.Hash()
}

// LightweightTag creates a lightweight tag named tagName that targets hash.
func (builder *RepositoryBuilder) LightweightTag(tagName string, hash plumbing.Hash) {
	builder.testInstance.Helper()

	_, tagError := builder.Repository.CreateTag(tagName, hash, nil)
	require.NoError(builder.testInstance, tagError)
}

// TreeHash returns the root tree of the commit identified by hash.
func (builder *RepositoryBuilder) TreeHash(hash plumbing.Hash) plumbing.Hash {
	builder.testInstance.Helper()

	commit, commitError := builder.Repository.CommitObject(hash)
	require.NoError(builder.testInstance, commitError)
	return commit.TreeHash
}

// TruncateHistory turns the repository into a depth-limited clone whose history ends at boundary:
// boundary is recorded as shallow and every ancestor commit object is removed.
func (builder *RepositoryBuilder) TruncateHistory(boundary plumbing.Hash) {
	builder.testInstance.Helper()

	boundaryCommit, commitError := builder.Repository.CommitObject(boundary)
	require.NoError(builder.testInstance, commitError)

	ancestors := make(map[plumbing.Hash]bool)
	pending := append([]plumbing.Hash{}, boundaryCommit.ParentHashes...)
	for len(pending) > 0 {
		lastIndex := len(pending) - 1
		ancestorHash := pending[lastIndex]
		pending = pending[:lastIndex]
		if ancestors[ancestorHash] {
			continue
		}
		ancestors[ancestorHash] = true

		ancestorCommit, ancestorError := builder.Repository.CommitObject(ancestorHash)
		require.NoError(builder.testInstance, ancestorError)
		pending = append(pending, ancestorCommit.ParentHashes...)
	}

	require.NoError(builder.testInstance, builder.Repository.Storer.SetShallow([]plumbing.Hash{boundary}))
	for ancestorHash := range ancestors {
		builder.removeObject(ancestorHash)
	}
}

func (builder *RepositoryBuilder) removeObject(hash plumbing.Hash) {
	builder.testInstance.Helper()

	if memoryStorage, isMemory := builder.Repository.Storer.(*memory.Storage); isMemory {
		delete(memoryStorage.Objects, hash)
		delete(memoryStorage.Commits, hash)
		return
	}

	hashText := hash.String()
	objectPath := filepath.Join(builder.Path, gitDirectoryNameConstant, objectsDirectoryNameConstant, hashText[:2], hashText[2:])
	require.NoError(builder.testInstance, os.Remove(objectPath))
}
