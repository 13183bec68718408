package properties

const (
	// BranchNameKey holds the current branch short name.
	BranchNameKey = "git.branch.name"
	// BranchFullNameKey holds the current branch full reference name.
	BranchFullNameKey = "git.branch.name_full"
	// BranchAuthorsKey holds the distinct authors reachable from every reference.
	BranchAuthorsKey = "git.branch.authors"
	// LastCommitHashKey holds the full hash of the tip commit.
	LastCommitHashKey = "git.commit.last.sha1"
	// LastCommitShortHashKey holds the abbreviated hash of the tip commit.
	LastCommitShortHashKey = "git.commit.last.sha1_short"
	// LastCommitAuthorKey holds the display name of the tip commit author.
	LastCommitAuthorKey = "git.commit.last.author"

	// MissingCommitValue is published for hashes when HEAD does not resolve to a commit.
	MissingCommitValue = "none"
	// MissingAuthorValue is published for author properties when no author is known.
	MissingAuthorValue = "nobody"
)

// PublishedKeys lists every key in publication order.
func PublishedKeys() []string {
	return []string{
		BranchNameKey,
		BranchFullNameKey,
		BranchAuthorsKey,
		LastCommitHashKey,
		LastCommitShortHashKey,
		LastCommitAuthorKey,
	}
}
