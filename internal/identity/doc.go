// Package identity normalizes commit author identities for deduplication.
//
// AuthorIdentity wraps the name, email, and timestamp recorded on a commit and
// defines equality under an explicit EqualityPolicy. AuthorSet accumulates
// identities so that no two members are equal under the active policy.
package identity
