// Package gitrepo reads repository metadata through go-git.
//
// Opener opens a working directory read-only. Repository exposes the branch and
// author collector, which walks every commit reachable from any reference, and
// the tip resolver, which turns HEAD into a concrete commit. Neither operation
// mutates the repository.
package gitrepo
