// Package publisher turns repository state into build properties. It opens a repository,
// collects branch and author metadata, resolves the tip commit, and writes six keys into a
// properties.Store. It also hosts the parse command that exposes the workflow on the CLI.
package publisher
