// Package cli constructs the gitprops command-line interface: the Cobra command tree, the
// Viper-backed configuration loader, and zap logging.
package cli
