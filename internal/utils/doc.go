// Package utils houses the ConfigurationLoader and LoggerFactory shared by the CLI: Viper
// layering of embedded defaults, files, and environment variables, and zap logger construction.
package utils
