package publisher

import (
	"strings"

	"github.com/temirov/gitprops/internal/identity"
	"github.com/temirov/gitprops/internal/properties"
)

const (
	configurationRepositoryKeyConstant     = "repository"
	configurationOutputKeyConstant         = "output"
	configurationFormatKeyConstant         = "format"
	configurationEqualityPolicyKeyConstant = "equality_policy"
	configurationSearchParentsKeyConstant  = "search_parents"
	configurationFailOnErrorKeyConstant    = "fail_on_error"
	configurationKeySeparatorConstant      = "."
	defaultRepositoryPathConstant          = "."
)

// CommandConfiguration captures persistent settings for the parse command.
type CommandConfiguration struct {
	RepositoryPath string `mapstructure:"repository"`
	OutputPath     string `mapstructure:"output"`
	Format         string `mapstructure:"format"`
	EqualityPolicy string `mapstructure:"equality_policy"`
	SearchParents  bool   `mapstructure:"search_parents"`
	FailOnError    bool   `mapstructure:"fail_on_error"`
}

// DefaultCommandConfiguration returns baseline configuration values for the parse command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryPath: defaultRepositoryPathConstant,
		OutputPath:     "",
		Format:         string(properties.DefaultFormat),
		EqualityPolicy: string(identity.DefaultEqualityPolicy),
		SearchParents:  false,
		FailOnError:    false,
	}
}

// DefaultConfigurationValues exposes the defaults as flattened viper keys under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := rootKey + configurationKeySeparatorConstant
	return map[string]any{
		prefix + configurationRepositoryKeyConstant:     defaults.RepositoryPath,
		prefix + configurationOutputKeyConstant:         defaults.OutputPath,
		prefix + configurationFormatKeyConstant:         defaults.Format,
		prefix + configurationEqualityPolicyKeyConstant: defaults.EqualityPolicy,
		prefix + configurationSearchParentsKeyConstant:  defaults.SearchParents,
		prefix + configurationFailOnErrorKeyConstant:    defaults.FailOnError,
	}
}

// Sanitize trims values and restores defaults for blank ones.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.RepositoryPath = strings.TrimSpace(configuration.RepositoryPath)
	if len(sanitized.RepositoryPath) == 0 {
		sanitized.RepositoryPath = defaults.RepositoryPath
	}
	sanitized.OutputPath = strings.TrimSpace(configuration.OutputPath)
	sanitized.Format = strings.ToLower(strings.TrimSpace(configuration.Format))
	if len(sanitized.Format) == 0 {
		sanitized.Format = defaults.Format
	}
	sanitized.EqualityPolicy = strings.ToLower(strings.TrimSpace(configuration.EqualityPolicy))
	if len(sanitized.EqualityPolicy) == 0 {
		sanitized.EqualityPolicy = defaults.EqualityPolicy
	}

	return sanitized
}
