package cli

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const decodeDefaultConfigurationTemplateConstant = "failed to decode bundled default configuration: %w"

//go:embed default_config.yaml
var bundledDefaultConfiguration []byte

// EmbeddedDefaultConfiguration returns a private copy of default_config.yaml together with its viper type.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return append([]byte(nil), bundledDefaultConfiguration...), configurationTypeConstant
}

// EmbeddedDefaultSettings decodes default_config.yaml into nested maps keyed the way the README documents them.
func EmbeddedDefaultSettings() (map[string]any, error) {
	settings := map[string]any{}
	if decodeError := yaml.Unmarshal(bundledDefaultConfiguration, &settings); decodeError != nil {
		return nil, fmt.Errorf(decodeDefaultConfigurationTemplateConstant, decodeError)
	}
	return settings, nil
}
