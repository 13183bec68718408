package properties

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	javaproperties "github.com/magiconair/properties"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format selects how properties are rendered.
type Format string

const (
	// FormatProperties renders Java-style key = value lines.
	FormatProperties Format = "properties"
	// FormatYAML renders a flat YAML mapping.
	FormatYAML Format = "yaml"
	// FormatJSON renders a flat JSON object.
	FormatJSON Format = "json"
	// FormatTable renders a human-readable two column table.
	FormatTable Format = "table"

	// DefaultFormat is used when no format is configured.
	DefaultFormat = FormatProperties

	unsupportedFormatMessageConstant  = "unsupported output format"
	unsupportedFormatTemplateConstant = "%w: %q"
	encodeErrorTemplateConstant       = "failed to encode %s output: %w"
	yamlIndentConstant                = 2
	jsonIndentConstant                = "  "
	tableKeyHeaderConstant            = "Key"
	tableValueHeaderConstant          = "Value"
	yamlStringTagConstant             = "!!str"
)

// ErrUnsupportedFormat indicates an unknown output format name.
var ErrUnsupportedFormat = errors.New(unsupportedFormatMessageConstant)

// ParseFormat converts a configuration value into a Format. Empty values yield DefaultFormat.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch Format(normalized) {
	case "":
		return DefaultFormat, nil
	case FormatProperties, FormatYAML, FormatJSON, FormatTable:
		return Format(normalized), nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, ErrUnsupportedFormat, value)
	}
}

// Encode writes entries to writer in the requested format, preserving entry order where the
// format allows it.
func Encode(writer io.Writer, format Format, entries []Entry) error {
	var encodeError error
	switch format {
	case FormatProperties:
		encodeError = encodeProperties(writer, entries)
	case FormatYAML:
		encodeError = encodeYAML(writer, entries)
	case FormatJSON:
		encodeError = encodeJSON(writer, entries)
	case FormatTable:
		encodeError = encodeTable(writer, entries)
	default:
		return fmt.Errorf(unsupportedFormatTemplateConstant, ErrUnsupportedFormat, string(format))
	}
	if encodeError != nil {
		return fmt.Errorf(encodeErrorTemplateConstant, format, encodeError)
	}
	return nil
}

func encodeProperties(writer io.Writer, entries []Entry) error {
	properties := javaproperties.NewProperties()
	properties.DisableExpansion = true
	for _, entry := range entries {
		if _, _, setError := properties.Set(entry.Key, entry.Value); setError != nil {
			return setError
		}
	}
	_, writeError := properties.Write(writer, javaproperties.UTF8)
	return writeError
}

func encodeYAML(writer io.Writer, entries []Entry) error {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range entries {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStringTagConstant, Value: entry.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStringTagConstant, Value: entry.Value},
		)
	}

	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(mapping); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}

func encodeJSON(writer io.Writer, entries []Entry) error {
	values := make(map[string]string, len(entries))
	for _, entry := range entries {
		values[entry.Key] = entry.Value
	}
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", jsonIndentConstant)
	return encoder.Encode(values)
}

func encodeTable(writer io.Writer, entries []Entry) error {
	table := tablewriter.NewWriter(writer)
	table.Header(tableKeyHeaderConstant, tableValueHeaderConstant)
	for _, entry := range entries {
		if appendError := table.Append([]string{entry.Key, entry.Value}); appendError != nil {
			return appendError
		}
	}
	return table.Render()
}
