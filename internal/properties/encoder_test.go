package properties_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitprops/internal/properties"
)

func sampleEntries() []properties.Entry {
	return []properties.Entry{
		{Key: properties.BranchNameKey, Value: testBranchNameConstant},
		{Key: properties.BranchFullNameKey, Value: "refs/heads/main"},
		{Key: properties.BranchAuthorsKey, Value: testAuthorsConstant},
		{Key: properties.LastCommitHashKey, Value: properties.MissingCommitValue},
		{Key: properties.LastCommitShortHashKey, Value: properties.MissingCommitValue},
		{Key: properties.LastCommitAuthorKey, Value: properties.MissingAuthorValue},
	}
}

func sampleValues() map[string]string {
	values := make(map[string]string)
	for _, entry := range sampleEntries() {
		values[entry.Key] = entry.Value
	}
	return values
}

func TestParseFormat(testInstance *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedFormat properties.Format
		expectError    bool
	}{
		{name: "empty_defaults_to_properties", value: "", expectedFormat: properties.FormatProperties},
		{name: "yaml", value: "yaml", expectedFormat: properties.FormatYAML},
		{name: "json_mixed_case", value: " JSON ", expectedFormat: properties.FormatJSON},
		{name: "table", value: "table", expectedFormat: properties.FormatTable},
		{name: "unknown", value: "xml", expectError: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			format, parseError := properties.ParseFormat(testCase.value)
			if testCase.expectError {
				require.ErrorIs(testInstance, parseError, properties.ErrUnsupportedFormat)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedFormat, format)
		})
	}
}

func TestEncode(testInstance *testing.T) {
	testCases := []struct {
		name     string
		format   properties.Format
		validate func(testInstance *testing.T, output string)
	}{
		{
			name:   "properties",
			format: properties.FormatProperties,
			validate: func(testInstance *testing.T, output string) {
				expected := strings.Join([]string{
					"git.branch.name = main",
					"git.branch.name_full = refs/heads/main",
					"git.branch.authors = Alice, Bob",
					"git.commit.last.sha1 = none",
					"git.commit.last.sha1_short = none",
					"git.commit.last.author = nobody",
				}, "\n") + "\n"
				require.Equal(testInstance, expected, output)
			},
		},
		{
			name:   "yaml",
			format: properties.FormatYAML,
			validate: func(testInstance *testing.T, output string) {
				decoded := make(map[string]string)
				require.NoError(testInstance, yaml.Unmarshal([]byte(output), &decoded))
				require.Equal(testInstance, sampleValues(), decoded)
				require.Less(testInstance, strings.Index(output, properties.BranchAuthorsKey), strings.Index(output, properties.LastCommitHashKey))
			},
		},
		{
			name:   "json",
			format: properties.FormatJSON,
			validate: func(testInstance *testing.T, output string) {
				decoded := make(map[string]string)
				require.NoError(testInstance, json.Unmarshal([]byte(output), &decoded))
				require.Equal(testInstance, sampleValues(), decoded)
			},
		},
		{
			name:   "table",
			format: properties.FormatTable,
			validate: func(testInstance *testing.T, output string) {
				for _, entry := range sampleEntries() {
					require.Contains(testInstance, output, entry.Key)
					require.Contains(testInstance, output, entry.Value)
				}
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			var output bytes.Buffer
			require.NoError(testInstance, properties.Encode(&output, testCase.format, sampleEntries()))
			testCase.validate(testInstance, output.String())
		})
	}
}

func TestEncodeRejectsUnknownFormat(testInstance *testing.T) {
	var output bytes.Buffer
	encodeError := properties.Encode(&output, properties.Format("xml"), sampleEntries())
	require.ErrorIs(testInstance, encodeError, properties.ErrUnsupportedFormat)
	require.Zero(testInstance, output.Len())
}

func TestEncodeQuotesAmbiguousYAMLScalars(testInstance *testing.T) {
	var output bytes.Buffer
	require.NoError(testInstance, properties.Encode(&output, properties.FormatYAML, []properties.Entry{
		{Key: properties.BranchNameKey, Value: "true"},
		{Key: properties.LastCommitShortHashKey, Value: "1234567"},
	}))

	decoded := make(map[string]string)
	require.NoError(testInstance, yaml.Unmarshal(output.Bytes(), &decoded))
	require.Equal(testInstance, "true", decoded[properties.BranchNameKey])
	require.Equal(testInstance, "1234567", decoded[properties.LastCommitShortHashKey])
}
