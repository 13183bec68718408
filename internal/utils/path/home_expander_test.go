package pathutils_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/gitprops/internal/utils/path"
)

const (
	testSubtestNameTemplateConstant = "%d_%s"
	testHomeDirectoryConstant       = "/home/builder"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		provider      pathutils.HomeDirectoryProvider
		candidatePath string
		expectedPath  string
	}{
		{name: "bare_tilde", candidatePath: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", candidatePath: "~/work/service", expectedPath: filepath.Join(testHomeDirectoryConstant, "work/service")},
		{name: "absolute_path", candidatePath: "/srv/repo", expectedPath: "/srv/repo"},
		{name: "relative_path", candidatePath: "repo", expectedPath: "repo"},
		{name: "other_user", candidatePath: "~builder/repo", expectedPath: "~builder/repo"},
		{name: "empty", candidatePath: "", expectedPath: ""},
		{
			name:          "home_lookup_fails",
			provider:      func() (string, error) { return "", errors.New("no home") },
			candidatePath: "~/repo",
			expectedPath:  "~/repo",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			provider := testCase.provider
			if provider == nil {
				provider = func() (string, error) { return testHomeDirectoryConstant, nil }
			}
			expander := pathutils.NewHomeExpanderWithProvider(provider)
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.candidatePath))
		})
	}
}

func TestHomeExpanderLooksUpHomeOnce(testInstance *testing.T) {
	lookups := 0
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		lookups++
		return testHomeDirectoryConstant, nil
	})

	expander.Expand("~/first")
	expander.Expand("~/second")
	require.Equal(testInstance, 1, lookups)
}
