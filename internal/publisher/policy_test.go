package publisher_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/gitprops/internal/publisher"
)

func TestParseHostPolicy(testInstance *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedPolicy publisher.HostPolicy
		expectError    bool
	}{
		{name: "empty_uses_default", value: "", expectedPolicy: publisher.HostPolicyLogAndContinue},
		{name: "log_and_continue", value: "log_and_continue", expectedPolicy: publisher.HostPolicyLogAndContinue},
		{name: "propagate_mixed_case", value: " Propagate ", expectedPolicy: publisher.HostPolicyPropagate},
		{name: "unknown", value: "panic", expectError: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			policy, parseError := publisher.ParseHostPolicy(testCase.value)
			if testCase.expectError {
				require.ErrorIs(testInstance, parseError, publisher.ErrUnsupportedHostPolicy)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedPolicy, policy)
		})
	}
}

func TestHostPolicyFor(testInstance *testing.T) {
	require.Equal(testInstance, publisher.HostPolicyPropagate, publisher.HostPolicyFor(true))
	require.Equal(testInstance, publisher.HostPolicyLogAndContinue, publisher.HostPolicyFor(false))
}

func TestRunWithPolicy(testInstance *testing.T) {
	operationFailure := &publisher.Error{
		Kind:           publisher.ErrorKindRepositoryOpen,
		RepositoryPath: testRepositoryPathConstant,
		Err:            errors.New("not a repository"),
	}

	testCases := []struct {
		name            string
		policy          publisher.HostPolicy
		operationError  error
		expectReturned  bool
		expectLoggedErr bool
	}{
		{name: "success_log_and_continue", policy: publisher.HostPolicyLogAndContinue},
		{name: "success_propagate", policy: publisher.HostPolicyPropagate},
		{name: "failure_swallowed", policy: publisher.HostPolicyLogAndContinue, operationError: operationFailure, expectLoggedErr: true},
		{name: "failure_propagated", policy: publisher.HostPolicyPropagate, operationError: operationFailure, expectReturned: true, expectLoggedErr: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			logger, logs := newObservedLogger()
			invocations := 0

			runError := publisher.RunWithPolicy(testCase.policy, logger, func() error {
				invocations++
				return testCase.operationError
			})

			require.Equal(testInstance, 1, invocations)
			if testCase.expectReturned {
				require.ErrorIs(testInstance, runError, testCase.operationError)
			} else {
				require.NoError(testInstance, runError)
			}

			failureLogs := logs.FilterMessage("git properties not published").All()
			if !testCase.expectLoggedErr {
				require.Empty(testInstance, failureLogs)
				return
			}
			require.Len(testInstance, failureLogs, 1)
			require.Equal(testInstance, zapcore.ErrorLevel, failureLogs[0].Level)
			contextMap := failureLogs[0].ContextMap()
			require.Equal(testInstance, string(publisher.ErrorKindRepositoryOpen), contextMap["error_kind"])
			require.Equal(testInstance, testRepositoryPathConstant, contextMap["repository_path"])
		})
	}
}

func TestRunWithPolicyToleratesNilLogger(testInstance *testing.T) {
	runError := publisher.RunWithPolicy(publisher.HostPolicyLogAndContinue, nil, func() error {
		return errors.New("failure")
	})
	require.NoError(testInstance, runError)
}
