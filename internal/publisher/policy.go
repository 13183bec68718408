package publisher

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// HostPolicy decides what happens to a publication failure at the host boundary.
type HostPolicy string

const (
	// HostPolicyLogAndContinue logs failures and lets the host build proceed.
	HostPolicyLogAndContinue HostPolicy = "log_and_continue"
	// HostPolicyPropagate returns failures to the caller.
	HostPolicyPropagate HostPolicy = "propagate"

	// DefaultHostPolicy never fails the host build.
	DefaultHostPolicy = HostPolicyLogAndContinue

	publicationFailedMessageConstant      = "git properties not published"
	unsupportedHostPolicyMessageConstant  = "unsupported host policy"
	unsupportedHostPolicyTemplateConstant = "%w: %q"
	logFieldErrorKindConstant             = "error_kind"
)

// ErrUnsupportedHostPolicy indicates an unknown host policy name.
var ErrUnsupportedHostPolicy = errors.New(unsupportedHostPolicyMessageConstant)

// ParseHostPolicy converts a configuration value into a HostPolicy. Empty values yield DefaultHostPolicy.
func ParseHostPolicy(value string) (HostPolicy, error) {
	switch HostPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return DefaultHostPolicy, nil
	case HostPolicyLogAndContinue:
		return HostPolicyLogAndContinue, nil
	case HostPolicyPropagate:
		return HostPolicyPropagate, nil
	default:
		return "", fmt.Errorf(unsupportedHostPolicyTemplateConstant, ErrUnsupportedHostPolicy, value)
	}
}

// HostPolicyFor maps the fail-on-error switch to a policy.
func HostPolicyFor(failOnError bool) HostPolicy {
	if failOnError {
		return HostPolicyPropagate
	}
	return HostPolicyLogAndContinue
}

// Handle applies the policy to err. Failures are always logged at error level.
func (policy HostPolicy) Handle(logger *zap.Logger, err error) error {
	if err == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := []zap.Field{zap.Error(err)}
	var publicationError *Error
	if errors.As(err, &publicationError) {
		fields = append(fields,
			zap.String(logFieldErrorKindConstant, string(publicationError.Kind)),
			zap.String(logFieldRepositoryPathConstant, publicationError.RepositoryPath),
		)
	}
	logger.Error(publicationFailedMessageConstant, fields...)

	if policy == HostPolicyPropagate {
		return err
	}
	return nil
}

// RunWithPolicy runs operation and applies policy to its error.
func RunWithPolicy(policy HostPolicy, logger *zap.Logger, operation func() error) error {
	if operation == nil {
		return nil
	}
	return policy.Handle(logger, operation())
}
