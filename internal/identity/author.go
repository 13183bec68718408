package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	signatureMissingMessageConstant           = "author signature must be provided"
	externalStringTemplateConstant            = "%s <%s>"
	unsupportedEqualityPolicyTemplateConstant = "unsupported equality policy: %s"
	equalityPolicyEmailStringConstant         = "email"
	equalityPolicyEmailOrNameStringConstant   = "email_or_name"
)

// ErrSignatureMissing indicates a commit carried no author signature.
var ErrSignatureMissing = errors.New(signatureMissingMessageConstant)

// EqualityPolicy selects the rule used to decide whether two identities are the same person.
type EqualityPolicy string

// Supported equality policies.
const (
	// EqualityPolicyEmail treats identities as equal only when their email addresses match byte for byte.
	EqualityPolicyEmail EqualityPolicy = EqualityPolicy(equalityPolicyEmailStringConstant)
	// EqualityPolicyEmailOrName also treats identities as equal when their names match ignoring case.
	EqualityPolicyEmailOrName EqualityPolicy = EqualityPolicy(equalityPolicyEmailOrNameStringConstant)
)

// DefaultEqualityPolicy is the policy applied when none is configured.
const DefaultEqualityPolicy = EqualityPolicyEmail

// ParseEqualityPolicy converts a configuration value into an EqualityPolicy.
// Empty input yields DefaultEqualityPolicy.
func ParseEqualityPolicy(value string) (EqualityPolicy, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	switch normalizedValue {
	case "":
		return DefaultEqualityPolicy, nil
	case equalityPolicyEmailStringConstant:
		return EqualityPolicyEmail, nil
	case equalityPolicyEmailOrNameStringConstant:
		return EqualityPolicyEmailOrName, nil
	default:
		return "", fmt.Errorf(unsupportedEqualityPolicyTemplateConstant, value)
	}
}

// AuthorIdentity is the person recorded as the author of a commit.
type AuthorIdentity struct {
	Name  string
	Email string
	When  time.Time
}

// NewAuthorIdentity constructs an AuthorIdentity from raw values.
func NewAuthorIdentity(name string, email string, when time.Time) AuthorIdentity {
	return AuthorIdentity{Name: name, Email: email, When: when}
}

// FromSignature converts a go-git signature into an AuthorIdentity.
func FromSignature(signature *object.Signature) (AuthorIdentity, error) {
	if signature == nil {
		return AuthorIdentity{}, ErrSignatureMissing
	}
	return NewAuthorIdentity(signature.Name, signature.Email, signature.When), nil
}

// TimezoneOffset reports the recorded timezone offset in seconds east of UTC.
func (identity AuthorIdentity) TimezoneOffset() int {
	_, offsetSeconds := identity.When.Zone()
	return offsetSeconds
}

// Hash derives a hash from the email address only.
func (identity AuthorIdentity) Hash() uint64 {
	return xxhash.Sum64String(identity.Email)
}

// Equals reports whether other describes the same person under the given policy.
func (identity AuthorIdentity) Equals(other AuthorIdentity, policy EqualityPolicy) bool {
	if identity.Hash() == other.Hash() && identity.Email == other.Email {
		return true
	}
	if policy == EqualityPolicyEmailOrName {
		return strings.EqualFold(identity.Name, other.Name)
	}
	return false
}

// ExternalString renders the identity as "name <email>".
func (identity AuthorIdentity) ExternalString() string {
	return fmt.Sprintf(externalStringTemplateConstant, identity.Name, identity.Email)
}

// String implements fmt.Stringer.
func (identity AuthorIdentity) String() string {
	return identity.ExternalString()
}
