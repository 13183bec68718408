package identity

import (
	"sort"
	"strings"
)

const authorNamesSeparatorConstant = ", "

// AuthorSet holds identities that are pairwise distinct under its EqualityPolicy.
// Members keep insertion order; Names and Render return a sorted view.
type AuthorSet struct {
	policy      EqualityPolicy
	members     []AuthorIdentity
	emailIndex  map[uint64][]int
	nameIndex   map[string][]int
	indexByName bool
}

// NewAuthorSet constructs an empty set using the provided policy.
// An empty policy falls back to DefaultEqualityPolicy.
func NewAuthorSet(policy EqualityPolicy) *AuthorSet {
	if len(policy) == 0 {
		policy = DefaultEqualityPolicy
	}
	return &AuthorSet{
		policy:      policy,
		emailIndex:  make(map[uint64][]int),
		nameIndex:   make(map[string][]int),
		indexByName: policy == EqualityPolicyEmailOrName,
	}
}

// Policy reports the equality policy applied by the set.
func (set *AuthorSet) Policy() EqualityPolicy {
	return set.policy
}

// Add inserts identity unless an equal member already exists. It reports whether the set changed.
func (set *AuthorSet) Add(identity AuthorIdentity) bool {
	if set.Contains(identity) {
		return false
	}

	memberIndex := len(set.members)
	set.members = append(set.members, identity)

	emailHash := identity.Hash()
	set.emailIndex[emailHash] = append(set.emailIndex[emailHash], memberIndex)
	if set.indexByName {
		nameKey := foldedNameKey(identity.Name)
		set.nameIndex[nameKey] = append(set.nameIndex[nameKey], memberIndex)
	}
	return true
}

// Contains reports whether an equal member exists.
func (set *AuthorSet) Contains(identity AuthorIdentity) bool {
	for _, memberIndex := range set.emailIndex[identity.Hash()] {
		if set.members[memberIndex].Equals(identity, set.policy) {
			return true
		}
	}
	if !set.indexByName {
		return false
	}
	for _, memberIndex := range set.nameIndex[foldedNameKey(identity.Name)] {
		if set.members[memberIndex].Equals(identity, set.policy) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct members.
func (set *AuthorSet) Len() int {
	return len(set.members)
}

// Members returns a copy of the members in insertion order.
func (set *AuthorSet) Members() []AuthorIdentity {
	duplicatedMembers := make([]AuthorIdentity, len(set.members))
	copy(duplicatedMembers, set.members)
	return duplicatedMembers
}

// Names returns member display names sorted case-insensitively.
func (set *AuthorSet) Names() []string {
	names := make([]string, 0, len(set.members))
	for _, member := range set.members {
		names = append(names, member.Name)
	}
	sort.SliceStable(names, func(leftIndex int, rightIndex int) bool {
		leftKey := strings.ToLower(names[leftIndex])
		rightKey := strings.ToLower(names[rightIndex])
		if leftKey != rightKey {
			return leftKey < rightKey
		}
		return names[leftIndex] < names[rightIndex]
	})
	return names
}

// Render joins the sorted names with ", " or returns emptyValue when the set is empty.
func (set *AuthorSet) Render(emptyValue string) string {
	if set == nil || len(set.members) == 0 {
		return emptyValue
	}
	return strings.Join(set.Names(), authorNamesSeparatorConstant)
}

// foldedNameKey normalizes a name so that strings.EqualFold matches share a key.
func foldedNameKey(name string) string {
	return strings.ToLower(strings.ToUpper(name))
}
