package identity_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitprops/internal/identity"
)

const testNobodyConstant = "nobody"

func TestAuthorSetDeduplication(testInstance *testing.T) {
	commitTime := time.Unix(1700000000, 0).UTC()

	testCases := []struct {
		name             string
		policy           identity.EqualityPolicy
		authors          []identity.AuthorIdentity
		expectedNames    []string
		expectedRendered string
	}{
		{
			name:             "empty_set_renders_empty_value",
			policy:           identity.EqualityPolicyEmail,
			authors:          nil,
			expectedNames:    []string{},
			expectedRendered: testNobodyConstant,
		},
		{
			name:   "same_email_different_casing_collapses_email_policy",
			policy: identity.EqualityPolicyEmail,
			authors: []identity.AuthorIdentity{
				identity.NewAuthorIdentity("Alice", "alice@example.com", commitTime),
				identity.NewAuthorIdentity("alice", "alice@example.com", commitTime),
			},
			expectedNames:    []string{"Alice"},
			expectedRendered: "Alice",
		},
		{
			name:   "same_email_different_casing_collapses_name_policy",
			policy: identity.EqualityPolicyEmailOrName,
			authors: []identity.AuthorIdentity{
				identity.NewAuthorIdentity("Alice", "alice@example.com", commitTime),
				identity.NewAuthorIdentity("alice", "alice@example.com", commitTime),
			},
			expectedNames:    []string{"Alice"},
			expectedRendered: "Alice",
		},
		{
			name:   "same_name_different_email_kept_email_policy",
			policy: identity.EqualityPolicyEmail,
			authors: []identity.AuthorIdentity{
				identity.NewAuthorIdentity("Alice", "alice@example.com", commitTime),
				identity.NewAuthorIdentity("ALICE", "alice@work.example.com", commitTime),
			},
			expectedNames:    []string{"ALICE", "Alice"},
			expectedRendered: "ALICE, Alice",
		},
		{
			name:   "same_name_different_email_collapses_name_policy",
			policy: identity.EqualityPolicyEmailOrName,
			authors: []identity.AuthorIdentity{
				identity.NewAuthorIdentity("Alice", "alice@example.com", commitTime),
				identity.NewAuthorIdentity("ALICE", "alice@work.example.com", commitTime),
			},
			expectedNames:    []string{"Alice"},
			expectedRendered: "Alice",
		},
		{
			name:   "names_sorted_case_insensitively",
			policy: identity.EqualityPolicyEmail,
			authors: []identity.AuthorIdentity{
				identity.NewAuthorIdentity("carol", "carol@example.com", commitTime),
				identity.NewAuthorIdentity("Bob", "bob@example.com", commitTime),
				identity.NewAuthorIdentity("alice", "alice@example.com", commitTime),
			},
			expectedNames:    []string{"alice", "Bob", "carol"},
			expectedRendered: "alice, Bob, carol",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			authorSet := identity.NewAuthorSet(testCase.policy)
			for _, author := range testCase.authors {
				authorSet.Add(author)
			}

			require.Equal(testInstance, testCase.expectedNames, authorSet.Names())
			require.Equal(testInstance, len(testCase.expectedNames), authorSet.Len())
			require.Equal(testInstance, testCase.expectedRendered, authorSet.Render(testNobodyConstant))
			requirePairwiseDistinct(testInstance, authorSet)
		})
	}
}

func TestAuthorSetAddReportsChanges(testInstance *testing.T) {
	authorSet := identity.NewAuthorSet("")
	require.Equal(testInstance, identity.DefaultEqualityPolicy, authorSet.Policy())

	alice := identity.NewAuthorIdentity("Alice", "alice@example.com", time.Unix(0, 0))
	require.True(testInstance, authorSet.Add(alice))
	require.False(testInstance, authorSet.Add(alice))
	require.True(testInstance, authorSet.Contains(identity.NewAuthorIdentity("Someone Else", "alice@example.com", time.Unix(5, 0))))
	require.Len(testInstance, authorSet.Members(), 1)
}

func TestAuthorSetRenderIsStableAcrossInsertionOrders(testInstance *testing.T) {
	authors := []identity.AuthorIdentity{
		identity.NewAuthorIdentity("Alice", "alice@example.com", time.Unix(0, 0)),
		identity.NewAuthorIdentity("Bob", "bob@example.com", time.Unix(0, 0)),
		identity.NewAuthorIdentity("Carol", "carol@example.com", time.Unix(0, 0)),
	}

	forwardSet := identity.NewAuthorSet(identity.EqualityPolicyEmail)
	reverseSet := identity.NewAuthorSet(identity.EqualityPolicyEmail)
	for authorIndex := range authors {
		forwardSet.Add(authors[authorIndex])
		reverseSet.Add(authors[len(authors)-1-authorIndex])
	}

	require.Equal(testInstance, forwardSet.Render(testNobodyConstant), reverseSet.Render(testNobodyConstant))
}

func requirePairwiseDistinct(testInstance *testing.T, authorSet *identity.AuthorSet) {
	testInstance.Helper()
	members := authorSet.Members()
	for leftIndex := range members {
		for rightIndex := leftIndex + 1; rightIndex < len(members); rightIndex++ {
			require.False(testInstance, members[leftIndex].Equals(members[rightIndex], authorSet.Policy()))
		}
	}
}
