package properties_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitprops/internal/properties"
)

const (
	testSubtestNameTemplateConstant = "%d_%s"
	testBranchNameConstant          = "main"
	testAuthorsConstant             = "Alice, Bob"
	testExistingKeyConstant         = "build.number"
	testExistingValueConstant       = "42"
)

func TestPublishedKeys(testInstance *testing.T) {
	require.Equal(testInstance, []string{
		"git.branch.name",
		"git.branch.name_full",
		"git.branch.authors",
		"git.commit.last.sha1",
		"git.commit.last.sha1_short",
		"git.commit.last.author",
	}, properties.PublishedKeys())
}

func TestStores(testInstance *testing.T) {
	testCases := []struct {
		name    string
		factory func(testInstance *testing.T) properties.Store
	}{
		{
			name: "map_store",
			factory: func(testInstance *testing.T) properties.Store {
				return properties.NewMapStore()
			},
		},
		{
			name: "document",
			factory: func(testInstance *testing.T) properties.Store {
				return properties.NewDocument(filepath.Join(testInstance.TempDir(), "git.properties"))
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			store := testCase.factory(testInstance)

			_, exists := store.Property(properties.BranchNameKey)
			require.False(testInstance, exists)

			require.NoError(testInstance, store.SetProperty(properties.BranchNameKey, "feature"))
			require.NoError(testInstance, store.SetProperty(properties.BranchNameKey, testBranchNameConstant))
			require.NoError(testInstance, store.SetProperty(properties.BranchAuthorsKey, testAuthorsConstant))
			require.ErrorIs(testInstance, store.SetProperty(" ", "ignored"), properties.ErrPropertyKeyRequired)

			value, exists := store.Property(properties.BranchNameKey)
			require.True(testInstance, exists)
			require.Equal(testInstance, testBranchNameConstant, value)
			require.Len(testInstance, store.Entries(), 2)
		})
	}
}

func TestMapStoreEntriesAreSorted(testInstance *testing.T) {
	store := properties.NewMapStore()
	require.NoError(testInstance, store.SetProperty(properties.LastCommitAuthorKey, "Alice"))
	require.NoError(testInstance, store.SetProperty(properties.BranchNameKey, testBranchNameConstant))

	require.Equal(testInstance, []properties.Entry{
		{Key: properties.BranchNameKey, Value: testBranchNameConstant},
		{Key: properties.LastCommitAuthorKey, Value: "Alice"},
	}, store.Entries())
	require.Equal(testInstance, 2, store.Len())
}

func TestLoadDocument(testInstance *testing.T) {
	testCases := []struct {
		name            string
		initialContents string
		writeFile       bool
		expectedEntries []properties.Entry
	}{
		{
			name:            "missing_file_starts_empty",
			expectedEntries: []properties.Entry{},
		},
		{
			name:            "existing_keys_are_preserved",
			writeFile:       true,
			initialContents: "# generated by the build\nbuild.number = 42\ngit.branch.name = stale\n",
			expectedEntries: []properties.Entry{
				{Key: testExistingKeyConstant, Value: testExistingValueConstant},
				{Key: properties.BranchNameKey, Value: "stale"},
			},
		},
		{
			name:            "placeholders_are_not_expanded",
			writeFile:       true,
			initialContents: "template = ${missing}\n",
			expectedEntries: []properties.Entry{
				{Key: "template", Value: "${missing}"},
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			documentPath := filepath.Join(testInstance.TempDir(), "git.properties")
			if testCase.writeFile {
				require.NoError(testInstance, os.WriteFile(documentPath, []byte(testCase.initialContents), 0o644))
			}

			document, loadError := properties.LoadDocument(documentPath)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, documentPath, document.Path())
			require.Equal(testInstance, testCase.expectedEntries, document.Entries())
		})
	}
}

func TestLoadDocumentRequiresPath(testInstance *testing.T) {
	document, loadError := properties.LoadDocument("  ")
	require.ErrorIs(testInstance, loadError, properties.ErrDocumentPathRequired)
	require.Nil(testInstance, document)
}

func TestDocumentSaveMergesIntoExistingFile(testInstance *testing.T) {
	documentPath := filepath.Join(testInstance.TempDir(), "build", "git.properties")
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(documentPath), 0o755))
	require.NoError(testInstance, os.WriteFile(documentPath, []byte("build.number = 42\ngit.branch.name = stale\n"), 0o644))

	document, loadError := properties.LoadDocument(documentPath)
	require.NoError(testInstance, loadError)
	require.NoError(testInstance, document.SetProperty(properties.BranchNameKey, testBranchNameConstant))
	require.NoError(testInstance, document.SetProperty(properties.BranchAuthorsKey, testAuthorsConstant))
	require.NoError(testInstance, document.Save())

	reloaded, reloadError := properties.LoadDocument(documentPath)
	require.NoError(testInstance, reloadError)
	require.Equal(testInstance, []properties.Entry{
		{Key: testExistingKeyConstant, Value: testExistingValueConstant},
		{Key: properties.BranchNameKey, Value: testBranchNameConstant},
		{Key: properties.BranchAuthorsKey, Value: testAuthorsConstant},
	}, reloaded.Entries())
}

func TestDocumentSaveCreatesParentDirectories(testInstance *testing.T) {
	documentPath := filepath.Join(testInstance.TempDir(), "nested", "output", "git.properties")
	document := properties.NewDocument(documentPath)
	require.NoError(testInstance, document.SetProperty(properties.BranchNameKey, testBranchNameConstant))
	require.NoError(testInstance, document.Save())

	contents, readError := os.ReadFile(documentPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "git.branch.name = main\n", string(contents))
}
