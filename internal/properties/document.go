package properties

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	javaproperties "github.com/magiconair/properties"
)

const (
	documentPathRequiredMessageConstant  = "properties file path must be provided"
	documentLoadErrorTemplateConstant    = "failed to load properties file %s: %w"
	documentWriteErrorTemplateConstant   = "failed to write properties file %s: %w"
	documentCreateDirTemplateConstant    = "failed to create directory for properties file %s: %w"
	documentCommentPrefixConstant        = "# "
	documentFilePermissionsConstant      = 0o644
	documentDirectoryPermissionsConstant = 0o755
)

// ErrDocumentPathRequired indicates a Document was loaded without a file path.
var ErrDocumentPathRequired = errors.New(documentPathRequiredMessageConstant)

// Document is a Store backed by a .properties file. Keys already present in the file keep
// their position; new keys are appended.
type Document struct {
	path       string
	properties *javaproperties.Properties
}

// NewDocument creates an empty Document that will be saved to path.
func NewDocument(path string) *Document {
	properties := javaproperties.NewProperties()
	properties.DisableExpansion = true
	return &Document{path: path, properties: properties}
}

// LoadDocument reads path when it exists and returns an empty Document otherwise.
func LoadDocument(path string) (*Document, error) {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return nil, ErrDocumentPathRequired
	}

	if _, statError := os.Stat(trimmedPath); statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return NewDocument(trimmedPath), nil
		}
		return nil, fmt.Errorf(documentLoadErrorTemplateConstant, trimmedPath, statError)
	}

	loader := javaproperties.Loader{Encoding: javaproperties.UTF8, DisableExpansion: true}
	properties, loadError := loader.LoadFile(trimmedPath)
	if loadError != nil {
		return nil, fmt.Errorf(documentLoadErrorTemplateConstant, trimmedPath, loadError)
	}
	properties.DisableExpansion = true

	return &Document{path: trimmedPath, properties: properties}, nil
}

// Path returns the file the Document saves to.
func (document *Document) Path() string {
	return document.path
}

// SetProperty records value under key.
func (document *Document) SetProperty(key string, value string) error {
	if len(strings.TrimSpace(key)) == 0 {
		return ErrPropertyKeyRequired
	}
	if _, _, setError := document.properties.Set(key, value); setError != nil {
		return fmt.Errorf(setPropertyErrorTemplateConstant, key, setError)
	}
	return nil
}

// Property returns the value stored under key.
func (document *Document) Property(key string) (string, bool) {
	return document.properties.Get(key)
}

// Entries returns every property in file order.
func (document *Document) Entries() []Entry {
	keys := document.properties.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		value, _ := document.properties.Get(key)
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return entries
}

// Save writes the Document to its path, creating parent directories as needed.
func (document *Document) Save() error {
	directory := filepath.Dir(document.path)
	if mkdirError := os.MkdirAll(directory, documentDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(documentCreateDirTemplateConstant, document.path, mkdirError)
	}

	file, createError := os.OpenFile(document.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, documentFilePermissionsConstant)
	if createError != nil {
		return fmt.Errorf(documentWriteErrorTemplateConstant, document.path, createError)
	}

	if _, writeError := document.properties.WriteComment(file, documentCommentPrefixConstant, javaproperties.UTF8); writeError != nil {
		_ = file.Close()
		return fmt.Errorf(documentWriteErrorTemplateConstant, document.path, writeError)
	}
	if closeError := file.Close(); closeError != nil {
		return fmt.Errorf(documentWriteErrorTemplateConstant, document.path, closeError)
	}
	return nil
}
