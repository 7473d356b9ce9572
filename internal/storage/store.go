// Package storage persists the library and the per-document metadata
// bundles as JSON files under the data root:
//
//	<dataRoot>/library.json
//	<dataRoot>/<DocumentKey(path)>/bookmarks.json
//	<dataRoot>/<DocumentKey(path)>/annotations.json
//
// The store assumes a single process owns the data root. Within the
// process every read-modify-write sequence holds the store mutex, so
// concurrent HTTP handlers cannot lose updates to the same file.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mlopez/lectorpdf/internal/entities"
	"github.com/mlopez/lectorpdf/internal/fsjson"
)

// Error taxonomy of the underlying file layer, re-exported so callers do
// not need to import fsjson to classify failures.
var (
	ErrUnavailable = fsjson.ErrUnavailable
	ErrCorrupt     = fsjson.ErrCorrupt
)

const (
	libraryFile     = "library.json"
	bookmarksFile   = "bookmarks.json"
	annotationsFile = "annotations.json"
)

// Store is the per-document metadata store.
type Store struct {
	dataRoot string
	mu       sync.Mutex
}

// NewStore creates the data root if needed and returns a store over it.
func NewStore(dataRoot string) (*Store, error) {
	if err := os.MkdirAll(dataRoot, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data root %s: %v", ErrUnavailable, dataRoot, err)
	}
	return &Store{dataRoot: dataRoot}, nil
}

// DataRoot returns the directory all state lives under.
func (s *Store) DataRoot() string {
	return s.dataRoot
}

// LoadLibrary returns the persisted library, or an empty slice if none
// has been saved yet. A present but unparseable file yields ErrCorrupt.
func (s *Store) LoadLibrary() ([]entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLibrary()
}

func (s *Store) loadLibrary() ([]entities.Book, error) {
	books := []entities.Book{}
	if _, err := fsjson.Load(filepath.Join(s.dataRoot, libraryFile), &books); err != nil {
		return nil, err
	}
	return books, nil
}

// SaveLibrary atomically replaces the whole persisted library.
func (s *Store) SaveLibrary(books []entities.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fsjson.Store(filepath.Join(s.dataRoot, libraryFile), books)
}

// LoadBookmarks returns the bookmark list of one document's bundle.
func (s *Store) LoadBookmarks(docPath string) ([]entities.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadBookmarks(docPath)
}

func (s *Store) loadBookmarks(docPath string) ([]entities.Bookmark, error) {
	marks := []entities.Bookmark{}
	if _, err := fsjson.Load(s.bundleFile(docPath, bookmarksFile), &marks); err != nil {
		return nil, err
	}
	return marks, nil
}

// SaveBookmarks atomically replaces the document's bookmark list.
func (s *Store) SaveBookmarks(docPath string, marks []entities.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fsjson.Store(s.bundleFile(docPath, bookmarksFile), marks)
}

// AddBookmark appends a bookmark to the document's persisted list. The
// load-append-save sequence runs under the store mutex.
func (s *Store) AddBookmark(docPath string, mark entities.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	marks, err := s.loadBookmarks(docPath)
	if err != nil {
		return err
	}
	marks = append(marks, mark)
	return fsjson.Store(s.bundleFile(docPath, bookmarksFile), marks)
}

// LoadAnnotations returns the annotation list of one document's bundle.
func (s *Store) LoadAnnotations(docPath string) ([]entities.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	anns := []entities.Annotation{}
	if _, err := fsjson.Load(s.bundleFile(docPath, annotationsFile), &anns); err != nil {
		return nil, err
	}
	return anns, nil
}

// SaveAnnotations atomically replaces the document's annotation list.
func (s *Store) SaveAnnotations(docPath string, anns []entities.Annotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fsjson.Store(s.bundleFile(docPath, annotationsFile), anns)
}

// RemoveBookMetadata deletes the document's whole bundle, bookmarks and
// annotations included. Removing an absent bundle is not an error.
func (s *Store) RemoveBookMetadata(docPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.dataRoot, DocumentKey(docPath))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: remove bundle %s: %v", ErrUnavailable, dir, err)
	}
	return nil
}

// bundleFile returns the path of one file inside a document's bundle
// directory.
func (s *Store) bundleFile(docPath, name string) string {
	return filepath.Join(s.dataRoot, DocumentKey(docPath), name)
}
