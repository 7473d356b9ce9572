// Package reader is the session façade between the UI layer and the two
// stores. It owns no persistent state of its own, only in-memory
// snapshots: the library list, and the bookmark/annotation caches of the
// currently open document. Caches reload on open and flush on save and
// close; closing performs the one final library flush that carries any
// lastPage changes accumulated during the session.
package reader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mlopez/lectorpdf/internal/entities"
	"github.com/mlopez/lectorpdf/internal/storage"
)

var (
	ErrNoDocument         = errors.New("no document is open")
	ErrNotInLibrary       = errors.New("document is not in the library")
	ErrAlreadyInLibrary   = errors.New("document is already in the library")
	ErrAnnotationNotFound = errors.New("annotation not found")
)

// Session bridges UI actions to the metadata store and the viewer engine.
type Session struct {
	store  *storage.Store
	engine Engine

	mu          sync.Mutex
	library     []entities.Book
	currentIdx  int // index into library, -1 when nothing is open
	doc         Document
	bookmarks   []entities.Bookmark
	annotations []entities.Annotation
}

// NewSession loads the persisted library and returns a session over it.
func NewSession(store *storage.Store, engine Engine) (*Session, error) {
	library, err := store.LoadLibrary()
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	return &Session{
		store:      store,
		engine:     engine,
		library:    library,
		currentIdx: -1,
	}, nil
}

// Library returns a copy of the in-memory library snapshot.
func (s *Session) Library() []entities.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Book{}, s.library...)
}

// AddToLibrary creates a library entry for a document path. The title
// defaults to the file name without extension and the reading position
// starts at page 1. The library is persisted immediately.
func (s *Session) AddToLibrary(path string) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(path) >= 0 {
		return entities.Book{}, ErrAlreadyInLibrary
	}

	name := filepath.Base(path)
	book := entities.Book{
		Title:    strings.TrimSuffix(name, filepath.Ext(name)),
		Path:     path,
		LastPage: 1,
	}

	s.library = append(s.library, book)
	if err := s.store.SaveLibrary(s.library); err != nil {
		s.library = s.library[:len(s.library)-1]
		return entities.Book{}, err
	}
	return book, nil
}

// RemoveFromLibrary drops the entry and cascades: the document's whole
// metadata bundle is deleted and the shrunk library persisted. Removing
// the currently open document closes it first.
func (s *Session) RemoveFromLibrary(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(path)
	if idx < 0 {
		return ErrNotInLibrary
	}

	if s.currentIdx == idx {
		s.closeCurrent()
	} else if s.currentIdx > idx {
		s.currentIdx--
	}

	s.library = append(s.library[:idx], s.library[idx+1:]...)
	if err := s.store.RemoveBookMetadata(path); err != nil {
		return err
	}
	return s.store.SaveLibrary(s.library)
}

// Open makes a library entry the current document: the engine opens it,
// the view jumps to the saved reading position, and the bookmark and
// annotation caches reload from the document's bundle.
func (s *Session) Open(path string) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(path)
	if idx < 0 {
		return entities.Book{}, ErrNotInLibrary
	}

	doc, err := s.engine.Open(path)
	if err != nil {
		return entities.Book{}, fmt.Errorf("open document: %w", err)
	}

	marks, err := s.store.LoadBookmarks(path)
	if err != nil {
		doc.Close()
		return entities.Book{}, err
	}
	anns, err := s.store.LoadAnnotations(path)
	if err != nil {
		doc.Close()
		return entities.Book{}, err
	}

	s.closeCurrent()
	s.currentIdx = idx
	s.doc = doc
	s.bookmarks = marks
	s.annotations = anns

	doc.SetPage(s.clampPage(s.library[idx].LastPage))
	return s.library[idx], nil
}

// Current returns the open library entry, if any.
func (s *Session) Current() (entities.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentIdx < 0 {
		return entities.Book{}, false
	}
	return s.library[s.currentIdx], true
}

// PageCount returns the open document's page count.
func (s *Session) PageCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return 0, ErrNoDocument
	}
	return s.doc.PageCount(), nil
}

// NextPage advances one page, clamped to the last page.
func (s *Session) NextPage() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0, ErrNoDocument
	}
	return s.goToPage(s.doc.Page() + 1), nil
}

// PrevPage goes back one page, clamped to page 1.
func (s *Session) PrevPage() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0, ErrNoDocument
	}
	return s.goToPage(s.doc.Page() - 1), nil
}

// GoToPage jumps to a page, clamped to [1, PageCount], and returns the
// page actually landed on.
func (s *Session) GoToPage(page int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0, ErrNoDocument
	}
	return s.goToPage(page), nil
}

// goToPage moves the view and records the new reading position in the
// library snapshot. Persisted later, on Save or Close. Callers hold s.mu.
func (s *Session) goToPage(page int) int {
	page = s.clampPage(page)
	s.doc.SetPage(page)
	s.library[s.currentIdx].LastPage = page
	return page
}

func (s *Session) clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if n := s.doc.PageCount(); page > n {
		return n
	}
	return page
}

// Bookmarks returns a copy of the current document's bookmark cache.
func (s *Session) Bookmarks() []entities.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Bookmark{}, s.bookmarks...)
}

// AddBookmark bookmarks the current page. An empty title defaults to
// "Página N". The bundle is persisted immediately via the store's
// read-modify-write append.
func (s *Session) AddBookmark(title string) (entities.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return entities.Bookmark{}, ErrNoDocument
	}

	page := s.doc.Page()
	if title == "" {
		title = fmt.Sprintf("Página %d", page)
	}
	mark := entities.Bookmark{Page: page, Title: title}

	if err := s.store.AddBookmark(s.library[s.currentIdx].Path, mark); err != nil {
		return entities.Bookmark{}, err
	}
	s.bookmarks = append(s.bookmarks, mark)
	return mark, nil
}

// Annotations returns a copy of the current document's annotation cache.
func (s *Session) Annotations() []entities.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Annotation{}, s.annotations...)
}

// AnnotateSelection turns the engine's current text selection into an
// annotation with a fresh id and empty comment, persisting the updated
// list. With nothing selected it reports ok=false and does nothing.
func (s *Session) AnnotateSelection() (entities.Annotation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return entities.Annotation{}, false, ErrNoDocument
	}
	return s.annotate(s.doc.SelectedText())
}

// Annotate creates an annotation from text the UI layer already holds,
// for front-ends that track the selection themselves.
func (s *Session) Annotate(text string) (entities.Annotation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return entities.Annotation{}, false, ErrNoDocument
	}
	return s.annotate(text)
}

// annotate persists a new annotation on the current page. Callers hold
// s.mu and have checked a document is open.
func (s *Session) annotate(selection string) (entities.Annotation, bool, error) {
	if strings.TrimSpace(selection) == "" {
		return entities.Annotation{}, false, nil
	}

	ann := entities.Annotation{
		ID:      uuid.NewString(),
		Page:    s.doc.Page(),
		Text:    selection,
		Comment: "",
	}

	updated := append(append([]entities.Annotation{}, s.annotations...), ann)
	if err := s.store.SaveAnnotations(s.library[s.currentIdx].Path, updated); err != nil {
		return entities.Annotation{}, false, err
	}
	s.annotations = updated
	return ann, true, nil
}

// UpdateAnnotationComment replaces the comment of one annotation and
// persists the list.
func (s *Session) UpdateAnnotationComment(id, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNoDocument
	}

	updated := append([]entities.Annotation{}, s.annotations...)
	found := false
	for i := range updated {
		if updated[i].ID == id {
			updated[i].Comment = comment
			found = true
			break
		}
	}
	if !found {
		return ErrAnnotationNotFound
	}

	if err := s.store.SaveAnnotations(s.library[s.currentIdx].Path, updated); err != nil {
		return err
	}
	s.annotations = updated
	return nil
}

// DeleteAnnotation removes one annotation and persists the list.
func (s *Session) DeleteAnnotation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNoDocument
	}

	updated := make([]entities.Annotation, 0, len(s.annotations))
	found := false
	for _, ann := range s.annotations {
		if ann.ID == id {
			found = true
			continue
		}
		updated = append(updated, ann)
	}
	if !found {
		return ErrAnnotationNotFound
	}

	if err := s.store.SaveAnnotations(s.library[s.currentIdx].Path, updated); err != nil {
		return err
	}
	s.annotations = updated
	return nil
}

// Save flushes the library snapshot and, if a document is open, its
// annotation cache.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveLibrary(s.library); err != nil {
		return err
	}
	if s.currentIdx >= 0 {
		return s.store.SaveAnnotations(s.library[s.currentIdx].Path, s.annotations)
	}
	return nil
}

// Close ends the session: the open document is released and the library
// snapshot gets its final flush, carrying any lastPage changes.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeCurrent()
	return s.store.SaveLibrary(s.library)
}

// closeCurrent releases the open document and clears the per-document
// caches. Callers hold s.mu.
func (s *Session) closeCurrent() {
	if s.doc != nil {
		_ = s.doc.Close()
	}
	s.doc = nil
	s.currentIdx = -1
	s.bookmarks = nil
	s.annotations = nil
}

// indexOf returns the library index of a path, or -1. Callers hold s.mu.
func (s *Session) indexOf(path string) int {
	for i := range s.library {
		if s.library[i].Path == path {
			return i
		}
	}
	return -1
}
