package entities

import "fmt"

// Book is a single library entry. Path is the unique key within the
// library; LastPage tracks the reading position and starts at 1.
type Book struct {
	Title    string `json:"title"`
	Path     string `json:"path"`
	LastPage int    `json:"last_page"`
}

// Bookmark marks a page within one document. Bookmarks are append-only:
// they are created and deleted, never edited, and keep insertion order.
type Bookmark struct {
	Page  int    `json:"page"`
	Title string `json:"title"`
}

// Annotation is a highlighted excerpt with an optional comment. ID is
// assigned at creation and is unique within the document's bundle.
type Annotation struct {
	ID      string `json:"id"`
	Page    int    `json:"page"`
	Text    string `json:"text"`
	Comment string `json:"comment"`
}

// summaryExcerptLen caps the excerpt shown in annotation lists.
const summaryExcerptLen = 40

// Summary returns the short list-display form of the annotation.
func (a Annotation) Summary() string {
	excerpt := a.Text
	if runes := []rune(excerpt); len(runes) > summaryExcerptLen {
		excerpt = string(runes[:summaryExcerptLen]) + "..."
	}
	return fmt.Sprintf("Pág %d: %s", a.Page, excerpt)
}
