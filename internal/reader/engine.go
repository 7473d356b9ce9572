package reader

// Engine is the external PDF rendering/selection collaborator. The core
// treats it as a black box: it opens a path and hands back a document
// handle, nothing about parsing or rendering leaks through.
type Engine interface {
	Open(path string) (Document, error)
}

// Document is one open document inside the engine.
type Document interface {
	// PageCount returns the total number of pages.
	PageCount() int
	// Page returns the current 1-based page.
	Page() int
	// SetPage moves the view to a 1-based page. Implementations may
	// assume the caller already clamped the value.
	SetPage(page int)
	// SelectedText returns the text selected in the current view, or "".
	SelectedText() string
	// Close releases the document.
	Close() error
}
