package reader

import (
	"fmt"
	"os"
)

// HeadlessEngine is the viewer stand-in for server builds, where the
// browser front-end does the actual rendering. It validates that the
// file exists and derives an approximate page count by scanning for
// page objects; selection is whatever the front-end last reported.
type HeadlessEngine struct{}

func NewHeadlessEngine() *HeadlessEngine {
	return &HeadlessEngine{}
}

func (e *HeadlessEngine) Open(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	pages := countPageObjects(data)
	if pages < 1 {
		pages = 1
	}

	return &headlessDocument{pages: pages, page: 1}, nil
}

// countPageObjects counts "/Type /Page" dictionary entries, skipping the
// "/Pages" tree nodes. Good enough for navigation clamping; exact layout
// is the front-end's problem.
func countPageObjects(data []byte) int {
	const marker = "/Type"
	count := 0
	for i := 0; i+len(marker) < len(data); i++ {
		if string(data[i:i+len(marker)]) != marker {
			continue
		}
		j := i + len(marker)
		for j < len(data) && (data[j] == ' ' || data[j] == '\r' || data[j] == '\n' || data[j] == '\t') {
			j++
		}
		const page = "/Page"
		if j+len(page) > len(data) || string(data[j:j+len(page)]) != page {
			continue
		}
		// "/Pages" is the tree node, not a page
		if j+len(page) < len(data) && data[j+len(page)] == 's' {
			continue
		}
		count++
	}
	return count
}

type headlessDocument struct {
	pages     int
	page      int
	selection string
}

func (d *headlessDocument) PageCount() int { return d.pages }

func (d *headlessDocument) Page() int { return d.page }

func (d *headlessDocument) SetPage(page int) { d.page = page }

func (d *headlessDocument) SelectedText() string { return d.selection }

func (d *headlessDocument) Close() error { return nil }
