package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountPageObjects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{
			name: "no page objects",
			data: "plain text, not a pdf",
			want: 0,
		},
		{
			name: "counts page dictionaries",
			data: "<< /Type /Pages /Count 2 >>\n<< /Type /Page >>\n<< /Type /Page >>",
			want: 2,
		},
		{
			name: "whitespace between type and value",
			data: "<< /Type\r\n/Page >>\n<< /Type\t/Page >>",
			want: 2,
		},
		{
			name: "tree node alone does not count",
			data: "<< /Type /Pages >>",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countPageObjects([]byte(tt.data)))
		})
	}
}

func TestHeadlessEngineOpen(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		engine := NewHeadlessEngine()

		_, err := engine.Open(filepath.Join(t.TempDir(), "none.pdf"))
		assert.Error(t, err)
	})

	t.Run("page count never drops below one", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n%%EOF"), 0o644))

		doc, err := NewHeadlessEngine().Open(path)
		require.NoError(t, err)
		defer doc.Close()

		assert.Equal(t, 1, doc.PageCount())
		assert.Equal(t, 1, doc.Page())
	})

	t.Run("derives the count from page objects", func(t *testing.T) {
		body := "%PDF-1.4\n<< /Type /Pages /Kids [] /Count 3 >>\n" +
			"<< /Type /Page >>\n<< /Type /Page >>\n<< /Type /Page >>\n%%EOF"
		path := filepath.Join(t.TempDir(), "three.pdf")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		doc, err := NewHeadlessEngine().Open(path)
		require.NoError(t, err)
		defer doc.Close()

		assert.Equal(t, 3, doc.PageCount())
	})
}
