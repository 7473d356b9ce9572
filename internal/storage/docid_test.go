package storage

import "testing"

func TestDocumentKey(t *testing.T) {
	tests := []struct {
		name  string
		a     string
		b     string
		equal bool
	}{
		{
			name:  "deterministic for the same path",
			a:     "/home/ana/books/quijote.pdf",
			b:     "/home/ana/books/quijote.pdf",
			equal: true,
		},
		{
			name:  "different paths get different keys",
			a:     "/home/ana/books/quijote.pdf",
			b:     "/home/ana/books/rayuela.pdf",
			equal: false,
		},
		{
			name:  "casing is not normalized",
			a:     "/books/Quijote.pdf",
			b:     "/books/quijote.pdf",
			equal: false,
		},
		{
			name:  "separators are not normalized",
			a:     `C:\books\quijote.pdf`,
			b:     "C:/books/quijote.pdf",
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := DocumentKey(tt.a), DocumentKey(tt.b)
			if (ka == kb) != tt.equal {
				t.Errorf("DocumentKey(%q) = %q, DocumentKey(%q) = %q, want equal=%v",
					tt.a, ka, tt.b, kb, tt.equal)
			}
		})
	}
}

func TestDocumentKeyShape(t *testing.T) {
	key := DocumentKey("/any/path.pdf")
	if len(key) != 16 {
		t.Errorf("DocumentKey length = %d, want 16", len(key))
	}
	for _, r := range key {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Errorf("DocumentKey contains non-hex rune %q", r)
		}
	}
}
