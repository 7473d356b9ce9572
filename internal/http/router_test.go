package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlopez/lectorpdf/internal/auth"
	"github.com/mlopez/lectorpdf/internal/config"
	"github.com/mlopez/lectorpdf/internal/reader"
	"github.com/mlopez/lectorpdf/internal/storage"
)

// testServer bundles a router with enough state to replay a session
// cookie across requests.
type testServer struct {
	router  *gin.Engine
	cookies []*http.Cookie
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataRoot := t.TempDir()
	store, err := storage.NewStore(dataRoot)
	require.NoError(t, err)

	service, err := auth.NewService(dataRoot)
	require.NoError(t, err)

	session, err := reader.NewSession(store, reader.NewHeadlessEngine())
	require.NoError(t, err)

	sessionManager := auth.NewSessionManager(config.Auth{
		SessionLifetime: 24 * time.Hour,
	})

	// CSRF stays off in tests; the cross-request dance it requires is
	// covered by gorilla/csrf's own suite.
	router := NewRouter(RouterConfig{
		Session:        session,
		Store:          store,
		AuthService:    service,
		SessionManager: sessionManager,
		Version:        "test",
	})
	return &testServer{router: router}
}

// do sends a request, carrying any session cookies captured so far.
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case url.Values:
		req = httptest.NewRequest(method, path, strings.NewReader(b.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}

	for _, c := range s.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		s.cookies = set
	}
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *testServer) register(t *testing.T, email, password string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/register", url.Values{
		"email":            {email},
		"password":         {password},
		"confirm_password": {password},
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	server := setupServer(t)

	w := server.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "test", health.Version)
	assert.Equal(t, "ok", health.Checks["data_root"])
}

func TestAuthGate(t *testing.T) {
	t.Run("api requests get a json 401", func(t *testing.T) {
		server := setupServer(t)

		w := server.do(t, http.MethodGet, "/api/library", nil)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "authentication required", decodeJSON(t, w)["error"])
	})

	t.Run("browser requests get redirected to login", func(t *testing.T) {
		server := setupServer(t)

		req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
		req.Header.Set("Accept", "text/html")
		w := httptest.NewRecorder()
		server.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?next=/somewhere", w.Header().Get("Location"))
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		server := setupServer(t)
		server.register(t, "ana@example.com", "secret123")
		server.cookies = nil // drop the auto-login

		w := server.do(t, http.MethodPost, "/login", url.Values{
			"email":    {"ana@example.com"},
			"password": {"wrong"},
		})

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decodeJSON(t, w)["error"])
	})

	t.Run("login opens the api", func(t *testing.T) {
		server := setupServer(t)
		server.register(t, "ana@example.com", "secret123")
		server.cookies = nil

		w := server.do(t, http.MethodPost, "/login", url.Values{
			"email":    {"ana@example.com"},
			"password": {"secret123"},
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = server.do(t, http.MethodGet, "/api/library", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("first run redirects login to register", func(t *testing.T) {
		server := setupServer(t)

		w := server.do(t, http.MethodGet, "/login", nil)

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/register", w.Header().Get("Location"))
	})
}

func TestReadingFlow(t *testing.T) {
	server := setupServer(t)
	server.register(t, "ana@example.com", "secret123")

	// A throwaway document with five page objects
	body := "%PDF-1.4\n<< /Type /Pages /Count 5 >>\n" +
		strings.Repeat("<< /Type /Page >>\n", 5) + "%%EOF"
	docPath := filepath.Join(t.TempDir(), "quijote.pdf")
	require.NoError(t, os.WriteFile(docPath, []byte(body), 0o644))

	w := server.do(t, http.MethodPost, "/api/library", gin.H{"path": docPath})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "quijote", decodeJSON(t, w)["title"])

	// Duplicate add
	w = server.do(t, http.MethodPost, "/api/library", gin.H{"path": docPath})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = server.do(t, http.MethodPost, "/api/open", gin.H{"path": docPath})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, decodeJSON(t, w)["page_count"])

	w = server.do(t, http.MethodPost, "/api/pages/goto", gin.H{"page": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 4, decodeJSON(t, w)["page"])

	// Clamped past the end
	w = server.do(t, http.MethodPost, "/api/pages/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = server.do(t, http.MethodPost, "/api/pages/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, decodeJSON(t, w)["page"])

	w = server.do(t, http.MethodPost, "/api/bookmarks", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	mark := decodeJSON(t, w)
	assert.EqualValues(t, 5, mark["page"])
	assert.Equal(t, "Página 5", mark["title"])

	w = server.do(t, http.MethodGet, "/api/bookmarks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeJSON(t, w)["count"])

	w = server.do(t, http.MethodPost, "/api/annotations", gin.H{"text": "en un lugar de la Mancha"})
	require.Equal(t, http.StatusCreated, w.Code)
	annID, _ := decodeJSON(t, w)["id"].(string)
	require.NotEmpty(t, annID)

	w = server.do(t, http.MethodPut, "/api/annotations/"+annID, gin.H{"comment": "apertura"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = server.do(t, http.MethodGet, "/api/annotations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	anns, _ := decodeJSON(t, w)["annotations"].([]any)
	require.Len(t, anns, 1)
	first, _ := anns[0].(map[string]any)
	assert.Equal(t, "apertura", first["comment"])
	assert.Contains(t, first["summary"], "Pág 5:")

	w = server.do(t, http.MethodDelete, "/api/annotations/"+annID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = server.do(t, http.MethodDelete, "/api/annotations/"+annID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = server.do(t, http.MethodPost, "/api/save", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = server.do(t, http.MethodDelete, "/api/library", gin.H{"path": docPath})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = server.do(t, http.MethodGet, "/api/library", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decodeJSON(t, w)["count"])
}
