package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlopez/lectorpdf/internal/entities"
	"github.com/mlopez/lectorpdf/internal/reader"
	"github.com/mlopez/lectorpdf/internal/storage"
)

// LibraryController exposes the reading session to the UI layer: library
// management, document opening and navigation, bookmarks, annotations.
type LibraryController struct {
	session *reader.Session
}

func NewLibraryController(session *reader.Session) *LibraryController {
	return &LibraryController{session: session}
}

// RegisterRoutes registers the library API under /api.
func (controller *LibraryController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/library", controller.GetLibrary)
	api.POST("/library", controller.AddBook)
	api.DELETE("/library", controller.RemoveBook)

	api.POST("/open", controller.OpenBook)
	api.GET("/current", controller.GetCurrent)
	api.POST("/pages/next", controller.NextPage)
	api.POST("/pages/prev", controller.PrevPage)
	api.POST("/pages/goto", controller.GoToPage)

	api.GET("/bookmarks", controller.GetBookmarks)
	api.POST("/bookmarks", controller.AddBookmark)

	api.GET("/annotations", controller.GetAnnotations)
	api.POST("/annotations", controller.AnnotateSelection)
	api.PUT("/annotations/:id", controller.UpdateAnnotationComment)
	api.DELETE("/annotations/:id", controller.DeleteAnnotation)

	api.POST("/save", controller.Save)
}

func (controller *LibraryController) GetLibrary(c *gin.Context) {
	books := controller.session.Library()
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// bookRequest identifies a library entry by document path.
type bookRequest struct {
	Path string `json:"path" binding:"required"`
}

func (controller *LibraryController) AddBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	book, err := controller.session.AddToLibrary(req.Path)
	if err != nil {
		if errors.Is(err, reader.ErrAlreadyInLibrary) {
			c.IndentedJSON(http.StatusConflict, gin.H{"error": "document is already in the library"})
			return
		}
		writeStorageError(c, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, book)
}

func (controller *LibraryController) RemoveBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	if err := controller.session.RemoveFromLibrary(req.Path); err != nil {
		if errors.Is(err, reader.ErrNotInLibrary) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "document is not in the library"})
			return
		}
		writeStorageError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (controller *LibraryController) OpenBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	book, err := controller.session.Open(req.Path)
	if err != nil {
		if errors.Is(err, reader.ErrNotInLibrary) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "document is not in the library"})
			return
		}
		writeStorageError(c, err)
		return
	}

	pages, _ := controller.session.PageCount()
	c.IndentedJSON(http.StatusOK, gin.H{"book": book, "page_count": pages})
}

func (controller *LibraryController) GetCurrent(c *gin.Context) {
	book, ok := controller.session.Current()
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "no document is open"})
		return
	}

	pages, _ := controller.session.PageCount()
	c.IndentedJSON(http.StatusOK, gin.H{"book": book, "page_count": pages})
}

func (controller *LibraryController) NextPage(c *gin.Context) {
	controller.navigate(c, controller.session.NextPage)
}

func (controller *LibraryController) PrevPage(c *gin.Context) {
	controller.navigate(c, controller.session.PrevPage)
}

func (controller *LibraryController) GoToPage(c *gin.Context) {
	var req struct {
		Page int `json:"page" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "page is required"})
		return
	}

	controller.navigate(c, func() (int, error) {
		return controller.session.GoToPage(req.Page)
	})
}

// navigate runs one page-move operation and writes the landed page.
func (controller *LibraryController) navigate(c *gin.Context, move func() (int, error)) {
	page, err := move()
	if err != nil {
		if errors.Is(err, reader.ErrNoDocument) {
			c.IndentedJSON(http.StatusConflict, gin.H{"error": "no document is open"})
			return
		}
		writeStorageError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"page": page})
}

func (controller *LibraryController) GetBookmarks(c *gin.Context) {
	marks := controller.session.Bookmarks()
	c.IndentedJSON(http.StatusOK, gin.H{"bookmarks": marks, "count": len(marks)})
}

func (controller *LibraryController) AddBookmark(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	// Body is optional; the title defaults inside the session.
	_ = c.ShouldBindJSON(&req)

	mark, err := controller.session.AddBookmark(req.Title)
	if err != nil {
		if errors.Is(err, reader.ErrNoDocument) {
			c.IndentedJSON(http.StatusConflict, gin.H{"error": "no document is open"})
			return
		}
		writeStorageError(c, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, mark)
}

func (controller *LibraryController) GetAnnotations(c *gin.Context) {
	anns := controller.session.Annotations()

	type annotationView struct {
		ID      string `json:"id"`
		Page    int    `json:"page"`
		Text    string `json:"text"`
		Comment string `json:"comment"`
		Summary string `json:"summary"`
	}
	views := make([]annotationView, 0, len(anns))
	for _, ann := range anns {
		views = append(views, annotationView{
			ID:      ann.ID,
			Page:    ann.Page,
			Text:    ann.Text,
			Comment: ann.Comment,
			Summary: ann.Summary(),
		})
	}

	c.IndentedJSON(http.StatusOK, gin.H{"annotations": views, "count": len(views)})
}

func (controller *LibraryController) AnnotateSelection(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	// Body is optional: with a text field the client supplies the
	// selection, otherwise the engine's current selection is used.
	_ = c.ShouldBindJSON(&req)

	var (
		ann entities.Annotation
		ok  bool
		err error
	)
	if req.Text != "" {
		ann, ok, err = controller.session.Annotate(req.Text)
	} else {
		ann, ok, err = controller.session.AnnotateSelection()
	}
	if err != nil {
		if errors.Is(err, reader.ErrNoDocument) {
			c.IndentedJSON(http.StatusConflict, gin.H{"error": "no document is open"})
			return
		}
		writeStorageError(c, err)
		return
	}
	if !ok {
		c.IndentedJSON(http.StatusOK, gin.H{"created": false})
		return
	}

	c.IndentedJSON(http.StatusCreated, ann)
}

func (controller *LibraryController) UpdateAnnotationComment(c *gin.Context) {
	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := controller.session.UpdateAnnotationComment(c.Param("id"), req.Comment); err != nil {
		writeAnnotationError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (controller *LibraryController) DeleteAnnotation(c *gin.Context) {
	if err := controller.session.DeleteAnnotation(c.Param("id")); err != nil {
		writeAnnotationError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (controller *LibraryController) Save(c *gin.Context) {
	if err := controller.session.Save(); err != nil {
		writeStorageError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"saved": true})
}

func writeAnnotationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reader.ErrNoDocument):
		c.IndentedJSON(http.StatusConflict, gin.H{"error": "no document is open"})
	case errors.Is(err, reader.ErrAnnotationNotFound):
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "annotation not found"})
	default:
		writeStorageError(c, err)
	}
}

// writeStorageError maps the store taxonomy onto HTTP statuses. Corrupt
// data is surfaced loudly rather than papered over with empty lists.
func writeStorageError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, storage.ErrCorrupt) {
		status = http.StatusUnprocessableEntity
	}
	c.IndentedJSON(status, gin.H{"error": err.Error()})
}
