package books

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"novelhub/pkg/models"
)

// Reader is what the handler needs from the repo; split out so tests can
// serve canned data.
type Reader interface {
	Count(ctx context.Context, q ListQuery) (int64, error)
	List(ctx context.Context, q ListQuery) ([]models.BookSummary, error)
	GetByID(ctx context.Context, id string) (bson.M, error)
	ChapterList(ctx context.Context, bookID string) (bson.M, error)
}

type Handler struct {
	Books Reader
}

func NewHandler(books Reader) *Handler {
	return &Handler{Books: books}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)                  // GET /books
	rg.GET("/:id", h.getByID)           // GET /books/:id
	rg.GET("/:id/chapters", h.chapters) // GET /books/:id/chapters
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Gender: c.Query("gender"),
		Major:  c.Query("major"),
		Limit:  parseInt(c.Query("limit"), 20),
		Offset: parseInt(c.Query("offset"), 0),
	}

	total, err := h.Books.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Books.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.Books.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) chapters(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.Books.ChapterList(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
