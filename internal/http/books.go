package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	viewByAuthor = "by-author"
	viewByYear   = "by-year"
)

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

// GetAllBooks lists the catalog in insertion order, or grouped when a view is
// requested.
// GET /api/books?view=by-author|by-year
func (bc *BooksController) GetAllBooks(c *gin.Context) {
	books, err := bc.store.GetAllBooks()
	if err != nil {
		respondAppError(c, err, "list books")
		return
	}

	switch c.Query("view") {
	case "":
		c.JSON(http.StatusOK, books)
	case viewByAuthor:
		c.JSON(http.StatusOK, catalog.GroupByAuthor(books))
	case viewByYear:
		c.JSON(http.StatusOK, catalog.GroupByYear(books))
	default:
		respondBadRequest(c, "view must be one of: by-author, by-year")
	}
}

// GetBook returns a single book.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.store.GetBookByID(c.Param("id"))
	if err != nil {
		respondAppError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// GetBookContent returns the full text of a book, synthesizing it on first use.
// GET /api/books/:id/content
func (bc *BooksController) GetBookContent(c *gin.Context) {
	content, err := bc.store.GetBookContent(c.Param("id"))
	if err != nil {
		respondAppError(c, err, "get book content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// CreateBook adds a book to the catalog.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var input entities.BookInput
	if !bindJSON(c, &input) {
		return
	}

	book, err := bc.store.CreateBook(input)
	if err != nil {
		respondAppError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

// UpdateBook applies a partial update.
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	var patch entities.BookPatch
	if !bindJSON(c, &patch) {
		return
	}

	book, err := bc.store.UpdateBook(c.Param("id"), patch)
	if err != nil {
		respondAppError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book and its relations.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	if err := bc.store.DeleteBook(c.Param("id")); err != nil {
		respondAppError(c, err, "delete book")
		return
	}
	respondSuccess(c, "Book deleted successfully")
}

// GetStats returns dashboard statistics, scoped to a user when userId is given.
// GET /api/books/stats?userId=
func (bc *BooksController) GetStats(c *gin.Context) {
	books, err := bc.store.GetAllBooks()
	if err != nil {
		respondAppError(c, err, "book stats")
		return
	}
	c.JSON(http.StatusOK, catalog.Summarize(books, c.Query("userId")))
}

// GetFacets returns the distinct genres and authors for filter dropdowns.
// GET /api/books/facets
func (bc *BooksController) GetFacets(c *gin.Context) {
	books, err := bc.store.GetAllBooks()
	if err != nil {
		respondAppError(c, err, "book facets")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"genres":  catalog.Genres(books),
		"authors": catalog.Authors(books),
	})
}
