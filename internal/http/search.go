package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

type SearchController struct {
	store BookStore
}

func NewSearchController(store BookStore) *SearchController {
	return &SearchController{store: store}
}

// Search filters the catalog. Every parameter is optional; "all" disables the
// genre and author filters.
// GET /api/search?q=&genre=&author=&minRating=&favoritesOf=&readBy=
func (sc *SearchController) Search(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	books, err := sc.store.SearchBooks(filter)
	if err != nil {
		respondAppError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// parseFilter builds a catalog filter from query parameters.
// Responds with a 400 error and returns false on a malformed minRating.
func parseFilter(c *gin.Context) (catalog.Filter, bool) {
	filter := catalog.Filter{
		Query:        c.Query("q"),
		Genre:        c.Query("genre"),
		Author:       c.Query("author"),
		FavouritesOf: c.Query("favoritesOf"),
		ReadBy:       c.Query("readBy"),
	}

	if raw := c.Query("minRating"); raw != "" && raw != catalog.All {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 0 || rating > entities.MaxRating {
			respondBadRequest(c, "minRating must be an integer between 0 and 5")
			return catalog.Filter{}, false
		}
		filter.MinRating = rating
	}
	return filter, true
}
