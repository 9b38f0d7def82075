package http

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// relationRequest is the body of favourite and read requests.
type relationRequest struct {
	UserID string `json:"userId"`
}

// bindUserID reads userId from the JSON body, falling back to the query string
// for clients that cannot send a body with DELETE. An empty body is allowed;
// the store rejects the missing id.
func bindUserID(c *gin.Context) (string, bool) {
	var req relationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondBadRequest(c, "invalid request body")
			return "", false
		}
	}
	if req.UserID == "" {
		req.UserID = c.Query("userId")
	}
	return req.UserID, true
}

type FavouritesController struct {
	store FavouritesStore
}

func NewFavouritesController(store FavouritesStore) *FavouritesController {
	return &FavouritesController{store: store}
}

// AddFavourite marks a book as a favourite of the user.
// POST /api/favorites/:bookId
func (fc *FavouritesController) AddFavourite(c *gin.Context) {
	userID, ok := bindUserID(c)
	if !ok {
		return
	}

	if err := fc.store.AddFavourite(userID, c.Param("bookId")); err != nil {
		respondAppError(c, err, "add favourite")
		return
	}
	respondSuccess(c, "Added to favorites")
}

// RemoveFavourite removes a book from the user's favourites.
// DELETE /api/favorites/:bookId
func (fc *FavouritesController) RemoveFavourite(c *gin.Context) {
	userID, ok := bindUserID(c)
	if !ok {
		return
	}

	if err := fc.store.RemoveFavourite(userID, c.Param("bookId")); err != nil {
		respondAppError(c, err, "remove favourite")
		return
	}
	respondSuccess(c, "Removed from favorites")
}
