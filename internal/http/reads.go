package http

import "github.com/gin-gonic/gin"

type ReadsController struct {
	store ReadsStore
}

func NewReadsController(store ReadsStore) *ReadsController {
	return &ReadsController{store: store}
}

// MarkRead records that the user has read a book.
// POST /api/read/:bookId
func (rc *ReadsController) MarkRead(c *gin.Context) {
	userID, ok := bindUserID(c)
	if !ok {
		return
	}

	if err := rc.store.MarkRead(userID, c.Param("bookId")); err != nil {
		respondAppError(c, err, "mark read")
		return
	}
	respondSuccess(c, "Marked as read")
}

// UnmarkRead clears the read mark.
// DELETE /api/read/:bookId
func (rc *ReadsController) UnmarkRead(c *gin.Context) {
	userID, ok := bindUserID(c)
	if !ok {
		return
	}

	if err := rc.store.UnmarkRead(userID, c.Param("bookId")); err != nil {
		respondAppError(c, err, "unmark read")
		return
	}
	respondSuccess(c, "Unmarked read")
}
