package entities

// Relation links a user to a book. The favorites and reads collections both
// store records of this shape, unique per pair.
type Relation struct {
	UserID string `json:"userId"`
	BookID string `json:"bookId"`
}
