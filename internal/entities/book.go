package entities

import (
	"strings"
	"time"
)

// Collection names. Each is persisted as an independently loadable store.
const (
	CollectionBooks     = "books"
	CollectionUsers     = "users"
	CollectionFavorites = "favorites"
	CollectionReads     = "reads"
)

// AllCollections lists every collection the application expects to exist.
var AllCollections = []string{
	CollectionBooks,
	CollectionUsers,
	CollectionFavorites,
	CollectionReads,
}

// MaxRating is the highest rating a book can carry.
const MaxRating = 5

type Book struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Year       int       `json:"year"`
	Genre      string    `json:"genre"`
	CoverImage *string   `json:"coverImage"`
	Content    *string   `json:"content"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
	Favorites  []string  `json:"favorites"`
	ReadBy     []string  `json:"readBy"`
}

// Normalize replaces missing membership arrays with empty ones. Records written
// by older versions of the library may omit them.
func (b *Book) Normalize() {
	if b.Favorites == nil {
		b.Favorites = []string{}
	}
	if b.ReadBy == nil {
		b.ReadBy = []string{}
	}
}

// ContentText returns the stored content, or "" when absent.
func (b *Book) ContentText() string {
	if b.Content == nil {
		return ""
	}
	return *b.Content
}

// IsFavoriteOf reports whether userID favourited the book.
func (b *Book) IsFavoriteOf(userID string) bool {
	return containsID(b.Favorites, userID)
}

// IsReadBy reports whether userID marked the book read.
func (b *Book) IsReadBy(userID string) bool {
	return containsID(b.ReadBy, userID)
}

// BookInput carries the fields accepted when creating a book.
type BookInput struct {
	Title      string `json:"title" validate:"required"`
	Author     string `json:"author" validate:"required"`
	Year       int    `json:"year" validate:"required"`
	Genre      string `json:"genre" validate:"required"`
	CoverImage string `json:"coverImage"`
	Content    string `json:"content"`
	Rating     int    `json:"rating" validate:"gte=0,lte=5"`
}

// Trim strips surrounding whitespace from the text fields.
func (in *BookInput) Trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
}

// BookPatch is a partial update. Only fields present in the request are
// considered; see books.Repository.Update for which values apply.
type BookPatch struct {
	Title      Optional[string] `json:"title"`
	Author     Optional[string] `json:"author"`
	Year       Optional[int]    `json:"year"`
	Genre      Optional[string] `json:"genre"`
	CoverImage Optional[string] `json:"coverImage"`
	Content    Optional[string] `json:"content"`
	Rating     Optional[int]    `json:"rating"`
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
