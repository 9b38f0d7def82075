// Package books provides database operations for the book catalog.
//
// This package implements the BookStore interface defined in
// internal/http/books.go.
//
// # Interface Implementation
//
//	var _ http.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db, relations.NewManager(db))
//	book, err := repo.GetBookByID(id)
package books

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// ContentThreshold is the number of characters above which stored content is
// considered complete and returned as is.
const ContentThreshold = 500

// RelationPurger removes the relations of a deleted book inside the delete
// transaction.
type RelationPurger interface {
	PurgeBook(tx *database.Tx, bookID string) error
}

// Repository handles all book database operations.
type Repository struct {
	db        *database.Database
	relations RelationPurger
	validator *validation.Validator
	now       func() time.Time
}

// NewRepository creates a new books repository.
func NewRepository(db *database.Database, relations RelationPurger) *Repository {
	return &Repository{
		db:        db,
		relations: relations,
		validator: validation.New(),
		now:       time.Now,
	}
}

// CreateBook validates input and appends a new book to the catalog.
func (r *Repository) CreateBook(input entities.BookInput) (*entities.Book, error) {
	input.Trim()
	if err := r.validator.Validate(input); err != nil {
		return nil, err
	}

	book := entities.Book{
		ID:         uuid.NewString(),
		Title:      input.Title,
		Author:     input.Author,
		Year:       input.Year,
		Genre:      input.Genre,
		CoverImage: optionalString(input.CoverImage),
		Content:    optionalString(input.Content),
		Rating:     input.Rating,
		CreatedAt:  r.now().UTC(),
	}
	book.Normalize()

	err := r.db.Update(func(tx *database.Tx) error {
		books, err := loadBooks(tx)
		if err != nil {
			return err
		}
		return database.SaveAll(tx, entities.CollectionBooks, append(books, book))
	}, entities.CollectionBooks)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookByID returns the book with the given id.
func (r *Repository) GetBookByID(id string) (*entities.Book, error) {
	var book *entities.Book
	err := r.db.View(func(tx *database.Tx) error {
		books, err := loadBooks(tx)
		if err != nil {
			return err
		}
		idx := indexOf(books, id)
		if idx < 0 {
			return apperrors.NotFound("book")
		}
		book = &books[idx]
		return nil
	}, entities.CollectionBooks)
	return book, err
}

// GetAllBooks returns every book in insertion order.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.View(func(tx *database.Tx) error {
		var err error
		books, err = loadBooks(tx)
		return err
	}, entities.CollectionBooks)
	return books, err
}

// SearchBooks returns the books matching filter, in insertion order.
func (r *Repository) SearchBooks(filter catalog.Filter) ([]entities.Book, error) {
	books, err := r.GetAllBooks()
	if err != nil {
		return nil, err
	}
	return catalog.Apply(books, filter), nil
}

// GetBookContent returns the readable text of a book. Content longer than
// ContentThreshold characters is returned unchanged; otherwise a full text is
// synthesized from the book's metadata and stored, so later calls return the
// same text.
func (r *Repository) GetBookContent(id string) (string, error) {
	var content string
	err := r.db.Update(func(tx *database.Tx) error {
		books, err := loadBooks(tx)
		if err != nil {
			return err
		}
		idx := indexOf(books, id)
		if idx < 0 {
			return apperrors.NotFound("book")
		}

		current := books[idx].ContentText()
		if utf8.RuneCountInString(current) > ContentThreshold {
			content = current
			return nil
		}

		content = SynthesizeContent(books[idx])
		books[idx].Content = &content
		return database.SaveAll(tx, entities.CollectionBooks, books)
	}, entities.CollectionBooks)
	return content, err
}

// UpdateBook applies a partial update. Title, author, genre and cover image
// are only replaced by non-empty values and year by a non-zero one. Content
// is replaced whenever present, null clearing it. Rating is replaced whenever
// present with a value, including 0, and must be within 0..5.
func (r *Repository) UpdateBook(id string, patch entities.BookPatch) (*entities.Book, error) {
	if patch.Rating.HasValue() {
		if err := r.validator.Var("rating", patch.Rating.Value, "gte=0,lte=5"); err != nil {
			return nil, err
		}
	}

	var updated entities.Book
	err := r.db.Update(func(tx *database.Tx) error {
		books, err := loadBooks(tx)
		if err != nil {
			return err
		}
		idx := indexOf(books, id)
		if idx < 0 {
			return apperrors.NotFound("book")
		}

		applyPatch(&books[idx], patch)
		updated = books[idx]
		return database.SaveAll(tx, entities.CollectionBooks, books)
	}, entities.CollectionBooks)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBook removes a book together with its favourite and read relations.
func (r *Repository) DeleteBook(id string) error {
	return r.db.Update(func(tx *database.Tx) error {
		books, err := loadBooks(tx)
		if err != nil {
			return err
		}
		idx := indexOf(books, id)
		if idx < 0 {
			return apperrors.NotFound("book")
		}

		books = append(books[:idx], books[idx+1:]...)
		if err := database.SaveAll(tx, entities.CollectionBooks, books); err != nil {
			return err
		}
		return r.relations.PurgeBook(tx, id)
	}, entities.CollectionBooks, entities.CollectionFavorites, entities.CollectionReads)
}

func applyPatch(book *entities.Book, patch entities.BookPatch) {
	if v, ok := nonEmpty(patch.Title); ok {
		book.Title = v
	}
	if v, ok := nonEmpty(patch.Author); ok {
		book.Author = v
	}
	if v, ok := nonEmpty(patch.Genre); ok {
		book.Genre = v
	}
	if v, ok := nonEmpty(patch.CoverImage); ok {
		book.CoverImage = &v
	}
	if patch.Year.HasValue() && patch.Year.Value != 0 {
		book.Year = patch.Year.Value
	}
	if patch.Content.Set {
		if patch.Content.Null {
			book.Content = nil
		} else {
			content := patch.Content.Value
			book.Content = &content
		}
	}
	if patch.Rating.HasValue() {
		book.Rating = patch.Rating.Value
	}
}

func nonEmpty(o entities.Optional[string]) (string, bool) {
	if !o.HasValue() {
		return "", false
	}
	v := strings.TrimSpace(o.Value)
	return v, v != ""
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func loadBooks(tx *database.Tx) ([]entities.Book, error) {
	books, err := database.LoadAll[entities.Book](tx, entities.CollectionBooks)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].Normalize()
	}
	return books, nil
}

func indexOf(books []entities.Book, id string) int {
	for i := range books {
		if books[i].ID == id {
			return i
		}
	}
	return -1
}
