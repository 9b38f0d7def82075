// Package relations manages the favourite and read relations between users and
// books.
//
// Each relation is stored twice: as a {userId, bookId} record in its own
// collection and as the user id inside the book's membership array
// (Book.Favorites or Book.ReadBy). Every operation updates both sides inside
// one database transaction, so the two never diverge.
//
// # Usage
//
//	mgr := relations.NewManager(db)
//	err := mgr.AddFavourite(userID, bookID)
package relations

import (
	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// kind describes one relation type.
type kind struct {
	name       string
	collection string
	members    func(b *entities.Book) *[]string
}

var (
	favourites = kind{
		name:       "favourite",
		collection: entities.CollectionFavorites,
		members:    func(b *entities.Book) *[]string { return &b.Favorites },
	}
	reads = kind{
		name:       "read",
		collection: entities.CollectionReads,
		members:    func(b *entities.Book) *[]string { return &b.ReadBy },
	}
)

// Collections lists the relation collections. Transactions that delete books
// must declare them so PurgeBook can run inside the same transaction.
func Collections() []string {
	return []string{favourites.collection, reads.collection}
}

// Manager handles all favourite and read relation operations.
type Manager struct {
	db *database.Database
}

// NewManager creates a new relation manager.
func NewManager(db *database.Database) *Manager {
	return &Manager{db: db}
}

// AddFavourite records that userID favourited bookID. It fails with NotFound if
// the book does not exist and AlreadyFavorited if the pair already exists.
func (m *Manager) AddFavourite(userID, bookID string) error {
	return m.add(favourites, userID, bookID, true)
}

// RemoveFavourite deletes the pair. Removing a pair that does not exist, or
// one whose book is gone, is not an error.
func (m *Manager) RemoveFavourite(userID, bookID string) error {
	return m.remove(favourites, userID, bookID, false)
}

// MarkRead records that userID has read bookID. Marking twice is a no-op.
func (m *Manager) MarkRead(userID, bookID string) error {
	return m.add(reads, userID, bookID, false)
}

// UnmarkRead deletes the read pair. The book must exist.
func (m *Manager) UnmarkRead(userID, bookID string) error {
	return m.remove(reads, userID, bookID, true)
}

// FavouriteBookIDs returns the ids of the books userID favourited, in the
// order they were added.
func (m *Manager) FavouriteBookIDs(userID string) ([]string, error) {
	return m.bookIDs(favourites, userID)
}

// ReadBookIDs returns the ids of the books userID marked read.
func (m *Manager) ReadBookIDs(userID string) ([]string, error) {
	return m.bookIDs(reads, userID)
}

// PurgeBook removes every favourite and read pair referencing bookID. It runs
// inside the caller's transaction, which must declare Collections().
func (m *Manager) PurgeBook(tx *database.Tx, bookID string) error {
	for _, k := range []kind{favourites, reads} {
		rels, err := database.LoadAll[entities.Relation](tx, k.collection)
		if err != nil {
			return err
		}

		kept := rels[:0]
		for _, r := range rels {
			if r.BookID != bookID {
				kept = append(kept, r)
			}
		}
		if len(kept) == len(rels) {
			continue
		}
		if err := database.SaveAll(tx, k.collection, kept); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) add(k kind, userID, bookID string, rejectDuplicate bool) error {
	if userID == "" {
		return apperrors.Validation("userId is required")
	}

	return m.db.Update(func(tx *database.Tx) error {
		books, err := database.LoadAll[entities.Book](tx, entities.CollectionBooks)
		if err != nil {
			return err
		}
		idx := indexOfBook(books, bookID)
		if idx < 0 {
			return apperrors.NotFound("book")
		}

		rels, err := database.LoadAll[entities.Relation](tx, k.collection)
		if err != nil {
			return err
		}

		pair := entities.Relation{UserID: userID, BookID: bookID}
		inRelations := containsPair(rels, pair)
		members := k.members(&books[idx])
		inBook := containsString(*members, userID)

		if (inRelations || inBook) && rejectDuplicate {
			return apperrors.ErrAlreadyFavorited
		}

		if !inRelations {
			rels = append(rels, pair)
			if err := database.SaveAll(tx, k.collection, rels); err != nil {
				return err
			}
		}
		if !inBook {
			*members = append(*members, userID)
			if err := saveBooks(tx, books); err != nil {
				return err
			}
		}
		return nil
	}, entities.CollectionBooks, k.collection)
}

func (m *Manager) remove(k kind, userID, bookID string, requireBook bool) error {
	if userID == "" {
		return apperrors.Validation("userId is required")
	}

	return m.db.Update(func(tx *database.Tx) error {
		books, err := database.LoadAll[entities.Book](tx, entities.CollectionBooks)
		if err != nil {
			return err
		}
		idx := indexOfBook(books, bookID)
		if idx < 0 && requireBook {
			return apperrors.NotFound("book")
		}

		rels, err := database.LoadAll[entities.Relation](tx, k.collection)
		if err != nil {
			return err
		}

		pair := entities.Relation{UserID: userID, BookID: bookID}
		kept := make([]entities.Relation, 0, len(rels))
		for _, r := range rels {
			if r != pair {
				kept = append(kept, r)
			}
		}
		if len(kept) != len(rels) {
			if err := database.SaveAll(tx, k.collection, kept); err != nil {
				return err
			}
		}

		if idx < 0 {
			return nil
		}
		members := k.members(&books[idx])
		if !containsString(*members, userID) {
			return nil
		}
		*members = withoutString(*members, userID)
		return saveBooks(tx, books)
	}, entities.CollectionBooks, k.collection)
}

func (m *Manager) bookIDs(k kind, userID string) ([]string, error) {
	var ids []string
	err := m.db.View(func(tx *database.Tx) error {
		rels, err := database.LoadAll[entities.Relation](tx, k.collection)
		if err != nil {
			return err
		}
		ids = make([]string, 0)
		for _, r := range rels {
			if r.UserID == userID {
				ids = append(ids, r.BookID)
			}
		}
		return nil
	}, k.collection)
	return ids, err
}

func saveBooks(tx *database.Tx, books []entities.Book) error {
	for i := range books {
		books[i].Normalize()
	}
	return database.SaveAll(tx, entities.CollectionBooks, books)
}

func indexOfBook(books []entities.Book, id string) int {
	for i := range books {
		if books[i].ID == id {
			return i
		}
	}
	return -1
}

func containsPair(rels []entities.Relation, pair entities.Relation) bool {
	for _, r := range rels {
		if r == pair {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func withoutString(values []string, v string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
