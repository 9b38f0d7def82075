package relations

import (
	"errors"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// KindReport counts what reconciliation changed for one relation type.
type KindReport struct {
	Pairs             int `json:"pairs"`
	AddedToBooks      int `json:"addedToBooks"`
	AddedToRelations  int `json:"addedToRelations"`
	DroppedDangling   int `json:"droppedDangling"`
	DroppedDuplicates int `json:"droppedDuplicates"`
}

func (r KindReport) changed() bool {
	return r.AddedToBooks+r.AddedToRelations+r.DroppedDangling+r.DroppedDuplicates > 0
}

// Report summarizes a reconciliation run.
type Report struct {
	Favorites KindReport `json:"favorites"`
	Reads     KindReport `json:"reads"`
	DryRun    bool       `json:"dryRun"`
}

// Changed reports whether reconciliation found anything to repair.
func (r Report) Changed() bool {
	return r.Favorites.changed() || r.Reads.changed()
}

// Reconcile makes both representations of every relation agree. Each side
// becomes the de-duplicated union of the two; pairs whose book no longer
// exists, or with an empty user id, are dropped. With dryRun nothing is
// written, and a missing relation collection is reported as empty.
func (m *Manager) Reconcile(dryRun bool) (Report, error) {
	report := Report{DryRun: dryRun}

	collections := append([]string{entities.CollectionBooks}, Collections()...)
	err := m.db.Update(func(tx *database.Tx) error {
		books, err := database.LoadAll[entities.Book](tx, entities.CollectionBooks)
		if err != nil {
			return err
		}

		booksChanged := false
		for _, k := range []kind{favourites, reads} {
			rels, err := loadRelations(tx, k.collection)
			if err != nil {
				return err
			}

			fixed, kr := reconcileKind(k, books, rels)
			if k.collection == favourites.collection {
				report.Favorites = kr
			} else {
				report.Reads = kr
			}
			if !kr.changed() || dryRun {
				continue
			}
			booksChanged = true
			if err := database.SaveAll(tx, k.collection, fixed); err != nil {
				return err
			}
		}

		if booksChanged {
			return saveBooks(tx, books)
		}
		return nil
	}, collections...)

	return report, err
}

// loadRelations treats a relation collection that was never created as empty.
// Data directories may predate the reads collection.
func loadRelations(tx *database.Tx, collection string) ([]entities.Relation, error) {
	rels, err := database.LoadAll[entities.Relation](tx, collection)
	if errors.Is(err, apperrors.ErrNotInitialized) {
		return nil, nil
	}
	return rels, err
}

// reconcileKind rewrites the membership arrays in books in place (unless the
// kind is already consistent) and returns the repaired relation records.
func reconcileKind(k kind, books []entities.Book, rels []entities.Relation) ([]entities.Relation, KindReport) {
	var report KindReport

	index := make(map[string]int, len(books))
	for i := range books {
		index[books[i].ID] = i
	}

	seen := make(map[entities.Relation]struct{}, len(rels))
	fixed := make([]entities.Relation, 0, len(rels))
	fromRelations := make(map[string][]string)

	for _, r := range rels {
		if _, ok := index[r.BookID]; !ok || r.UserID == "" {
			report.DroppedDangling++
			continue
		}
		if _, dup := seen[r]; dup {
			report.DroppedDuplicates++
			continue
		}
		seen[r] = struct{}{}
		fixed = append(fixed, r)
		fromRelations[r.BookID] = append(fromRelations[r.BookID], r.UserID)
	}

	newMembers := make([][]string, len(books))
	for i := range books {
		current := *k.members(&books[i])
		members := make([]string, 0, len(current))
		inBook := make(map[string]struct{}, len(current))

		for _, userID := range current {
			if userID == "" {
				report.DroppedDangling++
				continue
			}
			if _, dup := inBook[userID]; dup {
				report.DroppedDuplicates++
				continue
			}
			inBook[userID] = struct{}{}
			members = append(members, userID)

			pair := entities.Relation{UserID: userID, BookID: books[i].ID}
			if _, ok := seen[pair]; !ok {
				seen[pair] = struct{}{}
				fixed = append(fixed, pair)
				report.AddedToRelations++
			}
		}

		for _, userID := range fromRelations[books[i].ID] {
			if _, ok := inBook[userID]; ok {
				continue
			}
			inBook[userID] = struct{}{}
			members = append(members, userID)
			report.AddedToBooks++
		}
		newMembers[i] = members
	}

	report.Pairs = len(fixed)
	if report.AddedToBooks > 0 || report.DroppedDuplicates > 0 || report.DroppedDangling > 0 {
		for i := range books {
			*k.members(&books[i]) = newMembers[i]
		}
	}
	return fixed, report
}
