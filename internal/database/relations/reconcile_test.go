package relations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// seedLegacy writes data the way the previous application left it: favourites
// can diverge, read state only lives in the book arrays.
func seedLegacy(t *testing.T, db *database.Database) {
	t.Helper()
	books := []entities.Book{
		{ID: "b1", Title: "Dune", Favorites: []string{"u1", "u1", "u2"}, ReadBy: []string{"u1"}},
		{ID: "b2", Title: "Emma", Favorites: nil, ReadBy: []string{"u2", ""}},
	}
	favs := []entities.Relation{
		{UserID: "u1", BookID: "b1"},
		{UserID: "u3", BookID: "b2"},
		{UserID: "u3", BookID: "b2"},
		{UserID: "u4", BookID: "deleted"},
	}
	err := db.Update(func(tx *database.Tx) error {
		if err := database.SaveAll(tx, entities.CollectionBooks, books); err != nil {
			return err
		}
		return database.SaveAll(tx, entities.CollectionFavorites, favs)
	}, entities.CollectionBooks, entities.CollectionFavorites)
	require.NoError(t, err)
}

func TestManager_Reconcile(t *testing.T) {
	db, mgr := setupTestManager(t)
	seedLegacy(t, db)

	report, err := mgr.Reconcile(false)
	require.NoError(t, err)

	assert.True(t, report.Changed())
	assert.Equal(t, KindReport{
		Pairs:             3,
		AddedToBooks:      1,
		AddedToRelations:  1,
		DroppedDangling:   1,
		DroppedDuplicates: 2,
	}, report.Favorites)
	assert.Equal(t, KindReport{
		Pairs:            2,
		AddedToRelations: 2,
		DroppedDangling:  1,
	}, report.Reads)

	s := loadSnapshot(t, db)
	assert.Equal(t, []string{"u1", "u2"}, s.book("b1").Favorites)
	assert.Equal(t, []string{"u3"}, s.book("b2").Favorites)
	assert.Equal(t, []string{"u2"}, s.book("b2").ReadBy)
	assertConsistent(t, db)

	again, err := mgr.Reconcile(false)
	require.NoError(t, err)
	assert.False(t, again.Changed())
}

func TestManager_ReconcileDryRun(t *testing.T) {
	db, mgr := setupTestManager(t)
	seedLegacy(t, db)
	before := loadSnapshot(t, db)

	report, err := mgr.Reconcile(true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.True(t, report.Changed())

	assert.Equal(t, before, loadSnapshot(t, db))
}

func TestManager_ReconcileConsistentData(t *testing.T) {
	db, mgr := setupTestManager(t, "b1")
	require.NoError(t, mgr.AddFavourite("u1", "b1"))
	require.NoError(t, mgr.MarkRead("u1", "b1"))

	report, err := mgr.Reconcile(false)
	require.NoError(t, err)
	assert.False(t, report.Changed())
	assert.Equal(t, 1, report.Favorites.Pairs)
	assert.Equal(t, 1, report.Reads.Pairs)
	assertConsistent(t, db)
}

func TestManager_ReconcileMissingReadsCollection(t *testing.T) {
	store := database.NewMemoryStore(entities.CollectionBooks, entities.CollectionFavorites)
	db := database.New(store)
	mgr := NewManager(db)
	err := db.Update(func(tx *database.Tx) error {
		return database.SaveAll(tx, entities.CollectionBooks, []entities.Book{
			{ID: "b1", Title: "Dune", ReadBy: []string{"u1"}},
		})
	}, entities.CollectionBooks)
	require.NoError(t, err)

	report, err := mgr.Reconcile(true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Reads.AddedToRelations)

	_, err = store.Load(entities.CollectionReads)
	assert.True(t, errors.Is(err, apperrors.ErrNotInitialized), "dry run must not create the collection")

	_, err = mgr.Reconcile(false)
	require.NoError(t, err)
	reads, err := store.Load(entities.CollectionReads)
	require.NoError(t, err)
	assert.Len(t, reads, 1)
}
