// Package database provides the data access layer for the application.
//
// # Architecture
//
// Records are kept in named collections. A collection is loaded and saved as a
// whole through a Store:
//
//	database/
//	├── store.go         # Store interface, collection name checks
//	├── filestore.go     # One JSON array file per collection, atomic replace
//	├── memstore.go      # In-memory Store used by tests
//	├── metrics.go       # Prometheus instrumented Store decorator
//	├── tx.go            # Collection-locked transactions over a Store
//	├── books/           # Book repository and content synthesis
//	├── users/           # User repository
//	└── relations/       # Favourite and read relations between users and books
//
// # Transactions
//
// Repositories never call a Store directly. Every operation declares the
// collections it touches and runs inside Database.Update or Database.View:
//
//	err := db.Update(func(tx *database.Tx) error {
//	    books, err := database.LoadAll[entities.Book](tx, entities.CollectionBooks)
//	    if err != nil {
//	        return err
//	    }
//	    books = append(books, book)
//	    return database.SaveAll(tx, entities.CollectionBooks, books)
//	}, entities.CollectionBooks)
//
// Locks are taken per collection in sorted order, so a load-modify-save cycle
// cannot interleave with another writer of the same collection. Saves are
// staged and written when the callback returns nil. If writing a later
// collection fails the earlier ones are restored.
//
// # Adding a New Domain
//
//  1. Add the collection name to entities.AllCollections
//  2. Create a sub-package with a Repository holding a *database.Database
//  3. Add a NewRepository(db *database.Database) constructor
//  4. Add a compile-time interface check in internal/interfaces
package database
