// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help contributors
// find extension points and see how new functionality is wired.
//
// # Interface Categories
//
// ## Storage
//
//   - Store: Load/Save/Create whole collections of raw JSON records
//     (internal/database/store.go). Implemented by FileStore, MemoryStore and
//     the metrics decorator InstrumentedStore.
//
// ## Data Access Interfaces
//
//   - BookStore: Book catalog (internal/http/stores.go)
//   - FavouritesStore: Favourite tracking (internal/http/stores.go)
//   - ReadsStore: Read tracking (internal/http/stores.go)
//   - UserStore: Signup, login and listing (internal/http/stores.go)
//   - HealthChecker: Collection readability (internal/http/stores.go)
//   - RelationPurger: Relation cleanup on book delete (internal/database/books/repository.go)
//
// ## Authentication
//
//   - LoginLimiter: Failed-login lockout (internal/http/stores.go)
//
// # Adding a New Relation Type
//
// Relations are stored twice: as an id array on the book and as a pair in a
// collection of their own. To add one (for example "wishlist"):
//
//  1. Add the collection name and the book field in internal/entities/
//
//     const CollectionWishlist = "wishlist"
//
//     type Book struct {
//         Wishlist []string `json:"wishlist"`
//     }
//
//  2. Declare the kind in internal/database/relations/manager.go
//
//     var wishlist = kind{
//         name:       "wishlist",
//         collection: entities.CollectionWishlist,
//         members:    func(b *entities.Book) *[]string { return &b.Wishlist },
//     }
//
//  3. Add the manager methods, a store interface in internal/http/stores.go
//     and the routes in router.go
//
//  4. Add the compile-time check to checks.go
//
//     var _ http.WishlistStore = (*relations.Manager)(nil)
//
// # Testing with Interfaces
//
// Controllers depend on the narrow interfaces above, so tests can use either
// a stub or the real repositories over database.NewMemoryStore:
//
//	db := database.New(database.NewMemoryStore(entities.AllCollections...))
//	rel := relations.NewManager(db)
//	router := http.NewRouter(http.RouterConfig{Books: books.NewRepository(db, rel), ...})
package interfaces
