package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/relations"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
)

// =============================================================================
// Record Store
// =============================================================================

var _ database.Store = (*database.FileStore)(nil)
var _ database.Store = (*database.MemoryStore)(nil)
var _ database.Store = (*database.InstrumentedStore)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)

// FavouritesStore / ReadsStore implementations
var _ http.FavouritesStore = (*relations.Manager)(nil)
var _ http.ReadsStore = (*relations.Manager)(nil)

// Deleting a book purges its relations inside the same transaction
var _ books.RelationPurger = (*relations.Manager)(nil)

// UserStore implementations
var _ http.UserStore = (*users.Repository)(nil)

// HealthChecker implementations
var _ http.HealthChecker = (*database.Database)(nil)

// =============================================================================
// Authentication
// =============================================================================

var _ http.LoginLimiter = (*auth.LoginLimiter)(nil)

// =============================================================================
// Background Jobs
// =============================================================================

var _ scheduler.Reconciler = (*relations.Manager)(nil)
