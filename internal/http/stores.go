package http

import (
	"time"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// This file consolidates all store interface definitions used by HTTP controllers.
// Each controller depends on the narrowest interface it needs.

// BookStore provides the book catalog operations.
type BookStore interface {
	CreateBook(input entities.BookInput) (*entities.Book, error)
	GetBookByID(id string) (*entities.Book, error)
	GetAllBooks() ([]entities.Book, error)
	GetBookContent(id string) (string, error)
	UpdateBook(id string, patch entities.BookPatch) (*entities.Book, error)
	DeleteBook(id string) error
	SearchBooks(filter catalog.Filter) ([]entities.Book, error)
}

// FavouritesStore manages favourite relations.
type FavouritesStore interface {
	AddFavourite(userID, bookID string) error
	RemoveFavourite(userID, bookID string) error
}

// ReadsStore manages read relations.
type ReadsStore interface {
	MarkRead(userID, bookID string) error
	UnmarkRead(userID, bookID string) error
}

// UserStore provides signup, login and the user listing.
type UserStore interface {
	CreateUser(input entities.SignupInput) (*entities.PublicUser, error)
	Authenticate(creds entities.Credentials) (*entities.PublicUser, error)
	GetAllUsers() ([]entities.PublicUser, error)
}

// LoginLimiter throttles failed logins per client and email.
type LoginLimiter interface {
	Allow(ip, email string) (bool, time.Duration)
	RecordFailure(ip, email string) (bool, time.Duration)
	RecordSuccess(ip, email string)
}

// HealthChecker verifies the named collections can be read.
type HealthChecker interface {
	Check(collections ...string) error
}
