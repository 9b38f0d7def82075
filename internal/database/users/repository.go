// Package users provides database operations for user management.
//
// Emails are compared after trimming and Unicode case folding, so signup
// treats "Ann@Example.com" and "ann@example.com" as the same account. Older
// data files may still hold such pairs; login keeps both usable. Passwords are
// stored as bcrypt hashes and never leave the repository.
//
// # Usage
//
//	repo := users.NewRepository(db, bcrypt.DefaultCost, log)
//	user, err := repo.Authenticate(entities.Credentials{Email: email, Password: pw})
package users

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// Repository handles all user database operations.
type Repository struct {
	db         *database.Database
	validator  *validation.Validator
	bcryptCost int
	log        zerolog.Logger
}

// NewRepository creates a new users repository.
func NewRepository(db *database.Database, bcryptCost int, log zerolog.Logger) *Repository {
	return &Repository{
		db:         db,
		validator:  validation.New(),
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "users").Logger(),
	}
}

// CreateUser registers a new user. It fails with DuplicateEmail if the email is
// already taken.
func (r *Repository) CreateUser(input entities.SignupInput) (*entities.PublicUser, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := r.validator.Validate(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, r.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) || errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.ValidationWithDetails(err.Error(), map[string]string{"password": err.Error()})
		}
		return nil, apperrors.Internal("hash password").WithCause(err)
	}

	user := entities.User{
		ID:       uuid.NewString(),
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
	}
	key := emailKey(input.Email)

	err = r.db.Update(func(tx *database.Tx) error {
		users, err := database.LoadAll[entities.User](tx, entities.CollectionUsers)
		if err != nil {
			return err
		}
		for _, u := range users {
			if emailKey(u.Email) == key {
				return apperrors.ErrDuplicateEmail
			}
		}
		return database.SaveAll(tx, entities.CollectionUsers, append(users, user))
	}, entities.CollectionUsers)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	return &public, nil
}

// Authenticate returns the user matching the credentials. Unknown email and
// wrong password both fail with InvalidCredentials. A legacy plaintext
// password is replaced with a hash on its first successful use.
//
// Legacy data may hold several accounts whose emails differ only in case. An
// exact email match is tried first, then every other case-folded match.
func (r *Repository) Authenticate(creds entities.Credentials) (*entities.PublicUser, error) {
	email := strings.TrimSpace(creds.Email)
	key := emailKey(email)
	if key == "" || creds.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var candidates []entities.User
	err := r.db.View(func(tx *database.Tx) error {
		users, err := database.LoadAll[entities.User](tx, entities.CollectionUsers)
		if err != nil {
			return err
		}
		var folded []entities.User
		for _, u := range users {
			switch {
			case strings.TrimSpace(u.Email) == email:
				candidates = append(candidates, u)
			case emailKey(u.Email) == key:
				folded = append(folded, u)
			}
		}
		candidates = append(candidates, folded...)
		return nil
	}, entities.CollectionUsers)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		_ = auth.CompareDummy(creds.Password)
		return nil, apperrors.ErrInvalidCredentials
	}

	for _, user := range candidates {
		needsRehash, err := auth.VerifyStored(creds.Password, user.Password)
		if err != nil {
			continue
		}
		if needsRehash {
			if err := r.upgradePassword(user.ID, creds.Password); err != nil {
				r.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to upgrade legacy password")
			}
		}
		public := user.Public()
		return &public, nil
	}
	return nil, apperrors.ErrInvalidCredentials
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id string) (*entities.PublicUser, error) {
	var user *entities.PublicUser
	err := r.db.View(func(tx *database.Tx) error {
		users, err := database.LoadAll[entities.User](tx, entities.CollectionUsers)
		if err != nil {
			return err
		}
		for _, u := range users {
			if u.ID == id {
				public := u.Public()
				user = &public
				return nil
			}
		}
		return apperrors.NotFound("user")
	}, entities.CollectionUsers)
	return user, err
}

// GetAllUsers returns every user in registration order.
func (r *Repository) GetAllUsers() ([]entities.PublicUser, error) {
	var out []entities.PublicUser
	err := r.db.View(func(tx *database.Tx) error {
		users, err := database.LoadAll[entities.User](tx, entities.CollectionUsers)
		if err != nil {
			return err
		}
		out = make([]entities.PublicUser, 0, len(users))
		for _, u := range users {
			out = append(out, u.Public())
		}
		return nil
	}, entities.CollectionUsers)
	return out, err
}

func (r *Repository) upgradePassword(userID, password string) error {
	hash, err := auth.HashPassword(password, r.bcryptCost)
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *database.Tx) error {
		users, err := database.LoadAll[entities.User](tx, entities.CollectionUsers)
		if err != nil {
			return err
		}
		for i := range users {
			if users[i].ID != userID {
				continue
			}
			// Another login may have upgraded it already.
			if auth.IsHash(users[i].Password) {
				return nil
			}
			users[i].Password = hash
			return database.SaveAll(tx, entities.CollectionUsers, users)
		}
		return nil
	}, entities.CollectionUsers)
}

func emailKey(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
