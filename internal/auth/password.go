package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the bcrypt input limit in bytes.
const MaxPasswordLength = 72

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrEmptyPassword    = errors.New("password must not be empty")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length of 72 bytes")
	errInvalidCostRange = errors.New("bcrypt cost out of range")
)

// dummyHash is compared against when no user matches, so a failed lookup takes
// as long as a failed password check.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bookshelf-dummy-password"), bcrypt.MinCost)

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	// bcrypt has a 72-byte limit
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", errInvalidCostRange
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with its hash.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}

// IsHash reports whether stored looks like a bcrypt hash rather than a
// plaintext password left over from older data files.
func IsHash(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// VerifyStored checks password against a stored credential that is either a
// bcrypt hash or, for legacy records, the plaintext itself. needsRehash is true
// when the stored value should be replaced with a fresh hash.
func VerifyStored(password, stored string) (needsRehash bool, err error) {
	if IsHash(stored) {
		if err := CheckPassword(password, stored); err != nil {
			return false, err
		}
		return false, nil
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(password), []byte(stored)) != 1 {
		return false, ErrInvalidPassword
	}
	return true, nil
}

// CompareDummy spends the time of a bcrypt comparison and always fails.
func CompareDummy(password string) error {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return ErrInvalidPassword
}
