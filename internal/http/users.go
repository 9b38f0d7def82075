package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// UsersController handles signup, login and the user listing.
type UsersController struct {
	store   UserStore
	limiter LoginLimiter // optional
}

// NewUsersController creates a new UsersController. A nil limiter disables
// the login lockout.
func NewUsersController(store UserStore, limiter LoginLimiter) *UsersController {
	return &UsersController{store: store, limiter: limiter}
}

// Signup registers a user.
// POST /api/auth/signup
func (uc *UsersController) Signup(c *gin.Context) {
	var input entities.SignupInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := uc.store.CreateUser(input)
	if err != nil {
		respondAppError(c, err, "signup")
		return
	}

	respondCreated(c, gin.H{
		"id":      user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"message": "User created successfully",
	})
}

// Login checks credentials and returns the user.
// POST /api/auth/login
func (uc *UsersController) Login(c *gin.Context) {
	var creds entities.Credentials
	if !bindJSON(c, &creds) {
		return
	}

	ip := c.ClientIP()
	if uc.limiter != nil {
		if allowed, retryAfter := uc.limiter.Allow(ip, creds.Email); !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respondAppError(c, apperrors.ErrRateLimited, "login")
			return
		}
	}

	user, err := uc.store.Authenticate(creds)
	if err != nil {
		if uc.limiter != nil && errors.Is(err, apperrors.ErrInvalidCredentials) {
			if locked, _ := uc.limiter.RecordFailure(ip, creds.Email); locked {
				requestLogger(c).Warn().Str("client_ip", ip).Msg("login locked out")
			}
		}
		respondAppError(c, err, "login")
		return
	}

	if uc.limiter != nil {
		uc.limiter.RecordSuccess(ip, creds.Email)
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers returns every user without credentials.
// GET /api/users
func (uc *UsersController) ListUsers(c *gin.Context) {
	users, err := uc.store.GetAllUsers()
	if err != nil {
		respondAppError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}
