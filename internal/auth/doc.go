// Package auth provides password hashing and login protection for the
// bookshelf API.
//
// # Passwords
//
// Passwords are stored as bcrypt hashes. Records written before hashing was
// introduced may still hold plaintext; VerifyStored accepts those and reports
// that the record needs a rehash:
//
//	needsRehash, err := auth.VerifyStored(password, user.Password)
//	if err == nil && needsRehash {
//	    // store auth.HashPassword(password, cost)
//	}
//
// When no user matches an email, call CompareDummy so the response time does
// not reveal whether the account exists.
//
// # Configuration
//
//	AUTH_BCRYPT_COST=10          # bcrypt cost factor
//	AUTH_LOGIN_MAX_ATTEMPTS=5    # failures before lockout
//	AUTH_LOGIN_WINDOW=15m        # window for counting failures
//	AUTH_LOGIN_LOCKOUT=30m       # lockout duration
//
// # Usage
//
// Wire the middleware and limiter in the router:
//
//	router.Use(auth.SecurityHeaders())
//	limiter := auth.NewLoginLimiter(auth.LoginLimitConfig{MaxAttempts: 5})
//	defer limiter.Stop()
package auth
