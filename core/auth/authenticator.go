package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

// ErrAuthenticationFailed deliberately covers unknown username, wrong password
// and locked-out account alike so callers cannot tell which case applied.
var ErrAuthenticationFailed = errors.New("authentication failed")

// HashPassword returns a salted bcrypt digest of pwd. Hashing is
// non-deterministic: the same password yields a different digest on each call.
func HashPassword(pwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether pwd matches digest. A malformed digest fails
// verification; it never panics.
func VerifyPassword(pwd, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(pwd)) == nil
}

type attemptState struct {
	count       int
	lockedUntil time.Time
}

// Authenticator verifies credentials and tracks failed attempts per username.
// After maxAttempts consecutive failures the username is locked for
// lockoutDuration, during which all attempts are denied without checking the
// password. The tracker lives in process memory only: a restart clears it.
type Authenticator struct {
	usrSvc      user.Service
	logger      core.Logger
	maxAttempts int
	lockout     time.Duration

	mu       sync.Mutex
	attempts map[string]*attemptState

	nowFunc func() time.Time // mockable
}

func NewAuthenticator(conf *core.Config, usrSvc user.Service, logger core.Logger) *Authenticator {
	return &Authenticator{
		usrSvc:      usrSvc,
		logger:      logger,
		maxAttempts: conf.MaxLoginAttempts,
		lockout:     conf.LockoutDuration,
		attempts:    make(map[string]*attemptState),
		nowFunc:     time.Now,
	}
}

// Authenticate looks up an active user by username or email and verifies the
// password. On success the failed-attempt counter is reset, last-login is
// stamped and the returned User carries no password digest.
func (a *Authenticator) Authenticate(ctx context.Context, uname, pwd string) (user.User, error) {
	uname = core.CleanString(uname, true /* lower */)

	if a.isLocked(uname) {
		a.logger.Warn("login attempt on locked account: " + uname)
		return user.User{}, ErrAuthenticationFailed
	}

	usr, err := a.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			a.recordFailure(uname)
			return user.User{}, ErrAuthenticationFailed
		}
		return user.User{}, errors.Wrap(err, "finding user by username or email")
	}
	if !usr.IsActive {
		a.recordFailure(uname)
		return user.User{}, ErrAuthenticationFailed
	}
	if err = usr.CheckPassword(pwd); err != nil {
		a.recordFailure(uname)
		return user.User{}, ErrAuthenticationFailed
	}

	a.reset(uname)

	usr, err = a.usrSvc.SetLastLogin(ctx, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting lastLogin")
	}
	usr.PasswordHash = nil
	return usr, nil
}

func (a *Authenticator) isLocked(uname string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, ok := a.attempts[uname]
	if !ok || state.count < a.maxAttempts {
		return false
	}
	if a.nowFunc().Before(state.lockedUntil) {
		return true
	}
	// lockout window elapsed
	delete(a.attempts, uname)
	return false
}

func (a *Authenticator) recordFailure(uname string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, ok := a.attempts[uname]
	if !ok {
		state = &attemptState{}
		a.attempts[uname] = state
	}
	state.count++
	if state.count >= a.maxAttempts {
		state.lockedUntil = a.nowFunc().Add(a.lockout)
	}
}

func (a *Authenticator) reset(uname string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.attempts, uname)
}
