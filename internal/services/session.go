package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vmplane/vmplane/internal/db/repos"
)

// Session is the explicit per-request authentication state. Handlers look a
// session up by token; there is no ambient request-global state.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
}

// Auth verifies operator credentials and tracks issued sessions in memory.
// Single node by design, so the token map lives in the process.
type Auth struct {
	userRepo *repos.UserRepository

	mu       sync.RWMutex
	sessions map[string]Session
}

// NewAuthService creates a new auth service instance
func NewAuthService(userRepo *repos.UserRepository) *Auth {
	return &Auth{
		userRepo: userRepo,
		sessions: make(map[string]Session),
	}
}

// Login verifies the credentials and issues a bearer token
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	user, err := a.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	session := Session{
		Token:     uuid.NewString(),
		Username:  user.Username,
		CreatedAt: time.Now(),
	}

	a.mu.Lock()
	a.sessions[session.Token] = session
	a.mu.Unlock()

	return session.Token, nil
}

// Lookup returns the session for a token, if one was issued
func (a *Auth) Lookup(token string) (Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	session, ok := a.sessions[token]
	return session, ok
}

// Logout revokes the session for a token. Revoking an unknown token is a
// no-op.
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, token)
}
