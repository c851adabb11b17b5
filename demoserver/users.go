package demoserver

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type user struct {
	name     string
	email    string
	age      *int
	password [sha256.Size]byte
}

// Users is an in-memory user and session store. Every successful register
// or login issues a new opaque token; tokens never expire.
type Users struct {
	mu     sync.RWMutex
	users  map[string]*user
	tokens map[string]string
}

func NewUsers() *Users {
	return &Users{
		users:  make(map[string]*user),
		tokens: make(map[string]string),
	}
}

// Register creates a user and returns a session token.
func (u *Users) Register(name, email, password string, age *int) (string, error) {
	key := normalizeEmail(email)

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.users[key]; ok {
		return "", ErrUserExists
	}
	u.users[key] = &user{
		name:     name,
		email:    key,
		age:      age,
		password: sha256.Sum256([]byte(password)),
	}
	return u.issueLocked(key), nil
}

// Login checks the credentials and returns a new session token.
func (u *Users) Login(email, password string) (string, error) {
	key := normalizeEmail(email)
	sum := sha256.Sum256([]byte(password))

	u.mu.Lock()
	defer u.mu.Unlock()

	usr, ok := u.users[key]
	if !ok || subtle.ConstantTimeCompare(usr.password[:], sum[:]) != 1 {
		return "", ErrInvalidCredentials
	}
	return u.issueLocked(key), nil
}

// Lookup returns the email the token was issued to.
func (u *Users) Lookup(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	email, ok := u.tokens[token]
	return email, ok
}

func (u *Users) issueLocked(email string) string {
	token := uuid.NewString()
	u.tokens[token] = email
	return token
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
