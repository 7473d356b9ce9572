package auth

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mlopez/lectorpdf/internal/entities"
	"github.com/mlopez/lectorpdf/internal/fsjson"
)

const usersFile = "users.json"

var (
	ErrUserExists       = errors.New("user already exists")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
)

// Service is the local credential store. Registered users live in
// users.json under the data root; the list is loaded once at
// construction and persisted whole on every registration, so a failed
// write never leaves a half-applied record.
type Service struct {
	usersPath string

	mu    sync.Mutex
	users []entities.UserRecord
}

// NewService loads the user list from the data root. A missing file
// means no users yet; a present but unparseable file fails with
// fsjson.ErrCorrupt rather than silently starting empty.
func NewService(dataRoot string) (*Service, error) {
	s := &Service{usersPath: filepath.Join(dataRoot, usersFile)}

	users := []entities.UserRecord{}
	if _, err := fsjson.Load(s.usersPath, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	s.users = users
	return s, nil
}

// UserExists reports whether an account is registered under the email,
// compared case-insensitively.
func (s *Service) UserExists(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(email) != nil
}

// HasUsers reports whether any account exists at all.
func (s *Service) HasUsers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users) > 0
}

// CreateUser registers a new account. The password is salted and hashed
// before anything is stored; the whole user list is persisted atomically
// and the in-memory state only changes after the write succeeds.
func (s *Service) CreateUser(email, password string, age *int) error {
	if email == "" {
		return ErrEmailRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(email) != nil {
		return ErrUserExists
	}

	salt, err := GenerateSalt()
	if err != nil {
		return err
	}

	user := entities.UserRecord{
		Email:        email,
		Salt:         salt,
		PasswordHash: HashPassword(password, salt),
		Age:          age,
	}

	updated := append(append([]entities.UserRecord{}, s.users...), user)
	if err := fsjson.Store(s.usersPath, updated); err != nil {
		return err
	}
	s.users = updated
	return nil
}

// VerifyCredentials checks a login attempt. The result is a bare
// boolean: an unknown email and a wrong password are indistinguishable,
// and the KDF runs on both paths so they cost the same.
func (s *Service) VerifyCredentials(email, password string) bool {
	s.mu.Lock()
	user := s.find(email)
	s.mu.Unlock()

	if user == nil {
		CheckPassword(password, dummySalt, dummyHash)
		return false
	}
	return CheckPassword(password, user.Salt, user.PasswordHash)
}

// find returns the record for an email, or nil. Callers hold s.mu.
func (s *Service) find(email string) *entities.UserRecord {
	for i := range s.users {
		if strings.EqualFold(s.users[i].Email, email) {
			return &s.users[i]
		}
	}
	return nil
}

// Fixed inputs for the equal-cost derivation on unknown emails.
var (
	dummySalt = make([]byte, SaltLength)
	dummyHash = make([]byte, KeyLength)
)
