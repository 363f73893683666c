// Package accounts implements the account service: signup, credential
// verification and account lookup on top of the key-value store.
//
// Persisted keys:
//   - account:{user_id}  hash with user_id, email, password_hash, created_at
//   - email:{email}      string with the owning user_id (uniqueness index)
package accounts

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mpetrenko/shortly/internal/apperr"
	"github.com/mpetrenko/shortly/internal/kvstore"
	"github.com/mpetrenko/shortly/internal/user"
)

const (
	accountKeyPrefix = "account:"
	emailIndexPrefix = "email:"

	minPasswordLength = 6
)

const (
	fieldUserID       = "user_id"
	fieldEmail        = "email"
	fieldPasswordHash = "password_hash"
	fieldCreatedAt    = "created_at"
)

// Service provides account management on top of an injected store adapter.
type Service struct {
	db  kvstore.Store
	now func() time.Time
}

// New creates an account service backed by the given store.
func New(db kvstore.Store) *Service {
	return &Service{
		db:  db,
		now: time.Now,
	}
}

func accountKey(userID string) string {
	return accountKeyPrefix + userID
}

func emailKey(email string) string {
	return emailIndexPrefix + email
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new account. The email is case-normalized and must
// not be registered already; the password must be at least six characters.
// Only the bcrypt hash of the password is persisted.
func (s *Service) CreateUser(ctx context.Context, email, password string) (*user.User, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	taken, err := s.db.Exists(ctx, emailKey(email))
	if err != nil {
		return nil, fmt.Errorf("checking email index: %w", err)
	}
	if taken {
		return nil, apperr.Conflict("email already registered")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	usr := &user.User{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: s.now().Unix(),
	}

	err = s.db.HSet(ctx, accountKey(usr.ID), map[string]string{
		fieldUserID:       usr.ID,
		fieldEmail:        usr.Email,
		fieldPasswordHash: string(passwordHash),
		fieldCreatedAt:    strconv.FormatInt(usr.CreatedAt, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("saving account record: %w", err)
	}

	// Second store call of the create pair; a crash in between leaves the
	// account unreachable by email, see DESIGN.md on the consistency window.
	if err := s.db.Set(ctx, emailKey(usr.Email), usr.ID); err != nil {
		return nil, fmt.Errorf("saving email index: %w", err)
	}

	return usr, nil
}

// VerifyUser checks the credentials against the stored bcrypt hash and
// returns the account on success.
func (s *Service) VerifyUser(ctx context.Context, email, password string) (*user.User, error) {
	email = normalizeEmail(email)

	userID, found, err := s.db.Get(ctx, emailKey(email))
	if err != nil {
		return nil, fmt.Errorf("reading email index: %w", err)
	}
	if !found {
		return nil, apperr.Auth("invalid email or password")
	}

	account, err := s.db.HGetAll(ctx, accountKey(userID))
	if err != nil {
		return nil, fmt.Errorf("reading account record: %w", err)
	}
	if len(account) == 0 || account[fieldPasswordHash] == "" {
		return nil, apperr.Auth("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account[fieldPasswordHash]), []byte(password)); err != nil {
		return nil, apperr.Auth("invalid email or password")
	}

	return accountToUser(userID, account), nil
}

// GetUser returns the account with the given id.
func (s *Service) GetUser(ctx context.Context, userID string) (*user.User, error) {
	account, err := s.db.HGetAll(ctx, accountKey(userID))
	if err != nil {
		return nil, fmt.Errorf("reading account record: %w", err)
	}
	if len(account) == 0 {
		return nil, apperr.NotFound("user not found")
	}

	return accountToUser(userID, account), nil
}

// GetUserByEmail returns the account registered with the given email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	email = normalizeEmail(email)

	userID, found, err := s.db.Get(ctx, emailKey(email))
	if err != nil {
		return nil, fmt.Errorf("reading email index: %w", err)
	}
	if !found {
		return nil, apperr.NotFound("user not found")
	}

	return s.GetUser(ctx, userID)
}

// EmailExists reports whether an email is already registered.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.db.Exists(ctx, emailKey(normalizeEmail(email)))
}

func accountToUser(userID string, account map[string]string) *user.User {
	createdAt, _ := strconv.ParseInt(account[fieldCreatedAt], 10, 64)

	return &user.User{
		ID:        userID,
		Email:     account[fieldEmail],
		CreatedAt: createdAt,
	}
}
