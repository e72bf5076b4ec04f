// Package services contains server-side business logic. UserService
// implements registration, login and session lookup on top of the user store,
// the password hasher and the token service.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/crtrstudio/internal/common"
	"github.com/dmitrijs2005/crtrstudio/internal/cryptox"
	"github.com/dmitrijs2005/crtrstudio/internal/logging"
	"github.com/dmitrijs2005/crtrstudio/internal/server/models"
	"github.com/dmitrijs2005/crtrstudio/internal/server/repositories/users"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

// Client-facing messages.
const (
	MsgCredentialsRequired = "Email and password are required"
	MsgInvalidEmail        = "Invalid email format"
	MsgEmailTaken          = "User with this email already exists"
	MsgInvalidCredentials  = "Invalid email or password"
	MsgUserNotFound        = "User not found"
)

// emailPattern rejects every rune unicode.IsSpace reports: ASCII space
// characters, NEL and the Unicode separator categories.
var emailPattern = regexp.MustCompile(`^[^\s\v\x{85}\p{Z}@]+@[^\s\v\x{85}\p{Z}@]+\.[^\s\v\x{85}\p{Z}@]+$`)

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type RegisterInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PublicUser is the user as returned to clients.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResult struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

func NewPublicUser(u *models.User) PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

// UserService provides authentication operations:
//   - Register: create a user and open a session
//   - Login: verify credentials and open a session
//   - Me: resolve the user behind a verified session
type UserService struct {
	users  users.Repository
	hasher *cryptox.PasswordHasher
	tokens TokenIssuer
	logger logging.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(repo users.Repository, hasher *cryptox.PasswordHasher, tokens TokenIssuer, logger logging.Logger) *UserService {
	return &UserService{
		users:  repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("module", "services.user"),
		now:    time.Now,
	}
}

// Register validates the input, stores a new user and returns it together
// with a session token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := requireCredentials(in.Email, in.Password); err != nil {
		return nil, err
	}

	if err := validation.Validate(in.Email, validation.Match(emailPattern).Error(MsgInvalidEmail)); err != nil {
		return nil, common.InvalidInput(MsgInvalidEmail)
	}

	if v := cryptox.ValidatePasswordStrength(in.Password); !v.Valid {
		return nil, common.InvalidInput(strings.Join(v.Errors, ", "))
	}

	// Fast path only; the store's unique constraint decides races below.
	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.Conflict(MsgEmailTaken)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, common.Internal(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, common.Internal(err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrConstraintViolation) {
			return nil, common.Conflict(MsgEmailTaken)
		}
		return nil, common.Internal(err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)

	return s.openSession(created)
}

// Login checks the credentials and returns the user with a fresh session
// token. Unknown emails and wrong passwords fail identically.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := requireCredentials(in.Email, in.Password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a comparable amount of time so absence is not observable
			s.hasher.Verify(in.Password, s.getDummyHash())
			return nil, common.Unauthorized(MsgInvalidCredentials)
		}
		return nil, common.Internal(err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.logger.Debug(ctx, "password mismatch", "user_id", user.ID)
		return nil, common.Unauthorized(MsgInvalidCredentials)
	}

	return s.openSession(user)
}

// Me returns the user a verified session belongs to.
func (s *UserService) Me(ctx context.Context, userID string) (*PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound(MsgUserNotFound)
		}
		return nil, common.Internal(err)
	}

	pu := NewPublicUser(user)
	return &pu, nil
}

func (s *UserService) openSession(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, common.Internal(err)
	}
	return &AuthResult{User: NewPublicUser(user), Token: token}, nil
}

func (s *UserService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func requireCredentials(email, password string) error {
	if validation.Validate(email, validation.Required) != nil ||
		validation.Validate(password, validation.Required) != nil {
		return common.InvalidInput(MsgCredentialsRequired)
	}
	return nil
}
