package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrportal/hradmin/internal/domain/user"
	"github.com/hrportal/hradmin/internal/security"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore is the credential store. Create must map unique violations to
// ErrDuplicateUsername / ErrDuplicateEmail so a lost race reports the same
// error as the pre-checks.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, username, email, passwordHash string) (user.User, error)
}

type TokenIssuer interface {
	Issue(id Identity) (string, time.Time, error)
}

type Service struct {
	users  UserStore
	hasher security.Hasher
	tokens TokenIssuer
	log    *slog.Logger
}

func NewService(users UserStore, hasher security.Hasher, tokens TokenIssuer, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Token is what Login hands back to the caller.
type Token struct {
	AccessToken string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Username    string    `json:"username"`
}

// Register checks username before email, then stores the hashed password.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return ErrDuplicateUsername
	}

	taken, err = s.users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return ErrDuplicateEmail
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, username, email, digest)
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return nil
}

// Login never tells the caller whether the username or the password was wrong.
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher.Verify(u.PasswordHash, password); err != nil {
		s.log.WarnContext(ctx, "login rejected", "username", username)
		return Token{}, ErrInvalidCredentials
	}

	signed, exp, err := s.tokens.Issue(Identity{UserID: u.ID, Username: u.Username})
	if err != nil {
		return Token{}, fmt.Errorf("issue token: %w", err)
	}

	return Token{AccessToken: signed, ExpiresAt: exp, Username: u.Username}, nil
}
