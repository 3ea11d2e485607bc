package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"foodshare/internal/model"
	"foodshare/internal/repository"
)

const minPasswordLen = 6

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Generate(userID string) (string, error)
	UserID(token string) (string, error)
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the payload for exchanging credentials for a token.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService is the identity collaborator: accounts, credentials and bearer tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	CurrentUser(ctx context.Context, id string) (*model.User, error)
	// IdentityFromToken resolves a bearer token to the caller's id and current role.
	IdentityFromToken(ctx context.Context, token string) (model.Identity, error)
}

// AuthOptions tunes the auth service. Zero values select defaults.
type AuthOptions struct {
	// AdminEmails receive the admin role on registration. Compared lower-cased.
	AdminEmails  []string
	BcryptCost   int
	StoreTimeout time.Duration
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	opts   AuthOptions
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, opts AuthOptions) AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	return &authService{users: users, tokens: tokens, opts: opts}
}

func errInvalidCredentials() error {
	return newError(ErrUnauthorized, "Invalid credentials")
}

func (s *authService) issue(u *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var p problems
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" {
		p.add("name is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		p.add("email is invalid")
	}
	if len(in.Password) < minPasswordLen {
		p.add(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if err := p.err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := model.RoleUser
	if slices.Contains(s.opts.AdminEmails, email) {
		role = model.RoleAdmin
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	u, err := s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, newError(ErrConflict, "User already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(u)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, newError(ErrValidation, "email and password are required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errInvalidCredentials()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials()
	}

	return s.issue(u)
}

func (s *authService) CurrentUser(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	u, err := s.users.FindByID(ctx, model.CanonicalID(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *authService) IdentityFromToken(ctx context.Context, token string) (model.Identity, error) {
	userID, err := s.tokens.UserID(token)
	if err != nil {
		return model.Identity{}, newError(ErrUnauthorized, "Token is not valid")
	}

	u, err := s.CurrentUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Identity{}, newError(ErrUnauthorized, "Token is not valid")
		}
		return model.Identity{}, err
	}

	return model.Identity{ID: u.ID, Role: u.Role}, nil
}
