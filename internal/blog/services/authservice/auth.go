package authservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/userrepo"
	"github.com/Leopold1975/blog_api/internal/pkg/config"
	"github.com/Leopold1975/blog_api/internal/pkg/jwtauth"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
)

const TokenType = "bearer"

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserExists         = errors.New("user already exists")
)

type AuthService struct {
	userRepo Repository
	cfg      config.Auth
}

type Repository interface {
	CreateUser(context.Context, models.User) (models.User, error)
	GetUserByID(context.Context, int64, pgtools.ReadOptions) (models.User, error)
	GetUserByUsername(context.Context, string) (models.User, error)
}

func New(userRepo Repository, cfg config.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (as *AuthService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()

	u := models.User{ //nolint:exhaustruct
		Email:        strings.TrimSpace(req.Email),
		Username:     strings.ToLower(req.Username),
		PasswordHash: hash,
		FullName:     req.FullName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	u, err = as.userRepo.CreateUser(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, userrepo.ErrEmailTaken):
			return models.User{}, ErrEmailTaken
		case errors.Is(err, userrepo.ErrUsernameTaken):
			return models.User{}, ErrUsernameTaken
		case errors.Is(err, userrepo.ErrAlreadyExists):
			return models.User{}, ErrUserExists
		}

		return models.User{}, fmt.Errorf("create user error: %w", err)
	}

	return u, nil
}

// Login checks the credentials of a live user and issues a token.
func (as *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	u, err := as.userRepo.GetUserByUsername(ctx, strings.ToLower(req.Username))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	if !VerifyPassword(req.Password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return as.IssueToken(u.ID, time.Now().Add(as.cfg.TTL))
}

func (as *AuthService) IssueToken(userID int64, expiresAt time.Time) (string, error) {
	token, err := jwtauth.GetToken(userID, expiresAt, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

// Authenticate resolves a bearer token to a live user.
func (as *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	id, err := jwtauth.ValidateToken(token, as.cfg.Secret)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	u, err := as.userRepo.GetUserByID(ctx, id, pgtools.ReadOptions{})
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}

		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	return u, nil
}
