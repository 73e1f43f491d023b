package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/railway-booking/internal/model"
	"github.com/iliyamo/railway-booking/internal/port"
	"github.com/iliyamo/railway-booking/internal/repository"
	"github.com/iliyamo/railway-booking/internal/utils"
)

type AuthService struct {
	users      port.UserStore
	jwtSecret  string
	accessTTL  int
	bcryptCost int
}

func NewAuthService(users port.UserStore, jwtSecret string, accessTTLMin, bcryptCost int) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, accessTTL: accessTTLMin, bcryptCost: bcryptCost}
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	UserID      uint64
	AccessToken string
}

// Signup creates a LoginUser account.  A taken username or email returns
// ErrDuplicateUser and writes nothing.
func (s *AuthService) Signup(ctx context.Context, username, password, email string) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || password == "" || email == "" {
		return 0, fmt.Errorf("%w: username, password and email are required", ErrValidation)
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrDuplicateUser
	}

	digest, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.users.CreateUser(ctx, model.User{
		Username:       username,
		Email:          email,
		PasswordDigest: digest,
		Role:           model.RoleLoginUser,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return 0, ErrDuplicateUser
	}
	return id, err
}

// Login checks credentials and issues an access token.  Unknown users and
// wrong passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	u, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	ok, err := utils.CheckPassword(u.PasswordDigest, password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	tok, err := utils.NewAccessToken(s.jwtSecret, u.ID, u.Username, u.Role, s.accessTTL)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{UserID: u.ID, AccessToken: tok.Token}, nil
}
