package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rsgr172026/KanbanMate/internal/model"
	"github.com/Rsgr172026/KanbanMate/internal/util"
)

type AuthService struct {
	users  UserStore
	logger *zap.Logger
}

func NewAuthService(users UserStore, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// Register creates a new user with a bcrypt-hashed password.
//
// The existence check and the insert are two statements, so two racing
// registrations for the same email can both pass the check; the unique
// index on email then fails the second insert as a storage fault.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleMember,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", u.ID),
		zap.String("email", u.Email),
	)
	return u, nil
}

// Login checks user credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// LoginFederated resolves a provider-asserted identity to a local user,
// creating one on first login. The stored placeholder is not a valid
// bcrypt hash, so such accounts can never authenticate via Login.
func (s *AuthService) LoginFederated(ctx context.Context, name, email string) (*model.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	placeholder, err := util.UnusablePassword()
	if err != nil {
		return nil, err
	}

	u = &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: placeholder,
		Role:         model.RoleMember,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User created via federated login",
		zap.String("user_id", u.ID),
		zap.String("email", u.Email),
	)
	return u, nil
}
