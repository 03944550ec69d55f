// Package auth содержит регистрацию пользователей и проверку их учётных данных.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/password"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/storage"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	// Повтор username или email даёт storage.ErrUserExists.
	RegisterUser(ctx context.Context, user models.User) (int, error)
	// GetUserByUsername возвращает пользователя или storage.ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

// Register хеширует пароль и сохраняет пользователя. Уникальность проверяет хранилище.
func (s *Service) Register(ctx context.Context, req models.DummyUser) (*models.User, error) {
	const op = "auth.Register"
	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
	}
	id, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id
	return &user, nil
}

// Authenticate ищет пользователя и сверяет пароль. Неизвестный пользователь
// и неверный пароль дают ok == false без ошибки.
func (s *Service) Authenticate(ctx context.Context, username, rawPassword string) (*models.User, bool, error) {
	const op = "auth.Authenticate"
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	err = password.Compare(user.PasswordHash, rawPassword)
	if errors.Is(err, password.ErrMismatch) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return user, true, nil
}
