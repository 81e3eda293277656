// Package auth содержит логику бизнес-уровня для регистрации и аутентификации пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/card-management/internal/lib/jwt"
	"github.com/magabrotheeeer/card-management/internal/lib/password"
	"github.com/magabrotheeeer/card-management/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ExistsByUsername сообщает, занято ли имя пользователя.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail сообщает, занят ли email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RegisterInput — данные нового пользователя.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// Service отвечает за регистрацию и авторизацию пользователей.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
//
// Возвращает models.ErrUsernameTaken или models.ErrEmailTaken, если
// имя или email уже заняты.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	const op = "auth.Register"

	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return "", fmt.Errorf("%s: %w", op, models.ErrUsernameTaken)
	}

	taken, err = s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return "", fmt.Errorf("%s: %w", op, models.ErrEmailTaken)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         models.RoleUser, // дефолтная роль при регистрации
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и выпускает JWT.
//
// Несуществующий пользователь и неверный пароль неразличимы для
// вызывающей стороны: оба случая дают models.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token string, role models.Role, err error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, user.Role, nil
}
