// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и роль.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import (
	"fmt"
	"time"
)

// Role определяет закрытый набор ролей пользователя.
type Role string

const (
	// RoleUser — обычный пользователь, владелец карт.
	RoleUser Role = "user"
	// RoleAdmin — администратор, управляет картами всех пользователей.
	RoleAdmin Role = "admin"
)

// ParseRole преобразует строку в Role, возвращая ошибку для неизвестных значений.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// String возвращает строковое представление роли.
func (r Role) String() string { return string(r) }

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Хэш пароля пользователя
	FirstName    string    // Имя
	LastName     string    // Фамилия
	Role         Role      // Роль пользователя, admin или user
	CreatedAt    time.Time // Дата регистрации
}
