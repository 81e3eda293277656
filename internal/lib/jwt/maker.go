// Package jwt реализует выпуск и проверку JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки JWT токенов с username и role.
// MakerImpl — конкретная реализация с симметричным секретным ключом и сроком жизни.
package jwt

import (
	"errors"
	"time"

	"github.com/magabrotheeeer/card-management/internal/models"
)

// Ошибки проверки токена. ParseToken всегда возвращает одну из них,
// чтобы вызывающая сторона различала причины отказа.
var (
	// ErrTokenMalformed — строка не разбирается как подписанный токен.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrBadSignature — подпись не совпадает с ключом сервера.
	ErrBadSignature = errors.New("bad token signature")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
	// ErrMissingRole — в полезной нагрузке токена нет валидной роли.
	ErrMissingRole = errors.New("role claim missing")
)

// Maker описывает интерфейс для выпуска и проверки JWT токенов.
type Maker interface {
	// GenerateToken создаёт токен с указанными username и role.
	GenerateToken(username string, role models.Role) (string, error)
	// ParseToken проверяет токен и возвращает *CustomClaims с username и role.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL). Ключ задаётся один раз при конструировании
// и далее не меняется; смена ключа делает недействительными все ранее
// выпущенные токены.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
