// Package jwt реализует выпуск и проверку JWT токенов доступа.
//
// Maker описывает интерфейс для создания и проверки токенов с email
// учётной записи в качестве subject. MakerImpl — конкретная реализация
// с симметричным секретным ключом и сроком жизни токена.
package jwt

import (
	"errors"
	"time"
)

// Ошибки проверки токена. ParseToken всегда возвращает одну из них,
// обёрнутую с именем операции.
var (
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token has expired")
	// ErrInvalidSignature — подпись не совпадает с ключом проверки.
	ErrInvalidSignature = errors.New("token signature is invalid")
	// ErrTokenMalformed — строка не разбирается как токен.
	ErrTokenMalformed = errors.New("token is malformed")
)

// Maker описывает интерфейс для выпуска и проверки токенов доступа.
type Maker interface {
	// GenerateToken выпускает подписанный токен с email в качестве subject.
	GenerateToken(email string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает subject.
	ParseToken(tokenStr string) (string, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
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
