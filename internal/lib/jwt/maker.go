// Package jwt реализует выпуск и парсинг подписанных значений cookie сессии.
//
// Консоль не хранит идентификатор сессии в открытом виде: в cookie кладется
// короткоживущий JWT с claim session_id, подписанный секретным ключом консоли.
// Токен бэкенда при этом остается непрозрачной строкой и здесь не трогается.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims описывает данные, хранящиеся в cookie сессии.
type SessionClaims struct {
	SessionID            string `json:"session_id"` // Идентификатор сессии в хранилище
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для генерации и парсинга значения cookie сессии.
type Maker interface {
	// GenerateToken выпускает подписанное значение cookie для идентификатора сессии
	GenerateToken(sessionID string) (string, error)
	// ParseToken возвращает *SessionClaims, если подпись и срок действия корректны
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни cookie (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи.
	tokenTTL  time.Duration // Время жизни cookie.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// GenerateToken создает JWT с заданным session_id, подписывая его секретным ключом.
//
// Время жизни определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(sessionID string) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит значение cookie, проверяет его подпись и срок действия,
// возвращает SessionClaims с идентификатором сессии, если значение корректно.
func (j *MakerImpl) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
