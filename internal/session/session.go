// Package session реализует хранилище сессий консоли.
//
// Сессия связывает непрозрачный токен бэкенда с сырым JSON пользователя,
// полученным при входе. Хранилище инжектируется во все потребители через
// интерфейс Store: в бою используется redis-реализация, в тестах — память.
// Единственные точки мутации сессии — вход, выход и глобальная реакция
// адаптера бэкенда на 401/403.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// CookieName имя cookie с подписанным идентификатором сессии.
const CookieName = "console_session"

// Роли пользователей консоли в формате бэкенда.
const (
	RoleCompany = "COMPANY"
	RoleClient  = "CLIENT"
)

// User описывает пользователя консоли, каким его вернул бэкенд при входе.
type User struct {
	ID          int64  `json:"id"`
	Role        string `json:"role"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
}

// Session хранит токен бэкенда и сырой JSON пользователя.
// JSON пользователя не разбирается при записи: испорченное значение
// обнаруживается при чтении и трактуется как недействительная сессия.
type Session struct {
	ID       string
	Token    string
	UserJSON string
}

// User разбирает сохраненный JSON пользователя. Ошибка означает
// испорченную сессию, вызывающий обязан закрыть доступ.
func (s *Session) User() (*User, error) {
	var u User
	if err := json.Unmarshal([]byte(s.UserJSON), &u); err != nil {
		return nil, fmt.Errorf("session: malformed user: %w", err)
	}
	return &u, nil
}

// Store описывает операции чтения, записи и очистки сессии.
type Store interface {
	// Get возвращает сессию по идентификатору, (nil, nil) если сессии нет.
	Get(ctx context.Context, id string) (*Session, error)
	// Set сохраняет сессию с временем жизни.
	Set(ctx context.Context, s *Session, ttl time.Duration) error
	// Clear удаляет сессию целиком, включая legacy-поле role.
	Clear(ctx context.Context, id string) error
}

type ctxKey struct{}

// IntoContext кладет сессию в контекст запроса.
func IntoContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext достает сессию текущего запроса, если она была проставлена
// middleware ролевого гейта.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}

// CompanyScope возвращает идентификатор компании для скоупинга списков:
// для роли COMPANY это id пользователя сессии, иначе 0 (без скоупа,
// бэкенд сам ограничивает выборку по токену).
func CompanyScope(ctx context.Context) int64 {
	sess, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	user, err := sess.User()
	if err != nil || user.Role != RoleCompany {
		return 0
	}
	return user.ID
}
