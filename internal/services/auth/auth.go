// Package auth реализует вход и регистрацию через бэкенд.
//
// Пароли консоль не хранит и не проверяет, учетные данные уходят в
// бэкенд как есть, обратно приходит непрозрачный токен и профиль
// пользователя. Сессию из них собирает слой обработчиков.
package auth

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bizvenue/billing-console/internal/models"
)

// LoginResult ответ бэкенда на успешный вход.
type LoginResult struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Backend описывает используемые вызовы адаптера бэкенда.
type Backend interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Service реализует операции аутентификации.
type Service struct {
	log *slog.Logger
	api Backend
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, api Backend) *Service {
	return &Service{log: log, api: api}
}

// Login проверяет учетные данные на бэкенде и возвращает токен
// вместе с профилем пользователя.
func (s *Service) Login(ctx context.Context, form models.LoginRequest) (*LoginResult, error) {
	body := map[string]string{
		"username": form.Username,
		"password": form.Password,
	}
	var result LoginResult
	if err := s.api.Post(ctx, "/v1/auth/login", body, &result); err != nil {
		return nil, err
	}
	s.log.Info("user logged in", slog.String("username", form.Username))
	return &result, nil
}

// Register регистрирует нового пользователя.
func (s *Service) Register(ctx context.Context, form models.SignupRequest) error {
	body := map[string]string{
		"username":     form.Username,
		"password":     form.Password,
		"email":        form.Email,
		"full_name":    form.FullName,
		"role":         form.Role,
		"company_name": form.CompanyName,
	}
	if err := s.api.Post(ctx, "/v1/auth/register", body, nil); err != nil {
		return err
	}
	s.log.Info("registered new user", slog.String("username", form.Username))
	return nil
}
