// Package backend реализует единый исходящий HTTP-клиент биллингового бэкенда.
//
// Клиент прикрепляет bearer-токен из сессии текущего запроса и глобально
// обрабатывает отказ авторизации: любой ответ 401/403 очищает сессию
// и превращается в ErrUnauthorized, поэтому вызывающим не нужна
// собственная обработка протухшего токена. Остальные неуспешные статусы
// доходят до вызывающего как *StatusError без изменений.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/session"
)

// ErrUnauthorized возвращается после ответа бэкенда 401/403.
// К этому моменту сессия вызывающего уже очищена.
var ErrUnauthorized = errors.New("backend: unauthorized")

// StatusError описывает неуспешный статус бэкенда, кроме отказа авторизации.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: status %d: %s", e.Code, e.Message)
}

// SessionCleaner описывает очистку сессии после отказа авторизации.
type SessionCleaner interface {
	Clear(ctx context.Context, id string) error
}

// Client единый клиент бэкенда с базовым адресом и таймаутом транспорта.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   SessionCleaner
	log        *slog.Logger
}

// New создает клиент бэкенда. Повторов для мутационных вызовов нет:
// неуспешный вызов возвращает ошибку, локальное состояние не меняется.
func New(baseURL string, timeout time.Duration, sessions SessionCleaner, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		sessions:   sessions,
		log:        log,
	}
}

// Get выполняет GET-запрос и декодирует JSON-ответ в out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post выполняет POST-запрос с JSON-телом, out может быть nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put выполняет PUT-запрос с JSON-телом, body и out могут быть nil.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch выполняет PATCH-запрос с JSON-телом.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete выполняет DELETE-запрос, тело ответа не читается.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Blob выполняет GET-запрос и возвращает сырые байты ответа
// вместе с content-type, используется для выгрузки PDF.
func (c *Client) Blob(ctx context.Context, path string) ([]byte, string, error) {
	const op = "backend.Blob"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(ctx, resp); err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	// без токена запрос уходит неаутентифицированным, решение за бэкендом
	if sess, ok := session.FromContext(ctx); ok && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	const op = "backend.do"
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(ctx, resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) checkStatus(ctx context.Context, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.dropSession(ctx)
		return ErrUnauthorized
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return &StatusError{
			Code:    resp.StatusCode,
			Message: errorMessage(resp),
		}
	}
	return nil
}

// dropSession очищает сессию текущего запроса после отказа авторизации.
// Ошибка хранилища не скрывает сам отказ, только логируется.
func (c *Client) dropSession(ctx context.Context) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return
	}
	if err := c.sessions.Clear(ctx, sess.ID); err != nil {
		c.log.Warn("failed to clear session after auth failure", sl.Err(err))
	}
}

// errorMessage достает сообщение об ошибке из тела ответа бэкенда,
// при нераспознанном теле возвращает текст статуса.
func errorMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return resp.Status
}
