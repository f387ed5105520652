// Package httperr преобразует ошибки сервисного слоя в HTTP-ответы консоли.
//
// Отказ авторизации бэкенда к этому моменту уже очистил сессию в адаптере,
// здесь остается только отправить посетителя на вход. Статусные ошибки
// бэкенда проходят к вызывающему без изменений, все остальное сворачивается
// в 500 с запасным сообщением.
package httperr

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/bizvenue/billing-console/internal/backend"
	"github.com/bizvenue/billing-console/internal/http/response"
)

// Render пишет HTTP-ответ по ошибке сервисного слоя.
func Render(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, backend.ErrUnauthorized) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		w.WriteHeader(statusErr.Code)
		render.JSON(w, r, response.Error(statusErr.Message))
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	render.JSON(w, r, response.Error(fallback))
}
