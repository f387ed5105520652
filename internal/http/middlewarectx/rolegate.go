// Package middlewarectx содержит HTTP middleware ролевого гейта консоли.
//
// RoleGate решает вопрос допуска в ролевое поддерево маршрутов до того,
// как выполнится обработчик: без валидной сессии посетитель уходит на
// страницу входа с сохранением исходного адреса, аутентифицированный
// пользователь с чужой ролью — на домашний маршрут своей роли, и никогда
// на вход. Токен при этом не проверяется у бэкенда: серверный отказ
// авторизации обрабатывает адаптер бэкенда отдельно.
package middlewarectx

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"

	"github.com/bizvenue/billing-console/internal/lib/jwt"
	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/session"
)

// Маршруты переадресации гейта.
const (
	loginRoute       = "/login"
	companyHomeRoute = "/dashboard"
	clientHomeRoute  = "/client/dashboard"
)

// CookieParser описывает разбор подписанного значения cookie сессии.
type CookieParser interface {
	ParseToken(tokenStr string) (*jwt.SessionClaims, error)
}

// RoleGate возвращает middleware, допускающий в поддерево только
// пользователей с требуемой ролью.
func RoleGate(log *slog.Logger, store session.Store, cookies CookieParser, requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RoleGate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			toLogin := func() {
				from := url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, loginRoute+"?from="+from, http.StatusFound)
			}

			cookie, err := r.Cookie(session.CookieName)
			if err != nil {
				log.Info("no session cookie")
				toLogin()
				return
			}

			claims, err := cookies.ParseToken(cookie.Value)
			if err != nil {
				log.Warn("invalid session cookie", sl.Err(err))
				toLogin()
				return
			}

			sess, err := store.Get(r.Context(), claims.SessionID)
			if err != nil {
				// хранилище недоступно, закрываем доступ
				log.Error("failed to read session", sl.Err(err))
				toLogin()
				return
			}
			if sess == nil || sess.Token == "" || sess.UserJSON == "" {
				log.Info("session is missing or incomplete")
				toLogin()
				return
			}

			user, err := sess.User()
			if err != nil {
				log.Error("malformed user in session", sl.Err(err))
				http.Redirect(w, r, loginRoute, http.StatusFound)
				return
			}

			if user.Role != requiredRole {
				home := companyHomeRoute
				if user.Role == session.RoleClient {
					home = clientHomeRoute
				}
				log.Warn("access denied for role",
					slog.String("role", user.Role),
					slog.String("required", requiredRole))
				// пользователь аутентифицирован, на вход не отправляем
				http.Redirect(w, r, home, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.IntoContext(r.Context(), sess)))
		})
	}
}
