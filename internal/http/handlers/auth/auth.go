// Package auth реализует HTTP-обработчики входа, выхода и регистрации.
//
// При входе учетные данные проверяет бэкенд, консоль создает серверную
// сессию и выдает браузеру cookie с подписанным идентификатором.
// Сам токен бэкенда браузер не видит.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/bizvenue/billing-console/internal/http/httperr"
	"github.com/bizvenue/billing-console/internal/http/response"
	"github.com/bizvenue/billing-console/internal/lib/jwt"
	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/models"
	"github.com/bizvenue/billing-console/internal/services/auth"
	"github.com/bizvenue/billing-console/internal/session"
)

// Handler управляет HTTP-запросами аутентификации.
type Handler struct {
	log        *slog.Logger
	service    Service
	store      session.Store
	cookies    jwt.Maker
	sessionTTL time.Duration
	validate   *validator.Validate
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, form models.LoginRequest) (*auth.LoginResult, error)
	Register(ctx context.Context, form models.SignupRequest) error
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, service Service, store session.Store, cookies jwt.Maker, sessionTTL time.Duration) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		store:      store,
		cookies:    cookies,
		sessionTTL: sessionTTL,
		validate:   validator.New(),
	}
}

// Login godoc
// @Summary Вход пользователя
// @Description Проверяет учетные данные на бэкенде, создает сессию и выдает cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Учетные данные"
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		log.Error("failed to login", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid username or password"))
		return
	}

	sess := &session.Session{
		ID:       uuid.NewString(),
		Token:    result.Token,
		UserJSON: string(result.User),
	}
	if err := h.store.Set(r.Context(), sess, h.sessionTTL); err != nil {
		log.Error("failed to store session", sl.Err(err))
		httperr.Render(w, r, err, "could not create session")
		return
	}

	cookieValue, err := h.cookies.GenerateToken(sess.ID)
	if err != nil {
		log.Error("failed to sign session cookie", sl.Err(err))
		httperr.Render(w, r, err, "could not create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    cookieValue,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("user logged in", slog.String("session_id", sess.ID))
	render.JSON(w, r, response.OKWithData(result.User))
}

// Logout godoc
// @Summary Выход пользователя
// @Description Удаляет серверную сессию и гасит cookie. Идемпотентен.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response "Выход выполнен"
// @Router /logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if claims, err := h.cookies.ParseToken(cookie.Value); err == nil {
			if err := h.store.Clear(r.Context(), claims.SessionID); err != nil {
				log.Warn("failed to clear session", sl.Err(err))
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("user logged out")
	render.JSON(w, r, response.OK())
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создает учетную запись компании или клиента на бэкенде.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Данные регистрации"
// @Success 200 {object} response.Response "Регистрация выполнена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /signup [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SignupRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	if err := h.service.Register(r.Context(), req); err != nil {
		log.Error("failed to register", sl.Err(err))
		httperr.Render(w, r, err, "could not register user")
		return
	}

	log.Info("registered new user", slog.String("username", req.Username))
	render.JSON(w, r, response.OK())
}
