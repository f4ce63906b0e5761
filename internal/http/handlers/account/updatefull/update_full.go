// Package updatefull реализует HTTP-обработчик полного обновления
// учётной записи, заданной полем email в теле запроса.
//
// В отличие от частичного обновления все изменяемые поля обязательны
// и перезаписываются целиком.
package updatefull

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-manager/internal/http/response"
	"github.com/magabrotheeeer/account-manager/internal/lib/sl"
	"github.com/magabrotheeeer/account-manager/internal/models"
	"github.com/magabrotheeeer/account-manager/internal/services"
)

// Request — входные данные полного обновления. Поле email задаёт
// целевую учётную запись, остальные поля обязательны и перезаписываются
// целиком. Формат new_email проверяет бизнес-логика.
type Request struct {
	Email    string `json:"email" validate:"required"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	NewEmail string `json:"new_email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

// Service описывает интерфейс бизнес-логики полного обновления.
type Service interface {
	UpdateFull(ctx context.Context, email, name, newEmail, rawPassword string, isActive bool) (*models.Account, error)
}

// Handler обрабатывает запросы на полное обновление учётной записи.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Полностью обновить учётную запись
// @Description Перезаписывает все изменяемые поля учётной записи, найденной по email.
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Новое состояние учётной записи"
// @Success 200 {object} response.Response "Обновлённая учётная запись"
// @Failure 400 {object} response.ErrorResponse "Email занят или некорректен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /account_full_update [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.updatefull"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	account, err := h.service.UpdateFull(r.Context(), req.Email,
		req.Name, req.NewEmail, req.Password, *req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			log.Error("account not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
		case errors.Is(err, services.ErrDuplicateEmail):
			log.Error("new email already registered")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("email already registered"))
		case errors.Is(err, services.ErrInvalidEmail):
			log.Error("invalid new email format")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid email format"))
		default:
			log.Error("failed to update account", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update account"))
		}
		return
	}

	log.Info("account updated", slog.Int("id", account.ID))
	render.JSON(w, r, response.OKWithData(models.ToResponse(account)))
}
