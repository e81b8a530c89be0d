package rest

import (
	"context"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

type UserService interface {
	GetMe(ctx context.Context, id string) (*domain.User, error)
	UpdateMe(ctx context.Context, id string, in usecase.UpdateMeInput) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, in usecase.CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, in usecase.AdminUpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type UserHandler struct {
	svc    UserService
	logger *logger.Logger
}

func NewUserHandler(svc UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: log.Named("UserHandler")}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, _ := UserIDFromContext(r.Context())
	user, err := h.svc.GetMe(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "user", user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, _ := UserIDFromContext(r.Context())
	var in usecase.UpdateMeInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	user, err := h.svc.UpdateMe(r.Context(), id, in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "user", user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondList(w, "users", users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "user", user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateUserInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	user, err := h.svc.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusCreated, "user", user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.AdminUpdateUserInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	user, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "user", user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
