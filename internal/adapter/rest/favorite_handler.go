package rest

import (
	"context"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, listingID string) (*domain.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, listingID string) error
	GetFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error)
}

type FavoriteHandler struct {
	svc    FavoriteService
	logger *logger.Logger
}

func NewFavoriteHandler(svc FavoriteService, log *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{svc: svc, logger: log.Named("FavoriteHandler")}
}

type addFavoriteRequest struct {
	ListingID string `json:"listingId"`
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req addFavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if req.ListingID == "" {
		respondError(w, r, h.logger, domain.InputError("listingId is required"))
		return
	}
	fav, err := h.svc.AddFavorite(r.Context(), userID, req.ListingID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondData(w, http.StatusCreated, "favorite", fav)
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	if err := h.svc.RemoveFavorite(r.Context(), userID, chi.URLParam(r, "listingID")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	favs, err := h.svc.GetFavorites(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondList(w, "favorites", favs)
}
