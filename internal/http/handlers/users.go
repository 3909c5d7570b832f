package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/coffee-shop/internal/auth"
	"github.com/hongminglow/coffee-shop/internal/http/respond"
	"github.com/hongminglow/coffee-shop/internal/models"
	"github.com/hongminglow/coffee-shop/internal/models/dto"
	"github.com/hongminglow/coffee-shop/internal/storage"
)

// handleGetUser lets customers read their own account and managers read any.
func (h *AuthHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if claims.Role != models.RoleManager && claims.UserID != id {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	h.mu.Lock()
	user, err := h.store.FindByID(r.Context(), id)
	h.mu.Unlock()
	if err != nil {
		h.storeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", user)
}

// handleSetBalance overwrites an account balance. Managers only.
func (h *AuthHandler) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	if claims.Role != models.RoleManager {
		respond.Error(w, http.StatusForbidden, "manager role required")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.BalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRequest(req); err != nil {
		respond.ErrorCode(w, http.StatusBadRequest, respond.CodeInvalidRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	user, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	user.Balance = *req.Balance
	if err := h.store.Save(r.Context(), user); err != nil {
		h.storeError(w, err)
		return
	}
	h.log.Info().Int64("id", id).Int64("by", claims.UserID).Str("balance", strconv.FormatFloat(user.Balance, 'f', 2, 64)).Msg("balance updated")
	respond.JSON(w, http.StatusOK, "balance updated", user)
}

func (h *AuthHandler) authenticate(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(raw) == "" {
		respond.Error(w, http.StatusUnauthorized, "missing bearer token")
		return auth.Claims{}, false
	}
	claims, err := h.tokens.Parse(strings.TrimSpace(raw))
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid token")
		return auth.Claims{}, false
	}
	return claims, true
}

func (h *AuthHandler) storeError(w http.ResponseWriter, err error) {
	var we *storage.WriteError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user does not exist")
	case errors.Is(err, storage.ErrInvalidUser):
		respond.ErrorCode(w, http.StatusBadRequest, respond.CodeInvalidRequest, err.Error())
	case errors.Is(err, storage.ErrCapacity):
		respond.ErrorCode(w, http.StatusConflict, respond.CodeCapacityExceeded, "user store is read-only")
	case errors.As(err, &we):
		h.log.Error().Err(err).Msg("user store write failed")
		respond.Error(w, http.StatusInternalServerError, "failed to save user")
	default:
		h.log.Error().Err(err).Msg("user store error")
		respond.Error(w, http.StatusInternalServerError, "user store unavailable")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
