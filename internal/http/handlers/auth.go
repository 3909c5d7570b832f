package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hongminglow/coffee-shop/internal/auth"
	"github.com/hongminglow/coffee-shop/internal/http/respond"
	"github.com/hongminglow/coffee-shop/internal/metrics"
	"github.com/hongminglow/coffee-shop/internal/models"
	"github.com/hongminglow/coffee-shop/internal/models/dto"
	"github.com/hongminglow/coffee-shop/internal/storage"
)

// AuthHandler owns the register, login and user endpoints. The user store is
// single-threaded, so every request that touches it holds mu.
type AuthHandler struct {
	mu      sync.Mutex
	svc     *auth.Service
	store   storage.UserStore
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *auth.Service, store storage.UserStore, tokens *auth.TokenManager, m *metrics.Metrics, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, store: store, tokens: tokens, metrics: m, log: log}
}

// Register attaches auth and user routes to the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Get("/users/{id}", h.handleGetUser)
	r.Put("/users/{id}/balance", h.handleSetBalance)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRequest(req); err != nil {
		respond.ErrorCode(w, http.StatusBadRequest, respond.CodeInvalidRequest, err.Error())
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		respond.ErrorCode(w, http.StatusBadRequest, respond.CodeInvalidRequest, "role must be customer or manager")
		return
	}

	h.mu.Lock()
	id, err := h.svc.Register(r.Context(), role, auth.StaticInput{
		Reg: auth.Registration{Name: req.Name, Phone: req.Phone, Password: req.Password},
	})
	h.mu.Unlock()
	if err != nil {
		h.metrics.Registrations.WithLabelValues(role.String(), metrics.OutcomeFailure).Inc()
		switch {
		case errors.Is(err, storage.ErrInvalidUser):
			respond.ErrorCode(w, http.StatusBadRequest, respond.CodeInvalidRequest, err.Error())
		case errors.Is(err, storage.ErrCapacity):
			respond.ErrorCode(w, http.StatusConflict, respond.CodeCapacityExceeded, "user count exceeds maximum limit")
		default:
			h.log.Error().Err(err).Msg("create user error")
			respond.Error(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	h.metrics.Registrations.WithLabelValues(role.String(), metrics.OutcomeSuccess).Inc()
	respond.JSON(w, http.StatusCreated, "registration successful", dto.RegisterResponse{ID: id})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRequest(req); err != nil {
		respond.ErrorCode(w, http.StatusBadRequest, respond.CodeInvalidRequest, err.Error())
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		respond.ErrorCode(w, http.StatusBadRequest, respond.CodeInvalidRequest, "role must be customer or manager")
		return
	}

	h.mu.Lock()
	id, err := h.svc.Login(r.Context(), role, auth.StaticInput{
		Creds: auth.Credentials{ID: req.ID, Password: req.Password},
	})
	var user models.User
	if err == nil {
		user, err = h.store.FindByID(r.Context(), id)
	}
	h.mu.Unlock()
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.metrics.Logins.WithLabelValues(role.String(), string(auth.KindOf(err))).Inc()
			respond.ErrorCode(w, http.StatusUnauthorized, respond.CodeInvalidCredentials, "invalid credentials")
			return
		}
		h.metrics.Logins.WithLabelValues(role.String(), metrics.OutcomeFailure).Inc()
		h.log.Error().Err(err).Int64("id", req.ID).Msg("login failed")
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	h.metrics.Logins.WithLabelValues(role.String(), metrics.OutcomeSuccess).Inc()
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: token, User: user})
}
