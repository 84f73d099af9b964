package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/freshcart/freshcart-api/internal/application/user"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

const refreshCookieName = "refresh_token"

// UserHandler handles registration, verification, authentication and user
// CRUD endpoints.
type UserHandler struct {
	svc        user.Service
	refreshTTL time.Duration
	secure     bool
}

func NewUserHandler(svc user.Service, refreshTTL time.Duration, secureCookies bool) *UserHandler {
	return &UserHandler{svc: svc, refreshTTL: refreshTTL, secure: secureCookies}
}

func deviceInfo(r *http.Request) domain.DeviceInfo {
	return domain.DeviceInfo{
		UserAgent: r.UserAgent(),
		IP:        middleware.RealIP(r),
	}
}

func (h *UserHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/v1/users",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *UserHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/v1/users",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Data:    u,
		Message: "account created, check your email for the verification code",
	})
}

func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	pair, err := h.svc.VerifyEmail(r.Context(), req, deviceInfo(r))
	if err != nil {
		handleError(w, err)
		return
	}
	h.setRefreshCookie(w, pair.RefreshToken)
	writeData(w, http.StatusOK, pair)
}

func (h *UserHandler) VerifyPhone(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := h.svc.VerifyPhone(r.Context(), req); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "phone number verified")
}

func (h *UserHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.ResendOTPRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := h.svc.ResendOTP(r.Context(), req); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "verification code sent")
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	pair, err := h.svc.Login(r.Context(), req, deviceInfo(r))
	if err != nil {
		handleError(w, err)
		return
	}
	h.setRefreshCookie(w, pair.RefreshToken)
	writeData(w, http.StatusOK, pair)
}

// Refresh rotates the refresh token. The token is read from the HTTP-only
// cookie, falling back to the body for non-browser clients.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(refreshCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		var req domain.RefreshRequest
		if err := decode(r, &req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		handleError(w, domain.ErrInvalidRefreshToken)
		return
	}

	pair, err := h.svc.Refresh(r.Context(), token, deviceInfo(r))
	if err != nil {
		h.clearRefreshCookie(w)
		handleError(w, err)
		return
	}
	h.setRefreshCookie(w, pair.RefreshToken)
	writeData(w, http.StatusOK, pair)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	token := ""
	if c, err := r.Cookie(refreshCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		var req domain.RefreshRequest
		if err := decode(r, &req); err == nil {
			token = req.RefreshToken
		}
	}
	// With a token only that session ends; without one the client has no way
	// to name a session, so all of them are revoked.
	var err error
	if token != "" {
		err = h.svc.Logout(r.Context(), claims.UserID, token)
	} else {
		err = h.svc.LogoutAll(r.Context(), claims.UserID)
	}
	if err != nil {
		handleError(w, err)
		return
	}
	h.clearRefreshCookie(w)
	writeMessage(w, http.StatusOK, "logged out")
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	u, err := h.svc.Profile(r.Context(), claims.UserID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.UpdateUserRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	// Self-service updates never touch role or enable.
	req.Role = nil
	req.Enable = nil
	u, err := h.svc.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		handleError(w, domain.ErrUnauthorized)
		return
	}
	var req domain.ChangePasswordRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := h.svc.ChangePassword(r.Context(), claims.UserID, req); err != nil {
		handleError(w, err)
		return
	}
	h.clearRefreshCookie(w)
	writeMessage(w, http.StatusOK, "password changed, please log in again")
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")
	res, err := h.svc.List(r.Context(), int32(limit), cursor)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *UserHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateUserRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	u, err := h.svc.AdminUpdate(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "user deleted")
}
