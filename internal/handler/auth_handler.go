package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shashwatpal1021/Master-O/internal/model"
	"github.com/shashwatpal1021/Master-O/internal/service"
	"github.com/shashwatpal1021/Master-O/pkg/apierror"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

type AuthHandler struct {
	service       *service.AuthService
	secureCookies bool
}

func NewAuthHandler(service *service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{service: service, secureCookies: secureCookies}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", http.StatusBadRequest))
		return
	}

	user, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password, payload.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", http.StatusBadRequest))
		return
	}

	user, accessToken, refreshSecret, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, accessTokenCookie, accessToken, int(h.service.AccessTTL().Seconds()))
	h.setSessionCookie(w, refreshTokenCookie, refreshSecret, int(h.service.RefreshTTL().Seconds()))
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		writeMessage(w, http.StatusUnauthorized, "No refresh token")
		return
	}

	user, accessToken, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, accessTokenCookie, accessToken, int(h.service.AccessTTL().Seconds()))
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Logout revokes the presented refresh token, if any, and always clears both
// session cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			writeError(w, err)
			return
		}
	}

	h.clearSessionCookie(w, accessTokenCookie)
	h.clearSessionCookie(w, refreshTokenCookie)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, name string, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
