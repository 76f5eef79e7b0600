package handler

import (
	"errors"
	"net/http"

	"visitor-console/internal/auth"

	"go.uber.org/zap"
)

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignIn opens an admin session
// @Summary Sign in
// @Description Check the admin credentials and set the session cookie
// @Tags auth
// @Accept json
// @Param credentials body signInRequest true "Admin credentials"
// @Success 204 "Signed in"
// @Failure 400 {object} map[string]interface{} "Invalid JSON payload"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Router /auth/sign-in [post]
func (d *Deps) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := d.Auth.SignIn(w, req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			d.Logger.Warn("admin sign-in rejected", zap.String("username", req.Username))
		}
		jsonError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SignOut closes the admin session
// @Summary Sign out
// @Tags auth
// @Success 204 "Signed out"
// @Router /auth/sign-out [post]
func (d *Deps) SignOut(w http.ResponseWriter, r *http.Request) {
	d.Auth.SignOut(w, r)
	w.WriteHeader(http.StatusNoContent)
}
