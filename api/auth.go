package api

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/madanco/crewdeck/pkg/models"
	"github.com/madanco/crewdeck/pkg/repository"
)

type AuthHandler struct {
	userRepo       repository.UserRepo
	credentialRepo repository.CredentialRepo
	jwtSecret      string
	tokenDuration  time.Duration
}

func NewAuthHandler(ur repository.UserRepo, cr repository.CredentialRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, credentialRepo: cr, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success      bool         `json:"success"`
	User         *models.User `json:"user,omitempty"`
	SessionToken string       `json:"sessionToken,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// Login checks credentials and mints a session token. Failures are uniform:
// the response never says whether the username or the password was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, loginResponse{Success: false, Error: "invalid request"}, http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, loginResponse{Success: false, Error: "missing fields"}, http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		logger.Error("login user lookup", slog.Any("err", err))
		writeJSON(w, loginResponse{Success: false, Error: "login failed"}, http.StatusInternalServerError)
		return
	}

	hash := ""
	if user != nil {
		hash, err = h.credentialRepo.GetCredential(ctx, req.Username)
		if err != nil {
			logger.Error("login credential lookup", slog.Any("err", err))
			writeJSON(w, loginResponse{Success: false, Error: "login failed"}, http.StatusInternalServerError)
			return
		}
	}

	if user == nil || hash == "" ||
		bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeJSON(w, loginResponse{Success: false, Error: "invalid credentials"}, http.StatusUnauthorized)
		return
	}

	token, err := MintSessionToken(user.ID, h.jwtSecret, h.tokenDuration)
	if err != nil {
		logger.Error("sign session token", slog.Any("err", err))
		writeJSON(w, loginResponse{Success: false, Error: "login failed"}, http.StatusInternalServerError)
		return
	}

	writeJSON(w, loginResponse{Success: true, User: user, SessionToken: token}, http.StatusOK)
}

// Logout is client-side token deletion; the server holds no session state.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
