package api

import (
	"encoding/json"
	"io"
	"net/http"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/madanco/crewdeck/pkg/models"
	"github.com/madanco/crewdeck/pkg/repository"
)

type UsersHandler struct {
	userRepo       repository.UserRepo
	credentialRepo repository.CredentialRepo
}

func NewUsersHandler(ur repository.UserRepo, cr repository.CredentialRepo) *UsersHandler {
	return &UsersHandler{userRepo: ur, credentialRepo: cr}
}

// ListUsers is open to any authenticated user; contractors need the roster to
// read crew names off their jobs.
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListUsers(r.Context())
	if err != nil {
		writeStoreError(w, err, "list users")
		return
	}
	writeJSON(w, users, http.StatusOK)
}

type createUserRequest struct {
	Username    string      `json:"username"`
	Name        string      `json:"name"`
	Role        models.Role `json:"role"`
	Specialties []string    `json:"specialties"`
}

func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if currentUser(r).Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	ctx := r.Context()
	if err := validatePayload(ctx, userSchema, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req createUserRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	existing, err := h.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		writeStoreError(w, err, "check username")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "username already taken")
		return
	}

	user := &models.User{
		ID:          uuid.NewString(),
		Username:    req.Username,
		Name:        req.Name,
		Role:        req.Role,
		Specialties: req.Specialties,
	}
	if err := h.userRepo.CreateUser(ctx, user); err != nil {
		writeStoreError(w, err, "create user")
		return
	}

	// Default password is username+"123"; the admin hands it over out of band
	// and only the bcrypt hash is stored.
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Username+"123"), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash default password", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.credentialRepo.SetCredential(ctx, req.Username, string(hash)); err != nil {
		writeStoreError(w, err, "store credential")
		return
	}

	writeJSON(w, user, http.StatusCreated)
}

type updateUserRequest struct {
	Username    *string      `json:"username"`
	Name        *string      `json:"name"`
	Role        *models.Role `json:"role"`
	Specialties *[]string    `json:"specialties"`
}

func (h *UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if currentUser(r).Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Role != nil && !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	ctx := r.Context()
	id := mux.Vars(r)["id"]

	user, err := h.userRepo.GetUserByID(ctx, id)
	if err != nil {
		writeStoreError(w, err, "get user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := h.userRepo.GetUserByUsername(ctx, *req.Username)
		if err != nil {
			writeStoreError(w, err, "check username")
			return
		}
		if taken != nil {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		user.Username = *req.Username
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Specialties != nil {
		user.Specialties = *req.Specialties
	}

	if err := h.userRepo.UpdateUser(ctx, user); err != nil {
		writeStoreError(w, err, "update user")
		return
	}
	writeJSON(w, user, http.StatusOK)
}

func (h *UsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if currentUser(r).Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	ctx := r.Context()
	id := mux.Vars(r)["id"]

	user, err := h.userRepo.GetUserByID(ctx, id)
	if err != nil {
		writeStoreError(w, err, "get user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.userRepo.DeleteUser(ctx, id); err != nil {
		writeStoreError(w, err, "delete user")
		return
	}
	// Outstanding session tokens die with the user record, since session
	// validation resolves the user id on every request. The credential row
	// is removed separately so the username can be reused.
	if err := h.credentialRepo.DeleteCredential(ctx, user.Username); err != nil {
		writeStoreError(w, err, "delete credential")
		return
	}

	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
