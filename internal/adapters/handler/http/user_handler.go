package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskstack/api/internal/core/domain"
	"github.com/taskstack/api/internal/core/ports"
)

// maxAvatarSize caps avatar uploads at 1 MB.
const maxAvatarSize = 1 << 20

type UserHandler struct {
	users ports.UserService
	auth  ports.AuthService
}

func NewUserHandler(users ports.UserService, auth ports.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input ports.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, token, err := h.users.Signup(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.auth.FindByCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.auth.IssueToken(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	token, tokenOK := tokenFromContext(r)
	if !ok || !tokenOK {
		respondError(w, domain.ErrAuthenticationRequired)
		return
	}

	if err := h.auth.Logout(r.Context(), user.ID, token); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, domain.ErrAuthenticationRequired)
		return
	}

	if err := h.auth.LogoutAll(r.Context(), user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, domain.ErrAuthenticationRequired)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) PatchMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, domain.ErrAuthenticationRequired)
		return
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.users.Patch(r.Context(), user.ID, payload)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, domain.ErrAuthenticationRequired)
		return
	}

	deleted, err := h.users.Delete(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deleted)
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, domain.ErrAuthenticationRequired)
		return
	}

	raw, err := readAvatarUpload(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid avatar upload"})
		return
	}

	if err := h.users.UploadAvatar(r.Context(), user.ID, raw); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, domain.ErrAuthenticationRequired)
		return
	}

	if err := h.users.DeleteAvatar(r.Context(), user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetAvatar serves raw avatar bytes. Public route, no auth.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, domain.ErrNotFound)
		return
	}

	avatar, err := h.users.Avatar(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(avatar)
}

// readAvatarUpload accepts either a multipart form with an "avatar" file
// field or a raw image body.
func readAvatarUpload(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxAvatarSize)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("avatar")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	return io.ReadAll(r.Body)
}
