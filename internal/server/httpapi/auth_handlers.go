package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/crtrstudio/internal/common"
	"github.com/dmitrijs2005/crtrstudio/internal/server/services"
)

const msgLoggedOut = "Logged out successfully"

// UserService is the part of services.UserService the handlers need.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
	Me(ctx context.Context, userID string) (*services.PublicUser, error)
}

type AuthHandler struct {
	users UserService
}

func NewAuthHandler(users UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type messageResponse struct {
	Message string `json:"message"`
}

type meResponse struct {
	User *services.PublicUser `json:"user"`
}

// HandleRegister handles POST /api/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		return err
	}

	res, err := h.users.Register(r.Context(), in)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusCreated, res)
	return nil
}

// HandleLogin handles POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		return err
	}

	res, err := h.users.Login(r.Context(), in)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, res)
	return nil
}

// HandleLogout handles POST /api/auth/logout. Tokens are stateless, so this
// only acknowledges; the client drops its copy.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) error {
	RespondWithJSON(w, http.StatusOK, messageResponse{Message: msgLoggedOut})
	return nil
}

// HandleMe handles GET /api/auth/me behind RequireAuth.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) error {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return common.Unauthorized(msgNoToken)
	}

	user, err := h.users.Me(r.Context(), claims.UserID)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, meResponse{User: user})
	return nil
}
