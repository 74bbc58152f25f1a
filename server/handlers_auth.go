package server

import (
	"net/http"

	"github.com/fieldhq/fieldhq/auth"
)

// handleLogin authenticates the admin and issues a JWT access token.
// POST /api/auth/login {email, password} → {token, email}
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	admin, err := s.admins.Authenticate(req.Email, req.Password)
	if err != nil {
		s.logger.Warnw("Login rejected", "email", req.Email)
		writeDomainError(w, err)
		return
	}

	token, err := s.jwt.GenerateToken(&auth.Claims{AdminID: admin.ID, Email: admin.Email})
	if err != nil {
		s.logger.Errorw("Failed to issue token", "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"email": admin.Email,
	})
}
