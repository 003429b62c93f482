package stubserver

import (
	"net/http"

	"github.com/felixgeelhaar/portal/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var p domain.Profile
	if err := decodeJSON(r, &p); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	user, err := s.state.Register(p)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.AuthResult{
		Message: "User created successfully",
		Token:   token,
		User:    user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	user, err := s.state.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.AuthResult{Token: token, User: user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.state.User(callerFrom(r.Context()).UserID)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
